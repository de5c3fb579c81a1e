// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the book club API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(service, st, logger)

# Endpoints

Health:

	GET /health

Club periods:

	GET  /club/{clubId}/estado-actual      - Active period or INACTIVO
	POST /club/{clubId}/periodos           - Open voting on to-read books
	GET  /club/{clubId}/periodos/historial - Closed periods, newest first

Period operations:

	POST /periodo/{periodoId}/votar            - Cast or replace a vote
	PUT  /periodo/{periodoId}/cerrar-votacion  - Pick the winner, start reading
	PUT  /periodo/{periodoId}/concluir-lectura - Mark the book read, close

Notifications:

	GET    /usuarios/{userId}/notificaciones
	GET    /usuarios/{userId}/notificaciones/no-leidas/count
	PUT    /usuarios/{userId}/notificaciones/leer-todas
	DELETE /usuarios/{userId}/notificaciones/leidas
	PUT    /notificaciones/{notificacionId}/leer
	DELETE /notificaciones/{notificacionId}

Every API route is wrapped in middleware.WithLogging with the injected zap
logger. CORS is applied around the whole mux in main.
*/
package router
