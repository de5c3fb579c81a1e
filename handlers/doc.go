// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the book club API.

# Handler Types

  - PeriodHandler: reading period lifecycle on top of periods.Service
  - NotificationHandler: per-user notification inbox

	periodHandler := handlers.NewPeriodHandler(service, logger)
	notificationHandler := handlers.NewNotificationHandler(st, logger)

# Period Lifecycle

A club moves through VOTACION → LEYENDO → CERRADO, one active period at a time:

	GET  /club/{clubId}/estado-actual          → GetCurrentState
	POST /club/{clubId}/periodos               → CreatePeriod
	POST /periodo/{periodoId}/votar            → CastVote
	PUT  /periodo/{periodoId}/cerrar-votacion  → CloseVoting
	PUT  /periodo/{periodoId}/concluir-lectura → ConcludeReading
	GET  /club/{clubId}/periodos/historial     → GetHistory

The caller is named by the username field of the request body. Creating and
transitioning periods needs OWNER or MODERATOR, voting needs any membership.

# Error Mapping

Service errors carry a periods.Kind that picks the status code:

	KindNotFound     → 404
	KindForbidden    → 403
	KindInvalidState → 400
	KindInvalidInput → 400
	KindConflict     → 409

Anything else is logged and answered with a generic 500.

# Notifications

	GET    /usuarios/{userId}/notificaciones                 → List (?leidas=true|false)
	GET    /usuarios/{userId}/notificaciones/no-leidas/count → UnreadCount
	PUT    /usuarios/{userId}/notificaciones/leer-todas      → MarkAllRead
	DELETE /usuarios/{userId}/notificaciones/leidas          → ClearRead
	PUT    /notificaciones/{notificacionId}/leer             → MarkRead
	DELETE /notificaciones/{notificacionId}                  → Delete
*/
package handlers
