// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/danielhkuo/bookclub/handlers"
	"github.com/danielhkuo/bookclub/middleware"
	"github.com/danielhkuo/bookclub/periods"
	"github.com/danielhkuo/bookclub/store"
)

func NewRouter(service *periods.Service, st *store.Store, logger *zap.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	periodHandler := handlers.NewPeriodHandler(service, logger)
	notificationHandler := handlers.NewNotificationHandler(st, logger)

	logged := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(logger, h)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Club-scoped reads and period creation
	mux.HandleFunc("GET /club/{clubId}/estado-actual", logged(periodHandler.GetCurrentState))
	mux.HandleFunc("POST /club/{clubId}/periodos", logged(periodHandler.CreatePeriod))
	mux.HandleFunc("GET /club/{clubId}/periodos/historial", logged(periodHandler.GetHistory))

	// Period operations
	mux.HandleFunc("POST /periodo/{periodoId}/votar", logged(periodHandler.CastVote))
	mux.HandleFunc("PUT /periodo/{periodoId}/cerrar-votacion", logged(periodHandler.CloseVoting))
	mux.HandleFunc("PUT /periodo/{periodoId}/concluir-lectura", logged(periodHandler.ConcludeReading))

	// Notification inbox
	mux.HandleFunc("GET /usuarios/{userId}/notificaciones", logged(notificationHandler.List))
	mux.HandleFunc("GET /usuarios/{userId}/notificaciones/no-leidas/count", logged(notificationHandler.UnreadCount))
	mux.HandleFunc("PUT /usuarios/{userId}/notificaciones/leer-todas", logged(notificationHandler.MarkAllRead))
	mux.HandleFunc("DELETE /usuarios/{userId}/notificaciones/leidas", logged(notificationHandler.ClearRead))
	mux.HandleFunc("PUT /notificaciones/{notificacionId}/leer", logged(notificationHandler.MarkRead))
	mux.HandleFunc("DELETE /notificaciones/{notificacionId}", logged(notificationHandler.Delete))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bookclub API v1"))
	})

	return mux
}
