// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/danielhkuo/bookclub/middleware"
	"github.com/danielhkuo/bookclub/models"
	"github.com/danielhkuo/bookclub/store"
)

// inboxLimit is how many notifications a listing returns
const inboxLimit = 50

type NotificationHandler struct {
	store  *store.Store
	logger *zap.Logger
}

func NewNotificationHandler(st *store.Store, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{store: st, logger: logger}
}

// List handles GET /usuarios/{userId}/notificaciones
// Optional ?leidas=true|false filters by read state.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var read *bool
	if raw := r.URL.Query().Get("leidas"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "leidas debe ser true o false")
			return
		}
		read = &v
	}

	notifications, err := h.store.Notifications(r.Context(), userID, read, inboxLimit)
	if err != nil {
		h.logger.Error("failed to list notifications", zap.String("user_id", userID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error al obtener notificaciones")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.NotificationsResponse{
		Success:       true,
		Notifications: notifications,
		Total:         len(notifications),
	})
}

// UnreadCount handles GET /usuarios/{userId}/notificaciones/no-leidas/count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	count, err := h.store.UnreadCount(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to count notifications", zap.String("user_id", userID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error al contar notificaciones")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UnreadCountResponse{
		Success: true,
		Count:   count,
	})
}

// MarkRead handles PUT /notificaciones/{notificacionId}/leer
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("notificacionId")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "notificacionId es obligatorio")
		return
	}

	var notification models.Notification
	err := h.store.InTx(r.Context(), func(q *store.Queries) error {
		if err := q.MarkNotificationRead(r.Context(), id); err != nil {
			return err
		}
		n, err := q.NotificationByID(r.Context(), id)
		notification = n
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Notificación no encontrada")
		return
	}
	if err != nil {
		h.logger.Error("failed to mark notification read", zap.String("notification_id", id), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error al actualizar notificación")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.NotificationResponse{
		Success:      true,
		Message:      "Notificación marcada como leída",
		Notification: notification,
	})
}

// MarkAllRead handles PUT /usuarios/{userId}/notificaciones/leer-todas
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	n, err := h.store.MarkAllNotificationsRead(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to mark notifications read", zap.String("user_id", userID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error al actualizar notificaciones")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.NotificationCountResponse{
		Success: true,
		Message: fmt.Sprintf("%d notificaciones marcadas como leídas", n),
		Count:   n,
	})
}

// Delete handles DELETE /notificaciones/{notificacionId}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("notificacionId")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "notificacionId es obligatorio")
		return
	}

	err := h.store.DeleteNotification(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Notificación no encontrada")
		return
	}
	if err != nil {
		h.logger.Error("failed to delete notification", zap.String("notification_id", id), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error al eliminar notificación")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{
		Success: true,
		Message: "Notificación eliminada",
	})
}

// ClearRead handles DELETE /usuarios/{userId}/notificaciones/leidas
func (h *NotificationHandler) ClearRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	n, err := h.store.ClearReadNotifications(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to clear notifications", zap.String("user_id", userID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error al limpiar notificaciones")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.NotificationCountResponse{
		Success: true,
		Message: fmt.Sprintf("%d notificaciones eliminadas", n),
		Count:   n,
	})
}

// requireUser writes the error response itself when ok is false
func (h *NotificationHandler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.PathValue("userId")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId es obligatorio")
		return "", false
	}

	_, found, err := h.store.UserByID(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to look up user", zap.String("user_id", userID), zap.Error(err))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Error interno del servidor")
		return "", false
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, "Usuario no encontrado")
		return "", false
	}
	return userID, true
}
