// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/bookclub/auth"
	"github.com/danielhkuo/bookclub/models"
	"github.com/danielhkuo/bookclub/store"
	"github.com/danielhkuo/bookclub/testutil"
)

// seedInbox writes three notifications, the middle one already read
func seedInbox(t *testing.T, st *store.Store, userID string) []models.Notification {
	t.Helper()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	inbox := []models.Notification{
		{ID: auth.NewID(), UserID: userID, Type: models.NotifyVotingOpened, Title: "Nueva votación", Message: "a", CreatedAt: base},
		{ID: auth.NewID(), UserID: userID, Type: models.NotifyVotingClosed, Title: "Votación cerrada", Message: "b", Read: true, CreatedAt: base.Add(time.Hour),
			Data: map[string]any{"periodoId": "p1"}},
		{ID: auth.NewID(), UserID: userID, Type: models.NotifyReadingFinished, Title: "Lectura concluida", Message: "c", CreatedAt: base.Add(2 * time.Hour)},
	}
	if err := st.InsertNotifications(context.Background(), inbox); err != nil {
		t.Fatalf("Failed to seed notifications: %v", err)
	}
	return inbox
}

func TestListNotifications(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	handler := NewNotificationHandler(st, zap.NewNop())

	userID := testutil.CreateUser(t, conn, "ana")
	other := testutil.CreateUser(t, conn, "beto")
	seedInbox(t, st, userID)
	seedInbox(t, st, other)

	tests := []struct {
		name       string
		userID     string
		query      string
		wantStatus int
		wantTitles []string
	}{
		{"all newest first", userID, "", http.StatusOK, []string{"Lectura concluida", "Votación cerrada", "Nueva votación"}},
		{"unread only", userID, "?leidas=false", http.StatusOK, []string{"Lectura concluida", "Nueva votación"}},
		{"read only", userID, "?leidas=true", http.StatusOK, []string{"Votación cerrada"}},
		{"invalid filter", userID, "?leidas=quizas", http.StatusBadRequest, nil},
		{"unknown user", "missing", "", http.StatusNotFound, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler.List, "GET", "/usuarios/"+tt.userID+"/notificaciones"+tt.query,
				map[string]string{"userId": tt.userID}, nil)
			testutil.AssertStatus(t, w, tt.wantStatus)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp models.NotificationsResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Total != len(tt.wantTitles) {
				t.Fatalf("Expected %d notifications, got %d", len(tt.wantTitles), resp.Total)
			}
			for i, n := range resp.Notifications {
				if n.Title != tt.wantTitles[i] {
					t.Errorf("Position %d: expected %q, got %q", i, tt.wantTitles[i], n.Title)
				}
				if n.UserID != userID {
					t.Errorf("Notification for another user leaked: %+v", n)
				}
			}
		})
	}
}

func TestListNotifications_Data(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	handler := NewNotificationHandler(st, zap.NewNop())

	userID := testutil.CreateUser(t, conn, "ana")
	seedInbox(t, st, userID)

	w := serve(handler.List, "GET", "/usuarios/"+userID+"/notificaciones?leidas=true",
		map[string]string{"userId": userID}, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.NotificationsResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Notifications) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(resp.Notifications))
	}
	if got := resp.Notifications[0].Data["periodoId"]; got != "p1" {
		t.Errorf("Expected datos.periodoId p1, got %v", got)
	}
}

func TestUnreadCount(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	handler := NewNotificationHandler(st, zap.NewNop())

	userID := testutil.CreateUser(t, conn, "ana")
	empty := testutil.CreateUser(t, conn, "beto")
	seedInbox(t, st, userID)

	tests := []struct {
		name       string
		userID     string
		wantStatus int
		wantCount  int
	}{
		{"with unread", userID, http.StatusOK, 2},
		{"empty inbox", empty, http.StatusOK, 0},
		{"unknown user", "missing", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler.UnreadCount, "GET", "/usuarios/"+tt.userID+"/notificaciones/no-leidas/count",
				map[string]string{"userId": tt.userID}, nil)
			testutil.AssertStatus(t, w, tt.wantStatus)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp models.UnreadCountResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Count != tt.wantCount {
				t.Errorf("Expected %d unread, got %d", tt.wantCount, resp.Count)
			}
		})
	}
}

func TestMarkRead(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	handler := NewNotificationHandler(st, zap.NewNop())

	userID := testutil.CreateUser(t, conn, "ana")
	inbox := seedInbox(t, st, userID)

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"unread becomes read", inbox[0].ID, http.StatusOK},
		{"already read", inbox[1].ID, http.StatusOK},
		{"unknown notification", "missing", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(handler.MarkRead, "PUT", "/notificaciones/"+tt.id+"/leer",
				map[string]string{"notificacionId": tt.id}, nil)
			testutil.AssertStatus(t, w, tt.wantStatus)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp models.NotificationResponse
			testutil.AssertJSON(t, w, &resp)
			if !resp.Notification.Read || resp.Notification.ID != tt.id {
				t.Errorf("Expected notification %s marked read, got %+v", tt.id, resp.Notification)
			}
		})
	}

	w := serve(handler.UnreadCount, "GET", "/usuarios/"+userID+"/notificaciones/no-leidas/count",
		map[string]string{"userId": userID}, nil)
	var count models.UnreadCountResponse
	testutil.AssertJSON(t, w, &count)
	if count.Count != 1 {
		t.Errorf("Expected 1 unread left, got %d", count.Count)
	}
}

func TestMarkAllReadAndClearRead(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	handler := NewNotificationHandler(st, zap.NewNop())

	userID := testutil.CreateUser(t, conn, "ana")
	other := testutil.CreateUser(t, conn, "beto")
	seedInbox(t, st, userID)
	seedInbox(t, st, other)
	pv := map[string]string{"userId": userID}

	w := serve(handler.MarkAllRead, "PUT", "/usuarios/"+userID+"/notificaciones/leer-todas", pv, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var marked models.NotificationCountResponse
	testutil.AssertJSON(t, w, &marked)
	if marked.Count != 2 {
		t.Errorf("Expected 2 marked read, got %d", marked.Count)
	}

	w = serve(handler.List, "GET", "/usuarios/"+userID+"/notificaciones?leidas=true", pv, nil)
	var read models.NotificationsResponse
	testutil.AssertJSON(t, w, &read)
	if read.Total != 3 {
		t.Errorf("Expected 3 read notifications, got %d", read.Total)
	}

	w = serve(handler.ClearRead, "DELETE", "/usuarios/"+userID+"/notificaciones/leidas", pv, nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var cleared models.NotificationCountResponse
	testutil.AssertJSON(t, w, &cleared)
	if cleared.Count != 3 {
		t.Errorf("Expected 3 cleared, got %d", cleared.Count)
	}

	if n := testutil.CountRows(t, conn, "notifications", "user_id = $1", userID); n != 0 {
		t.Errorf("Expected empty inbox, got %d rows", n)
	}
	// Another user's inbox is untouched
	if n := testutil.CountRows(t, conn, "notifications", "user_id = $1 AND read = $2", other, false); n != 2 {
		t.Errorf("Expected other inbox to keep 2 unread, got %d", n)
	}

	for _, h := range []http.HandlerFunc{handler.MarkAllRead, handler.ClearRead} {
		w = serve(h, "PUT", "/usuarios/missing/notificaciones", map[string]string{"userId": "missing"}, nil)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	}
}

func TestDeleteNotification(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	handler := NewNotificationHandler(st, zap.NewNop())

	userID := testutil.CreateUser(t, conn, "ana")
	inbox := seedInbox(t, st, userID)
	pv := map[string]string{"notificacionId": inbox[0].ID}

	w := serve(handler.Delete, "DELETE", "/notificaciones/"+inbox[0].ID, pv, nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	if n := testutil.CountRows(t, conn, "notifications", "user_id = $1", userID); n != 2 {
		t.Errorf("Expected 2 notifications left, got %d", n)
	}

	w = serve(handler.Delete, "DELETE", "/notificaciones/"+inbox[0].ID, pv, nil)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
