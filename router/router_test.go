// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danielhkuo/bookclub/models"
	"github.com/danielhkuo/bookclub/notify"
	"github.com/danielhkuo/bookclub/periods"
	"github.com/danielhkuo/bookclub/store"
	"github.com/danielhkuo/bookclub/testutil"
)

func newTestRouter(t *testing.T) (*http.ServeMux, *store.Store) {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	st := store.New(conn)
	return NewRouter(periods.NewService(st, zap.NewNop()), st, zap.NewNop()), st
}

func TestHealthEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux, _ := newTestRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "bookclub API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux, _ := newTestRouter(t)

	// 400 and 404 are valid handler answers for missing data
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},
		{"GET", "/club/test-club/estado-actual"},
		{"POST", "/club/test-club/periodos"},
		{"GET", "/club/test-club/periodos/historial"},
		{"POST", "/periodo/test-period/votar"},
		{"PUT", "/periodo/test-period/cerrar-votacion"},
		{"PUT", "/periodo/test-period/concluir-lectura"},
		{"GET", "/usuarios/test-user/notificaciones"},
		{"GET", "/usuarios/test-user/notificaciones/no-leidas/count"},
		{"PUT", "/usuarios/test-user/notificaciones/leer-todas"},
		{"DELETE", "/usuarios/test-user/notificaciones/leidas"},
		{"PUT", "/notificaciones/test-notification/leer"},
		{"DELETE", "/notificaciones/test-notification"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestSpecificMethodRouting(t *testing.T) {
	mux, _ := newTestRouter(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"GET to vote endpoint", "GET", "/periodo/test-period/votar", http.StatusMethodNotAllowed},
		{"POST to close endpoint", "POST", "/periodo/test-period/cerrar-votacion", http.StatusMethodNotAllowed},
		{"DELETE to periods endpoint", "DELETE", "/club/test-club/periodos", http.StatusMethodNotAllowed},
		{"unknown club subpath", "GET", "/club/test-club/nope", http.StatusNotFound},
		{"unknown route", "GET", "/no/such/route", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

// TestFullPeriodWorkflow drives one period from creation to close through the
// mux, with notifications delivered to the members' inboxes.
func TestFullPeriodWorkflow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	st := store.New(conn)

	cfg := testutil.GetTestConfig()
	dispatcher := notify.NewDispatcher(st, zap.NewNop(), cfg.NotifyQueueSize)
	service := periods.NewService(st, zap.NewNop(), periods.WithNotifier(dispatcher))
	mux := NewRouter(service, st, zap.NewNop())

	ownerID := testutil.CreateUser(t, conn, "owner")
	anaID := testutil.CreateUser(t, conn, "ana")
	betoID := testutil.CreateUser(t, conn, "beto")
	clubID := testutil.CreateClub(t, conn, "Club de los martes", ownerID)
	testutil.AddMember(t, conn, clubID, anaID, models.RoleMember)
	testutil.AddMember(t, conn, clubID, betoID, models.RoleMember)
	rayuela := testutil.CreateClubBook(t, conn, clubID, "Rayuela", models.BookToRead)
	ficciones := testutil.CreateClubBook(t, conn, clubID, "Ficciones", models.BookToRead)

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest(method, path, body, nil))
		return w
	}

	// Step 1: nothing active
	w := do("GET", "/club/"+clubID+"/estado-actual", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state models.CurrentStateResponse
	testutil.AssertJSON(t, w, &state)
	assert.Equal(t, models.StatusInactive, state.Status)
	assert.Nil(t, state.Period)

	// Step 2: owner opens voting
	now := time.Now().UTC()
	w = do("POST", "/club/"+clubID+"/periodos", models.CreatePeriodRequest{
		Name:          "Otoño",
		VotingEndsAt:  now.Add(48 * time.Hour),
		ReadingEndsAt: now.Add(21 * 24 * time.Hour),
		ClubBookIDs:   []string{rayuela, ficciones},
		Username:      "owner",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.CreatePeriodResponse
	testutil.AssertJSON(t, w, &created)
	periodID := created.Period.ID
	require.Len(t, created.Period.Options, 2)
	ficcionesOption := created.Period.Options[1].ID

	// Step 3: both members vote Ficciones
	for _, user := range []string{"ana", "beto"} {
		w = do("POST", "/periodo/"+periodID+"/votar", models.CastVoteRequest{OptionID: ficcionesOption, Username: user})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	// Step 4: close voting
	w = do("PUT", "/periodo/"+periodID+"/cerrar-votacion", models.CallerRequest{Username: "owner"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var closed models.CloseVotingResponse
	testutil.AssertJSON(t, w, &closed)
	assert.Equal(t, "Ficciones", closed.Winner.Book.Title)
	assert.Equal(t, 2, closed.Winner.Votes)
	assert.Equal(t, models.BookReading, testutil.ClubBookStatus(t, conn, ficciones))

	// Step 5: voting is over
	w = do("POST", "/periodo/"+periodID+"/votar", models.CastVoteRequest{OptionID: ficcionesOption, Username: "ana"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Step 6: conclude reading
	w = do("PUT", "/periodo/"+periodID+"/concluir-lectura", models.CallerRequest{Username: "owner"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.BookRead, testutil.ClubBookStatus(t, conn, ficciones))
	assert.Equal(t, models.BookToRead, testutil.ClubBookStatus(t, conn, rayuela))

	// Step 7: history holds the closed period and the club is free again
	w = do("GET", "/club/"+clubID+"/periodos/historial", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history models.HistoryResponse
	testutil.AssertJSON(t, w, &history)
	require.Len(t, history.History, 1)
	assert.Equal(t, models.StatusClosed, history.History[0].Status)
	assert.Equal(t, 2, history.History[0].TotalVotes)

	w = do("GET", "/club/"+clubID+"/estado-actual", nil)
	testutil.AssertJSON(t, w, &state)
	assert.Equal(t, models.StatusInactive, state.Status)

	// Step 8: the three events reached each member but never the owner who acted
	dispatcher.Close()
	for _, userID := range []string{anaID, betoID} {
		w = do("GET", "/usuarios/"+userID+"/notificaciones/no-leidas/count", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var count models.UnreadCountResponse
		testutil.AssertJSON(t, w, &count)
		assert.Equal(t, 3, count.Count)
	}
	assert.Zero(t, testutil.CountRows(t, conn, "notifications", "user_id = $1", ownerID))
}
