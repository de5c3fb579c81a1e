// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/danielhkuo/bookclub/models"
	"github.com/danielhkuo/bookclub/periods"
	"github.com/danielhkuo/bookclub/store"
	"github.com/danielhkuo/bookclub/testutil"
)

// testClub is a seeded club: owner "owner" (no membership row), moderator
// "moddy", members "ana", "beto", "zoe", outsider "outsider", and three
// to-read books.
type testClub struct {
	conn    *sql.DB
	store   *store.Store
	handler *PeriodHandler
	clubID  string
	users   map[string]string
	books   []string
}

func setupClub(t *testing.T) *testClub {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	users := map[string]string{}
	for _, name := range []string{"owner", "moddy", "ana", "beto", "zoe", "outsider"} {
		users[name] = testutil.CreateUser(t, conn, name)
	}

	clubID := testutil.CreateClub(t, conn, "Club de los martes", users["owner"])
	testutil.AddMember(t, conn, clubID, users["moddy"], models.RoleModerator)
	for _, name := range []string{"ana", "beto", "zoe"} {
		testutil.AddMember(t, conn, clubID, users[name], models.RoleMember)
	}

	books := []string{
		testutil.CreateClubBook(t, conn, clubID, "Rayuela", models.BookToRead),
		testutil.CreateClubBook(t, conn, clubID, "Ficciones", models.BookToRead),
		testutil.CreateClubBook(t, conn, clubID, "Pedro Páramo", models.BookToRead),
	}

	st := store.New(conn)
	svc := periods.NewService(st, zap.NewNop())

	return &testClub{
		conn:    conn,
		store:   st,
		handler: NewPeriodHandler(svc, zap.NewNop()),
		clubID:  clubID,
		users:   users,
		books:   books,
	}
}

func (c *testClub) createRequest(username string, bookIDs ...string) models.CreatePeriodRequest {
	if len(bookIDs) == 0 {
		bookIDs = c.books
	}
	now := time.Now().UTC()
	return models.CreatePeriodRequest{
		Name:          "Primavera",
		VotingEndsAt:  now.Add(72 * time.Hour),
		ReadingEndsAt: now.Add(30 * 24 * time.Hour),
		ClubBookIDs:   bookIDs,
		Username:      username,
	}
}

// openPeriod creates a period through the handler and returns it
func (c *testClub) openPeriod(t *testing.T) models.PeriodDetail {
	t.Helper()

	w := serve(c.handler.CreatePeriod, "POST", "/club/"+c.clubID+"/periodos",
		map[string]string{"clubId": c.clubID}, c.createRequest("owner"))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreatePeriodResponse
	testutil.AssertJSON(t, w, &resp)
	return resp.Period
}

// serve runs one request against a handler with its path values set
func serve(h http.HandlerFunc, method, path string, pathValues map[string]string, body interface{}) *httptest.ResponseRecorder {
	req := testutil.MakeRequest(method, path, body, nil)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}
