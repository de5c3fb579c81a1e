// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/bookclub/auth"
	"github.com/danielhkuo/bookclub/cliparse"
	"github.com/danielhkuo/bookclub/db"
	"github.com/danielhkuo/bookclub/models"
)

// SetupTestDB creates a fresh, fully migrated sqlite database in a temp dir
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bookclub.db")
	conn, err := db.Open(db.SQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := db.Migrate(context.Background(), conn, db.SQLite); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	// One writer at a time, like the file lock would force anyway.
	conn.SetMaxOpenConns(1)

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     "file::memory:",
		DatabaseType:    "sqlite",
		LogLevel:        "debug",
		LogFormat:       "console",
		NotifyQueueSize: 16,
		ShutdownTimeout: time.Second,
	}
}

// CreateUser inserts a user and returns its ID
func CreateUser(t *testing.T, conn *sql.DB, username string) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO users (id, username, created_at) VALUES ($1, $2, $3)
	`, id, username, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// CreateClub inserts a club owned by ownerID. No membership row is added.
func CreateClub(t *testing.T, conn *sql.DB, name, ownerID string) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO clubs (id, name, id_owner, created_at) VALUES ($1, $2, $3, $4)
	`, id, name, ownerID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test club: %v", err)
	}
	return id
}

// AddMember gives userID a membership row in the club
func AddMember(t *testing.T, conn *sql.DB, clubID, userID string, role models.Role) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO club_members (user_id, club_id, role, joined_at) VALUES ($1, $2, $3, $4)
	`, userID, clubID, string(role), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to add test member: %v", err)
	}
}

// CreateClubBook adds a new book to the club's shelf with the given status
func CreateClubBook(t *testing.T, conn *sql.DB, clubID, title, status string) string {
	t.Helper()

	bookID := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO books (id, title, author) VALUES ($1, $2, $3)
	`, bookID, title, "Test Author")
	if err != nil {
		t.Fatalf("Failed to create test book: %v", err)
	}

	id := auth.NewID()
	_, err = conn.Exec(`
		INSERT INTO club_books (id, club_id, book_id, status, added_at) VALUES ($1, $2, $3, $4, $5)
	`, id, clubID, bookID, status, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test club book: %v", err)
	}
	return id
}

// CreatePeriod inserts a period directly, bypassing validation.
// winnerID may be empty.
func CreatePeriod(t *testing.T, conn *sql.DB, clubID, name, status, winnerID string, createdAt time.Time) string {
	t.Helper()

	var winner *string
	if winnerID != "" {
		winner = &winnerID
	}

	id := auth.NewID()
	createdAt = createdAt.UTC()
	_, err := conn.Exec(`
		INSERT INTO reading_periods (id, club_id, name, status, voting_ends_at, reading_ends_at,
		                             winner_club_book_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
	`, id, clubID, name, status, createdAt.Add(24*time.Hour), createdAt.Add(14*24*time.Hour), winner, createdAt)
	if err != nil {
		t.Fatalf("Failed to create test period: %v", err)
	}
	return id
}

// AddOption nominates a club book into a period and returns the option ID
func AddOption(t *testing.T, conn *sql.DB, periodID, clubBookID string, position int) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO voting_options (id, period_id, club_book_id, position) VALUES ($1, $2, $3, $4)
	`, id, periodID, clubBookID, position)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}
	return id
}

// AddVote records a vote directly
func AddVote(t *testing.T, conn *sql.DB, periodID, optionID, userID string) string {
	t.Helper()

	id := auth.NewID()
	_, err := conn.Exec(`
		INSERT INTO votes (id, option_id, period_id, user_id, created_at) VALUES ($1, $2, $3, $4, $5)
	`, id, optionID, periodID, userID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
	return id
}

// ClubBookStatus reads a club book's status
func ClubBookStatus(t *testing.T, conn *sql.DB, clubBookID string) string {
	t.Helper()

	var status string
	if err := conn.QueryRow(`SELECT status FROM club_books WHERE id = $1`, clubBookID).Scan(&status); err != nil {
		t.Fatalf("Failed to read club book status: %v", err)
	}
	return status
}

// PeriodStatus reads a period's status
func PeriodStatus(t *testing.T, conn *sql.DB, periodID string) string {
	t.Helper()

	var status string
	if err := conn.QueryRow(`SELECT status FROM reading_periods WHERE id = $1`, periodID).Scan(&status); err != nil {
		t.Fatalf("Failed to read period status: %v", err)
	}
	return status
}

// CountRows counts the rows of table matching where, e.g. "period_id = $1".
func CountRows(t *testing.T, conn *sql.DB, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT COUNT(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	if err := conn.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
