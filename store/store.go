// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/bookclub/db"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("conflicting write")
	ErrStale    = errors.New("record changed concurrently")
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries runs every repository read and write against either the pool or
// a single transaction. Rows are always drained before the next statement
// so a transaction never needs a second connection.
type Queries struct {
	q querier
}

// Store is the persistence boundary for periods, options, votes, club
// books, and notifications.
type Store struct {
	*Queries
	db *sql.DB
}

func New(conn *sql.DB) *Store {
	return &Store{Queries: &Queries{q: conn}, db: conn}
}

// InTx runs fn inside one transaction. fn's error rolls everything back.
func (s *Store) InTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(&Queries{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// classify tags constraint and lock failures as ErrConflict.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if db.IsUniqueViolation(err) || db.IsSerializationFailure(err) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}

func (q *Queries) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := q.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// placeholders renders "$start, $start+1, ..." for n arguments.
func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "$" + strconv.Itoa(start+i)
	}
	return strings.Join(parts, ", ")
}

func utc(t time.Time) time.Time {
	return t.UTC()
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
