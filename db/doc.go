// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens database connections and owns the schema.

# Connections

Open supports PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite):

	conn, err := db.Open(db.Postgres, "postgres://...")
	conn, err := db.Open(db.SQLite, "file:bookclub.db")

SQLite connections enable foreign keys, a busy timeout, WAL, and
BEGIN IMMEDIATE transactions.

# Migrations

The schema lives in embedded goose migrations under migrations/:

	applied, err := db.Migrate(ctx, conn, db.Postgres)

Migrate is safe to call on every start. cmd/migrate exposes up, down,
status, and version for operators.

# Tables

  - users, clubs, club_members: owned by the surrounding CRUD services
  - books, club_books: a club's shelf with por_leer / leyendo / leido status
  - reading_periods: VOTACION / LEYENDO / CERRADO
  - voting_options: nominated club books, ordered by position
  - votes: one row per live vote
  - notifications: member inbox

# Relationships

	club 1──* club_books *──1 book
	club 1──* reading_periods 1──* voting_options 1──* votes
	reading_periods *──1 club_books (winner)
	user 1──* notifications

# Invariants in the schema

  - ux_reading_periods_active: one VOTACION/LEYENDO period per club
  - votes UNIQUE (option_id, user_id) and UNIQUE (period_id, user_id)

IsUniqueViolation and IsSerializationFailure classify driver errors from
either engine so callers can report conflicts.
*/
package db
