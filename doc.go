// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the book club API server.

The server runs each club's reading cycle: members nominate to-read books,
vote for one, read the winner, and close the period. A club has at most one
active period, in VOTACION or LEYENDO.

# Starting the Server

Configuration comes from the environment, an optional .env file, or CLI flags:

	DATABASE_URL=bookclub.db go run .

Or against PostgreSQL:

	go run . -t postgres -d "postgres://..." -p 3318

# Configuration

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string (required)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - PORT (-p): Server port (default: 3318)
  - LOG_LEVEL (-log-level): debug, info, warn, error (default: info)
  - LOG_FORMAT (-log-format): json or console (default: console on a terminal)
  - NOTIFY_QUEUE_SIZE: buffered notification events (default: 256)
  - SHUTDOWN_TIMEOUT: graceful shutdown budget (default: 5s)

Migrations are applied on start. cmd/migrate runs them by hand.

# Architecture

  - periods: state machine, tally, and transactional transitions
  - permissions: club role resolution
  - store: SQL repository over PostgreSQL or SQLite
  - notify: async notification fan-out to member inboxes
  - handlers, router, middleware: HTTP surface
  - models: request, response, and domain types
  - auth: caller identity resolution and record IDs
  - db: connections, goose migrations, driver error classification
  - cliparse, logging: configuration and zap setup

See package documentation for each component.
*/
package main
