// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

LoadDotEnv pulls an optional .env file into the environment, then
ParseFlags returns a Config:

	_ = cliparse.LoadDotEnv()
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseURL: sqlite path or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - LogLevel: debug, info, warn, error (default: info)
  - LogFormat: json or console (default: console on a terminal, json otherwise)
  - NotifyQueueSize: notification queue capacity (default: 256)
  - ShutdownTimeout: graceful shutdown limit (default: 5s)

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	--log-level   Log level
	--log-format  Log format

# Environment Variables

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	LOG_LEVEL         → --log-level
	LOG_FORMAT        → --log-format
	NOTIFY_QUEUE_SIZE
	SHUTDOWN_TIMEOUT  (Go duration, e.g. 10s)

CLI flags take precedence over environment variables, which take
precedence over .env.
*/
package cliparse
