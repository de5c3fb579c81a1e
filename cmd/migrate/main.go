package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/danielhkuo/bookclub/cliparse"
	"github.com/danielhkuo/bookclub/db"
	"github.com/danielhkuo/bookclub/logging"
)

const usage = "Usage: migrate [up|down|status|version] [-t sqlite|postgres] [-d url]"

func main() {
	// Command first, flags after (default to "up")
	command, args := "up", os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	if err := cliparse.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := cliparse.ParseFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		logger.Fatal("invalid database type", zap.Error(err))
	}
	conn, err := db.Open(dialect, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	provider, err := db.NewMigrator(conn, dialect)
	if err != nil {
		logger.Fatal("failed to create migrator", zap.Error(err))
	}

	ctx := context.Background()
	logger.Info("running migrations", zap.String("command", command), zap.String("dialect", string(dialect)))

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
		for _, r := range results {
			logger.Info("applied migration",
				zap.Int64("version", r.Source.Version),
				zap.String("file", r.Source.Path),
				zap.Duration("duration", r.Duration))
		}
		logger.Info("migrations completed", zap.Int("applied", len(results)))
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			logger.Fatal("failed to roll back migration", zap.Error(err))
		}
		logger.Info("rolled back migration", zap.Int64("version", result.Source.Version), zap.String("file", result.Source.Path))
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			logger.Fatal("failed to get migration status", zap.Error(err))
		}
		for _, s := range statuses {
			fields := []zap.Field{
				zap.Int64("version", s.Source.Version),
				zap.String("file", s.Source.Path),
				zap.String("state", string(s.State)),
			}
			if !s.AppliedAt.IsZero() {
				fields = append(fields, zap.Time("applied_at", s.AppliedAt))
			}
			logger.Info("migration", fields...)
		}
	case "version":
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			logger.Fatal("failed to get version", zap.Error(err))
		}
		logger.Info("current migration version", zap.Int64("version", version))
	default:
		logger.Fatal("unknown command", zap.String("command", command), zap.String("usage", usage))
	}
}
