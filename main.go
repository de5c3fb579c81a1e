package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"

	"github.com/danielhkuo/bookclub/cliparse"
	"github.com/danielhkuo/bookclub/db"
	"github.com/danielhkuo/bookclub/logging"
	"github.com/danielhkuo/bookclub/middleware"
	"github.com/danielhkuo/bookclub/notify"
	"github.com/danielhkuo/bookclub/periods"
	"github.com/danielhkuo/bookclub/router"
	"github.com/danielhkuo/bookclub/store"
)

func main() {
	if err := cliparse.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Connect to the database
	dialect, err := db.ParseDialect(cfg.DatabaseType)
	if err != nil {
		logger.Fatal("invalid database type", zap.Error(err))
	}
	dbConn, err := db.Open(dialect, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Apply pending migrations
	applied, err := db.Migrate(context.Background(), dbConn, dialect)
	if err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}
	logger.Info("database schema ready", zap.String("dialect", string(dialect)), zap.Int("applied", applied))

	st := store.New(dbConn)
	dispatcher := notify.NewDispatcher(st, logger.Named("notify"), cfg.NotifyQueueSize)
	service := periods.NewService(st, logger.Named("periods"), periods.WithNotifier(dispatcher))

	// Create router
	mux := router.NewRouter(service, st, logger.Named("http"))

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	idle := make(chan struct{})
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown failed", zap.Error(err))
			server.Close()
		}
		close(idle)
	}()

	// Start server
	logger.Info("listening", zap.Int("port", cfg.Port))
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error("server closed", zap.Error(err))
	} else {
		<-idle
		logger.Info("server closed")
	}

	// Flush queued notifications before the database closes
	dispatcher.Close()
}
