/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the workforce engine HTTP server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (flags > env > config file > defaults)
  2. Build the zap logger
  3. Initialize SQLite store
  4. Register prometheus metrics
  5. Create API handler and router
  6. Start the alert monitor
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  --config     Config file (default: ./workforce.yaml if present)
  --port       HTTP server port (default: 8080)
  --db         SQLite database path (default: ./data/workforce.db)
               Use ":memory:" for in-memory database
  --log-level  debug, info, warn, error (default: info)

ENVIRONMENT:
  Every setting can be overridden with WORKFORCE_<SECTION>_<KEY>, e.g.
  WORKFORCE_SERVER_PORT=9000 or WORKFORCE_DATABASE_PATH=/tmp/w.db.
  A .env file in the working directory is loaded first.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the alert monitor
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

SEE ALSO:
  - config/config.go: Settings and defaults
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/warp/workforce-engine/api"
	"github.com/warp/workforce-engine/config"
	"github.com/warp/workforce-engine/logging"
	"github.com/warp/workforce-engine/metrics"
	"github.com/warp/workforce-engine/store/sqlite"
	"go.uber.org/zap"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "workforce-server",
	Short:         "Workforce compensation and analytics API",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runServer,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default ./workforce.yaml)")
	flags.Int("port", 8080, "HTTP server port")
	flags.String("db", "./data/workforce.db", `SQLite database path (":memory:" for in-memory)`)
	flags.String("log-level", "info", "log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	v := config.NewViper(configFile)
	for key, flag := range map[string]string{
		"server.port":   "port",
		"database.path": "db",
		"log.level":     "log-level",
	} {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return err
		}
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	analyticsCfg, err := cfg.AnalyticsConfig()
	if err != nil {
		return err
	}

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	m := metrics.New(prometheus.DefaultRegisterer)
	handler := api.NewHandler(store, store, analyticsCfg, m, logger)

	opts := api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Ping:           store.Ping,
	}
	if cfg.Metrics.Enabled {
		opts.Metrics = promhttp.Handler()
	}
	monitor := api.NewAlertMonitor(handler.Dashboards, logger)
	monitor.CheckInterval = cfg.Analytics.AlertInterval
	monitor.Enabled = cfg.Analytics.AlertInterval > 0
	handler.Monitor = monitor
	router := api.NewRouter(handler, opts)

	monitor.Start()
	defer monitor.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("database", cfg.Database.Path),
			zap.Bool("metrics", cfg.Metrics.Enabled),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	monitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
