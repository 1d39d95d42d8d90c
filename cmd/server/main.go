/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the FMLA leave compliance tracker server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (file + environment), apply flag overrides
  2. Build the logger
  3. Initialize the selected store (sqlite, json, or memory)
  4. Create API handler with dependencies
  5. Start the alert scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port     HTTP server port (overrides config)
  -backend  Storage backend: sqlite, json, or memory (overrides config)
  -db       SQLite database path (overrides config; ":memory:" allowed)
  -data     JSON data file path for the json backend (overrides config)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the alert scheduler
  4. Close the store
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/fmla.db"

  # Run with in-memory store (no persistence)
  ./server -backend=memory

  # Run with a flat JSON file
  ./server -backend=json -data="./data/fmla.json"

ENVIRONMENT:
  FMLA_SERVER_PORT, FMLA_STORAGE_BACKEND, FMLA_STORAGE_DB_PATH,
  FMLA_LOG_LEVEL, FMLA_LOG_FORMAT (see config package).

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - config/config.go: Configuration loading
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/fmla-tracker/api"
	"github.com/warp/fmla-tracker/config"
	"github.com/warp/fmla-tracker/fmla"
	memstore "github.com/warp/fmla-tracker/fmla/store"
	"github.com/warp/fmla-tracker/logging"
	"github.com/warp/fmla-tracker/store/jsonfile"
	"github.com/warp/fmla-tracker/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags override config file and environment
	port := flag.Int("port", cfg.Server.Port, "HTTP server port")
	backend := flag.String("backend", cfg.Storage.Backend, "Storage backend: sqlite, json, or memory")
	dbPath := flag.String("db", cfg.Storage.DBPath, "SQLite database path")
	dataFile := flag.String("data", cfg.Storage.DataFile, "JSON data file path")
	flag.Parse()

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Initialize store
	store, closeStore, err := openStore(*backend, *dbPath, *dataFile)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}
	defer closeStore()

	// Initialize handler
	handler := api.NewHandler(store, fmla.SystemClock{}, logger)

	// Start the background alert scheduler
	scheduler := api.NewAlertScheduler(handler)
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(handler, cfg.Server.CORSOrigins)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.Int("port", *port),
			zap.String("backend", *backend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}

// openStore builds the configured store and returns a close func for
// whatever resources it holds.
func openStore(backend, dbPath, dataFile string) (fmla.Store, func(), error) {
	switch backend {
	case "sqlite":
		s, err := sqlite.New(dbPath)
		if err != nil {
			return nil, nil, err
		}
		return s, closeQuietly(s), nil
	case "json":
		s, err := jsonfile.New(dataFile)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "memory":
		return memstore.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

func closeQuietly(c io.Closer) func() {
	return func() { c.Close() }
}
