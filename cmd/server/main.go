/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the CityPets timesheet server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Initialize SQLite store
  3. Resolve the configuration: stored snapshot > YAML file > built-in seed
  4. Wire the registry's persistence hook
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: citypets.db)
           Use ":memory:" for in-memory database
  -config  Optional YAML rate card, used only on first boot
           (a persisted snapshot always wins)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/citypets.db"

  # First boot with a custom rate card
  ./server -config="./rates.yaml"

ENVIRONMENT:
  PORT, DB_PATH, CONFIG_PATH override the flag defaults; a .env file in
  the working directory is loaded first.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cloudtriquetra/citypets-employee-app/api"
	"github.com/cloudtriquetra/citypets-employee-app/config"
	"github.com/cloudtriquetra/citypets-employee-app/store/sqlite"
)

func main() {
	// .env is optional; flags and their env-derived defaults win.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "citypets.db"), "SQLite database path")
	configPath := flag.String("config", envStr("CONFIG_PATH", ""), "YAML rate card for first boot")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Resolve configuration: a previously persisted snapshot always wins,
	// then the YAML file, then the built-in rate card.
	ctx := context.Background()
	cfg, found, err := store.LoadConfig(ctx)
	if err != nil {
		log.Fatalf("Failed to load stored configuration: %v", err)
	}
	switch {
	case found:
		log.Printf("Loaded configuration snapshot from %s", *dbPath)
	case *configPath != "":
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load %s: %v", *configPath, err)
		}
		log.Printf("Loaded rate card from %s", *configPath)
	default:
		cfg = config.Default()
		log.Printf("Using built-in rate card (%d employees)", len(cfg.EmployeeNames()))
	}

	registry := config.NewRegistry(cfg)
	registry.OnChange(func(snapshot *config.Config) {
		if err := store.SaveConfig(context.Background(), snapshot); err != nil {
			log.Printf("Warning: failed to persist configuration: %v", err)
		}
	})
	if !found {
		// Persist the initial card so the next boot is file-independent.
		if err := store.SaveConfig(ctx, cfg); err != nil {
			log.Printf("Warning: failed to persist initial configuration: %v", err)
		}
	}

	// Create router
	handler := api.NewHandler(registry, store)
	router := api.NewRouter(handler)

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
		log.Printf("🐾 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}
