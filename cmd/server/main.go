/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Attendance Engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Create API handler with dependencies
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port           HTTP server port (default: 8080)
  -db             SQLite database path (default: attendance.db)
                  Use ":memory:" for in-memory database
  -default-shift  Fallback shift window "HH:MM-HH:MM" applied to
                  employees with no assigned schedule (optional)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/attendance.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run with a fallback 9-to-6 shift
  ./server -default-shift="09:00-18:00"

ENVIRONMENT:
  No environment variables currently. All config via flags.
  Future: DATABASE_URL, PORT, LOG_LEVEL

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
	"strings"
	"syscall"
	"time"

	"github.com/warp/attendance-engine/api"
	"github.com/warp/attendance-engine/engine"
	"github.com/warp/attendance-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "attendance.db", "SQLite database path")
	defaultShift := flag.String("default-shift", "", `fallback shift window "HH:MM-HH:MM" for unscheduled employees`)
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Initialize handler
	handler := api.NewHandler(store)
	if *defaultShift != "" {
		window, err := parseShiftFlag(*defaultShift)
		if err != nil {
			log.Fatalf("Invalid -default-shift: %v", err)
		}
		handler.DefaultWindow = window
	}

	// Create router
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
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// parseShiftFlag parses "HH:MM-HH:MM" into a shift window. Both times are
// validated here so a typo fails at startup instead of flagging every day.
func parseShiftFlag(s string) (*engine.ShiftWindow, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("expected HH:MM-HH:MM, got %q", s)
	}
	start, end := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if _, ok := engine.ParseClockTime(start); !ok {
		return nil, fmt.Errorf("bad start time %q", start)
	}
	if _, ok := engine.ParseClockTime(end); !ok {
		return nil, fmt.Errorf("bad end time %q", end)
	}
	return &engine.ShiftWindow{StartTime: start, EndTime: end}, nil
}
