// Package monitor serves the planning API and the debug visualization
// surface over HTTP. Handlers are thin: they decode a request, run the
// planning pipeline or consult the run store, and encode the result.
package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/wldnjs95/choreoflow/internal/choreo"
	sqlite "github.com/wldnjs95/choreoflow/internal/choreo/storage/sqlite"
	"github.com/wldnjs95/choreoflow/internal/httputil"
	"github.com/wldnjs95/choreoflow/internal/monitoring"
)

// WebServer handles the HTTP interface for planning and run inspection.
type WebServer struct {
	address string
	base    choreo.Config
	db      *sqlite.DB
	store   *sqlite.RunStore
	server  *http.Server
}

// WebServerConfig contains configuration options for the web server
type WebServerConfig struct {
	Address string

	// BaseConfig is the effective planner configuration: defaults plus any
	// startup tuning overlay. Requests overlay on top of it.
	BaseConfig choreo.Config

	// DB is optional; nil disables run persistence, /api/runs and the
	// tailsql admin surface.
	DB *sqlite.DB
}

// NewWebServer creates a new web server with the provided configuration
func NewWebServer(config WebServerConfig) *WebServer {
	ws := &WebServer{
		address: config.Address,
		base:    config.BaseConfig,
		db:      config.DB,
	}
	if config.DB != nil {
		ws.store = sqlite.NewRunStore(config.DB.DB)
	}

	mux := ws.setupRoutes()
	if config.DB != nil {
		if err := config.DB.AttachAdminRoutes(mux); err != nil {
			monitoring.Logf("admin routes unavailable: %v", err)
		}
	}

	ws.server = &http.Server{
		Addr:    ws.address,
		Handler: LoggingMiddleware(mux),
	}

	return ws
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	httputil.WriteJSONError(w, status, msg)
}

// writeJSON writes a JSON response with the given status code.
func (ws *WebServer) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	if err := httputil.WriteJSON(w, status, data); err != nil {
		// Response is already started; nothing to do but log.
		monitoring.Logf("JSON encoding error: %v", err)
	}
}

// Start begins the HTTP server in a goroutine and handles graceful shutdown
func (ws *WebServer) Start(ctx context.Context) error {
	go func() {
		monitoring.Logf("starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			monitoring.Logf("HTTP server error: %v", err)
		}
	}()

	// Wait for context cancellation to shut down server
	<-ctx.Done()
	monitoring.Logf("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("HTTP server shutdown error: %v", err)
		// Force close the server if graceful shutdown fails
		if err := ws.server.Close(); err != nil {
			monitoring.Logf("HTTP server force close error: %v", err)
		}
	}

	monitoring.Logf("HTTP server routine stopped")
	return nil
}

// setupRoutes configures the HTTP routes and handlers
func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/api/assign", ws.handleAssign)
	mux.HandleFunc("/api/plan", ws.handlePlan)
	mux.HandleFunc("/api/candidates", ws.handleCandidates)
	mux.HandleFunc("/api/validate", ws.handleValidate)
	mux.HandleFunc("/api/strategies", ws.handleStrategies)
	mux.HandleFunc("/api/config/defaults", ws.handleConfigDefaults)
	mux.HandleFunc("/api/scenarios", ws.handleScenarios)
	mux.HandleFunc("/api/runs", ws.handleRuns)

	mux.HandleFunc("/debug/charts/metrics", ws.handleMetricsChart)
	mux.HandleFunc("/debug/charts/timing", ws.handleTimingChart)
	mux.HandleFunc("/debug/plot/paths", ws.handlePathsPlot)

	return mux
}

// handleHealth reports liveness plus the store state.
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
		"store":  ws.store != nil,
	}
	ws.writeJSON(w, http.StatusOK, status)
}

// requestConfig resolves the effective config for a request-level overlay.
func (ws *WebServer) requestConfig(overlay json.RawMessage) (choreo.Config, error) {
	if len(overlay) == 0 {
		return ws.base, nil
	}
	return applyOverlay(ws.base, overlay)
}
