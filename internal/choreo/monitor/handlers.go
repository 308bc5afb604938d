package monitor

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/wldnjs95/choreoflow/internal/choreo"
	"github.com/wldnjs95/choreoflow/internal/choreo/scenario"
	sqlite "github.com/wldnjs95/choreoflow/internal/choreo/storage/sqlite"
	"github.com/wldnjs95/choreoflow/internal/config"
	"github.com/wldnjs95/choreoflow/internal/httputil"
	"github.com/wldnjs95/choreoflow/internal/units"
)

// applyOverlay parses a raw JSON tuning overlay and applies it to base.
func applyOverlay(base choreo.Config, overlay json.RawMessage) (choreo.Config, error) {
	tc, err := config.ParseTuningConfig(overlay)
	if err != nil {
		return choreo.Config{}, err
	}
	return tc.Apply(base)
}

// requestTrace resolves the planner trace for a request. Passing trace=1
// echoes every pipeline stage to the server log.
func requestTrace(r *http.Request) choreo.Trace {
	if r.URL.Query().Get("trace") == "1" {
		return choreo.LogTrace("api")
	}
	return choreo.NopTrace()
}

// AssignRequest is the request body for /api/assign.
type AssignRequest struct {
	Starts []choreo.Position `json:"starts"`
	Ends   []choreo.Position `json:"ends"`
	Mode   string            `json:"mode,omitempty"`
}

// AssignResponse reports the solved assignment and its total travel.
type AssignResponse struct {
	Mode          string              `json:"mode"`
	Assignments   []choreo.Assignment `json:"assignments"`
	TotalDistance float64             `json:"total_distance"`
}

// handleAssign solves the start-to-end assignment without planning paths.
func (ws *WebServer) handleAssign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AssignRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode := choreo.AssignMode(req.Mode)
	if req.Mode == "" {
		mode = ws.base.AssignMode
	}
	switch mode {
	case choreo.AssignFixed, choreo.AssignOptimal, choreo.AssignHungarian:
	default:
		ws.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown assign mode %q", req.Mode))
		return
	}

	assignments, err := choreo.SolveAssignment(req.Starts, req.Ends, mode)
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	ws.writeJSON(w, http.StatusOK, AssignResponse{
		Mode:          string(mode),
		Assignments:   assignments,
		TotalDistance: choreo.TotalAssignmentDistance(assignments),
	})
}

// PlanRequest is the request body for /api/plan. Config is an optional
// partial overlay on the server's base configuration.
type PlanRequest struct {
	Starts   []choreo.Position `json:"starts"`
	Ends     []choreo.Position `json:"ends"`
	Strategy string            `json:"strategy"`
	Config   json.RawMessage   `json:"config,omitempty"`

	// BPM converts the count horizon to seconds in the response.
	BPM float64 `json:"bpm,omitempty"`

	// Units selects the distance unit for the total_distance summary.
	Units string `json:"units,omitempty"`
}

// PlanResponse is one planned trajectory set plus its validation verdict.
type PlanResponse struct {
	Strategy        string                  `json:"strategy"`
	Paths           []choreo.DancerPath     `json:"paths"`
	Metrics         choreo.CandidateMetrics `json:"metrics"`
	Validation      choreo.ValidationReport `json:"validation"`
	PlanMillis      float64                 `json:"plan_millis"`
	DurationCounts  float64                 `json:"duration_counts"`
	DurationSeconds float64                 `json:"duration_seconds,omitempty"`
	TotalDistance   float64                 `json:"total_distance"`
	Units           string                  `json:"units"`
}

// handlePlan plans one strategy and validates the result.
func (ws *WebServer) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req PlanRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Strategy == "" {
		ws.writeJSONError(w, http.StatusBadRequest, "strategy is required")
		return
	}
	strategy, err := choreo.ParseStrategy(req.Strategy)
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.BPM != 0 && !units.IsValidBPM(req.BPM) {
		ws.writeJSONError(w, http.StatusBadRequest,
			fmt.Sprintf("bpm must be between %v and %v, got %v", units.MinBPM, units.MaxBPM, req.BPM))
		return
	}
	distUnit := req.Units
	if distUnit == "" {
		distUnit = units.Meters
	}
	if !units.IsValid(distUnit) {
		ws.writeJSONError(w, http.StatusBadRequest,
			fmt.Sprintf("unknown units %q, valid units are: %s", req.Units, units.GetValidUnitsString()))
		return
	}

	cfg, err := ws.requestConfig(req.Config)
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg.Strategies = []choreo.Strategy{strategy}

	results, err := choreo.GenerateCandidates(req.Starts, req.Ends, cfg, requestTrace(r))
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := results[0]

	resp := PlanResponse{
		Strategy:       res.Strategy.String(),
		Paths:          res.Paths,
		Metrics:        res.Metrics,
		Validation:     choreo.Validate(res.Paths, cfg.CollisionRadius, cfg.TotalCounts),
		PlanMillis:     res.PlanMillis,
		DurationCounts: cfg.TotalCounts,
		TotalDistance:  units.ConvertDistance(res.Metrics.TotalDistance, distUnit),
		Units:          distUnit,
	}
	if req.BPM != 0 {
		resp.DurationSeconds = units.CountsToSeconds(cfg.TotalCounts, req.BPM)
	}
	ws.writeJSON(w, http.StatusOK, resp)
}

// CandidatesRequest is the request body for /api/candidates. Either a
// builtin scenario name or explicit start/end formations must be given.
type CandidatesRequest struct {
	Scenario string            `json:"scenario,omitempty"`
	Starts   []choreo.Position `json:"starts,omitempty"`
	Ends     []choreo.Position `json:"ends,omitempty"`
	Config   json.RawMessage   `json:"config,omitempty"`

	// Persist stores the run; requires a configured database.
	Persist bool `json:"persist,omitempty"`
}

// CandidatesResponse is the ranked candidate list, best first.
type CandidatesResponse struct {
	RunID      string                   `json:"run_id,omitempty"`
	Candidates []choreo.CandidateResult `json:"candidates"`
}

// handleCandidates runs the full pipeline across the configured strategies.
func (ws *WebServer) handleCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req CandidatesRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	starts, ends := req.Starts, req.Ends
	cfg := ws.base
	if req.Scenario != "" {
		sc, err := scenario.ByName(req.Scenario)
		if err != nil {
			ws.writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		starts, ends = sc.Starts, sc.Ends
		if cfg, err = sc.Config(ws.base); err != nil {
			ws.writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if len(req.Config) > 0 {
		var err error
		if cfg, err = applyOverlay(cfg, req.Config); err != nil {
			ws.writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if req.Persist && ws.store == nil {
		ws.writeJSONError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	results, err := choreo.GenerateCandidates(starts, ends, cfg, requestTrace(r))
	if err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := CandidatesResponse{Candidates: results}
	if req.Persist {
		run, err := sqlite.NewPlanRun(req.Scenario, cfg, results)
		if err != nil {
			ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to encode run: %v", err))
			return
		}
		if err := ws.store.Insert(run); err != nil {
			ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to store run: %v", err))
			return
		}
		resp.RunID = run.RunID
	}
	ws.writeJSON(w, http.StatusOK, resp)
}

// ValidateRequest is the request body for /api/validate. Radius and horizon
// default to the server's base configuration.
type ValidateRequest struct {
	Paths           []choreo.DancerPath `json:"paths"`
	CollisionRadius float64             `json:"collision_radius,omitempty"`
	TotalCounts     float64             `json:"total_counts,omitempty"`
}

// handleValidate re-checks a trajectory set for collisions.
func (ws *WebServer) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req ValidateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		ws.writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Paths) == 0 {
		ws.writeJSONError(w, http.StatusBadRequest, "paths are required")
		return
	}

	radius := req.CollisionRadius
	if radius == 0 {
		radius = ws.base.CollisionRadius
	}
	horizon := req.TotalCounts
	if horizon == 0 {
		horizon = ws.base.TotalCounts
	}
	if radius < 0 || horizon < 0 {
		ws.writeJSONError(w, http.StatusBadRequest, "collision_radius and total_counts must be positive")
		return
	}

	ws.writeJSON(w, http.StatusOK, choreo.Validate(req.Paths, radius, horizon))
}

// handleStrategies lists the planners in canonical order.
func (ws *WebServer) handleStrategies(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	all := choreo.AllStrategies()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = s.String()
	}
	ws.writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": names,
		"count":      len(names),
	})
}

// handleConfigDefaults returns the server's effective base configuration.
func (ws *WebServer) handleConfigDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ws.writeJSON(w, http.StatusOK, ws.base)
}

// handleScenarios lists the builtin scenario suite.
func (ws *WebServer) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	builtin := scenario.Builtin()
	ws.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scenarios": builtin,
		"count":     len(builtin),
	})
}

// handleRuns serves stored runs: ?id= for one run with candidates, else a
// summary list with optional ?limit= (default 20, max 500).
func (ws *WebServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if ws.store == nil {
		ws.writeJSONError(w, http.StatusServiceUnavailable, "database not configured")
		return
	}

	if id := r.URL.Query().Get("id"); id != "" {
		run, err := ws.store.Get(id)
		if err != nil {
			if strings.Contains(err.Error(), "not found") {
				ws.writeJSONError(w, http.StatusNotFound, err.Error())
			} else {
				ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get run: %v", err))
			}
			return
		}
		ws.writeJSON(w, http.StatusOK, run)
		return
	}

	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}
	runs, err := ws.store.List(limit)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list runs: %v", err))
		return
	}
	ws.writeJSON(w, http.StatusOK, map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
	})
}
