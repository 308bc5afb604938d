package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wldnjs95/choreoflow/internal/choreo"
)

// PlanRun is one persisted invocation of the candidate pipeline: the request
// shape plus the ranked candidates it produced.
type PlanRun struct {
	RunID       string          `json:"run_id"`
	Scenario    string          `json:"scenario,omitempty"`
	DancerCount int             `json:"dancer_count"`
	AssignMode  string          `json:"assign_mode"`
	SyncMode    string          `json:"sync_mode"`
	ConfigJSON  json.RawMessage `json:"config_json,omitempty"`
	CreatedAt   int64           `json:"created_at"`

	// CandidateCount is filled by List; Candidates only by Get.
	CandidateCount int            `json:"candidate_count"`
	Candidates     []RunCandidate `json:"candidates,omitempty"`
}

// RunCandidate is one ranked candidate within a run. Metric columns are
// stored flat; PathsJSON carries the full trajectory set for replay.
type RunCandidate struct {
	CandidateID string                  `json:"candidate_id"`
	RunID       string                  `json:"run_id"`
	Strategy    string                  `json:"strategy"`
	Rank        int                     `json:"rank"`
	Metrics     choreo.CandidateMetrics `json:"metrics"`
	PlanTimeMs  float64                 `json:"plan_time_ms"`
	PathsJSON   json.RawMessage         `json:"paths_json,omitempty"`
}

// NewPlanRun builds the stored form of a completed pipeline run. Candidates
// keep the order they arrive in; index becomes rank.
func NewPlanRun(scenario string, cfg choreo.Config, results []choreo.CandidateResult) (*PlanRun, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	run := &PlanRun{
		RunID:      uuid.New().String(),
		Scenario:   scenario,
		AssignMode: string(cfg.AssignMode),
		SyncMode:   string(cfg.SyncMode),
		ConfigJSON: cfgJSON,
	}
	if len(results) > 0 {
		run.DancerCount = len(results[0].Paths)
	}

	for rank, res := range results {
		paths, err := json.Marshal(res.Paths)
		if err != nil {
			return nil, fmt.Errorf("encode candidate %s paths: %w", res.ID, err)
		}
		run.Candidates = append(run.Candidates, RunCandidate{
			CandidateID: res.ID,
			RunID:       run.RunID,
			Strategy:    res.Strategy.String(),
			Rank:        rank,
			Metrics:     res.Metrics,
			PlanTimeMs:  res.PlanMillis,
			PathsJSON:   paths,
		})
	}
	run.CandidateCount = len(run.Candidates)
	return run, nil
}

// RunStore provides persistence for planning runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Insert persists a run and its candidates in one transaction. If RunID is
// empty, a UUID is generated.
func (s *RunStore) Insert(run *PlanRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}
	for i := range run.Candidates {
		c := &run.Candidates[i]
		if c.CandidateID == "" {
			c.CandidateID = uuid.New().String()
		}
		c.RunID = run.RunID
	}

	var configStr interface{}
	if len(run.ConfigJSON) > 0 {
		configStr = string(run.ConfigJSON)
	}

	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin insert run: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.Exec(`
			INSERT INTO plan_runs (
				run_id, scenario, dancer_count, assign_mode, sync_mode,
				config_json, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.Scenario, run.DancerCount, run.AssignMode, run.SyncMode,
			configStr, run.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert run: %w", err)
		}

		for _, c := range run.Candidates {
			var pathsStr interface{}
			if len(c.PathsJSON) > 0 {
				pathsStr = string(c.PathsJSON)
			}
			_, err = tx.Exec(`
				INSERT INTO plan_candidates (
					candidate_id, run_id, strategy, rank,
					collision_count, crossing_count, symmetry_score, smoothness_score,
					max_delay, avg_delay, arrival_spread, simultaneous_arrival,
					total_distance, plan_time_ms, paths_json
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				c.CandidateID, c.RunID, c.Strategy, c.Rank,
				c.Metrics.CollisionCount, c.Metrics.CrossingCount, c.Metrics.SymmetryScore, c.Metrics.SmoothnessScore,
				c.Metrics.MaxDelay, c.Metrics.AvgDelay, c.Metrics.ArrivalSpread, c.Metrics.SimultaneousArrival,
				c.Metrics.TotalDistance, c.PlanTimeMs, pathsStr,
			)
			if err != nil {
				return fmt.Errorf("insert candidate %s: %w", c.CandidateID, err)
			}
		}

		return tx.Commit()
	})
}

// Get returns a run with its candidates ordered by rank.
func (s *RunStore) Get(runID string) (*PlanRun, error) {
	row := s.db.QueryRow(`
		SELECT run_id, scenario, dancer_count, assign_mode, sync_mode,
		       config_json, created_at
		FROM plan_runs
		WHERE run_id = ?`, runID)

	var run PlanRun
	var configStr sql.NullString
	err := row.Scan(
		&run.RunID, &run.Scenario, &run.DancerCount, &run.AssignMode, &run.SyncMode,
		&configStr, &run.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if configStr.Valid {
		run.ConfigJSON = json.RawMessage(configStr.String)
	}

	rows, err := s.db.Query(`
		SELECT candidate_id, run_id, strategy, rank,
		       collision_count, crossing_count, symmetry_score, smoothness_score,
		       max_delay, avg_delay, arrival_spread, simultaneous_arrival,
		       total_distance, plan_time_ms, paths_json
		FROM plan_candidates
		WHERE run_id = ?
		ORDER BY rank ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		run.Candidates = append(run.Candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	run.CandidateCount = len(run.Candidates)
	return &run, nil
}

// List returns run summaries ordered by creation time descending. Candidates
// are not loaded; CandidateCount reflects the stored rows. A non-positive
// limit means no limit.
func (s *RunStore) List(limit int) ([]*PlanRun, error) {
	if limit <= 0 {
		limit = -1 // sqlite treats negative LIMIT as unlimited
	}
	rows, err := s.db.Query(`
		SELECT r.run_id, r.scenario, r.dancer_count, r.assign_mode, r.sync_mode,
		       r.config_json, r.created_at,
		       (SELECT COUNT(*) FROM plan_candidates c WHERE c.run_id = r.run_id)
		FROM plan_runs r
		ORDER BY r.created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*PlanRun
	for rows.Next() {
		var run PlanRun
		var configStr sql.NullString
		err := rows.Scan(
			&run.RunID, &run.Scenario, &run.DancerCount, &run.AssignMode, &run.SyncMode,
			&configStr, &run.CreatedAt, &run.CandidateCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		if configStr.Valid {
			run.ConfigJSON = json.RawMessage(configStr.String)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// Delete removes a run and its candidates.
func (s *RunStore) Delete(runID string) error {
	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin delete run: %w", err)
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`DELETE FROM plan_candidates WHERE run_id = ?`, runID); err != nil {
			return fmt.Errorf("delete candidates: %w", err)
		}
		result, err := tx.Exec(`DELETE FROM plan_runs WHERE run_id = ?`, runID)
		if err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("run %s not found", runID)
		}
		return tx.Commit()
	})
}

// Paths decodes the candidate's stored trajectory set.
func (c *RunCandidate) Paths() ([]choreo.DancerPath, error) {
	if len(c.PathsJSON) == 0 {
		return nil, nil
	}
	var paths []choreo.DancerPath
	if err := json.Unmarshal(c.PathsJSON, &paths); err != nil {
		return nil, fmt.Errorf("decode candidate %s paths: %w", c.CandidateID, err)
	}
	return paths, nil
}

// scanCandidate scans a candidate row from a sql.Rows cursor.
func scanCandidate(rows *sql.Rows) (*RunCandidate, error) {
	var c RunCandidate
	var pathsStr sql.NullString
	err := rows.Scan(
		&c.CandidateID, &c.RunID, &c.Strategy, &c.Rank,
		&c.Metrics.CollisionCount, &c.Metrics.CrossingCount, &c.Metrics.SymmetryScore, &c.Metrics.SmoothnessScore,
		&c.Metrics.MaxDelay, &c.Metrics.AvgDelay, &c.Metrics.ArrivalSpread, &c.Metrics.SimultaneousArrival,
		&c.Metrics.TotalDistance, &c.PlanTimeMs, &pathsStr,
	)
	if err != nil {
		return nil, fmt.Errorf("scan candidate row: %w", err)
	}
	if pathsStr.Valid {
		c.PathsJSON = json.RawMessage(pathsStr.String)
	}
	return &c, nil
}
