package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wldnjs95/choreoflow/internal/choreo"
)

// setupTestDB opens a migrated database in a per-test temp dir.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test db")
	require.NoError(t, db.MigrateUp(), "migrate test db")
	t.Cleanup(func() { db.Close() })
	return db
}

func testRun(scenario string) *PlanRun {
	return &PlanRun{
		Scenario:    scenario,
		DancerCount: 2,
		AssignMode:  "optimal",
		SyncMode:    "balanced",
		ConfigJSON:  []byte(`{"total_counts":8}`),
		Candidates: []RunCandidate{
			{
				Strategy: "simple",
				Rank:     0,
				Metrics: choreo.CandidateMetrics{
					CollisionCount: 0,
					CrossingCount:  1,
					SymmetryScore:  80,
					TotalDistance:  16.4,
				},
				PlanTimeMs: 1.25,
				PathsJSON:  []byte(`[{"dancer_id":"d01","path":[{"x":2,"y":5,"t":0}],"start_time":0,"speed":1,"total_distance":8}]`),
			},
			{
				Strategy: "cbs",
				Rank:     1,
				Metrics: choreo.CandidateMetrics{
					CollisionCount: 0,
					CrossingCount:  2,
					TotalDistance:  17.1,
				},
				PlanTimeMs: 4.5,
			},
		},
	}
}

func TestRunStoreRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	store := NewRunStore(db.DB)

	run := testRun("head-on-swap")
	require.NoError(t, store.Insert(run))
	assert.NotEmpty(t, run.RunID, "Insert should assign a run ID")
	assert.NotZero(t, run.CreatedAt, "Insert should stamp creation time")

	got, err := store.Get(run.RunID)
	require.NoError(t, err)

	assert.Equal(t, run.RunID, got.RunID)
	assert.Equal(t, "head-on-swap", got.Scenario)
	assert.Equal(t, 2, got.DancerCount)
	assert.Equal(t, "optimal", got.AssignMode)
	assert.Equal(t, "balanced", got.SyncMode)
	assert.JSONEq(t, `{"total_counts":8}`, string(got.ConfigJSON))
	require.Len(t, got.Candidates, 2)
	assert.Equal(t, 2, got.CandidateCount)

	first := got.Candidates[0]
	assert.Equal(t, "simple", first.Strategy)
	assert.Equal(t, 0, first.Rank)
	assert.Equal(t, 1, first.Metrics.CrossingCount)
	assert.Equal(t, 80.0, first.Metrics.SymmetryScore)
	assert.Equal(t, 1.25, first.PlanTimeMs)

	paths, err := first.Paths()
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "d01", paths[0].DancerID)

	second := got.Candidates[1]
	assert.Equal(t, "cbs", second.Strategy)
	assert.Empty(t, second.PathsJSON, "nil paths stay null")
	noPaths, err := second.Paths()
	require.NoError(t, err)
	assert.Nil(t, noPaths)
}

func TestRunStoreGetMissing(t *testing.T) {
	db := setupTestDB(t)
	store := NewRunStore(db.DB)

	_, err := store.Get("no-such-run")
	assert.Error(t, err)
}

func TestRunStoreList(t *testing.T) {
	db := setupTestDB(t)
	store := NewRunStore(db.DB)

	for i, name := range []string{"oldest", "middle", "newest"} {
		run := testRun(name)
		run.CreatedAt = int64((i + 1) * 1000)
		require.NoError(t, store.Insert(run))
	}

	runs, err := store.List(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "newest", runs[0].Scenario)
	assert.Equal(t, "middle", runs[1].Scenario)
	assert.Equal(t, 2, runs[0].CandidateCount)
	assert.Nil(t, runs[0].Candidates, "List should not load candidate rows")

	all, err := store.List(0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "non-positive limit lists everything")
}

func TestRunStoreDelete(t *testing.T) {
	db := setupTestDB(t)
	store := NewRunStore(db.DB)

	run := testRun("disposable")
	require.NoError(t, store.Insert(run))
	require.NoError(t, store.Delete(run.RunID))

	_, err := store.Get(run.RunID)
	assert.Error(t, err, "deleted run should not be readable")

	assert.Error(t, store.Delete(run.RunID), "double delete should report not found")
}

func TestNewPlanRunFromPipeline(t *testing.T) {
	cfg := choreo.DefaultConfig()
	cfg.Strategies = []choreo.Strategy{choreo.StrategySimple, choreo.StrategyPotentialField}

	starts := []choreo.Position{{X: 2, Y: 5}, {X: 10, Y: 5}}
	ends := []choreo.Position{{X: 10, Y: 5}, {X: 2, Y: 5}}
	results, err := choreo.GenerateCandidates(starts, ends, cfg, choreo.NopTrace())
	require.NoError(t, err)
	require.NotEmpty(t, results)

	run, err := NewPlanRun("swap", cfg, results)
	require.NoError(t, err)
	assert.Equal(t, 2, run.DancerCount)
	assert.Equal(t, string(cfg.AssignMode), run.AssignMode)
	assert.Len(t, run.Candidates, len(results))

	db := setupTestDB(t)
	store := NewRunStore(db.DB)
	require.NoError(t, store.Insert(run))

	got, err := store.Get(run.RunID)
	require.NoError(t, err)
	require.Len(t, got.Candidates, len(results))
	for i, c := range got.Candidates {
		assert.Equal(t, i, c.Rank)
		assert.Equal(t, results[i].Strategy.String(), c.Strategy)

		paths, err := c.Paths()
		require.NoError(t, err)
		assert.Len(t, paths, 2)
	}
}

func TestMigrateVersion(t *testing.T) {
	db := setupTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(2), version)

	require.NoError(t, db.MigrateDown())
	version, _, err = db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestMigrateUpIdempotent(t *testing.T) {
	db := setupTestDB(t)
	assert.NoError(t, db.MigrateUp(), "second MigrateUp should be a no-op")
}
