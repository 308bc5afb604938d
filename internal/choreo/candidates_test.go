package choreo

import (
	"errors"
	"math"
	"testing"
)

// lineToVFormation is eight dancers collapsing from an upstage line into a
// downstage V, the pipeline's canonical convergence case.
func lineToVFormation() (starts, ends []Position) {
	const n = 8
	starts = make([]Position, n)
	ends = make([]Position, n)
	mid := float64(n-1) / 2
	for i := 0; i < n; i++ {
		starts[i] = Position{X: 2 + 8*float64(i)/float64(n-1), Y: 7.5}
		off := float64(i) - mid
		ends[i] = Position{X: 6 + 1.2*off, Y: 2.5 + 0.9*math.Abs(off)}
	}
	return starts, ends
}

func TestGenerateCandidates_RankedBestFirst(t *testing.T) {
	starts, ends := lineToVFormation()
	results, err := GenerateCandidates(starts, ends, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("GenerateCandidates: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("pipeline produced no candidates")
	}

	if best := results[0]; best.Metrics.CollisionCount != 0 {
		t.Errorf("best candidate (%s) has %d collisions, want 0", best.Strategy, best.Metrics.CollisionCount)
	}
	for i := 1; i < len(results); i++ {
		a, b := &results[i-1].Metrics, &results[i].Metrics
		if b.CollisionCount < a.CollisionCount {
			t.Errorf("rank %d has %d collisions, after %d", i, b.CollisionCount, a.CollisionCount)
		}
		if b.CollisionCount == a.CollisionCount && b.CrossingCount < a.CrossingCount {
			t.Errorf("rank %d breaks the crossing tiebreak: %d after %d", i, b.CrossingCount, a.CrossingCount)
		}
	}

	seen := make(map[string]bool)
	for _, res := range results {
		if res.ID == "" || seen[res.ID] {
			t.Errorf("candidate %s has a missing or duplicate ID", res.Strategy)
		}
		seen[res.ID] = true
		if len(res.Paths) != len(starts) {
			t.Errorf("%s: %d paths, want %d", res.Strategy, len(res.Paths), len(starts))
		}
		if len(res.Assignments) != len(starts) {
			t.Errorf("%s: %d assignments, want %d", res.Strategy, len(res.Assignments), len(starts))
		}
		if res.PlanMillis < 0 {
			t.Errorf("%s: negative planning time %v", res.Strategy, res.PlanMillis)
		}
	}
}

func TestGenerateCandidates_SingleStrategy(t *testing.T) {
	starts, ends := lineToVFormation()
	cfg := DefaultConfig()
	cfg.Strategies = []Strategy{StrategyPotentialField}

	results, err := GenerateCandidates(starts, ends, cfg, nil)
	if err != nil {
		t.Fatalf("GenerateCandidates: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d candidates, want 1", len(results))
	}
	if results[0].Strategy != StrategyPotentialField {
		t.Errorf("strategy = %s, want potential-field", results[0].Strategy)
	}
}

func TestGenerateCandidates_TraceStages(t *testing.T) {
	starts, ends := lineToVFormation()
	cfg := DefaultConfig()
	cfg.Strategies = []Strategy{StrategySimple, StrategyAStar}

	tr := &recordTrace{}
	if _, err := GenerateCandidates(starts, ends, cfg, tr); err != nil {
		t.Fatalf("GenerateCandidates: %v", err)
	}
	if !tr.contains("assign:") {
		t.Errorf("missing assignment event, got %v", tr.events)
	}
	if !tr.contains("score:") {
		t.Errorf("missing scoring events, got %v", tr.events)
	}
}

func TestGenerateCandidates_InputErrors(t *testing.T) {
	starts, ends := lineToVFormation()

	bad := DefaultConfig()
	bad.TotalCounts = 0
	if _, err := GenerateCandidates(starts, ends, bad, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("invalid config: got %v, want ErrInvalidConfig", err)
	}
	if _, err := GenerateCandidates(starts, ends[:2], DefaultConfig(), nil); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("length mismatch: got %v, want ErrLengthMismatch", err)
	}
	if _, err := GenerateCandidates(nil, nil, DefaultConfig(), nil); !errors.Is(err, ErrNoDancers) {
		t.Errorf("empty formations: got %v, want ErrNoDancers", err)
	}
}

func TestDedupCandidates_CollapsesNearIdentical(t *testing.T) {
	cfg := DefaultConfig()
	base := straightLine("d01", Position{X: 2, Y: 5}, Position{X: 10, Y: 5}, 0, cfg.TotalCounts)

	// Same track shifted by less than the position tolerance.
	shifted := NewDancerPath("d01", []PathPoint{
		{X: 2, Y: 5.2, T: 0},
		{X: 6, Y: 5.2, T: cfg.TotalCounts / 2},
		{X: 10, Y: 5.2, T: cfg.TotalCounts},
	})
	// A genuinely different route around the top of the stage.
	detour := NewDancerPath("d01", []PathPoint{
		{X: 2, Y: 5, T: 0},
		{X: 6, Y: 8, T: cfg.TotalCounts / 2},
		{X: 10, Y: 5, T: cfg.TotalCounts},
	})

	results := []CandidateResult{
		{Strategy: StrategySimple, Paths: []DancerPath{base}},
		{Strategy: StrategyAStar, Paths: []DancerPath{shifted}},
		{Strategy: StrategyRVO, Paths: []DancerPath{detour}},
	}

	tr := &recordTrace{}
	kept := dedupCandidates(results, cfg, tr)
	if len(kept) != 2 {
		t.Fatalf("kept %d candidates, want 2", len(kept))
	}
	if kept[0].Strategy != StrategySimple || kept[1].Strategy != StrategyRVO {
		t.Errorf("kept %s, %s; want simple then rvo", kept[0].Strategy, kept[1].Strategy)
	}
	if !tr.contains("duplicates") {
		t.Errorf("missing dedup event, got %v", tr.events)
	}
}

func TestDedupCandidates_RespectsStartTimeTolerance(t *testing.T) {
	cfg := DefaultConfig()
	onTime := straightLine("d01", Position{X: 2, Y: 5}, Position{X: 10, Y: 5}, 0, cfg.TotalCounts)
	delayed := straightLine("d01", Position{X: 2, Y: 5}, Position{X: 10, Y: 5}, 1, cfg.TotalCounts)

	results := []CandidateResult{
		{Strategy: StrategySimple, Paths: []DancerPath{onTime}},
		{Strategy: StrategyAStar, Paths: []DancerPath{delayed}},
	}
	kept := dedupCandidates(results, cfg, ensureTrace(nil))
	if len(kept) != 2 {
		t.Errorf("kept %d candidates, want 2: a 1-count delay is not a duplicate", len(kept))
	}
}

func TestRankCandidates_Order(t *testing.T) {
	mk := func(s Strategy, collisions, crossings int) CandidateResult {
		return CandidateResult{
			Strategy: s,
			Metrics:  CandidateMetrics{CollisionCount: collisions, CrossingCount: crossings},
		}
	}
	results := []CandidateResult{
		mk(StrategyRVO, 2, 0),
		mk(StrategyAStar, 0, 3),
		mk(StrategyBoids, 0, 1),
		mk(StrategySimple, 0, 1),
	}

	rankCandidates(results)

	want := []Strategy{StrategySimple, StrategyBoids, StrategyAStar, StrategyRVO}
	for i, s := range want {
		if results[i].Strategy != s {
			t.Errorf("rank %d = %s, want %s", i, results[i].Strategy, s)
		}
	}
}
