package choreo

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Near-duplicate thresholds: two candidates collapse into one when every
// dancer starts within dupStartTimeTol counts and tracks within
// dupPositionTol stage units at the window's start, middle, and end.
const (
	dupStartTimeTol = 0.25
	dupPositionTol  = 0.5
)

// GenerateCandidates runs the full pipeline: solve the assignment once, plan
// it under every requested strategy, score each trajectory set, collapse
// near-duplicates, and rank what remains best first. The trace receives one
// event per stage, so a caller can reconstruct why the winner won.
func GenerateCandidates(starts, ends []Position, cfg Config, trace Trace) ([]CandidateResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tr := ensureTrace(trace)

	assignments, err := SolveAssignment(starts, ends, cfg.AssignMode)
	if err != nil {
		return nil, err
	}
	tr.Eventf("assign", "%s assignment over %d dancers, total travel %.2f",
		cfg.AssignMode, len(assignments), TotalAssignmentDistance(assignments))

	strategies := cfg.requestedStrategies()
	results := make([]CandidateResult, 0, len(strategies))
	for _, s := range strategies {
		planStart := time.Now()
		paths, err := PlanPaths(s, assignments, cfg, tr)
		if err != nil {
			return nil, err
		}
		metrics := ComputeMetrics(paths, cfg)
		tr.Eventf("score", "%s: %d collision(s), %d crossing(s), arrival spread %.2f",
			s, metrics.CollisionCount, metrics.CrossingCount, metrics.ArrivalSpread)
		results = append(results, CandidateResult{
			ID:          uuid.NewString(),
			Strategy:    s,
			Paths:       paths,
			Metrics:     metrics,
			Assignments: assignments,
			PlanMillis:  float64(time.Since(planStart).Microseconds()) / 1000.0,
		})
	}

	results = dedupCandidates(results, cfg, tr)
	rankCandidates(results)
	return results, nil
}

// dedupCandidates keeps the first of each group of near-identical
// trajectory sets, in strategy order.
func dedupCandidates(results []CandidateResult, cfg Config, tr Trace) []CandidateResult {
	kept := make([]CandidateResult, 0, len(results))
	for _, r := range results {
		dup := false
		for i := range kept {
			if candidatesAlike(kept[i], r, cfg) {
				tr.Eventf("dedup", "%s duplicates %s, dropped", r.Strategy, kept[i].Strategy)
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, r)
		}
	}
	return kept
}

func candidatesAlike(a, b CandidateResult, cfg Config) bool {
	if len(a.Paths) != len(b.Paths) {
		return false
	}
	ticks := []float64{0, cfg.TotalCounts / 2, cfg.TotalCounts}
	for i := range a.Paths {
		pa, pb := &a.Paths[i], &b.Paths[i]
		if pa.DancerID != pb.DancerID {
			return false
		}
		if math.Abs(pa.StartTime-pb.StartTime) >= dupStartTimeTol {
			return false
		}
		for _, t := range ticks {
			if Distance(PositionAtTime(pa.Path, t), PositionAtTime(pb.Path, t)) >= dupPositionTol {
				return false
			}
		}
	}
	return true
}

// rankCandidates orders results best first: fewest collisions, then fewest
// crossings, then stable strategy order.
func rankCandidates(results []CandidateResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := &results[i].Metrics, &results[j].Metrics
		if a.CollisionCount != b.CollisionCount {
			return a.CollisionCount < b.CollisionCount
		}
		if a.CrossingCount != b.CrossingCount {
			return a.CrossingCount < b.CrossingCount
		}
		return results[i].Strategy < results[j].Strategy
	})
}
