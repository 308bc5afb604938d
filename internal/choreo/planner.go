package choreo

import (
	"fmt"
	"sort"
)

// planningMargin is the extra clearance planners keep on top of the contact
// distance (twice the collision radius). Validation judges at contact
// distance, so paths planned with this margin survive sampling jitter.
const planningMargin = 0.3

// PlanPaths runs one strategy over a fixed set of assignments and returns a
// complete trajectory set, one DancerPath per assignment, ordered by dancer
// id. Planners never fail on search exhaustion: a dancer whose search comes
// up empty falls back to its direct interpolated path and the shortfall
// surfaces through Validate. The only errors are bad inputs.
func PlanPaths(strategy Strategy, assignments []Assignment, cfg Config, trace Trace) ([]DancerPath, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(strategy))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, ErrNoDancers
	}
	tr := ensureTrace(trace)

	var paths []DancerPath
	switch strategy {
	case StrategySimple:
		paths = planSimple(assignments, cfg, tr)
	case StrategyAStar:
		paths = planAStar(assignments, cfg, tr)
	case StrategyJPS:
		paths = planJPS(assignments, cfg, tr)
	case StrategyCBS:
		paths = planCBS(assignments, cfg, tr)
	case StrategyRVO:
		paths = planRVO(assignments, cfg, tr)
	case StrategyBoids:
		paths = planBoids(assignments, cfg, tr)
	case StrategyPotentialField:
		paths = planPotentialField(assignments, cfg, tr)
	case StrategyHybrid:
		paths = planHybrid(assignments, cfg, tr, false)
	case StrategyHybridSync:
		paths = planHybrid(assignments, cfg, tr, true)
	}
	sortPathsByDancer(paths)
	return paths, nil
}

// clearanceRadius is the center-to-center distance planners steer to keep.
func clearanceRadius(cfg Config) float64 {
	return 2*cfg.CollisionRadius + planningMargin
}

// directPath is the unconditional fallback: straight interpolation across the
// full window, ignoring everyone else.
func directPath(a Assignment, cfg Config) DancerPath {
	if a.Distance < degenerateChord {
		return NewDancerPath(a.DancerID, StationaryPath(a.Start, 0, cfg.TotalCounts))
	}
	return NewDancerPath(a.DancerID, LinearPath(a.Start, a.End, 0, cfg.TotalCounts, cfg.NumPoints))
}

// holdInPlace handles the degenerate assignment whose start and end coincide.
// Every strategy emits the same stationary path for it, so strategies agree
// on what "not moving" looks like.
func holdInPlace(a Assignment, cfg Config) (DancerPath, bool) {
	if a.Distance >= degenerateChord {
		return DancerPath{}, false
	}
	return NewDancerPath(a.DancerID, StationaryPath(a.Start, 0, cfg.TotalCounts)), true
}

// orderedByDistance returns a copy sorted longest travel first. Sequential
// placement strategies route the hardest trips while the stage is empty.
// Ties break on dancer id so placement order is reproducible.
func orderedByDistance(assignments []Assignment) []Assignment {
	out := append([]Assignment(nil), assignments...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance != out[j].Distance {
			return out[i].Distance > out[j].Distance
		}
		return out[i].DancerID < out[j].DancerID
	})
	return out
}

// orderedByRow returns a copy sorted downstage first (ascending start Y).
// The curve-candidate strategies place the front row before the rows behind
// it, so a later dancer yields to the rows the audience watches most.
func orderedByRow(assignments []Assignment) []Assignment {
	out := append([]Assignment(nil), assignments...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start.Y != out[j].Start.Y {
			return out[i].Start.Y < out[j].Start.Y
		}
		if out[i].Start.X != out[j].Start.X {
			return out[i].Start.X < out[j].Start.X
		}
		return out[i].DancerID < out[j].DancerID
	})
	return out
}

func sortPathsByDancer(paths []DancerPath) {
	sort.Slice(paths, func(i, j int) bool { return paths[i].DancerID < paths[j].DancerID })
}

// collidingPairs lists the index pairs (i < j) whose trajectories collide,
// in ascending order. Repair loops iterate this list deterministically.
func collidingPairs(paths []DancerPath, cfg Config) [][2]int {
	var pairs [][2]int
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if _, hit := FirstCollision(paths[i].Path, paths[j].Path, cfg.CollisionRadius, cfg.TotalCounts, cfg.CollisionCheckStep); hit {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// otherPaths returns every path except the one at skip.
func otherPaths(paths []DancerPath, skip int) []DancerPath {
	out := make([]DancerPath, 0, len(paths)-1)
	for i := range paths {
		if i != skip {
			out = append(out, paths[i])
		}
	}
	return out
}
