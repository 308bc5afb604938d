package choreo

// simpleRepairPasses bounds the baseline's repair sweep. Three passes settle
// formations of typical size; anything left after that is a scenario the
// baseline is not meant to solve.
const simpleRepairPasses = 3

var (
	simpleDelays = []float64{0.5, 1.0, 1.5, 2.0}
	simpleArcs   = []float64{0.2, -0.2, 0.35, -0.35, 0.5, -0.5}
)

// planSimple is the baseline: every dancer walks its straight line across the
// full window, then a few repair passes nudge colliding pairs apart with
// short start delays and gentle arcs. It deliberately stops well short of
// what the search strategies attempt.
func planSimple(assignments []Assignment, cfg Config, tr Trace) []DancerPath {
	order := orderedByRow(assignments)
	paths := make([]DancerPath, len(order))
	for i, a := range order {
		paths[i] = directPath(a, cfg)
	}

	for pass := 0; pass < simpleRepairPasses; pass++ {
		pairs := collidingPairs(paths, cfg)
		if len(pairs) == 0 {
			if pass > 0 {
				tr.Eventf("simple", "collision free after %d repair pass(es)", pass)
			}
			return paths
		}
		for _, pr := range pairs {
			v := simpleVictim(order, pr)
			if v < 0 {
				continue
			}
			a := order[v]
			others := otherPaths(paths, v)
			if cand, ok := simpleRepair(a, cfg, others); ok {
				paths[v] = cand
				tr.Eventf("simple", "rerouted %s (start %.1f)", a.DancerID, cand.StartTime)
			}
		}
	}
	if n := countPairCollisions(paths, cfg); n > 0 {
		tr.Eventf("simple", "%d colliding pair(s) remain after %d passes", n, simpleRepairPasses)
	}
	return paths
}

// simpleVictim picks which member of a colliding pair to reroute: the
// upstage dancer (larger start Y), never a stationary one. Returns -1 when
// neither member can move.
func simpleVictim(order []Assignment, pr [2]int) int {
	v, other := pr[1], pr[0]
	if order[v].Start.Y < order[other].Start.Y {
		v, other = other, v
	}
	if order[v].Distance < degenerateChord {
		v = other
	}
	if order[v].Distance < degenerateChord {
		return -1
	}
	return v
}

// simpleRepair tries the baseline's fixed ladder of alternatives, delays
// first, then quadratic arcs, and returns the first one clear of the other
// trajectories.
func simpleRepair(a Assignment, cfg Config, others []DancerPath) (DancerPath, bool) {
	for _, d := range simpleDelays {
		if d >= cfg.TotalCounts-cfg.TimeResolution {
			break
		}
		cand := buildCurve(a, cfg, curveSpec{kind: curveLinear, delay: d, durFrac: 1})
		if !collidesWithAny(cand, others, cfg) {
			return NewDancerPath(a.DancerID, cand), true
		}
	}
	for _, f := range simpleArcs {
		cand := buildCurve(a, cfg, curveSpec{kind: curveQuad, off1: f, durFrac: 1})
		if !pathUsable(cand, cfg) {
			continue
		}
		if !collidesWithAny(cand, others, cfg) {
			return NewDancerPath(a.DancerID, cand), true
		}
	}
	return DancerPath{}, false
}
