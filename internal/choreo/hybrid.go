package choreo

import (
	"math"
	"sort"
)

// The hybrid planner is a curve-candidate search: each dancer, taken in row
// order, auditions a ladder of delayed and curved variants of its chord and
// keeps the best one that clears everyone already placed. Two escalation
// phases widen the ladder before the dancer gives up and yields with an
// extreme arc. A bounded repair loop then reroutes whichever pairs still
// collide.

// curveKind picks the builder a curveSpec materializes through.
type curveKind int

const (
	curveLinear curveKind = iota
	curveQuad
	curveCubic
)

// curveSpec describes one candidate trajectory for a single dancer: a curve
// shape with control offsets as fractions of the chord length, a start delay
// in counts, and the fraction of the remaining window spent moving.
type curveSpec struct {
	kind    curveKind
	off1    float64
	off2    float64
	delay   float64
	durFrac float64
}

// buildCurve materializes a spec into a sampled path for one assignment.
// Delays shrink the moving window; the dancer still arrives by the horizon.
func buildCurve(a Assignment, cfg Config, spec curveSpec) []PathPoint {
	startTime := spec.delay
	window := cfg.TotalCounts - startTime
	if window < cfg.TimeResolution {
		startTime = cfg.TotalCounts - cfg.TimeResolution
		window = cfg.TimeResolution
	}
	durFrac := spec.durFrac
	if durFrac <= 0 || durFrac > 1 {
		durFrac = 1
	}
	duration := window * durFrac
	chord := a.Distance
	switch spec.kind {
	case curveQuad:
		return QuadCurvePath(a.Start, a.End, spec.off1*chord, startTime, duration, cfg.NumPoints)
	case curveCubic:
		return CubicCurvePath(a.Start, a.End, spec.off1*chord, spec.off2*chord, startTime, duration, cfg.NumPoints)
	default:
		return LinearPath(a.Start, a.End, startTime, duration, cfg.NumPoints)
	}
}

// hybridCandidate is one scored, collision-free audition for a dancer.
type hybridCandidate struct {
	path       []PathPoint
	delay      float64
	crossings  int
	complexity float64
}

// hybridLess ranks clean candidates under the active sync mode. Strict mode
// moves everyone as one block (delay first), relaxed mode keeps lines clean
// (complexity first), balanced mode minimizes path crossings first.
func hybridLess(mode SyncMode, a, b hybridCandidate) bool {
	switch mode {
	case SyncStrict:
		if a.delay != b.delay {
			return a.delay < b.delay
		}
		if a.crossings != b.crossings {
			return a.crossings < b.crossings
		}
		return a.complexity < b.complexity
	case SyncRelaxed:
		if a.complexity != b.complexity {
			return a.complexity < b.complexity
		}
		if a.crossings != b.crossings {
			return a.crossings < b.crossings
		}
		return a.delay < b.delay
	default:
		if a.crossings != b.crossings {
			return a.crossings < b.crossings
		}
		if a.delay != b.delay {
			return a.delay < b.delay
		}
		return a.complexity < b.complexity
	}
}

func planHybrid(assignments []Assignment, cfg Config, tr Trace, syncFirst bool) []DancerPath {
	mode := cfg.SyncMode
	if syncFirst {
		mode = SyncStrict
	}
	biased := headOnBiases(assignments, cfg)
	order := orderedByRow(assignments)

	paths := make([]DancerPath, 0, len(order))
	for _, a := range order {
		if hold, ok := holdInPlace(a, cfg); ok {
			paths = append(paths, hold)
			continue
		}
		path, phase := hybridPlace(a, cfg, paths, mode, biased[a.DancerID])
		paths = append(paths, NewDancerPath(a.DancerID, path))
		if phase == 3 {
			tr.Eventf("hybrid", "%s yielded with an extreme arc", a.DancerID)
		}
	}

	// Repair: reroute the upstage member of the first colliding pair, once
	// per iteration, until clean or out of budget.
	for it := 0; it < cfg.RepairIterations; it++ {
		pairs := collidingPairs(paths, cfg)
		if len(pairs) == 0 {
			tr.Eventf("hybrid", "all collisions resolved after %d repair iteration(s)", it)
			return paths
		}
		repaired := false
		for _, pr := range pairs {
			v := repairVictim(order, pr)
			if v < 0 {
				continue
			}
			a := order[v]
			path, _ := hybridPlace(a, cfg, otherPaths(paths, v), mode, biased[a.DancerID])
			paths[v] = NewDancerPath(a.DancerID, path)
			repaired = true
			break
		}
		if !repaired {
			break
		}
	}
	if n := countPairCollisions(paths, cfg); n == 0 {
		tr.Eventf("hybrid", "all collisions resolved after %d repair iteration(s)", cfg.RepairIterations)
	} else {
		tr.Eventf("hybrid", "%d colliding pair(s) remain after repair budget", n)
	}
	return paths
}

// repairVictim picks which member of a colliding pair gets rerouted: the
// upstage one (larger start Y), never a stationary one. Returns -1 when
// neither member can move.
func repairVictim(order []Assignment, pr [2]int) int {
	v, other := pr[1], pr[0]
	if order[other].Start.Y > order[v].Start.Y {
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

// hybridPlace runs the phase ladders for one dancer against the placed set
// and returns the chosen path plus the phase that produced it.
func hybridPlace(a Assignment, cfg Config, placed []DancerPath, mode SyncMode, headOn bool) ([]PathPoint, int) {
	if cands := hybridAudition(a, cfg, placed, hybridPhase1(cfg, headOn)); len(cands) > 0 {
		return pickBest(mode, cands), 1
	}
	if cands := hybridAudition(a, cfg, placed, hybridPhase2(cfg, headOn)); len(cands) > 0 {
		return pickBest(mode, cands), 2
	}
	return hybridYield(a, cfg, placed), 3
}

// hybridAudition builds and filters one phase's candidates: in bounds, under
// the speed cap, and clear of every placed trajectory.
func hybridAudition(a Assignment, cfg Config, placed []DancerPath, specs []curveSpec) []hybridCandidate {
	var out []hybridCandidate
	for _, spec := range specs {
		path := buildCurve(a, cfg, spec)
		if !pathUsable(path, cfg) {
			continue
		}
		if collidesWithAny(path, placed, cfg) {
			continue
		}
		out = append(out, hybridCandidate{
			path:       path,
			delay:      spec.delay,
			crossings:  totalCrossings(path, placed),
			complexity: maxChordDeviation(path),
		})
	}
	return out
}

func pickBest(mode SyncMode, cands []hybridCandidate) []PathPoint {
	sort.SliceStable(cands, func(i, j int) bool { return hybridLess(mode, cands[i], cands[j]) })
	return cands[0].path
}

// shapeLadder returns phase-1 curve shapes in audition order. Head-on biased
// dancers skip the straight line and try their own left side first; since
// the opposing dancer's left is the opposite world side, both members of a
// head-on pair peel apart instead of mirroring into each other.
func shapeLadder(headOn bool) []curveSpec {
	if headOn {
		return []curveSpec{
			{kind: curveQuad, off1: 0.15},
			{kind: curveQuad, off1: 0.3},
			{kind: curveQuad, off1: 0.5},
			{kind: curveCubic, off1: 0.3, off2: 0.15},
			{kind: curveCubic, off1: 0.2, off2: -0.2},
			{kind: curveQuad, off1: -0.15},
			{kind: curveQuad, off1: -0.3},
			{kind: curveQuad, off1: -0.5},
			{kind: curveCubic, off1: -0.3, off2: -0.15},
			{kind: curveCubic, off1: -0.2, off2: 0.2},
		}
	}
	return []curveSpec{
		{kind: curveLinear},
		{kind: curveQuad, off1: 0.15},
		{kind: curveQuad, off1: -0.15},
		{kind: curveQuad, off1: 0.3},
		{kind: curveQuad, off1: -0.3},
		{kind: curveQuad, off1: 0.5},
		{kind: curveQuad, off1: -0.5},
		{kind: curveCubic, off1: 0.3, off2: 0.15},
		{kind: curveCubic, off1: -0.3, off2: -0.15},
		{kind: curveCubic, off1: 0.2, off2: -0.2},
		{kind: curveCubic, off1: -0.2, off2: 0.2},
	}
}

func hybridPhase1(cfg Config, headOn bool) []curveSpec {
	return combineSpecs(cfg,
		[]float64{0, 0.5, 1.0, 1.5},
		[]float64{1, 0.75, 0.5},
		shapeLadder(headOn))
}

// hybridPhase2 escalates: longer delays, deeper arcs, S-curves with more
// swing. Reached only when phase 1 found nothing clean.
func hybridPhase2(cfg Config, headOn bool) []curveSpec {
	shapes := []curveSpec{
		{kind: curveQuad, off1: 0.65},
		{kind: curveQuad, off1: -0.65},
		{kind: curveQuad, off1: 0.8},
		{kind: curveQuad, off1: -0.8},
		{kind: curveCubic, off1: 0.5, off2: 0.25},
		{kind: curveCubic, off1: -0.5, off2: -0.25},
		{kind: curveCubic, off1: 0.4, off2: -0.4},
		{kind: curveCubic, off1: -0.4, off2: 0.4},
	}
	if !headOn {
		shapes = append([]curveSpec{{kind: curveLinear}}, shapes...)
	}
	return combineSpecs(cfg,
		[]float64{2.0, 2.5, 3.0},
		[]float64{1, 0.6},
		shapes)
}

// combineSpecs crosses delays, duration fractions, and shapes into a flat
// audition ladder, dropping delays that leave no room to move.
func combineSpecs(cfg Config, delays, durFracs []float64, shapes []curveSpec) []curveSpec {
	out := make([]curveSpec, 0, len(delays)*len(durFracs)*len(shapes))
	for _, d := range delays {
		if d >= cfg.TotalCounts-cfg.TimeResolution {
			continue
		}
		for _, f := range durFracs {
			for _, s := range shapes {
				spec := s
				spec.delay = d
				spec.durFrac = f
				out = append(out, spec)
			}
		}
	}
	return out
}

// hybridYield is the phase-3 fallback: an extreme arc chosen to collide with
// as few placed trajectories as possible, clamped to the stage. It always
// returns a path; whatever still collides is left to the repair loop and,
// ultimately, the validation report.
func hybridYield(a Assignment, cfg Config, placed []DancerPath) []PathPoint {
	specs := []curveSpec{
		{kind: curveQuad, off1: 0.8},
		{kind: curveQuad, off1: -0.8},
		{kind: curveQuad, off1: 0.8, delay: 1},
		{kind: curveQuad, off1: -0.8, delay: 1},
		{kind: curveQuad, off1: 0.8, delay: 2},
		{kind: curveQuad, off1: -0.8, delay: 2},
	}
	var best []PathPoint
	bestHits := math.MaxInt
	bestSep := -1.0
	for _, spec := range specs {
		spec.durFrac = 1
		path := clampPathToStage(buildCurve(a, cfg, spec), cfg)
		hits := 0
		sep := math.Inf(1)
		for i := range placed {
			if _, hit := FirstCollision(path, placed[i].Path, cfg.CollisionRadius, cfg.TotalCounts, cfg.CollisionCheckStep); hit {
				hits++
			}
			if s := MinSeparation(path, placed[i].Path, cfg.TotalCounts, cfg.CollisionCheckStep); s < sep {
				sep = s
			}
		}
		if hits < bestHits || (hits == bestHits && sep > bestSep) {
			best, bestHits, bestSep = path, hits, sep
		}
	}
	return best
}

// pathUsable rejects candidates that leave the stage or imply a speed above
// the configured cap.
func pathUsable(path []PathPoint, cfg Config) bool {
	if len(path) == 0 {
		return false
	}
	for _, p := range path {
		if p.X < 0 || p.X > cfg.StageWidth || p.Y < 0 || p.Y > cfg.StageHeight {
			return false
		}
	}
	dur := path[len(path)-1].T - path[0].T
	if dur > 0 && PathLength(path)/dur > cfg.MaxSpeed {
		return false
	}
	return true
}

func clampPathToStage(path []PathPoint, cfg Config) []PathPoint {
	for i, p := range path {
		c := clampToStage(p.Pos(), cfg.StageWidth, cfg.StageHeight)
		path[i].X, path[i].Y = c.X, c.Y
	}
	return path
}

func totalCrossings(path []PathPoint, placed []DancerPath) int {
	n := 0
	for i := range placed {
		n += CountCrossings(path, placed[i].Path)
	}
	return n
}

// headOnBiases flags dancers whose chords run nearly anti-parallel through
// the same corridor. Both members then audition their own left side first.
func headOnBiases(assignments []Assignment, cfg Config) map[string]bool {
	biased := make(map[string]bool)
	for i := 0; i < len(assignments); i++ {
		for j := i + 1; j < len(assignments); j++ {
			a, b := assignments[i], assignments[j]
			if a.Distance < degenerateChord || b.Distance < degenerateChord {
				continue
			}
			dot := ((a.End.X-a.Start.X)*(b.End.X-b.Start.X) +
				(a.End.Y-a.Start.Y)*(b.End.Y-b.Start.Y)) / (a.Distance * b.Distance)
			if dot > -0.9 {
				continue
			}
			if segmentDistance(a.Start, a.End, b.Start, b.End) > clearanceRadius(cfg) {
				continue
			}
			biased[a.DancerID] = true
			biased[b.DancerID] = true
		}
	}
	return biased
}
