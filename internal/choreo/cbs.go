package choreo

import (
	"container/heap"
	"math"
)

// Conflict-based search. A two-level planner: the low level routes each
// dancer independently with space-time A* honoring that dancer's
// constraints, the high level walks a binary constraint tree, finding the
// earliest remaining collision and branching into two children that each
// forbid one participant from the collision region at the collision time.
// Conflict detection runs through the same sampler as Validate, so a
// conflict-free node really is a valid trajectory set.

// cbsConstraint forbids one dancer from a disc around pos near time.
type cbsConstraint struct {
	dancer int
	pos    Position
	time   float64
}

type cbsConflict struct {
	a, b int
	pos  Position
	time float64
}

// cbsNode is one node of the constraint tree.
type cbsNode struct {
	constraints []cbsConstraint
	paths       []DancerPath
	cost        float64
	index       int
}

type cbsHeap []*cbsNode

func (h cbsHeap) Len() int           { return len(h) }
func (h cbsHeap) Less(i, j int) bool { return h[i].cost < h[j].cost }
func (h cbsHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *cbsHeap) Push(x any) {
	n := x.(*cbsNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *cbsHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

func planCBS(assignments []Assignment, cfg Config, tr Trace) []DancerPath {
	root := &cbsNode{paths: make([]DancerPath, len(assignments))}
	for i, a := range assignments {
		root.paths[i] = cbsPlanOne(a, cfg, nil)
	}
	root.cost = totalPathCost(root.paths)

	open := &cbsHeap{}
	heap.Init(open)
	heap.Push(open, root)

	best := root
	_, bestConflicts := firstCBSConflict(root.paths, cfg)

	expansions := 0
	for open.Len() > 0 && expansions < cfg.CBSMaxExpansions {
		node := heap.Pop(open).(*cbsNode)
		expansions++

		conflict, remaining := firstCBSConflict(node.paths, cfg)
		if conflict == nil {
			tr.Eventf("cbs", "all conflicts resolved after %d expansion(s)", expansions)
			return node.paths
		}
		if remaining < bestConflicts {
			best, bestConflicts = node, remaining
		}

		for _, idx := range [2]int{conflict.a, conflict.b} {
			if assignments[idx].Distance < degenerateChord {
				// A stationary dancer cannot reroute; only the other
				// participant's child can resolve this conflict.
				continue
			}
			child := &cbsNode{
				constraints: append(
					append([]cbsConstraint{}, node.constraints...),
					cbsConstraint{dancer: idx, pos: conflict.pos, time: conflict.time},
				),
				paths: append([]DancerPath(nil), node.paths...),
			}
			child.paths[idx] = cbsPlanOne(assignments[idx], cfg, constraintsFor(child.constraints, idx))
			child.cost = totalPathCost(child.paths)
			heap.Push(open, child)
		}
	}

	tr.Eventf("cbs", "expansion budget exhausted, %d conflicting pair(s) remain", bestConflicts)
	return best.paths
}

// cbsPlanOne routes one dancer against its constraints alone; other dancers
// are invisible at the low level.
func cbsPlanOne(a Assignment, cfg Config, constraints []cbsConstraint) DancerPath {
	if hold, ok := holdInPlace(a, cfg); ok {
		return hold
	}
	path, ok := searchSpaceTime(a, cfg, constraintBlocked(constraints, cfg))
	if !ok {
		return directPath(a, cfg)
	}
	return NewDancerPath(a.DancerID, path)
}

// constraintBlocked turns a dancer's constraints into the search's obstacle
// test. The time window spans adjacent slices so a constraint cannot be
// stepped over between samples.
func constraintBlocked(constraints []cbsConstraint, cfg Config) blockedFunc {
	clearance := clearanceRadius(cfg)
	window := 1.5 * cfg.TimeResolution
	return func(pos Position, t float64) bool {
		for _, c := range constraints {
			if math.Abs(t-c.time) <= window && Distance(pos, c.pos) < clearance {
				return true
			}
		}
		return false
	}
}

func constraintsFor(constraints []cbsConstraint, dancer int) []cbsConstraint {
	var out []cbsConstraint
	for _, c := range constraints {
		if c.dancer == dancer {
			out = append(out, c)
		}
	}
	return out
}

// firstCBSConflict returns the earliest collision in the set plus the number
// of colliding pairs, for best-effort tracking when the budget runs out.
func firstCBSConflict(paths []DancerPath, cfg Config) (*cbsConflict, int) {
	var first *cbsConflict
	count := 0
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			t, hit := FirstCollision(paths[i].Path, paths[j].Path, cfg.CollisionRadius, cfg.TotalCounts, cfg.CollisionCheckStep)
			if !hit {
				continue
			}
			count++
			if first == nil || t < first.time {
				pa := PositionAtTime(paths[i].Path, t)
				pb := PositionAtTime(paths[j].Path, t)
				first = &cbsConflict{
					a:    i,
					b:    j,
					pos:  Position{X: (pa.X + pb.X) / 2, Y: (pa.Y + pb.Y) / 2},
					time: t,
				}
			}
		}
	}
	return first, count
}

func totalPathCost(paths []DancerPath) float64 {
	total := 0.0
	for i := range paths {
		total += paths[i].TotalDistance
	}
	return total
}
