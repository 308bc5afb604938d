package choreo

import (
	"container/heap"
	"math"
)

// Space-time A*. Dancers are routed one at a time, longest trip first, over
// the stage grid crossed with time slices; everyone routed earlier becomes a
// moving obstacle sampled at the slice times. A dancer whose search exhausts
// its node budget keeps its direct path and the shortfall surfaces in the
// validation report.

// cellKey identifies a (grid cell, time slice) search state.
type cellKey struct {
	X, Y, T int
}

// timeNode is one state in the space-time search.
type timeNode struct {
	cell   cellKey
	pos    Position
	t      float64
	g      float64 // cost from start
	f      float64 // g plus heuristic
	parent *timeNode
	index  int // heap index
}

// nodeHeap is a min-heap of search states ordered by f cost.
type nodeHeap []*timeNode

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	// Tie-break toward later time slices so deeper states win, then by cell
	// so expansion order is reproducible.
	if h[i].cell.T != h[j].cell.T {
		return h[i].cell.T > h[j].cell.T
	}
	if h[i].cell.X != h[j].cell.X {
		return h[i].cell.X < h[j].cell.X
	}
	return h[i].cell.Y < h[j].cell.Y
}

func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*timeNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[:n-1]
	return node
}

// blockedFunc reports whether standing at pos at time t violates clearance.
type blockedFunc func(pos Position, t float64) bool

// movingObstacles closes over the already-routed trajectories. Positions are
// re-derived per query, so a dancer standing at its goal still occupies it.
func movingObstacles(placed []DancerPath, cfg Config) blockedFunc {
	clearance := clearanceRadius(cfg)
	return func(pos Position, t float64) bool {
		for i := range placed {
			if Distance(pos, PositionAtTime(placed[i].Path, t)) < clearance {
				return true
			}
		}
		return false
	}
}

type gridMove struct {
	dx, dy, cost float64
}

// gridMoves lists the eight neighbor steps plus a wait-in-place, each
// advancing one time slice. Waiting costs the same as a cardinal step, the
// usual unit-cost convention, so a dancer pauses only when pausing is really
// cheaper than routing around. Order is fixed for reproducibility.
func gridMoves(res float64) []gridMove {
	diag := res * math.Sqrt2
	return []gridMove{
		{res, 0, res}, {-res, 0, res}, {0, res, res}, {0, -res, res},
		{res, res, diag}, {res, -res, diag}, {-res, res, diag}, {-res, -res, diag},
		{0, 0, res},
	}
}

func planAStar(assignments []Assignment, cfg Config, tr Trace) []DancerPath {
	order := orderedByDistance(assignments)
	paths := make([]DancerPath, 0, len(order))
	for _, a := range order {
		if hold, ok := holdInPlace(a, cfg); ok {
			paths = append(paths, hold)
			continue
		}
		path, ok := searchSpaceTime(a, cfg, movingObstacles(paths, cfg))
		if !ok {
			tr.Eventf("astar", "%s: search exhausted, keeping direct path", a.DancerID)
			paths = append(paths, directPath(a, cfg))
			continue
		}
		paths = append(paths, NewDancerPath(a.DancerID, path))
	}
	return paths
}

// searchSpaceTime runs A* for one dancer. The goal test requires spatial
// proximity and a clear stand at the goal through the rest of the window,
// since the dancer holds its end position once it arrives.
func searchSpaceTime(a Assignment, cfg Config, blocked blockedFunc) ([]PathPoint, bool) {
	res := cfg.GridResolution
	dt := cfg.TimeResolution
	horizon := cfg.TotalCounts

	start := &timeNode{cell: cellOf(a.Start, 0, cfg), pos: a.Start}
	start.f = Distance(a.Start, a.End)

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, start)
	closed := make(map[cellKey]bool)
	seen := map[cellKey]*timeNode{start.cell: start}

	expanded := 0
	for open.Len() > 0 {
		expanded++
		if expanded > cfg.MaxIterations {
			return nil, false
		}
		cur := heap.Pop(open).(*timeNode)
		closed[cur.cell] = true

		if Distance(cur.pos, a.End) <= res && standClear(a.End, cur.t, horizon, dt, blocked) {
			return reconstructSpaceTime(cur, a.End, dt, horizon), true
		}

		nt := cur.t + dt
		if nt > horizon+1e-9 {
			continue
		}
		for _, mv := range gridMoves(res) {
			np := Position{X: cur.pos.X + mv.dx, Y: cur.pos.Y + mv.dy}
			if np.X < 0 || np.X > cfg.StageWidth || np.Y < 0 || np.Y > cfg.StageHeight {
				continue
			}
			key := cellOf(np, nt, cfg)
			if closed[key] {
				continue
			}
			mid := Position{X: (cur.pos.X + np.X) / 2, Y: (cur.pos.Y + np.Y) / 2}
			if blocked(mid, cur.t+dt/2) || blocked(np, nt) {
				continue
			}
			g := cur.g + mv.cost

			if prev, ok := seen[key]; ok {
				if g < prev.g {
					prev.g = g
					prev.f = g + Distance(prev.pos, a.End)
					prev.parent = cur
					heap.Fix(open, prev.index)
				}
				continue
			}
			node := &timeNode{cell: key, pos: np, t: nt, g: g, parent: cur}
			node.f = g + Distance(np, a.End)
			heap.Push(open, node)
			seen[key] = node
		}
	}
	return nil, false
}

func cellOf(p Position, t float64, cfg Config) cellKey {
	return cellKey{
		X: int(math.Round(p.X / cfg.GridResolution)),
		Y: int(math.Round(p.Y / cfg.GridResolution)),
		T: int(math.Round(t / cfg.TimeResolution)),
	}
}

// standClear verifies pos can be held from t through the horizon without any
// routed dancer sweeping through it.
func standClear(pos Position, from, horizon, dt float64, blocked blockedFunc) bool {
	for t := from; t <= horizon+dt/2; t += dt {
		if blocked(pos, math.Min(t, horizon)) {
			return false
		}
	}
	return true
}

// reconstructSpaceTime walks parents back to the start and snaps the final
// sample onto the exact goal position.
func reconstructSpaceTime(goal *timeNode, end Position, dt, horizon float64) []PathPoint {
	var pts []PathPoint
	for n := goal; n != nil; n = n.parent {
		pts = append(pts, PathPoint{X: n.pos.X, Y: n.pos.Y, T: n.t})
	}
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
	last := pts[len(pts)-1]
	if Distance(last.Pos(), end) <= degenerateChord {
		return pts
	}
	if last.T+dt > horizon {
		// No slice left; adjust the final sample in place. The goal test
		// already bounded this correction to one grid cell.
		pts[len(pts)-1] = PathPoint{X: end.X, Y: end.Y, T: last.T}
		return pts
	}
	return append(pts, PathPoint{X: end.X, Y: end.Y, T: last.T + dt})
}
