package choreo

import "container/heap"

// Jump point search over the same space-time grid as planAStar. Straight
// runs collapse into single expansions: a jump walks cell by cell, one time
// slice per cell, until it nears the goal, nears an obstacle, or hits the
// jump cap. Classic jump-point pruning assumes static obstacles, so jumps
// stop conservatively at any obstacle contact and the stop cell re-expands
// in every direction like a normal A* node. Path samples contain only jump
// landings; interpolating between them reproduces the straight run exactly.

// maxJumpCells caps one jump so the open list never starves of decision
// points on a wide empty stage.
const maxJumpCells = 6

func planJPS(assignments []Assignment, cfg Config, tr Trace) []DancerPath {
	order := orderedByDistance(assignments)
	paths := make([]DancerPath, 0, len(order))
	for _, a := range order {
		if hold, ok := holdInPlace(a, cfg); ok {
			paths = append(paths, hold)
			continue
		}
		path, ok := searchJumpPoint(a, cfg, movingObstacles(paths, cfg))
		if !ok {
			tr.Eventf("jps", "%s: search exhausted, keeping direct path", a.DancerID)
			paths = append(paths, directPath(a, cfg))
			continue
		}
		paths = append(paths, NewDancerPath(a.DancerID, path))
	}
	return paths
}

func searchJumpPoint(a Assignment, cfg Config, blocked blockedFunc) ([]PathPoint, bool) {
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

	moves := gridMoves(res)
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

		for _, mv := range moves {
			var succ *timeNode
			if mv.dx == 0 && mv.dy == 0 {
				succ = waitSuccessor(cur, cfg, blocked)
			} else {
				succ = jumpFrom(cur, mv, a, cfg, blocked)
			}
			if succ == nil || closed[succ.cell] {
				continue
			}
			if prev, ok := seen[succ.cell]; ok {
				if succ.g < prev.g {
					prev.g = succ.g
					prev.f = succ.g + Distance(prev.pos, a.End)
					prev.parent = cur
					heap.Fix(open, prev.index)
				}
				continue
			}
			succ.f = succ.g + Distance(succ.pos, a.End)
			heap.Push(open, succ)
			seen[succ.cell] = succ
		}
	}
	return nil, false
}

func waitSuccessor(cur *timeNode, cfg Config, blocked blockedFunc) *timeNode {
	nt := cur.t + cfg.TimeResolution
	if nt > cfg.TotalCounts+1e-9 || blocked(cur.pos, nt) {
		return nil
	}
	return &timeNode{
		cell:   cellOf(cur.pos, nt, cfg),
		pos:    cur.pos,
		t:      nt,
		g:      cur.g + cfg.GridResolution,
		parent: cur,
	}
}

// jumpFrom walks from cur in one direction until a decision point. A blocked
// cell ends the jump at the cell before it, so nothing reachable is pruned;
// a blocked first step kills the direction outright.
func jumpFrom(cur *timeNode, dir gridMove, a Assignment, cfg Config, blocked blockedFunc) *timeNode {
	res := cfg.GridResolution
	dt := cfg.TimeResolution
	horizon := cfg.TotalCounts

	pos := cur.pos
	t := cur.t
	g := cur.g
	for step := 1; step <= maxJumpCells; step++ {
		next := Position{X: pos.X + dir.dx, Y: pos.Y + dir.dy}
		nt := t + dt
		if nt > horizon+1e-9 ||
			next.X < 0 || next.X > cfg.StageWidth || next.Y < 0 || next.Y > cfg.StageHeight {
			break
		}
		mid := Position{X: (pos.X + next.X) / 2, Y: (pos.Y + next.Y) / 2}
		if blocked(mid, t+dt/2) || blocked(next, nt) {
			break
		}
		pos, t = next, nt
		g += dir.cost
		if Distance(pos, a.End) <= res || nearObstacle(pos, t, res, cfg, blocked) {
			break
		}
	}
	if t == cur.t {
		return nil
	}
	return &timeNode{cell: cellOf(pos, t, cfg), pos: pos, t: t, g: g, parent: cur}
}

// nearObstacle reports whether any neighboring cell is blocked at time t,
// which marks a decision point worth re-expanding.
func nearObstacle(pos Position, t, res float64, cfg Config, blocked blockedFunc) bool {
	for dx := -1.0; dx <= 1; dx++ {
		for dy := -1.0; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := Position{X: pos.X + dx*res, Y: pos.Y + dy*res}
			if n.X < 0 || n.X > cfg.StageWidth || n.Y < 0 || n.Y > cfg.StageHeight {
				continue
			}
			if blocked(n, t) {
				return true
			}
		}
	}
	return false
}
