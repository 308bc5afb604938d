package choreo

import "math"

// degenerateChord is the chord length below which a move counts as
// stationary.
const degenerateChord = 1e-9

// FirstCollision samples both trajectories at a fixed time step over
// [0, horizon] and returns the first time their separation falls below
// 2*radius, the distance at which two dancers touch. The second return
// is false when the pair never collides.
//
// Every collision decision in the package runs through this same sampler so
// planners, repair loops, and Validate agree on what counts as a collision.
func FirstCollision(p1, p2 []PathPoint, radius, horizon, step float64) (float64, bool) {
	if len(p1) == 0 || len(p2) == 0 {
		return 0, false
	}
	if step <= 0 {
		step = DefaultCollisionCheckStep
	}
	minSep := 2 * radius
	for t := 0.0; t <= horizon+step/2; t += step {
		ct := math.Min(t, horizon)
		a := PositionAtTime(p1, ct)
		b := PositionAtTime(p2, ct)
		if Distance(a, b) < minSep {
			return ct, true
		}
	}
	return 0, false
}

// MinSeparation returns the smallest sampled distance between two
// trajectories over [0, horizon].
func MinSeparation(p1, p2 []PathPoint, horizon, step float64) float64 {
	if step <= 0 {
		step = DefaultCollisionCheckStep
	}
	min := math.Inf(1)
	for t := 0.0; t <= horizon+step/2; t += step {
		ct := math.Min(t, horizon)
		d := Distance(PositionAtTime(p1, ct), PositionAtTime(p2, ct))
		if d < min {
			min = d
		}
	}
	return min
}

// orientation classifies the turn a→b→c: positive for counter-clockwise,
// negative for clockwise, zero for collinear (within epsilon).
func orientation(a, b, c Position) int {
	v := (b.Y-a.Y)*(c.X-b.X) - (b.X-a.X)*(c.Y-b.Y)
	const eps = 1e-12
	if v > eps {
		return -1
	}
	if v < -eps {
		return 1
	}
	return 0
}

// onSegment reports whether collinear point p lies on segment ab.
func onSegment(a, b, p Position) bool {
	return math.Min(a.X, b.X)-1e-12 <= p.X && p.X <= math.Max(a.X, b.X)+1e-12 &&
		math.Min(a.Y, b.Y)-1e-12 <= p.Y && p.Y <= math.Max(a.Y, b.Y)+1e-12
}

// segmentsIntersect is the standard orientation-based segment intersection
// test, including collinear-overlap cases.
func segmentsIntersect(a1, a2, b1, b2 Position) bool {
	o1 := orientation(a1, a2, b1)
	o2 := orientation(a1, a2, b2)
	o3 := orientation(b1, b2, a1)
	o4 := orientation(b1, b2, a2)

	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegment(a1, a2, b1) {
		return true
	}
	if o2 == 0 && onSegment(a1, a2, b2) {
		return true
	}
	if o3 == 0 && onSegment(b1, b2, a1) {
		return true
	}
	if o4 == 0 && onSegment(b1, b2, a2) {
		return true
	}
	return false
}

// CountCrossings counts geometric intersections between the two polylines,
// ignoring time. Shared endpoints of consecutive segments would otherwise
// double-count, so each intersecting segment pair counts once.
func CountCrossings(p1, p2 []PathPoint) int {
	crossings := 0
	for i := 1; i < len(p1); i++ {
		a1, a2 := p1[i-1].Pos(), p1[i].Pos()
		if Distance(a1, a2) < degenerateChord {
			continue
		}
		for j := 1; j < len(p2); j++ {
			b1, b2 := p2[j-1].Pos(), p2[j].Pos()
			if Distance(b1, b2) < degenerateChord {
				continue
			}
			if segmentsIntersect(a1, a2, b1, b2) {
				crossings++
			}
		}
	}
	return crossings
}

// Validate is the authoritative post-hoc collision judge for a trajectory
// set. Planners never fail on unresolved collisions; callers run Validate and
// choose their own policy for any reported pair.
func Validate(paths []DancerPath, radius, horizon float64) ValidationReport {
	report := ValidationReport{Valid: true}
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			t, hit := FirstCollision(paths[i].Path, paths[j].Path, radius, horizon, DefaultCollisionCheckStep)
			if !hit {
				continue
			}
			report.Valid = false
			report.Collisions = append(report.Collisions, CollisionEvent{
				DancerA: paths[i].DancerID,
				DancerB: paths[j].DancerID,
				Time:    t,
			})
		}
	}
	return report
}

// collidesWithAny reports whether candidate collides with any of the placed
// trajectories under the config's collision model.
func collidesWithAny(candidate []PathPoint, placed []DancerPath, cfg Config) bool {
	for i := range placed {
		if _, hit := FirstCollision(candidate, placed[i].Path, cfg.CollisionRadius, cfg.TotalCounts, cfg.CollisionCheckStep); hit {
			return true
		}
	}
	return false
}

// countPairCollisions counts colliding pairs in a trajectory set.
func countPairCollisions(paths []DancerPath, cfg Config) int {
	n := 0
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			if _, hit := FirstCollision(paths[i].Path, paths[j].Path, cfg.CollisionRadius, cfg.TotalCounts, cfg.CollisionCheckStep); hit {
				n++
			}
		}
	}
	return n
}
