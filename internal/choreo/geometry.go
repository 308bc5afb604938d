package choreo

import "math"

// Distance returns the Euclidean distance between two stage positions.
func Distance(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// PositionAtTime returns the dancer's position at time t, linearly
// interpolated between the bracketing samples. Times before the first sample
// clamp to the first position and times after the last clamp to the last, so
// a dancer holds its pose outside the recorded range.
func PositionAtTime(path []PathPoint, t float64) Position {
	if len(path) == 0 {
		return Position{}
	}
	if t <= path[0].T {
		return path[0].Pos()
	}
	last := path[len(path)-1]
	if t >= last.T {
		return last.Pos()
	}
	for i := 0; i < len(path)-1; i++ {
		a, b := path[i], path[i+1]
		if t < a.T || t > b.T {
			continue
		}
		dt := b.T - a.T
		if dt <= 0 {
			return a.Pos()
		}
		alpha := (t - a.T) / dt
		return Position{
			X: a.X + alpha*(b.X-a.X),
			Y: a.Y + alpha*(b.Y-a.Y),
		}
	}
	return last.Pos()
}

// PathLength returns the polyline length of the sampled path.
func PathLength(path []PathPoint) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += Distance(path[i-1].Pos(), path[i].Pos())
	}
	return total
}

// StationaryPath returns a two-sample path holding pos over [t0, t1].
func StationaryPath(pos Position, t0, t1 float64) []PathPoint {
	return []PathPoint{
		{X: pos.X, Y: pos.Y, T: t0},
		{X: pos.X, Y: pos.Y, T: t1},
	}
}

// chordNormal returns the unit normal of the start→end chord (a left-hand
// perpendicular relative to the direction of travel). Degenerate chords get
// an upstage-pointing normal so offset curves remain well-defined.
func chordNormal(start, end Position) (nx, ny float64) {
	dx := end.X - start.X
	dy := end.Y - start.Y
	length := math.Hypot(dx, dy)
	if length < degenerateChord {
		return 0, 1
	}
	return -dy / length, dx / length
}

// maxChordDeviation returns the largest perpendicular distance of any sample
// from the straight chord between the path's endpoints. A stationary path
// reports its largest excursion from the start instead.
func maxChordDeviation(path []PathPoint) float64 {
	if len(path) < 3 {
		return 0
	}
	start := path[0].Pos()
	end := path[len(path)-1].Pos()
	dx := end.X - start.X
	dy := end.Y - start.Y
	length := math.Hypot(dx, dy)

	maxDev := 0.0
	for _, p := range path[1 : len(path)-1] {
		var dev float64
		if length < degenerateChord {
			dev = Distance(p.Pos(), start)
		} else {
			// Perpendicular distance via the cross product.
			dev = math.Abs((p.X-start.X)*dy-(p.Y-start.Y)*dx) / length
		}
		if dev > maxDev {
			maxDev = dev
		}
	}
	return maxDev
}

// pointSegmentDistance returns the distance from p to the segment ab.
func pointSegmentDistance(p, a, b Position) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq < degenerateChord*degenerateChord {
		return Distance(p, a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Min(1, math.Max(0, t))
	return Distance(p, Position{X: a.X + t*dx, Y: a.Y + t*dy})
}

// segmentDistance returns the minimum distance between segments a1a2 and
// b1b2, zero when they intersect.
func segmentDistance(a1, a2, b1, b2 Position) float64 {
	if segmentsIntersect(a1, a2, b1, b2) {
		return 0
	}
	d := pointSegmentDistance(a1, b1, b2)
	if v := pointSegmentDistance(a2, b1, b2); v < d {
		d = v
	}
	if v := pointSegmentDistance(b1, a1, a2); v < d {
		d = v
	}
	if v := pointSegmentDistance(b2, a1, a2); v < d {
		d = v
	}
	return d
}

// finitePosition reports whether both coordinates are finite.
func finitePosition(p Position) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// clampToStage clips a position to the stage rectangle.
func clampToStage(p Position, w, h float64) Position {
	return Position{
		X: math.Min(w, math.Max(0, p.X)),
		Y: math.Min(h, math.Max(0, p.Y)),
	}
}
