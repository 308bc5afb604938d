package choreo

import "honnef.co/go/curve"

// Curve builders produce the sampled polylines every strategy hands back.
// Control points are expressed as signed offsets along the chord normal so
// callers reason in "how far off the straight line" terms; positive offsets
// displace toward the left of the start→end direction.

// minCurveDuration guards the time mapping against zero-length windows.
const minCurveDuration = 1e-3

// LinearPath samples a straight line from start to end across
// [startTime, startTime+duration].
func LinearPath(start, end Position, startTime, duration float64, numPoints int) []PathPoint {
	if Distance(start, end) < degenerateChord {
		return StationaryPath(start, startTime, startTime+duration)
	}
	line := curve.Line{P0: curvePoint(start), P1: curvePoint(end)}
	return sampleCurve(line, startTime, duration, numPoints)
}

// QuadCurvePath samples a quadratic Bezier whose single control point sits at
// the chord midpoint displaced by offset along the chord normal.
func QuadCurvePath(start, end Position, offset, startTime, duration float64, numPoints int) []PathPoint {
	if Distance(start, end) < degenerateChord {
		return StationaryPath(start, startTime, startTime+duration)
	}
	ctrl := offsetAlongChord(start, end, 0.5, offset)
	quad := curve.QuadBez{P0: curvePoint(start), P1: curvePoint(ctrl), P2: curvePoint(end)}
	return sampleCurve(quad, startTime, duration, numPoints)
}

// CubicCurvePath samples a cubic Bezier with control points at 1/3 and 2/3
// along the chord, displaced by offset1 and offset2. Opposite-sign offsets
// yield an S shape; same-sign offsets bow the whole path to one side.
func CubicCurvePath(start, end Position, offset1, offset2, startTime, duration float64, numPoints int) []PathPoint {
	if Distance(start, end) < degenerateChord {
		return StationaryPath(start, startTime, startTime+duration)
	}
	c1 := offsetAlongChord(start, end, 1.0/3.0, offset1)
	c2 := offsetAlongChord(start, end, 2.0/3.0, offset2)
	cubic := curve.CubicBez{
		P0: curvePoint(start),
		P1: curvePoint(c1),
		P2: curvePoint(c2),
		P3: curvePoint(end),
	}
	return sampleCurve(cubic, startTime, duration, numPoints)
}

// offsetAlongChord returns the point a fraction frac along the start→end
// chord, displaced by offset along the chord's left normal.
func offsetAlongChord(start, end Position, frac, offset float64) Position {
	nx, ny := chordNormal(start, end)
	return Position{
		X: start.X + (end.X-start.X)*frac + nx*offset,
		Y: start.Y + (end.Y-start.Y)*frac + ny*offset,
	}
}

// sampleCurve evaluates c at numPoints evenly spaced parameters and maps
// t ∈ [0,1] onto [startTime, startTime+duration]. The first and last samples
// land exactly on the curve endpoints.
func sampleCurve(c curve.ParametricCurve, startTime, duration float64, numPoints int) []PathPoint {
	if numPoints < 2 {
		numPoints = 2
	}
	if duration < minCurveDuration {
		duration = minCurveDuration
	}
	out := make([]PathPoint, numPoints)
	for i := 0; i < numPoints; i++ {
		t := float64(i) / float64(numPoints-1)
		p := c.Eval(t)
		out[i] = PathPoint{X: p.X, Y: p.Y, T: startTime + t*duration}
	}
	return out
}

func curvePoint(p Position) curve.Point {
	return curve.Point{X: p.X, Y: p.Y}
}
