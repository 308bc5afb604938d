package choreo

import (
	"math"
	"testing"
)

func TestPositionAtTime_InterpolatesAndClamps(t *testing.T) {
	path := []PathPoint{
		{X: 0, Y: 0, T: 1},
		{X: 4, Y: 0, T: 3},
		{X: 4, Y: 2, T: 5},
	}

	cases := []struct {
		name string
		t    float64
		want Position
	}{
		{"before first sample", 0, Position{X: 0, Y: 0}},
		{"at first sample", 1, Position{X: 0, Y: 0}},
		{"mid first segment", 2, Position{X: 2, Y: 0}},
		{"at knot", 3, Position{X: 4, Y: 0}},
		{"mid second segment", 4, Position{X: 4, Y: 1}},
		{"at last sample", 5, Position{X: 4, Y: 2}},
		{"after last sample", 9, Position{X: 4, Y: 2}},
	}
	for _, c := range cases {
		got := PositionAtTime(path, c.t)
		if !posNear(got, c.want, 1e-9) {
			t.Errorf("%s: PositionAtTime(%v) = %v, want %v", c.name, c.t, got, c.want)
		}
	}
}

func TestPositionAtTime_EmptyPath(t *testing.T) {
	if got := PositionAtTime(nil, 2); got != (Position{}) {
		t.Errorf("empty path: got %v, want zero position", got)
	}
}

func TestPathLength_Polyline(t *testing.T) {
	path := []PathPoint{
		{X: 0, Y: 0, T: 0},
		{X: 3, Y: 4, T: 1},
		{X: 3, Y: 8, T: 2},
	}
	if got := PathLength(path); math.Abs(got-9) > 1e-12 {
		t.Errorf("PathLength = %v, want 9", got)
	}
	if got := PathLength(path[:1]); got != 0 {
		t.Errorf("single sample: PathLength = %v, want 0", got)
	}
}

func TestStationaryPath_HoldsPosition(t *testing.T) {
	p := Position{X: 3, Y: 7}
	path := StationaryPath(p, 0, 8)
	if len(path) != 2 {
		t.Fatalf("got %d samples, want 2", len(path))
	}
	if path[0].T != 0 || path[1].T != 8 {
		t.Errorf("sample times %v/%v, want 0/8", path[0].T, path[1].T)
	}
	for _, tt := range []float64{0, 2.5, 8, 11} {
		if got := PositionAtTime(path, tt); !posNear(got, p, 1e-12) {
			t.Errorf("t=%v: got %v, want %v", tt, got, p)
		}
	}
}

func TestMaxChordDeviation_QuadArc(t *testing.T) {
	// A quadratic arc with its control point 2 units off the chord peaks 1
	// unit off at the midpoint.
	path := QuadCurvePath(Position{X: 0, Y: 0}, Position{X: 8, Y: 0}, 2, 0, 8, 17)
	got := maxChordDeviation(path)
	if math.Abs(got-1) > 1e-6 {
		t.Errorf("maxChordDeviation = %v, want 1", got)
	}

	straight := LinearPath(Position{X: 0, Y: 0}, Position{X: 8, Y: 0}, 0, 8, 9)
	if got := maxChordDeviation(straight); got > 1e-9 {
		t.Errorf("straight line deviation = %v, want 0", got)
	}
}

func TestSegmentDistance_Cases(t *testing.T) {
	cases := []struct {
		name           string
		a1, a2, b1, b2 Position
		want           float64
	}{
		{
			"crossing segments",
			Position{X: 0, Y: 0}, Position{X: 4, Y: 4},
			Position{X: 0, Y: 4}, Position{X: 4, Y: 0},
			0,
		},
		{
			"parallel lanes",
			Position{X: 0, Y: 0}, Position{X: 8, Y: 0},
			Position{X: 0, Y: 3}, Position{X: 8, Y: 3},
			3,
		},
		{
			"endpoint closest",
			Position{X: 0, Y: 0}, Position{X: 2, Y: 0},
			Position{X: 5, Y: 4}, Position{X: 5, Y: 1},
			math.Hypot(3, 1),
		},
	}
	for _, c := range cases {
		if got := segmentDistance(c.a1, c.a2, c.b1, c.b2); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s: segmentDistance = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestClampToStage_Corners(t *testing.T) {
	cases := []struct {
		in, want Position
	}{
		{Position{X: -1, Y: 5}, Position{X: 0, Y: 5}},
		{Position{X: 13, Y: 5}, Position{X: 12, Y: 5}},
		{Position{X: 6, Y: -2}, Position{X: 6, Y: 0}},
		{Position{X: 6, Y: 99}, Position{X: 6, Y: 10}},
		{Position{X: 6, Y: 5}, Position{X: 6, Y: 5}},
	}
	for _, c := range cases {
		if got := clampToStage(c.in, 12, 10); got != c.want {
			t.Errorf("clampToStage(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestChordNormal_LeftOfTravel(t *testing.T) {
	// Traveling +X, the left normal points +Y.
	nx, ny := chordNormal(Position{X: 0, Y: 0}, Position{X: 5, Y: 0})
	if math.Abs(nx) > 1e-12 || math.Abs(ny-1) > 1e-12 {
		t.Errorf("normal for +X travel = (%v, %v), want (0, 1)", nx, ny)
	}
	// Traveling -X, it points -Y.
	nx, ny = chordNormal(Position{X: 5, Y: 0}, Position{X: 0, Y: 0})
	if math.Abs(nx) > 1e-12 || math.Abs(ny+1) > 1e-12 {
		t.Errorf("normal for -X travel = (%v, %v), want (0, -1)", nx, ny)
	}
	// Degenerate chords still produce a unit normal.
	nx, ny = chordNormal(Position{X: 2, Y: 2}, Position{X: 2, Y: 2})
	if nx != 0 || ny != 1 {
		t.Errorf("degenerate normal = (%v, %v), want (0, 1)", nx, ny)
	}
}

func posNear(a, b Position, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}
