package choreo

import (
	"math"
	"testing"
)

func TestLinearPath_EndpointsAndTiming(t *testing.T) {
	start := Position{X: 2, Y: 3}
	end := Position{X: 10, Y: 7}
	path := LinearPath(start, end, 1.5, 5, 16)

	if len(path) != 16 {
		t.Fatalf("got %d samples, want 16", len(path))
	}
	if !posNear(path[0].Pos(), start, 1e-6) {
		t.Errorf("first sample %v, want %v", path[0].Pos(), start)
	}
	if !posNear(path[len(path)-1].Pos(), end, 1e-6) {
		t.Errorf("last sample %v, want %v", path[len(path)-1].Pos(), end)
	}
	if math.Abs(path[0].T-1.5) > 1e-9 || math.Abs(path[len(path)-1].T-6.5) > 1e-9 {
		t.Errorf("time range [%v, %v], want [1.5, 6.5]", path[0].T, path[len(path)-1].T)
	}
	for i := 1; i < len(path); i++ {
		if path[i].T <= path[i-1].T {
			t.Fatalf("sample times not increasing at %d: %v then %v", i, path[i-1].T, path[i].T)
		}
	}
}

func TestQuadCurvePath_BowsLeft(t *testing.T) {
	// Traveling +X with a positive offset, the curve bows toward +Y and
	// peaks at half the control offset.
	start := Position{X: 2, Y: 5}
	end := Position{X: 10, Y: 5}
	path := QuadCurvePath(start, end, 2, 0, 8, 17)

	if !posNear(path[0].Pos(), start, 1e-6) || !posNear(path[16].Pos(), end, 1e-6) {
		t.Fatalf("endpoints %v / %v, want %v / %v", path[0].Pos(), path[16].Pos(), start, end)
	}
	mid := path[8].Pos()
	if math.Abs(mid.Y-6) > 1e-6 {
		t.Errorf("midpoint %v, want y = 6", mid)
	}

	// A negative offset mirrors to -Y.
	path = QuadCurvePath(start, end, -2, 0, 8, 17)
	if mid := path[8].Pos(); math.Abs(mid.Y-4) > 1e-6 {
		t.Errorf("negative offset midpoint %v, want y = 4", mid)
	}
}

func TestCubicCurvePath_Shapes(t *testing.T) {
	start := Position{X: 2, Y: 5}
	end := Position{X: 10, Y: 5}

	// Same-sign offsets bow one way for the whole trip.
	bow := CubicCurvePath(start, end, 2, 2, 0, 8, 17)
	if !posNear(bow[0].Pos(), start, 1e-6) || !posNear(bow[16].Pos(), end, 1e-6) {
		t.Fatalf("endpoints %v / %v, want %v / %v", bow[0].Pos(), bow[16].Pos(), start, end)
	}
	for _, p := range bow[1:16] {
		if p.Y < 5 {
			t.Fatalf("same-sign cubic dipped to %v below the chord", p.Pos())
		}
	}

	// Opposite-sign offsets produce an S: above the chord early, below it
	// late.
	s := CubicCurvePath(start, end, 2, -2, 0, 8, 17)
	if q := s[4].Pos(); q.Y <= 5 {
		t.Errorf("S curve quarter point %v, want y above 5", q)
	}
	if q := s[12].Pos(); q.Y >= 5 {
		t.Errorf("S curve three-quarter point %v, want y below 5", q)
	}
}

func TestCurveBuilders_DegenerateChordHolds(t *testing.T) {
	p := Position{X: 4, Y: 4}
	for name, path := range map[string][]PathPoint{
		"linear": LinearPath(p, p, 0, 8, 16),
		"quad":   QuadCurvePath(p, p, 1, 0, 8, 16),
		"cubic":  CubicCurvePath(p, p, 1, -1, 0, 8, 16),
	} {
		if got := PathLength(path); got > 1e-9 {
			t.Errorf("%s: degenerate chord moved %v units", name, got)
		}
		if got := PositionAtTime(path, 4); !posNear(got, p, 1e-9) {
			t.Errorf("%s: held position %v, want %v", name, got, p)
		}
		if path[0].T != 0 || path[len(path)-1].T != 8 {
			t.Errorf("%s: time range [%v, %v], want [0, 8]", name, path[0].T, path[len(path)-1].T)
		}
	}
}

func TestSampleCurve_MinimumSamples(t *testing.T) {
	path := LinearPath(Position{X: 0, Y: 0}, Position{X: 2, Y: 0}, 0, 8, 1)
	if len(path) < 2 {
		t.Fatalf("got %d samples, want at least 2", len(path))
	}
}
