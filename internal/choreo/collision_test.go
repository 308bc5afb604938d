package choreo

import (
	"math"
	"testing"
)

func TestFirstCollision_HeadOnPair(t *testing.T) {
	// Two dancers walk toward each other along the same line at one unit
	// per count. Their gap is 8 - 2t, so it falls below the contact
	// distance of 1 just after t = 3.5.
	p1 := LinearPath(Position{X: 2, Y: 5}, Position{X: 10, Y: 5}, 0, 8, 9)
	p2 := LinearPath(Position{X: 10, Y: 5}, Position{X: 2, Y: 5}, 0, 8, 9)

	ct, hit := FirstCollision(p1, p2, 0.5, 8, 0.1)
	if !hit {
		t.Fatal("head-on pair reported collision free")
	}
	if ct < 3.4 || ct > 3.8 {
		t.Errorf("first collision at t=%v, want near 3.6", ct)
	}
}

func TestFirstCollision_ParallelLanesClear(t *testing.T) {
	p1 := LinearPath(Position{X: 2, Y: 2}, Position{X: 10, Y: 2}, 0, 8, 9)
	p2 := LinearPath(Position{X: 2, Y: 8}, Position{X: 10, Y: 8}, 0, 8, 9)

	if ct, hit := FirstCollision(p1, p2, 0.5, 8, 0.1); hit {
		t.Errorf("parallel lanes collide at t=%v", ct)
	}
}

func TestFirstCollision_EmptyPath(t *testing.T) {
	p := LinearPath(Position{X: 0, Y: 0}, Position{X: 1, Y: 0}, 0, 8, 4)
	if _, hit := FirstCollision(nil, p, 0.5, 8, 0.1); hit {
		t.Error("empty path reported a collision")
	}
}

func TestMinSeparation_ParallelLanes(t *testing.T) {
	p1 := LinearPath(Position{X: 2, Y: 2}, Position{X: 10, Y: 2}, 0, 8, 9)
	p2 := LinearPath(Position{X: 2, Y: 5}, Position{X: 10, Y: 5}, 0, 8, 9)

	if got := MinSeparation(p1, p2, 8, 0.1); math.Abs(got-3) > 1e-9 {
		t.Errorf("MinSeparation = %v, want 3", got)
	}
}

func TestSegmentsIntersect_Cases(t *testing.T) {
	cases := []struct {
		name           string
		a1, a2, b1, b2 Position
		want           bool
	}{
		{
			"proper cross",
			Position{X: 0, Y: 0}, Position{X: 4, Y: 4},
			Position{X: 0, Y: 4}, Position{X: 4, Y: 0},
			true,
		},
		{
			"disjoint",
			Position{X: 0, Y: 0}, Position{X: 2, Y: 0},
			Position{X: 3, Y: 1}, Position{X: 5, Y: 1},
			false,
		},
		{
			"shared endpoint",
			Position{X: 0, Y: 0}, Position{X: 2, Y: 2},
			Position{X: 2, Y: 2}, Position{X: 4, Y: 0},
			true,
		},
		{
			"collinear overlap",
			Position{X: 0, Y: 0}, Position{X: 4, Y: 0},
			Position{X: 2, Y: 0}, Position{X: 6, Y: 0},
			true,
		},
		{
			"collinear separated",
			Position{X: 0, Y: 0}, Position{X: 1, Y: 0},
			Position{X: 3, Y: 0}, Position{X: 5, Y: 0},
			false,
		},
	}
	for _, c := range cases {
		if got := segmentsIntersect(c.a1, c.a2, c.b1, c.b2); got != c.want {
			t.Errorf("%s: segmentsIntersect = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestCountCrossings_DiagonalX(t *testing.T) {
	p1 := LinearPath(Position{X: 2, Y: 2}, Position{X: 10, Y: 8}, 0, 8, 9)
	p2 := LinearPath(Position{X: 2, Y: 8}, Position{X: 10, Y: 2}, 0, 8, 9)

	if got := CountCrossings(p1, p2); got != 1 {
		t.Errorf("diagonal X: CountCrossings = %d, want 1", got)
	}

	p3 := LinearPath(Position{X: 2, Y: 2}, Position{X: 10, Y: 2}, 0, 8, 9)
	p4 := LinearPath(Position{X: 2, Y: 5}, Position{X: 10, Y: 5}, 0, 8, 9)
	if got := CountCrossings(p3, p4); got != 0 {
		t.Errorf("parallel lanes: CountCrossings = %d, want 0", got)
	}
}

func TestCountCrossings_IgnoresTiming(t *testing.T) {
	// Same geometry, one dancer delayed past the other: still one
	// geometric crossing even though they never meet in time.
	p1 := LinearPath(Position{X: 2, Y: 2}, Position{X: 10, Y: 8}, 0, 2, 9)
	p2 := LinearPath(Position{X: 2, Y: 8}, Position{X: 10, Y: 2}, 6, 2, 9)

	if got := CountCrossings(p1, p2); got != 1 {
		t.Errorf("CountCrossings = %d, want 1", got)
	}
}

func TestValidate_ReportsCollidingPair(t *testing.T) {
	colliding := []DancerPath{
		NewDancerPath("d01", LinearPath(Position{X: 2, Y: 5}, Position{X: 10, Y: 5}, 0, 8, 9)),
		NewDancerPath("d02", LinearPath(Position{X: 10, Y: 5}, Position{X: 2, Y: 5}, 0, 8, 9)),
		NewDancerPath("d03", StationaryPath(Position{X: 6, Y: 9}, 0, 8)),
	}

	report := Validate(colliding, 0.5, 8)
	if report.Valid {
		t.Fatal("head-on pair validated as collision free")
	}
	if len(report.Collisions) != 1 {
		t.Fatalf("got %d collision events, want 1: %+v", len(report.Collisions), report.Collisions)
	}
	ev := report.Collisions[0]
	if ev.DancerA != "d01" || ev.DancerB != "d02" {
		t.Errorf("collision pair %s/%s, want d01/d02", ev.DancerA, ev.DancerB)
	}
	if ev.Time < 3.4 || ev.Time > 3.8 {
		t.Errorf("collision time %v, want near 3.6", ev.Time)
	}

	clear := []DancerPath{
		NewDancerPath("d01", LinearPath(Position{X: 2, Y: 2}, Position{X: 10, Y: 2}, 0, 8, 9)),
		NewDancerPath("d02", LinearPath(Position{X: 2, Y: 8}, Position{X: 10, Y: 8}, 0, 8, 9)),
	}
	if report := Validate(clear, 0.5, 8); !report.Valid || len(report.Collisions) != 0 {
		t.Errorf("clear set reported %+v", report)
	}
}
