package choreo

import (
	"math"
	"testing"
)

// straightLine samples a three-point linear path between two stage points.
func straightLine(id string, from, to Position, t0, t1 float64) DancerPath {
	return NewDancerPath(id, []PathPoint{
		{X: from.X, Y: from.Y, T: t0},
		{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2, T: (t0 + t1) / 2},
		{X: to.X, Y: to.Y, T: t1},
	})
}

func TestComputeMetrics_ParallelLanes(t *testing.T) {
	cfg := DefaultConfig()
	paths := []DancerPath{
		straightLine("d01", Position{X: 2, Y: 2}, Position{X: 10, Y: 2}, 0, cfg.TotalCounts),
		straightLine("d02", Position{X: 2, Y: 8}, Position{X: 10, Y: 8}, 0, cfg.TotalCounts),
	}

	m := ComputeMetrics(paths, cfg)
	if m.CollisionCount != 0 {
		t.Errorf("CollisionCount = %d, want 0", m.CollisionCount)
	}
	if m.CrossingCount != 0 {
		t.Errorf("CrossingCount = %d, want 0", m.CrossingCount)
	}
	if m.TotalDistance != 16 {
		t.Errorf("TotalDistance = %v, want 16", m.TotalDistance)
	}
	if m.SmoothnessScore != 100 {
		t.Errorf("SmoothnessScore = %v, want 100 for straight chords", m.SmoothnessScore)
	}
	if m.MaxDelay != 0 || m.AvgDelay != 0 {
		t.Errorf("delays = %v / %v, want 0 with no hold", m.MaxDelay, m.AvgDelay)
	}
	if m.ArrivalSpread != 0 || m.SimultaneousArrival != 100 {
		t.Errorf("arrival spread %v, sync %v; want 0 and 100", m.ArrivalSpread, m.SimultaneousArrival)
	}
}

func TestComputeMetrics_DelaysAndArrivals(t *testing.T) {
	cfg := DefaultConfig()
	paths := []DancerPath{
		straightLine("d01", Position{X: 2, Y: 2}, Position{X: 10, Y: 2}, 1, 6),
		straightLine("d02", Position{X: 2, Y: 8}, Position{X: 10, Y: 8}, 2, 8),
	}

	m := ComputeMetrics(paths, cfg)
	if m.MaxDelay != 2 {
		t.Errorf("MaxDelay = %v, want 2", m.MaxDelay)
	}
	if m.AvgDelay != 1.5 {
		t.Errorf("AvgDelay = %v, want 1.5", m.AvgDelay)
	}
	if m.ArrivalSpread != 2 {
		t.Errorf("ArrivalSpread = %v, want 2", m.ArrivalSpread)
	}
	// A 2-count spread over an 8-count window leaves 75.
	if m.SimultaneousArrival != 75 {
		t.Errorf("SimultaneousArrival = %v, want 75", m.SimultaneousArrival)
	}
}

func TestComputeMetrics_StationaryExcludedFromTiming(t *testing.T) {
	cfg := DefaultConfig()
	hold := NewDancerPath("d01", []PathPoint{
		{X: 3, Y: 5, T: 0},
		{X: 3, Y: 5, T: cfg.TotalCounts},
	})
	mover := straightLine("d02", Position{X: 2, Y: 2}, Position{X: 10, Y: 2}, 3, cfg.TotalCounts)

	m := ComputeMetrics([]DancerPath{hold, mover}, cfg)
	if m.MaxDelay != 3 || m.AvgDelay != 3 {
		t.Errorf("delays = %v / %v, want the mover's 3 only", m.MaxDelay, m.AvgDelay)
	}
	if m.ArrivalSpread != 0 {
		t.Errorf("ArrivalSpread = %v, want 0 with one mover", m.ArrivalSpread)
	}
	if m.TotalDistance != 8 {
		t.Errorf("TotalDistance = %v, want the mover's 8", m.TotalDistance)
	}
}

func TestComputeMetrics_MirroredFormationIsSymmetric(t *testing.T) {
	cfg := DefaultConfig()
	mk := func(id string, x float64) DancerPath {
		return NewDancerPath(id, []PathPoint{
			{X: x, Y: 5, T: 0},
			{X: x, Y: 5, T: cfg.TotalCounts},
		})
	}

	// 3 and 9 mirror each other across the width-12 centerline.
	m := ComputeMetrics([]DancerPath{mk("d01", 3), mk("d02", 9)}, cfg)
	if m.SymmetryScore != 100 {
		t.Errorf("mirrored pair symmetry = %v, want 100", m.SymmetryScore)
	}

	// A dancer on the centerline mirrors itself.
	m = ComputeMetrics([]DancerPath{mk("d01", 6)}, cfg)
	if m.SymmetryScore != 100 {
		t.Errorf("centerline symmetry = %v, want 100", m.SymmetryScore)
	}

	// 3 mirrors to 9 with nothing there.
	m = ComputeMetrics([]DancerPath{mk("d01", 3)}, cfg)
	if m.SymmetryScore != 0 {
		t.Errorf("lone off-center symmetry = %v, want 0", m.SymmetryScore)
	}
}

func TestComputeMetrics_CountsCrossingAndCollision(t *testing.T) {
	cfg := DefaultConfig()
	// Diagonals of the same rectangle meet at the center at mid-window.
	// Single-segment paths keep the geometric count at one.
	paths := []DancerPath{
		NewDancerPath("d01", []PathPoint{{X: 2, Y: 2, T: 0}, {X: 10, Y: 8, T: cfg.TotalCounts}}),
		NewDancerPath("d02", []PathPoint{{X: 2, Y: 8, T: 0}, {X: 10, Y: 2, T: cfg.TotalCounts}}),
	}

	m := ComputeMetrics(paths, cfg)
	if m.CrossingCount != 1 {
		t.Errorf("CrossingCount = %d, want 1", m.CrossingCount)
	}
	if m.CollisionCount != 1 {
		t.Errorf("CollisionCount = %d, want 1 colliding pair", m.CollisionCount)
	}
}

func TestComputeMetrics_SmoothnessPenalizesDeviation(t *testing.T) {
	cfg := DefaultConfig()
	// Midpoint sits 3 units off an 8-unit chord: score 100/(1+3).
	arc := NewDancerPath("d01", []PathPoint{
		{X: 2, Y: 5, T: 0},
		{X: 6, Y: 8, T: cfg.TotalCounts / 2},
		{X: 10, Y: 5, T: cfg.TotalCounts},
	})

	m := ComputeMetrics([]DancerPath{arc}, cfg)
	if math.Abs(m.SmoothnessScore-25) > 1e-9 {
		t.Errorf("SmoothnessScore = %v, want 25", m.SmoothnessScore)
	}
}

func TestComputeMetrics_EmptySet(t *testing.T) {
	m := ComputeMetrics(nil, DefaultConfig())
	if m.CollisionCount != 0 || m.CrossingCount != 0 || m.TotalDistance != 0 {
		t.Errorf("empty set produced counts: %+v", m)
	}
	if m.SymmetryScore != 0 {
		t.Errorf("SymmetryScore = %v, want 0 with no dancers", m.SymmetryScore)
	}
}
