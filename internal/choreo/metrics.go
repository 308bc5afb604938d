package choreo

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// symmetryTolerance is how close a mirrored position must be to an actual
// dancer to count toward the symmetry score, in stage units.
const symmetryTolerance = 1.0

// symmetrySamples is the number of time ticks the symmetry score samples.
const symmetrySamples = 9

// ComputeMetrics derives the quality summary for one trajectory set. Delay
// and arrival statistics cover moving dancers only; a dancer that holds its
// position for the whole window neither delays nor arrives.
func ComputeMetrics(paths []DancerPath, cfg Config) CandidateMetrics {
	m := CandidateMetrics{
		CollisionCount: countPairCollisions(paths, cfg),
	}
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			m.CrossingCount += CountCrossings(paths[i].Path, paths[j].Path)
		}
	}

	maxDev := 0.0
	var delays, arrivals []float64
	for i := range paths {
		p := &paths[i]
		m.TotalDistance += p.TotalDistance
		if p.TotalDistance < degenerateChord || len(p.Path) == 0 {
			continue
		}
		if dev := maxChordDeviation(p.Path); dev > maxDev {
			maxDev = dev
		}
		delays = append(delays, p.StartTime)
		arrivals = append(arrivals, p.Path[len(p.Path)-1].T)
	}
	m.SmoothnessScore = 100 / (1 + maxDev)
	if len(delays) > 0 {
		m.MaxDelay = floats.Max(delays)
		m.AvgDelay = stat.Mean(delays, nil)
		m.ArrivalSpread = floats.Max(arrivals) - floats.Min(arrivals)
	}
	if cfg.TotalCounts > 0 {
		frac := 1 - m.ArrivalSpread/cfg.TotalCounts
		m.SimultaneousArrival = 100 * math.Min(1, math.Max(0, frac))
	}
	m.SymmetryScore = symmetryScore(paths, cfg)
	return m
}

// symmetryScore samples every dancer at evenly spaced ticks and reports the
// percentage of samples whose mirror across the vertical centerline is
// occupied by a dancer. A dancer on the centerline mirrors itself.
func symmetryScore(paths []DancerPath, cfg Config) float64 {
	if len(paths) == 0 {
		return 0
	}
	total, matched := 0, 0
	pts := make([]Position, len(paths))
	for k := 0; k < symmetrySamples; k++ {
		t := cfg.TotalCounts * float64(k) / float64(symmetrySamples-1)
		for i := range paths {
			pts[i] = PositionAtTime(paths[i].Path, t)
		}
		for i := range pts {
			mirror := Position{X: cfg.StageWidth - pts[i].X, Y: pts[i].Y}
			total++
			for j := range pts {
				if Distance(mirror, pts[j]) <= symmetryTolerance {
					matched++
					break
				}
			}
		}
	}
	return 100 * float64(matched) / float64(total)
}
