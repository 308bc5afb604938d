// Package choreo plans collision-free motion for a cast of dancers moving
// between two stage formations inside a fixed count window. It solves the
// start-to-end assignment, routes every dancer under a set of independent
// strategies, and scores the resulting trajectory sets so a caller can pick
// the transition that reads best on stage.
package choreo

import (
	"fmt"
	"math"
)

// Position is a point on the stage in stage units (meters). The stage is the
// rectangle [0, StageWidth] x [0, StageHeight] with Y increasing upstage
// (away from the audience).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PathPoint is a Position tagged with a time coordinate in counts.
type PathPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T float64 `json:"t"`
}

// Pos returns the spatial component of the path point.
func (p PathPoint) Pos() Position { return Position{X: p.X, Y: p.Y} }

// Speed display clamp range. Speed is a derived summary for UI consumers;
// collision checking always re-derives positions from the sampled path.
const (
	MinDisplaySpeed = 0.3
	MaxDisplaySpeed = 2.0
)

// DancerPath is the planned trajectory for one dancer: an ordered,
// time-increasing sequence of path points spanning (a portion of) the
// planning horizon.
type DancerPath struct {
	DancerID string      `json:"dancer_id"`
	Path     []PathPoint `json:"path"`

	// StartTime is the time of the first path point; positive when the
	// dancer holds its start position before moving.
	StartTime float64 `json:"start_time"`

	// Speed is a clamped display summary in stage units per count.
	Speed float64 `json:"speed"`

	// TotalDistance is the polyline length of the sampled path.
	TotalDistance float64 `json:"total_distance"`
}

// Assignment resolves one dancer's start position to an end position.
// Assignments are computed once per planning run and immutable afterward.
type Assignment struct {
	DancerID string   `json:"dancer_id"`
	Start    Position `json:"start"`
	End      Position `json:"end"`

	// Distance is the straight-line start-to-end distance, cached for
	// strategy ordering heuristics.
	Distance float64 `json:"distance"`
}

// CandidateMetrics summarizes one candidate's quality. All values are derived
// from the trajectories alone and recomputed rather than mutated.
type CandidateMetrics struct {
	CollisionCount int `json:"collision_count"`
	CrossingCount  int `json:"crossing_count"`

	// SymmetryScore is the percentage of sampled (dancer, time) pairs whose
	// mirror position across the stage centerline is occupied by another
	// dancer within one stage unit.
	SymmetryScore float64 `json:"symmetry_score"`

	// SmoothnessScore is 100/(1+d) where d is the largest perpendicular
	// deviation of any path from its straight start-to-end chord.
	SmoothnessScore float64 `json:"smoothness_score"`

	MaxDelay float64 `json:"max_delay"`
	AvgDelay float64 `json:"avg_delay"`

	// ArrivalSpread is the difference between the latest and earliest
	// per-dancer arrival times, in counts.
	ArrivalSpread float64 `json:"arrival_spread"`

	// SimultaneousArrival is 100 when every dancer settles at the same
	// time, decreasing linearly as the arrival spread grows toward the
	// full horizon.
	SimultaneousArrival float64 `json:"simultaneous_arrival"`

	TotalDistance float64 `json:"total_distance"`
}

// CandidateResult is the output of one full planning run under one strategy.
type CandidateResult struct {
	ID          string           `json:"id"`
	Strategy    Strategy         `json:"strategy"`
	Paths       []DancerPath     `json:"paths"`
	Metrics     CandidateMetrics `json:"metrics"`
	Assignments []Assignment     `json:"assignments"`

	// PlanMillis is the wall-clock time spent planning and scoring this
	// candidate, in milliseconds.
	PlanMillis float64 `json:"plan_millis"`
}

// CollisionEvent reports the first moment two dancers come closer than the
// minimum separation.
type CollisionEvent struct {
	DancerA string  `json:"dancer_a"`
	DancerB string  `json:"dancer_b"`
	Time    float64 `json:"time"`
}

// ValidationReport is the authoritative judgment on a trajectory set.
// Planners never fail outright; this report is how remaining collisions
// surface to the caller.
type ValidationReport struct {
	Valid      bool             `json:"valid"`
	Collisions []CollisionEvent `json:"collisions"`
}

// DancerID formats the canonical dancer identifier for input index i.
func DancerID(i int) string { return fmt.Sprintf("d%02d", i+1) }

// displaySpeed derives the clamped per-count speed summary for a path.
func displaySpeed(totalDistance, activeDuration float64) float64 {
	if activeDuration <= 0 || totalDistance <= 0 {
		return MinDisplaySpeed
	}
	s := totalDistance / activeDuration
	return math.Min(MaxDisplaySpeed, math.Max(MinDisplaySpeed, s))
}

// NewDancerPath wraps a sampled path with its derived summary fields.
// The path must be non-empty and time-ordered.
func NewDancerPath(dancerID string, path []PathPoint) DancerPath {
	d := DancerPath{DancerID: dancerID, Path: path}
	if len(path) == 0 {
		return d
	}
	d.StartTime = path[0].T
	d.TotalDistance = PathLength(path)
	d.Speed = displaySpeed(d.TotalDistance, path[len(path)-1].T-path[0].T)
	return d
}
