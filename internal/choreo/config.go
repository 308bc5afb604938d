package choreo

import "fmt"

// SyncMode controls how much the curve-candidate strategies privilege
// synchronized movement over other aesthetics.
type SyncMode string

const (
	// SyncStrict ranks minimal start delay ahead of everything else.
	SyncStrict SyncMode = "strict"
	// SyncBalanced ranks fewest crossings first, then delay.
	SyncBalanced SyncMode = "balanced"
	// SyncRelaxed ranks simplest curve shapes first.
	SyncRelaxed SyncMode = "relaxed"
)

// AssignMode selects how start positions map to end positions.
type AssignMode string

const (
	// AssignFixed maps dancer i to end position i with no optimization.
	AssignFixed AssignMode = "fixed"
	// AssignOptimal minimizes total travel distance: exact bitmask DP up to
	// DPAssignmentLimit dancers, greedy nearest-unused beyond it.
	AssignOptimal AssignMode = "optimal"
	// AssignHungarian minimizes total travel distance exactly at any size
	// via the Kuhn-Munkres solver.
	AssignHungarian AssignMode = "hungarian"
)

// Default configuration values. Each is independently overridable through
// Config; the JSON tuning overlay in internal/config reuses these as the
// fallbacks for fields a tuning file omits.
const (
	DefaultTotalCounts        = 8.0
	DefaultCollisionRadius    = 0.5
	DefaultStageWidth         = 12.0
	DefaultStageHeight        = 10.0
	DefaultGridResolution     = 0.5
	DefaultTimeResolution     = 0.25
	DefaultCollisionCheckStep = 0.1
	DefaultTimeStep           = 0.1
	DefaultNumPoints          = 16
	DefaultMaxSpeed           = 3.0
	DefaultMaxIterations      = 10000
	DefaultCBSMaxExpansions   = 100
	DefaultRepairIterations   = 50

	// DPAssignmentLimit caps the exact bitmask assignment DP; beyond this
	// many dancers the optimal mode degrades to the greedy heuristic.
	DPAssignmentLimit = 20
)

// Config is the flat planning configuration shared by every strategy. Zero
// values are not meaningful; obtain a Config from DefaultConfig and override
// fields as needed.
type Config struct {
	// TotalCounts is the planning horizon in counts.
	TotalCounts float64 `json:"total_counts"`

	// CollisionRadius is the per-dancer radius; two dancers collide when
	// their separation drops below twice this value.
	CollisionRadius float64 `json:"collision_radius"`

	// Stage dimensions in stage units.
	StageWidth  float64 `json:"stage_width"`
	StageHeight float64 `json:"stage_height"`

	// GridResolution is the spatial cell size for the grid strategies;
	// TimeResolution is their time slice.
	GridResolution float64 `json:"grid_resolution"`
	TimeResolution float64 `json:"time_resolution"`

	// CollisionCheckStep is the sampling step for continuous collision
	// checks, in counts.
	CollisionCheckStep float64 `json:"collision_check_step"`

	// TimeStep is the integration step for the simulation strategies
	// (RVO, boids, potential field), in counts.
	TimeStep float64 `json:"time_step"`

	// NumPoints is the number of segments for generated curve trajectories.
	NumPoints int `json:"num_points"`

	// MaxSpeed caps implied dancer speed in stage units per count.
	// Strategies stretch timing rather than exceed it.
	MaxSpeed float64 `json:"max_speed"`

	// MaxIterations bounds A*/JPS node expansions. CBSMaxExpansions bounds
	// high-level constraint-tree nodes. RepairIterations bounds the hybrid
	// post-placement repair loop.
	MaxIterations    int `json:"max_iterations"`
	CBSMaxExpansions int `json:"cbs_max_expansions"`
	RepairIterations int `json:"repair_iterations"`

	SyncMode   SyncMode   `json:"sync_mode"`
	AssignMode AssignMode `json:"assign_mode"`

	// Strategies lists the planners GenerateCandidates runs. Empty means
	// every strategy.
	Strategies []Strategy `json:"strategies,omitempty"`
}

// DefaultConfig returns the documented default configuration.
func DefaultConfig() Config {
	return Config{
		TotalCounts:        DefaultTotalCounts,
		CollisionRadius:    DefaultCollisionRadius,
		StageWidth:         DefaultStageWidth,
		StageHeight:        DefaultStageHeight,
		GridResolution:     DefaultGridResolution,
		TimeResolution:     DefaultTimeResolution,
		CollisionCheckStep: DefaultCollisionCheckStep,
		TimeStep:           DefaultTimeStep,
		NumPoints:          DefaultNumPoints,
		MaxSpeed:           DefaultMaxSpeed,
		MaxIterations:      DefaultMaxIterations,
		CBSMaxExpansions:   DefaultCBSMaxExpansions,
		RepairIterations:   DefaultRepairIterations,
		SyncMode:           SyncBalanced,
		AssignMode:         AssignOptimal,
	}
}

// Validate rejects configurations no strategy can plan against.
func (c Config) Validate() error {
	if c.TotalCounts <= 0 {
		return fmt.Errorf("%w: total_counts must be positive, got %v", ErrInvalidConfig, c.TotalCounts)
	}
	if c.CollisionRadius <= 0 {
		return fmt.Errorf("%w: collision_radius must be positive, got %v", ErrInvalidConfig, c.CollisionRadius)
	}
	if c.StageWidth <= 0 || c.StageHeight <= 0 {
		return fmt.Errorf("%w: stage dimensions must be positive, got %vx%v", ErrInvalidConfig, c.StageWidth, c.StageHeight)
	}
	if c.GridResolution <= 0 || c.TimeResolution <= 0 {
		return fmt.Errorf("%w: grid/time resolution must be positive, got %v/%v", ErrInvalidConfig, c.GridResolution, c.TimeResolution)
	}
	if c.CollisionCheckStep <= 0 {
		return fmt.Errorf("%w: collision_check_step must be positive, got %v", ErrInvalidConfig, c.CollisionCheckStep)
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("%w: time_step must be positive, got %v", ErrInvalidConfig, c.TimeStep)
	}
	if c.NumPoints < 2 {
		return fmt.Errorf("%w: num_points must be at least 2, got %d", ErrInvalidConfig, c.NumPoints)
	}
	if c.MaxSpeed <= 0 {
		return fmt.Errorf("%w: max_speed must be positive, got %v", ErrInvalidConfig, c.MaxSpeed)
	}
	switch c.SyncMode {
	case SyncStrict, SyncBalanced, SyncRelaxed:
	default:
		return fmt.Errorf("%w: unknown sync_mode %q", ErrInvalidConfig, c.SyncMode)
	}
	switch c.AssignMode {
	case AssignFixed, AssignOptimal, AssignHungarian:
	default:
		return fmt.Errorf("%w: unknown assign_mode %q", ErrInvalidConfig, c.AssignMode)
	}
	for _, s := range c.Strategies {
		if !s.Valid() {
			return fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
		}
	}
	return nil
}

// requestedStrategies resolves the strategy list, defaulting to all planners.
func (c Config) requestedStrategies() []Strategy {
	if len(c.Strategies) == 0 {
		return AllStrategies()
	}
	return c.Strategies
}
