package choreo

import "fmt"

// Strategy selects one of the interchangeable path-generation planners.
// The set is closed: dispatch happens through one switch in PlanPaths, never
// through a name-keyed lookup table.
type Strategy int

const (
	// StrategySimple is the fast baseline: straight lines plus bounded
	// timing/curve repair for colliding pairs.
	StrategySimple Strategy = iota
	// StrategyAStar searches the discretized (x, y, t) space with
	// 8-directional moves plus wait.
	StrategyAStar
	// StrategyJPS is the A* variant that prunes symmetric grid moves by
	// expanding only jump points.
	StrategyJPS
	// StrategyCBS runs conflict-based search: a high-level constraint tree
	// over per-dancer space-time A* searches.
	StrategyCBS
	// StrategyRVO simulates per-timestep velocity selection that avoids the
	// velocity obstacles induced by nearby dancers.
	StrategyRVO
	// StrategyBoids simulates separation/alignment/cohesion/goal-seeking
	// steering.
	StrategyBoids
	// StrategyPotentialField descends an attractive/repulsive scalar field.
	StrategyPotentialField
	// StrategyHybrid generates and ranks discrete curve candidates,
	// preferring fewer path crossings.
	StrategyHybrid
	// StrategyHybridSync is the curve-candidate family member that ranks
	// synchrony (minimal delay) ahead of crossings.
	StrategyHybridSync

	numStrategies = int(StrategyHybridSync) + 1
)

var strategyNames = [numStrategies]string{
	"simple",
	"astar",
	"jps",
	"cbs",
	"rvo",
	"boids",
	"potential-field",
	"hybrid",
	"hybrid-sync",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= numStrategies {
		return fmt.Sprintf("strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// Valid reports whether s names a known planner.
func (s Strategy) Valid() bool { return s >= 0 && int(s) < numStrategies }

// MarshalText implements encoding.TextMarshaler so strategies render as
// their names in JSON payloads and stored rows.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStrategy maps a strategy name (as served by the API and stored in
// scenario files) back to its enum value.
func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// AllStrategies returns every planner in canonical order.
func AllStrategies() []Strategy {
	out := make([]Strategy, numStrategies)
	for i := range out {
		out[i] = Strategy(i)
	}
	return out
}
