package choreo

import "errors"

// Input errors fail fast at the assignment boundary. Search exhaustion and
// unresolved collisions are deliberately not errors: planners degrade to a
// best-effort trajectory and Validate judges the result.
var (
	// ErrLengthMismatch reports start/end position lists of different sizes.
	ErrLengthMismatch = errors.New("choreo: start and end position counts differ")

	// ErrNonFiniteCoordinate reports a NaN or infinite input coordinate.
	ErrNonFiniteCoordinate = errors.New("choreo: non-finite coordinate")

	// ErrUnknownStrategy reports a strategy name or value outside the
	// closed planner set.
	ErrUnknownStrategy = errors.New("choreo: unknown strategy")

	// ErrInvalidConfig reports a configuration that fails validation.
	ErrInvalidConfig = errors.New("choreo: invalid config")

	// ErrNoDancers reports an empty planning request.
	ErrNoDancers = errors.New("choreo: no dancers to plan")
)
