package choreo

import "github.com/wldnjs95/choreoflow/internal/monitoring"

// Trace is the call-scoped event sink planners report through. The core has
// no global output stream: every warning (search exhaustion, unresolved
// collisions, fallback escalations) flows through the Trace passed into the
// planning call, so tests can capture it and servers can route it.
type Trace interface {
	// Eventf records one planner event. stage identifies the emitting
	// component ("astar", "hybrid/repair", ...).
	Eventf(stage, format string, args ...any)
}

// nopTrace drops every event.
type nopTrace struct{}

func (nopTrace) Eventf(string, string, ...any) {}

// NopTrace returns a sink that discards all events.
func NopTrace() Trace { return nopTrace{} }

// logTrace forwards events to the package diagnostic logger with a scope
// prefix, which is the default sink for the CLIs and server.
type logTrace struct {
	scope string
}

func (t logTrace) Eventf(stage, format string, args ...any) {
	monitoring.Logf("[%s/%s] "+format, append([]any{t.scope, stage}, args...)...)
}

// LogTrace returns a Trace that writes through monitoring.Logf under the
// given scope.
func LogTrace(scope string) Trace { return logTrace{scope: scope} }

// ensureTrace substitutes the no-op sink for nil so planner internals never
// nil-check.
func ensureTrace(t Trace) Trace {
	if t == nil {
		return nopTrace{}
	}
	return t
}
