// Package monitoring holds the process-wide diagnostic logger. Planner-scoped
// tracing lives in internal/choreo; this logger is the sink those traces and
// the server/CLI plumbing default to.
package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but
// may be replaced by SetLogger. Tests or production code can redirect or mute
// it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Scoped returns a logger that prefixes every line with the given scope,
// writing through whatever Logf is at call time.
func Scoped(scope string) func(format string, v ...interface{}) {
	return func(format string, v ...interface{}) {
		Logf("["+scope+"] "+format, v...)
	}
}
