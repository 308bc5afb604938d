// Package sqlite persists planning runs and their candidate metrics.
//
// All database read/write operations for runs belong here rather than in
// the planning packages. This keeps the planners free of SQL noise and
// makes it easier to swap storage backends for testing.
package sqlite
