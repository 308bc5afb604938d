// Package version carries build metadata injected via -ldflags.
package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String renders the full build identity for -version output and logs.
func String() string {
	return fmt.Sprintf("choreoflow %s (%s, built %s)", Version, GitSHA, BuildTime)
}
