// Package version holds the chg build information.
// It has no dependencies so any package can import it.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// Short returns the one-line version string, e.g. "chg 1.2.0 (abc1234)".
func Short() string {
	if IsDevBuild() {
		return fmt.Sprintf("chg dev (%s)", Commit)
	}
	return fmt.Sprintf("chg %s (%s)", Version, Commit)
}

// GoVersion is the Go toolchain the binary was built with.
func GoVersion() string {
	return runtime.Version()
}

// Platform is the GOOS/GOARCH pair of the binary.
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}
