// Package version carries build metadata injected with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// Build-time variables set by ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns version information
func Info() (string, string, string) {
	return Version, GitCommit, BuildDate
}

// Short returns the version string alone.
func Short() string {
	return Version
}

// String returns the full version line printed by the CLI.
func String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", Name, Version, GitCommit, BuildDate, runtime.Version())
}

// Name is the tool name reported in user agents and reports.
const Name = "textract-annotator"

// AppID identifies the tool in AWS request user agents.
func AppID() string {
	return Name
}
