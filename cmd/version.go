// Package cmd contains build-time variables injected via ldflags.
package cmd

import (
	"fmt"
	"runtime"
)

// Build-time variables set via ldflags.
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit SHA of the build.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)

// UserAgent identifies the build in logs and structured reports.
func UserAgent() string {
	return fmt.Sprintf("docxval/%s (%s; %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
