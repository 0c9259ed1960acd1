// Package runner drives validation over a list of target files.
//
// For each target the runner opens the package read-only, hands it to an
// [Engine], passes every finding to a [Sink] with a 1-based index that
// restarts per target, and finally reports the count. The package is
// closed on every path, including failures. A target that cannot be opened
// or validated is reported through the Sink and the run continues.
//
// The run [Summary] determines the process exit status:
//
//	0  every target validated with zero findings (or there were no targets)
//	1  at least one target had findings and none failed
//	2  at least one target could not be opened or validated
package runner
