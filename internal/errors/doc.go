// Package errors provides error handling conventions for the docxval CLI.
//
// This package defines sentinel errors for common failure conditions,
// an ExitError type for CLI exit code handling, and exit code constants
// following standard Unix conventions. It re-exports the constructors and
// inspection helpers of github.com/cockroachdb/errors so callers only import
// one errors package.
//
// # Exit Codes
//
// The exit code policy is the same for every invocation:
//
//   - ExitSuccess (0): every target validated with zero errors
//   - ExitUser (1): validation errors were reported, or the input/configuration was invalid
//   - ExitSystem (2): at least one target could not be opened or validated
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion
// for CLI applications. It supports error unwrapping via [errors.Unwrap] and
// [errors.As]:
//
//	err := docxerrors.NewUserError(docxerrors.ErrInvalidConfig, "Check your config file")
//	var exitErr *docxerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
