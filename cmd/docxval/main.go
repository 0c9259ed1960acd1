// Package main is the entry point for the docxval CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/thoreinstein/docxval/cmd/docxval/commands"
	"github.com/thoreinstein/docxval/internal/errors"
)

func main() {
	err := commands.Execute()
	if err != nil && !reported(err) {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("Error:"), err)

		var exitErr *errors.ExitError
		if errors.As(err, &exitErr) && exitErr.Suggestion != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", exitErr.Suggestion)
		}
	}
	os.Exit(errors.Code(err))
}

// reported reports whether err only restates results already written to
// the report.
func reported(err error) bool {
	return errors.Is(err, errors.ErrValidationFailed) || errors.Is(err, errors.ErrTargetFailed)
}
