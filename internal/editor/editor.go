// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/docxval/internal/errors"
)

// Open launches the user's preferred editor on path and waits for it to
// exit. The editor inherits the process's terminal.
func Open(ctx context.Context, path string) error {
	return run(ctx, path, os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, path string, stdin io.Reader, stdout, stderr io.Writer) error {
	name, args := Command()

	cmd := exec.CommandContext(ctx, name, append(args, path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", name)
	}
	return nil
}

// Command returns the editor program and its leading arguments.
// Fallback chain: $VISUAL → $EDITOR → nano → vi. A value such as
// "code --wait" is split on whitespace.
func Command() (string, []string) {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields[0], fields[1:]
		}
	}

	if _, err := exec.LookPath("nano"); err == nil {
		return "nano", nil
	}
	return "vi", nil
}
