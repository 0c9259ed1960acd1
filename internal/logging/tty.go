package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is backed by a terminal file descriptor.
func IsTTY(w any) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Interactive reports whether the process can run a full-screen picker:
// stdin and stderr must both be terminals.
func Interactive() bool {
	return IsTTY(os.Stdin) && IsTTY(os.Stderr)
}

// SupportsColor reports whether ANSI colors should be written to w. NO_COLOR
// and TERM=dumb turn color off even on a terminal.
func SupportsColor(w io.Writer) bool {
	return colorAllowed(IsTTY(w))
}

func colorAllowed(tty bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return tty
}
