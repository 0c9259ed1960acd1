package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thoreinstein/docxval/internal/opc/opctest"
	"github.com/thoreinstein/docxval/internal/paths"
)

// resetFlags restores every flag of cmd and its subcommands to its default
// so that executions do not leak state into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// testEnv isolates a test in a fresh working directory and config
// directory and returns the working directory.
func testEnv(t *testing.T) string {
	t.Helper()
	color.NoColor = true

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("resolving temp dir: %v", err)
	}
	t.Setenv(paths.ConfigDirEnv, filepath.Join(dir, ".config"))
	t.Chdir(dir)
	return dir
}

// executeCommand runs the root command with args and returns stdout and
// stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

// writeDocx writes a package with the given body into dir.
func writeDocx(t *testing.T, dir, name, body string) string {
	t.Helper()
	files := opctest.Minimal()
	if body != "" {
		files["word/document.xml"] = opctest.Document(body)
	}
	return opctest.WriteTo(t, dir, name, files)
}

// undefinedStyle is a body referencing a style the package does not define.
const undefinedStyle = `<w:p><w:pPr><w:pStyle w:val="Missing"/></w:pPr></w:p>`
