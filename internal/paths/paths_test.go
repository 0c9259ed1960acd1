package paths

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(ConfigDirEnv, dir)

		if got := ConfigDir(); got != dir {
			t.Errorf("ConfigDir() = %q, want %q", got, dir)
		}
		if got := ConfigFile(); got != filepath.Join(dir, "config.yaml") {
			t.Errorf("ConfigFile() = %q", got)
		}
	})

	t.Run("xdg default", func(t *testing.T) {
		t.Setenv(ConfigDirEnv, "")

		got := ConfigDir()
		if !strings.HasSuffix(got, AppName) {
			t.Errorf("ConfigDir() = %q, want suffix %q", got, AppName)
		}
		if !strings.HasPrefix(got, ConfigHome()) {
			t.Errorf("ConfigDir() = %q, want prefix %q", got, ConfigHome())
		}
	})
}

func TestResolveHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	home, err := ResolveHome()
	if err != nil {
		t.Fatalf("ResolveHome() error = %v", err)
	}
	if home == "" {
		t.Error("ResolveHome() returned empty path")
	}
}
