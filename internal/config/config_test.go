package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestInit(t *testing.T) {
	viper.Reset()

	Init()

	if viper.GetInt("version") != 1 {
		t.Errorf("expected version default 1, got %d", viper.GetInt("version"))
	}
	if got := viper.GetString("extension"); got != ".docx" {
		t.Errorf("expected extension default .docx, got %q", got)
	}
	if got := viper.GetInt("max_errors"); got != DefaultMaxErrors {
		t.Errorf("expected max_errors default %d, got %d", DefaultMaxErrors, got)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	viper.Reset()

	// Point the config dir at an empty temp dir to avoid loading user config
	t.Setenv("DOCXVAL_CONFIG_DIR", t.TempDir())

	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() with no config file should not error: %v", err)
	}
	if cfg.Format != "text" {
		t.Errorf("Format = %q, want text", cfg.Format)
	}
	if cfg.MaxPartSize != DefaultMaxPartSize {
		t.Errorf("MaxPartSize = %d, want %d", cfg.MaxPartSize, DefaultMaxPartSize)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	viper.Reset()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := []byte("format: json\nmax_errors: 5\ndisabled_rules:\n  - SEM002\n  - MCE001\n")
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		t.Fatal(err)
	}

	Init()

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Format)
	}
	if cfg.MaxErrors != 5 {
		t.Errorf("MaxErrors = %d, want 5", cfg.MaxErrors)
	}
	if len(cfg.DisabledRules) != 2 {
		t.Errorf("expected 2 disabled rules, got %d", len(cfg.DisabledRules))
	}
	if cfg.Extension != ".docx" {
		t.Errorf("Extension = %q, want default .docx", cfg.Extension)
	}
}

func TestLoad_OtherFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "config.toml", "format = \"yaml\"\nmax_errors = 3\n"},
		{"json", "config.json", `{"format": "yaml", "max_errors": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Setenv("DOCXVAL_CONFIG_DIR", dir)
			if err := os.WriteFile(filepath.Join(dir, tt.file), []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			Init()
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.Format != "yaml" || cfg.MaxErrors != 3 {
				t.Errorf("got format=%q max_errors=%d, want yaml and 3", cfg.Format, cfg.MaxErrors)
			}
		})
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Setenv("DOCXVAL_CONFIG_DIR", t.TempDir())
	t.Setenv("DOCXVAL_MAX_ERRORS", "7")

	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MaxErrors != 7 {
		t.Errorf("MaxErrors = %d, want 7", cfg.MaxErrors)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	viper.Reset()
	Init()

	_, err := Load("/non/existent/path/config.yaml")
	if err == nil {
		t.Error("Load() with non-existent explicit path should error")
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "invalid version",
			content: "version: 2\n",
			wantErr: "unsupported config version: 2",
		},
		{
			name:    "invalid format",
			content: "format: xml\n",
			wantErr: "format: must be one of [text json yaml], got xml",
		},
		{
			name:    "negative max errors",
			content: "max_errors: -1\n",
			wantErr: "max_errors: must be gte 0, got -1",
		},
		{
			name:    "extension without dot",
			content: "extension: docx\n",
			wantErr: `extension: must start with ".", got docx`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Setenv("DOCXVAL_CONFIG_DIR", t.TempDir())
			Init()

			dir := t.TempDir()
			configPath := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}

			_, err := Load(configPath)
			if err == nil {
				t.Error("Load() expected error, got nil")
			} else if err.Error() != "validating config: "+tt.wantErr {
				t.Errorf("Load() error = %v, want %v", err, "validating config: "+tt.wantErr)
			}
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("DOCXVAL_CONFIG_DIR", t.TempDir())

	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if err := os.WriteFile(DotEnvFile, []byte("DOCXVAL_FORMAT=yaml\n"), 0600); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables that are already set; make sure
	// the key is unset and cleaned up afterwards.
	t.Setenv("DOCXVAL_FORMAT", "")
	os.Unsetenv("DOCXVAL_FORMAT")

	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Format != "yaml" {
		t.Errorf("Format = %q, want yaml from .env", cfg.Format)
	}
}

func TestInit_ClearsPreviousState(t *testing.T) {
	dir := t.TempDir()
	fileA := filepath.Join(dir, "config_a.yaml")
	if err := os.WriteFile(fileA, []byte("version: 1\nformat: json\n"), 0600); err != nil {
		t.Fatal(err)
	}

	viper.Reset()
	Init()
	if _, err := Load(fileA); err != nil {
		t.Fatalf("First Load failed: %v", err)
	}

	dirB := t.TempDir()
	t.Setenv("DOCXVAL_CONFIG_DIR", dirB)
	fileB := filepath.Join(dirB, "config.yaml")
	if err := os.WriteFile(fileB, []byte("version: 1\nformat: yaml\n"), 0600); err != nil {
		t.Fatal(err)
	}

	// Re-initializing must forget the explicit file from the first load.
	Init()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Second Load failed: %v", err)
	}

	if cfg.Format != "yaml" {
		t.Errorf("expected config from default path (fileB), got format %q", cfg.Format)
		if viper.ConfigFileUsed() == fileA {
			t.Errorf("Still using fileA: %s", viper.ConfigFileUsed())
		}
	}
}
