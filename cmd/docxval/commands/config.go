package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/docxval/internal/config"
	"github.com/thoreinstein/docxval/internal/editor"
	"github.com/thoreinstein/docxval/internal/errors"
	"github.com/thoreinstein/docxval/internal/paths"
	"github.com/thoreinstein/docxval/pkg/fileutil"
)

var (
	configInitForce bool
	configInitPath  string
)

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configInitCmd.Flags().StringVar(&configInitPath, "path", "", "config file to write (default: $XDG_CONFIG_HOME/docxval/config.yaml)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage docxval configuration",
	Long: `Manage docxval configuration stored in config.yaml.

Without a subcommand, prints the effective configuration.`,
	Example: `  # Print the effective configuration
  docxval config

  # Write a config file with the defaults
  docxval config init

See Also: docxval rules`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the effective configuration in YAML format, after defaults,
config file, .env and DOCXVAL_* environment variables have been applied.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	Long: `Write a config file containing every key with its default value.

An existing file is left untouched unless --force is given.`,
	Example: `  # Write the user config file
  docxval config init

  # Write a project config file
  docxval config init --path ./config.yaml`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $VISUAL or $EDITOR",
	Long: `Open the config file in your editor and validate it once the editor
exits.

Uses $VISUAL, then $EDITOR, falling back to nano or vi. If no config file
exists, prints an error suggesting 'docxval config init'.`,
	Example: `  # Edit with the default editor
  docxval config edit

  # Edit with a specific editor
  EDITOR=nano docxval config edit`,
	Args: cobra.NoArgs,
	RunE: runConfigEdit,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	return writeConfig(cmd.OutOrStdout(), loadedConfig())
}

// writeConfig prints c as YAML, preceded by the file it was read from.
func writeConfig(w io.Writer, c *config.Config) error {
	source := viper.ConfigFileUsed()
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintf(w, "# source: %s\n", source)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return errors.Wrap(enc.Close(), "encoding config")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configInitPath
	if path == "" {
		path = paths.ConfigFile()
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return errors.NewUserError(
			errors.Newf("config file already exists: %s", path),
			"use --force to overwrite it",
		)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating config directory"), "")
	}
	if err := fileutil.AtomicWriteYAML(path, config.Default()); err != nil {
		return errors.NewSystemError(errors.Wrapf(err, "writing %s", path), "")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

// openEditor is replaced in tests.
var openEditor = editor.Open

func runConfigEdit(cmd *cobra.Command, _ []string) error {
	path := viper.ConfigFileUsed()
	if path == "" {
		path = paths.ConfigFile()
	}

	if _, err := os.Stat(path); err != nil {
		return errors.NewUserError(
			errors.Wrapf(err, "config file not found at %s", path),
			"Run: docxval config init",
		)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Location: %s\n", path)
	if err := openEditor(cmd.Context(), path); err != nil {
		return errors.NewSystemError(err, "set $EDITOR to an installed editor")
	}

	config.Init()
	if _, err := config.Load(path); err != nil {
		return errors.NewConfigError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
	return nil
}
