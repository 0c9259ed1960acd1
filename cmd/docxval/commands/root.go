// Package commands implements the CLI commands for docxval.
package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/docxval/cmd"
	"github.com/thoreinstein/docxval/internal/config"
	"github.com/thoreinstein/docxval/internal/errors"
	"github.com/thoreinstein/docxval/internal/logging"
)

// debugEnv raises verbosity when no -v flag is given.
const debugEnv = "DOCXVAL_DEBUG"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// cfg is the loaded configuration, nil when loading failed.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./config.yaml or $XDG_CONFIG_HOME/docxval/config.yaml)")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("docxval version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	cfg, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "docxval [path...]",
	Short: "Validate Office Open XML word-processing documents",
	Long: `docxval checks .docx packages for package structure, schema,
semantic and markup compatibility errors.

Each target prints one block per error followed by count=<n>. Without
arguments every file with the configured extension in the current
directory is validated.

Exit status is 0 when every target is clean, 1 when errors were found
and 2 when a target could not be opened or validated.`,
	Example: `  # Validate every .docx in the current directory
  docxval

  # Validate specific files
  docxval report.docx letters/

  # Machine-readable output
  docxval --format json report.docx

  See Also: docxval rules, docxval parts`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	RunE: runValidate,
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("conflicting flags"), "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(debugEnv); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case logging.FormatText:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	default:
		return errors.NewUserError(errors.Newf("invalid log format %q", logFormat), "use --log-format text or json")
	}

	handlers := []slog.Handler{primaryHandler}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	logger.Debug("starting", "version", cmd.Root().Version)
	return nil
}

// checkConfig reports a config load failure for commands that need the
// configuration.
func checkConfig(cmd *cobra.Command) error {
	// Skip validation for commands that work without a valid config
	switch cmd.Name() {
	case "help", "version", "init", "doctor", "edit", "gen-doc":
		return nil
	}

	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// loadedConfig returns the loaded configuration, or the defaults when
// loading was skipped.
func loadedConfig() *config.Config {
	if cfg == nil {
		return config.Default()
	}
	c := *cfg
	c.DisabledRules = append([]string(nil), cfg.DisabledRules...)
	return &c
}

// Execute runs the root command. An interrupt cancels the running
// validation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return errors.Wrap(rootCmd.ExecuteContext(ctx), "executing root command")
}
