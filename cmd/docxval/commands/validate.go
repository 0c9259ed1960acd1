package commands

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/docxval/internal/cli/prompt"
	"github.com/thoreinstein/docxval/internal/config"
	"github.com/thoreinstein/docxval/internal/errors"
	"github.com/thoreinstein/docxval/internal/logging"
	"github.com/thoreinstein/docxval/internal/metrics"
	"github.com/thoreinstein/docxval/internal/ooxml"
	"github.com/thoreinstein/docxval/internal/opc"
	"github.com/thoreinstein/docxval/internal/runner"
	"github.com/thoreinstein/docxval/internal/validator"
	"github.com/thoreinstein/docxval/pkg/fileutil"
)

var (
	validateFormat       string
	validateMaxErrors    int
	validateExt          string
	validateDisableRules []string
	validateMetricsFile  string
	validateWorkers      int
	validatePick         bool
	validateOutput       string
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&validateFormat, "format", "f", config.DefaultFormat,
		"report format: text, json, yaml")
	flags.IntVar(&validateMaxErrors, "max-errors", config.DefaultMaxErrors,
		"stop after this many errors per target (0 = unlimited)")
	flags.StringVar(&validateExt, "ext", config.DefaultExtension,
		"extension matched when expanding directories")
	flags.StringSliceVar(&validateDisableRules, "disable-rule", nil,
		"rule id to skip (repeatable)")
	flags.StringVar(&validateMetricsFile, "metrics-file", "",
		"write Prometheus metrics to this file after the run")
	flags.IntVar(&validateWorkers, "workers", 0,
		"parts decoded in parallel (0 = one per CPU)")
	flags.BoolVar(&validatePick, "pick", false,
		"interactively choose which targets to validate")
	flags.StringVarP(&validateOutput, "output", "o", "",
		"write the report to this file instead of stdout")
}

// pickTargets chooses the subset of targets to validate. A fuzzy finder is
// used on a terminal, a numbered prompt otherwise.
var pickTargets = func(targets []string) ([]string, error) {
	if logging.Interactive() {
		return prompt.FuzzySelectFiles(targets)
	}
	return prompt.NewSelector().SelectFiles(targets)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	c, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}
	format, err := validator.ParseFormat(c.Format)
	if err != nil {
		return errors.NewUserError(err, "use --format text, json or yaml")
	}

	cwd, err := os.Getwd()
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "getting working directory"), "")
	}
	targets, err := runner.ResolveTargets(args, cwd, c.Extension)
	if err != nil {
		return errors.NewSystemError(err, "check that the directory is readable")
	}
	logger.Debug("resolved targets", "count", len(targets), "extension", c.Extension)

	if validatePick && len(targets) > 1 {
		targets, err = pickTargets(targets)
		if err != nil {
			if errors.Is(err, prompt.ErrSelectionCancelled) {
				return errors.NewUserError(err, "")
			}
			return errors.NewUserError(err, "enter numbers such as 1,3-4 or press Enter for all")
		}
	}

	engine := ooxml.New(
		ooxml.WithMaxErrors(c.MaxErrors),
		ooxml.WithDisabledRules(c.DisabledRules...),
		ooxml.WithWorkers(c.Workers),
	)
	if unknown := engine.UnknownRules(); len(unknown) > 0 {
		logger.Warn("disabled rules do not exist", "rules", strings.Join(unknown, ", "))
	}

	// A report bound for a file is buffered and written in one piece.
	var out io.Writer = cmd.OutOrStdout()
	var buf bytes.Buffer
	if validateOutput != "" {
		out = &buf
	}

	reporter := validator.NewReporter(out, format)
	if validateOutput != "" || !logging.SupportsColor(cmd.OutOrStdout()) {
		reporter.DisableColor()
	}
	m := metrics.New()
	r := runner.New(engine, reporter,
		runner.WithOpenOptions(opc.WithMaxPartSize(c.MaxPartSize)),
		runner.WithMetrics(m),
	)

	summary, err := r.Run(ctx, targets)
	if err != nil {
		return errors.NewSystemError(err, "")
	}

	if err := reporter.Finish(summary.RunID, summary.Totals()); err != nil {
		return errors.NewSystemError(err, "")
	}

	if validateOutput != "" {
		if err := fileutil.AtomicWriteFile(validateOutput, buf.Bytes(), 0o644); err != nil {
			return errors.NewSystemError(errors.Wrapf(err, "writing report to %s", validateOutput), "check that the directory exists and is writable")
		}
	}

	if c.MetricsFile != "" {
		if err := m.WriteTextfile(c.MetricsFile); err != nil {
			return errors.NewSystemError(err, "check that the metrics directory exists and is writable")
		}
		logger.Debug("wrote metrics", "path", c.MetricsFile)
	}

	return summary.Err()
}

// effectiveConfig applies the flags that were set on top of the loaded
// configuration and validates the result.
func effectiveConfig(cmd *cobra.Command) (*config.Config, error) {
	c := loadedConfig()
	flags := cmd.Flags()

	if flags.Changed("format") {
		c.Format = validateFormat
	}
	if flags.Changed("max-errors") {
		c.MaxErrors = validateMaxErrors
	}
	if flags.Changed("ext") {
		c.Extension = validateExt
	}
	if flags.Changed("disable-rule") {
		for _, id := range validateDisableRules {
			c.DisabledRules = append(c.DisabledRules, strings.ToUpper(strings.TrimSpace(id)))
		}
	}
	if flags.Changed("metrics-file") {
		c.MetricsFile = validateMetricsFile
	}
	if flags.Changed("workers") {
		c.Workers = validateWorkers
	}

	if errs := config.Validate(c); len(errs) > 0 {
		return nil, errors.NewUserError(&config.ValidationError{Errs: errs}, "Run 'docxval --help' to see valid flag values")
	}
	return c, nil
}
