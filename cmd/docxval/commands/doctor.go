package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thoreinstein/docxval/internal/doctor"
	"github.com/thoreinstein/docxval/internal/errors"
	"github.com/thoreinstein/docxval/internal/paths"
)

var (
	doctorJSON    bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "all", false,
		"show every check including passed ones")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair fixable permission issues")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Run diagnostic checks on the docxval configuration.

Checks the config file syntax and values, the disabled rule ids, and the
permissions of the config directory and the metrics file directory.

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Example: `  # Show problems
  docxval doctor

  # Repair permissions
  docxval doctor --fix`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

// errDoctorWarnings is a sentinel error for exit code 1.
var errDoctorWarnings = errors.New("doctor found warnings")

// errDoctorErrors is a sentinel error for exit code 2.
var errDoctorErrors = errors.New("doctor found errors")

func runDoctor(cmd *cobra.Command, _ []string) error {
	c := loadedConfig()
	pathCheck := doctor.NewPathPermissionCheck(paths.ConfigDir(), viper.ConfigFileUsed(), c.MetricsFile)

	runner := doctor.NewRunner(
		doctor.NewConfigSyntaxCheck(viper.ConfigFileUsed()),
		doctor.NewConfigValuesCheck(configLoadErr),
		doctor.NewDisabledRulesCheck(c.DisabledRules),
		pathCheck,
	)
	report := runner.Run(cmd.Context())

	w := cmd.OutOrStdout()
	if doctorFix && pathCheck.CanFix() {
		fixes := pathCheck.Fix()
		if !doctorJSON {
			writeFixes(w, fixes)
		}
		// Re-run so the report reflects the repaired state
		report = runner.Run(cmd.Context())
	}

	if doctorJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return errors.Wrap(err, "encoding JSON")
		}
	} else {
		writeDoctorText(w, report, doctorVerbose)
	}

	if report.HasErrors() {
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

func writeFixes(w io.Writer, fixes []doctor.FixResult) {
	for _, f := range fixes {
		if f.Fixed {
			fmt.Fprintf(w, "%s fixed %s: %s\n", color.GreenString("✓"), f.Path, f.Description)
		} else {
			fmt.Fprintf(w, "%s could not fix %s: %s\n", color.RedString("✗"), f.Path, f.Description)
		}
	}
}

func writeDoctorText(w io.Writer, report *doctor.DoctorReport, showAll bool) {
	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if fields, ok := result.Details["fields"].([]string); ok {
			for _, f := range fields {
				fmt.Fprintf(w, "    %s\n", f)
			}
		}
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.CyanString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}
