package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/docxval/internal/ooxml"
)

var rulesJSON bool

func init() {
	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List validation rules",
	Long: `List every validation rule in execution order with its category and
whether the current configuration disables it.`,
	Example: `  # List rules
  docxval rules

  # Disable a rule for one run
  docxval --disable-rule SEM002 report.docx

See Also: docxval config show`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func runRules(cmd *cobra.Command, _ []string) error {
	return runRulesWithWriter(cmd.OutOrStdout())
}

// runRulesWithWriter allows injecting a writer for testing.
func runRulesWithWriter(w io.Writer) error {
	c := loadedConfig()
	rules := ooxml.New(ooxml.WithDisabledRules(c.DisabledRules...)).Rules()

	if rulesJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rules)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", "ID", "CATEGORY", "STATUS", "DESCRIPTION")
	for _, r := range rules {
		status := color.GreenString("enabled")
		if !r.Enabled {
			status = color.HiBlackString("disabled")
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", r.ID, r.Category, status, r.Description)
	}
	return tw.Flush()
}
