package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/docxval/internal/errors"
	"github.com/thoreinstein/docxval/internal/opc"
)

var partsJSON bool

func init() {
	partsCmd.Flags().BoolVar(&partsJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(partsCmd)
}

var partsCmd = &cobra.Command{
	Use:   "parts <path>",
	Short: "List the parts of a package",
	Long: `List every part of a package with its content type and uncompressed
size. The main document part is marked with an asterisk.`,
	Example: `  # List parts
  docxval parts report.docx

  # Output as JSON
  docxval parts report.docx --json

See Also: docxval rules`,
	Args: cobra.ExactArgs(1),
	RunE: runParts,
}

// partsOutput is the JSON form of the parts listing.
type partsOutput struct {
	Path         string      `json:"path"`
	MainDocument string      `json:"main_document"`
	Parts        []*opc.Part `json:"parts"`
}

func runParts(cmd *cobra.Command, args []string) error {
	return runPartsWithWriter(cmd.OutOrStdout(), args[0])
}

// runPartsWithWriter allows injecting a writer for testing.
func runPartsWithWriter(w io.Writer, path string) error {
	c := loadedConfig()

	pkg, err := opc.Open(path, opc.WithMaxPartSize(c.MaxPartSize))
	if err != nil {
		return errors.NewSystemError(errors.Wrapf(err, "opening %s", path), "check that the file is a .docx package")
	}
	defer pkg.Close()

	if partsJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(partsOutput{
			Path:         pkg.Path(),
			MainDocument: pkg.MainDocument(),
			Parts:        pkg.Parts(),
		})
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%s\t%s\n", "NAME", "CONTENT TYPE", "SIZE")
	for _, p := range pkg.Parts() {
		name := p.Name
		if name == pkg.MainDocument() {
			name = color.GreenString(name + " *")
		}
		contentType := p.ContentType
		if contentType == "" {
			contentType = color.YellowString("(none)")
		}
		fmt.Fprintf(tw, "  %s\t%s\t%d\n", name, contentType, p.Size)
	}
	return tw.Flush()
}
