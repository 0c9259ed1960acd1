package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/docxval/cmd"
	"github.com/thoreinstein/docxval/internal/errors"
)

var (
	genDocDir string
	genDocMan bool
)

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory for documentation")
	genDocCmd.Flags().BoolVar(&genDocMan, "man", false, "generate man pages instead of Markdown")
	rootCmd.AddCommand(genDocCmd)
}

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate CLI reference documentation",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runGenDoc,
}

func runGenDoc(c *cobra.Command, _ []string) error {
	if genDocDir == "" {
		return errors.NewUserError(errors.New("output directory is required"), "pass --dir <directory>")
	}
	if err := os.MkdirAll(genDocDir, 0o755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	root := c.Root()
	root.DisableAutoGenTag = true

	if genDocMan {
		header := &doc.GenManHeader{
			Title:   "DOCXVAL",
			Section: "1",
			Source:  "docxval " + cmd.Version,
			Manual:  "docxval manual",
		}
		if err := doc.GenManTree(root, header, genDocDir); err != nil {
			return errors.Wrap(err, "generating man pages")
		}
	} else if err := doc.GenMarkdownTreeCustom(root, genDocDir, filePrepender, linkHandler); err != nil {
		return errors.Wrap(err, "generating markdown")
	}

	fmt.Fprintf(c.OutOrStdout(), "Documentation generated in %s\n", genDocDir)
	return nil
}

// filePrepender adds front matter naming the command, turning
// docxval_config_init.md into "docxval config init".
func filePrepender(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.ReplaceAll(base, "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for %s"
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ToLower(base) + ".md"
}
