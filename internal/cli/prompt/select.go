// Package prompt provides interactive CLI prompts for choosing validation
// targets.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/docxval/internal/errors"
)

// Sentinel errors for target selection.
var (
	ErrNoFiles            = errors.New("no files to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles interactive file selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stderr, keeping stdout
// free for the report.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stderr,
	}
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// SelectFiles prompts the user to choose a subset of paths.
//
// The input is a comma-separated list of 1-based numbers or ranges such as
// "1,3-5". Empty input selects every file.
//
// Returns:
//   - ErrNoFiles if the list is empty
//   - The single path without prompting if only one exists
//   - The selected paths in list order, without duplicates
//   - ErrInvalidSelection if an entry is malformed or out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) SelectFiles(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	if len(paths) == 1 {
		return paths, nil
	}

	fmt.Fprintf(s.writer, "Found %d files:\n", len(paths))
	for i, p := range paths {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, filepath.Base(p))
	}
	fmt.Fprintf(s.writer, "Select (e.g. 1,3-4) [all]: ")

	input, err := bufio.NewReader(s.reader).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		if errors.Is(err, io.EOF) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return paths, nil
	}

	picked, err := parseSelection(input, len(paths))
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(picked))
	for i, p := range paths {
		if picked[i] {
			out = append(out, p)
		}
	}
	return out, nil
}

// parseSelection returns the 0-based indexes chosen by input.
func parseSelection(input string, n int) (map[int]bool, error) {
	picked := make(map[int]bool)
	for _, field := range strings.Split(input, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		lo, hi, isRange := strings.Cut(field, "-")
		first, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", field)
		}
		last := first
		if isRange {
			last, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil {
				return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a range", field)
			}
		}
		if first < 1 || last > n || first > last {
			return nil, errors.Wrapf(ErrInvalidSelection, "%s is out of range [1-%d]", field, n)
		}
		for i := first; i <= last; i++ {
			picked[i-1] = true
		}
	}
	if len(picked) == 0 {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q selects nothing", input)
	}
	return picked, nil
}

// FuzzySelectFiles opens a full-screen fuzzy finder for multi-selecting
// paths. Aborting the finder returns ErrSelectionCancelled.
func FuzzySelectFiles(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	idxs, err := fuzzyfinder.FindMulti(
		paths,
		func(i int) string {
			return filepath.Base(paths[i])
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			info, err := os.Stat(paths[i])
			if err != nil {
				return fmt.Sprintf("Path: %s\n\n%v", paths[i], err)
			}
			return fmt.Sprintf("Path: %s\nSize: %d bytes\nModified: %s",
				paths[i],
				info.Size(),
				info.ModTime().Format("2006-01-02 15:04"),
			)
		}),
		fuzzyfinder.WithHeader("Tab to select, Enter to validate"),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrSelectionCancelled
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}

	out := make([]string, 0, len(idxs))
	for i, p := range paths {
		for _, idx := range idxs {
			if idx == i {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}
