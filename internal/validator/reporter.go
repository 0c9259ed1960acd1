package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText streams human-readable blocks per finding.
	FormatText Format = "text"
	// FormatJSON produces one JSON document per run.
	FormatJSON Format = "json"
	// FormatYAML produces one YAML document per run.
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.Newf("unknown format %q (want text, json or yaml)", s)
	}
}

// separator closes every text block.
var separator = strings.Repeat("-", 43)

// Totals summarizes a run for structured reports.
type Totals struct {
	Targets    int   `json:"targets" yaml:"targets"`
	Clean      int   `json:"clean" yaml:"clean"`
	Invalid    int   `json:"invalid" yaml:"invalid"`
	Failed     int   `json:"failed" yaml:"failed"`
	Errors     int   `json:"errors" yaml:"errors"`
	DurationMS int64 `json:"duration_ms" yaml:"duration_ms"`
}

// TargetReport holds the findings for one target in structured reports.
type TargetReport struct {
	Path   string      `json:"path" yaml:"path"`
	Errors []ErrorInfo `json:"errors" yaml:"errors"`
	Count  int         `json:"count" yaml:"count"`

	// Failure is set when the target could not be opened or validated.
	Failure string `json:"failure,omitempty" yaml:"failure,omitempty"`
}

// RunReport is the structured document emitted by Finish.
type RunReport struct {
	RunID   string          `json:"run_id" yaml:"run_id"`
	Targets []*TargetReport `json:"targets" yaml:"targets"`
	Summary Totals          `json:"summary" yaml:"summary"`
}

// Reporter formats and writes validation results. Text output is streamed
// as findings arrive; JSON and YAML output is buffered and written by
// Finish.
type Reporter struct {
	out     io.Writer
	format  Format
	failure *color.Color

	run     RunReport
	current *TargetReport
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:     out,
		format:  format,
		failure: color.New(color.FgRed),
		run:     RunReport{Targets: []*TargetReport{}},
	}
}

// DisableColor turns off color for a report that is not written to the
// terminal.
func (r *Reporter) DisableColor() {
	r.failure.DisableColor()
}

// Format returns the output format.
func (r *Reporter) Format() Format {
	return r.format
}

// StartTarget announces validation of path.
func (r *Reporter) StartTarget(path string) error {
	r.current = &TargetReport{Path: path, Errors: []ErrorInfo{}}
	r.run.Targets = append(r.run.Targets, r.current)

	if r.format != FormatText {
		return nil
	}
	_, err := fmt.Fprintf(r.out, "Validating %s ...\n", path)
	return errors.Wrap(err, "writing report")
}

// Error reports one finding with its 1-based index within the target.
func (r *Reporter) Error(index int, e ErrorInfo) error {
	if r.current != nil {
		r.current.Errors = append(r.current.Errors, e)
	}

	if r.format != FormatText {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error %d\n", index)
	fmt.Fprintf(&sb, "Description: %s\n", e.Description)
	fmt.Fprintf(&sb, "ErrorType: %s\n", e.ErrorType)
	fmt.Fprintf(&sb, "Node: %s\n", e.Node)
	fmt.Fprintf(&sb, "Path: %s\n", e.Path)
	fmt.Fprintf(&sb, "Part: %s\n", e.Part)
	sb.WriteString(separator)
	sb.WriteByte('\n')

	_, err := io.WriteString(r.out, sb.String())
	return errors.Wrap(err, "writing report")
}

// EndTarget reports the number of findings enumerated for path.
func (r *Reporter) EndTarget(path string, count int) error {
	if r.current != nil && r.current.Path == path {
		r.current.Count = count
	}

	if r.format != FormatText {
		return nil
	}
	_, err := fmt.Fprintf(r.out, "count=%d\n", count)
	return errors.Wrap(err, "writing report")
}

// Failure reports that path could not be opened or validated.
func (r *Reporter) Failure(path string, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	if r.current != nil && r.current.Path == path {
		r.current.Failure = msg
	} else {
		r.run.Targets = append(r.run.Targets, &TargetReport{Path: path, Errors: []ErrorInfo{}, Failure: msg})
	}

	if r.format != FormatText {
		return nil
	}
	_, err := fmt.Fprintf(r.out, "%s: %s\n", path, r.failure.Sprint(msg))
	return errors.Wrap(err, "writing report")
}

// Finish completes the run. For JSON and YAML it writes the collected
// report; text output has nothing left to write.
func (r *Reporter) Finish(runID string, totals Totals) error {
	r.run.RunID = runID
	r.run.Summary = totals

	switch r.format {
	case FormatJSON:
		encoder := json.NewEncoder(r.out)
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(r.run), "encoding JSON report")
	case FormatYAML:
		encoder := yaml.NewEncoder(r.out)
		encoder.SetIndent(2)
		if err := encoder.Encode(r.run); err != nil {
			return errors.Wrap(err, "encoding YAML report")
		}
		return errors.Wrap(encoder.Close(), "encoding YAML report")
	default:
		return nil
	}
}

// Report returns the structured report collected so far.
func (r *Reporter) Report() *RunReport {
	return &r.run
}
