package runner

import (
	"time"

	"github.com/thoreinstein/docxval/internal/errors"
	"github.com/thoreinstein/docxval/internal/metrics"
	"github.com/thoreinstein/docxval/internal/validator"
)

// TargetResult is the outcome of validating one target.
type TargetResult struct {
	Path   string
	Errors []validator.ErrorInfo

	// Count is the number of findings enumerated, always len(Errors).
	Count int

	// Err is set when the target could not be opened or validated.
	Err error

	Duration time.Duration

	reportErr error
}

// Outcome classifies the result as clean, invalid or failed.
func (r *TargetResult) Outcome() string {
	switch {
	case r.Err != nil:
		return metrics.OutcomeFailed
	case r.Count > 0:
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeClean
	}
}

// Summary aggregates a run.
type Summary struct {
	RunID       string
	Targets     int
	Clean       int
	Invalid     int
	Failed      int
	TotalErrors int
	Duration    time.Duration
	Results     []*TargetResult
}

func (s *Summary) add(r *TargetResult) {
	s.Targets++
	s.TotalErrors += r.Count
	s.Results = append(s.Results, r)

	switch r.Outcome() {
	case metrics.OutcomeFailed:
		s.Failed++
	case metrics.OutcomeInvalid:
		s.Invalid++
	default:
		s.Clean++
	}
}

// Totals converts the summary for structured reports.
func (s *Summary) Totals() validator.Totals {
	return validator.Totals{
		Targets:    s.Targets,
		Clean:      s.Clean,
		Invalid:    s.Invalid,
		Failed:     s.Failed,
		Errors:     s.TotalErrors,
		DurationMS: s.Duration.Milliseconds(),
	}
}

// Err returns the error that determines the exit status of the run, nil
// when every target is clean.
func (s *Summary) Err() error {
	switch {
	case s.Failed > 0:
		return errors.NewExitError(
			errors.Wrapf(errors.ErrTargetFailed, "%d of %d target(s) failed", s.Failed, s.Targets),
			errors.ExitSystem,
		)
	case s.Invalid > 0:
		return errors.NewExitError(
			errors.Wrapf(errors.ErrValidationFailed, "%d error(s) in %d of %d target(s)", s.TotalErrors, s.Invalid, s.Targets),
			errors.ExitUser,
		)
	default:
		return nil
	}
}

// ExitCode returns the process exit status for the run.
func (s *Summary) ExitCode() int {
	return errors.Code(s.Err())
}
