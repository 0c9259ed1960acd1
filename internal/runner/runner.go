package runner

import (
	"context"
	"iter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/thoreinstein/docxval/internal/logging"
	"github.com/thoreinstein/docxval/internal/metrics"
	"github.com/thoreinstein/docxval/internal/opc"
	"github.com/thoreinstein/docxval/internal/validator"
)

// Engine produces the findings for an opened package.
type Engine interface {
	Validate(ctx context.Context, pkg *opc.Package) iter.Seq[validator.ErrorInfo]
}

// Sink receives the progress of a run. [validator.Reporter] implements it.
type Sink interface {
	StartTarget(path string) error
	Error(index int, e validator.ErrorInfo) error
	EndTarget(path string, count int) error
	Failure(path string, err error) error
}

// Runner validates targets one after another.
type Runner struct {
	engine   Engine
	sink     Sink
	runID    string
	openOpts []opc.Option
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Option configures a Runner.
type Option func(*Runner)

// WithOpenOptions passes options to opc.Open for every target.
func WithOpenOptions(opts ...opc.Option) Option {
	return func(r *Runner) {
		r.openOpts = append(r.openOpts, opts...)
	}
}

// WithMetrics records per-target metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithTracer sets the tracer used for per-target spans. The default is the
// global provider's tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = t
	}
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(r *Runner) {
		r.runID = id
	}
}

// New creates a Runner.
func New(engine Engine, sink Sink, opts ...Option) *Runner {
	r := &Runner{
		engine: engine,
		sink:   sink,
		runID:  uuid.NewString(),
		tracer: otel.Tracer("github.com/thoreinstein/docxval/internal/runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunID returns the id attached to logs and reports of this run.
func (r *Runner) RunID() string {
	return r.runID
}

// Run validates targets in order. Target failures are recorded in the
// summary; the returned error is non-nil only when the report could not be
// written or ctx was canceled.
func (r *Runner) Run(ctx context.Context, targets []string) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: r.runID}

	logger := logging.FromContext(ctx).With("run_id", r.runID)
	ctx = logging.NewContext(ctx, logger)
	logger.Debug("starting validation run", "targets", len(targets))

	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, errors.Wrap(err, "validation run interrupted")
		}

		res := r.Validate(ctx, target)
		summary.add(res)
		if res.reportErr != nil {
			summary.Duration = time.Since(start)
			return summary, errors.Wrap(res.reportErr, "writing report")
		}
	}

	summary.Duration = time.Since(start)
	logger.Info("validation run finished",
		"targets", summary.Targets,
		"clean", summary.Clean,
		"invalid", summary.Invalid,
		"failed", summary.Failed,
		"errors", summary.TotalErrors,
		"duration", summary.Duration,
	)
	return summary, nil
}

// Validate opens path, enumerates its findings into the sink and closes the
// package again.
func (r *Runner) Validate(ctx context.Context, path string) *TargetResult {
	start := time.Now()
	res := &TargetResult{Path: path}

	ctx, span := r.tracer.Start(ctx, "docxval.validate",
		trace.WithAttributes(attribute.String("docxval.target", path)))
	defer span.End()

	logger := logging.FromContext(ctx).With("target", path)

	res.report(r.sink.StartTarget(path))

	if err := r.validate(ctx, res); err != nil {
		res.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("target failed", "error", err)
		res.report(r.sink.Failure(path, err))
	} else {
		res.report(r.sink.EndTarget(path, res.Count))
	}

	res.Duration = time.Since(start)
	span.SetAttributes(
		attribute.Int("docxval.errors", res.Count),
		attribute.String("docxval.outcome", res.Outcome()),
	)
	if r.metrics != nil {
		r.metrics.ObserveTarget(res.Outcome(), start)
	}
	logger.Debug("target validated", "errors", res.Count, "outcome", res.Outcome(), "duration", res.Duration)

	return res
}

func (r *Runner) validate(ctx context.Context, res *TargetResult) (err error) {
	pkg, err := opc.Open(res.Path, r.openOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := pkg.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "closing package")
		}
	}()

	for e := range r.engine.Validate(ctx, pkg) {
		res.Count++
		res.Errors = append(res.Errors, e)
		if r.metrics != nil {
			r.metrics.IncrementValidationError(e.ErrorType)
		}
		if werr := r.sink.Error(res.Count, e); werr != nil {
			res.report(werr)
			break
		}
	}

	if cerr := ctx.Err(); cerr != nil {
		return errors.Wrap(cerr, "validation interrupted")
	}
	return nil
}

// report keeps the first sink error.
func (r *TargetResult) report(err error) {
	if err != nil && r.reportErr == nil {
		r.reportErr = err
	}
}
