package ooxml

import (
	"context"
	"iter"
	"slices"

	"github.com/thoreinstein/docxval/internal/logging"
	"github.com/thoreinstein/docxval/internal/opc"
	"github.com/thoreinstein/docxval/internal/validator"
)

// DefaultMaxErrors is the number of findings after which validation stops.
const DefaultMaxErrors = 1000

// Validator runs a rule registry against packages.
type Validator struct {
	rules     []Rule
	disabled  map[string]bool
	maxErrors int
	workers   int
}

// Option configures a Validator.
type Option func(*Validator)

// WithMaxErrors caps the number of findings per package. Zero disables the
// cap.
func WithMaxErrors(n int) Option {
	return func(v *Validator) {
		if n >= 0 {
			v.maxErrors = n
		}
	}
}

// WithDisabledRules skips the rules with the given IDs.
func WithDisabledRules(ids ...string) Option {
	return func(v *Validator) {
		for _, id := range ids {
			v.disabled[id] = true
		}
	}
}

// WithWorkers bounds the number of parts decoded concurrently. Zero means
// one per CPU.
func WithWorkers(n int) Option {
	return func(v *Validator) {
		v.workers = n
	}
}

// WithRules replaces the default registry.
func WithRules(rules ...Rule) Option {
	return func(v *Validator) {
		v.rules = rules
	}
}

// New creates a Validator over the default registry.
func New(opts ...Option) *Validator {
	v := &Validator{
		rules:     DefaultRules(),
		disabled:  make(map[string]bool),
		maxErrors: DefaultMaxErrors,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Rules lists the registry in execution order.
func (v *Validator) Rules() []RuleInfo {
	out := make([]RuleInfo, 0, len(v.rules))
	for _, r := range v.rules {
		out = append(out, RuleInfo{
			ID:          r.ID(),
			Category:    r.Category(),
			Description: r.Description(),
			Enabled:     !v.disabled[r.ID()],
		})
	}
	return out
}

// UnknownRules returns the disabled IDs that name no registered rule,
// sorted.
func (v *Validator) UnknownRules() []string {
	known := make(map[string]bool, len(v.rules))
	for _, r := range v.rules {
		known[r.ID()] = true
	}
	var unknown []string
	for id := range v.disabled {
		if !known[id] {
			unknown = append(unknown, id)
		}
	}
	slices.Sort(unknown)
	return unknown
}

// Validate returns the findings for pkg as a lazy sequence. Rules run in
// registry order when the sequence is iterated. Iteration ends when every
// rule has run, the consumer stops, the error cap is reached or ctx is
// done.
func (v *Validator) Validate(ctx context.Context, pkg *opc.Package) iter.Seq[validator.ErrorInfo] {
	return func(yield func(validator.ErrorInfo) bool) {
		logger := logging.FromContext(ctx)

		if err := pkg.Decode(ctx, v.workers); err != nil {
			logger.Debug("decoding parts failed", "error", err)
			return
		}

		c := NewContext(ctx, pkg)
		emitted := 0
		stopped := false

		emit := func(e validator.ErrorInfo) bool {
			if stopped {
				return false
			}
			if ctx.Err() != nil {
				stopped = true
				return false
			}
			if !yield(e) {
				stopped = true
				return false
			}
			emitted++
			if v.maxErrors > 0 && emitted >= v.maxErrors {
				logger.Debug("error limit reached", "max_errors", v.maxErrors)
				stopped = true
				return false
			}
			return true
		}

		for _, r := range v.rules {
			if v.disabled[r.ID()] {
				continue
			}
			if ctx.Err() != nil {
				return
			}

			before := emitted
			r.Check(c, func(e validator.ErrorInfo) bool {
				e.ID = r.ID()
				e.ErrorType = r.Category()
				return emit(e)
			})
			logger.Log(ctx, logging.LevelTrace, "rule finished", "rule", r.ID(), "errors", emitted-before)

			if stopped {
				return
			}
		}
	}
}
