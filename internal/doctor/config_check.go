package doctor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/thoreinstein/docxval/internal/config"
	"github.com/thoreinstein/docxval/internal/errors"
	"github.com/thoreinstein/docxval/internal/ooxml"
)

// ConfigValuesCheck reports configuration that failed to load or validate.
type ConfigValuesCheck struct {
	loadErr error
}

var _ Check = (*ConfigValuesCheck)(nil)

// NewConfigValuesCheck creates a check for the outcome of config.Load.
func NewConfigValuesCheck(loadErr error) *ConfigValuesCheck {
	return &ConfigValuesCheck{loadErr: loadErr}
}

// Name returns the unique identifier for this check.
func (c *ConfigValuesCheck) Name() string {
	return "config-values"
}

// Category returns the grouping for this check.
func (c *ConfigValuesCheck) Category() string {
	return "config"
}

// Run reports the load error, listing every invalid field.
func (c *ConfigValuesCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Message:  "configuration is valid",
	}
	if c.loadErr == nil {
		return result
	}

	result.Status = SeverityError
	result.FixHint = "fix the listed keys or regenerate the file with: docxval config init --force"

	var verr *config.ValidationError
	if !errors.As(c.loadErr, &verr) {
		result.Message = c.loadErr.Error()
		return result
	}

	fields := make([]string, 0, len(verr.Errs))
	for _, e := range verr.Errs {
		fields = append(fields, e.Error())
	}
	result.Message = fmt.Sprintf("%d invalid configuration value(s)", len(fields))
	result.Details = map[string]any{"fields": fields}
	return result
}

// DisabledRulesCheck warns about disabled rule ids that name no rule.
type DisabledRulesCheck struct {
	disabled []string
}

var _ Check = (*DisabledRulesCheck)(nil)

// NewDisabledRulesCheck creates a check for the configured disabled_rules.
func NewDisabledRulesCheck(disabled []string) *DisabledRulesCheck {
	return &DisabledRulesCheck{disabled: disabled}
}

// Name returns the unique identifier for this check.
func (c *DisabledRulesCheck) Name() string {
	return "disabled-rules"
}

// Category returns the grouping for this check.
func (c *DisabledRulesCheck) Category() string {
	return "rules"
}

// Run compares the disabled ids with the rule registry.
func (c *DisabledRulesCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
	}

	unknown := ooxml.New(ooxml.WithDisabledRules(c.disabled...)).UnknownRules()
	slices.Sort(unknown)

	switch {
	case len(unknown) > 0:
		result.Status = SeverityWarning
		result.Message = "unknown rule id(s): " + strings.Join(unknown, ", ")
		result.Details = map[string]any{"unknown": unknown}
		result.FixHint = "run 'docxval rules' for the list of rule ids"
	case len(c.disabled) > 0:
		result.Message = fmt.Sprintf("%d rule(s) disabled", len(c.disabled))
	default:
		result.Message = "all rules enabled"
	}
	return result
}
