package ooxml

import (
	"context"

	"github.com/thoreinstein/docxval/internal/opc"
	"github.com/thoreinstein/docxval/internal/validator"
)

// Emit hands a finding to the consumer. It returns false when the rule
// must stop producing findings.
type Emit func(validator.ErrorInfo) bool

// Rule is the interface that validation rules must implement.
type Rule interface {
	// ID returns the unique identifier for this rule, such as "SCH002".
	ID() string

	// Category returns the error type of every finding the rule emits.
	Category() validator.ErrorType

	// Description summarizes what the rule checks.
	Description() string

	// Check runs the rule against the package in c. It returns false when
	// emit asked it to stop.
	Check(c *Context, emit Emit) bool
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc struct {
	RuleID          string
	RuleCategory    validator.ErrorType
	RuleDescription string
	Fn              func(c *Context, emit Emit) bool
}

// ID implements Rule.
func (r *RuleFunc) ID() string { return r.RuleID }

// Category implements Rule.
func (r *RuleFunc) Category() validator.ErrorType { return r.RuleCategory }

// Description implements Rule.
func (r *RuleFunc) Description() string { return r.RuleDescription }

// Check implements Rule.
func (r *RuleFunc) Check(c *Context, emit Emit) bool { return r.Fn(c, emit) }

// DefaultRules returns the built-in registry in execution order.
func DefaultRules() []Rule {
	rules := make([]Rule, 0, len(packageRules)+len(schemaRules)+len(semanticRules)+len(mceRules))
	rules = append(rules, packageRules...)
	rules = append(rules, schemaRules...)
	rules = append(rules, semanticRules...)
	rules = append(rules, mceRules...)
	return rules
}

// Context carries the package under validation and lazily computed lookup
// tables shared between rules.
type Context struct {
	ctx context.Context
	pkg *opc.Package

	styles    map[string]bool
	numbering map[string]bool
}

// NewContext returns a rule context for pkg. The package must have been
// decoded.
func NewContext(ctx context.Context, pkg *opc.Package) *Context {
	return &Context{ctx: ctx, pkg: pkg}
}

// Context returns the context of the validation run.
func (c *Context) Context() context.Context {
	return c.ctx
}

// Package returns the package under validation.
func (c *Context) Package() *opc.Package {
	return c.pkg
}

// documents returns the decoded, well-formed XML parts in URI order.
func (c *Context) documents() []*opc.Document {
	var out []*opc.Document
	for _, d := range c.pkg.Documents() {
		if d.Err == nil && d.Root() != nil {
			out = append(out, d)
		}
	}
	return out
}

// storyDocuments returns the well-formed WordprocessingML story parts:
// the main document, headers, footers, notes and comments.
func (c *Context) storyDocuments() []*opc.Document {
	var out []*opc.Document
	for _, d := range c.documents() {
		part, ok := c.pkg.Part(d.Part)
		if !ok {
			continue
		}
		if isStoryContentType(part.ContentType) || d.Part == c.pkg.MainDocument() {
			out = append(out, d)
		}
	}
	return out
}

// relatedDocument returns the decoded target of the first relationship of
// relType whose source is the main document.
func (c *Context) relatedDocument(relType string) (*opc.Document, bool) {
	main := c.pkg.MainDocument()
	rels, err := c.pkg.Relationships(main)
	if err != nil {
		return nil, false
	}
	for _, r := range rels.Items {
		if r.Type != relType || r.External() {
			continue
		}
		d, ok := c.pkg.Document(opc.ResolveTarget(main, r.Target))
		if ok && d.Err == nil && d.Root() != nil {
			return d, true
		}
	}
	return nil, false
}

// definedStyles returns the style ids declared by the styles part.
func (c *Context) definedStyles() map[string]bool {
	if c.styles != nil {
		return c.styles
	}
	c.styles = make(map[string]bool)
	if d, ok := c.relatedDocument(RelTypeStyles); ok {
		walk(d.Root(), func(n *node) bool {
			if n.name.space == NSWordprocessingML && n.name.local == "style" {
				if id, ok := n.attr(NSWordprocessingML, "styleId"); ok {
					c.styles[id] = true
				}
			}
			return true
		})
	}
	return c.styles
}

// definedNumbering returns the numbering instance ids declared by the
// numbering part.
func (c *Context) definedNumbering() map[string]bool {
	if c.numbering != nil {
		return c.numbering
	}
	c.numbering = make(map[string]bool)
	if d, ok := c.relatedDocument(RelTypeNumbering); ok {
		for _, n := range rootNode(d.Root()).children() {
			if n.name.space == NSWordprocessingML && n.name.local == "num" {
				if id, ok := n.attr(NSWordprocessingML, "numId"); ok {
					c.numbering[id] = true
				}
			}
		}
	}
	return c.numbering
}

// RuleInfo describes a registered rule.
type RuleInfo struct {
	ID          string              `json:"id" yaml:"id"`
	Category    validator.ErrorType `json:"category" yaml:"category"`
	Description string              `json:"description" yaml:"description"`
	Enabled     bool                `json:"enabled" yaml:"enabled"`
}
