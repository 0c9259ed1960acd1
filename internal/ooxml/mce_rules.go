package ooxml

import (
	"strings"

	"github.com/thoreinstein/docxval/internal/opc"
	"github.com/thoreinstein/docxval/internal/validator"
)

var mceRules = []Rule{
	&RuleFunc{"MCE001", validator.ErrorTypeMarkupCompatibility, "Prefixes listed in mc:Ignorable are declared", checkIgnorablePrefixes},
	&RuleFunc{"MCE002", validator.ErrorTypeMarkupCompatibility, "mc:AlternateContent has mc:Choice children with Requires", checkAlternateContent},
}

func checkIgnorablePrefixes(c *Context, emit Emit) bool {
	for _, d := range c.documents() {
		if !checkIgnorableScope(d, rootNode(d.Root()), map[string]bool{"xml": true}, emit) {
			return false
		}
	}
	return true
}

// checkIgnorableScope walks n with the prefixes declared by its ancestors
// in scope.
func checkIgnorableScope(d *opc.Document, n *node, inScope map[string]bool, emit Emit) bool {
	declared := declarations(n.el)
	if len(declared) > 0 {
		scope := make(map[string]bool, len(inScope)+len(declared))
		for p := range inScope {
			scope[p] = true
		}
		for _, p := range declared {
			scope[p] = true
		}
		inScope = scope
	}

	if ignorable, ok := n.attr(NSMarkupCompatibility, "Ignorable"); ok {
		for _, prefix := range strings.Fields(ignorable) {
			if inScope[prefix] {
				continue
			}
			if !emit(elementError(d, n, "The prefix '%s' listed in mc:Ignorable is not declared.", prefix)) {
				return false
			}
		}
	}

	for _, child := range n.children() {
		if !checkIgnorableScope(d, child, inScope, emit) {
			return false
		}
	}
	return true
}

func checkAlternateContent(c *Context, emit Emit) bool {
	for _, d := range c.documents() {
		ok := walk(d.Root(), func(n *node) bool {
			if n.name.space != NSMarkupCompatibility || n.name.local != "AlternateContent" {
				return true
			}
			choices := 0
			for _, child := range n.children() {
				if child.name.space != NSMarkupCompatibility || child.name.local != "Choice" {
					continue
				}
				choices++
				if requires, ok := child.attr("", "Requires"); !ok || strings.TrimSpace(requires) == "" {
					if !emit(elementError(d, child, "The element 'mc:Choice' is missing the Requires attribute.")) {
						return false
					}
				}
			}
			if choices == 0 {
				return emit(elementError(d, n, "The element 'mc:AlternateContent' has no mc:Choice child."))
			}
			return true
		})
		if !ok {
			return false
		}
	}
	return true
}
