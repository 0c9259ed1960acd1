package ooxml

import (
	"github.com/thoreinstein/docxval/internal/opc"
	"github.com/thoreinstein/docxval/internal/validator"
)

var semanticRules = []Rule{
	&RuleFunc{"SEM001", validator.ErrorTypeSemantic, "Relationship references resolve in the part's relationships", checkRelationshipReferences},
	&RuleFunc{"SEM002", validator.ErrorTypeSemantic, "Style references name defined styles", checkStyleReferences},
	&RuleFunc{"SEM003", validator.ErrorTypeSemantic, "Numbering references name defined numbering instances", checkNumberingReferences},
	&RuleFunc{"SEM004", validator.ErrorTypeSemantic, "Bookmark ids are unique within a part", checkDuplicateBookmarks},
	&RuleFunc{"SEM005", validator.ErrorTypeSemantic, "Every bookmark end has a matching bookmark start", checkUnmatchedBookmarkEnds},
}

// relationshipAttributes are the r: attributes that hold relationship ids.
var relationshipAttributes = set("id embed link")

func checkRelationshipReferences(c *Context, emit Emit) bool {
	for _, d := range c.documents() {
		rels, err := c.pkg.Relationships(d.Part)
		if err != nil {
			// Reported by PKG007.
			continue
		}
		ok := walk(d.Root(), func(n *node) bool {
			for _, a := range attributes(n.el) {
				if a.name.space != NSRelationships || !relationshipAttributes[a.name.local] || a.value == "" {
					continue
				}
				if _, found := rels.ByID(a.value); found {
					continue
				}
				if !emit(elementError(d, n, "The relationship '%s' referenced by attribute '%s' does not exist.", a.value, a.name)) {
					return false
				}
			}
			return true
		})
		if !ok {
			return false
		}
	}
	return true
}

// styleReferences maps style reference elements to the style kind they
// name, for messages.
var styleReferences = map[string]string{
	"pStyle":   "paragraph",
	"rStyle":   "character",
	"tblStyle": "table",
}

func checkStyleReferences(c *Context, emit Emit) bool {
	for _, d := range c.storyDocuments() {
		ok := walk(d.Root(), func(n *node) bool {
			kind, isRef := styleReferences[n.name.local]
			if !isRef || n.name.space != NSWordprocessingML {
				return true
			}
			id, ok := n.wVal()
			if !ok || c.definedStyles()[id] {
				return true
			}
			return emit(elementError(d, n, "The %s style '%s' is not defined.", kind, id))
		})
		if !ok {
			return false
		}
	}
	return true
}

func checkNumberingReferences(c *Context, emit Emit) bool {
	for _, d := range c.storyDocuments() {
		ok := walk(d.Root(), func(n *node) bool {
			if !isW(n.el, "numId") {
				return true
			}
			id, ok := n.wVal()
			if !ok || id == "0" || c.definedNumbering()[id] {
				return true
			}
			return emit(elementError(d, n, "The numbering instance '%s' is not defined.", id))
		})
		if !ok {
			return false
		}
	}
	return true
}

func checkDuplicateBookmarks(c *Context, emit Emit) bool {
	for _, d := range c.storyDocuments() {
		seen := make(map[string]bool)
		ok := walk(d.Root(), func(n *node) bool {
			if !isW(n.el, "bookmarkStart") {
				return true
			}
			id, ok := n.attr(NSWordprocessingML, "id")
			if !ok {
				return true
			}
			if seen[id] {
				if !emit(elementError(d, n, "The bookmark id '%s' is used by more than one bookmark.", id)) {
					return false
				}
			}
			seen[id] = true
			return true
		})
		if !ok {
			return false
		}
	}
	return true
}

func checkUnmatchedBookmarkEnds(c *Context, emit Emit) bool {
	for _, d := range c.storyDocuments() {
		starts := bookmarkStarts(d)
		ok := walk(d.Root(), func(n *node) bool {
			if !isW(n.el, "bookmarkEnd") {
				return true
			}
			id, ok := n.attr(NSWordprocessingML, "id")
			if !ok || starts[id] {
				return true
			}
			return emit(elementError(d, n, "The bookmark end '%s' has no matching bookmark start.", id))
		})
		if !ok {
			return false
		}
	}
	return true
}

func bookmarkStarts(d *opc.Document) map[string]bool {
	starts := make(map[string]bool)
	walk(d.Root(), func(n *node) bool {
		if isW(n.el, "bookmarkStart") {
			if id, ok := n.attr(NSWordprocessingML, "id"); ok {
				starts[id] = true
			}
		}
		return true
	})
	return starts
}
