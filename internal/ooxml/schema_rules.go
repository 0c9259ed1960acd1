package ooxml

import (
	"fmt"
	"path"
	"regexp"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/docxval/internal/opc"
	"github.com/thoreinstein/docxval/internal/validator"
	"github.com/thoreinstein/docxval/pkg/fileutil"
)

var schemaRules = []Rule{
	&RuleFunc{"SCH001", validator.ErrorTypeSchema, "XML parts are well-formed", checkWellFormed},
	&RuleFunc{"SCH002", validator.ErrorTypeSchema, "Elements appear only where their parent allows them", checkContentModels},
	&RuleFunc{"SCH003", validator.ErrorTypeSchema, "Property elements come first and w:sectPr comes last in w:body", checkElementOrder},
	&RuleFunc{"SCH004", validator.ErrorTypeSchema, "Required child elements are present", checkRequiredChildren},
	&RuleFunc{"SCH005", validator.ErrorTypeSchema, "Required attributes are present", checkRequiredAttributes},
	&RuleFunc{"SCH006", validator.ErrorTypeSchema, "Attribute values match their types", checkAttributeValues},
	&RuleFunc{"SCH007", validator.ErrorTypeSchema, "Parts have the root element their content type requires", checkRootElements},
}

var (
	hpsMeasure = regexp.MustCompile(`^(\d+|\d+(\.\d+)?(mm|cm|in|pt|pc|pi))$`)
	hexColor   = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)
	decimal    = regexp.MustCompile(`^-?\d+$`)
)

// elementError builds a finding located at n inside d.
func elementError(d *opc.Document, n *node, format string, args ...any) validator.ErrorInfo {
	line, col := n.position()
	return validator.ErrorInfo{
		Description: fmt.Sprintf(format, args...),
		Node:        n.name.String(),
		Path:        n.path,
		Part:        d.Part,
		Line:        line,
		Column:      col,
	}
}

// wmlDocuments returns the well-formed parts whose root element is in the
// WordprocessingML namespace.
func (c *Context) wmlDocuments() []*opc.Document {
	var out []*opc.Document
	for _, d := range c.documents() {
		if string(d.Root().NamespaceURI()) == NSWordprocessingML {
			out = append(out, d)
		}
	}
	return out
}

// walkW visits every w: element of every WordprocessingML part.
func (c *Context) walkW(visit func(d *opc.Document, n *node) bool) bool {
	for _, d := range c.wmlDocuments() {
		ok := walk(d.Root(), func(n *node) bool {
			if c.ctx.Err() != nil {
				return false
			}
			if n.name.space != NSWordprocessingML {
				return true
			}
			return visit(d, n)
		})
		if !ok {
			return false
		}
	}
	return true
}

// wChildren returns the w: children of n.
func wChildren(n *node) []*node {
	var out []*node
	for _, c := range n.children() {
		if c.name.space == NSWordprocessingML {
			out = append(out, c)
		}
	}
	return out
}

func checkWellFormed(c *Context, emit Emit) bool {
	for _, d := range c.pkg.Documents() {
		if d.Err == nil || path.Ext(d.Part) == ".rels" {
			continue
		}
		e := packageError(d.Part, "The part is not a well-formed XML document: %v.", d.Err)
		if errors.Is(d.Err, fileutil.ErrTooLarge) {
			e = packageError(d.Part, "The part could not be read: %v.", d.Err)
		}
		if !emit(e) {
			return false
		}
	}
	return true
}

func checkContentModels(c *Context, emit Emit) bool {
	return c.walkW(func(d *opc.Document, n *node) bool {
		allowed, ok := contentModels[n.name.local]
		if !ok {
			return true
		}
		for _, child := range wChildren(n) {
			if allowed[child.name.local] {
				continue
			}
			if !emit(elementError(d, child, "The element '%s' has unexpected child element '%s'.", n.name, child.name)) {
				return false
			}
		}
		return true
	})
}

func checkElementOrder(c *Context, emit Emit) bool {
	return c.walkW(func(d *opc.Document, n *node) bool {
		if n.name.local == "body" {
			kids := wChildren(n)
			for i, child := range kids {
				if child.name.local == "sectPr" && i != len(kids)-1 {
					if !emit(elementError(d, child, "The element '%s' must be the last child of '%s'.", child.name, n.name)) {
						return false
					}
				}
			}
			return true
		}

		lead, ok := leadingProperties[n.name.local]
		if !ok {
			return true
		}
		for i, child := range wChildren(n) {
			if child.name.local == lead.prop {
				break
			}
			if lead.before[child.name.local] {
				continue
			}
			// Anything else ahead of the property element is out of order.
			for _, later := range wChildren(n)[i+1:] {
				if later.name.local == lead.prop {
					return emit(elementError(d, later, "The element '%s' must be the first child of '%s'.", later.name, n.name))
				}
			}
			break
		}
		return true
	})
}

func checkRequiredChildren(c *Context, emit Emit) bool {
	return c.walkW(func(d *opc.Document, n *node) bool {
		if n.name.local == "tc" {
			for _, child := range wChildren(n) {
				if blockContent[child.name.local] {
					return true
				}
			}
			return emit(elementError(d, n, "The element '%s' must contain at least one block-level element.", n.name))
		}

		required, ok := requiredChildren[n.name.local]
		if !ok {
			return true
		}
		present := make(map[string]bool)
		for _, child := range wChildren(n) {
			present[child.name.local] = true
		}
		for _, local := range required {
			if present[local] {
				continue
			}
			missing := qname{space: NSWordprocessingML, local: local}
			if !emit(elementError(d, n, "The element '%s' is missing required child element '%s'.", n.name, missing)) {
				return false
			}
		}
		return true
	})
}

func checkRequiredAttributes(c *Context, emit Emit) bool {
	return c.walkW(func(d *opc.Document, n *node) bool {
		for _, local := range requiredAttributes[n.name.local] {
			if _, ok := n.attr(NSWordprocessingML, local); ok {
				continue
			}
			attr := qname{space: NSWordprocessingML, local: local}
			if !emit(elementError(d, n, "The required attribute '%s' is missing.", attr)) {
				return false
			}
		}
		return true
	})
}

func checkAttributeValues(c *Context, emit Emit) bool {
	return c.walkW(func(d *opc.Document, n *node) bool {
		val, ok := n.wVal()
		if !ok {
			return true
		}
		if reason := invalidValue(n, val); reason != "" {
			return emit(elementError(d, n, "The attribute 'w:val' has invalid value '%s'. %s", val, reason))
		}
		return true
	})
}

// invalidValue returns why val is not a valid w:val for n, or "" when it
// is valid or unchecked.
func invalidValue(n *node, val string) string {
	local := n.name.local
	switch {
	case local == "jc":
		allowed := paragraphJustification
		if n.parent != nil && (n.parent.name.local == "tblPr" || n.parent.name.local == "trPr") {
			allowed = tableJustification
		}
		if !allowed[val] {
			return "The value is not a valid justification."
		}
	case local == "sz" || local == "szCs":
		if !hpsMeasure.MatchString(val) {
			return "The value must be a non-negative measurement in half-points."
		}
	case local == "color":
		if val != "auto" && !hexColor.MatchString(val) {
			return "The value must be 'auto' or a six digit hexadecimal color."
		}
	case local == "numId" || local == "ilvl":
		if !decimal.MatchString(val) {
			return "The value must be an integer."
		}
	case onOffElements[local]:
		if !onOffValues[val] {
			return "The value must be an on/off value."
		}
	}
	return ""
}

func checkRootElements(c *Context, emit Emit) bool {
	main := c.pkg.MainDocument()
	for _, d := range c.documents() {
		part, ok := c.pkg.Part(d.Part)
		if !ok {
			continue
		}
		want, ok := expectedRoot(part.ContentType, d.Part == main)
		if !ok {
			continue
		}
		root := rootNode(d.Root())
		if root.name.space == NSWordprocessingML && root.name.local == want {
			continue
		}
		expected := qname{space: NSWordprocessingML, local: want}
		if !emit(elementError(d, root, "The root element of the part is '%s', expected '%s'.", root.name, expected)) {
			return false
		}
	}
	return true
}
