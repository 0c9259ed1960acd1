package ooxml

import (
	"strconv"
	"strings"

	"github.com/agentflare-ai/go-xmldom"
)

// Namespaces referenced by the rules.
const (
	NSWordprocessingML    = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NSRelationships       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSMarkupCompatibility = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	nsXMLNS               = "http://www.w3.org/2000/xmlns/"
)

// prefixes maps namespace URIs to the prefixes used in Node and Path, so
// that reported names do not depend on the prefixes chosen by the producer.
var prefixes = map[string]string{
	NSWordprocessingML:                                                          "w",
	NSRelationships:                                                             "r",
	NSMarkupCompatibility:                                                       "mc",
	"http://schemas.openxmlformats.org/officeDocument/2006/math":                "m",
	"http://schemas.openxmlformats.org/drawingml/2006/main":                     "a",
	"http://schemas.openxmlformats.org/drawingml/2006/picture":                  "pic",
	"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing":    "wp",
	"http://schemas.microsoft.com/office/word/2010/wordml":                      "w14",
	"http://schemas.microsoft.com/office/word/2012/wordml":                      "w15",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingShape":         "wps",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingGroup":         "wpg",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas":        "wpc",
	"urn:schemas-microsoft-com:vml":                                             "v",
	"urn:schemas-microsoft-com:office:office":                                   "o",
	"urn:schemas-microsoft-com:office:word":                                     "w10",
	"http://schemas.openxmlformats.org/package/2006/relationships":              "",
	"http://schemas.openxmlformats.org/officeDocument/2006/custom-properties":   "op",
	"http://schemas.openxmlformats.org/package/2006/metadata/core-properties":   "cp",
	"http://schemas.openxmlformats.org/officeDocument/2006/extended-properties": "ep",
	"http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes":      "vt",
	"http://purl.org/dc/elements/1.1/":                                          "dc",
}

// qname is a namespace-qualified element or attribute name.
type qname struct {
	space string
	local string
}

func (q qname) String() string {
	prefix, ok := prefixes[q.space]
	if !ok || prefix == "" {
		return q.local
	}
	return prefix + ":" + q.local
}

func nameOf(e xmldom.Element) qname {
	return qname{space: string(e.NamespaceURI()), local: string(e.LocalName())}
}

// isW reports whether e is the WordprocessingML element local.
func isW(e xmldom.Element, local string) bool {
	return string(e.LocalName()) == local && string(e.NamespaceURI()) == NSWordprocessingML
}

// node is an element visited by walk, with its position in the tree.
type node struct {
	el     xmldom.Element
	name   qname
	path   string
	parent *node
	depth  int
}

// attr returns the value of the attribute space:local on the node.
func (n *node) attr(space, local string) (string, bool) {
	return attrNS(n.el, space, local)
}

// wVal returns the w:val attribute.
func (n *node) wVal() (string, bool) {
	return attrNS(n.el, NSWordprocessingML, "val")
}

func (n *node) position() (line, col int) {
	line, col, _ = n.el.Position()
	return line, col
}

// children returns the element children of the node with their paths.
func (n *node) children() []*node {
	list := n.el.Children()
	out := make([]*node, 0, list.Length())
	counts := make(map[qname]int)
	for i := uint(0); i < list.Length(); i++ {
		c := list.Item(i)
		if c == nil {
			continue
		}
		name := nameOf(c)
		counts[name]++
		out = append(out, &node{
			el:     c,
			name:   name,
			path:   n.path + "/" + name.String() + "[" + strconv.Itoa(counts[name]) + "]",
			parent: n,
			depth:  n.depth + 1,
		})
	}
	return out
}

func rootNode(root xmldom.Element) *node {
	name := nameOf(root)
	return &node{el: root, name: name, path: "/" + name.String() + "[1]"}
}

// walk visits root and its descendants in document order. It stops when
// visit returns false and reports whether the walk completed.
func walk(root xmldom.Element, visit func(*node) bool) bool {
	if root == nil {
		return true
	}
	return walkNode(rootNode(root), visit)
}

func walkNode(n *node, visit func(*node) bool) bool {
	if !visit(n) {
		return false
	}
	for _, c := range n.children() {
		if !walkNode(c, visit) {
			return false
		}
	}
	return true
}

// attrNS returns the value of the attribute with the given namespace and
// local name. An empty space matches unqualified attributes.
func attrNS(e xmldom.Element, space, local string) (string, bool) {
	attrs := e.Attributes()
	for i := uint(0); i < attrs.Length(); i++ {
		a := attrs.Item(i)
		if a == nil {
			continue
		}
		if string(a.LocalName()) == local && string(a.NamespaceURI()) == space {
			return string(a.NodeValue()), true
		}
	}
	return "", false
}

// attribute is a non-declaration attribute of an element.
type attribute struct {
	name  qname
	value string
}

// attributes returns the attributes of e, skipping namespace declarations.
func attributes(e xmldom.Element) []attribute {
	attrs := e.Attributes()
	out := make([]attribute, 0, attrs.Length())
	for i := uint(0); i < attrs.Length(); i++ {
		a := attrs.Item(i)
		if a == nil {
			continue
		}
		if _, isDecl := declaredPrefix(string(a.NodeName()), string(a.NamespaceURI()), string(a.LocalName())); isDecl {
			continue
		}
		out = append(out, attribute{
			name:  qname{space: string(a.NamespaceURI()), local: string(a.LocalName())},
			value: string(a.NodeValue()),
		})
	}
	return out
}

// declaredPrefix inspects an attribute and, when it is a namespace
// declaration, returns the prefix it declares ("" for a default namespace).
func declaredPrefix(nodeName, space, local string) (string, bool) {
	if nodeName == "xmlns" {
		return "", true
	}
	if p, ok := strings.CutPrefix(nodeName, "xmlns:"); ok {
		return p, true
	}
	if space == nsXMLNS || space == "xmlns" {
		if local == "xmlns" {
			return "", true
		}
		return local, true
	}
	return "", false
}

// declarations returns the prefixes declared directly on e.
func declarations(e xmldom.Element) []string {
	attrs := e.Attributes()
	var out []string
	for i := uint(0); i < attrs.Length(); i++ {
		a := attrs.Item(i)
		if a == nil {
			continue
		}
		if p, ok := declaredPrefix(string(a.NodeName()), string(a.NamespaceURI()), string(a.LocalName())); ok && p != "" {
			out = append(out, p)
		}
	}
	return out
}
