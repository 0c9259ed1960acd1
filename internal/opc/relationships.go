package opc

import (
	"path"
	"strings"

	"github.com/cockroachdb/errors"
)

// RelationshipsNamespace is the namespace of relationships parts.
const RelationshipsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"

// TargetModeExternal marks a relationship whose target lies outside the
// package.
const TargetModeExternal = "External"

// Relationship is one entry of a relationships part.
type Relationship struct {
	ID         string
	Type       string
	Target     string
	TargetMode string

	// Line is the 1-based line of the entry, 0 when unknown.
	Line int
}

// External reports whether the target lies outside the package.
func (r Relationship) External() bool {
	return strings.EqualFold(r.TargetMode, TargetModeExternal)
}

// Relationships holds the relationships whose source is one part, or the
// package itself when Source is "/".
type Relationships struct {
	Source string

	// Part is the URI of the relationships part.
	Part string

	// Present is false when the package has no relationships part for Source.
	Present bool

	Items []Relationship
}

// ByID returns the relationship with the given Id.
func (r *Relationships) ByID(id string) (Relationship, bool) {
	if r == nil {
		return Relationship{}, false
	}
	for _, rel := range r.Items {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// RelationshipsPartName returns the URI of the relationships part for a
// source part: "/word/document.xml" maps to "/word/_rels/document.xml.rels"
// and the package source "/" maps to "/_rels/.rels".
func RelationshipsPartName(source string) string {
	if source == "" || source == "/" {
		return "/_rels/.rels"
	}
	dir, file := path.Split(source)
	return path.Join(dir, "_rels", file+".rels")
}

// SourcePartName is the inverse of RelationshipsPartName. It reports false
// when name is not a relationships part name.
func SourcePartName(name string) (string, bool) {
	dir, file := path.Split(name)
	if !strings.HasSuffix(file, ".rels") || path.Base(dir) != "_rels" {
		return "", false
	}
	if file == ".rels" && dir == "/_rels/" {
		return "/", true
	}
	src := strings.TrimSuffix(file, ".rels")
	if src == "" {
		return "", false
	}
	return path.Join(path.Dir(strings.TrimSuffix(dir, "/")), src), true
}

// ResolveTarget resolves a relationship target against its source part and
// returns an absolute part URI in the form NormalizePartName produces.
// Fragments are dropped.
func ResolveTarget(source, target string) string {
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}
	target = unescapePartName(target)

	if strings.HasPrefix(target, "/") {
		return path.Clean(target)
	}
	base := "/"
	if source != "" && source != "/" {
		base = path.Dir(source)
	}
	return path.Join(base, target)
}

// Relationships returns the parsed relationships of source. A missing
// relationships part yields an empty, non-present result. Results are
// cached.
func (p *Package) Relationships(source string) (*Relationships, error) {
	name := RelationshipsPartName(source)

	p.mu.Lock()
	if e, ok := p.rels[name]; ok {
		p.mu.Unlock()
		return e.rels, e.err
	}
	p.mu.Unlock()

	rels, err := p.readRelationships(source, name)

	p.mu.Lock()
	p.rels[name] = &relsEntry{rels: rels, err: err}
	p.mu.Unlock()

	return rels, err
}

func (p *Package) readRelationships(source, name string) (*Relationships, error) {
	rels := &Relationships{Source: source, Part: name}

	part, ok := p.parts[name]
	if !ok {
		return rels, nil
	}
	rels.Present = true

	data, err := part.Bytes()
	if err != nil {
		return rels, err
	}
	items, err := ParseRelationships(data)
	if err != nil {
		return rels, errors.Wrapf(err, "parsing %s", name)
	}
	rels.Items = items
	return rels, nil
}

// ParseRelationships parses the entries of a relationships part. Entries
// missing Id, Type or Target are returned as-is so callers can report them.
func ParseRelationships(data []byte) ([]Relationship, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}

	root := doc.DocumentElement()
	if string(root.LocalName()) != "Relationships" || string(root.NamespaceURI()) != RelationshipsNamespace {
		return nil, errors.Newf("unexpected root element %q", string(root.LocalName()))
	}

	var items []Relationship
	for _, e := range children(root) {
		if string(e.LocalName()) != "Relationship" {
			continue
		}
		var rel Relationship
		rel.ID, _ = attrValue(e, "Id")
		rel.Type, _ = attrValue(e, "Type")
		rel.Target, _ = attrValue(e, "Target")
		rel.TargetMode, _ = attrValue(e, "TargetMode")
		rel.Line, _, _ = e.Position()
		items = append(items, rel)
	}
	return items, nil
}
