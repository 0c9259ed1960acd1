package opc

import (
	"path"
	"strings"

	"github.com/cockroachdb/errors"
)

// ContentTypesNamespace is the namespace of the content type map.
const ContentTypesNamespace = "http://schemas.openxmlformats.org/package/2006/content-types"

// Override maps one part name to a content type.
type Override struct {
	PartName    string
	ContentType string
}

// ContentTypes is the parsed [Content_Types].xml map.
type ContentTypes struct {
	// Defaults maps a lowercase extension (without dot) to a content type.
	Defaults map[string]string

	// Overrides lists the Override entries in document order.
	Overrides []Override

	byPart map[string]string
}

// ParseContentTypes parses the content type map.
func ParseContentTypes(data []byte) (*ContentTypes, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing content types")
	}

	root := doc.DocumentElement()
	if string(root.LocalName()) != "Types" || string(root.NamespaceURI()) != ContentTypesNamespace {
		return nil, errors.Newf("parsing content types: unexpected root element %q", string(root.LocalName()))
	}

	ct := &ContentTypes{
		Defaults: make(map[string]string),
		byPart:   make(map[string]string),
	}
	for _, e := range children(root) {
		switch string(e.LocalName()) {
		case "Default":
			ext, _ := attrValue(e, "Extension")
			typ, _ := attrValue(e, "ContentType")
			if ext != "" {
				ct.Defaults[strings.ToLower(ext)] = typ
			}
		case "Override":
			name, _ := attrValue(e, "PartName")
			typ, _ := attrValue(e, "ContentType")
			if name == "" {
				continue
			}
			ct.Overrides = append(ct.Overrides, Override{PartName: name, ContentType: typ})
			ct.byPart[strings.ToLower(NormalizePartName(name))] = typ
		}
	}
	return ct, nil
}

// Lookup resolves the content type of a part name: an Override matches
// case-insensitively after NormalizePartName, otherwise the Default of the
// extension applies.
func (c *ContentTypes) Lookup(partName string) string {
	if c == nil {
		return ""
	}
	if typ, ok := c.byPart[strings.ToLower(NormalizePartName(partName))]; ok {
		return typ
	}
	ext := strings.TrimPrefix(path.Ext(partName), ".")
	return c.Defaults[strings.ToLower(ext)]
}
