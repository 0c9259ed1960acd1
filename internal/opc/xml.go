package opc

import (
	"github.com/agentflare-ai/go-xmldom"
	"github.com/cockroachdb/errors"
)

// decode parses data into a DOM document.
func decode(data []byte) (xmldom.Document, error) {
	doc, err := xmldom.NewDecoderFromBytes(data).Decode()
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.DocumentElement() == nil {
		return nil, errors.New("document has no root element")
	}
	return doc, nil
}

// attrValue returns the value of the unqualified attribute local on e.
func attrValue(e xmldom.Element, local string) (string, bool) {
	attrs := e.Attributes()
	for i := uint(0); i < attrs.Length(); i++ {
		a := attrs.Item(i)
		if a == nil {
			continue
		}
		if string(a.LocalName()) == local && string(a.NamespaceURI()) == "" {
			return string(a.NodeValue()), true
		}
	}
	return "", false
}

// children returns the element children of e.
func children(e xmldom.Element) []xmldom.Element {
	list := e.Children()
	out := make([]xmldom.Element, 0, list.Length())
	for i := uint(0); i < list.Length(); i++ {
		if c := list.Item(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}
