// Package opctest builds .docx packages on disk for tests.
package opctest

import (
	"archive/zip"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// Namespace declarations used by the fixtures.
const (
	NSW = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`
	NSR = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const packageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="https://example.com/" TargetMode="External"/>
</Relationships>`

const styles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles ` + NSW + `>
  <w:style w:type="paragraph" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
  <w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>
</w:styles>`

// DefaultBody is the body of the document part produced by Minimal.
const DefaultBody = `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Title</w:t></w:r></w:p>` +
	`<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Hello</w:t></w:r></w:p>` +
	`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/></w:sectPr>`

// Document wraps body markup in a w:document part.
func Document(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + NSW + ` ` + NSR + `><w:body>` + body + `</w:body></w:document>`
}

// Minimal returns the entries of a small, valid WordprocessingML package.
// Callers may modify the returned map before writing it.
func Minimal() map[string]string {
	return map[string]string{
		"[Content_Types].xml":          contentTypes,
		"_rels/.rels":                  packageRels,
		"word/document.xml":            Document(DefaultBody),
		"word/_rels/document.xml.rels": documentRels,
		"word/styles.xml":              styles,
	}
}

// Write stores files as a zip archive named name inside a temp directory and
// returns its path. Entries are written in sorted order.
func Write(t testing.TB, name string, files map[string]string) string {
	t.Helper()
	return WriteTo(t, t.TempDir(), name, files)
}

// WriteTo is like Write but places the archive in dir.
func WriteTo(t testing.TB, dir, name string, files map[string]string) string {
	t.Helper()

	entries := make([]Entry, 0, len(files))
	for _, n := range slices.Sorted(maps.Keys(files)) {
		entries = append(entries, Entry{Name: n, Body: files[n]})
	}
	return WriteEntries(t, dir, name, entries)
}

// Entry is one zip item written by WriteEntries.
type Entry struct {
	Name string
	Body string
}

// WriteEntries writes entries in the given order, repeated names included,
// as a zip archive named name inside dir and returns its path.
func WriteEntries(t testing.TB, dir, name string, entries []Entry) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, entry := range entries {
		w, err := zw.Create(entry.Name)
		if err != nil {
			t.Fatalf("creating entry %s: %v", entry.Name, err)
		}
		if _, err := w.Write([]byte(entry.Body)); err != nil {
			t.Fatalf("writing entry %s: %v", entry.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return path
}
