package opc

import (
	"archive/zip"
	"io/fs"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/docxval/pkg/fileutil"
)

// ContentTypesName is the zip entry holding the content type map. It is not
// a part.
const ContentTypesName = "[Content_Types].xml"

// Relationship types of the main document part.
const (
	RelTypeOfficeDocument       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeStrictOfficeDocument = "http://purl.oclc.org/ooxml/officeDocument/relationships/officeDocument"
)

var (
	// ErrNotPackage indicates the file is not a zip archive or lacks the
	// content type map.
	ErrNotPackage = errors.New("not an Open Packaging Conventions package")

	// ErrNoMainDocument indicates the package has no officeDocument
	// relationship or its target part is missing.
	ErrNoMainDocument = errors.New("package has no main document part")
)

// Part is a single entry of a package.
type Part struct {
	// Name is the part URI, always starting with "/".
	Name string `json:"name" yaml:"name"`

	// ContentType is the resolved content type, empty when none applies.
	ContentType string `json:"content_type" yaml:"content_type"`

	// Size is the uncompressed size in bytes.
	Size int64 `json:"size" yaml:"size"`

	file  *zip.File
	limit int64
}

// Bytes returns the uncompressed content of the part, bounded by the
// package's maximum part size.
func (p *Part) Bytes() ([]byte, error) {
	rc, err := p.file.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening part %s", p.Name)
	}
	defer rc.Close()

	data, err := fileutil.ReadAllWithLimit(rc, p.limit)
	if err != nil {
		return nil, errors.Wrapf(err, "reading part %s", p.Name)
	}
	return data, nil
}

// IsXML reports whether the part holds XML markup.
func (p *Part) IsXML() bool {
	ct := strings.ToLower(p.ContentType)
	if strings.HasSuffix(ct, "+xml") || ct == "application/xml" || ct == "text/xml" {
		return true
	}
	ext := strings.ToLower(path.Ext(p.Name))
	return ext == ".xml" || ext == ".rels"
}

// Option configures Open.
type Option func(*Package)

// WithMaxPartSize bounds the bytes read from any single part. A value <= 0
// disables the bound.
func WithMaxPartSize(n int64) Option {
	return func(p *Package) {
		p.maxPartSize = n
	}
}

// Package is an opened, read-only package. It must be closed.
type Package struct {
	path        string
	zr          *zip.ReadCloser
	maxPartSize int64

	parts        map[string]*Part
	names        []string
	contentTypes *ContentTypes
	ctErr        error
	main         string
	duplicates   []string

	mu   sync.Mutex
	rels map[string]*relsEntry
	docs map[string]*Document
}

type relsEntry struct {
	rels *Relationships
	err  error
}

// Open opens the package at path read-only.
func Open(path string, opts ...Option) (*Package, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return nil, errors.Wrap(err, "opening package")
		}
		return nil, errors.Wrapf(ErrNotPackage, "opening package: %v", err)
	}

	p := &Package{
		path:  path,
		zr:    zr,
		parts: make(map[string]*Part, len(zr.File)),
		rels:  make(map[string]*relsEntry),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.load(); err != nil {
		zr.Close()
		return nil, err
	}
	return p, nil
}

func (p *Package) load() error {
	var ctFile *zip.File
	for _, f := range p.zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		if strings.EqualFold(f.Name, ContentTypesName) {
			ctFile = f
			continue
		}
		name := NormalizePartName(f.Name)
		if _, dup := p.parts[name]; dup {
			p.duplicates = append(p.duplicates, name)
			continue
		}
		p.parts[name] = &Part{
			Name:  name,
			Size:  int64(f.UncompressedSize64),
			file:  f,
			limit: p.maxPartSize,
		}
		p.names = append(p.names, name)
	}
	sort.Strings(p.names)
	sort.Strings(p.duplicates)

	if ctFile == nil {
		return errors.Wrapf(ErrNotPackage, "missing %s", ContentTypesName)
	}

	ctPart := &Part{Name: "/" + ContentTypesName, file: ctFile, limit: p.maxPartSize}
	data, err := ctPart.Bytes()
	if err == nil {
		p.contentTypes, err = ParseContentTypes(data)
	}
	if err != nil {
		// An unreadable map is a validation finding, not an open failure.
		p.ctErr = err
		p.contentTypes = &ContentTypes{}
	}
	for _, part := range p.parts {
		part.ContentType = p.contentTypes.Lookup(part.Name)
	}

	rels, err := p.Relationships("/")
	if err != nil {
		return errors.Wrapf(ErrNoMainDocument, "reading package relationships: %v", err)
	}
	for _, r := range rels.Items {
		if r.Type != RelTypeOfficeDocument && r.Type != RelTypeStrictOfficeDocument {
			continue
		}
		target := ResolveTarget("/", r.Target)
		if _, ok := p.parts[target]; !ok {
			return errors.Wrapf(ErrNoMainDocument, "officeDocument target %s not found", target)
		}
		p.main = target
		return nil
	}
	return errors.Wrap(ErrNoMainDocument, "no officeDocument relationship")
}

// Path returns the filesystem path the package was opened from.
func (p *Package) Path() string {
	return p.path
}

// Close releases the underlying archive.
func (p *Package) Close() error {
	return p.zr.Close()
}

// MainDocument returns the URI of the officeDocument target part.
func (p *Package) MainDocument() string {
	return p.main
}

// Parts returns every part sorted by URI.
func (p *Package) Parts() []*Part {
	out := make([]*Part, len(p.names))
	for i, name := range p.names {
		out[i] = p.parts[name]
	}
	return out
}

// Duplicates returns the part names that more than one zip entry maps to,
// once per extra entry, sorted. Parts keeps the first entry.
func (p *Package) Duplicates() []string {
	return p.duplicates
}

// NormalizePartName maps a zip item name or part URI to the form used for
// part lookups: rooted at "/", forward slashes, percent-encoding decoded.
func NormalizePartName(name string) string {
	return "/" + strings.TrimPrefix(unescapePartName(name), "/")
}

func unescapePartName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	return name
}

// Part returns the part with the exact URI name.
func (p *Package) Part(name string) (*Part, bool) {
	part, ok := p.parts[name]
	return part, ok
}

// ContentTypes returns the parsed content type map, and the error that
// occurred reading it, if any. The map is empty when the error is non-nil.
func (p *Package) ContentTypes() (*ContentTypes, error) {
	return p.contentTypes, p.ctErr
}
