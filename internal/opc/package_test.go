package opc

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/docxval/internal/opc/opctest"
	"github.com/thoreinstein/docxval/pkg/fileutil"
)

func TestOpen_Minimal(t *testing.T) {
	path := opctest.Write(t, "min.docx", opctest.Minimal())

	pkg, err := Open(path)
	require.NoError(t, err)
	defer pkg.Close()

	assert.Equal(t, path, pkg.Path())
	assert.Equal(t, "/word/document.xml", pkg.MainDocument())

	var names []string
	for _, p := range pkg.Parts() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{
		"/_rels/.rels",
		"/word/_rels/document.xml.rels",
		"/word/document.xml",
		"/word/styles.xml",
	}, names)

	main, ok := pkg.Part("/word/document.xml")
	require.True(t, ok)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml", main.ContentType)
	assert.True(t, main.IsXML())

	rels, ok := pkg.Part("/_rels/.rels")
	require.True(t, ok)
	assert.Equal(t, "application/vnd.openxmlformats-package.relationships+xml", rels.ContentType)
}

func TestOpen_DuplicateEntries(t *testing.T) {
	files := opctest.Minimal()
	entries := []opctest.Entry{{Name: "word/styles.xml", Body: files["word/styles.xml"]}}
	for _, name := range slices.Sorted(maps.Keys(files)) {
		entries = append(entries, opctest.Entry{Name: name, Body: files[name]})
	}

	pkg, err := Open(opctest.WriteEntries(t, t.TempDir(), "dup.docx", entries))
	require.NoError(t, err)
	defer pkg.Close()

	assert.Equal(t, []string{"/word/styles.xml"}, pkg.Duplicates())
	assert.Len(t, pkg.Parts(), 4)
}

func TestOpen_EscapedPartNames(t *testing.T) {
	files := opctest.Minimal()
	files["word/my%20document.xml"] = files["word/document.xml"]
	delete(files, "word/document.xml")
	files["_rels/.rels"] = strings.Replace(files["_rels/.rels"], `Target="word/document.xml"`, `Target="word/my%20document.xml"`, 1)
	files["[Content_Types].xml"] = strings.Replace(files["[Content_Types].xml"], `PartName="/word/document.xml"`, `PartName="/word/my%20document.xml"`, 1)

	pkg, err := Open(opctest.Write(t, "escaped.docx", files))
	require.NoError(t, err)
	defer pkg.Close()

	assert.Equal(t, "/word/my document.xml", pkg.MainDocument())
	main, ok := pkg.Part("/word/my document.xml")
	require.True(t, ok)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml", main.ContentType)
}

func TestNormalizePartName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"word/document.xml", "/word/document.xml"},
		{"/word/document.xml", "/word/document.xml"},
		{"word/media/my%20pic.png", "/word/media/my pic.png"},
		{"word\\media\\image1.png", "/word/media/image1.png"},
		{"word/100%.xml", "/word/100%.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePartName(tt.in))
		})
	}
}

func TestOpen_Failures(t *testing.T) {
	dir := t.TempDir()

	notZip := filepath.Join(dir, "plain.docx")
	require.NoError(t, os.WriteFile(notZip, []byte("not a zip"), 0600))

	noTypes := opctest.Minimal()
	delete(noTypes, "[Content_Types].xml")

	noMain := opctest.Minimal()
	noMain["_rels/.rels"] = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`

	danglingMain := opctest.Minimal()
	delete(danglingMain, "word/document.xml")

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing file", filepath.Join(dir, "missing.docx"), os.ErrNotExist},
		{"not a zip", notZip, ErrNotPackage},
		{"no content types", opctest.WriteTo(t, dir, "notypes.docx", noTypes), ErrNotPackage},
		{"no officeDocument relationship", opctest.WriteTo(t, dir, "nomain.docx", noMain), ErrNoMainDocument},
		{"main part missing", opctest.WriteTo(t, dir, "dangling.docx", danglingMain), ErrNoMainDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := Open(tt.path)
			require.Error(t, err)
			assert.Nil(t, pkg)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestOpen_BrokenContentTypesIsNotFatal(t *testing.T) {
	files := opctest.Minimal()
	files["[Content_Types].xml"] = "<Types"

	pkg, err := Open(opctest.Write(t, "broken.docx", files))
	require.NoError(t, err)
	defer pkg.Close()

	ct, ctErr := pkg.ContentTypes()
	assert.Error(t, ctErr)
	assert.Empty(t, ct.Lookup("/word/document.xml"))
}

func TestPart_BytesLimit(t *testing.T) {
	path := opctest.Write(t, "min.docx", opctest.Minimal())

	pkg, err := Open(path, WithMaxPartSize(16))
	// The package relationships part exceeds 16 bytes, so the main document
	// cannot be located.
	require.Error(t, err)
	assert.Nil(t, pkg)
	assert.True(t, errors.Is(err, ErrNoMainDocument))

	pkg, err = Open(path, WithMaxPartSize(1<<20))
	require.NoError(t, err)
	defer pkg.Close()

	part, _ := pkg.Part("/word/styles.xml")
	data, err := part.Bytes()
	require.NoError(t, err)
	assert.Contains(t, string(data), "Heading1")
}

func TestPart_BytesTooLarge(t *testing.T) {
	files := opctest.Minimal()
	files["word/big.xml"] = "<big>" + string(make([]byte, 2048)) + "</big>"

	pkg, err := Open(opctest.Write(t, "big.docx", files), WithMaxPartSize(1024))
	require.NoError(t, err)
	defer pkg.Close()

	part, ok := pkg.Part("/word/big.xml")
	require.True(t, ok)
	_, err = part.Bytes()
	assert.True(t, errors.Is(err, fileutil.ErrTooLarge))
}

func TestDecode(t *testing.T) {
	files := opctest.Minimal()
	files["word/broken.xml"] = "<w:p"
	files["word/media/image1.png"] = "\x89PNG"

	pkg, err := Open(opctest.Write(t, "decode.docx", files))
	require.NoError(t, err)
	defer pkg.Close()

	_, ok := pkg.Document("/word/document.xml")
	assert.False(t, ok, "nothing is decoded before Decode")

	require.NoError(t, pkg.Decode(context.Background(), 2))
	require.NoError(t, pkg.Decode(context.Background(), 2), "second call is a no-op")

	doc, ok := pkg.Document("/word/document.xml")
	require.True(t, ok)
	require.NoError(t, doc.Err)
	assert.Equal(t, "document", string(doc.Root().LocalName()))

	broken, ok := pkg.Document("/word/broken.xml")
	require.True(t, ok)
	assert.Error(t, broken.Err)
	assert.Nil(t, broken.Root())

	_, ok = pkg.Document("/word/media/image1.png")
	assert.False(t, ok, "binary parts are not decoded")

	var names []string
	for _, d := range pkg.Documents() {
		names = append(names, d.Part)
	}
	assert.Equal(t, []string{
		"/_rels/.rels",
		"/word/_rels/document.xml.rels",
		"/word/broken.xml",
		"/word/document.xml",
		"/word/styles.xml",
	}, names)
}

func TestDecode_Canceled(t *testing.T) {
	pkg, err := Open(opctest.Write(t, "min.docx", opctest.Minimal()))
	require.NoError(t, err)
	defer pkg.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = pkg.Decode(ctx, 1)
	assert.True(t, errors.Is(err, context.Canceled))
}
