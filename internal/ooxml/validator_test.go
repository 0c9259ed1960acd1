package ooxml

import (
	"context"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/docxval/internal/opc"
	"github.com/thoreinstein/docxval/internal/opc/opctest"
	"github.com/thoreinstein/docxval/internal/validator"
)

const nsMC = `xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"`

func openFixture(t *testing.T, files map[string]string) *opc.Package {
	t.Helper()
	pkg, err := opc.Open(opctest.Write(t, "fixture.docx", files))
	require.NoError(t, err)
	t.Cleanup(func() { pkg.Close() })
	return pkg
}

func validate(t *testing.T, files map[string]string, opts ...Option) []validator.ErrorInfo {
	t.Helper()
	pkg := openFixture(t, files)
	return slices.Collect(New(opts...).Validate(t.Context(), pkg))
}

func withBody(body string) map[string]string {
	files := opctest.Minimal()
	files["word/document.xml"] = opctest.Document(body)
	return files
}

func ids(errs []validator.ErrorInfo) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.ID
	}
	return out
}

func TestValidate_CleanPackage(t *testing.T) {
	errs := validate(t, opctest.Minimal())
	assert.Empty(t, errs)
}

func TestValidate_PackageRules(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(files map[string]string)
		wantIDs  []string
		wantPart string
		contains string
	}{
		{
			name: "part without content type",
			mutate: func(f map[string]string) {
				f["word/media/image1.emf"] = "EMF"
			},
			wantIDs:  []string{"PKG001"},
			wantPart: "/",
			contains: "/word/media/image1.emf",
		},
		{
			name: "override for missing part",
			mutate: func(f map[string]string) {
				f["[Content_Types].xml"] = strings.Replace(f["[Content_Types].xml"], "</Types>",
					`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/></Types>`, 1)
			},
			wantIDs:  []string{"PKG002"},
			wantPart: "/[Content_Types].xml",
			contains: "/word/numbering.xml",
		},
		{
			name: "dangling relationship target",
			mutate: func(f map[string]string) {
				f["word/_rels/document.xml.rels"] = strings.Replace(f["word/_rels/document.xml.rels"], "</Relationships>",
					`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/></Relationships>`, 1)
			},
			wantIDs:  []string{"PKG003"},
			wantPart: "/word/_rels/document.xml.rels",
			contains: "/word/footer1.xml",
		},
		{
			name: "duplicate relationship id",
			mutate: func(f map[string]string) {
				f["word/_rels/document.xml.rels"] = strings.Replace(f["word/_rels/document.xml.rels"], "</Relationships>",
					`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>`, 1)
			},
			wantIDs:  []string{"PKG004"},
			wantPart: "/word/_rels/document.xml.rels",
			contains: "rId1",
		},
		{
			name: "main part content type",
			mutate: func(f map[string]string) {
				f["[Content_Types].xml"] = strings.Replace(f["[Content_Types].xml"],
					"application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml", "application/xml", 1)
			},
			wantIDs:  []string{"PKG005"},
			wantPart: "/word/document.xml",
			contains: "application/xml",
		},
		{
			name: "case duplicate part names",
			mutate: func(f map[string]string) {
				f["word/Styles.xml"] = f["word/styles.xml"]
			},
			wantIDs:  []string{"PKG006"},
			wantPart: "/",
			contains: "'/word/Styles.xml', '/word/styles.xml'",
		},
		{
			name: "incomplete relationship entry",
			mutate: func(f map[string]string) {
				f["word/_rels/document.xml.rels"] = strings.Replace(f["word/_rels/document.xml.rels"], "</Relationships>",
					`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"/></Relationships>`, 1)
			},
			wantIDs:  []string{"PKG007"},
			wantPart: "/word/_rels/document.xml.rels",
			contains: "Target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := opctest.Minimal()
			tt.mutate(files)

			errs := validate(t, files)
			require.Equal(t, tt.wantIDs, ids(errs))
			assert.Equal(t, validator.ErrorTypePackage, errs[0].ErrorType)
			assert.Equal(t, tt.wantPart, errs[0].Part)
			assert.Contains(t, errs[0].Description, tt.contains)
		})
	}
}

func TestValidate_DuplicateEntries(t *testing.T) {
	files := opctest.Minimal()
	entries := []opctest.Entry{{Name: "word/styles.xml", Body: files["word/styles.xml"]}}
	for _, name := range slices.Sorted(maps.Keys(files)) {
		entries = append(entries, opctest.Entry{Name: name, Body: files[name]})
	}

	pkg, err := opc.Open(opctest.WriteEntries(t, t.TempDir(), "dup.docx", entries))
	require.NoError(t, err)
	defer pkg.Close()

	errs := slices.Collect(New().Validate(t.Context(), pkg))
	require.Equal(t, []string{"PKG006"}, ids(errs))
	assert.Contains(t, errs[0].Description, "'/word/styles.xml' is used by more than one entry")
}

func TestValidate_EscapedRelationshipTarget(t *testing.T) {
	files := opctest.Minimal()
	files["word/media/my%20pic.png"] = "PNG"
	files["[Content_Types].xml"] = strings.Replace(files["[Content_Types].xml"], "</Types>",
		`<Default Extension="png" ContentType="image/png"/></Types>`, 1)
	files["word/_rels/document.xml.rels"] = strings.Replace(files["word/_rels/document.xml.rels"], "</Relationships>",
		`<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/my%20pic.png"/></Relationships>`, 1)

	assert.Empty(t, validate(t, files))
}

func TestValidate_SchemaRules(t *testing.T) {
	tests := []struct {
		name       string
		files      map[string]string
		wantIDs    []string
		wantNode   string
		wantPath   string
		wantInDesc string
	}{
		{
			name:       "unexpected child",
			files:      withBody(`<w:p><w:r><w:p/></w:r></w:p>`),
			wantIDs:    []string{"SCH002"},
			wantNode:   "w:p",
			wantPath:   "/w:document[1]/w:body[1]/w:p[1]/w:r[1]/w:p[1]",
			wantInDesc: "'w:r' has unexpected child element 'w:p'",
		},
		{
			name:       "paragraph properties not first",
			files:      withBody(`<w:p><w:r><w:t>x</w:t></w:r><w:pPr/></w:p>`),
			wantIDs:    []string{"SCH003"},
			wantNode:   "w:pPr",
			wantPath:   "/w:document[1]/w:body[1]/w:p[1]/w:pPr[1]",
			wantInDesc: "first child of 'w:p'",
		},
		{
			name:       "section properties not last",
			files:      withBody(`<w:sectPr/><w:p/>`),
			wantIDs:    []string{"SCH003"},
			wantNode:   "w:sectPr",
			wantPath:   "/w:document[1]/w:body[1]/w:sectPr[1]",
			wantInDesc: "last child of 'w:body'",
		},
		{
			name:       "table without required children",
			files:      withBody(`<w:tbl><w:tr><w:tc/></w:tr></w:tbl>`),
			wantIDs:    []string{"SCH004", "SCH004", "SCH004"},
			wantNode:   "w:tbl",
			wantPath:   "/w:document[1]/w:body[1]/w:tbl[1]",
			wantInDesc: "'w:tblPr'",
		},
		{
			name:       "missing required attribute",
			files:      withBody(`<w:p><w:pPr><w:pStyle/></w:pPr></w:p>`),
			wantIDs:    []string{"SCH005"},
			wantNode:   "w:pStyle",
			wantPath:   "/w:document[1]/w:body[1]/w:p[1]/w:pPr[1]/w:pStyle[1]",
			wantInDesc: "'w:val'",
		},
		{
			name: "invalid attribute values",
			files: withBody(`<w:p><w:pPr><w:jc w:val="middle"/></w:pPr>` +
				`<w:r><w:rPr><w:b w:val="yes"/><w:color w:val="red"/><w:sz w:val="big"/></w:rPr></w:r></w:p>`),
			wantIDs:    []string{"SCH006", "SCH006", "SCH006", "SCH006"},
			wantNode:   "w:jc",
			wantPath:   "/w:document[1]/w:body[1]/w:p[1]/w:pPr[1]/w:jc[1]",
			wantInDesc: "'middle'",
		},
		{
			name: "not well-formed part",
			files: func() map[string]string {
				f := opctest.Minimal()
				f["word/broken.xml"] = "<a><b></a>"
				return f
			}(),
			wantIDs:    []string{"SCH001"},
			wantNode:   "",
			wantPath:   "",
			wantInDesc: "not a well-formed XML document",
		},
		{
			name: "unexpected root element",
			files: func() map[string]string {
				f := opctest.Minimal()
				f["[Content_Types].xml"] = strings.Replace(f["[Content_Types].xml"], "</Types>",
					`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/></Types>`, 1)
				f["word/header1.xml"] = `<w:ftr ` + opctest.NSW + `><w:p/></w:ftr>`
				return f
			}(),
			wantIDs:    []string{"SCH007"},
			wantNode:   "w:ftr",
			wantPath:   "/w:ftr[1]",
			wantInDesc: "expected 'w:hdr'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validate(t, tt.files)
			require.Equal(t, tt.wantIDs, ids(errs))

			first := errs[0]
			assert.Equal(t, validator.ErrorTypeSchema, first.ErrorType)
			assert.Equal(t, tt.wantNode, first.Node)
			assert.Equal(t, tt.wantPath, first.Path)
			assert.Contains(t, first.Description, tt.wantInDesc)
			assert.NotEmpty(t, first.Part)
		})
	}
}

func TestValidate_SemanticRules(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantIDs  []string
		wantNode string
		wantPath string
	}{
		{
			name:     "unknown relationship id",
			body:     `<w:p><w:hyperlink r:id="rId7"><w:r><w:t>x</w:t></w:r></w:hyperlink><w:hyperlink r:id="rId2"><w:r><w:t>y</w:t></w:r></w:hyperlink></w:p>`,
			wantIDs:  []string{"SEM001"},
			wantNode: "w:hyperlink",
			wantPath: "/w:document[1]/w:body[1]/w:p[1]/w:hyperlink[1]",
		},
		{
			name:     "undefined style",
			body:     `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr></w:p><w:p><w:pPr><w:pStyle w:val="Missing"/></w:pPr></w:p>`,
			wantIDs:  []string{"SEM002"},
			wantNode: "w:pStyle",
			wantPath: "/w:document[1]/w:body[1]/w:p[2]/w:pPr[1]/w:pStyle[1]",
		},
		{
			name:     "undefined numbering",
			body:     `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="0"/></w:numPr></w:pPr></w:p><w:p><w:pPr><w:numPr><w:numId w:val="5"/></w:numPr></w:pPr></w:p>`,
			wantIDs:  []string{"SEM003"},
			wantNode: "w:numId",
			wantPath: "/w:document[1]/w:body[1]/w:p[2]/w:pPr[1]/w:numPr[1]/w:numId[1]",
		},
		{
			name:     "bookmarks",
			body:     `<w:bookmarkStart w:id="1" w:name="a"/><w:bookmarkStart w:id="1" w:name="b"/><w:p/><w:bookmarkEnd w:id="1"/><w:bookmarkEnd w:id="2"/>`,
			wantIDs:  []string{"SEM004", "SEM005"},
			wantNode: "w:bookmarkStart",
			wantPath: "/w:document[1]/w:body[1]/w:bookmarkStart[2]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validate(t, withBody(tt.body))
			require.Equal(t, tt.wantIDs, ids(errs))
			assert.Equal(t, validator.ErrorTypeSemantic, errs[0].ErrorType)
			assert.Equal(t, tt.wantNode, errs[0].Node)
			assert.Equal(t, tt.wantPath, errs[0].Path)
			assert.Equal(t, "/word/document.xml", errs[0].Part)
		})
	}
}

func TestValidate_MarkupCompatibilityRules(t *testing.T) {
	doc := func(attrs, body string) string {
		return `<w:document ` + opctest.NSW + ` ` + opctest.NSR + ` ` + nsMC + ` ` + attrs + `><w:body>` + body + `</w:body></w:document>`
	}

	tests := []struct {
		name     string
		document string
		wantIDs  []string
		wantNode string
	}{
		{
			name:     "declared ignorable prefix",
			document: doc(`xmlns:w14="http://schemas.microsoft.com/office/word/2010/wordml" mc:Ignorable="w14"`, `<w:p/>`),
			wantIDs:  []string{},
		},
		{
			name:     "undeclared ignorable prefix",
			document: doc(`mc:Ignorable="w14 w15"`, `<w:p/>`),
			wantIDs:  []string{"MCE001", "MCE001"},
			wantNode: "w:document",
		},
		{
			name:     "choice without requires",
			document: doc(``, `<w:p><w:r><mc:AlternateContent><mc:Choice><w:t>x</w:t></mc:Choice></mc:AlternateContent></w:r></w:p>`),
			wantIDs:  []string{"MCE002"},
			wantNode: "mc:Choice",
		},
		{
			name:     "alternate content without choice",
			document: doc(``, `<w:p><w:r><mc:AlternateContent><mc:Fallback/></mc:AlternateContent></w:r></w:p>`),
			wantIDs:  []string{"MCE002"},
			wantNode: "mc:AlternateContent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := opctest.Minimal()
			files["word/document.xml"] = tt.document

			errs := validate(t, files)
			got := ids(errs)
			require.Equal(t, tt.wantIDs, got)
			if len(errs) > 0 {
				assert.Equal(t, validator.ErrorTypeMarkupCompatibility, errs[0].ErrorType)
				assert.Equal(t, tt.wantNode, errs[0].Node)
			}
		})
	}
}

// manyErrors is a body with five undefined style references.
var manyErrors = strings.Repeat(`<w:p><w:pPr><w:pStyle w:val="Nope"/></w:pPr></w:p>`, 5)

func TestValidate_MaxErrors(t *testing.T) {
	tests := []struct {
		name string
		max  int
		want int
	}{
		{"cap below count", 3, 3},
		{"cap above count", 10, 5},
		{"unlimited", 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validate(t, withBody(manyErrors), WithMaxErrors(tt.max))
			assert.Len(t, errs, tt.want)
		})
	}
}

func TestValidate_DisabledRules(t *testing.T) {
	errs := validate(t, withBody(manyErrors), WithDisabledRules("SEM002"))
	assert.Empty(t, errs)
}

func TestValidate_ConsumerStopsEarly(t *testing.T) {
	pkg := openFixture(t, withBody(manyErrors))

	n := 0
	for range New().Validate(t.Context(), pkg) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestValidate_Deterministic(t *testing.T) {
	body := manyErrors + `<w:tbl><w:tr><w:tc/></w:tr></w:tbl><w:bookmarkEnd w:id="9"/>`
	path := opctest.Write(t, "same.docx", withBody(body))

	run := func() []validator.ErrorInfo {
		pkg, err := opc.Open(path)
		require.NoError(t, err)
		defer pkg.Close()
		return slices.Collect(New(WithWorkers(4)).Validate(t.Context(), pkg))
	}

	first := run()
	require.NotEmpty(t, first)
	assert.Equal(t, first, run())
}

func TestValidate_Canceled(t *testing.T) {
	pkg := openFixture(t, withBody(manyErrors))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	errs := slices.Collect(New().Validate(ctx, pkg))
	assert.Empty(t, errs)
}

func TestValidator_Rules(t *testing.T) {
	v := New(WithDisabledRules("SEM002", "XYZ999"))

	rules := v.Rules()
	require.Len(t, rules, 21)
	assert.Equal(t, "PKG001", rules[0].ID)
	assert.Equal(t, "MCE002", rules[len(rules)-1].ID)

	seen := make(map[string]bool)
	for _, r := range rules {
		assert.False(t, seen[r.ID], "duplicate rule id %s", r.ID)
		seen[r.ID] = true
		assert.NotEmpty(t, r.Description)
		assert.Equal(t, r.ID != "SEM002", r.Enabled, r.ID)
	}

	assert.Equal(t, []string{"XYZ999"}, v.UnknownRules())
}

func TestValidator_UnknownRulesSorted(t *testing.T) {
	v := New(WithDisabledRules("ZZZ001", "PKG003", "AAA002", "MMM010", "AAA001"))

	for range 10 {
		assert.Equal(t, []string{"AAA001", "AAA002", "MMM010", "ZZZ001"}, v.UnknownRules())
	}
}

func TestWithRules(t *testing.T) {
	calls := 0
	custom := &RuleFunc{
		RuleID:       "TST001",
		RuleCategory: validator.ErrorTypeSemantic,
		Fn: func(c *Context, emit Emit) bool {
			calls++
			return emit(validator.ErrorInfo{Description: "custom", Part: c.Package().MainDocument()})
		},
	}

	errs := validate(t, opctest.Minimal(), WithRules(custom))
	require.Len(t, errs, 1)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "TST001", errs[0].ID)
	assert.Equal(t, validator.ErrorTypeSemantic, errs[0].ErrorType)
	assert.Equal(t, "/word/document.xml", errs[0].Part)
}
