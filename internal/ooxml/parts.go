package ooxml

// Relationship types resolved from the main document part.
const (
	RelTypeStyles    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeNumbering = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
)

const wmlContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml."

// mainContentTypes are the content types a main document part may carry.
var mainContentTypes = map[string]bool{
	wmlContentType + "document.main+xml":                             true,
	wmlContentType + "template.main+xml":                             true,
	"application/vnd.ms-word.document.macroEnabled.main+xml":         true,
	"application/vnd.ms-word.template.macroEnabledTemplate.main+xml": true,
}

// storyContentTypes carry block-level WordprocessingML content.
var storyContentTypes = map[string]bool{
	wmlContentType + "header+xml":    true,
	wmlContentType + "footer+xml":    true,
	wmlContentType + "footnotes+xml": true,
	wmlContentType + "endnotes+xml":  true,
	wmlContentType + "comments+xml":  true,
}

// expectedRoots maps WordprocessingML content types to the local name of
// their w: root element.
var expectedRoots = map[string]string{
	wmlContentType + "header+xml":            "hdr",
	wmlContentType + "footer+xml":            "ftr",
	wmlContentType + "footnotes+xml":         "footnotes",
	wmlContentType + "endnotes+xml":          "endnotes",
	wmlContentType + "comments+xml":          "comments",
	wmlContentType + "styles+xml":            "styles",
	wmlContentType + "numbering+xml":         "numbering",
	wmlContentType + "settings+xml":          "settings",
	wmlContentType + "fontTable+xml":         "fonts",
	wmlContentType + "webSettings+xml":       "webSettings",
	wmlContentType + "document.glossary+xml": "glossaryDocument",
}

func isMainContentType(ct string) bool {
	return mainContentTypes[ct]
}

func isStoryContentType(ct string) bool {
	return storyContentTypes[ct]
}

// expectedRoot returns the w: root element a part of content type ct must
// have.
func expectedRoot(ct string, main bool) (string, bool) {
	if main || isMainContentType(ct) {
		return "document", true
	}
	root, ok := expectedRoots[ct]
	return root, ok
}
