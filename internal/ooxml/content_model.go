package ooxml

import "strings"

func set(names ...string) map[string]bool {
	m := make(map[string]bool)
	for _, n := range names {
		for _, f := range strings.Fields(n) {
			m[f] = true
		}
	}
	return m
}

// Elements that may appear between block or inline content without
// changing the structure: range markers, revisions and permissions.
const (
	rangeMarkup = "bookmarkStart bookmarkEnd commentRangeStart commentRangeEnd " +
		"moveFromRangeStart moveFromRangeEnd moveToRangeStart moveToRangeEnd " +
		"permStart permEnd proofErr " +
		"customXmlInsRangeStart customXmlInsRangeEnd customXmlDelRangeStart customXmlDelRangeEnd " +
		"customXmlMoveFromRangeStart customXmlMoveFromRangeEnd customXmlMoveToRangeStart customXmlMoveToRangeEnd"
	revisions    = "ins del moveFrom moveTo"
	blockLevel   = "p tbl sdt customXml altChunk"
	inlineLevel  = "r hyperlink fldSimple sdt customXml smartTag dir bdo subDoc"
	runContent   = "t br tab cr sym drawing pict object fldChar instrText delText delInstrText " +
		"noBreakHyphen softHyphen dayShort monthShort yearShort dayLong monthLong yearLong " +
		"annotationRef footnoteReference endnoteReference footnoteRef endnoteRef separator " +
		"continuationSeparator commentReference ptab lastRenderedPageBreak pgNum ruby contentPart"
)

// contentModels lists, per w: parent, the w: children it may contain.
// Children from other namespaces are not checked.
var contentModels = map[string]map[string]bool{
	"document":  set("background body"),
	"body":      set(blockLevel, rangeMarkup, revisions, "sectPr"),
	"p":         set("pPr", inlineLevel, rangeMarkup, revisions),
	"r":         set("rPr", runContent),
	"hyperlink": set(inlineLevel, rangeMarkup, revisions),
	"tbl":       set("tblPr tblGrid tr sdt customXml", rangeMarkup, revisions),
	"tr":        set("tblPrEx trPr tc sdt customXml", rangeMarkup, revisions),
	"tc":        set("tcPr", blockLevel, rangeMarkup, revisions),
	"pPr": set("pStyle keepNext keepLines pageBreakBefore framePr widowControl numPr " +
		"suppressLineNumbers pBdr shd tabs suppressAutoHyphens kinsoku wordWrap overflowPunct " +
		"topLinePunct autoSpaceDE autoSpaceDN bidi adjustRightInd snapToGrid spacing ind " +
		"contextualSpacing mirrorIndents suppressOverlap jc textDirection textAlignment " +
		"textboxTightWrap outlineLvl divId cnfStyle rPr sectPr pPrChange"),
	"rPr": set("rStyle rFonts b bCs i iCs caps smallCaps strike dstrike outline shadow emboss " +
		"imprint noProof snapToGrid vanish webHidden color spacing w kern position sz szCs " +
		"highlight u effect bdr shd fitText vertAlign rtl cs em lang eastAsianLayout specVanish " +
		"oMath ins del moveFrom moveTo rPrChange"),
	"tblPr": set("tblStyle tblpPr tblOverlap bidiVisual tblStyleRowBandSize tblStyleColBandSize " +
		"tblW jc tblCellSpacing tblInd tblBorders shd tblLayout tblCellMar tblLook tblCaption " +
		"tblDescription tblPrChange"),
	"tblGrid": set("gridCol tblGridChange"),
	"sectPr": set("headerReference footerReference footnotePr endnotePr type pgSz pgMar paperSrc " +
		"pgBorders lnNumType pgNumType cols formProt vAlign noEndnote titlePg textDirection bidi " +
		"rtlGutter docGrid printerSettings sectPrChange"),
	"numPr": set("ilvl numId numberingChange ins"),
}

// leadingProperties maps a parent to the property element that must be its
// first w: child, and the w: siblings allowed before it.
var leadingProperties = map[string]struct {
	prop   string
	before map[string]bool
}{
	"p":   {"pPr", nil},
	"r":   {"rPr", nil},
	"tbl": {"tblPr", nil},
	"tr":  {"trPr", set("tblPrEx")},
	"tc":  {"tcPr", nil},
}

// requiredChildren lists w: children that must be present, and for tc the
// set of which at least one must be present.
var requiredChildren = map[string][]string{
	"document": {"body"},
	"tbl":      {"tblPr", "tblGrid"},
}

var blockContent = set(blockLevel)

// requiredAttributes lists the w: attributes an element must carry.
var requiredAttributes = map[string][]string{
	"pStyle":        {"val"},
	"rStyle":        {"val"},
	"tblStyle":      {"val"},
	"numId":         {"val"},
	"ilvl":          {"val"},
	"jc":            {"val"},
	"bookmarkStart": {"id", "name"},
	"bookmarkEnd":   {"id"},
}

var (
	paragraphJustification = set("start center end both mediumKashida distribute numTab " +
		"highKashida lowKashida thaiDistribute left right")
	tableJustification = set("center end left right start")
	onOffValues        = set("true false on off 0 1")
	onOffElements      = set("b bCs i iCs strike dstrike outline shadow emboss imprint caps smallCaps vanish")
)
