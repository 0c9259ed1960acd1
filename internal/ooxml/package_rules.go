package ooxml

import (
	"fmt"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/thoreinstein/docxval/internal/opc"
	"github.com/thoreinstein/docxval/internal/validator"
)

var packageRules = []Rule{
	&RuleFunc{"PKG001", validator.ErrorTypePackage, "Every part has a content type", checkContentTypes},
	&RuleFunc{"PKG002", validator.ErrorTypePackage, "Content type overrides name existing parts", checkOverrides},
	&RuleFunc{"PKG003", validator.ErrorTypePackage, "Internal relationship targets exist", checkRelationshipTargets},
	&RuleFunc{"PKG004", validator.ErrorTypePackage, "Relationship ids are unique within a relationships part", checkRelationshipIDs},
	&RuleFunc{"PKG005", validator.ErrorTypePackage, "The main document part has a WordprocessingML content type", checkMainContentType},
	&RuleFunc{"PKG006", validator.ErrorTypePackage, "Part names are unique ignoring case", checkCaseDuplicates},
	&RuleFunc{"PKG007", validator.ErrorTypePackage, "Relationships parts are well-formed and complete", checkRelationshipsParts},
}

// packageError builds a finding that has no containing element.
func packageError(part, format string, args ...any) validator.ErrorInfo {
	if part == "" {
		part = "/"
	}
	return validator.ErrorInfo{
		Description: fmt.Sprintf(format, args...),
		Part:        part,
	}
}

func checkContentTypes(c *Context, emit Emit) bool {
	if _, err := c.pkg.ContentTypes(); err != nil {
		return emit(packageError("/"+opc.ContentTypesName, "The content types part is invalid: %v.", err))
	}
	for _, p := range c.pkg.Parts() {
		if p.ContentType == "" {
			if !emit(packageError("/", "The part '%s' has no content type.", p.Name)) {
				return false
			}
		}
	}
	return true
}

func checkOverrides(c *Context, emit Emit) bool {
	ct, err := c.pkg.ContentTypes()
	if err != nil {
		return true
	}

	names := make(map[string]bool)
	for _, p := range c.pkg.Parts() {
		names[strings.ToLower(p.Name)] = true
	}
	for _, o := range ct.Overrides {
		if !names[strings.ToLower(opc.NormalizePartName(o.PartName))] {
			if !emit(packageError("/"+opc.ContentTypesName, "The content type override for '%s' refers to a part that does not exist.", o.PartName)) {
				return false
			}
		}
	}
	return true
}

// relationshipsParts returns every relationships part with its source, in
// URI order. Relationships parts whose source part is missing are skipped
// except for the package relationships.
func relationshipsParts(pkg *opc.Package) []*opc.Relationships {
	var out []*opc.Relationships
	for _, p := range pkg.Parts() {
		source, ok := opc.SourcePartName(p.Name)
		if !ok {
			continue
		}
		if source != "/" {
			if _, exists := pkg.Part(source); !exists {
				continue
			}
		}
		rels, err := pkg.Relationships(source)
		if err != nil {
			continue
		}
		out = append(out, rels)
	}
	return out
}

func checkRelationshipTargets(c *Context, emit Emit) bool {
	for _, rels := range relationshipsParts(c.pkg) {
		for _, r := range rels.Items {
			if r.External() || r.Target == "" {
				continue
			}
			target := opc.ResolveTarget(rels.Source, r.Target)
			if _, ok := c.pkg.Part(target); ok {
				continue
			}
			e := packageError(rels.Part, "The relationship '%s' targets '%s', which does not exist in the package.", r.ID, target)
			e.Line = r.Line
			if !emit(e) {
				return false
			}
		}
	}
	return true
}

func checkRelationshipIDs(c *Context, emit Emit) bool {
	for _, rels := range relationshipsParts(c.pkg) {
		seen := make(map[string]bool)
		for _, r := range rels.Items {
			if r.ID == "" {
				continue
			}
			if seen[r.ID] {
				e := packageError(rels.Part, "The relationship id '%s' is used more than once.", r.ID)
				e.Line = r.Line
				if !emit(e) {
					return false
				}
			}
			seen[r.ID] = true
		}
	}
	return true
}

func checkMainContentType(c *Context, emit Emit) bool {
	main, ok := c.pkg.Part(c.pkg.MainDocument())
	if !ok || isMainContentType(main.ContentType) {
		return true
	}
	return emit(packageError(main.Name, "The main document part has content type '%s', which is not a WordprocessingML document type.", main.ContentType))
}

func checkCaseDuplicates(c *Context, emit Emit) bool {
	for _, name := range slices.Compact(slices.Clone(c.pkg.Duplicates())) {
		if !emit(packageError("/", "The part name '%s' is used by more than one entry.", name)) {
			return false
		}
	}

	groups := make(map[string][]string)
	for _, p := range c.pkg.Parts() {
		key := strings.ToLower(p.Name)
		groups[key] = append(groups[key], p.Name)
	}

	keys := make([]string, 0, len(groups))
	for k, names := range groups {
		if len(names) > 1 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		names := groups[k]
		if !emit(packageError("/", "The part names %s differ only by case.", quoteList(names))) {
			return false
		}
	}
	return true
}

func checkRelationshipsParts(c *Context, emit Emit) bool {
	for _, p := range c.pkg.Parts() {
		if path.Ext(p.Name) != ".rels" {
			continue
		}
		source, ok := opc.SourcePartName(p.Name)
		if !ok {
			if !emit(packageError(p.Name, "The part '%s' is not a valid relationships part name.", p.Name)) {
				return false
			}
			continue
		}

		rels, err := c.pkg.Relationships(source)
		if err != nil {
			if !emit(packageError(p.Name, "The relationships part is invalid: %v.", err)) {
				return false
			}
			continue
		}

		for i, r := range rels.Items {
			var missing []string
			if r.ID == "" {
				missing = append(missing, "Id")
			}
			if r.Type == "" {
				missing = append(missing, "Type")
			}
			if r.Target == "" {
				missing = append(missing, "Target")
			}
			if len(missing) == 0 {
				continue
			}
			e := packageError(p.Name, "The relationship entry %d is missing the %s attribute(s).", i+1, strings.Join(missing, ", "))
			e.Node = "Relationship"
			e.Path = fmt.Sprintf("/Relationships[1]/Relationship[%d]", i+1)
			e.Line = r.Line
			if !emit(e) {
				return false
			}
		}
	}
	return true
}

func quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return strings.Join(quoted, ", ")
}
