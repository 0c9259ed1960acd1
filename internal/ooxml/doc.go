// Package ooxml validates WordprocessingML packages.
//
// Validation is organized as a registry of rules, each identified by a
// stable ID and an [validator.ErrorType] category:
//
//   - PKG rules check the packaging layer: content types, relationships
//     and part names.
//   - SCH rules check well-formedness and a declared subset of the
//     WordprocessingML content models and attribute types.
//   - SEM rules check cross references such as relationship ids, styles,
//     numbering instances and bookmarks.
//   - MCE rules check markup compatibility usage.
//
// A [Validator] runs the registry in order and yields findings lazily, so a
// consumer that stops early stops the remaining rules too:
//
//	v := ooxml.New(ooxml.WithMaxErrors(100))
//	for e := range v.Validate(ctx, pkg) {
//		fmt.Println(e.Description)
//	}
//
// The result is deterministic: validating the same unchanged package twice
// yields the same findings in the same order.
package ooxml
