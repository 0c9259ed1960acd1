// Package validator defines the error records produced by document
// validation and the reporter that prints them.
//
// # Core Concepts
//
//   - [ErrorType]: the category of a finding (package, schema, semantic or
//     markup compatibility).
//   - [ErrorInfo]: a single finding with its description, the offending
//     node, its XPath and the part that contains it.
//   - [Reporter]: streams findings per target as text, or collects them
//     into one JSON or YAML document per run.
//
// # Basic Usage
//
//	rep := validator.NewReporter(os.Stdout, validator.FormatText)
//	rep.StartTarget(path)
//	for i, e := range findings {
//		rep.Error(i+1, e)
//	}
//	rep.EndTarget(path, len(findings))
package validator
