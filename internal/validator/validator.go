package validator

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorType categorizes a validation finding.
type ErrorType int

const (
	// ErrorTypeSchema marks markup that violates the content model or
	// attribute constraints of its element.
	ErrorTypeSchema ErrorType = iota
	// ErrorTypeSemantic marks markup that is well-formed but references
	// something that does not exist or is inconsistent.
	ErrorTypeSemantic
	// ErrorTypePackage marks violations of the packaging conventions.
	ErrorTypePackage
	// ErrorTypeMarkupCompatibility marks misuse of markup compatibility
	// elements and attributes.
	ErrorTypeMarkupCompatibility
)

var errorTypeNames = map[ErrorType]string{
	ErrorTypeSchema:              "Schema",
	ErrorTypeSemantic:            "Semantic",
	ErrorTypePackage:             "Package",
	ErrorTypeMarkupCompatibility: "MarkupCompatibility",
}

func (t ErrorType) String() string {
	if name, ok := errorTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ParseErrorType parses a name produced by String, ignoring case.
func ParseErrorType(s string) (ErrorType, error) {
	for t, name := range errorTypeNames {
		if strings.EqualFold(name, s) {
			return t, nil
		}
	}
	return 0, errors.Newf("unknown error type %q", s)
}

// MarshalText encodes the type by name in JSON and YAML output.
func (t ErrorType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name.
func (t *ErrorType) UnmarshalText(text []byte) error {
	parsed, err := ParseErrorType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ErrorInfo is a single validation finding.
type ErrorInfo struct {
	// ID identifies the rule that produced the finding.
	ID string `json:"id" yaml:"id"`

	// Description is a human-readable explanation.
	Description string `json:"description" yaml:"description"`

	ErrorType ErrorType `json:"error_type" yaml:"error_type"`

	// Node is the qualified name of the offending element, such as "w:p".
	// Empty for package-level findings.
	Node string `json:"node" yaml:"node"`

	// Path is the XPath of the offending element. Empty for package-level
	// findings.
	Path string `json:"path" yaml:"path"`

	// Part is the URI of the containing part, "/" for the package itself.
	Part string `json:"part" yaml:"part"`

	// Line and Column locate the node in its part when known.
	Line   int `json:"line,omitempty" yaml:"line,omitempty"`
	Column int `json:"column,omitempty" yaml:"column,omitempty"`
}

// Error implements the error interface.
func (e ErrorInfo) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Part)
	if e.Line > 0 {
		fmt.Fprintf(&sb, ":%d:%d", e.Line, e.Column)
	}
	sb.WriteString(": ")
	if e.ID != "" {
		sb.WriteString(e.ID)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Description)
	return sb.String()
}
