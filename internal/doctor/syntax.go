package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/docxval/internal/errors"
)

// ConfigSyntaxCheck parses the config file in the format its extension
// names and reports where parsing fails.
type ConfigSyntaxCheck struct {
	path string
}

var _ Check = (*ConfigSyntaxCheck)(nil)

// NewConfigSyntaxCheck creates a check for the config file at path. An
// empty path means no config file is in use.
func NewConfigSyntaxCheck(path string) *ConfigSyntaxCheck {
	return &ConfigSyntaxCheck{path: path}
}

// Name returns the unique identifier for this check.
func (c *ConfigSyntaxCheck) Name() string {
	return "config-syntax"
}

// Category returns the grouping for this check.
func (c *ConfigSyntaxCheck) Category() string {
	return "config"
}

// Run parses the config file.
func (c *ConfigSyntaxCheck) Run() *CheckResult {
	result := &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
	}

	if c.path == "" {
		result.Status = SeverityInfo
		result.Message = "no config file found, defaults apply"
		result.FixHint = "docxval config init"
		return result
	}
	result.Details = map[string]any{"path": c.path}

	data, err := os.ReadFile(c.path)
	if err != nil {
		result.Status = SeverityError
		switch {
		case errors.Is(err, os.ErrNotExist):
			result.Message = "config file does not exist"
			result.FixHint = "docxval config init --path " + c.path
		case errors.Is(err, os.ErrPermission):
			result.Message = fmt.Sprintf("permission denied: %v", err)
			result.FixHint = "chmod 644 " + c.path
		default:
			result.Message = fmt.Sprintf("read error: %v", err)
		}
		return result
	}

	// Empty files are valid (no content to parse)
	if len(data) == 0 {
		result.Message = "config file is empty"
		return result
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(c.path)), ".")
	if msg := validateSyntax(format, data); msg != "" {
		result.Status = SeverityError
		result.Message = msg
		result.FixHint = "fix the syntax or regenerate the file with: docxval config init --force"
		return result
	}

	result.Message = format + " syntax is valid"
	return result
}

// validateSyntax returns a description of the first syntax error in data,
// or an empty string when data parses.
func validateSyntax(format string, data []byte) string {
	var v any
	switch format {
	case "json":
		if err := json.Unmarshal(data, &v); err != nil {
			return formatJSONError(err, data)
		}
	case "toml":
		if err := toml.Unmarshal(data, &v); err != nil {
			return formatTOMLError(err)
		}
	default:
		if err := yaml.Unmarshal(data, &v); err != nil {
			return fmt.Sprintf("YAML syntax error: %s", strings.TrimPrefix(err.Error(), "yaml: "))
		}
	}
	return ""
}

// formatJSONError extracts position information from JSON syntax errors.
func formatJSONError(err error, data []byte) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(data, int(syntaxErr.Offset))
		return fmt.Sprintf("JSON syntax error at line %d, column %d: %s", line, col, syntaxErr.Error())
	}
	return fmt.Sprintf("JSON error: %v", err)
}

// formatTOMLError extracts position information from TOML decode errors.
func formatTOMLError(err error) string {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Sprintf("TOML syntax error at line %d, column %d: %s", row, col, decodeErr.Error())
	}
	return fmt.Sprintf("TOML error: %v", err)
}

// offsetToLineCol converts a byte offset to 1-indexed line and column
// numbers.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = max(0, min(offset, len(data)))

	line = 1
	lineStart := 0
	for i := range offset {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}
