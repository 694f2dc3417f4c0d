package openapi

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the syntax an OpenAPI document is written in.
type Format string

// Supported document formats.
const (
	FormatUnknown Format = ""
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
)

func (f Format) String() string { return string(f) }

// DetectFormat guesses the syntax from the file extension, then content.
func DetectFormat(data []byte, filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}

// SyntaxResult is the outcome of a syntax check.
type SyntaxResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// ValidateJSON checks that data is a single well-formed JSON value.
func ValidateJSON(data []byte) SyntaxResult {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return SyntaxResult{Error: err.Error()}
	}
	return SyntaxResult{Valid: true}
}

// ValidateYAML checks that data parses as YAML.
func ValidateYAML(data []byte) SyntaxResult {
	var n yaml.Node
	if err := yaml.Unmarshal(data, &n); err != nil {
		return SyntaxResult{Error: err.Error()}
	}
	return SyntaxResult{Valid: true}
}

var (
	bareKeyLine   = regexp.MustCompile(`^\s*\w+\s+\w+`)
	bareKeySplit  = regexp.MustCompile(`^(\s*)(\w+)\s+(.+)$`)
	nonPrintable  = regexp.MustCompile(`[^\x20-\x7E\n\r\t]`)
	blankLineRuns = regexp.MustCompile(`\n{3,}`)
)

// FixYAML applies best-effort repairs to hand-edited YAML: tabs become two
// spaces, "key value" lines missing their colon gain one, non-printable
// characters are dropped and runs of blank lines collapse to one.
func FixYAML(text string) string {
	text = strings.ReplaceAll(text, "\t", "  ")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" || strings.Contains(line, ":") {
			continue
		}
		if bareKeyLine.MatchString(line) {
			lines[i] = bareKeySplit.ReplaceAllString(line, "$1$2: $3")
		}
	}
	text = strings.Join(lines, "\n")

	text = nonPrintable.ReplaceAllString(text, "")
	return blankLineRuns.ReplaceAllString(text, "\n\n")
}
