// Package templates provides embedded starter config files for xmlbridge init.
package templates

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed *.yaml
var templateFS embed.FS

// Template represents a starter template.
type Template struct {
	ID          string
	Description string
	Filename    string
}

// AvailableTemplates returns all available starter templates.
var AvailableTemplates = []Template{
	{
		ID:          "default",
		Description: "Logging, Postman variables and pruning",
		Filename:    "default.yaml",
	},
	{
		ID:          "server",
		Description: "HTTP API with CORS origins and a dataset file",
		Filename:    "server.yaml",
	},
	{
		ID:          "headers",
		Description: "Custom base headers for generated requests",
		Filename:    "headers.yaml",
	},
}

// Get returns the template content by ID.
func Get(id string) ([]byte, error) {
	for _, t := range AvailableTemplates {
		if strings.EqualFold(t.ID, id) {
			return templateFS.ReadFile(t.Filename)
		}
	}
	return nil, fmt.Errorf("unknown template: %s", id)
}

// List returns all template IDs sorted alphabetically.
func List() []string {
	ids := make([]string, len(AvailableTemplates))
	for i, t := range AvailableTemplates {
		ids[i] = t.ID
	}
	sort.Strings(ids)
	return ids
}

// FormatList returns a formatted string listing all available templates.
func FormatList() string {
	var sb strings.Builder
	sb.WriteString("Available templates:\n\n")

	maxLen := 0
	for _, t := range AvailableTemplates {
		if len(t.ID) > maxLen {
			maxLen = len(t.ID)
		}
	}
	for _, t := range AvailableTemplates {
		sb.WriteString(fmt.Sprintf("  %-*s  %s\n", maxLen, t.ID, t.Description))
	}

	sb.WriteString("\nUsage:\n")
	sb.WriteString("  xmlbridge init --template <name>\n")
	sb.WriteString("  xmlbridge init -t server -o .xmlbridgerc.yaml\n")
	return sb.String()
}
