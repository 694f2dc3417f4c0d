// Package help provides embedded documentation for xmlbridge help topics.
package help

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed topics/*.txt
var Topics embed.FS

// AvailableTopics lists all available help topics.
var AvailableTopics = []string{"matching", "headers", "config"}

// TopicDescriptions provides short descriptions for each topic.
var TopicDescriptions = map[string]string{
	"matching": "How XML nodes are matched to schema properties",
	"headers":  "How request headers are assembled",
	"config":   "Configuration file format",
}

// GetTopic retrieves the content of a help topic by name.
func GetTopic(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))

	found := false
	for _, t := range AvailableTopics {
		if t == name {
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("unknown help topic: %s\n\nAvailable topics:\n%s", name, ListTopics())
	}

	content, err := Topics.ReadFile("topics/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("failed to read topic %s: %w", name, err)
	}
	return string(content), nil
}

// ListTopics returns a formatted list of available topics.
func ListTopics() string {
	var sb strings.Builder
	for _, topic := range AvailableTopics {
		sb.WriteString(fmt.Sprintf("  %-10s %s\n", topic, TopicDescriptions[topic]))
	}
	return sb.String()
}
