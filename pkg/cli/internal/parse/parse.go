// Package parse provides string parsing utilities for CLI commands.
package parse

import (
	"fmt"
	"strings"
)

// KeyValue parses a "key:value" or "key=value" string.
// If delimiters are provided, uses the first one found; otherwise defaults to ':'.
// Returns the key, value, and a boolean indicating success.
func KeyValue(s string, delimiters ...rune) (key, value string, ok bool) {
	if len(delimiters) == 0 {
		delimiters = []rune{':'}
	}

	for i, c := range s {
		for _, d := range delimiters {
			if c == d {
				return s[:i], s[i+1:], true
			}
		}
	}
	return "", "", false
}

// Header is one parsed "Key: Value" flag.
type Header struct {
	Key   string
	Value string
}

// Headers parses "Key: Value" strings in order. Keys and values are
// trimmed; a value may be empty but the key may not.
func Headers(values []string) ([]Header, error) {
	out := make([]Header, 0, len(values))
	for _, v := range values {
		key, val, ok := KeyValue(v, ':')
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q: expected \"Key: Value\"", v)
		}
		out = append(out, Header{Key: key, Value: strings.TrimSpace(val)})
	}
	return out, nil
}
