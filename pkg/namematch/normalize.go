package namematch

import (
	"regexp"
	"strings"
)

var (
	camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	nonAlnumRun   = regexp.MustCompile(`[^a-zA-Z0-9]+`)
)

// Normalize strips a namespace prefix, splits camelCase, collapses
// punctuation runs to "_" and lowercases the result.
//
//	Normalize("ns:targetService") == "target_service"
//	Normalize("TARGET-SERVICE")   == "target_service"
func Normalize(name string) string {
	if name == "" {
		return ""
	}
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	name = camelBoundary.ReplaceAllString(name, "${1}_${2}")
	name = nonAlnumRun.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	return strings.ToLower(name)
}

// Tokenize returns the "_"-separated tokens of the normalized name.
func Tokenize(name string) []string {
	normalized := Normalize(name)
	if normalized == "" {
		return nil
	}
	parts := strings.Split(normalized, "_")
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Singularize drops a trailing "es" (for names longer than two characters)
// or a trailing "s". Names shorter than two characters are returned as is.
func Singularize(name string) string {
	if len(name) < 2 {
		return name
	}
	if strings.HasSuffix(name, "es") && len(name) > 2 {
		return name[:len(name)-2]
	}
	if strings.HasSuffix(name, "s") {
		return name[:len(name)-1]
	}
	return name
}

// Pluralize appends "s", or turns a trailing "y" into "ies". Names already
// ending in "s" are returned unchanged.
func Pluralize(name string) string {
	switch {
	case name == "":
		return name
	case strings.HasSuffix(name, "s"):
		return name
	case strings.HasSuffix(name, "y") && len(name) > 1:
		return name[:len(name)-1] + "ies"
	default:
		return name + "s"
	}
}

// Variants returns the normalized form of name together with its singular,
// its plural and each of its tokens.
func Variants(name string) map[string]struct{} {
	normalized := Normalize(name)
	if normalized == "" {
		return nil
	}
	set := map[string]struct{}{
		normalized:              {},
		Singularize(normalized): {},
		Pluralize(normalized):   {},
	}
	for _, token := range Tokenize(name) {
		set[token] = struct{}{}
	}
	return set
}
