package request

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"

	"github.com/getmockd/xmlbridge/pkg/xmlnav"
)

// KeyValue is an ordered key/value pair read from a log.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// LogSample is an XML log entry parsed once for repeated lookups. Doc is
// nil when the text does not parse; lookups then fall back to pattern
// matching on the raw text.
type LogSample struct {
	Text string
	Doc  *etree.Document
}

// ParseLog strips markdown backticks from text and parses it leniently.
func ParseLog(text string) *LogSample {
	cleaned := xmlnav.StripBackticks(text)
	s := &LogSample{Text: cleaned}
	if strings.TrimSpace(cleaned) == "" {
		return s
	}
	if doc, err := xmlnav.Parse(cleaned); err == nil {
		s.Doc = doc
	}
	return s
}

var (
	pairPattern = regexp.MustCompile(`(?i)<[^>]*:?name[^>]*>\s*([^<]+?)\s*</[^>]+>\s*<[^>]*:?value[^>]*>\s*([^<]*?)\s*</[^>]+>`)
	headerBlock = regexp.MustCompile(`(?i)<(?:\w+:)?Header\b[\s\S]*?</(?:\w+:)?Header>`)
	bodyBlock   = regexp.MustCompile(`(?i)<(?:\w+:)?Body\b[\s\S]*?</(?:\w+:)?Body>`)
)

// NameValuePairs scans the raw text for adjacent <...name>X</...><...value>Y</...>
// elements. A repeated name keeps its first position and its last value.
func (s *LogSample) NameValuePairs() []KeyValue {
	var out []KeyValue
	index := make(map[string]int)
	for _, m := range pairPattern.FindAllStringSubmatch(s.Text, -1) {
		name := xmlnav.RepairMojibake(strings.TrimSpace(m[1]))
		if name == "" {
			continue
		}
		v := xmlnav.RepairMojibake(strings.TrimSpace(m[2]))
		if i, ok := index[name]; ok {
			out[i].Value = v
			continue
		}
		index[name] = len(out)
		out = append(out, KeyValue{Key: name, Value: v})
	}
	return out
}

// Headers lists header candidates: the leaf children of the first element
// whose name contains "header", then every non-empty name/value pair.
// Keys are de-duplicated by normalized form, first one wins.
func (s *LogSample) Headers() []KeyValue {
	var found []KeyValue
	if s.Doc != nil {
		if header := xmlnav.Header(s.Doc); header != nil {
			for _, child := range header.ChildElements() {
				key := xmlnav.RepairMojibake(xmlnav.LocalName(child))
				if key == "" || xmlnav.HasElementChildren(child) {
					continue
				}
				if v := xmlnav.TrimmedText(child); v != "" {
					found = append(found, KeyValue{Key: key, Value: v})
				}
			}
		}
	}
	for _, kv := range s.NameValuePairs() {
		if strings.TrimSpace(kv.Value) != "" {
			found = append(found, kv)
		}
	}

	seen := make(map[string]bool, len(found))
	unique := found[:0]
	for _, kv := range found {
		norm := xmlnav.NormalizeKey(kv.Key)
		if seen[norm] {
			continue
		}
		seen[norm] = true
		unique = append(unique, kv)
	}
	return unique
}

// CanonicalHeaderValues reads the application, process and eTrackingID
// fields, preferring the header block, and returns the non-empty ones
// keyed by the request header they feed.
func (s *LogSample) CanonicalHeaderValues() []KeyValue {
	var out []KeyValue
	for _, f := range []struct{ field, header string }{
		{"application", "X-application"},
		{"process", "X-process"},
		{"eTrackingID", "X-eTrackingID"},
	} {
		if v := s.tagValue(f.field); v != "" {
			out = append(out, KeyValue{Key: f.header, Value: v})
		}
	}
	return out
}

func (s *LogSample) tagValue(tag string) string {
	pattern := elementPattern(tag)
	if block := headerBlock.FindString(s.Text); block != "" {
		if m := pattern.FindStringSubmatch(block); m != nil {
			return xmlnav.RepairMojibake(strings.TrimSpace(m[1]))
		}
	}
	if m := pattern.FindStringSubmatch(s.Text); m != nil {
		return xmlnav.RepairMojibake(strings.TrimSpace(m[1]))
	}
	return ""
}

func elementPattern(name string) *regexp.Regexp {
	q := regexp.QuoteMeta(name)
	return regexp.MustCompile(`(?i)<(?:\w+:)?` + q + `\b[^>]*>\s*([^<]+?)\s*</(?:\w+:)?` + q + `>`)
}

func attributePattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\s*=\s*"(.*?)"`)
}

// Param looks up a value for the parameter field. The SOAP body payload is
// searched first so header metadata with the same name does not win, then
// the whole document, then the raw text by pattern, then name/value pairs.
// Names compare in normalized form. It returns "" when nothing is found.
func (s *LogSample) Param(field string) string {
	target := xmlnav.NormalizeKey(field)
	if target == "" {
		return ""
	}

	if s.Doc != nil {
		if body := xmlnav.Body(s.Doc); body != nil {
			scopes := body.ChildElements()
			if len(scopes) == 0 {
				scopes = []*etree.Element{body}
			}
			for _, scope := range scopes {
				if v := findFieldValue(scope, target); v != "" {
					return v
				}
			}
		}
		if v := findFieldValue(s.Doc.Root(), target); v != "" {
			return v
		}
	}

	scopes := []string{s.Text}
	if block := bodyBlock.FindString(s.Text); block != "" {
		scopes = []string{block, s.Text}
	}
	attr, elem := attributePattern(field), elementPattern(field)
	for _, scope := range scopes {
		if m := attr.FindStringSubmatch(scope); m != nil {
			if v := xmlnav.RepairMojibake(strings.TrimSpace(m[1])); v != "" {
				return v
			}
		}
		if m := elem.FindStringSubmatch(scope); m != nil {
			if v := xmlnav.RepairMojibake(strings.TrimSpace(m[1])); v != "" {
				return v
			}
		}
	}

	for _, kv := range s.NameValuePairs() {
		if xmlnav.NormalizeKey(kv.Key) == target && strings.TrimSpace(kv.Value) != "" {
			return strings.TrimSpace(kv.Value)
		}
	}
	return ""
}

// findFieldValue searches breadth first from root. At each element it
// tries, in order: an attribute named target, a <name>/<value> child pair
// whose name is target, and the element itself when it is a leaf named
// target.
func findFieldValue(root *etree.Element, target string) string {
	if root == nil {
		return ""
	}
	queue := []*etree.Element{root}
	for len(queue) > 0 {
		el := queue[0]
		queue = queue[1:]

		for _, a := range el.Attr {
			if xmlnav.NormalizeKey(a.Key) != target {
				continue
			}
			if v := xmlnav.RepairMojibake(strings.TrimSpace(a.Value)); v != "" {
				return v
			}
		}

		nameEl, valueEl := xmlnav.FindChild(el, "name"), xmlnav.FindChild(el, "value")
		if nameEl != nil && valueEl != nil && xmlnav.NormalizeKey(xmlnav.TrimmedText(nameEl)) == target {
			if v := xmlnav.TrimmedText(valueEl); v != "" {
				return v
			}
		}

		if xmlnav.NormalizeKey(xmlnav.LocalName(el)) == target && !xmlnav.HasElementChildren(el) {
			if v := xmlnav.TrimmedText(el); v != "" {
				return v
			}
		}

		queue = append(queue, el.ChildElements()...)
	}
	return ""
}
