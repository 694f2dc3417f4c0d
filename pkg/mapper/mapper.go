package mapper

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/beevik/etree"

	"github.com/getmockd/xmlbridge/pkg/logging"
	"github.com/getmockd/xmlbridge/pkg/openapi"
	"github.com/getmockd/xmlbridge/pkg/value"
	"github.com/getmockd/xmlbridge/pkg/xmlnav"
)

// DefaultMaxDepth bounds recursion when a schema is self-referential.
const DefaultMaxDepth = 64

// Diagnostic is a non-fatal finding recorded while mapping.
type Diagnostic struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Path == "" {
		return d.Message
	}
	return d.Path + ": " + d.Message
}

// Options configures a mapping call. The zero value is ready to use.
type Options struct {
	// Parser parses the XML text. Defaults to xmlnav.SafeParser.
	Parser xmlnav.Parser

	// Prune removes empty strings, nulls and empty containers from the
	// result.
	Prune bool

	// MaxDepth overrides DefaultMaxDepth.
	MaxDepth int

	// Property names the value being mapped, the way a property name
	// frames a nested array. It only matters for array schemas mapped at
	// the root and defaults to the payload element's local name.
	Property string

	// Logger receives debug output. Defaults to a no-op logger.
	Logger *slog.Logger
}

// Result is the outcome of a mapping call.
type Result struct {
	// Value is the mapped tree: *value.Object, []any, string, int64,
	// float64, bool or nil.
	Value any `json:"value"`

	// Payload is the local name of the element mapping started from.
	Payload string `json:"payload,omitempty"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Map parses xmlText, locates the element that best fits schema and maps
// it. It fails only when the XML cannot be parsed.
func Map(doc *openapi.Document, schema openapi.Schema, xmlText string, opts Options) (*Result, error) {
	parser := opts.Parser
	if parser == nil {
		parser = xmlnav.SafeParser{}
	}
	xmlDoc, err := parser.Parse([]byte(xmlText))
	if err != nil {
		return nil, err
	}

	m := newMapper(doc, opts)
	resolved, rerr := doc.Resolve(schema)
	if rerr != nil {
		// SelectPayload falls back to the document root; mapSchema records
		// the diagnostic.
		resolved = openapi.Schema{}
	}
	payload := SelectPayload(xmlDoc, resolved)
	m.log.Debug("payload selected", "element", xmlnav.LocalName(payload))

	return m.run(schema, payload, opts.Prune), nil
}

// MapElement maps schema against el directly, without payload selection.
func MapElement(doc *openapi.Document, schema openapi.Schema, el *etree.Element, opts Options) *Result {
	return newMapper(doc, opts).run(schema, el, opts.Prune)
}

type frame struct {
	schema openapi.Schema
	el     *etree.Element
}

type mapper struct {
	doc      *openapi.Document
	log      *slog.Logger
	maxDepth int
	rootName string
	diags    []Diagnostic
	active   map[frame]bool
}

func newMapper(doc *openapi.Document, opts Options) *mapper {
	m := &mapper{
		doc:      doc,
		log:      opts.Logger,
		maxDepth: opts.MaxDepth,
		rootName: opts.Property,
		active:   make(map[frame]bool),
	}
	if m.log == nil {
		m.log = logging.Nop()
	}
	if m.maxDepth <= 0 {
		m.maxDepth = DefaultMaxDepth
	}
	return m
}

func (m *mapper) run(schema openapi.Schema, el *etree.Element, prune bool) *Result {
	if m.rootName == "" {
		m.rootName = xmlnav.LocalName(el)
	}
	v, _ := m.mapSchema(schema, el, "", 0)
	if prune {
		v = value.PruneOrEmpty(v)
	}
	return &Result{
		Value:       v,
		Payload:     xmlnav.LocalName(el),
		Diagnostics: m.diags,
	}
}

func (m *mapper) diag(path, format string, args ...any) {
	d := Diagnostic{Path: path, Message: fmt.Sprintf(format, args...)}
	m.log.Debug("mapping diagnostic", "path", d.Path, "message", d.Message)
	m.diags = append(m.diags, d)
}

// mapSchema dispatches on the resolved schema type. The bool result is
// false when nothing could be mapped, which callers treat differently from
// an explicit null.
func (m *mapper) mapSchema(s openapi.Schema, el *etree.Element, path string, depth int) (any, bool) {
	if s.IsZero() || el == nil {
		return nil, false
	}
	resolved, err := m.doc.Resolve(s)
	if err != nil {
		m.diag(path, "cannot resolve schema for node %s: %v", xmlnav.LocalName(el), err)
		return nil, false
	}
	if depth > m.maxDepth {
		m.diag(path, "maximum mapping depth %d exceeded at node %s", m.maxDepth, xmlnav.LocalName(el))
		return nil, false
	}

	key := frame{schema: resolved, el: el}
	if m.active[key] {
		m.log.Debug("schema cycle on same element", "path", path, "element", xmlnav.LocalName(el))
		return nil, false
	}
	m.active[key] = true
	defer delete(m.active, key)

	switch t := openapi.TypeOf(resolved); {
	case t == openapi.TypeObject:
		return m.mapObject(resolved, el, path, depth), true
	case t == openapi.TypeArray:
		return m.mapArray(resolved, el, path, depth), true
	case t.IsPrimitive():
		return m.mapPrimitive(resolved, t, el, path)
	}
	return nil, false
}

func (m *mapper) mapObject(s openapi.Schema, el *etree.Element, path string, depth int) *value.Object {
	obj := value.NewObject()
	for _, prop := range s.Properties() {
		propPath := joinPath(path, prop.Name)

		matched := FindMatchingNode(m.doc, el, prop.Name, prop.Schema)
		if matched != nil && matched != el && m.doc.TypeOfRef(prop.Schema) == openapi.TypeArray &&
			carriesOwnName(el, matched, prop.Name) {
			matched = el
		}
		if matched == nil || matched == el {
			if ps, err := m.doc.Resolve(prop.Schema); err == nil && ps.HasProperties() {
				matched = BestObjectElement(el, ps.PropertyNames())
			}
		}
		if matched == nil {
			matched = el
		}

		v, ok := m.mapSchema(prop.Schema, matched, propPath, depth+1)
		if !ok {
			v = emptyValue(m.doc.TypeOfRef(prop.Schema))
		}
		obj.Set(prop.Name, v)
	}
	return obj
}

func (m *mapper) mapPrimitive(s openapi.Schema, t openapi.Type, el *etree.Element, path string) (any, bool) {
	field := strings.TrimSuffix(lastSegment(path), "[]")

	var text string
	if field != "" {
		text, _ = xmlnav.ExtractPrimitive(el, field)
	}
	if text == "" {
		own := xmlnav.TrimmedText(el)
		if own == "" || xmlnav.HasElementChildren(el) {
			return nil, false
		}
		text = own
	}

	v := ConvertValue(text, t)
	if enum := s.Enum(); len(enum) > 0 && !enumContains(enum, v) {
		m.diag(path, "value '%v' not in enum for %s", v, xmlnav.LocalName(el))
	}
	return v, true
}

// emptyValue is the placeholder for an object property nothing mapped to.
func emptyValue(t openapi.Type) any {
	switch t {
	case openapi.TypeString:
		return ""
	case openapi.TypeArray:
		return []any{}
	case openapi.TypeObject:
		return value.NewObject()
	}
	return nil
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func lastSegment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		return path[i+1:]
	}
	return path
}
