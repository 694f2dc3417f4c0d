package openapi

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/xmlbridge/pkg/value"
)

// ErrInvalidDocument is returned when the input is not an OpenAPI-shaped
// JSON or YAML mapping.
var ErrInvalidDocument = errors.New("invalid OpenAPI document")

// Document is a loaded OpenAPI document. It is never modified after Load,
// so it may be shared between goroutines.
type Document struct {
	root   *yaml.Node
	raw    []byte
	format Format
}

// Load parses JSON or YAML into a Document.
func Load(data []byte) (*Document, error) {
	format := DetectFormat(data, "")
	var root *yaml.Node

	if format == FormatJSON {
		v, err := value.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		root = fromValue(v)
	} else {
		var n yaml.Node
		if err := yaml.Unmarshal(data, &n); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		root = deref(&n)
		format = FormatYAML
	}

	if root == nil || root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrInvalidDocument)
	}
	return &Document{root: root, raw: data, format: format}, nil
}

// LoadFile reads and parses the document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Raw returns the bytes the document was loaded from.
func (d *Document) Raw() []byte { return d.raw }

// Format returns the syntax the document was written in.
func (d *Document) Format() Format { return d.format }

// Title returns info.title.
func (d *Document) Title() string {
	return scalar(field(field(d.root, "info"), "title"))
}

// APIVersion returns info.version.
func (d *Document) APIVersion() string {
	return scalar(field(field(d.root, "info"), "version"))
}

// Version returns the openapi (or swagger) version string.
func (d *Document) Version() string {
	if v := scalar(field(d.root, "openapi")); v != "" {
		return v
	}
	return scalar(field(d.root, "swagger"))
}

// Lookup walks a JSON pointer ("#/components/schemas/Order" or
// "/components/schemas/Order") from the document root.
func (d *Document) Lookup(pointer string) (*yaml.Node, bool) {
	pointer = strings.TrimPrefix(pointer, "#")
	if pointer == "" {
		return d.root, true
	}
	if !strings.HasPrefix(pointer, "/") {
		return nil, false
	}

	cur := d.root
	for _, raw := range strings.Split(pointer[1:], "/") {
		token := strings.NewReplacer("~1", "/", "~0", "~").Replace(raw)
		switch cur.Kind {
		case yaml.MappingNode:
			next := field(cur, token)
			if next == nil {
				return nil, false
			}
			cur = next
		case yaml.SequenceNode:
			i, err := strconv.Atoi(token)
			if err != nil || i < 0 || i >= len(cur.Content) {
				return nil, false
			}
			cur = deref(cur.Content[i])
		default:
			return nil, false
		}
	}
	return cur, true
}

// Schema returns the schema at pointer.
func (d *Document) Schema(pointer string) (Schema, bool) {
	n, ok := d.Lookup(pointer)
	if !ok || !isMapping(n) {
		return Schema{}, false
	}
	return Schema{node: n}, true
}

// SchemaNames lists components.schemas in document order.
func (d *Document) SchemaNames() []string {
	var names []string
	pairs(field(field(d.root, "components"), "schemas"), func(k string, _ *yaml.Node) {
		names = append(names, k)
	})
	return names
}
