package openapi

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// maxRefHops bounds $ref chains so that a ref cycle cannot loop forever.
const maxRefHops = 32

// ErrBrokenRef is returned when a $ref does not point into the document.
var ErrBrokenRef = errors.New("unresolvable $ref")

// Schema is a read-only view of a schema node. The zero value is an absent
// schema.
type Schema struct {
	node *yaml.Node
}

// Property is a named entry of a schema's properties, in declaration order.
type Property struct {
	Name   string
	Schema Schema
}

// XMLHint carries the `xml` object of a schema.
type XMLHint struct {
	Name      string
	Attribute bool
}

// SchemaFromNode wraps n.
func SchemaFromNode(n *yaml.Node) Schema {
	if n = deref(n); n == nil || n.Kind != yaml.MappingNode {
		return Schema{}
	}
	return Schema{node: n}
}

// IsZero reports whether the schema is absent.
func (s Schema) IsZero() bool { return s.node == nil }

// Node returns the underlying node.
func (s Schema) Node() *yaml.Node { return s.node }

// Ref returns the schema's $ref, if any.
func (s Schema) Ref() string { return scalar(field(s.node, "$ref")) }

// DeclaredType returns the `type` keyword. For a type list the first
// non-null entry is returned.
func (s Schema) DeclaredType() string {
	t := field(s.node, "type")
	if t == nil {
		return ""
	}
	if t.Kind == yaml.SequenceNode {
		for _, c := range t.Content {
			if v := scalar(c); v != "" && v != "null" {
				return v
			}
		}
		return ""
	}
	return t.Value
}

// HasProperties reports whether the schema declares a properties mapping,
// even an empty one.
func (s Schema) HasProperties() bool { return isMapping(field(s.node, "properties")) }

// Properties returns the declared properties in order.
func (s Schema) Properties() []Property {
	var props []Property
	pairs(field(s.node, "properties"), func(k string, v *yaml.Node) {
		props = append(props, Property{Name: k, Schema: SchemaFromNode(v)})
	})
	return props
}

// PropertyNames returns the declared property names in order.
func (s Schema) PropertyNames() []string {
	var names []string
	pairs(field(s.node, "properties"), func(k string, _ *yaml.Node) {
		names = append(names, k)
	})
	return names
}

// Items returns the array item schema.
func (s Schema) Items() Schema { return SchemaFromNode(field(s.node, "items")) }

// Enum returns the declared enum values.
func (s Schema) Enum() []any {
	e := field(s.node, "enum")
	if e == nil || e.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]any, 0, len(e.Content))
	for _, c := range e.Content {
		out = append(out, toValue(c))
	}
	return out
}

// XML returns the schema's xml binding hints.
func (s Schema) XML() XMLHint {
	x := field(s.node, "xml")
	return XMLHint{Name: scalar(field(x, "name")), Attribute: boolField(x, "attribute")}
}

// Example returns the `example` keyword.
func (s Schema) Example() (any, bool) {
	n := field(s.node, "example")
	if n == nil {
		return nil, false
	}
	return toValue(n), true
}

// Default returns the `default` keyword.
func (s Schema) Default() (any, bool) {
	n := field(s.node, "default")
	if n == nil {
		return nil, false
	}
	return toValue(n), true
}

// Description returns the `description` keyword.
func (s Schema) Description() string { return scalar(field(s.node, "description")) }

// Resolve follows s's $ref chain. It fails with ErrBrokenRef when a ref
// does not resolve or the chain does not end.
func (d *Document) Resolve(s Schema) (Schema, error) {
	for range maxRefHops {
		if s.IsZero() {
			return s, nil
		}
		ref := s.Ref()
		if ref == "" {
			return s, nil
		}
		next, ok := d.lookupRef(ref)
		if !ok {
			return Schema{}, fmt.Errorf("%w %q", ErrBrokenRef, ref)
		}
		s = next
	}
	return Schema{}, fmt.Errorf("%w: $ref chain at %q does not terminate", ErrBrokenRef, s.Ref())
}

func (d *Document) lookupRef(ref string) (Schema, bool) {
	if len(ref) < 2 || ref[:2] != "#/" {
		return Schema{}, false
	}
	return d.Schema(ref)
}

// TypeOf classifies a resolved schema: the declared type, else object when
// it has properties, else array when it has items.
func TypeOf(s Schema) Type {
	if s.IsZero() {
		return TypeUnknown
	}
	if t := s.DeclaredType(); t != "" {
		return ParseType(t)
	}
	if s.HasProperties() {
		return TypeObject
	}
	if field(s.node, "items") != nil {
		return TypeArray
	}
	return TypeUnknown
}

// TypeOfRef resolves s and classifies it. Broken refs classify as unknown.
func (d *Document) TypeOfRef(s Schema) Type {
	r, err := d.Resolve(s)
	if err != nil {
		return TypeUnknown
	}
	return TypeOf(r)
}
