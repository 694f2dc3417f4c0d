package openapi

import "github.com/getmockd/xmlbridge/pkg/value"

// MaxExampleDepth bounds example generation on recursive schemas.
const MaxExampleDepth = 10

// GenerateExample synthesizes a sample value for s. A declared example
// wins; otherwise objects collect their property examples, arrays hold a
// single item, and primitives use their default or zero value. An absent
// schema or a broken $ref yields an empty object.
func (d *Document) GenerateExample(s Schema) any {
	if s.IsZero() {
		return value.NewObject()
	}
	return d.generate(s, 0)
}

func (d *Document) generate(s Schema, depth int) any {
	if depth > MaxExampleDepth {
		return ""
	}
	s, err := d.Resolve(s)
	if err != nil {
		return value.NewObject()
	}
	if s.IsZero() {
		return nil
	}
	if ex, ok := s.Example(); ok {
		return ex
	}

	switch TypeOf(s) {
	case TypeObject:
		obj := value.NewObject()
		for _, p := range s.Properties() {
			if v := d.generate(p.Schema, depth+1); v != nil {
				obj.Set(p.Name, v)
			}
		}
		return obj
	case TypeArray:
		items := s.Items()
		if items.IsZero() {
			return []any{}
		}
		if v := d.generate(items, depth+1); v != nil {
			return []any{v}
		}
		return []any{}
	case TypeString:
		if def, ok := s.Default(); ok && truthy(def) {
			return def
		}
		return ""
	case TypeNumber, TypeInteger:
		if def, ok := s.Default(); ok && truthy(def) {
			return def
		}
		return int64(0)
	case TypeBoolean:
		if def, ok := s.Default(); ok && truthy(def) {
			return def
		}
		return false
	}
	return nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case int64:
		return t != 0
	case float64:
		return t != 0
	}
	return true
}
