package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/xmlbridge/pkg/value"
)

// ErrOperationNotFound is returned when no operation matches a lookup.
var ErrOperationNotFound = errors.New("operation not found")

// Methods lists the HTTP methods recognized under a path item, in the
// order operations are reported.
var Methods = []string{"get", "post", "put", "delete", "patch", "head", "options"}

// Parameter is an operation or path-level parameter.
type Parameter struct {
	Name        string
	In          string
	Description string
	Required    bool
	Deprecated  bool
	Example     any
	Default     any
	Schema      Schema
}

// ExampleValue returns the parameter example, else its default, else the
// schema's example or default. ok is false when none is declared.
func (p Parameter) ExampleValue() (any, bool) {
	if p.Example != nil {
		return p.Example, true
	}
	if p.Default != nil {
		return p.Default, true
	}
	if v, ok := p.Schema.Example(); ok && v != nil {
		return v, true
	}
	if v, ok := p.Schema.Default(); ok && v != nil {
		return v, true
	}
	return nil, false
}

// ExampleString renders ExampleValue as text: strings as-is, objects and
// arrays as compact JSON, other scalars via fmt. It is "" when nothing is
// declared.
func (p Parameter) ExampleString() string {
	v, ok := p.ExampleValue()
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case *value.Object, []any:
		if data, err := json.Marshal(t); err == nil {
			return string(data)
		}
	}
	return fmt.Sprint(v)
}

// RequestBody is the JSON request body of an operation.
type RequestBody struct {
	ContentType string
	Schema      Schema
	Example     any
	HasExample  bool
	Required    bool
}

// Operation is a single method on a path.
type Operation struct {
	Method      string
	Path        string
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Parameters  []Parameter
	RequestBody *RequestBody
}

// Name returns the operation id, or "METHOD path" when it has none.
func (o *Operation) Name() string {
	if o.OperationID != "" {
		return o.OperationID
	}
	return strings.ToUpper(o.Method) + " " + o.Path
}

// HasBody reports whether the method carries a request body.
func (o *Operation) HasBody() bool {
	switch strings.ToUpper(o.Method) {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}

// ParametersIn returns the parameters located in loc ("path", "query",
// "header" or "cookie").
func (o *Operation) ParametersIn(loc string) []Parameter {
	var out []Parameter
	for _, p := range o.Parameters {
		if p.In == loc {
			out = append(out, p)
		}
	}
	return out
}

// Operations lists every operation in path order, then method order.
// Path-level parameters are merged in unless the operation overrides them.
func (d *Document) Operations() []*Operation {
	var ops []*Operation
	pairs(field(d.root, "paths"), func(path string, item *yaml.Node) {
		item = d.resolveNode(item)
		shared := d.parameters(field(item, "parameters"))
		for _, method := range Methods {
			opNode := field(item, method)
			if !isMapping(opNode) {
				continue
			}
			ops = append(ops, d.operation(path, method, opNode, shared))
		}
	})
	return ops
}

// FindOperation returns the operation whose id equals id, or whose
// "METHOD path" route matches it with the method in any case. The route
// form works whether or not the operation declares an id.
func (d *Document) FindOperation(id string) (*Operation, error) {
	for _, op := range d.Operations() {
		if op.OperationID != "" && op.OperationID == id {
			return op, nil
		}
	}
	if method, path, ok := strings.Cut(strings.TrimSpace(id), " "); ok {
		if op, err := d.FindByRoute(method, strings.TrimSpace(path)); err == nil {
			return op, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, id)
}

// FindByRoute returns the operation for method and path.
func (d *Document) FindByRoute(method, path string) (*Operation, error) {
	for _, op := range d.Operations() {
		if strings.EqualFold(op.Method, method) && op.Path == path {
			return op, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %s", ErrOperationNotFound, strings.ToUpper(method), path)
}

func (d *Document) operation(path, method string, n *yaml.Node, shared []Parameter) *Operation {
	op := &Operation{
		Method:      method,
		Path:        path,
		OperationID: scalar(field(n, "operationId")),
		Summary:     scalar(field(n, "summary")),
		Description: scalar(field(n, "description")),
	}
	if tags := field(n, "tags"); tags != nil && tags.Kind == yaml.SequenceNode {
		for _, t := range tags.Content {
			if v := scalar(t); v != "" {
				op.Tags = append(op.Tags, v)
			}
		}
	}

	own := d.parameters(field(n, "parameters"))
	seen := make(map[string]bool, len(own))
	for _, p := range own {
		seen[p.In+"\x00"+p.Name] = true
	}
	for _, p := range shared {
		if !seen[p.In+"\x00"+p.Name] {
			op.Parameters = append(op.Parameters, p)
		}
	}
	op.Parameters = append(op.Parameters, own...)

	op.RequestBody = d.requestBody(field(n, "requestBody"))
	return op
}

func (d *Document) parameters(n *yaml.Node) []Parameter {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	var out []Parameter
	for _, c := range n.Content {
		p := d.resolveNode(c)
		if !isMapping(p) {
			continue
		}
		param := Parameter{
			Name:        scalar(field(p, "name")),
			In:          scalar(field(p, "in")),
			Description: scalar(field(p, "description")),
			Required:    boolField(p, "required"),
			Deprecated:  boolField(p, "deprecated"),
			Schema:      SchemaFromNode(field(p, "schema")),
		}
		if e := field(p, "example"); e != nil {
			param.Example = toValue(e)
		}
		if s, err := d.Resolve(param.Schema); err == nil {
			if def, ok := s.Default(); ok {
				param.Default = def
			}
		}
		out = append(out, param)
	}
	return out
}

func (d *Document) requestBody(n *yaml.Node) *RequestBody {
	n = d.resolveNode(n)
	content := field(n, "content")
	if !isMapping(content) {
		return nil
	}

	contentType := "application/json"
	media := field(content, contentType)
	if media == nil {
		pairs(content, func(k string, v *yaml.Node) {
			if media == nil {
				contentType, media = k, v
			}
		})
	}

	rb := &RequestBody{
		ContentType: contentType,
		Schema:      SchemaFromNode(field(media, "schema")),
		Required:    boolField(n, "required"),
	}
	if e := field(media, "example"); e != nil {
		rb.Example, rb.HasExample = exampleValue(e), true
	} else {
		pairs(field(media, "examples"), func(_ string, ex *yaml.Node) {
			if rb.HasExample {
				return
			}
			if v := field(d.resolveNode(ex), "value"); v != nil {
				rb.Example, rb.HasExample = exampleValue(v), true
			}
		})
	}
	return rb
}

// exampleValue converts an example node; string examples holding JSON
// text are decoded.
func exampleValue(n *yaml.Node) any {
	v := toValue(n)
	if s, ok := v.(string); ok {
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			if decoded, err := value.Decode([]byte(trimmed)); err == nil {
				return decoded
			}
		}
	}
	return v
}

// resolveNode follows a $ref on a non-schema object (parameter, request
// body, path item). Unresolvable refs yield nil.
func (d *Document) resolveNode(n *yaml.Node) *yaml.Node {
	for range maxRefHops {
		ref := scalar(field(n, "$ref"))
		if ref == "" {
			return n
		}
		if !strings.HasPrefix(ref, "#/") {
			return nil
		}
		next, ok := d.Lookup(ref)
		if !ok {
			return nil
		}
		n = next
	}
	return nil
}

// Errors returned by TargetSchema.
var (
	ErrSchemaNotFound = errors.New("schema not found")
	ErrNoRequestBody  = errors.New("operation has no request body schema")
)

// TargetSchema picks the schema a mapping targets: the schema at pointer
// when given, else the request body schema of operation. A pointer that
// does not start with '#' or '/' names a component schema, so "Order"
// means "#/components/schemas/Order".
func (d *Document) TargetSchema(pointer, operation string) (Schema, error) {
	switch {
	case pointer != "":
		if !strings.HasPrefix(pointer, "#") && !strings.HasPrefix(pointer, "/") {
			pointer = "#/components/schemas/" + escapePointer(pointer)
		}
		s, ok := d.Schema(pointer)
		if !ok {
			return Schema{}, fmt.Errorf("%w: %s", ErrSchemaNotFound, pointer)
		}
		return s, nil
	case operation != "":
		op, err := d.FindOperation(operation)
		if err != nil {
			return Schema{}, err
		}
		if op.RequestBody == nil || op.RequestBody.Schema.IsZero() {
			return Schema{}, fmt.Errorf("%w: %s", ErrNoRequestBody, op.Name())
		}
		return op.RequestBody.Schema, nil
	default:
		return Schema{}, fmt.Errorf("%w: a schema pointer or an operation is required", ErrSchemaNotFound)
	}
}
