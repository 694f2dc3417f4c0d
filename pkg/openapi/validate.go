package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Issue is a single validation finding.
type Issue struct {
	Pointer string `json:"pointer,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Pointer == "" {
		return i.Message
	}
	return i.Pointer + ": " + i.Message
}

// BrokenRefs reports every local $ref that does not resolve.
func (d *Document) BrokenRefs() []Issue {
	var issues []Issue
	var walk func(n *yaml.Node, ptr string)
	walk = func(n *yaml.Node, ptr string) {
		n = deref(n)
		if n == nil {
			return
		}
		switch n.Kind {
		case yaml.MappingNode:
			for i := 0; i+1 < len(n.Content); i += 2 {
				key, v := n.Content[i].Value, n.Content[i+1]
				if key == "$ref" {
					ref := scalar(v)
					if strings.HasPrefix(ref, "#") {
						if _, ok := d.Lookup(ref); !ok {
							issues = append(issues, Issue{Pointer: ptr, Message: fmt.Sprintf("unresolvable $ref %q", ref)})
						}
					}
					continue
				}
				walk(v, ptr+"/"+escapePointer(key))
			}
		case yaml.SequenceNode:
			for i, c := range n.Content {
				walk(c, fmt.Sprintf("%s/%d", ptr, i))
			}
		}
	}
	walk(d.root, "#")
	return issues
}

func escapePointer(s string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(s)
}

// Validate checks the document against the OpenAPI 3 rules enforced by
// kin-openapi. Broken local refs are reported without loading.
func (d *Document) Validate(ctx context.Context) []Issue {
	if issues := d.BrokenRefs(); len(issues) > 0 {
		return issues
	}
	spec, err := d.kin()
	if err != nil {
		return []Issue{{Message: err.Error()}}
	}
	if err := spec.Validate(ctx); err != nil {
		return issuesFrom(err)
	}
	return nil
}

// ValidateBody checks body against the JSON request body schema of op.
func (d *Document) ValidateBody(ctx context.Context, op *Operation, body any) ([]Issue, error) {
	spec, err := d.kin()
	if err != nil {
		return nil, err
	}
	item := spec.Paths.Find(op.Path)
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, op.Path)
	}
	kop := item.GetOperation(strings.ToUpper(op.Method))
	if kop == nil {
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, op.Name())
	}
	if kop.RequestBody == nil || kop.RequestBody.Value == nil {
		return nil, nil
	}
	media := kop.RequestBody.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, nil
	}

	plain, err := plainJSON(body)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := media.Schema.Value.VisitJSON(plain, openapi3.MultiErrors()); err != nil {
		return issuesFrom(err), nil
	}
	return nil, nil
}

func (d *Document) kin() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	spec, err := loader.LoadFromData(d.raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return spec, nil
}

// plainJSON converts a value tree into the map/slice/float64 shapes
// kin-openapi validates.
func plainJSON(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func issuesFrom(err error) []Issue {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		var issues []Issue
		for _, e := range multi {
			issues = append(issues, issuesFrom(e)...)
		}
		return issues
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		ptr := "/" + strings.Join(se.JSONPointer(), "/")
		return []Issue{{Pointer: ptr, Message: se.Reason}}
	}
	return []Issue{{Message: err.Error()}}
}
