package mapper

import (
	"fmt"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/xmlbridge/pkg/value"
)

// Select evaluates a JSONPath expression such as "$.lines[*].sku" against
// a mapped value.
func Select(v any, expr string) ([]any, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", expr, err)
	}
	return x.Get(value.Plain(v)), nil
}
