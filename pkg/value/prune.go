package value

// Prune removes empty strings, nulls, and arrays or objects that are empty
// once their own contents are pruned. Zero numbers and false are kept.
// The second result is false when v itself prunes away entirely.
func Prune(v any) (any, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case string:
		return t, t != ""
	case *Object:
		if t == nil {
			return nil, false
		}
		out := NewObject()
		for _, k := range t.keys {
			if pv, ok := Prune(t.values[k]); ok {
				out.Set(k, pv)
			}
		}
		return out, out.Len() > 0
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			if pv, ok := Prune(e); ok {
				out[k] = pv
			}
		}
		return out, len(out) > 0
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			if pv, ok := Prune(e); ok {
				out = append(out, pv)
			}
		}
		return out, len(out) > 0
	default:
		return v, true
	}
}

// PruneOrEmpty prunes v and returns an empty object when nothing is left.
func PruneOrEmpty(v any) any {
	if pv, ok := Prune(v); ok {
		return pv
	}
	return NewObject()
}
