package mapper

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/getmockd/xmlbridge/pkg/namematch"
	"github.com/getmockd/xmlbridge/pkg/openapi"
	"github.com/getmockd/xmlbridge/pkg/xmlnav"
)

// defaultItemName frames items of a root array when nothing names it.
const defaultItemName = "item"

func (m *mapper) mapArray(s openapi.Schema, el *etree.Element, path string, depth int) []any {
	out := []any{}
	items := s.Items()
	if items.IsZero() {
		m.diag(path, "items schema missing for array at node %s", xmlnav.LocalName(el))
		return out
	}

	name := lastSegment(path)
	if name == "" {
		name = m.rootName
	}
	if name == "" {
		name = defaultItemName
	}

	var keys []string
	objectItems := false
	if resolved, err := m.doc.Resolve(items); err == nil && resolved.HasProperties() {
		keys, objectItems = resolved.PropertyNames(), true
	}
	pairs := objectItems && hasKeyFold(keys, "name") && hasKeyFold(keys, "value")

	nodes := itemNodes(el, name, keys, objectItems)
	m.log.Debug("array items framed", "path", path, "name", name, "count", len(nodes))

	for _, node := range nodes {
		if pairs {
			if pair, ok := NameValuePair(node); ok {
				out = append(out, pair)
				continue
			}
		}
		if v, ok := m.mapSchema(items, node, path+"[]", depth+1); ok && v != nil {
			out = append(out, v)
		}
	}
	return out
}

// itemNodes finds the elements holding the items of array name under ctx:
// the children of a wrapper element, else repeated children named after
// the singular of name, else (for object items) the repeated children that
// best cover the item keys.
func itemNodes(ctx *etree.Element, name string, keys []string, objectItems bool) []*etree.Element {
	if wrapper := findWrapper(ctx, name); wrapper != nil {
		return wrappedItems(wrapper, keys, objectItems)
	}
	if nodes := xmlnav.FindChildren(ctx, namematch.Singularize(name)); len(nodes) > 0 {
		return nodes
	}
	if objectItems {
		return coveringSiblings(ctx, keys)
	}
	return nil
}

// findWrapper returns the child of ctx named after the array, or ctx
// itself when it carries the name better than that child.
func findWrapper(ctx *etree.Element, name string) *etree.Element {
	wrapper := xmlnav.FindChild(ctx, name)
	if wrapper == nil {
		return nil
	}
	if carriesOwnName(ctx, wrapper, name) {
		return ctx
	}
	return wrapper
}

// carriesOwnName reports whether ctx is named name while its child only
// matches name fuzzily: in <Codes><Code/><Code/></Codes> the first Code is
// an item of codes, not its wrapper.
func carriesOwnName(ctx, child *etree.Element, name string) bool {
	return namematch.Score(xmlnav.LocalName(child), name) < namematch.MinSelfScore &&
		namematch.Score(xmlnav.LocalName(ctx), name) >= namematch.MinSelfScore
}

func wrappedItems(wrapper *etree.Element, keys []string, objectItems bool) []*etree.Element {
	children := wrapper.ChildElements()
	if !objectItems {
		if len(children) == 0 && len(wrapper.Child) == 0 {
			return []*etree.Element{wrapper}
		}
		return children
	}

	var out []*etree.Element
	for _, child := range children {
		if coversAnyKey(child, keys) {
			out = append(out, child)
		}
	}
	if len(out) == 0 && sameLocalName(children) {
		for _, child := range children {
			if isLeafNamedLike(child, keys) {
				out = append(out, child)
			}
		}
	}
	if len(out) == 0 && coversAnyKey(wrapper, keys) {
		out = append(out, wrapper)
	}
	return out
}

// coveringSiblings groups the children of ctx by local name, sums how many
// item keys each group covers, and returns the best group.
func coveringSiblings(ctx *etree.Element, keys []string) []*etree.Element {
	counts := make(map[string]int)
	var order []string
	for _, child := range ctx.ChildElements() {
		n := 0
		for _, key := range keys {
			if xmlnav.HasAttribute(child, key) {
				n++
			}
			if xmlnav.FindChild(child, key) != nil {
				n++
			}
		}
		if n == 0 {
			continue
		}
		name := xmlnav.LocalName(child)
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name] += n
	}

	best, bestCount := "", 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	if best == "" {
		return nil
	}
	return xmlnav.FindChildren(ctx, best)
}

func coversAnyKey(el *etree.Element, keys []string) bool {
	for _, key := range keys {
		if coversKey(el, key) {
			return true
		}
	}
	return false
}

// isLeafNamedLike reports whether el has no child elements and its own
// name stands for one of keys.
func isLeafNamedLike(el *etree.Element, keys []string) bool {
	if xmlnav.HasElementChildren(el) {
		return false
	}
	for _, key := range keys {
		if namematch.Score(xmlnav.LocalName(el), key) >= namematch.MinOwnNameScore {
			return true
		}
	}
	return false
}

func sameLocalName(els []*etree.Element) bool {
	if len(els) == 0 {
		return false
	}
	first := xmlnav.LocalName(els[0])
	for _, el := range els[1:] {
		if xmlnav.LocalName(el) != first {
			return false
		}
	}
	return true
}

func hasKeyFold(keys []string, want string) bool {
	for _, k := range keys {
		if strings.EqualFold(k, want) {
			return true
		}
	}
	return false
}
