package xmlnav

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/getmockd/xmlbridge/pkg/namematch"
)

// LocalName returns the element name without any namespace prefix.
func LocalName(el *etree.Element) string {
	if el == nil {
		return ""
	}
	return localPart(el.Tag)
}

func localPart(name string) string {
	if i := strings.LastIndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Text returns the concatenated text of el and all its descendants.
func Text(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var sb strings.Builder
	appendText(&sb, el)
	return sb.String()
}

func appendText(sb *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			appendText(sb, t)
		}
	}
}

// TrimmedText returns Text(el) with surrounding whitespace removed and
// mojibake repaired.
func TrimmedText(el *etree.Element) string {
	return RepairMojibake(strings.TrimSpace(Text(el)))
}

// HasElementChildren reports whether el has at least one child element.
func HasElementChildren(el *etree.Element) bool {
	if el == nil {
		return false
	}
	for _, tok := range el.Child {
		if _, ok := tok.(*etree.Element); ok {
			return true
		}
	}
	return false
}

// FindChild returns the first direct child whose local name equals name,
// then the first that equals it ignoring case, then the best fuzzy match
// scoring at least namematch.MinChildScore.
func FindChild(parent *etree.Element, name string) *etree.Element {
	if parent == nil || name == "" {
		return nil
	}
	children := parent.ChildElements()
	for _, child := range children {
		if LocalName(child) == name {
			return child
		}
	}
	for _, child := range children {
		if strings.EqualFold(LocalName(child), name) {
			return child
		}
	}
	best, _, _ := namematch.Best(children, LocalName, name, namematch.MinChildScore)
	return best
}

// FindChildren returns every direct child sharing the winning local name.
// Exact matches win over case-insensitive ones; when only a fuzzy match
// exists, all siblings carrying the best scorer's local name are returned.
func FindChildren(parent *etree.Element, name string) []*etree.Element {
	if parent == nil || name == "" {
		return nil
	}
	children := parent.ChildElements()

	var out []*etree.Element
	for _, child := range children {
		if LocalName(child) == name {
			out = append(out, child)
		}
	}
	if len(out) > 0 {
		return out
	}
	for _, child := range children {
		if strings.EqualFold(LocalName(child), name) {
			out = append(out, child)
		}
	}
	if len(out) > 0 {
		return out
	}

	best, _, ok := namematch.Best(children, LocalName, name, namematch.MinChildScore)
	if !ok {
		return nil
	}
	return childrenNamed(parent, LocalName(best))
}

// childrenNamed returns the direct children whose local name is exactly name.
func childrenNamed(parent *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	for _, child := range parent.ChildElements() {
		if LocalName(child) == name {
			out = append(out, child)
		}
	}
	return out
}

// FindAll returns root and every descendant whose local name is exactly
// name, in document order.
func FindAll(root *etree.Element, name string) []*etree.Element {
	if root == nil || name == "" {
		return nil
	}
	var out []*etree.Element
	Walk(root, func(el *etree.Element) bool {
		if LocalName(el) == name {
			out = append(out, el)
		}
		return true
	})
	return out
}

// Walk visits root and its descendants depth first in document order.
// Returning false from fn stops the walk.
func Walk(root *etree.Element, fn func(*etree.Element) bool) {
	if root == nil {
		return
	}
	walk(root, fn)
}

func walk(el *etree.Element, fn func(*etree.Element) bool) bool {
	if !fn(el) {
		return false
	}
	for _, child := range el.ChildElements() {
		if !walk(child, fn) {
			return false
		}
	}
	return true
}

// Elements returns every element of doc in document order.
func Elements(doc *etree.Document) []*etree.Element {
	if doc == nil {
		return nil
	}
	var out []*etree.Element
	Walk(doc.Root(), func(el *etree.Element) bool {
		out = append(out, el)
		return true
	})
	return out
}

// isNamespaceDecl reports whether attr declares a namespace.
func isNamespaceDecl(attr etree.Attr) bool {
	return attr.Space == "xmlns" || (attr.Space == "" && attr.Key == "xmlns")
}

// dataAttrs returns el's attributes minus namespace declarations.
func dataAttrs(el *etree.Element) []etree.Attr {
	attrs := make([]etree.Attr, 0, len(el.Attr))
	for _, a := range el.Attr {
		if !isNamespaceDecl(a) {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

// Attribute looks up an attribute by name: exact local or qualified name,
// then case-insensitive, then the best fuzzy match scoring at least
// namematch.MinAttributeScore. Values are returned with mojibake repaired.
// Namespace declarations are never matched.
func Attribute(el *etree.Element, name string) (string, bool) {
	if el == nil || name == "" {
		return "", false
	}
	attrs := dataAttrs(el)
	for _, a := range attrs {
		if a.Key == name || a.FullKey() == name {
			return RepairMojibake(a.Value), true
		}
	}
	for _, a := range attrs {
		if strings.EqualFold(a.Key, name) || strings.EqualFold(a.FullKey(), name) {
			return RepairMojibake(a.Value), true
		}
	}

	bestScore := 0
	bestValue := ""
	for _, a := range attrs {
		s := max(namematch.Score(a.Key, name), namematch.Score(a.FullKey(), name))
		if s > bestScore {
			bestScore, bestValue = s, a.Value
		}
	}
	if bestScore >= namematch.MinAttributeScore {
		return RepairMojibake(bestValue), true
	}
	return "", false
}

// HasAttribute reports whether el carries an attribute whose qualified
// name is exactly name.
func HasAttribute(el *etree.Element, name string) bool {
	if el == nil || name == "" {
		return false
	}
	for _, a := range dataAttrs(el) {
		if a.FullKey() == name {
			return true
		}
	}
	return false
}

// ExtractPrimitive finds a scalar value for field on el. It tries, in
// order: an attribute, the text of a matching child element, and el's own
// text when el's name scores at least namematch.MinOwnNameScore against
// field. It never looks at ancestors.
func ExtractPrimitive(el *etree.Element, field string) (string, bool) {
	if el == nil {
		return "", false
	}
	if v, ok := Attribute(el, field); ok && v != "" {
		return v, true
	}
	if child := FindChild(el, field); child != nil {
		if text := TrimmedText(child); text != "" {
			return text, true
		}
	}
	if namematch.Score(LocalName(el), field) >= namematch.MinOwnNameScore {
		if text := TrimmedText(el); text != "" {
			return text, true
		}
	}
	return "", false
}
