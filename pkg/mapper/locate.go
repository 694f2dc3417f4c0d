package mapper

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/getmockd/xmlbridge/pkg/namematch"
	"github.com/getmockd/xmlbridge/pkg/openapi"
	"github.com/getmockd/xmlbridge/pkg/xmlnav"
)

// Boosts added to a candidate's name score when its structure fits the
// property schema.
const (
	objectKeyBoost     = 3
	maxObjectBoost     = 12
	arrayBoost         = 4
	primitiveTextBoost = 5
)

// SelectPayload returns the element of xmlDoc that satisfies the most
// properties of schema, counting one per property found as an attribute or
// child. Ties keep the earliest element in document order. The document
// root is returned when schema has no properties or nothing scores.
func SelectPayload(xmlDoc *etree.Document, schema openapi.Schema) *etree.Element {
	if xmlDoc == nil {
		return nil
	}
	root := xmlDoc.Root()
	if root == nil || !schema.HasProperties() {
		return root
	}

	keys := schema.PropertyNames()
	var best *etree.Element
	bestScore := 0
	for _, el := range xmlnav.Elements(xmlDoc) {
		score := 0
		for _, key := range keys {
			if coversKey(el, key) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = el, score
		}
	}
	if best == nil {
		return root
	}
	return best
}

// BestObjectElement returns the direct child of parent that covers the most
// of keys, scoring two per exact attribute and two per matching child
// element. It returns nil when no child scores.
func BestObjectElement(parent *etree.Element, keys []string) *etree.Element {
	if parent == nil || len(keys) == 0 {
		return nil
	}
	var best *etree.Element
	bestScore := 0
	for _, child := range parent.ChildElements() {
		score := 0
		for _, key := range keys {
			if xmlnav.HasAttribute(child, key) {
				score += 2
			}
			if xmlnav.FindChild(child, key) != nil {
				score += 2
			}
		}
		if score > bestScore {
			best, bestScore = child, score
		}
	}
	return best
}

// FindMatchingNode finds the element that carries property prop of the
// context element ctx.
//
// Attribute-bound properties resolve to ctx when the attribute is present.
// Otherwise every direct child is scored by its best name match against the
// schema's xml name, prop, and prop's singular and plural, plus a boost for
// structural fit. The best child wins if it reaches
// namematch.MinChildScore.
//
// When nothing qualifies ctx itself is returned, whether or not its own
// name matches prop, so primitive extraction can still probe it. Callers
// compare the result with ctx to tell the two apart.
func FindMatchingNode(doc *openapi.Document, ctx *etree.Element, prop string, schema openapi.Schema) *etree.Element {
	if ctx == nil || prop == "" {
		return ctx
	}
	resolved, err := doc.Resolve(schema)
	if err != nil {
		resolved = openapi.Schema{}
	}

	hint := resolved.XML()
	if hint.Attribute {
		name := hint.Name
		if name == "" {
			name = prop
		}
		if _, ok := xmlnav.Attribute(ctx, name); ok {
			return ctx
		}
	}

	candidates := make([]string, 0, 4)
	if hint.Name != "" {
		candidates = append(candidates, hint.Name)
	}
	candidates = append(candidates, prop, namematch.Singularize(prop), namematch.Pluralize(prop))

	var best *etree.Element
	bestScore := 0
	for _, child := range ctx.ChildElements() {
		nameScore := 0
		for _, c := range candidates {
			nameScore = max(nameScore, namematch.Score(xmlnav.LocalName(child), c))
		}
		if nameScore == 0 {
			continue
		}
		total := nameScore + structureBoost(child, resolved)
		if total > bestScore {
			best, bestScore = child, total
		}
	}
	if best != nil && bestScore >= namematch.MinChildScore {
		return best
	}
	return ctx
}

func structureBoost(child *etree.Element, s openapi.Schema) int {
	if s.IsZero() {
		return 0
	}
	switch t := openapi.TypeOf(s); {
	case t == openapi.TypeObject && s.HasProperties():
		matched := 0
		for _, key := range s.PropertyNames() {
			if coversKey(child, key) {
				matched++
			}
		}
		return min(maxObjectBoost, matched*objectKeyBoost)
	case t == openapi.TypeArray:
		return arrayBoost
	default:
		if strings.TrimSpace(xmlnav.Text(child)) != "" {
			return primitiveTextBoost
		}
	}
	return 0
}

// coversKey reports whether el carries key as an attribute or child.
func coversKey(el *etree.Element, key string) bool {
	if _, ok := xmlnav.Attribute(el, key); ok {
		return true
	}
	return xmlnav.FindChild(el, key) != nil
}
