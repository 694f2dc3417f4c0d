package mapper

import (
	"github.com/beevik/etree"

	"github.com/getmockd/xmlbridge/pkg/namematch"
	"github.com/getmockd/xmlbridge/pkg/value"
	"github.com/getmockd/xmlbridge/pkg/xmlnav"
)

// Aliases recognized for the two halves of a generic name/value element.
var (
	pairNameFields  = []string{"name", "key", "field", "nome", "chave"}
	pairValueFields = []string{"value", "val", "content", "valor", "conteudo", "description", "descricao"}
)

// NameValuePair reads el as a generic key/value element such as
// <attr><key>color</key><valor>red</valor></attr> and returns
// {"name": ..., "value": ...}. The name must be non-empty; the value
// element must exist but may be empty.
func NameValuePair(el *etree.Element) (*value.Object, bool) {
	if el == nil {
		return nil, false
	}
	nameEl := pairField(el, pairNameFields)
	valueEl := pairField(el, pairValueFields)
	if nameEl == nil || valueEl == nil {
		return nil, false
	}
	name := xmlnav.TrimmedText(nameEl)
	if name == "" {
		return nil, false
	}

	pair := value.NewObject()
	pair.Set("name", name)
	pair.Set("value", xmlnav.TrimmedText(valueEl))
	return pair, true
}

func pairField(el *etree.Element, aliases []string) *etree.Element {
	for _, alias := range aliases {
		child := xmlnav.FindChild(el, alias)
		if child != nil && namematch.Score(xmlnav.LocalName(child), alias) >= namematch.MinPairScore {
			return child
		}
	}
	return nil
}
