package mapper

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/xmlbridge/pkg/openapi"
	"github.com/getmockd/xmlbridge/pkg/xmlnav"
)

func TestConvertValue(t *testing.T) {
	tests := []struct {
		text string
		typ  openapi.Type
		want any
	}{
		{"42", openapi.TypeInteger, int64(42)},
		{"42.9", openapi.TypeInteger, int64(42)},
		{"-1.5", openapi.TypeInteger, int64(-2)},
		{"0x1A", openapi.TypeInteger, int64(26)},
		{"3.5", openapi.TypeNumber, 3.5},
		{"1e3", openapi.TypeNumber, 1000.0},
		{"abc", openapi.TypeNumber, "abc"},
		{"Infinity", openapi.TypeNumber, "Infinity"},
		{"1_000", openapi.TypeInteger, "1_000"},
		{"TRUE", openapi.TypeBoolean, true},
		{"yes", openapi.TypeBoolean, true},
		{"1", openapi.TypeBoolean, true},
		{"No", openapi.TypeBoolean, false},
		{"0", openapi.TypeBoolean, false},
		{"maybe", openapi.TypeBoolean, "maybe"},
		{"007", openapi.TypeString, "007"},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String()+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ConvertValue(tt.text, tt.typ))
		})
	}
}

func TestEnumContains(t *testing.T) {
	assert.True(t, enumContains([]any{int64(1), int64(2)}, int64(2)))
	assert.True(t, enumContains([]any{1.0, 2.5}, int64(1)))
	assert.True(t, enumContains([]any{"A", "B"}, "B"))
	assert.False(t, enumContains([]any{"A"}, "a"))
	assert.False(t, enumContains([]any{"1"}, int64(1)))
	assert.True(t, enumContains([]any{true}, true))
}

func parseRoot(t *testing.T, xml string) *etree.Element {
	t.Helper()
	doc, err := xmlnav.Parse(xml)
	require.NoError(t, err)
	return doc.Root()
}

func TestNameValuePair(t *testing.T) {
	tests := []struct {
		name   string
		xml    string
		want   string
		wantOK bool
	}{
		{"plain", `<p><name>a</name><value>1</value></p>`, `{"name":"a","value":"1"}`, true},
		{"portuguese aliases", `<p><chave>cor</chave><descricao>azul</descricao></p>`, `{"name":"cor","value":"azul"}`, true},
		{"case insensitive", `<p><Key>k</Key><Val>v</Val></p>`, `{"name":"k","value":"v"}`, true},
		{"empty value kept", `<p><field>f</field><content/></p>`, `{"name":"f","value":""}`, true},
		{"empty name", `<p><name> </name><value>1</value></p>`, "", false},
		{"no value element", `<p><name>a</name></p>`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, ok := NameValuePair(parseRoot(t, tt.xml))
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			out, err := pair.MarshalJSON()
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestSelectPayload(t *testing.T) {
	doc := schemaDoc(t, `
    Order:
      type: object
      properties:
        id:
          type: string
        total:
          type: number
`)
	order := schemaNamed(t, doc, "Order")

	xmlDoc, err := xmlnav.Parse(`<Envelope><Header><id>h</id></Header><Body><Order id="1"><total>2</total></Order></Body></Envelope>`)
	require.NoError(t, err)
	assert.Equal(t, "Order", xmlnav.LocalName(SelectPayload(xmlDoc, order)))

	assert.Equal(t, "Envelope", xmlnav.LocalName(SelectPayload(xmlDoc, openapi.Schema{})))

	none, err := xmlnav.Parse(`<Envelope><Other/></Envelope>`)
	require.NoError(t, err)
	assert.Equal(t, "Envelope", xmlnav.LocalName(SelectPayload(none, order)))
}

func TestBestObjectElement(t *testing.T) {
	root := parseRoot(t, `<r><a x="1"/><b x="1"><y>2</y></b><c><x>1</x></c></r>`)
	best := BestObjectElement(root, []string{"x", "y"})
	require.NotNil(t, best)
	assert.Equal(t, "b", xmlnav.LocalName(best))

	assert.Nil(t, BestObjectElement(root, nil))
	assert.Nil(t, BestObjectElement(root, []string{"zzz"}))
}

func TestFindMatchingNode(t *testing.T) {
	doc := schemaDoc(t, `
    Customer:
      type: object
      properties:
        name:
          type: string
        email:
          type: string
    Plain:
      type: string
`)
	customer := schemaNamed(t, doc, "Customer")
	plain := schemaNamed(t, doc, "Plain")

	root := parseRoot(t, `<r><customerRef>9</customerRef><Customer><name>Ana</name><email>a@x</email></Customer></r>`)
	got := FindMatchingNode(doc, root, "customer", customer)
	assert.Equal(t, "Customer", xmlnav.LocalName(got))

	// Nothing matches: the context comes back unchanged.
	assert.Same(t, root, FindMatchingNode(doc, root, "invoice", plain))

	self := parseRoot(t, `<Invoice>7</Invoice>`)
	assert.Same(t, self, FindMatchingNode(doc, self, "invoice", plain))

	assert.Nil(t, FindMatchingNode(doc, nil, "x", plain))
}
