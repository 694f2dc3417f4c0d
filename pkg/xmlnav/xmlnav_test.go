package xmlnav

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) *etree.Element {
	t.Helper()
	doc, err := Parse(text)
	require.NoError(t, err)
	return doc.Root()
}

func TestParse_WellFormed(t *testing.T) {
	root := mustParse(t, `  <ns:Root xmlns:ns="urn:x"><id>7</id></ns:Root>  `)
	assert.Equal(t, "Root", LocalName(root))
	assert.Equal(t, "7", Text(FindChild(root, "id")))
}

func TestParse_RepairsNamespaceDeclarations(t *testing.T) {
	tests := []struct {
		name string
		xml  string
	}{
		{"space after colon", `<Root xmlns: "urn:a"><id>1</id></Root>`},
		{"spaced prefix", `<p:Root xmlns : p = "urn:a"><id>1</id></p:Root>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := mustParse(t, tt.xml)
			assert.Equal(t, "Root", LocalName(root))
			assert.Equal(t, "1", Text(FindChild(root, "id")))
		})
	}
}

func TestParse_WrapsLooseContent(t *testing.T) {
	t.Run("concatenated roots", func(t *testing.T) {
		root := mustParse(t, `<a>1</a><b>2</b>`)
		assert.Equal(t, SyntheticRoot, LocalName(root))
		assert.Len(t, root.ChildElements(), 2)
	})

	t.Run("declaration before concatenated roots", func(t *testing.T) {
		root := mustParse(t, `<?xml version="1.0"?><a>1</a><b>2</b>`)
		assert.Equal(t, SyntheticRoot, LocalName(root))
		assert.Len(t, root.ChildElements(), 2)
	})

	t.Run("plain text", func(t *testing.T) {
		root := mustParse(t, `hello`)
		assert.Equal(t, SyntheticRoot, LocalName(root))
		assert.Equal(t, "hello", Text(root))
	})
}

func TestParse_MissingClosingTag(t *testing.T) {
	_, err := Parse(`<Root><id>7</id>`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidXML)
	assert.Contains(t, err.Error(), "XML")
	assert.Contains(t, err.Error(), "namespace")
}

func TestParse_LegacyCharset(t *testing.T) {
	data := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><r>Telem`), 0xF3, 'v', 'e', 'l')
	data = append(data, []byte(`</r>`)...)
	doc, err := SafeParser{}.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "Telemóvel", Text(doc.Root()))
}

func TestFindChild(t *testing.T) {
	root := mustParse(t, `<r><FirstName>a</FirstName><firstname>b</firstname><first_name_x>c</first_name_x></r>`)

	assert.Equal(t, "a", Text(FindChild(root, "FirstName")))
	assert.Equal(t, "b", Text(FindChild(root, "firstname")))
	assert.Equal(t, "a", Text(FindChild(root, "FIRSTNAME")))
	assert.Equal(t, "a", Text(FindChild(root, "first_name")))
	assert.Nil(t, FindChild(root, "lastName"))
	assert.Nil(t, FindChild(nil, "x"))
}

func TestFindChildren(t *testing.T) {
	root := mustParse(t, `<r><ns:Item xmlns:ns="u">1</ns:Item><ns:Item xmlns:ns="u">2</ns:Item><Other/></r>`)

	t.Run("exact", func(t *testing.T) {
		assert.Len(t, FindChildren(root, "Item"), 2)
	})
	t.Run("case-insensitive", func(t *testing.T) {
		assert.Len(t, FindChildren(root, "item"), 2)
	})
	t.Run("fuzzy groups by winning name", func(t *testing.T) {
		items := FindChildren(root, "items")
		require.Len(t, items, 2)
		assert.Equal(t, "2", Text(items[1]))
	})
	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, FindChildren(root, "customer"))
	})
}

func TestFindAll(t *testing.T) {
	root := mustParse(t, `<code><a><code>1</code></a><Code>2</Code></code>`)
	found := FindAll(root, "code")
	require.Len(t, found, 2)
	assert.Same(t, root, found[0])
}

func TestAttribute(t *testing.T) {
	root := mustParse(t, `<r xmlns="urn:d" xmlns:p="urn:p" p:customerId="42" Status="ok" city="Lisboa" note="TelemÃ³vel"/>`)

	v, ok := Attribute(root, "customerId")
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	v, ok = Attribute(root, "p:customerId")
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	v, ok = Attribute(root, "status")
	assert.True(t, ok)
	assert.Equal(t, "ok", v)

	v, ok = Attribute(root, "customer_id")
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	v, _ = Attribute(root, "note")
	assert.Equal(t, "Telemóvel", v)

	_, ok = Attribute(root, "xmlns")
	assert.False(t, ok)
	_, ok = Attribute(root, "country")
	assert.False(t, ok)

	assert.True(t, HasAttribute(root, "city"))
	assert.False(t, HasAttribute(root, "City"))
}

func TestExtractPrimitive(t *testing.T) {
	root := mustParse(t, `<Customer id="9"><Name> Ana </Name><Empty/><Address><City>Porto</City></Address></Customer>`)

	v, ok := ExtractPrimitive(root, "id")
	assert.True(t, ok)
	assert.Equal(t, "9", v)

	v, ok = ExtractPrimitive(root, "name")
	assert.True(t, ok)
	assert.Equal(t, "Ana", v)

	_, ok = ExtractPrimitive(root, "empty")
	assert.False(t, ok)

	_, ok = ExtractPrimitive(root, "city")
	assert.False(t, ok, "never descends past direct children")

	name := FindChild(root, "Name")
	v, ok = ExtractPrimitive(name, "NAME")
	assert.True(t, ok, "own name stands in for the field")
	assert.Equal(t, "Ana", v)

	_, ok = ExtractPrimitive(name, "surname")
	assert.False(t, ok)
}

func TestRepairMojibake(t *testing.T) {
	assert.Equal(t, "Telemóvel", RepairMojibake("TelemÃ³vel"))
	assert.Equal(t, "São Paulo", RepairMojibake("SÃ£o Paulo"))
	assert.Equal(t, "ação", RepairMojibake("aÃ\u0083Â§Ã\u0083Â£o"), "double encoded")

	for _, clean := range []string{"", "Telemóvel", "plain ascii", "SÃO"} {
		once := RepairMojibake(clean)
		assert.Equal(t, clean, once)
		assert.Equal(t, once, RepairMojibake(once))
	}
}

func TestLooksLikeMojibake(t *testing.T) {
	assert.True(t, LooksLikeMojibake("TelemÃ³vel"))
	assert.True(t, LooksLikeMojibake("bad � char"))
	assert.False(t, LooksLikeMojibake("Telemóvel"))
	assert.False(t, LooksLikeMojibake(""))
}

func TestEnvelope(t *testing.T) {
	doc, err := Parse(`<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Header><process>Billing</process></soapenv:Header>
  <soapenv:Body><GetCustomer><id>1</id></GetCustomer></soapenv:Body>
</soapenv:Envelope>`)
	require.NoError(t, err)

	assert.Equal(t, SOAP11, DetectSOAPVersion(doc))
	require.NotNil(t, Body(doc))
	assert.Equal(t, "GetCustomer", LocalName(Body(doc).ChildElements()[0]))
	require.NotNil(t, Header(doc))
	assert.Equal(t, "Billing", TrimmedText(FindChild(Header(doc), "process")))

	plain, err := Parse(`<r/>`)
	require.NoError(t, err)
	assert.Equal(t, SOAPNone, DetectSOAPVersion(plain))
	assert.Nil(t, Body(plain))
}

func TestCleanLogPayload(t *testing.T) {
	assert.Equal(t, "<a>1</a>", CleanLogPayload("```\n<a>1</a>\n```"))
	assert.Equal(t, "<x:Envelope/>",
		CleanLogPayload(`<log><ns:message level="info"> <x:Envelope/> </ns:message></log>`))
	assert.Equal(t, "<a/>", CleanLogPayload("<a/>"))
	assert.Equal(t, "xflowid", NormalizeKey("X-Flow-ID"))
}
