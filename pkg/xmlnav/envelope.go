package xmlnav

import (
	"regexp"
	"strings"

	"github.com/beevik/etree"
)

// SOAP envelope namespaces.
const (
	SOAP11Namespace = "http://schemas.xmlsoap.org/soap/envelope/"
	SOAP12Namespace = "http://www.w3.org/2003/05/soap-envelope"
)

// SOAPVersion identifies the envelope flavour of a document.
type SOAPVersion string

// Known SOAP versions.
const (
	SOAPNone SOAPVersion = ""
	SOAP11   SOAPVersion = "1.1"
	SOAP12   SOAPVersion = "1.2"
)

// DetectSOAPVersion inspects the root element for a SOAP envelope.
func DetectSOAPVersion(doc *etree.Document) SOAPVersion {
	if doc == nil || doc.Root() == nil {
		return SOAPNone
	}
	root := doc.Root()
	if !strings.EqualFold(LocalName(root), "Envelope") {
		return SOAPNone
	}
	switch root.NamespaceURI() {
	case SOAP12Namespace:
		return SOAP12
	case SOAP11Namespace:
		return SOAP11
	}
	for _, attr := range root.Attr {
		if isNamespaceDecl(attr) && attr.Value == SOAP12Namespace {
			return SOAP12
		}
	}
	return SOAP11
}

// NormalizeKey lowercases s and drops everything but ASCII letters and digits.
func NormalizeKey(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Body returns the first element named "body" (any case or prefix).
func Body(doc *etree.Document) *etree.Element {
	for _, el := range Elements(doc) {
		if NormalizeKey(LocalName(el)) == "body" {
			return el
		}
	}
	return nil
}

// Header returns the first element whose name contains "header" (any case
// or prefix), which covers SOAP Header as well as vendor wrappers such as
// <RequestHeader>.
func Header(doc *etree.Document) *etree.Element {
	for _, el := range Elements(doc) {
		if strings.Contains(NormalizeKey(LocalName(el)), "header") {
			return el
		}
	}
	return nil
}

var (
	backtickRun  = regexp.MustCompile("`\\s*|\\s*`")
	messageBlock = regexp.MustCompile(`(?is)<(?:\w+:)?message\b[^>]*>(.*?)</(?:\w+:)?message>`)
)

// StripBackticks removes markdown backticks and the whitespace around them.
func StripBackticks(s string) string {
	return backtickRun.ReplaceAllString(s, "")
}

// CleanLogPayload prepares XML pasted from a log viewer for parsing:
// backticks are removed and, when the payload sits inside a <message>
// element, only that element's content is kept.
func CleanLogPayload(s string) string {
	cleaned := StripBackticks(s)
	if m := messageBlock.FindStringSubmatch(cleaned); m != nil {
		if inner := strings.TrimSpace(m[1]); inner != "" {
			return inner
		}
	}
	return cleaned
}
