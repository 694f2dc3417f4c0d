package xmlnav

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// ErrInvalidXML is returned when the input cannot be parsed even after repair.
var ErrInvalidXML = errors.New("invalid XML input")

// SyntheticRoot is the element name used to wrap inputs that have no single
// root element.
const SyntheticRoot = "__root__"

// Parser turns raw XML into an element tree.
type Parser interface {
	Parse(data []byte) (*etree.Document, error)
}

// StrictParser parses well-formed XML only. Legacy encodings declared in
// the XML prolog (ISO-8859-1, windows-1252, ...) are decoded to UTF-8.
type StrictParser struct{}

// Parse implements Parser.
func (StrictParser) Parse(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		ValidateInput: true,
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, err
	}
	if doc.Root() == nil {
		return nil, errors.New("no root element")
	}
	return doc, nil
}

var (
	emptyDefaultNS = regexp.MustCompile(`xmlns:\s*"`)
	spacedPrefixNS = regexp.MustCompile(`xmlns\s*:\s*([^=\s]+)\s*=\s*"`)
	backtickNS     = regexp.MustCompile("(xmlns(?::[^=\\s]+)?)\\s*=\\s*\"\\s*`([^`]+)`\\s*\"")
	siblingRoots   = regexp.MustCompile(`</\w+>\s*<\w+`)
	xmlDecl        = regexp.MustCompile(`^<\?xml[^>]*\?>`)
)

// SafeParser parses XML that may need repair before it is well formed.
//
// On a parse error it first rewrites malformed namespace declarations
// (`xmlns: "..."`, `xmlns : ns = "..."`, backtick-quoted URIs). Inputs that
// do not start with '<', or that hold more than one top-level element, are
// wrapped in a synthetic <__root__> element.
type SafeParser struct {
	// Base does the actual parsing. Defaults to StrictParser.
	Base Parser
}

// Parse implements Parser.
func (p SafeParser) Parse(data []byte) (*etree.Document, error) {
	base := p.Base
	if base == nil {
		base = StrictParser{}
	}

	input := bytes.TrimSpace(data)
	doc, err := base.Parse(input)
	if err == nil && !hasLooseTopLevel(doc) {
		return doc, nil
	}

	if err != nil {
		if repaired := repairNamespaces(input); !bytes.Equal(repaired, input) {
			if fixed, rerr := base.Parse(repaired); rerr == nil && !hasLooseTopLevel(fixed) {
				return fixed, nil
			}
		}
	}

	if err == nil || !bytes.HasPrefix(input, []byte("<")) || siblingRoots.Match(input) {
		body := xmlDecl.ReplaceAll(input, nil)
		wrapped := make([]byte, 0, len(body)+2*len(SyntheticRoot)+5)
		wrapped = append(wrapped, "<"+SyntheticRoot+">"...)
		wrapped = append(wrapped, body...)
		wrapped = append(wrapped, "</"+SyntheticRoot+">"...)
		if doc, werr := base.Parse(wrapped); werr == nil {
			return doc, nil
		} else if err == nil {
			err = werr
		}
	}

	return nil, fmt.Errorf("%w: check the XML syntax, especially the namespace declarations (%v)", ErrInvalidXML, err)
}

func repairNamespaces(data []byte) []byte {
	out := emptyDefaultNS.ReplaceAll(data, []byte(`xmlns="`))
	out = spacedPrefixNS.ReplaceAll(out, []byte(`xmlns:$1="`))
	out = backtickNS.ReplaceAll(out, []byte(`$1="$2"`))
	return out
}

// hasLooseTopLevel reports whether the document holds more than one
// top-level element or non-whitespace text outside the root.
func hasLooseTopLevel(doc *etree.Document) bool {
	elements := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			elements++
		case *etree.CharData:
			if !t.IsWhitespace() {
				return true
			}
		}
	}
	return elements > 1
}

// Parse parses text with a SafeParser and returns the document.
func Parse(text string) (*etree.Document, error) {
	return SafeParser{}.Parse([]byte(text))
}
