package request

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/getmockd/xmlbridge/pkg/logging"
	"github.com/getmockd/xmlbridge/pkg/mapper"
	"github.com/getmockd/xmlbridge/pkg/openapi"
	"github.com/getmockd/xmlbridge/pkg/value"
	"github.com/getmockd/xmlbridge/pkg/xmlnav"
)

// Param is a path or query parameter row.
type Param struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description,omitempty"`
}

// Mapping is a request prepared for an operation.
type Mapping struct {
	Method      string              `json:"method"`
	Path        string              `json:"path"`
	PathParams  []Param             `json:"pathParams"`
	QueryParams []Param             `json:"queryParams"`
	Headers     []Header            `json:"headers"`
	HasBody     bool                `json:"hasBody"`
	Body        any                 `json:"body,omitempty"`
	BodyPruned  any                 `json:"bodyPruned,omitempty"`
	Diagnostics []mapper.Diagnostic `json:"diagnostics,omitempty"`
}

// Options configures Build.
type Options struct {
	// Headers replaces DefaultHeaders when non-nil.
	Headers []Header

	Logger *slog.Logger
}

var pathTemplate = regexp.MustCompile(`\{([^}]+)\}`)

// Build prepares a request for op from an XML log sample. xmlText may be
// empty, in which case values come from the document's examples and
// defaults only.
func Build(doc *openapi.Document, op *openapi.Operation, xmlText string, opts Options) *Mapping {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	sample := ParseLog(xmlText)

	m := &Mapping{
		Method:      strings.ToUpper(op.Method),
		Path:        op.Path,
		PathParams:  []Param{},
		QueryParams: []Param{},
		Headers:     []Header{},
	}

	for _, name := range PathParamNames(op.Path) {
		v := sample.Param(name)
		if v == "" {
			v = exampleString(findParam(op, name, "path"))
		}
		m.PathParams = append(m.PathParams, Param{Key: name, Value: v, Enabled: true})
	}

	for _, p := range op.ParametersIn("query") {
		v := exampleString(&p)
		if fromXML := sample.Param(p.Name); fromXML != "" {
			v = fromXML
		}
		m.QueryParams = append(m.QueryParams, Param{Key: p.Name, Value: v, Enabled: true, Description: p.Description})
	}

	m.Headers = buildHeaders(op, sample, opts.Headers)

	if op.HasBody() && op.RequestBody != nil {
		m.HasBody = true
		m.Body, m.Diagnostics = buildBody(doc, op.RequestBody, xmlText, log)
		m.BodyPruned = value.PruneOrEmpty(m.Body)
	}

	log.Debug("request prepared",
		"operation", op.Name(),
		"pathParams", len(m.PathParams),
		"queryParams", len(m.QueryParams),
		"headers", len(m.Headers),
		"diagnostics", len(m.Diagnostics))
	return m
}

// PathParamNames returns the {name} placeholders of a path template in
// order.
func PathParamNames(path string) []string {
	var names []string
	for _, match := range pathTemplate.FindAllStringSubmatch(path, -1) {
		names = append(names, match[1])
	}
	return names
}

// ParamFromXML looks up a parameter value in an XML log sample.
func ParamFromXML(xmlText, field string) string {
	return ParseLog(xmlText).Param(field)
}

func buildHeaders(op *openapi.Operation, sample *LogSample, defaults []Header) []Header {
	if defaults == nil {
		defaults = DefaultHeaders()
	}
	headers := []Header{}

	for _, p := range op.ParametersIn("header") {
		if !p.Required || p.Deprecated {
			continue
		}
		headers = MergeHeader(headers, Header{
			Key:         p.Name,
			Value:       exampleString(&p),
			Enabled:     true,
			Description: strings.TrimSpace(TagRequired + " " + p.Description),
			Source:      SourceRequired,
			Removable:   false,
			Locked:      true,
		})
	}

	for _, h := range defaults {
		headers = MergeHeader(headers, Header{
			Key:       h.Key,
			Value:     h.Value,
			Enabled:   true,
			Source:    SourceDefault,
			Removable: true,
		})
	}

	for _, kv := range sample.Headers() {
		key := CanonicalHeaderKey(kv.Key)
		v := strings.TrimSpace(kv.Value)
		if i := IndexHeader(headers, key); isPromoted(kv.Key) && i >= 0 {
			tagHeader(&headers[i], v, TagXMLMapped)
			continue
		}
		headers = MergeHeader(headers, Header{
			Key:         key,
			Value:       v,
			Description: TagXMLDetected,
			Source:      SourceXML,
			Removable:   true,
		})
	}

	for _, kv := range sample.CanonicalHeaderValues() {
		i := IndexHeader(headers, kv.Key)
		if i < 0 {
			headers = MergeHeader(headers, Header{
				Key:         kv.Key,
				Value:       kv.Value,
				Enabled:     true,
				Description: TagXMLMapped,
				Source:      SourceXML,
				Removable:   true,
			})
			continue
		}
		tagHeader(&headers[i], kv.Value, TagXMLMapped)
	}
	return headers
}

// buildBody starts from the declared example, or one generated from the
// schema, and replaces it with the XML mapping when there is XML to map.
// A mapping failure keeps the example and is reported as a diagnostic.
func buildBody(doc *openapi.Document, rb *openapi.RequestBody, xmlText string, log *slog.Logger) (any, []mapper.Diagnostic) {
	var body any
	if rb.HasExample {
		body = rb.Example
	} else {
		body = doc.GenerateExample(rb.Schema)
	}
	if strings.TrimSpace(xmlText) == "" || rb.Schema.IsZero() {
		return body, nil
	}

	payload := xmlnav.CleanLogPayload(xmlText)
	res, err := mapper.Map(doc, rb.Schema, payload, mapper.Options{Logger: log})
	if err != nil {
		log.Warn("XML mapping failed, keeping example body", "error", err)
		return body, []mapper.Diagnostic{{Message: fmt.Sprintf("XML mapping failed: %v", err)}}
	}
	if res.Value != nil {
		body = res.Value
	}
	return body, res.Diagnostics
}

func findParam(op *openapi.Operation, name, in string) *openapi.Parameter {
	for i := range op.Parameters {
		if op.Parameters[i].Name == name && op.Parameters[i].In == in {
			return &op.Parameters[i]
		}
	}
	return nil
}

func exampleString(p *openapi.Parameter) string {
	if p == nil {
		return ""
	}
	return p.ExampleString()
}
