package portability

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/getmockd/xmlbridge/pkg/openapi"
	"github.com/getmockd/xmlbridge/pkg/request"
)

// PostmanSchema is the collection format identifier written to info.schema.
const PostmanSchema = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

//go:embed prerequest.js
var prerequestScript string

// Postman Collection v2.1 types

// PostmanCollection represents a Postman Collection v2.1.
type PostmanCollection struct {
	Info     PostmanInfo       `json:"info"`
	Item     []PostmanItem     `json:"item"`
	Variable []PostmanVariable `json:"variable,omitempty"`
	Auth     *PostmanAuth      `json:"auth,omitempty"`
}

// PostmanInfo contains collection metadata.
type PostmanInfo struct {
	PostmanID   string `json:"_postman_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Schema      string `json:"schema"`
}

// PostmanItem is a request or, when Item is set, a folder.
type PostmanItem struct {
	Name    string          `json:"name"`
	Request *PostmanRequest `json:"request,omitempty"`
	Item    []PostmanItem   `json:"item,omitempty"`
	Event   []PostmanEvent  `json:"event,omitempty"`
}

// PostmanRequest represents a Postman request.
type PostmanRequest struct {
	Method      string          `json:"method"`
	Header      []PostmanHeader `json:"header"`
	URL         PostmanURL      `json:"url"`
	Body        *PostmanBody    `json:"body,omitempty"`
	Description string          `json:"description,omitempty"`
}

// PostmanURL represents a URL in Postman format.
type PostmanURL struct {
	Raw      string            `json:"raw"`
	Host     []string          `json:"host,omitempty"`
	Path     []string          `json:"path,omitempty"`
	Query    []PostmanQuery    `json:"query,omitempty"`
	Variable []PostmanVariable `json:"variable,omitempty"`
}

// PostmanQuery represents a query parameter.
type PostmanQuery struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// PostmanHeader represents a request header.
type PostmanHeader struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

// PostmanBody represents a raw request body.
type PostmanBody struct {
	Mode    string              `json:"mode"`
	Raw     string              `json:"raw,omitempty"`
	Options *PostmanBodyOptions `json:"options,omitempty"`
}

// PostmanBodyOptions tells Postman how to highlight a raw body.
type PostmanBodyOptions struct {
	Raw struct {
		Language string `json:"language"`
	} `json:"raw"`
}

// PostmanAuth represents authentication configuration.
type PostmanAuth struct {
	Type   string            `json:"type"`
	Bearer []PostmanVariable `json:"bearer,omitempty"`
}

// PostmanVariable is a collection variable, path variable or auth entry.
type PostmanVariable struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type,omitempty"`
	Description string `json:"description,omitempty"`
}

// PostmanEvent attaches a script to a request.
type PostmanEvent struct {
	Listen string        `json:"listen"`
	Script PostmanScript `json:"script"`
}

// PostmanScript is a script body, one entry per line.
type PostmanScript struct {
	Type string   `json:"type"`
	Exec []string `json:"exec"`
}

// PostmanOptions configures GeneratePostmanCollection.
type PostmanOptions struct {
	// HostVariable names the collection variable holding the base URL.
	// Defaults to DefaultHostVariable.
	HostVariable string

	// TokenVariable names the collection variable holding the bearer token.
	// Defaults to DefaultTokenVariable.
	TokenVariable string

	// Headers are added to every request. Headers with an empty value are
	// skipped. Defaults to request.DefaultHeaders().
	Headers []request.Header

	// GroupByTag nests requests in one folder per first operation tag.
	GroupByTag bool
}

func (o PostmanOptions) withDefaults() PostmanOptions {
	if o.HostVariable == "" {
		o.HostVariable = DefaultHostVariable
	}
	if o.TokenVariable == "" {
		o.TokenVariable = DefaultTokenVariable
	}
	if o.Headers == nil {
		o.Headers = request.DefaultHeaders()
	}
	return o
}

// GeneratePostmanCollection builds a collection with one request per
// operation in doc.
func GeneratePostmanCollection(doc *openapi.Document, opts PostmanOptions) (*PostmanCollection, error) {
	opts = opts.withDefaults()

	name := doc.Title()
	if name == "" {
		name = "OpenAPI Collection"
	}
	token := "{{" + opts.TokenVariable + "}}"
	coll := &PostmanCollection{
		Info: PostmanInfo{
			PostmanID: uuid.NewString(),
			Name:      name,
			Schema:    PostmanSchema,
		},
		Item: []PostmanItem{},
		Variable: []PostmanVariable{
			{Key: opts.HostVariable, Value: "", Type: "string"},
			{Key: opts.TokenVariable, Value: "", Type: "string"},
		},
		Auth: &PostmanAuth{
			Type:   "bearer",
			Bearer: []PostmanVariable{{Key: "token", Value: token, Type: "string"}},
		},
	}

	script := strings.NewReplacer(
		"__HOST_VAR__", opts.HostVariable,
		"__TOKEN_VAR__", opts.TokenVariable,
	).Replace(prerequestScript)
	event := PostmanEvent{
		Listen: "prerequest",
		Script: PostmanScript{Type: "text/javascript", Exec: strings.Split(script, "\n")},
	}

	titleCaser := cases.Title(language.English)
	folders := make(map[string]int)

	for _, op := range doc.Operations() {
		item, err := postmanItem(doc, op, opts, token)
		if err != nil {
			return nil, err
		}
		item.Event = []PostmanEvent{event}

		if !opts.GroupByTag || len(op.Tags) == 0 {
			coll.Item = append(coll.Item, item)
			continue
		}
		tag := op.Tags[0]
		idx, ok := folders[tag]
		if !ok {
			idx = len(coll.Item)
			folders[tag] = idx
			coll.Item = append(coll.Item, PostmanItem{Name: titleCaser.String(tag)})
		}
		coll.Item[idx].Item = append(coll.Item[idx].Item, item)
	}

	return coll, nil
}

func postmanItem(doc *openapi.Document, op *openapi.Operation, opts PostmanOptions, token string) (PostmanItem, error) {
	host := "{{" + opts.HostVariable + "}}"
	method := strings.ToUpper(op.Method)

	description := op.Description
	if description == "" {
		description = op.Summary
	}

	req := &PostmanRequest{
		Method: method,
		Header: []PostmanHeader{},
		URL: PostmanURL{
			Raw:  host + op.Path,
			Host: []string{host},
			Path: splitPath(op.Path),
		},
		Description: description,
	}

	for _, h := range opts.Headers {
		if h.Value == "" {
			continue
		}
		req.Header = append(req.Header, PostmanHeader{Key: h.Key, Value: h.Value})
	}
	req.Header = append(req.Header, PostmanHeader{Key: "Authorization", Value: token})

	for _, p := range op.ParametersIn("query") {
		req.URL.Query = append(req.URL.Query, PostmanQuery{Key: p.Name, Value: p.ExampleString(), Description: p.Description})
	}
	for _, p := range op.ParametersIn("header") {
		req.Header = append(req.Header, PostmanHeader{Key: p.Name, Value: p.ExampleString(), Description: p.Description})
	}
	for _, name := range request.PathParamNames(op.Path) {
		v := PostmanVariable{Key: name}
		for _, p := range op.ParametersIn("path") {
			if p.Name == name {
				v.Value, v.Description = p.ExampleString(), p.Description
				break
			}
		}
		req.URL.Variable = append(req.URL.Variable, v)
	}

	if op.HasBody() && op.RequestBody != nil && strings.Contains(op.RequestBody.ContentType, "json") {
		var body any
		if op.RequestBody.HasExample {
			body = op.RequestBody.Example
		} else {
			body = doc.GenerateExample(op.RequestBody.Schema)
		}
		raw, err := indentJSON(body)
		if err != nil {
			return PostmanItem{}, &ExportError{Format: FormatPostman, Message: "encoding body of " + op.Name(), Cause: err}
		}
		req.Body = &PostmanBody{Mode: "raw", Raw: raw, Options: &PostmanBodyOptions{}}
		req.Body.Options.Raw.Language = "json"
	}

	return PostmanItem{Name: op.Name(), Request: req}, nil
}

func splitPath(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// indentJSON encodes v with two-space indentation and without HTML
// escaping, the way request bodies are shown to users.
func indentJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
