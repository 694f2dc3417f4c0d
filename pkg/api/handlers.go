package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/getmockd/xmlbridge/pkg/httputil"
	"github.com/getmockd/xmlbridge/pkg/mapper"
	"github.com/getmockd/xmlbridge/pkg/openapi"
	"github.com/getmockd/xmlbridge/pkg/portability"
	"github.com/getmockd/xmlbridge/pkg/request"
	"github.com/getmockd/xmlbridge/pkg/value"
	"github.com/getmockd/xmlbridge/pkg/xmlnav"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// MapRequest is the body of POST /api/map.
type MapRequest struct {
	Spec      string `json:"spec"`
	XML       string `json:"xml"`
	Schema    string `json:"schema,omitempty"`
	Operation string `json:"operation,omitempty"`
	Prune     bool   `json:"prune,omitempty"`
	Select    string `json:"select,omitempty"`
	Property  string `json:"property,omitempty"`
}

// MapResponse is the body returned by POST /api/map.
type MapResponse struct {
	Result      any                 `json:"result"`
	Payload     string              `json:"payload,omitempty"`
	Diagnostics []mapper.Diagnostic `json:"diagnostics"`
}

// PruneRequest is the body of POST /api/prune.
type PruneRequest struct {
	Value json.RawMessage `json:"value"`
}

// PruneResponse is the body returned by POST /api/prune.
type PruneResponse struct {
	Result any `json:"result"`
}

// ValidateRequest is the body of POST /api/validate. Either field may be
// empty, not both.
type ValidateRequest struct {
	Spec string `json:"spec,omitempty"`
	XML  string `json:"xml,omitempty"`
}

// ValidateResponse is the body returned by POST /api/validate.
type ValidateResponse struct {
	Valid  bool            `json:"valid"`
	Issues []openapi.Issue `json:"issues"`
}

// PostmanRequest is the body of POST /api/postman.
type PostmanRequest struct {
	Spec       string `json:"spec"`
	GroupByTag bool   `json:"groupByTag,omitempty"`
}

// CURLRequest is the body of POST /api/curl.
type CURLRequest struct {
	Spec      string `json:"spec"`
	Operation string `json:"operation"`
	XML       string `json:"xml,omitempty"`
	Pruned    bool   `json:"pruned,omitempty"`
	Validate  bool   `json:"validate,omitempty"`
}

// CURLResponse is the body returned by POST /api/curl.
type CURLResponse struct {
	CURL    string           `json:"curl"`
	Mapping *request.Mapping `json:"mapping"`
	Issues  []openapi.Issue  `json:"issues,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, HealthResponse{Status: "ok"})
}

// loadSpec parses the document text of a request, writing a 400 reply on
// failure.
func loadSpec(w http.ResponseWriter, spec string) (*openapi.Document, bool) {
	if strings.TrimSpace(spec) == "" {
		httputil.WriteBadRequest(w, "missing_spec", "spec is required")
		return nil, false
	}
	doc, err := openapi.Load([]byte(spec))
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_spec", err.Error())
		return nil, false
	}
	return doc, true
}

// writeLookupError replies to a failed schema or operation lookup.
func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, openapi.ErrOperationNotFound):
		httputil.WriteNotFound(w, "operation_not_found", err.Error())
	case errors.Is(err, openapi.ErrSchemaNotFound):
		httputil.WriteNotFound(w, "schema_not_found", err.Error())
	default:
		httputil.WriteBadRequest(w, "invalid_target", err.Error())
	}
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	var req MapRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}
	doc, ok := loadSpec(w, req.Spec)
	if !ok {
		return
	}
	if strings.TrimSpace(req.XML) == "" {
		httputil.WriteBadRequest(w, "missing_xml", "xml is required")
		return
	}
	schema, err := doc.TargetSchema(req.Schema, req.Operation)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	res, err := mapper.Map(doc, schema, xmlnav.CleanLogPayload(req.XML), mapper.Options{
		Prune:    req.Prune,
		Property: req.Property,
		Logger:   s.log,
	})
	if err != nil {
		if errors.Is(err, xmlnav.ErrInvalidXML) {
			s.metrics.Mappings.With("invalid_xml").Inc()
			httputil.WriteError(w, http.StatusUnprocessableEntity, "invalid_xml", err.Error())
			return
		}
		httputil.WriteInternalError(w, "mapping_failed", err.Error())
		return
	}

	s.metrics.Mappings.With("ok").Inc()
	s.metrics.Diagnostics.With().Add(float64(len(res.Diagnostics)))

	result := res.Value
	if req.Select != "" {
		selected, err := mapper.Select(res.Value, req.Select)
		if err != nil {
			httputil.WriteBadRequest(w, "invalid_select", err.Error())
			return
		}
		result = selected
	}

	diags := res.Diagnostics
	if diags == nil {
		diags = []mapper.Diagnostic{}
	}
	httputil.WriteOK(w, MapResponse{Result: result, Payload: res.Payload, Diagnostics: diags})
}

func (s *Server) handlePrune(w http.ResponseWriter, r *http.Request) {
	var req PruneRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}
	if len(req.Value) == 0 {
		httputil.WriteBadRequest(w, "missing_value", "value is required")
		return
	}
	v, err := value.Decode(req.Value)
	if err != nil {
		httputil.WriteBadRequest(w, "invalid_json", err.Error())
		return
	}
	httputil.WriteOK(w, PruneResponse{Result: value.PruneOrEmpty(v)})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.Spec) == "" && strings.TrimSpace(req.XML) == "" {
		httputil.WriteBadRequest(w, "missing_input", "spec or xml is required")
		return
	}

	issues := []openapi.Issue{}
	if strings.TrimSpace(req.Spec) != "" {
		doc, err := openapi.Load([]byte(req.Spec))
		if err != nil {
			issues = append(issues, openapi.Issue{Message: err.Error()})
		} else {
			issues = append(issues, doc.Validate(r.Context())...)
		}
	}
	if strings.TrimSpace(req.XML) != "" {
		if _, err := xmlnav.Parse(xmlnav.CleanLogPayload(req.XML)); err != nil {
			issues = append(issues, openapi.Issue{Pointer: "xml", Message: err.Error()})
		}
	}

	httputil.WriteOK(w, ValidateResponse{Valid: len(issues) == 0, Issues: issues})
}

func (s *Server) handlePostman(w http.ResponseWriter, r *http.Request) {
	var req PostmanRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}
	doc, ok := loadSpec(w, req.Spec)
	if !ok {
		return
	}

	coll, err := portability.GeneratePostmanCollection(doc, portability.PostmanOptions{
		HostVariable:  s.cfg.HostVariable,
		TokenVariable: s.cfg.TokenVariable,
		Headers:       s.cfg.Headers,
		GroupByTag:    req.GroupByTag,
	})
	if err != nil {
		httputil.WriteInternalError(w, "export_failed", err.Error())
		return
	}
	httputil.WriteOK(w, coll)
}

func (s *Server) handleCURL(w http.ResponseWriter, r *http.Request) {
	var req CURLRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteDecodeError(w, err)
		return
	}
	doc, ok := loadSpec(w, req.Spec)
	if !ok {
		return
	}
	op, err := doc.FindOperation(req.Operation)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	m := request.Build(doc, op, req.XML, request.Options{Headers: s.cfg.Headers, Logger: s.log})
	cmd, err := portability.BuildCURL(m, portability.CURLOptions{
		HostVariable: s.cfg.HostVariable,
		Pruned:       req.Pruned,
	})
	if err != nil {
		httputil.WriteInternalError(w, "export_failed", err.Error())
		return
	}

	resp := CURLResponse{CURL: cmd, Mapping: m}
	if req.Validate && m.HasBody {
		body := m.Body
		if req.Pruned {
			body = m.BodyPruned
		}
		issues, err := doc.ValidateBody(r.Context(), op, body)
		if err != nil {
			httputil.WriteBadRequest(w, "validation_failed", err.Error())
			return
		}
		resp.Issues = issues
	}
	httputil.WriteOK(w, resp)
}
