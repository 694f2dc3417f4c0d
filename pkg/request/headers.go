package request

import (
	"strings"

	"github.com/getmockd/xmlbridge/pkg/xmlnav"
)

// Source records where a header came from.
type Source string

// Header sources.
const (
	SourceRequired Source = "yaml-required"
	SourceDefault  Source = "default"
	SourceXML      Source = "xml"
)

// Description tags attached to headers taken from the XML log.
const (
	TagXMLMapped   = "[XML] value mapped from log"
	TagXMLDetected = "[XML] header detected in log"
	TagRequired    = "[REQUIRED]"
)

// Header is a request header row.
type Header struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Enabled     bool   `json:"enabled"`
	Description string `json:"description,omitempty"`
	Source      Source `json:"source,omitempty"`
	Removable   bool   `json:"removable"`
	Locked      bool   `json:"locked"`
}

// DefaultHeaders is the base header set added to every request. The
// Postman dynamic variable {{$guid}} yields a fresh id per send.
func DefaultHeaders() []Header {
	return []Header{
		{Key: "Traceparent", Value: "{{$guid}}"},
		{Key: "X-Flow-ID", Value: "{{$guid}}"},
		{Key: "X-application", Value: "POSTMAN"},
		{Key: "X-originalApplication", Value: "POSTMAN"},
		{Key: "X-process", Value: "Testing"},
		{Key: "X-user", Value: "U80063362"},
		{Key: "Content-Type", Value: "application/json"},
		{Key: "Accept", Value: "application/json"},
		{Key: "X-eTrackingID", Value: ""},
	}
}

// canonicalXMLHeaders maps normalized log field names to the request
// header they feed. These headers are promoted: their log value replaces
// the default.
var canonicalXMLHeaders = map[string]string{
	"process":     "X-process",
	"etrackingid": "X-eTrackingID",
	"application": "X-application",
}

// CanonicalHeaderKey returns the request header a log field maps to, or
// key unchanged.
func CanonicalHeaderKey(key string) string {
	if canonical, ok := canonicalXMLHeaders[xmlnav.NormalizeKey(key)]; ok {
		return canonical
	}
	return key
}

func isPromoted(key string) bool {
	_, ok := canonicalXMLHeaders[xmlnav.NormalizeKey(key)]
	return ok
}

// IndexHeader returns the index of the header whose key matches key once
// both are normalized, or -1.
func IndexHeader(headers []Header, key string) int {
	norm := xmlnav.NormalizeKey(key)
	for i, h := range headers {
		if xmlnav.NormalizeKey(h.Key) == norm {
			return i
		}
	}
	return -1
}

// MergeHeader appends h, or merges it into the existing header with the
// same normalized key: the result is enabled if either is, and an empty
// value or description is filled from h. The existing key, source and
// flags are kept.
func MergeHeader(headers []Header, h Header) []Header {
	i := IndexHeader(headers, h.Key)
	if i < 0 {
		return append(headers, h)
	}
	existing := &headers[i]
	existing.Enabled = existing.Enabled || h.Enabled
	if strings.TrimSpace(existing.Value) == "" {
		if v := strings.TrimSpace(h.Value); v != "" {
			existing.Value = v
		}
	}
	if strings.TrimSpace(existing.Description) == "" && h.Description != "" {
		existing.Description = h.Description
	}
	return headers
}

// tagHeader sets the header's value (when non-empty) and prefixes its
// description with tag once.
func tagHeader(h *Header, value, tag string) {
	if value != "" {
		h.Value = value
	}
	switch {
	case h.Description == "":
		h.Description = tag
	case !strings.Contains(h.Description, tag):
		h.Description = tag + " " + h.Description
	}
}
