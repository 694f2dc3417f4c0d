package tracing

import (
	"context"
	"encoding/hex"
	"net/http"
	"strings"
)

// TraceparentHeader is the W3C traceparent header name.
const TraceparentHeader = "traceparent"

const flagSampled = 0x01

// SpanContext identifies the caller's span.
type SpanContext struct {
	TraceID string
	SpanID  string
	Sampled bool
}

// IsValid reports whether both ids are set.
func (sc SpanContext) IsValid() bool {
	return sc.TraceID != "" && sc.SpanID != ""
}

// String formats sc as a version 00 traceparent value.
func (sc SpanContext) String() string {
	flags := "00"
	if sc.Sampled {
		flags = "01"
	}
	return "00-" + sc.TraceID + "-" + sc.SpanID + "-" + flags
}

// Parse reads a traceparent value. Unknown two-character versions are
// accepted; all-zero ids are not.
func Parse(traceparent string) (SpanContext, bool) {
	parts := strings.Split(strings.TrimSpace(traceparent), "-")
	if len(parts) != 4 || len(parts[0]) != 2 || !isHex(parts[0]) {
		return SpanContext{}, false
	}
	traceID, spanID, flags := strings.ToLower(parts[1]), strings.ToLower(parts[2]), parts[3]

	if len(traceID) != 32 || !isHex(traceID) || strings.Trim(traceID, "0") == "" {
		return SpanContext{}, false
	}
	if len(spanID) != 16 || !isHex(spanID) || strings.Trim(spanID, "0") == "" {
		return SpanContext{}, false
	}
	b, err := hex.DecodeString(flags)
	if err != nil || len(b) != 1 {
		return SpanContext{}, false
	}
	return SpanContext{TraceID: traceID, SpanID: spanID, Sampled: b[0]&flagSampled != 0}, true
}

func isHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

type contextKey struct{}

// Extract stores the span context found in headers on ctx. ctx is returned
// unchanged when there is no valid traceparent.
func Extract(ctx context.Context, headers http.Header) context.Context {
	sc, ok := Parse(headers.Get(TraceparentHeader))
	if !ok {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, sc)
}

// FromContext returns the span context stored by Extract.
func FromContext(ctx context.Context) (SpanContext, bool) {
	sc, ok := ctx.Value(contextKey{}).(SpanContext)
	return sc, ok
}

// TraceID returns the caller's trace id, or "".
func TraceID(ctx context.Context) string {
	sc, _ := FromContext(ctx)
	return sc.TraceID
}
