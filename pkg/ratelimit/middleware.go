package ratelimit

import (
	"math"
	"net/http"
	"strconv"

	"github.com/getmockd/xmlbridge/pkg/httputil"
)

// Middleware rejects requests over the limit with 429 rate_limited and a
// Retry-After header. A nil limiter passes everything through.
func Middleware(l *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := l.Allow(l.ClientIP(r))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.Burst()))
			if ok {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Retry-After", strconv.Itoa(max(1, int(math.Ceil(wait.Seconds())))))
			httputil.WriteError(w, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down")
		})
	}
}
