// Package ratelimit limits requests per client IP with token buckets.
package ratelimit

import (
	"math"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultEntryTTL is how long an idle client's bucket is kept.
const DefaultEntryTTL = time.Minute

// Config configures a Limiter.
type Config struct {
	// Rate is the sustained number of requests per second per client.
	Rate float64

	// Burst is the bucket capacity. Defaults to twice Rate, at least 1.
	Burst int

	// TrustedProxies lists addresses or CIDR ranges whose
	// X-Forwarded-For and X-Real-IP headers are believed.
	TrustedProxies []string

	// EntryTTL overrides DefaultEntryTTL.
	EntryTTL time.Duration
}

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter holds one bucket per client IP. Idle buckets are swept lazily.
type Limiter struct {
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	trusted []netip.Prefix
	now     func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

// New returns a limiter. Unparseable trusted proxy entries are ignored.
func New(cfg Config) *Limiter {
	burst := cfg.Burst
	if burst <= 0 {
		burst = max(1, int(math.Ceil(cfg.Rate*2)))
	}
	ttl := cfg.EntryTTL
	if ttl <= 0 {
		ttl = DefaultEntryTTL
	}
	l := &Limiter{
		limit:   rate.Limit(cfg.Rate),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
		clients: make(map[string]*client),
	}
	for _, p := range cfg.TrustedProxies {
		if prefix, ok := parsePrefix(p); ok {
			l.trusted = append(l.trusted, prefix)
		}
	}
	return l
}

func parsePrefix(s string) (netip.Prefix, bool) {
	s = strings.TrimSpace(s)
	if prefix, err := netip.ParsePrefix(s); err == nil {
		return prefix.Masked(), true
	}
	if addr, err := netip.ParseAddr(s); err == nil {
		return netip.PrefixFrom(addr, addr.BitLen()), true
	}
	return netip.Prefix{}, false
}

// Burst returns the bucket capacity.
func (l *Limiter) Burst() int { return l.burst }

// Allow takes a token for ip. When none is available it reports how long
// the client should wait.
func (l *Limiter) Allow(ip string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.ttl {
		for key, c := range l.clients {
			if now.Sub(c.seen) >= l.ttl {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}
	c, ok := l.clients[ip]
	if !ok {
		c = &client{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.seen = now
	l.mu.Unlock()

	r := c.lim.ReserveN(now, 1)
	if !r.OK() {
		return false, l.ttl
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// ClientIP returns the address the request is attributed to. Forwarding
// headers count only when the peer is a trusted proxy.
func (l *Limiter) ClientIP(r *http.Request) string {
	remote := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remote); err == nil {
		remote = host
	}
	if !l.isTrusted(remote) {
		return remote
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
	}
	if addr, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return addr.String()
	}
	return remote
}

func (l *Limiter) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range l.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
