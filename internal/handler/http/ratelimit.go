package http

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"postboard/internal/handler/http/pathutil"
	"postboard/internal/handler/http/respond"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
// Forwarding headers are honoured only when the direct peer is a trusted proxy.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry

	limit   rate.Limit
	burst   int
	trusted []netip.Prefix
	now     func() time.Time
}

// NewIPRateLimiter allows perMinute requests per minute per IP with the given burst.
func NewIPRateLimiter(perMinute, burst int, trustedProxies []netip.Prefix) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		trusted:  trustedProxies,
		now:      time.Now,
	}
}

// Allow consumes one token from ip's bucket.
func (l *IPRateLimiter) Allow(ip string) bool {
	now := l.now()

	l.mu.Lock()
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// Limit rejects requests over the limit with 429 and a Retry-After hint.
func (l *IPRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(l.clientIP(r)) {
			rateLimitedTotal.WithLabelValues(pathutil.NormalizePath(r.URL.Path)).Inc()
			w.Header().Set("Retry-After", strconv.Itoa(l.retryAfterSeconds()))
			respond.SafeErrorV2(w, http.StatusTooManyRequests,
				respond.NewAppError(http.StatusTooManyRequests, "too many requests", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Prune drops buckets not touched for longer than idle and returns how many
// were removed.
func (l *IPRateLimiter) Prune(idle time.Duration) int {
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for ip, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients.
func (l *IPRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *IPRateLimiter) retryAfterSeconds() int {
	secs := int(time.Duration(float64(time.Second) / float64(l.limit)).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}

// clientIP returns the peer address, or the first X-Forwarded-For / X-Real-IP
// entry when the peer is a trusted proxy.
func (l *IPRateLimiter) clientIP(r *http.Request) string {
	peer := hostOnly(r.RemoteAddr)
	if !l.isTrusted(peer) {
		return peer
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
			return addr.String()
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		if addr, err := netip.ParseAddr(xri); err == nil {
			return addr.String()
		}
	}
	return peer
}

func (l *IPRateLimiter) isTrusted(ip string) bool {
	if len(l.trusted) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range l.trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func hostOnly(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}

// ParseTrustedProxies parses IPs and CIDR ranges. A bare IP becomes a
// single-address prefix.
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	var errs []error
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			prefix, err := netip.ParsePrefix(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid trusted proxy %q: %w", v, err))
				continue
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid trusted proxy %q: %w", v, err))
			continue
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, errors.Join(errs...)
}
