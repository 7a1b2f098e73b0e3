package server

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/wardrobe/internal/logger"
	"github.com/osse101/wardrobe/internal/metrics"
)

// clientWindow counts one client's activity since the window opened
type clientWindow struct {
	opened     time.Time
	requests   int
	failedAuth int
}

// ClientGuard tracks per-client request rates and failed logins over a
// fixed window. Clients are held in an expiring LRU so an address scan
// cannot grow it without bound.
type ClientGuard struct {
	mu      sync.Mutex
	clients *expirable.LRU[string, *clientWindow]
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewClientGuard creates a guard allowing limit requests per client per window
func NewClientGuard(limit int, window time.Duration) *ClientGuard {
	return &ClientGuard{
		clients: expirable.NewLRU[string, *clientWindow](MaxTrackedClients, nil, window),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// current returns ip's open window, starting a new one when it has lapsed.
// Callers hold mu.
func (g *ClientGuard) current(ip string) *clientWindow {
	now := g.now()
	w, ok := g.clients.Get(ip)
	if !ok || now.Sub(w.opened) > g.window {
		w = &clientWindow{opened: now}
		g.clients.Add(ip, w)
	}
	return w
}

// Allow counts a request from ip and reports whether it is within the limit
func (g *ClientGuard) Allow(ip string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	w := g.current(ip)
	w.requests++
	if w.requests <= g.limit {
		return true
	}
	if (w.requests-g.limit)%RateAlertEvery == 1 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "requests", w.requests, "window", g.window)
	}
	return false
}

// FailedAuth records a rejected key from ip and returns the count so far
func (g *ClientGuard) FailedAuth(ip string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	w := g.current(ip)
	w.failedAuth++
	if w.failedAuth >= FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", w.failedAuth)
	}
	return w.failedAuth
}

// Requests reports the requests counted for ip in its open window
func (g *ClientGuard) Requests(ip string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if w, ok := g.clients.Get(ip); ok {
		return w.requests
	}
	return 0
}

func isPublicPath(path string) bool {
	return slices.ContainsFunc(PublicPaths, func(p string) bool {
		return strings.HasPrefix(path, p)
	})
}

// AuthMiddleware requires X-API-Key on every non-public path. An empty key
// disables the check.
func AuthMiddleware(apiKey string, trustedProxies []string, guard *ClientGuard) func(http.Handler) http.Handler {
	want := []byte(apiKey)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" || isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			got := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(got), want) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r, trustedProxies)
			failures := guard.FailedAuth(ip)
			metrics.SecurityRejections.WithLabelValues(RejectUnauthorized).Inc()
			logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
				"ip", ip,
				"path", r.URL.Path,
				"has_key", got != "",
				"failures", failures)

			http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
		})
	}
}

// RateLimitMiddleware rejects clients over the guard's request budget
func RateLimitMiddleware(trustedProxies []string, guard *ClientGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !guard.Allow(clientIP(r, trustedProxies)) {
				metrics.SecurityRejections.WithLabelValues(RejectRateLimited).Inc()
				w.Header().Set(HeaderRetryAfter, RetryAfterSeconds)
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the connecting address, or the last X-Forwarded-For hop when
// the connection comes from a trusted proxy.
func clientIP(r *http.Request, trustedProxies []string) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	if !slices.Contains(trustedProxies, remote) {
		return remote
	}

	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remote
	}
	hops := strings.Split(forwarded, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

// RequestSizeLimitMiddleware caps request bodies at maxBytes
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// TimeoutMiddleware bounds every request context by d
func TimeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SecurityHeadersMiddleware sets the fixed response hardening headers
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range securityHeaders {
				h.Set(kv[0], kv[1])
			}
			next.ServeHTTP(w, r)
		})
	}
}
