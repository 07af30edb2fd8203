package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/osse101/EcoQuest_Go/internal/logger"
)

// AuthMiddleware validates the API key on every non-public path
func AuthMiddleware(apiKey string, trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)

			// Constant time comparison
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := extractIP(r, trustedProxies)
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string) bool {
	for _, prefix := range PublicPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// clientState is the per-IP bookkeeping of the detector
type clientState struct {
	limiter    *rate.Limiter
	failedAuth int
	rejected   int
	lastSeen   time.Time
}

// SuspiciousActivityDetector rate limits each client IP with a token bucket
// and alerts on repeated authentication failures.
type SuspiciousActivityDetector struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*clientState
	lastSweep time.Time
	now       func() time.Time
}

// NewSuspiciousActivityDetector allows rps requests per second per IP with
// the given burst. A non-positive rps disables rate limiting.
func NewSuspiciousActivityDetector(rps float64, burst int) *SuspiciousActivityDetector {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &SuspiciousActivityDetector{
		limit:     limit,
		burst:     burst,
		clients:   make(map[string]*clientState),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// client returns the state for ip, creating it on first sight.
// Caller must hold the mutex.
func (s *SuspiciousActivityDetector) client(ip string, now time.Time) *clientState {
	s.sweepLocked(now)
	c, ok := s.clients[ip]
	if !ok {
		c = &clientState{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.clients[ip] = c
	}
	c.lastSeen = now
	return c
}

// RecordFailedAuth records a failed authentication attempt
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.client(ip, s.now())
	c.failedAuth++

	if c.failedAuth >= FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", c.failedAuth)
	}
}

// Allow takes one token from ip's bucket and reports whether the request may proceed
func (s *SuspiciousActivityDetector) Allow(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	c := s.client(ip, now)
	if c.limiter.AllowN(now, 1) {
		return true
	}

	c.rejected++
	if c.rejected%RateLimitLogEvery == 1 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "rejected", c.rejected)
	}
	return false
}

// sweepLocked forgets clients idle longer than ClientIdleTTL.
// Caller must hold the mutex.
func (s *SuspiciousActivityDetector) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < ClientIdleTTL {
		return
	}
	for ip, c := range s.clients {
		if now.Sub(c.lastSeen) > ClientIdleTTL {
			delete(s.clients, ip)
		}
	}
	s.lastSweep = now
}

// RateLimitMiddleware rejects clients that exceed their request budget
func RateLimitMiddleware(trustedProxies []string, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if !detector.Allow(extractIP(r, trustedProxies)) {
				w.Header().Set(HeaderRetryAfter, "1")
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractIP gets the client IP address from request.
// X-Forwarded-For is honoured only when the direct peer is a trusted proxy.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	isTrusted := false
	for _, proxy := range trustedProxies {
		if proxy == remoteIP {
			isTrusted = true
			break
		}
	}

	if isTrusted {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			// Rightmost entry is the hop that reached our trusted proxy
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
	}

	return remoteIP
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}
