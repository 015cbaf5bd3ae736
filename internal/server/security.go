package server

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/PulseHub_Go/internal/domain"
	"github.com/osse101/PulseHub_Go/internal/logger"
	"github.com/osse101/PulseHub_Go/internal/middleware"
)

// ThreatRecorder receives abuse events raised by the middleware
type ThreatRecorder interface {
	Record(ctx context.Context, entry domain.ThreatLogEntry)
}

// AuthMiddleware validates the API key guarding the internal API
func AuthMiddleware(apiKey string, detector *SuspiciousActivityDetector, threats ThreatRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			providedKey := r.Header.Get(HeaderAPIKey)

			if !validAPIKey(apiKey, providedKey) {
				entry := middleware.ThreatEntry(r, domain.ThreatSuspiciousBehavior, domain.ThreatActionBlocked)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", entry.IP)

				if detector.RecordFailedAuth(entry.IP) == FailedAuthAlertCount && threats != nil {
					entry.Metadata = map[string]interface{}{"failed_auth_count": FailedAuthAlertCount}
					threats.Record(r.Context(), entry)
				}

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// validAPIKey compares in constant time. An unset server key matches nothing.
func validAPIKey(apiKey, provided string) bool {
	return apiKey != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) == 1
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

type ipCounter struct {
	requests   int
	failedAuth int
}

// SuspiciousActivityDetector counts requests and failed API-key checks per IP
// over a fixed window. Counters live in a bounded expiring LRU, so memory stays
// flat under IP churn and each IP's window restarts when its entry expires.
type SuspiciousActivityDetector struct {
	mu       sync.Mutex
	counters *expirable.LRU[string, *ipCounter]
	limit    int
}

// NewSuspiciousActivityDetector allows limit requests per IP per window
func NewSuspiciousActivityDetector(limit int, window time.Duration) *SuspiciousActivityDetector {
	return &SuspiciousActivityDetector{
		counters: expirable.NewLRU[string, *ipCounter](DetectorCapacity, nil, window),
		limit:    limit,
	}
}

// counter returns the live counter for ip. Caller must hold the mutex.
func (s *SuspiciousActivityDetector) counter(ip string) *ipCounter {
	c, ok := s.counters.Get(ip)
	if !ok {
		c = &ipCounter{}
		s.counters.Add(ip, c)
	}
	return c
}

// RecordFailedAuth records a failed authentication attempt and returns the count in the window
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.counter(ip)
	c.failedAuth++

	if c.failedAuth >= FailedAuthAlertCount {
		slog.Warn(SecurityAlertFailedAuth,
			"ip", ip,
			"count", c.failedAuth)
	}
	return c.failedAuth
}

// RecordRequest records a request and reports whether it is within the limit,
// along with the request count in the current window
func (s *SuspiciousActivityDetector) RecordRequest(ip string) (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.counter(ip)
	c.requests++

	if c.requests > s.limit {
		if (c.requests-s.limit)%100 == 1 { // Log every 100 requests to avoid log spam
			slog.Warn(SecurityAlertHighRate,
				"ip", ip,
				"count", c.requests)
		}
		return false, c.requests
	}
	return true, c.requests
}

// RateLimitMiddleware enforces the per-IP request limit. The first blocked
// request of a window is written to the threat log as rapid_requests.
// Requests carrying the valid API key are not counted: the bot relays a whole
// community's links and ban reports from one address.
func RateLimitMiddleware(detector *SuspiciousActivityDetector, threats ThreatRecorder, apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validAPIKey(apiKey, r.Header.Get(HeaderAPIKey)) {
				next.ServeHTTP(w, r)
				return
			}

			entry := middleware.ThreatEntry(r, domain.ThreatRapidRequests, domain.ThreatActionBlocked)

			allowed, count := detector.RecordRequest(entry.IP)
			if !allowed {
				if count == detector.limit+1 && threats != nil {
					entry.Metadata = map[string]interface{}{"request_count": count}
					threats.Record(r.Context(), entry)
				}
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			// Prevent clickjacking
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			// Enable XSS protection (for older browsers)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			// Control referrer information
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			w.Header().Set(HeaderCSP, HeaderValueCSP)

			next.ServeHTTP(w, r)
		})
	}
}
