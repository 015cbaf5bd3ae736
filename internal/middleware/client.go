package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strings"

	"github.com/osse101/PulseHub_Go/internal/domain"
)

type ctxKey string

const clientInfoKey ctxKey = "clientInfo"

// ClientInfo identifies the caller of a request for abuse tracking
type ClientInfo struct {
	IP          string
	UserAgent   string
	Fingerprint string
}

// ClientInfoMiddleware resolves the caller once per request and stores it in the context
func ClientInfoMiddleware(trustedProxies []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := ClientInfo{
				IP:          ExtractIP(r, trustedProxies),
				UserAgent:   r.UserAgent(),
				Fingerprint: fingerprint(r),
			}
			next.ServeHTTP(w, r.WithContext(WithClientInfo(r.Context(), info)))
		})
	}
}

// WithClientInfo returns a new context carrying info
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey, info)
}

// ClientInfoFromContext returns the caller stored by ClientInfoMiddleware
func ClientInfoFromContext(ctx context.Context) (ClientInfo, bool) {
	info, ok := ctx.Value(clientInfoKey).(ClientInfo)
	return info, ok
}

// ThreatEntry builds a threat log entry describing the request's caller.
// Requests that did not pass through ClientInfoMiddleware fall back to RemoteAddr.
func ThreatEntry(r *http.Request, reason domain.ThreatReason, action domain.ThreatAction) domain.ThreatLogEntry {
	info, ok := ClientInfoFromContext(r.Context())
	if !ok {
		info = ClientInfo{IP: ExtractIP(r, nil), UserAgent: r.UserAgent(), Fingerprint: fingerprint(r)}
	}
	return domain.ThreatLogEntry{
		IP:          info.IP,
		UserAgent:   info.UserAgent,
		Fingerprint: info.Fingerprint,
		Reason:      reason,
		ActionTaken: action,
		Endpoint:    r.Method + " " + r.URL.Path,
	}
}

// ExtractIP gets the client IP address from request.
// It only trusts X-Forwarded-For if the request comes from a trusted proxy.
func ExtractIP(r *http.Request, trustedProxies []string) string {
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
		forwarded := r.Header.Get(HeaderForwardedFor)
		if forwarded != "" {
			// Rightmost entry is the hop that connected to our trusted proxy
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
	}

	return remoteIP
}

// fingerprint hashes stable request headers into a short device identifier
func fingerprint(r *http.Request) string {
	h := sha256.New()
	h.Write([]byte(r.UserAgent()))
	h.Write([]byte{0})
	h.Write([]byte(r.Header.Get(HeaderAcceptLanguage)))
	return hex.EncodeToString(h.Sum(nil))[:FingerprintLength]
}
