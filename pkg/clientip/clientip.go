package clientip

import (
	"net"
	"net/http"
	"strings"
)

// RealClientIP returns the client IP for rate limiting and audit logging.
// When TRUST_PROXY_HEADERS is enabled in the middleware, the first address in
// X-Forwarded-For (or X-Real-IP) is used; otherwise only r.RemoteAddr, so a
// client can't spoof its way past an IP block by setting headers.
func RealClientIP(r *http.Request, trustProxyHeaders bool) string {
	if trustProxyHeaders {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := xff
			if i := strings.Index(xff, ","); i >= 0 {
				first = xff[:i]
			}
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
