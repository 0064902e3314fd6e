package auth

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the caller's address for the auth log. The value is
// advisory only and is never used as an authorization input.
//
// Order of preference: first X-Forwarded-For element, then the request's
// RemoteAddr with any IPv6-mapped-IPv4 prefix stripped, then "Unknown".
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}

	addr := r.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	addr = strings.TrimPrefix(addr, "::ffff:")
	if addr == "" {
		return "Unknown"
	}
	return addr
}
