package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		remoteAddr string
		want       string
	}{
		{"forwarded single", "203.0.113.7", "10.0.0.1:1234", "203.0.113.7"},
		{"forwarded chain takes first", "203.0.113.7, 10.0.0.2, 10.0.0.3", "10.0.0.1:1234", "203.0.113.7"},
		{"forwarded with spaces", "  203.0.113.7 , 10.0.0.2", "10.0.0.1:1234", "203.0.113.7"},
		{"remote addr with port", "", "192.0.2.4:5678", "192.0.2.4"},
		{"ipv6 mapped ipv4", "", "[::ffff:192.0.2.4]:5678", "192.0.2.4"},
		{"bare remote addr", "", "192.0.2.4", "192.0.2.4"},
		{"nothing resolvable", "", "", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/customers", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}
