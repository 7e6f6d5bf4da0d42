package clientip

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xRealIP    string
		trust      bool
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "203.0.113.7:54321",
			want:       "203.0.113.7",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "203.0.113.7",
			want:       "203.0.113.7",
		},
		{
			name:       "headers ignored when proxy not trusted",
			remoteAddr: "10.0.0.1:443",
			xff:        "198.51.100.9",
			trust:      false,
			want:       "10.0.0.1",
		},
		{
			name:       "first forwarded address wins",
			remoteAddr: "10.0.0.1:443",
			xff:        "198.51.100.9, 10.0.0.2, 10.0.0.1",
			trust:      true,
			want:       "198.51.100.9",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:443",
			xRealIP:    "198.51.100.9",
			trust:      true,
			want:       "198.51.100.9",
		},
		{
			name:       "empty forwarded header falls through",
			remoteAddr: "10.0.0.1:443",
			xff:        "  ",
			trust:      true,
			want:       "10.0.0.1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				r.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.xRealIP != "" {
				r.Header.Set("X-Real-IP", tc.xRealIP)
			}
			assert.Equal(t, tc.want, RealClientIP(r, tc.trust))
		})
	}
}
