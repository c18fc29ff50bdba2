package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHSTS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	HSTS(next).ServeHTTP(rr, req)

	got := rr.Header().Get("Strict-Transport-Security")
	want := "max-age=31536000; includeSubDomains"
	if got != want {
		t.Errorf("Strict-Transport-Security = %q, want %q", got, want)
	}
}

func TestIsHostAllowed(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		allowedHosts []string
		want         bool
	}{
		{
			name:         "no allowed hosts configured",
			host:         "anything.com",
			allowedHosts: nil,
			want:         true,
		},
		{
			name:         "exact match",
			host:         "example.com",
			allowedHosts: []string{"example.com"},
			want:         true,
		},
		{
			name:         "match ignoring port",
			host:         "example.com:8000",
			allowedHosts: []string{"example.com"},
			want:         true,
		},
		{
			name:         "case insensitive",
			host:         "Example.COM",
			allowedHosts: []string{"example.com"},
			want:         true,
		},
		{
			name:         "no match",
			host:         "evil.com",
			allowedHosts: []string{"example.com"},
			want:         false,
		},
		{
			name:         "subdomain mismatch",
			host:         "sub.example.com",
			allowedHosts: []string{"example.com"},
			want:         false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHostAllowed(tt.host, tt.allowedHosts); got != tt.want {
				t.Errorf("IsHostAllowed(%q, %v) = %v, want %v", tt.host, tt.allowedHosts, got, tt.want)
			}
		})
	}
}
