package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:    "untrusted peer keeps remote addr",
			trusted: []string{"10.0.0.0/8"},
			remote:  "203.0.113.9:5555",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.1"},
			want:    "203.0.113.9:5555",
		},
		{
			name:    "trusted cidr uses x-real-ip",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:5555",
			headers: map[string]string{"X-Real-IP": "198.51.100.1", "X-Forwarded-For": "198.51.100.2"},
			want:    "198.51.100.1",
		},
		{
			name:    "trusted address uses first forwarded entry",
			trusted: []string{"127.0.0.1"},
			remote:  "127.0.0.1:5555",
			headers: map[string]string{"X-Forwarded-For": " 198.51.100.7 , 10.0.0.1"},
			want:    "198.51.100.7",
		},
		{
			name:    "garbage header ignored",
			trusted: []string{"127.0.0.1"},
			remote:  "127.0.0.1:5555",
			headers: map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:    "127.0.0.1:5555",
		},
		{
			name:    "no trusted proxies",
			trusted: nil,
			remote:  "127.0.0.1:5555",
			headers: map[string]string{"X-Real-IP": "198.51.100.1"},
			want:    "127.0.0.1:5555",
		},
		{
			name:    "invalid entries skipped",
			trusted: []string{"bogus", " ", "::1"},
			remote:  "[::1]:5555",
			headers: map[string]string{"X-Real-IP": "2001:db8::1"},
			want:    "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}
