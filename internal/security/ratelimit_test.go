package security

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterEnforcesWindow(t *testing.T) {
	limiter := NewRateLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if limiter.Allow("1.2.3.4") {
		t.Error("fourth request should be rejected")
	}

	// other clients have their own bucket
	if !limiter.Allow("5.6.7.8") {
		t.Error("different client should be allowed")
	}
}

func TestRateLimiterRefillsAfterWindow(t *testing.T) {
	limiter := NewRateLimiter(1, 10*time.Millisecond)

	if !limiter.Allow("1.2.3.4") {
		t.Fatal("first request should be allowed")
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("second request should be rejected")
	}

	time.Sleep(20 * time.Millisecond)
	if !limiter.Allow("1.2.3.4") {
		t.Error("request after window should be allowed")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name      string
		forwarded string
		realIP    string
		remote    string
		want      string
	}{
		{"remote addr only", "", "", "9.9.9.9:1234", "9.9.9.9:1234"},
		{"x-real-ip", "", "2.2.2.2", "9.9.9.9:1234", "2.2.2.2"},
		{"forwarded single", "1.1.1.1", "", "9.9.9.9:1234", "1.1.1.1"},
		{"forwarded chain takes first hop", "1.1.1.1, 10.0.0.1", "", "9.9.9.9:1234", "1.1.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if got := GetClientIP(r); got != tt.want {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
