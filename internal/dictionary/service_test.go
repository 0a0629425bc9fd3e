package dictionary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newFallback(words ...string) *FallbackSet {
	return NewFallbackSet(map[string][]string{"en": words})
}

func TestIsValidFallbackOnly(t *testing.T) {
	// remote lookups disabled entirely
	service := NewService(NewCache(10), newFallback("hello", "tiger"), nil)

	tests := []struct {
		word string
		want bool
	}{
		{"HELLO", true},
		{"  tiger  ", true},
		{"xqzt", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := service.IsValid(context.Background(), tt.word, "en"); got != tt.want {
			t.Errorf("IsValid(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestIsValidCacheHitMatchesMiss(t *testing.T) {
	service := NewService(NewCache(10), newFallback("hello"), nil)

	first := service.IsValid(context.Background(), "hello", "en")
	second := service.IsValid(context.Background(), "hello", "en")
	if first != second {
		t.Fatalf("cache hit verdict %v differs from miss verdict %v", second, first)
	}

	stats := service.CacheStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit 1 miss", stats)
	}
}

func TestIsValidRemoteVerdicts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/en/tiger":
			w.Write([]byte(`[{"word":"tiger"}]`))
		case "/en/xqzt":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, []string{"en"})
	// fallback claims xqzt is a word; the remote 404 must win
	service := NewService(NewCache(10), newFallback("xqzt", "broken"), client)

	if !service.IsValid(context.Background(), "tiger", "en") {
		t.Error("remote 200 should validate tiger")
	}
	if service.IsValid(context.Background(), "xqzt", "en") {
		t.Error("remote 404 is definitive, fallback must not override it")
	}
}

func TestIsValidDegradesToFallbackOnServerError(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, []string{"en"})
	service := NewService(NewCache(10), newFallback("hello"), client)

	if !service.IsValid(context.Background(), "hello", "en") {
		t.Error("server error should degrade to fallback")
	}
	if service.IsValid(context.Background(), "xqzt", "en") {
		t.Error("unknown word should stay invalid on degraded path")
	}

	// degraded verdicts are cached: repeats must not hit the server again
	before := requests.Load()
	service.IsValid(context.Background(), "hello", "en")
	if got := requests.Load(); got != before {
		t.Errorf("cached verdict still queried the server (%d -> %d)", before, got)
	}
}

func TestIsValidUnsupportedLanguageSkipsRemote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected remote lookup: %s", r.URL.Path)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second, []string{"en"})
	service := NewService(NewCache(10), NewFallbackSet(map[string][]string{
		"vi": {"xin chào"},
	}), client)

	if !service.IsValid(context.Background(), "Xin chào", "vi") {
		t.Error("vietnamese words should validate via fallback")
	}
}

func TestFallbackSetNormalizes(t *testing.T) {
	fs := NewFallbackSet(map[string][]string{
		"en": {"Hello", "  TIGER ", "hello", ""},
	})

	if !fs.Contains("hello", "en") || !fs.Contains("tiger", "en") {
		t.Error("words should be normalized on load")
	}
	if got := len(fs.Words("en")); got != 2 {
		t.Errorf("duplicates and blanks should be dropped, got %d words", got)
	}
	if fs.Contains("hello", "vi") {
		t.Error("languages are independent")
	}
}
