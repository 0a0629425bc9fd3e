package dictionary

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Client queries a remote word-definition API. Lookups are bounded by the
// HTTP client timeout and a client-side rate limit; every failure mode is
// reported as ok=false so the caller can fall back.
type Client struct {
	httpClient *http.Client
	baseURL    string
	languages  map[string]struct{}
	limiter    *rate.Limiter
}

// NewClient creates a lookup client for the given API base URL. Only the
// listed languages are queried remotely; others go straight to fallback.
func NewClient(baseURL string, timeout time.Duration, languages []string) *Client {
	supported := make(map[string]struct{}, len(languages))
	for _, language := range languages {
		supported[language] = struct{}{}
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		languages:  supported,
		// burst above steady state so a busy turn isn't starved
		limiter: rate.NewLimiter(rate.Limit(10), 20),
	}
}

// SupportsLanguage reports whether the remote API covers the language
func (c *Client) SupportsLanguage(language string) bool {
	_, ok := c.languages[language]
	return ok
}

// Lookup returns the remote verdict for a word. ok=false means the lookup
// did not produce a verdict (rate limited, transport error, timeout,
// unexpected status, malformed body) and the caller should fall back.
// A 404 is a definitive "not a word" verdict, not a failure.
func (c *Client) Lookup(ctx context.Context, word, language string) (valid bool, ok bool) {
	if !c.limiter.Allow() {
		return false, false
	}

	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, url.PathEscape(language), url.PathEscape(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, false
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, decodeEntries(resp.Body)
	case http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return false, true
	default:
		io.Copy(io.Discard, resp.Body)
		return false, false
	}
}

// decodeEntries verifies the 200 body is a non-empty entry array
func decodeEntries(body io.Reader) bool {
	var entries []struct {
		Word string `json:"word"`
	}
	if err := json.NewDecoder(io.LimitReader(body, 1<<20)).Decode(&entries); err != nil {
		return false
	}
	return len(entries) > 0
}
