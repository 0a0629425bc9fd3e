package dictionary

import (
	"context"
)

// Service is the validity oracle for words. It never fails visibly:
// remote-lookup problems degrade to the static fallback set and the
// result is cached either way.
type Service struct {
	cache    *Cache
	fallback *FallbackSet
	client   *Client
}

// NewService wires the cache, fallback set and optional remote client.
// Pass a nil client to disable remote lookups entirely.
func NewService(cache *Cache, fallback *FallbackSet, client *Client) *Service {
	return &Service{
		cache:    cache,
		fallback: fallback,
		client:   client,
	}
}

// IsValid reports whether word is a valid word of the language.
// Pipeline: normalize, cache, remote lookup (when enabled and covered),
// fallback set. The verdict that comes back is cached so a later hit
// returns the same answer as the miss that populated it.
func (s *Service) IsValid(ctx context.Context, word, language string) bool {
	normalized := Normalize(word)
	if normalized == "" {
		return false
	}

	key := cacheKey(normalized, language)
	if valid, found := s.cache.Get(key); found {
		return valid
	}

	if s.client != nil && s.client.SupportsLanguage(language) {
		if valid, ok := s.client.Lookup(ctx, normalized, language); ok {
			s.cache.Set(key, valid)
			return valid
		}
	}

	valid := s.fallback.Contains(normalized, language)
	s.cache.Set(key, valid)
	return valid
}

// Fallback exposes the static word lists (used for bot moves and hints)
func (s *Service) Fallback() *FallbackSet {
	return s.fallback
}

// CacheStats returns the read-only hit/miss counters
func (s *Service) CacheStats() CacheStats {
	return s.cache.Stats()
}

func cacheKey(word, language string) string {
	return language + ":" + word
}
