package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"wordchain/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// OperatorContextKey carries the verified admin operator id
const OperatorContextKey ContextKey = "operator"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	limiter *security.RateLimiter
	tokens  *security.TokenIssuer
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(limiter *security.RateLimiter, tokens *security.TokenIssuer) *Middleware {
	return &Middleware{limiter: limiter, tokens: tokens}
}

// RateLimit rejects clients that exceed their request window
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, "too many requests", nil)
			return
		}
		next(w, r)
	}
}

// RequireAdmin validates the bearer token on admin endpoints
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondWithError(w, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}

		operatorID, err := m.tokens.Verify(token)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "invalid bearer token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), OperatorContextKey, operatorID)
		next(w, r.WithContext(ctx))
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// OperatorFromContext retrieves the verified operator id, if any
func OperatorFromContext(ctx context.Context) string {
	operator, _ := ctx.Value(OperatorContextKey).(string)
	return operator
}
