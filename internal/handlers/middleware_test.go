package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wordchain/internal/game"
	"wordchain/internal/security"
)

func TestRequireAdmin(t *testing.T) {
	tokens := security.NewTokenIssuer("test-secret", time.Hour)
	middleware := NewMiddleware(security.NewRateLimiter(100, time.Minute), tokens)

	var seenOperator string
	handler := middleware.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		seenOperator = OperatorFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	valid, err := tokens.Issue("operator-1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + valid, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/admin/points", nil)
			if tt.authHeader != "" {
				r.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler(w, r)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}

	if seenOperator != "operator-1" {
		t.Errorf("operator in context = %q, want operator-1", seenOperator)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	middleware := NewMiddleware(security.NewRateLimiter(2, time.Hour), security.NewTokenIssuer("s", time.Hour))

	handler := middleware.RateLimit(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		r := httptest.NewRequest("POST", "/api/channels/c/words", nil)
		r.RemoteAddr = "1.2.3.4:1000"
		w := httptest.NewRecorder()
		handler(w, r)
		statuses = append(statuses, w.Code)
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i+1, statuses[i], want[i])
		}
	}
}

func TestRespondWithGameErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{game.ErrNoActiveGame, http.StatusNotFound},
		{game.ErrAlreadyActive, http.StatusConflict},
		{game.ErrNotYourTurn, http.StatusConflict},
		{game.ErrUnsupportedLanguage, http.StatusBadRequest},
		{game.ErrInsufficientPoints, http.StatusPaymentRequired},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		respondWithGameError(w, tt.err)
		if w.Code != tt.wantStatus {
			t.Errorf("%v mapped to %d, want %d", tt.err, w.Code, tt.wantStatus)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q, want application/json", ct)
		}
	}
}
