package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"wordchain/internal/game"
)

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg string, err error) {
	if err != nil {
		log.Printf("%s: %v", userMsg, err)
	}
	respondWithJSON(w, status, map[string]string{"error": userMsg})
}

// respondWithGameError maps the controller's state errors onto HTTP
// status codes; anything else is a server-side failure
func respondWithGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrNoActiveGame):
		respondWithError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, game.ErrAlreadyActive), errors.Is(err, game.ErrNotYourTurn):
		respondWithError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, game.ErrUnsupportedLanguage), errors.Is(err, game.ErrNoOpeningWord):
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, game.ErrInsufficientPoints):
		respondWithError(w, http.StatusPaymentRequired, err.Error(), nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body", err)
		return false
	}
	return true
}
