package handlers

import (
	"net/http"
	"strconv"

	"wordchain/internal/dictionary"
	"wordchain/internal/repository"
)

const defaultLeaderboardLimit = 10

// ScoreHandler serves leaderboards, player stats and game history
type ScoreHandler struct {
	scores     *repository.ScoreRepository
	history    *repository.HistoryRepository
	dictionary *dictionary.Service
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(scores *repository.ScoreRepository, history *repository.HistoryRepository, dict *dictionary.Service) *ScoreHandler {
	return &ScoreHandler{scores: scores, history: history, dictionary: dict}
}

// Leaderboard handles GET /api/communities/{communityID}/leaderboard
func (h *ScoreHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	communityID := r.PathValue("communityID")
	limit := queryLimit(r, defaultLeaderboardLimit)

	entries, err := h.scores.GetLeaderboard(communityID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load leaderboard", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"community_id": communityID,
		"entries":      entries,
	})
}

// PlayerStats handles GET /api/communities/{communityID}/players/{playerID}
func (h *ScoreHandler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	communityID := r.PathValue("communityID")
	playerID := r.PathValue("playerID")

	record, err := h.scores.GetRecord(playerID, communityID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load player stats", err)
		return
	}
	if record == nil {
		respondWithError(w, http.StatusNotFound, "player has not played in this community", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, record)
}

// History handles GET /api/communities/{communityID}/history
func (h *ScoreHandler) History(w http.ResponseWriter, r *http.Request) {
	communityID := r.PathValue("communityID")
	limit := queryLimit(r, defaultLeaderboardLimit)

	records, err := h.history.ListByCommunity(communityID, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load game history", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"community_id": communityID,
		"games":        records,
	})
}

// CacheStats handles GET /api/stats/dictionary
func (h *ScoreHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.dictionary.CacheStats())
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 100 {
		return fallback
	}
	return limit
}
