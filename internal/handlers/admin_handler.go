package handlers

import (
	"log"
	"net/http"

	"wordchain/internal/repository"
)

// AdminHandler serves the operator endpoints. Every route is guarded by
// the bearer-token middleware.
type AdminHandler struct {
	scores *repository.ScoreRepository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(scores *repository.ScoreRepository) *AdminHandler {
	return &AdminHandler{scores: scores}
}

type addPointsRequest struct {
	PlayerID    string `json:"player_id"`
	CommunityID string `json:"community_id"`
	Delta       int    `json:"delta"`
}

// AddPoints handles POST /api/admin/points
func (h *AdminHandler) AddPoints(w http.ResponseWriter, r *http.Request) {
	var req addPointsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PlayerID == "" || req.CommunityID == "" {
		respondWithError(w, http.StatusBadRequest, "player_id and community_id are required", nil)
		return
	}

	if err := h.scores.AddPoints(req.PlayerID, req.CommunityID, req.Delta); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to adjust points", err)
		return
	}

	total, err := h.scores.GetPoints(req.PlayerID, req.CommunityID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load points", err)
		return
	}

	log.Printf("admin %s adjusted %s by %d in community %s",
		OperatorFromContext(r.Context()), req.PlayerID, req.Delta, req.CommunityID)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"player_id":    req.PlayerID,
		"community_id": req.CommunityID,
		"total_points": total,
	})
}

// ResetPlayer handles DELETE /api/admin/communities/{communityID}/players/{playerID}
func (h *AdminHandler) ResetPlayer(w http.ResponseWriter, r *http.Request) {
	communityID := r.PathValue("communityID")
	playerID := r.PathValue("playerID")

	if err := h.scores.ResetPlayer(playerID, communityID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to reset player", err)
		return
	}

	log.Printf("admin %s reset %s in community %s",
		OperatorFromContext(r.Context()), playerID, communityID)
	w.WriteHeader(http.StatusNoContent)
}

// ResetCommunity handles DELETE /api/admin/communities/{communityID}/scores
func (h *AdminHandler) ResetCommunity(w http.ResponseWriter, r *http.Request) {
	communityID := r.PathValue("communityID")

	if err := h.scores.ResetCommunity(communityID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to reset community", err)
		return
	}

	log.Printf("admin %s reset community %s", OperatorFromContext(r.Context()), communityID)
	w.WriteHeader(http.StatusNoContent)
}
