package handlers

import (
	"net/http"

	"wordchain/internal/game"
	"wordchain/internal/models"
)

// GameHandler exposes the game lifecycle over JSON
type GameHandler struct {
	controller      *game.Controller
	defaultLanguage string
}

// NewGameHandler creates a new game handler
func NewGameHandler(controller *game.Controller, defaultLanguage string) *GameHandler {
	return &GameHandler{controller: controller, defaultLanguage: defaultLanguage}
}

type createGameRequest struct {
	CommunityID  string `json:"community_id"`
	Language     string `json:"language"`
	FirstWord    string `json:"first_word"`
	PlayerID     string `json:"player_id"`
	BotChallenge bool   `json:"bot_challenge"`
}

// CreateGame handles POST /api/channels/{channelID}/game
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("channelID")

	var req createGameRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PlayerID == "" || req.CommunityID == "" {
		respondWithError(w, http.StatusBadRequest, "player_id and community_id are required", nil)
		return
	}
	if req.Language == "" {
		req.Language = h.defaultLanguage
	}

	session, err := h.controller.CreateGame(r.Context(), channelID, req.CommunityID,
		req.Language, req.FirstWord, models.HumanPlayer(req.PlayerID), req.BotChallenge)
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, session)
}

// Status handles GET /api/channels/{channelID}/game
func (h *GameHandler) Status(w http.ResponseWriter, r *http.Request) {
	session, err := h.controller.Status(r.PathValue("channelID"))
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// StopGame handles DELETE /api/channels/{channelID}/game
func (h *GameHandler) StopGame(w http.ResponseWriter, r *http.Request) {
	summary, err := h.controller.StopGame(r.PathValue("channelID"))
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, summary)
}

type playerRequest struct {
	PlayerID string `json:"player_id"`
}

type submitWordRequest struct {
	PlayerID string `json:"player_id"`
	Word     string `json:"word"`
}

// SubmitWord handles POST /api/channels/{channelID}/words
func (h *GameHandler) SubmitWord(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("channelID")

	var req submitWordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PlayerID == "" {
		respondWithError(w, http.StatusBadRequest, "player_id is required", nil)
		return
	}

	result, err := h.controller.SubmitWord(r.Context(), channelID, models.HumanPlayer(req.PlayerID), req.Word)
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// ArmTimer handles POST /api/channels/{channelID}/timer
func (h *GameHandler) ArmTimer(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("channelID")

	var req playerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PlayerID == "" {
		respondWithError(w, http.StatusBadRequest, "player_id is required", nil)
		return
	}

	session, err := h.controller.ArmTimer(channelID, models.HumanPlayer(req.PlayerID))
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// PassTurn handles POST /api/channels/{channelID}/pass
func (h *GameHandler) PassTurn(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("channelID")

	var req playerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PlayerID == "" {
		respondWithError(w, http.StatusBadRequest, "player_id is required", nil)
		return
	}

	session, err := h.controller.PassTurn(channelID, models.HumanPlayer(req.PlayerID))
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, session)
}

// BuyHint handles POST /api/channels/{channelID}/hint
func (h *GameHandler) BuyHint(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("channelID")

	var req playerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.PlayerID == "" {
		respondWithError(w, http.StatusBadRequest, "player_id is required", nil)
		return
	}

	hint, err := h.controller.BuyHint(channelID, models.HumanPlayer(req.PlayerID))
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, hint)
}
