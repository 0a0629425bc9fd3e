package models

import (
	"strings"
	"time"
)

// BotID is the reserved participant id for the automated player
const BotID = "bot"

// Player identifies a game participant: a human id or the bot
type Player struct {
	ID  string `json:"id"`
	Bot bool   `json:"bot,omitempty"`
}

// BotPlayer is the automated participant used in bot-challenge sessions
var BotPlayer = Player{ID: BotID, Bot: true}

// HumanPlayer builds a human participant from an external id
func HumanPlayer(id string) Player {
	return Player{ID: id}
}

// GameSession is the mutable per-channel record of an in-progress game.
// UsedWords keeps insertion order and stores lowercased words only.
type GameSession struct {
	ChannelID     string         `json:"channel_id"`
	CommunityID   string         `json:"community_id"`
	Language      string         `json:"language"`
	CurrentWord   string         `json:"current_word"`
	CurrentPlayer Player         `json:"current_player"`
	UsedWords     []string       `json:"used_words"`
	Participants  []Player       `json:"participants"`
	TurnCount     int            `json:"turn_count"`
	StartedAt     time.Time      `json:"started_at"`
	BotChallenge  bool           `json:"bot_challenge"`
	TurnStartedAt time.Time      `json:"turn_started_at"`
	TurnDeadline  time.Time      `json:"turn_deadline"`
	SessionScores map[string]int `json:"session_scores"`
}

// HasUsedWord reports whether the word was already played (case-insensitive)
func (s *GameSession) HasUsedWord(word string) bool {
	lowered := strings.ToLower(strings.TrimSpace(word))
	for _, used := range s.UsedWords {
		if used == lowered {
			return true
		}
	}
	return false
}

// NextPlayer returns the participant after p in round-robin order.
// Unknown players map to the first participant.
func (s *GameSession) NextPlayer(p Player) Player {
	if len(s.Participants) == 0 {
		return p
	}
	for i, participant := range s.Participants {
		if participant == p {
			return s.Participants[(i+1)%len(s.Participants)]
		}
	}
	return s.Participants[0]
}

// HasParticipant reports whether p already joined the session
func (s *GameSession) HasParticipant(p Player) bool {
	for _, participant := range s.Participants {
		if participant == p {
			return true
		}
	}
	return false
}

// Clone returns a deep copy safe to hand out or mutate outside the
// channel's exclusive region
func (s *GameSession) Clone() *GameSession {
	if s == nil {
		return nil
	}
	clone := *s
	clone.UsedWords = append([]string(nil), s.UsedWords...)
	clone.Participants = append([]Player(nil), s.Participants...)
	clone.SessionScores = make(map[string]int, len(s.SessionScores))
	for id, points := range s.SessionScores {
		clone.SessionScores[id] = points
	}
	return &clone
}

// GameSummary is returned by StopGame for archival by the caller
type GameSummary struct {
	ChannelID   string    `json:"channel_id"`
	CommunityID string    `json:"community_id"`
	Language    string    `json:"language"`
	TurnCount   int       `json:"turn_count"`
	WordCount   int       `json:"word_count"`
	Winner      *Player   `json:"winner,omitempty"`
	WinnerScore int       `json:"winner_score"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
}

// GameRecord is the append-only history row written after a game ends
type GameRecord struct {
	ID          string    `json:"id"`
	ChannelID   string    `json:"channel_id"`
	CommunityID string    `json:"community_id"`
	Language    string    `json:"language"`
	WinnerID    string    `json:"winner_id,omitempty"`
	TotalTurns  int       `json:"total_turns"`
	TotalWords  int       `json:"total_words"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
}
