package game

import "wordchain/internal/models"

// SessionStore persists per-channel game sessions
type SessionStore interface {
	Create(session *models.GameSession) error
	Get(channelID string) (*models.GameSession, error)
	Save(session *models.GameSession) error
	Delete(channelID string) error
}

// ScoreStore is the durable point ledger
type ScoreStore interface {
	AddPoints(playerID, communityID string, delta int) error
	RecordWordOutcome(playerID, communityID, word string, correct bool) error
	IncrementGamesPlayed(playerID, communityID string) error
	GetPoints(playerID, communityID string) (int, error)
}

// HistoryStore archives completed games
type HistoryStore interface {
	Record(record models.GameRecord) (string, error)
}

// Store bundles the persistence surface the controller writes through.
// WithTx runs fn against a store whose writes commit atomically; a
// returned error rolls the whole batch back.
type Store interface {
	Sessions() SessionStore
	Scores() ScoreStore
	History() HistoryStore
	WithTx(fn func(tx Store) error) error
}
