package repository

import (
	"wordchain/internal/database"
	"wordchain/internal/game"
)

// Store bundles the repositories behind one handle and provides the
// transactional boundary the game controller commits through.
type Store struct {
	db       *database.DB
	sessions *SessionRepository
	scores   *ScoreRepository
	history  *HistoryRepository
}

// NewStore builds a store over the shared database handle
func NewStore(db *database.DB) *Store {
	return &Store{
		db:       db,
		sessions: NewSessionRepository(db),
		scores:   NewScoreRepository(db),
		history:  NewHistoryRepository(db),
	}
}

// Sessions returns the session repository
func (s *Store) Sessions() game.SessionStore {
	return s.sessions
}

// Scores returns the score repository
func (s *Store) Scores() game.ScoreStore {
	return s.scores
}

// History returns the history repository
func (s *Store) History() game.HistoryStore {
	return s.history
}

// SessionRepo exposes the concrete session repository
func (s *Store) SessionRepo() *SessionRepository {
	return s.sessions
}

// ScoreRepo exposes the concrete score repository
func (s *Store) ScoreRepo() *ScoreRepository {
	return s.scores
}

// HistoryRepo exposes the concrete history repository
func (s *Store) HistoryRepo() *HistoryRepository {
	return s.history
}

// WithTx runs fn with repositories bound to a single transaction. A nil
// return commits; any error rolls everything back.
func (s *Store) WithTx(fn func(tx game.Store) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	txStore := &txStore{
		sessions: NewSessionRepository(tx),
		scores:   NewScoreRepository(tx),
		history:  NewHistoryRepository(tx),
	}

	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// txStore is the in-transaction view of a Store. Nested WithTx calls run
// inside the already-open transaction.
type txStore struct {
	sessions *SessionRepository
	scores   *ScoreRepository
	history  *HistoryRepository
}

func (s *txStore) Sessions() game.SessionStore { return s.sessions }
func (s *txStore) Scores() game.ScoreStore     { return s.scores }
func (s *txStore) History() game.HistoryStore  { return s.history }

func (s *txStore) WithTx(fn func(tx game.Store) error) error {
	return fn(s)
}
