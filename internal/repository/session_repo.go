package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"wordchain/internal/database"
	"wordchain/internal/models"
)

// SessionRepository persists game sessions keyed by channel id.
// Collections are stored as JSON columns, matching the append-heavy
// access pattern (the whole session is always read and written as one row).
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session row. The channel-id primary key makes a
// duplicate create fail, backing the one-session-per-channel invariant.
func (r *SessionRepository) Create(session *models.GameSession) error {
	usedWords, participants, scores, err := marshalSessionColumns(session)
	if err != nil {
		return err
	}
	currentPlayer, err := json.Marshal(session.CurrentPlayer)
	if err != nil {
		return fmt.Errorf("failed to encode current player: %w", err)
	}

	query := `
		INSERT INTO game_sessions
		(channel_id, community_id, language, current_word, current_player,
		 used_words, participants, session_scores, turn_count,
		 is_bot_challenge, started_at, turn_started_at, turn_deadline)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		session.ChannelID,
		session.CommunityID,
		session.Language,
		session.CurrentWord,
		string(currentPlayer),
		usedWords,
		participants,
		scores,
		session.TurnCount,
		session.BotChallenge,
		session.StartedAt,
		session.TurnStartedAt,
		session.TurnDeadline,
	)
	return err
}

// Get retrieves the session for a channel, or nil when none exists
func (r *SessionRepository) Get(channelID string) (*models.GameSession, error) {
	query := `
		SELECT channel_id, community_id, language, current_word, current_player,
		       used_words, participants, session_scores, turn_count,
		       is_bot_challenge, started_at, turn_started_at, turn_deadline
		FROM game_sessions
		WHERE channel_id = ?
	`

	session := &models.GameSession{}
	var currentPlayer, usedWords, participants, scores string

	err := r.db.QueryRow(query, channelID).Scan(
		&session.ChannelID,
		&session.CommunityID,
		&session.Language,
		&session.CurrentWord,
		&currentPlayer,
		&usedWords,
		&participants,
		&scores,
		&session.TurnCount,
		&session.BotChallenge,
		&session.StartedAt,
		&session.TurnStartedAt,
		&session.TurnDeadline,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := unmarshalSessionColumns(session, currentPlayer, usedWords, participants, scores); err != nil {
		return nil, err
	}

	return session, nil
}

// Save writes the mutable session fields back to the row
func (r *SessionRepository) Save(session *models.GameSession) error {
	usedWords, participants, scores, err := marshalSessionColumns(session)
	if err != nil {
		return err
	}
	currentPlayer, err := json.Marshal(session.CurrentPlayer)
	if err != nil {
		return fmt.Errorf("failed to encode current player: %w", err)
	}

	query := `
		UPDATE game_sessions
		SET current_word = ?,
		    current_player = ?,
		    used_words = ?,
		    participants = ?,
		    session_scores = ?,
		    turn_count = ?,
		    turn_started_at = ?,
		    turn_deadline = ?
		WHERE channel_id = ?
	`

	result, err := r.db.Exec(query,
		session.CurrentWord,
		string(currentPlayer),
		usedWords,
		participants,
		scores,
		session.TurnCount,
		session.TurnStartedAt,
		session.TurnDeadline,
		session.ChannelID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("no session row for channel %s", session.ChannelID)
	}
	return nil
}

// Delete removes the session row for a channel
func (r *SessionRepository) Delete(channelID string) error {
	query := "DELETE FROM game_sessions WHERE channel_id = ?"
	_, err := r.db.Exec(query, channelID)
	return err
}

func marshalSessionColumns(session *models.GameSession) (usedWords, participants, scores string, err error) {
	usedWordsJSON, err := json.Marshal(session.UsedWords)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode used words: %w", err)
	}
	participantsJSON, err := json.Marshal(session.Participants)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode participants: %w", err)
	}
	sessionScores := session.SessionScores
	if sessionScores == nil {
		sessionScores = map[string]int{}
	}
	scoresJSON, err := json.Marshal(sessionScores)
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode session scores: %w", err)
	}
	return string(usedWordsJSON), string(participantsJSON), string(scoresJSON), nil
}

func unmarshalSessionColumns(session *models.GameSession, currentPlayer, usedWords, participants, scores string) error {
	if err := json.Unmarshal([]byte(currentPlayer), &session.CurrentPlayer); err != nil {
		return fmt.Errorf("failed to decode current player: %w", err)
	}
	if err := json.Unmarshal([]byte(usedWords), &session.UsedWords); err != nil {
		return fmt.Errorf("failed to decode used words: %w", err)
	}
	if err := json.Unmarshal([]byte(participants), &session.Participants); err != nil {
		return fmt.Errorf("failed to decode participants: %w", err)
	}
	if err := json.Unmarshal([]byte(scores), &session.SessionScores); err != nil {
		return fmt.Errorf("failed to decode session scores: %w", err)
	}
	return nil
}
