package repository

import (
	"database/sql"
	"unicode/utf8"

	"wordchain/internal/database"
	"wordchain/internal/models"
)

// ScoreRepository is the durable point ledger keyed by (player, community).
// Every mutation is a single atomic upsert so concurrent deltas from
// different channels compose without lost updates.
type ScoreRepository struct {
	db database.DBTX
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(db database.DBTX) *ScoreRepository {
	return &ScoreRepository{db: db}
}

// AddPoints applies a point delta to a player's community total
func (r *ScoreRepository) AddPoints(playerID, communityID string, delta int) error {
	var query string
	if r.db.GetDialect().SupportsOnConflict() {
		query = `
			INSERT INTO player_scores (player_id, community_id, total_points, last_played)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (player_id, community_id) DO UPDATE SET
				total_points = player_scores.total_points + excluded.total_points,
				last_played = CURRENT_TIMESTAMP
		`
	} else {
		query = `
			INSERT INTO player_scores (player_id, community_id, total_points, last_played)
			VALUES (?, ?, ?, CURRENT_TIMESTAMP)
			ON DUPLICATE KEY UPDATE
				total_points = total_points + VALUES(total_points),
				last_played = CURRENT_TIMESTAMP
		`
	}

	_, err := r.db.Exec(query, playerID, communityID, delta)
	return err
}

// RecordWordOutcome bumps the submission counters and, for correct words,
// replaces the longest word only on strictly greater length (ties keep
// the earlier word). Length counts runes, not bytes.
func (r *ScoreRepository) RecordWordOutcome(playerID, communityID, word string, correct bool) error {
	if !correct {
		var query string
		if r.db.GetDialect().SupportsOnConflict() {
			query = `
				INSERT INTO player_scores (player_id, community_id, words_submitted, wrong_words, last_played)
				VALUES (?, ?, 1, 1, CURRENT_TIMESTAMP)
				ON CONFLICT (player_id, community_id) DO UPDATE SET
					words_submitted = player_scores.words_submitted + 1,
					wrong_words = player_scores.wrong_words + 1,
					last_played = CURRENT_TIMESTAMP
			`
		} else {
			query = `
				INSERT INTO player_scores (player_id, community_id, words_submitted, wrong_words, last_played)
				VALUES (?, ?, 1, 1, CURRENT_TIMESTAMP)
				ON DUPLICATE KEY UPDATE
					words_submitted = words_submitted + 1,
					wrong_words = wrong_words + 1,
					last_played = CURRENT_TIMESTAMP
			`
		}
		_, err := r.db.Exec(query, playerID, communityID)
		return err
	}

	wordLength := utf8.RuneCountInString(word)

	var query string
	if r.db.GetDialect().SupportsOnConflict() {
		query = `
			INSERT INTO player_scores
			(player_id, community_id, words_submitted, correct_words, longest_word, longest_word_length, last_played)
			VALUES (?, ?, 1, 1, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (player_id, community_id) DO UPDATE SET
				words_submitted = player_scores.words_submitted + 1,
				correct_words = player_scores.correct_words + 1,
				longest_word = CASE WHEN excluded.longest_word_length > player_scores.longest_word_length
					THEN excluded.longest_word ELSE player_scores.longest_word END,
				longest_word_length = CASE WHEN excluded.longest_word_length > player_scores.longest_word_length
					THEN excluded.longest_word_length ELSE player_scores.longest_word_length END,
				last_played = CURRENT_TIMESTAMP
		`
	} else {
		// assignment order matters: longest_word must read the old length
		query = `
			INSERT INTO player_scores
			(player_id, community_id, words_submitted, correct_words, longest_word, longest_word_length, last_played)
			VALUES (?, ?, 1, 1, ?, ?, CURRENT_TIMESTAMP)
			ON DUPLICATE KEY UPDATE
				words_submitted = words_submitted + 1,
				correct_words = correct_words + 1,
				longest_word = IF(VALUES(longest_word_length) > longest_word_length, VALUES(longest_word), longest_word),
				longest_word_length = IF(VALUES(longest_word_length) > longest_word_length, VALUES(longest_word_length), longest_word_length),
				last_played = CURRENT_TIMESTAMP
		`
	}

	_, err := r.db.Exec(query, playerID, communityID, word, wordLength)
	return err
}

// IncrementGamesPlayed bumps the games counter for a participant
func (r *ScoreRepository) IncrementGamesPlayed(playerID, communityID string) error {
	var query string
	if r.db.GetDialect().SupportsOnConflict() {
		query = `
			INSERT INTO player_scores (player_id, community_id, games_played, last_played)
			VALUES (?, ?, 1, CURRENT_TIMESTAMP)
			ON CONFLICT (player_id, community_id) DO UPDATE SET
				games_played = player_scores.games_played + 1,
				last_played = CURRENT_TIMESTAMP
		`
	} else {
		query = `
			INSERT INTO player_scores (player_id, community_id, games_played, last_played)
			VALUES (?, ?, 1, CURRENT_TIMESTAMP)
			ON DUPLICATE KEY UPDATE
				games_played = games_played + 1,
				last_played = CURRENT_TIMESTAMP
		`
	}
	_, err := r.db.Exec(query, playerID, communityID)
	return err
}

// GetPoints returns a player's community total, zero when unknown
func (r *ScoreRepository) GetPoints(playerID, communityID string) (int, error) {
	query := "SELECT total_points FROM player_scores WHERE player_id = ? AND community_id = ?"

	var points int
	err := r.db.QueryRow(query, playerID, communityID).Scan(&points)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return points, nil
}

// GetRecord retrieves the full score record, or nil when the player has
// never played in the community
func (r *ScoreRepository) GetRecord(playerID, communityID string) (*models.ScoreRecord, error) {
	query := `
		SELECT player_id, community_id, total_points, games_played,
		       words_submitted, correct_words, wrong_words,
		       longest_word, longest_word_length, last_played
		FROM player_scores
		WHERE player_id = ? AND community_id = ?
	`

	record := &models.ScoreRecord{}
	err := r.db.QueryRow(query, playerID, communityID).Scan(
		&record.PlayerID,
		&record.CommunityID,
		&record.TotalPoints,
		&record.GamesPlayed,
		&record.WordsSubmitted,
		&record.CorrectWords,
		&record.WrongWords,
		&record.LongestWord,
		&record.LongestWordLength,
		&record.LastPlayed,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// GetLeaderboard returns up to limit entries ordered by total points
// descending. Order among equal scores is whatever the database returns.
func (r *ScoreRepository) GetLeaderboard(communityID string, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT player_id, total_points, games_played, correct_words, longest_word
		FROM player_scores
		WHERE community_id = ?
		ORDER BY total_points DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, communityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		err := rows.Scan(
			&entry.PlayerID,
			&entry.TotalPoints,
			&entry.GamesPlayed,
			&entry.CorrectWords,
			&entry.LongestWord,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// ResetPlayer deletes one player's record in a community
func (r *ScoreRepository) ResetPlayer(playerID, communityID string) error {
	query := "DELETE FROM player_scores WHERE player_id = ? AND community_id = ?"
	_, err := r.db.Exec(query, playerID, communityID)
	return err
}

// ResetCommunity deletes every record in a community
func (r *ScoreRepository) ResetCommunity(communityID string) error {
	query := "DELETE FROM player_scores WHERE community_id = ?"
	_, err := r.db.Exec(query, communityID)
	return err
}

// ListAll returns every score record, used by the backup tool
func (r *ScoreRepository) ListAll() ([]models.ScoreRecord, error) {
	query := `
		SELECT player_id, community_id, total_points, games_played,
		       words_submitted, correct_words, wrong_words,
		       longest_word, longest_word_length, last_played
		FROM player_scores
		ORDER BY community_id, player_id
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ScoreRecord
	for rows.Next() {
		var record models.ScoreRecord
		err := rows.Scan(
			&record.PlayerID,
			&record.CommunityID,
			&record.TotalPoints,
			&record.GamesPlayed,
			&record.WordsSubmitted,
			&record.CorrectWords,
			&record.WrongWords,
			&record.LongestWord,
			&record.LongestWordLength,
			&record.LastPlayed,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Restore inserts a score record verbatim, used by the backup tool
func (r *ScoreRepository) Restore(record models.ScoreRecord) error {
	query := `
		INSERT INTO player_scores
		(player_id, community_id, total_points, games_played, words_submitted,
		 correct_words, wrong_words, longest_word, longest_word_length, last_played)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		record.PlayerID,
		record.CommunityID,
		record.TotalPoints,
		record.GamesPlayed,
		record.WordsSubmitted,
		record.CorrectWords,
		record.WrongWords,
		record.LongestWord,
		record.LongestWordLength,
		record.LastPlayed,
	)
	return err
}
