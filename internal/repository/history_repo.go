package repository

import (
	"database/sql"

	"github.com/google/uuid"

	"wordchain/internal/database"
	"wordchain/internal/models"
)

// HistoryRepository stores the append-only record of completed games
type HistoryRepository struct {
	db database.DBTX
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db database.DBTX) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record appends a completed-game row. A missing id gets a fresh UUID.
func (r *HistoryRepository) Record(record models.GameRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	query := `
		INSERT INTO game_history
		(id, channel_id, community_id, language, winner_id,
		 total_turns, total_words, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var winnerID sql.NullString
	if record.WinnerID != "" {
		winnerID = sql.NullString{String: record.WinnerID, Valid: true}
	}

	_, err := r.db.Exec(query,
		record.ID,
		record.ChannelID,
		record.CommunityID,
		record.Language,
		winnerID,
		record.TotalTurns,
		record.TotalWords,
		record.StartedAt,
		record.EndedAt,
	)
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// ListByCommunity returns a community's most recent games, newest first
func (r *HistoryRepository) ListByCommunity(communityID string, limit int) ([]models.GameRecord, error) {
	query := `
		SELECT id, channel_id, community_id, language, winner_id,
		       total_turns, total_words, started_at, ended_at
		FROM game_history
		WHERE community_id = ?
		ORDER BY ended_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, communityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGameRecords(rows)
}

// ListAll returns every history row, used by the backup tool
func (r *HistoryRepository) ListAll() ([]models.GameRecord, error) {
	query := `
		SELECT id, channel_id, community_id, language, winner_id,
		       total_turns, total_words, started_at, ended_at
		FROM game_history
		ORDER BY ended_at
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGameRecords(rows)
}

func scanGameRecords(rows *sql.Rows) ([]models.GameRecord, error) {
	var records []models.GameRecord
	for rows.Next() {
		var record models.GameRecord
		var winnerID sql.NullString

		err := rows.Scan(
			&record.ID,
			&record.ChannelID,
			&record.CommunityID,
			&record.Language,
			&winnerID,
			&record.TotalTurns,
			&record.TotalWords,
			&record.StartedAt,
			&record.EndedAt,
		)
		if err != nil {
			return nil, err
		}

		if winnerID.Valid {
			record.WinnerID = winnerID.String
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
