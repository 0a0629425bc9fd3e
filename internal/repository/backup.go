package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"wordchain/internal/models"
)

// BackupService exports and imports the durable tables as JSON. Game
// sessions are transient and deliberately excluded.
type BackupService struct {
	store *Store
}

// NewBackupService creates a backup service over the store
func NewBackupService(store *Store) *BackupService {
	return &BackupService{store: store}
}

// backupFile is the on-disk backup format
type backupFile struct {
	Version    int                  `json:"version"`
	ExportedAt time.Time            `json:"exported_at"`
	Scores     []models.ScoreRecord `json:"scores"`
	History    []models.GameRecord  `json:"history"`
}

// Export writes every score and history row to a JSON file
func (s *BackupService) Export(path string) error {
	scores, err := s.store.ScoreRepo().ListAll()
	if err != nil {
		return fmt.Errorf("failed to read scores: %w", err)
	}
	history, err := s.store.HistoryRepo().ListAll()
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backupFile{
		Version:    1,
		ExportedAt: time.Now().UTC(),
		Scores:     scores,
		History:    history,
	})
}

// Import reads a backup file and inserts its rows. Existing rows with
// the same keys make the import fail; clear the tables first to replace.
func (s *BackupService) Import(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup backupFile
	if err := json.Unmarshal(data, &backup); err != nil {
		return fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version != 1 {
		return fmt.Errorf("unsupported backup version %d", backup.Version)
	}

	for _, record := range backup.Scores {
		if err := s.store.ScoreRepo().Restore(record); err != nil {
			return fmt.Errorf("failed to restore score for %s/%s: %w",
				record.PlayerID, record.CommunityID, err)
		}
	}
	for _, record := range backup.History {
		if _, err := s.store.HistoryRepo().Record(record); err != nil {
			return fmt.Errorf("failed to restore game %s: %w", record.ID, err)
		}
	}
	return nil
}
