package models

import "time"

// ScoreRecord tracks a player's standing within one community
type ScoreRecord struct {
	PlayerID          string    `json:"player_id"`
	CommunityID       string    `json:"community_id"`
	TotalPoints       int       `json:"total_points"`
	GamesPlayed       int       `json:"games_played"`
	WordsSubmitted    int       `json:"words_submitted"`
	CorrectWords      int       `json:"correct_words"`
	WrongWords        int       `json:"wrong_words"`
	LongestWord       string    `json:"longest_word"`
	LongestWordLength int       `json:"longest_word_length"`
	LastPlayed        time.Time `json:"last_played"`
}

// LeaderboardEntry is one row of a community leaderboard, ordered by
// total points descending. Relative order among equal scores is not
// a contractual guarantee.
type LeaderboardEntry struct {
	PlayerID     string `json:"player_id"`
	TotalPoints  int    `json:"total_points"`
	GamesPlayed  int    `json:"games_played"`
	CorrectWords int    `json:"correct_words"`
	LongestWord  string `json:"longest_word"`
}
