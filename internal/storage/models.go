package storage

import "context"

// RecordStatus is the outcome stored on a history record. Won/Lost/Draw
// are decided at commit time from the player score sums; Normalized marks
// a record derived by bonus normalization.
type RecordStatus string

const (
	StatusWon        RecordStatus = "won"
	StatusLost       RecordStatus = "lost"
	StatusDraw       RecordStatus = "draw"
	StatusNormalized RecordStatus = "normalized"
)

// PlayerScore is one player's line inside a history record.
type PlayerScore struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	DCCount int    `json:"dc_count"`
	DCRaces []int  `json:"dc_races,omitempty"`
}

// TeamScores groups the player lines by side.
type TeamScores struct {
	Team1 []PlayerScore `json:"team1"`
	Team2 []PlayerScore `json:"team2"`
}

// HistoryRecord is an immutable committed summary of one war. Records are
// only ever appended; normalization derives a new record instead of
// editing the source.
type HistoryRecord struct {
	ID             string       `json:"id"`
	Date           string       `json:"date"`      // period key, YYYY-MM
	Timestamp      string       `json:"timestamp"` // YYYY-MM-DD HH:MM:SS
	Team1Name      string       `json:"team1_name"`
	Team2Name      string       `json:"team2_name"`
	Team1Score     int          `json:"team1_score"`
	Team2Score     int          `json:"team2_score"`
	Status         RecordStatus `json:"status"`
	Notes          []string     `json:"notes"`
	PlayersPerTeam int          `json:"players_per_team"`
	PlayerScores   TeamScores   `json:"player_scores_data"`
	DCPerRace      map[int]int  `json:"dc_per_race_count"`
	// OriginalWarID references the source record on normalized records.
	OriginalWarID string `json:"original_war_id,omitempty"`
}

// HistoryStore is the persistence contract the engine depends on.
type HistoryStore interface {
	// LoadHistory returns every committed record in append order.
	LoadHistory(ctx context.Context) ([]HistoryRecord, error)
	// AppendHistory commits one record. Appended records are never mutated.
	AppendHistory(ctx context.Context, rec HistoryRecord) error
	// NextID atomically advances the id counter and returns the new id as
	// a 5-digit zero-padded string.
	NextID(ctx context.Context) (string, error)
}
