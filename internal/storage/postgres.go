package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists war history in Postgres. Structured sub-documents
// (player scores, disconnect map, notes) live in jsonb columns so the
// record round-trips byte-for-byte with the file store layout.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping db: %w", err)
	}
	return &PostgresStore{db: pool}, nil
}

// EnsureSchema creates the history table and the single-row id counter.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS war_history (
			id               TEXT PRIMARY KEY,
			date             TEXT NOT NULL,
			recorded_at      TEXT NOT NULL,
			team1_name       TEXT NOT NULL,
			team2_name       TEXT NOT NULL,
			team1_score      INT NOT NULL,
			team2_score      INT NOT NULL,
			status           TEXT NOT NULL,
			players_per_team INT NOT NULL,
			notes            JSONB NOT NULL DEFAULT '[]',
			player_scores    JSONB NOT NULL DEFAULT '{}',
			dc_per_race      JSONB NOT NULL DEFAULT '{}',
			original_war_id  TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("create war_history: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS war_id_counter (
			id    INT PRIMARY KEY CHECK (id = 1),
			value INT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create war_id_counter: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO war_id_counter (id, value) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("seed war_id_counter: %w", err)
	}
	return nil
}

func (s *PostgresStore) LoadHistory(ctx context.Context) ([]HistoryRecord, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, date, recorded_at, team1_name, team2_name, team1_score,
		       team2_score, status, players_per_team, notes, player_scores,
		       dc_per_race, original_war_id
		FROM war_history ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		var notes, scores, dcs []byte
		if err := rows.Scan(&rec.ID, &rec.Date, &rec.Timestamp, &rec.Team1Name,
			&rec.Team2Name, &rec.Team1Score, &rec.Team2Score, &rec.Status,
			&rec.PlayersPerTeam, &notes, &scores, &dcs, &rec.OriginalWarID); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(notes, &rec.Notes); err != nil {
			return nil, fmt.Errorf("decode notes for war %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal(scores, &rec.PlayerScores); err != nil {
			return nil, fmt.Errorf("decode player scores for war %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal(dcs, &rec.DCPerRace); err != nil {
			return nil, fmt.Errorf("decode dc map for war %s: %w", rec.ID, err)
		}
		history = append(history, rec)
	}
	return history, rows.Err()
}

func (s *PostgresStore) AppendHistory(ctx context.Context, rec HistoryRecord) error {
	notes, err := json.Marshal(rec.Notes)
	if err != nil {
		return err
	}
	scores, err := json.Marshal(rec.PlayerScores)
	if err != nil {
		return err
	}
	dcs, err := json.Marshal(rec.DCPerRace)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO war_history (id, date, recorded_at, team1_name, team2_name,
			team1_score, team2_score, status, players_per_team, notes,
			player_scores, dc_per_race, original_war_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		rec.ID, rec.Date, rec.Timestamp, rec.Team1Name, rec.Team2Name,
		rec.Team1Score, rec.Team2Score, rec.Status, rec.PlayersPerTeam,
		notes, scores, dcs, rec.OriginalWarID)
	return err
}

// NextID bumps the counter in a single statement, which keeps id
// allocation atomic across channels.
func (s *PostgresStore) NextID(ctx context.Context) (string, error) {
	var value int
	err := s.db.QueryRow(ctx,
		`UPDATE war_id_counter SET value = value + 1 WHERE id = 1 RETURNING value`).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("advance id counter: %w", err)
	}
	return fmt.Sprintf("%05d", value), nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}
