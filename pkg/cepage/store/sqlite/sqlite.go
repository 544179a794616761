package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/oenolab/cepage/pkg/cepage/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite prediction-history database with WAL mode
// enabled and the schema initialized.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS predictions (
	id TEXT PRIMARY KEY,
	description TEXT NOT NULL,
	points REAL NOT NULL,
	price REAL NOT NULL,
	variety TEXT NOT NULL,
	predicted_country TEXT NOT NULL,
	confidence TEXT NOT NULL,
	variety_recognized INTEGER NOT NULL,
	elapsed_seconds REAL NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_created ON predictions(created_at);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// RecordPrediction inserts a served prediction.
func (s *sqliteStore) RecordPrediction(ctx context.Context, p store.Prediction) error {
	confidence, err := json.Marshal(p.Confidence)
	if err != nil {
		return fmt.Errorf("encode confidence: %w", err)
	}

	recognized := 0
	if p.VarietyRecognized {
		recognized = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO predictions
			(id, description, points, price, variety, predicted_country,
			 confidence, variety_recognized, elapsed_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Description, p.Points, p.Price, p.Variety, p.PredictedCountry,
		string(confidence), recognized, p.ElapsedSeconds,
		p.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// RecentPredictions returns up to limit predictions, newest first.
func (s *sqliteStore) RecentPredictions(ctx context.Context, limit int) ([]store.Prediction, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, points, price, variety, predicted_country,
		       confidence, variety_recognized, elapsed_seconds, created_at
		FROM predictions
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.Prediction
	for rows.Next() {
		var p store.Prediction
		var confidence, createdAt string
		var recognized int
		if err := rows.Scan(&p.ID, &p.Description, &p.Points, &p.Price, &p.Variety,
			&p.PredictedCountry, &confidence, &recognized, &p.ElapsedSeconds, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(confidence), &p.Confidence); err != nil {
			return nil, fmt.Errorf("decode confidence: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("decode created_at: %w", err)
		}
		p.CreatedAt = ts
		p.VarietyRecognized = recognized != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountPredictions returns the total number of stored predictions.
func (s *sqliteStore) CountPredictions(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM predictions").Scan(&n)
	return n, err
}
