package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meltforce/repcoach/internal/models"
	_ "modernc.org/sqlite"
)

// SQLite is the default Store: a single local database file, suitable for
// the one-user one-device deployment.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at dir/repcoach.db.
func OpenSQLite(dir string) (*SQLite, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "repcoach.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS workout_logs (
			id         TEXT PRIMARY KEY,
			log_date   TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			data       TEXT NOT NULL
		)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating tables: %w", err)
		}
	}

	return &SQLite{db: db}, nil
}

// AppendLog inserts one workout log.
func (s *SQLite) AppendLog(ctx context.Context, log models.WorkoutLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("encoding workout log: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO workout_logs (id, log_date, data) VALUES (?, ?, ?)`,
		log.ID.String(), string(log.Date), string(data))
	if err != nil {
		return fmt.Errorf("inserting workout log: %w", err)
	}
	return nil
}

// Logs returns the full history, oldest first.
func (s *SQLite) Logs(ctx context.Context) ([]models.WorkoutLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM workout_logs ORDER BY log_date ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	defer rows.Close()

	var logs []models.WorkoutLog
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}
		var log models.WorkoutLog
		if err := json.Unmarshal([]byte(data), &log); err != nil {
			return nil, fmt.Errorf("decoding workout log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// Get reads the document at key. Corrupt JSON is cleared and reported as a
// miss so the caller recomputes the value.
func (s *SQLite) Get(ctx context.Context, key string, v any) error {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading key %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(value), v); err != nil {
		_ = s.Remove(ctx, key)
		return ErrNotFound
	}
	return nil
}

// Set writes the document at key.
func (s *SQLite) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding key %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, string(data))
	if err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

// Remove deletes the document at key.
func (s *SQLite) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing key %s: %w", key, err)
	}
	return nil
}

// SaveActiveState persists the in-progress workout snapshot.
func (s *SQLite) SaveActiveState(ctx context.Context, st models.ActiveWorkoutState) error {
	return s.Set(ctx, KeyActiveWorkout, st)
}

// LoadActiveState returns the persisted snapshot, or nil when none exists.
func (s *SQLite) LoadActiveState(ctx context.Context) (*models.ActiveWorkoutState, error) {
	var st models.ActiveWorkoutState
	err := s.Get(ctx, KeyActiveWorkout, &st)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ClearActiveState removes the snapshot.
func (s *SQLite) ClearActiveState(ctx context.Context) error {
	return s.Remove(ctx, KeyActiveWorkout)
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
