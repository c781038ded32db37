package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meltforce/repcoach/internal/models"
)

// Postgres is the server-deployment Store, backed by a connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// OpenPostgres creates a pool and verifies connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &Postgres{Pool: pool}, nil
}

// RunMigrations applies all pending migrations from the given directory.
func RunMigrations(dsn, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// AppendLog inserts one workout log.
func (s *Postgres) AppendLog(ctx context.Context, log models.WorkoutLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("encoding workout log: %w", err)
	}
	_, err = s.Pool.Exec(ctx,
		`INSERT INTO workout_logs (id, log_date, data) VALUES ($1, $2, $3)`,
		log.ID, string(log.Date), data)
	if err != nil {
		return fmt.Errorf("inserting workout log: %w", err)
	}
	return nil
}

// Logs returns the full history, oldest first.
func (s *Postgres) Logs(ctx context.Context) ([]models.WorkoutLog, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT data FROM workout_logs ORDER BY log_date ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying workout logs: %w", err)
	}
	defer rows.Close()

	var logs []models.WorkoutLog
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning workout log: %w", err)
		}
		var log models.WorkoutLog
		if err := json.Unmarshal(data, &log); err != nil {
			return nil, fmt.Errorf("decoding workout log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// Get reads the document at key. Corrupt JSON is cleared and reported as a
// miss so the caller recomputes the value.
func (s *Postgres) Get(ctx context.Context, key string, v any) error {
	var value []byte
	err := s.Pool.QueryRow(ctx, `SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading key %s: %w", key, err)
	}
	if err := json.Unmarshal(value, v); err != nil {
		_ = s.Remove(ctx, key)
		return ErrNotFound
	}
	return nil
}

// Set writes the document at key.
func (s *Postgres) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding key %s: %w", key, err)
	}
	_, err = s.Pool.Exec(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, data)
	if err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

// Remove deletes the document at key.
func (s *Postgres) Remove(ctx context.Context, key string) error {
	if _, err := s.Pool.Exec(ctx, `DELETE FROM kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("removing key %s: %w", key, err)
	}
	return nil
}

// SaveActiveState persists the in-progress workout snapshot.
func (s *Postgres) SaveActiveState(ctx context.Context, st models.ActiveWorkoutState) error {
	return s.Set(ctx, KeyActiveWorkout, st)
}

// LoadActiveState returns the persisted snapshot, or nil when none exists.
func (s *Postgres) LoadActiveState(ctx context.Context) (*models.ActiveWorkoutState, error) {
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
func (s *Postgres) ClearActiveState(ctx context.Context) error {
	return s.Remove(ctx, KeyActiveWorkout)
}

// Close closes the pool.
func (s *Postgres) Close() error {
	s.Pool.Close()
	return nil
}
