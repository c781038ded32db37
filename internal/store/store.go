// Package store persists the engine's state: the append-only workout
// history plus a small set of keyed JSON documents (overrides, active
// workout snapshot, caches, profile, program).
package store

import (
	"context"
	"errors"

	"github.com/meltforce/repcoach/internal/models"
)

// Logical keys for the keyed documents.
const (
	KeyScheduleOverrides = "scheduleOverrides"
	KeyActiveWorkout     = "activeWorkoutState"
	KeyLastCoachInsight  = "lastCoachInsight"
	KeyImbalanceAnalysis = "imbalanceAnalysis"
	KeyProfile           = "profile"
	KeyProgram           = "program"
)

// ErrNotFound is returned by Get when the key has no (readable) value.
// Implementations treat corrupt JSON as a miss and clear the offending key,
// so callers recompute from source data instead of failing.
var ErrNotFound = errors.New("key not found")

// Store is the persistence contract. Writes are last-write-wins; there is
// one user and one device, so no merge logic exists.
type Store interface {
	// AppendLog adds one finished workout to the history. Logs are never
	// updated or deleted.
	AppendLog(ctx context.Context, log models.WorkoutLog) error
	// Logs returns the full history in chronological order.
	Logs(ctx context.Context) ([]models.WorkoutLog, error)

	// Get unmarshals the JSON document at key into v.
	Get(ctx context.Context, key string, v any) error
	// Set marshals v and stores it at key.
	Set(ctx context.Context, key string, v any) error
	// Remove deletes the document at key. Removing a missing key is not an
	// error.
	Remove(ctx context.Context, key string) error

	// Active workout snapshot, stored under KeyActiveWorkout.
	SaveActiveState(ctx context.Context, st models.ActiveWorkoutState) error
	LoadActiveState(ctx context.Context) (*models.ActiveWorkoutState, error)
	ClearActiveState(ctx context.Context) error

	Close() error
}

// LoadOverrides reads the schedule override map, treating a missing or
// unreadable document as empty.
func LoadOverrides(ctx context.Context, s Store) (models.ScheduleOverrides, error) {
	var overrides models.ScheduleOverrides
	err := s.Get(ctx, KeyScheduleOverrides, &overrides)
	if errors.Is(err, ErrNotFound) {
		return models.ScheduleOverrides{}, nil
	}
	if err != nil {
		return nil, err
	}
	return overrides, nil
}

// SaveOverrides replaces the schedule override map.
func SaveOverrides(ctx context.Context, s Store, overrides models.ScheduleOverrides) error {
	return s.Set(ctx, KeyScheduleOverrides, overrides)
}
