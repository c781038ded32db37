package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/meltforce/repcoach/internal/models"
)

// Memory is an in-memory Store for tests and throwaway runs. Values
// round-trip through JSON so optionality behaves exactly like the durable
// implementations.
type Memory struct {
	mu   sync.Mutex
	logs []models.WorkoutLog
	kv   map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{kv: make(map[string][]byte)}
}

func (m *Memory) AppendLog(_ context.Context, log models.WorkoutLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *Memory) Logs(_ context.Context) ([]models.WorkoutLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.WorkoutLog, len(m.logs))
	copy(out, m.logs)
	return out, nil
}

func (m *Memory) Get(ctx context.Context, key string, v any) error {
	m.mu.Lock()
	data, ok := m.kv[key]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = m.Remove(ctx, key)
		return ErrNotFound
	}
	return nil
}

func (m *Memory) Set(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding key %s: %w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = data
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, key)
	return nil
}

func (m *Memory) SaveActiveState(ctx context.Context, st models.ActiveWorkoutState) error {
	return m.Set(ctx, KeyActiveWorkout, st)
}

func (m *Memory) LoadActiveState(ctx context.Context) (*models.ActiveWorkoutState, error) {
	var st models.ActiveWorkoutState
	err := m.Get(ctx, KeyActiveWorkout, &st)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (m *Memory) ClearActiveState(ctx context.Context) error {
	return m.Remove(ctx, KeyActiveWorkout)
}

func (m *Memory) Close() error { return nil }
