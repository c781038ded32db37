package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/repcoach/internal/models"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(t.TempDir())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteKVRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	idx := 1
	in := models.ScheduleOverrides{"2025-06-03": &idx, "2025-06-04": nil}
	if err := s.Set(ctx, KeyScheduleOverrides, in); err != nil {
		t.Fatalf("set error: %v", err)
	}

	var out models.ScheduleOverrides
	if err := s.Get(ctx, KeyScheduleOverrides, &out); err != nil {
		t.Fatalf("get error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("entry count = %d, want 2", len(out))
	}
	if out["2025-06-03"] == nil || *out["2025-06-03"] != 1 {
		t.Errorf("override = %v, want 1", out["2025-06-03"])
	}
	if out["2025-06-04"] != nil {
		t.Errorf("explicit rest lost: %v", out["2025-06-04"])
	}
}

func TestSQLiteGetMissing(t *testing.T) {
	s := openTestStore(t)

	var v map[string]any
	err := s.Get(context.Background(), "nope", &v)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteCorruptValueTreatedAsMiss(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)`, "broken", "{not json"); err != nil {
		t.Fatalf("seeding corrupt value: %v", err)
	}

	var v map[string]any
	if err := s.Get(ctx, "broken", &v); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for corrupt value", err)
	}

	// The offending key must be cleared.
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM kv WHERE key = 'broken'`).Scan(&count); err != nil {
		t.Fatalf("counting: %v", err)
	}
	if count != 0 {
		t.Error("corrupt key not cleared")
	}
}

func TestSQLiteLogsAppendOnlyOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, date := range []models.Date{"2025-06-02", "2025-06-04", "2025-06-06"} {
		log := models.WorkoutLog{ID: uuid.New(), SessionName: "A", Date: date, StartedAt: time.Now()}
		if err := s.AppendLog(ctx, log); err != nil {
			t.Fatalf("append error: %v", err)
		}
	}

	logs, err := s.Logs(ctx)
	if err != nil {
		t.Fatalf("logs error: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("log count = %d, want 3", len(logs))
	}
	for i, want := range []models.Date{"2025-06-02", "2025-06-04", "2025-06-06"} {
		if logs[i].Date != want {
			t.Errorf("log %d date = %v, want %v", i, logs[i].Date, want)
		}
	}
}

func TestSQLiteActiveState(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	st, err := s.LoadActiveState(ctx)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if st != nil {
		t.Fatal("expected no active state in a fresh store")
	}

	in := models.ActiveWorkoutState{SessionName: "Upper A", StartedAt: time.Now().UTC()}
	if err := s.SaveActiveState(ctx, in); err != nil {
		t.Fatalf("save error: %v", err)
	}
	st, err = s.LoadActiveState(ctx)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if st == nil || st.SessionName != "Upper A" {
		t.Fatalf("state = %+v, want Upper A", st)
	}

	if err := s.ClearActiveState(ctx); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	st, _ = s.LoadActiveState(ctx)
	if st != nil {
		t.Error("state survived clear")
	}
}
