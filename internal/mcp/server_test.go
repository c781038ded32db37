package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/repcoach/internal/models"
	"github.com/meltforce/repcoach/internal/store"
)

func kgp(v float64) *float64 { return &v }

func testHandlers(t *testing.T) *handlers {
	t.Helper()
	st := store.NewMemory()
	ctx := context.Background()

	program := models.Program{
		Name: "Full Body",
		Sessions: []models.Session{
			{Name: "Day 1", Exercises: []models.Exercise{
				{Name: "Back Squat", Sets: 3, Reps: "5", WeightKg: kgp(100)},
			}},
		},
	}
	if err := st.Set(ctx, store.KeyProgram, program); err != nil {
		t.Fatal(err)
	}
	return &handlers{store: st, classifier: models.NewClassifier(), log: slog.Default()}
}

func callArgs(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// textOf extracts the JSON payload of a successful tool result.
func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool returned error: %+v", res.Content)
	}
	if len(res.Content) == 0 {
		t.Fatal("tool returned no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestParseDate verifies empty input defaults to today and malformed dates
// are rejected.
func TestParseDate(t *testing.T) {
	d, err := parseDate("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != models.NewDate(time.Now()) {
		t.Errorf("parseDate(\"\") = %s, want today", d)
	}

	d, err = parseDate("2025-06-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != "2025-06-02" {
		t.Errorf("parseDate = %s, want 2025-06-02", d)
	}

	if _, err := parseDate("02.06.2025"); err == nil {
		t.Error("expected error for malformed date")
	}
}

// TestGetScheduleTool verifies the schedule tool resolves a planned session.
func TestGetScheduleTool(t *testing.T) {
	h := testHandlers(t)

	res, err := h.getSchedule(context.Background(), callArgs(map[string]any{"date": "2025-06-02"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp struct {
		Schedule struct {
			Kind    string          `json:"kind"`
			Session *models.Session `json:"session"`
		} `json:"schedule"`
	}
	if err := json.Unmarshal([]byte(textOf(t, res)), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Schedule.Kind != "planned" {
		t.Errorf("kind = %q, want planned", resp.Schedule.Kind)
	}
	if resp.Schedule.Session == nil || resp.Schedule.Session.Name != "Day 1" {
		t.Errorf("session = %+v, want Day 1", resp.Schedule.Session)
	}
}

// TestGetScheduleToolBadDate verifies malformed dates yield a tool error, not
// a transport error.
func TestGetScheduleToolBadDate(t *testing.T) {
	h := testHandlers(t)

	res, err := h.getSchedule(context.Background(), callArgs(map[string]any{"date": "junk"}))
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for malformed date")
	}
}

// TestGetCurrentStreakToolEmpty verifies the streak tool answers 0 with no
// history.
func TestGetCurrentStreakToolEmpty(t *testing.T) {
	h := testHandlers(t)

	res, err := h.getCurrentStreak(context.Background(), callArgs(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp map[string]int
	if err := json.Unmarshal([]byte(textOf(t, res)), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp["streak_weeks"] != 0 {
		t.Errorf("streak_weeks = %d, want 0", resp["streak_weeks"])
	}
}

// TestGetWorkoutHistoryNewestFirst verifies ordering and the limit parameter.
func TestGetWorkoutHistoryNewestFirst(t *testing.T) {
	h := testHandlers(t)
	ctx := context.Background()

	for _, date := range []models.Date{"2025-06-02", "2025-06-04", "2025-06-06"} {
		log := models.WorkoutLog{SessionName: "Day 1", Date: date}
		if err := h.store.AppendLog(ctx, log); err != nil {
			t.Fatal(err)
		}
	}

	res, err := h.getWorkoutHistory(ctx, callArgs(map[string]any{"limit": 2}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var logs []models.WorkoutLog
	if err := json.Unmarshal([]byte(textOf(t, res)), &logs); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("logs = %d, want 2", len(logs))
	}
	if logs[0].Date != "2025-06-06" || logs[1].Date != "2025-06-04" {
		t.Errorf("dates = %s, %s; want newest first", logs[0].Date, logs[1].Date)
	}
}

// TestGetE1RMHistoryUnknownExercise verifies an unknown exercise yields a
// tool error.
func TestGetE1RMHistoryUnknownExercise(t *testing.T) {
	h := testHandlers(t)

	res, err := h.getE1RMHistory(context.Background(), callArgs(map[string]any{"exercise": "Zercher Squat"}))
	if err != nil {
		t.Fatalf("unexpected transport error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for unlogged exercise")
	}
}
