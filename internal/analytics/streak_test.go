package analytics

import (
	"testing"
	"time"

	"github.com/meltforce/repcoach/internal/models"
)

func dayLog(t time.Time) models.WorkoutLog {
	return models.WorkoutLog{Date: models.NewDate(t)}
}

func TestCurrentStreakEmpty(t *testing.T) {
	if got := CurrentStreak(nil, time.Now()); got != 0 {
		t.Errorf("streak = %d, want 0", got)
	}
}

func TestCurrentStreakConsecutiveWeeks(t *testing.T) {
	// Mondays of four consecutive weeks.
	base := time.Date(2025, 5, 12, 0, 0, 0, 0, time.Local)
	var history []models.WorkoutLog
	for i := 0; i < 4; i++ {
		history = append(history, dayLog(base.AddDate(0, 0, i*7)))
	}

	now := base.AddDate(0, 0, 3*7+2) // Wednesday of the fourth week
	if got := CurrentStreak(history, now); got != 4 {
		t.Errorf("streak = %d, want 4", got)
	}
}

func TestCurrentStreakMonotonic(t *testing.T) {
	base := time.Date(2025, 5, 12, 0, 0, 0, 0, time.Local)
	var history []models.WorkoutLog
	prev := 0
	for i := 0; i < 6; i++ {
		history = append(history, dayLog(base.AddDate(0, 0, i*7)))
		now := base.AddDate(0, 0, i*7+1)
		got := CurrentStreak(history, now)
		if got < prev {
			t.Fatalf("streak decreased after adding an on-schedule workout: %d -> %d", prev, got)
		}
		prev = got
	}
}

func TestCurrentStreakGapBreaks(t *testing.T) {
	base := time.Date(2025, 5, 12, 0, 0, 0, 0, time.Local)
	history := []models.WorkoutLog{
		dayLog(base),
		dayLog(base.AddDate(0, 0, 7)),
		// two-week hole
		dayLog(base.AddDate(0, 0, 28)),
	}

	now := base.AddDate(0, 0, 30)
	if got := CurrentStreak(history, now); got != 1 {
		t.Errorf("streak = %d, want 1 after a missed week", got)
	}
}

func TestCurrentStreakStaleHistory(t *testing.T) {
	history := []models.WorkoutLog{dayLog(time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local))}
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.Local)
	if got := CurrentStreak(history, now); got != 0 {
		t.Errorf("streak = %d, want 0 two months after the last workout", got)
	}
}

func TestCurrentStreakMidWeekRestTolerated(t *testing.T) {
	// Mon/Wed/Fri lifter checked on a rest Tuesday of the following week.
	mon := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	history := []models.WorkoutLog{
		dayLog(mon), dayLog(mon.AddDate(0, 0, 2)), dayLog(mon.AddDate(0, 0, 4)),
	}
	now := mon.AddDate(0, 0, 8) // Tuesday next week, no workout yet
	if got := CurrentStreak(history, now); got != 1 {
		t.Errorf("streak = %d, want 1 (current week still open)", got)
	}
}
