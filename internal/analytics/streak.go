package analytics

import (
	"time"

	"github.com/meltforce/repcoach/internal/models"
)

// CurrentStreak counts consecutive training weeks with at least one
// workout, walking back from the most recent log. Week granularity keeps a
// three-days-a-week user from being penalized for resting on off days. The
// current week is tolerated while still in progress, but a full week
// without a workout breaks the streak.
func CurrentStreak(history []models.WorkoutLog, now time.Time) int {
	if len(history) == 0 {
		return 0
	}

	weeks := make(map[string]bool, len(history))
	var latest time.Time
	for _, log := range history {
		t, err := log.Date.Time()
		if err != nil {
			continue
		}
		weeks[weekKey(t)] = true
		if t.After(latest) {
			latest = t
		}
	}
	if latest.IsZero() {
		return 0
	}

	// More than one whole week since the last workout: streak is gone.
	if weekStart(now).Sub(weekStart(latest)) > 7*24*time.Hour {
		return 0
	}

	streak := 0
	for w := weekStart(latest); weeks[weekKey(w)]; w = w.AddDate(0, 0, -7) {
		streak++
	}
	return streak
}

// weekStart returns the Monday of t's week at midnight.
func weekStart(t time.Time) time.Time {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(t.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return t.AddDate(0, 0, -offset)
}

func weekKey(t time.Time) string {
	return weekStart(t).Format(models.DateLayout)
}
