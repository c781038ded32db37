package analytics

import (
	"testing"
	"time"

	"github.com/meltforce/repcoach/internal/models"
)

// weeklyBench builds one log per week with the given bench weights at 5 reps.
func weeklyBench(start time.Time, weights []float64) []models.WorkoutLog {
	history := make([]models.WorkoutLog, 0, len(weights))
	for i, w := range weights {
		date := models.NewDate(start.AddDate(0, 0, i*7))
		history = append(history, logWith(date, "Bench Press", w, 5))
	}
	return history
}

func TestDetectPlateauStuck(t *testing.T) {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local)
	// Six weeks at the same weight after an initial bump.
	history := weeklyBench(start, []float64{80, 82.5, 82.5, 82.5, 82.5, 82.5, 82.5})

	reports := DetectPlateaus(history)
	if len(reports) != 1 {
		t.Fatalf("report count = %d, want 1", len(reports))
	}
	r := reports[0]
	if r.Exercise != "Bench Press" {
		t.Errorf("exercise = %q, want Bench Press", r.Exercise)
	}
	if r.WeeksStuck != 5 {
		t.Errorf("weeks stuck = %d, want 5 (last improvement in week 2)", r.WeeksStuck)
	}
}

func TestDetectPlateauProgressingLifter(t *testing.T) {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local)
	history := weeklyBench(start, []float64{80, 85, 90, 95, 100, 105})

	if reports := DetectPlateaus(history); len(reports) != 0 {
		t.Errorf("got %d plateau reports for a progressing lifter, want none", len(reports))
	}
}

func TestDetectPlateauTooFewSessions(t *testing.T) {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local)
	history := weeklyBench(start, []float64{80, 80, 80})

	if reports := DetectPlateaus(history); len(reports) != 0 {
		t.Errorf("got %d reports from 3 sessions, want none below the minimum", len(reports))
	}
}

func TestPainPatterns(t *testing.T) {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.Local)
	history := weeklyBench(start, []float64{80, 82.5, 85, 87.5})
	history[0].Feedback.PainLocation = "Lower Back"
	history[2].Feedback.PainLocation = "lumbar" // alias of lower back
	history[3].Feedback.PainLocation = "knee"

	patterns := PainPatterns(history)
	if len(patterns) != 2 {
		t.Fatalf("pattern count = %d, want 2", len(patterns))
	}
	if patterns[0].Location != "lower back" || patterns[0].Count != 2 {
		t.Errorf("top pattern = %q x%d, want lower back x2", patterns[0].Location, patterns[0].Count)
	}
	if len(patterns[0].Exercises) == 0 || patterns[0].Exercises[0] != "Bench Press" {
		t.Errorf("exercises = %v, want the session's exercises attached", patterns[0].Exercises)
	}
	if patterns[1].Location != "knee" || patterns[1].Count != 1 {
		t.Errorf("second pattern = %q x%d, want knee x1", patterns[1].Location, patterns[1].Count)
	}
}
