package analytics

import (
	"testing"

	"github.com/meltforce/repcoach/internal/models"
)

func TestClassifyStrength(t *testing.T) {
	tests := []struct {
		name     string
		gender   models.Gender
		exercise string
		e1rm     float64
		bw       float64
		want     models.StrengthLevel
	}{
		{"male bench 1.0x bw", models.GenderMale, "Barbell Bench Press", 80, 80, models.LevelIntermediate},
		{"male bench below novice", models.GenderMale, "Barbell Bench Press", 30, 80, models.LevelBeginner},
		{"male squat 2.3x bw", models.GenderMale, "Back Squat", 184, 80, models.LevelElite},
		{"female deadlift 1.3x bw", models.GenderFemale, "Deadlift", 84.5, 65, models.LevelIntermediate},
		{"unknown lift default band", models.GenderMale, "Cable Row", 60, 80, models.LevelIntermediate},
		{"zero body weight", models.GenderMale, "Bench Press", 100, 0, models.LevelBeginner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStrength(tt.gender, tt.exercise, tt.e1rm, tt.bw)
			if got != tt.want {
				t.Errorf("ClassifyStrength(%v, %q, %v, %v) = %v, want %v",
					tt.gender, tt.exercise, tt.e1rm, tt.bw, got, tt.want)
			}
		})
	}
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name   string
		e1rms  []float64
		want   models.Trend
	}{
		{"improving", []float64{100, 102, 104, 107, 110}, models.TrendImproving},
		{"stable", []float64{100, 101, 100, 100.5, 100}, models.TrendStable},
		{"declining", []float64{110, 108, 106, 104, 100}, models.TrendDeclining},
		{"single point", []float64{100}, models.TrendStable},
		{"window ignores old history", []float64{50, 50, 50, 100, 102, 104, 107, 110}, models.TrendImproving},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := make([]E1RMPoint, len(tt.e1rms))
			for i, e := range tt.e1rms {
				points[i] = E1RMPoint{E1RM: e}
			}
			if got := TrendOf(points); got != tt.want {
				t.Errorf("TrendOf(%v) = %v, want %v", tt.e1rms, got, tt.want)
			}
		})
	}
}

func TestStrengthInsights(t *testing.T) {
	profile := models.Profile{Gender: models.GenderMale, BodyWeightKg: 80}
	history := []models.WorkoutLog{
		logWith("2025-06-02", "Bench Press", 80, 8),
		logWith("2025-06-09", "Bench Press", 82.5, 8),
	}

	data := StrengthInsights(models.NewClassifier(), profile, history)
	if len(data.Exercises) != 1 {
		t.Fatalf("exercise insight count = %d, want 1", len(data.Exercises))
	}
	ins := data.Exercises[0]
	if ins.Exercise != "Bench Press" {
		t.Errorf("exercise = %q, want Bench Press", ins.Exercise)
	}
	if ins.Sessions != 2 {
		t.Errorf("sessions = %d, want 2", ins.Sessions)
	}
	if ins.E1RM != EpleyE1RM(82.5, 8) {
		t.Errorf("e1RM = %v, want best of series %v", ins.E1RM, EpleyE1RM(82.5, 8))
	}
	if ins.RelativeStrength <= 0 {
		t.Error("relative strength not computed")
	}
	// Two logs is below the imbalance minimum: no false signal.
	if len(data.Imbalances) != 0 {
		t.Errorf("imbalances = %d, want none for 2 logs", len(data.Imbalances))
	}
}
