package insight

import (
	"context"
	"strings"
	"testing"

	"github.com/meltforce/repcoach/internal/models"
	"github.com/meltforce/repcoach/internal/store"
)

func intp(v int) *int        { return &v }
func kgp(v float64) *float64 { return &v }

func sampleHistory() []models.WorkoutLog {
	return []models.WorkoutLog{
		{
			SessionName: "Upper A",
			Date:        "2025-06-02",
			DurationSec: 3600,
			Readiness:   models.ReadinessData{Status: models.ReadinessGreen},
			Exercises: []models.CompletedExercise{
				{
					Exercise: models.Exercise{Name: "Bench Press"},
					CompletedSets: []models.CompletedSet{
						{Reps: intp(8), WeightKg: kgp(80)},
						{Reps: intp(8), WeightKg: kgp(80)},
					},
				},
			},
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	profile := models.Profile{
		Gender: models.GenderMale, Age: 30, BodyWeightKg: 82,
		Experience: models.ExperienceIntermediate, Goal: "strength",
	}

	prompt := buildPrompt(IntentDailyInsight, profile, sampleHistory())

	for _, want := range []string{"Upper A", "Bench Press", "80x8", "daily_insight", "82 kg"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptWindowsHistory(t *testing.T) {
	history := make([]models.WorkoutLog, 0, 30)
	for i := 0; i < 30; i++ {
		history = append(history, sampleHistory()[0])
	}

	prompt := buildPrompt(IntentCoachFeedback, models.Profile{}, history)
	if !strings.Contains(prompt, "(10 of 30 total)") {
		t.Errorf("prompt should window to the last 10 logs:\n%s", prompt)
	}
}

func TestFallbacksCoverAllIntents(t *testing.T) {
	for _, intent := range []Intent{IntentDailyInsight, IntentCoachFeedback, IntentStrengthNarrative} {
		if fallbacks[intent] == "" {
			t.Errorf("no fallback text for %s", intent)
		}
	}
}

// staticGen counts calls and returns canned text.
type staticGen struct {
	calls int
	text  string
}

func (g *staticGen) Generate(context.Context, Intent, models.Profile, []models.WorkoutLog) string {
	g.calls++
	return g.text
}

func TestServiceThrottlesEachIntent(t *testing.T) {
	gen := &staticGen{text: "steady progress"}
	svc := NewService(gen, store.NewMemory())
	ctx := context.Background()
	history := sampleHistory()

	if _, err := svc.Coach(ctx, IntentDailyInsight, models.Profile{}, history); err != nil {
		t.Fatalf("daily insight: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.Coach(ctx, IntentCoachFeedback, models.Profile{}, history); err != nil {
			t.Fatalf("coach feedback %d: %v", i, err)
		}
	}

	// One generate per intent: asking a second intent must not re-query on
	// every request just because the first intent answered earlier.
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2 (one per intent)", gen.calls)
	}

	// The first intent's answer is still cached too.
	if _, err := svc.Coach(ctx, IntentDailyInsight, models.Profile{}, history); err != nil {
		t.Fatalf("daily insight again: %v", err)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2 after re-asking a cached intent", gen.calls)
	}
}

func TestServiceCachesPerLogCount(t *testing.T) {
	gen := &staticGen{text: "push harder"}
	svc := NewService(gen, store.NewMemory())
	ctx := context.Background()
	history := sampleHistory()

	for i := 0; i < 3; i++ {
		text, err := svc.Coach(ctx, IntentDailyInsight, models.Profile{}, history)
		if err != nil {
			t.Fatalf("coach %d: %v", i, err)
		}
		if text != "push harder" {
			t.Fatalf("text = %q, want generator output", text)
		}
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1 (cached)", gen.calls)
	}

	// A new workout invalidates the cached insight.
	history = append(history, history[0])
	if _, err := svc.Coach(ctx, IntentDailyInsight, models.Profile{}, history); err != nil {
		t.Fatalf("coach after new log: %v", err)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want recompute after a new workout", gen.calls)
	}
}
