// Package insight talks to the external AI coach. The model is treated as
// unreliable: every request gets one automatic retry, and a static fallback
// message is returned when the service stays unavailable, so the coaching
// surface degrades instead of failing.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/meltforce/repcoach/internal/models"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Intent selects the prompt the coach is asked to answer.
type Intent string

const (
	IntentDailyInsight      Intent = "daily_insight"
	IntentCoachFeedback     Intent = "coach_feedback"
	IntentStrengthNarrative Intent = "strength_narrative"
)

// fallbacks are shown whenever the model cannot be reached.
var fallbacks = map[Intent]string{
	IntentDailyInsight:      "Show up, warm up properly, and leave one or two reps in the tank on your top sets.",
	IntentCoachFeedback:     "Solid work logging your session. Consistency over weeks is what moves the numbers.",
	IntentStrengthNarrative: "Your strength data is being tracked. Keep training consistently and check back after a few more sessions.",
}

// recentLogWindow bounds how much history goes into the prompt.
const recentLogWindow = 10

// Disabled is the generator used when no coach endpoint is configured; it
// always serves the static fallback text.
type Disabled struct{}

func (Disabled) Generate(_ context.Context, intent Intent, _ models.Profile, _ []models.WorkoutLog) string {
	return fallbacks[intent]
}

// Client is a thin chat-completions wrapper around the coach model.
type Client struct {
	ai    openai.Client
	model string
	log   *slog.Logger
}

// NewClient builds a client for the configured endpoint. baseURL may point
// at any OpenAI-compatible API.
func NewClient(baseURL, apiKey, model string, log *slog.Logger) *Client {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		ai:    openai.NewClient(opts...),
		model: model,
		log:   log,
	}
}

// Generate asks the coach model for advice text. A failed call is retried
// once; a second failure degrades to the intent's static fallback and is
// never surfaced as an error to the user-facing flow.
func (c *Client) Generate(ctx context.Context, intent Intent, profile models.Profile, history []models.WorkoutLog) string {
	prompt := buildPrompt(intent, profile, history)

	text, err := c.complete(ctx, intent, prompt)
	if err != nil {
		c.log.Warn("coach model call failed, retrying", "intent", intent, "error", err)
		text, err = c.complete(ctx, intent, prompt)
	}
	if err != nil {
		c.log.Warn("coach model unavailable, using fallback", "intent", intent, "error", err)
		return fallbacks[intent]
	}
	return text
}

func (c *Client) complete(ctx context.Context, intent Intent, prompt string) (string, error) {
	chat, err := c.ai.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt(intent)),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty completion for intent %s", intent)
	}
	return strings.TrimSpace(chat.Choices[0].Message.Content), nil
}

func systemPrompt(intent Intent) string {
	base := "You are a concise, evidence-based strength coach. Answer in 2-4 sentences of plain text, no markdown."
	switch intent {
	case IntentDailyInsight:
		return base + " Give the user one actionable focus for today's training based on their recent sessions and readiness."
	case IntentCoachFeedback:
		return base + " React to the user's most recent workout: what went well, what to adjust next time."
	case IntentStrengthNarrative:
		return base + " Summarize the user's strength progression and point out the most important trend."
	}
	return base
}

// buildPrompt summarizes the profile and the recent history into a compact
// prompt body.
func buildPrompt(intent Intent, profile models.Profile, history []models.WorkoutLog) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Profile: %s, age %d, %.0f kg, experience %s, goal %s.\n",
		profile.Gender, profile.Age, profile.BodyWeightKg, profile.Experience, profile.Goal)

	recent := history
	if len(recent) > recentLogWindow {
		recent = recent[len(recent)-recentLogWindow:]
	}
	fmt.Fprintf(&b, "Recent workouts (%d of %d total):\n", len(recent), len(history))
	for _, log := range recent {
		fmt.Fprintf(&b, "- %s %s (%d min, readiness %s",
			log.Date, log.SessionName, log.DurationSec/60, log.Readiness.Status)
		if log.Feedback.PainLocation != "" {
			fmt.Fprintf(&b, ", pain: %s", log.Feedback.PainLocation)
		}
		b.WriteString(")\n")
		for _, ex := range log.Exercises {
			if ex.IsWarmup {
				continue
			}
			fmt.Fprintf(&b, "  %s: %s\n", ex.Name, summarizeSets(ex.CompletedSets))
		}
	}

	fmt.Fprintf(&b, "Request intent: %s.", intent)
	return b.String()
}

func summarizeSets(sets []models.CompletedSet) string {
	parts := make([]string, 0, len(sets))
	for _, s := range sets {
		if s.Reps == nil {
			continue
		}
		if s.WeightKg != nil {
			parts = append(parts, fmt.Sprintf("%gx%d", *s.WeightKg, *s.Reps))
		} else {
			parts = append(parts, fmt.Sprintf("x%d", *s.Reps))
		}
	}
	if len(parts) == 0 {
		return "no sets"
	}
	return strings.Join(parts, ", ")
}
