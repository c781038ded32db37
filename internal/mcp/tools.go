package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/repcoach/internal/analytics"
	"github.com/meltforce/repcoach/internal/models"
	"github.com/meltforce/repcoach/internal/schedule"
	"github.com/meltforce/repcoach/internal/store"
)

// parseDate accepts YYYY-MM-DD and falls back to today when empty.
func parseDate(s string) (models.Date, error) {
	if s == "" {
		return models.NewDate(time.Now()), nil
	}
	d := models.Date(s)
	if _, err := d.Time(); err != nil {
		return "", err
	}
	return d, nil
}

// --- Tool definitions ---

var toolGetTodaysWorkout = mcp.NewTool("get_todays_workout",
	mcp.WithDescription("Resolve what today holds: the planned session with its exercises, a rest day, or the already-completed workout."),
)

var toolGetSchedule = mcp.NewTool("get_schedule",
	mcp.WithDescription("Resolve the schedule for a specific date: planned session, rest day, or completed workout."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Date to resolve (YYYY-MM-DD)")),
)

var toolGetWorkoutHistory = mcp.NewTool("get_workout_history",
	mcp.WithDescription("Retrieve completed workout logs, newest first. Each log includes the session name, readiness, per-set weights/reps/RIR and post-workout feedback."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of logs to return. Defaults to 10.")),
	mcp.WithString("session", mcp.Description("Filter by session name (exact match, e.g. 'Upper A')")),
)

var toolGetStrengthInsights = mcp.NewTool("get_strength_insights",
	mcp.WithDescription("Per-exercise strength analysis: estimated 1RM (Epley), strength level relative to body weight, and recent trend."),
)

var toolGetImbalanceReport = mcp.NewTool("get_imbalance_report",
	mcp.WithDescription("Muscle balance analysis across movement patterns (push vs pull, squat vs hinge), plateau detection, and recurring pain locations."),
)

var toolGetTrainingVolume = mcp.NewTool("get_training_volume",
	mcp.WithDescription("Total working-set tonnage (weight x reps) per completed workout, in chronological order."),
)

var toolGetCurrentStreak = mcp.NewTool("get_current_streak",
	mcp.WithDescription("Number of consecutive calendar weeks with at least one completed workout, counting back from the current week."),
)

var toolGetE1RMHistory = mcp.NewTool("get_e1rm_history",
	mcp.WithDescription("Estimated 1RM progression for one exercise: the best set of each session converted via the Epley formula."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (exact match, e.g. 'Bench Press')")),
)

// --- Tool handlers ---

func (h *handlers) getTodaysWorkout(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.resolveDate(ctx, models.NewDate(time.Now()))
}

func (h *handlers) getSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return mcp.NewToolResultError("invalid date, want YYYY-MM-DD: " + err.Error()), nil
	}
	return h.resolveDate(ctx, date)
}

func (h *handlers) resolveDate(ctx context.Context, date models.Date) (*mcp.CallToolResult, error) {
	program, err := h.loadProgram(ctx)
	if err != nil {
		h.log.Error("mcp schedule program", "error", err)
		return mcp.NewToolResultError("loading program: " + err.Error()), nil
	}
	profile, err := h.loadProfile(ctx)
	if err != nil {
		h.log.Error("mcp schedule profile", "error", err)
		return mcp.NewToolResultError("loading profile: " + err.Error()), nil
	}
	history, err := h.store.Logs(ctx)
	if err != nil {
		h.log.Error("mcp schedule history", "error", err)
		return mcp.NewToolResultError("loading history: " + err.Error()), nil
	}
	overrides, err := store.LoadOverrides(ctx, h.store)
	if err != nil {
		h.log.Error("mcp schedule overrides", "error", err)
		return mcp.NewToolResultError("loading overrides: " + err.Error()), nil
	}

	resolved, err := schedule.ScheduledWorkout(date, program, profile, history, overrides)
	if err != nil {
		return mcp.NewToolResultError("resolving schedule: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"date": date, "schedule": resolved})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history, err := h.store.Logs(ctx)
	if err != nil {
		h.log.Error("mcp get_workout_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if session := req.GetString("session", ""); session != "" {
		filtered := history[:0:0]
		for _, log := range history {
			if log.SessionName == session {
				filtered = append(filtered, log)
			}
		}
		history = filtered
	}

	// Newest first.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	limit := req.GetInt("limit", 10)
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}

	result, err := mcp.NewToolResultJSON(history)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getStrengthInsights(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	profile, err := h.loadProfile(ctx)
	if err != nil {
		h.log.Error("mcp get_strength_insights profile", "error", err)
		return mcp.NewToolResultError("loading profile: " + err.Error()), nil
	}
	history, err := h.store.Logs(ctx)
	if err != nil {
		h.log.Error("mcp get_strength_insights", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(analytics.StrengthInsights(h.classifier, profile, history))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getImbalanceReport(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history, err := h.store.Logs(ctx)
	if err != nil {
		h.log.Error("mcp get_imbalance_report", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"imbalances": analytics.DetectImbalances(h.classifier, history),
		"plateaus":   analytics.DetectPlateaus(history),
		"pain":       analytics.PainPatterns(history),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingVolume(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history, err := h.store.Logs(ctx)
	if err != nil {
		h.log.Error("mcp get_training_volume", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(analytics.VolumeSeries(history))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCurrentStreak(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history, err := h.store.Logs(ctx)
	if err != nil {
		h.log.Error("mcp get_current_streak", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]int{
		"streak_weeks": analytics.CurrentStreak(history, time.Now()),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getE1RMHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	history, err := h.store.Logs(ctx)
	if err != nil {
		h.log.Error("mcp get_e1rm_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	points, ok := analytics.E1RMSeries(history)[exercise]
	if !ok {
		return mcp.NewToolResultError("no logged sets for " + exercise), nil
	}

	result, err := mcp.NewToolResultJSON(points)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
