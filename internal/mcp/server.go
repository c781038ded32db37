// Package mcp exposes the coaching engine to LLM assistants over the Model
// Context Protocol. Tools are read-only: the assistant can inspect the
// schedule, history and analytics but never mutates training state.
package mcp

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/repcoach/internal/models"
	"github.com/meltforce/repcoach/internal/store"
)

// New creates an MCP server with all tools and resources registered.
func New(st store.Store, classifier *models.Classifier, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepCoach", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepCoach strength training server. Query the workout schedule, training history, strength estimates, muscle balance and consistency data for a single user."),
	)

	h := &handlers{store: st, classifier: classifier, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetTodaysWorkout, Handler: h.getTodaysWorkout},
		server.ServerTool{Tool: toolGetSchedule, Handler: h.getSchedule},
		server.ServerTool{Tool: toolGetWorkoutHistory, Handler: h.getWorkoutHistory},
		server.ServerTool{Tool: toolGetStrengthInsights, Handler: h.getStrengthInsights},
		server.ServerTool{Tool: toolGetImbalanceReport, Handler: h.getImbalanceReport},
		server.ServerTool{Tool: toolGetTrainingVolume, Handler: h.getTrainingVolume},
		server.ServerTool{Tool: toolGetCurrentStreak, Handler: h.getCurrentStreak},
		server.ServerTool{Tool: toolGetE1RMHistory, Handler: h.getE1RMHistory},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resProfile, Handler: h.profile},
		server.ServerResource{Resource: resProgram, Handler: h.program},
		server.ServerResource{Resource: resRecentWorkouts, Handler: h.recentWorkouts},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	store      store.Store
	classifier *models.Classifier
	log        *slog.Logger
}

func (h *handlers) loadProfile(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	err := h.store.Get(ctx, store.KeyProfile, &p)
	if errors.Is(err, store.ErrNotFound) {
		return models.Profile{}, nil
	}
	return p, err
}

func (h *handlers) loadProgram(ctx context.Context) (models.Program, error) {
	var p models.Program
	err := h.store.Get(ctx, store.KeyProgram, &p)
	if errors.Is(err, store.ErrNotFound) {
		return models.Program{}, nil
	}
	return p, err
}

// --- Resource definitions ---

var resProfile = mcp.NewResource(
	"repcoach://profile",
	"User Profile",
	mcp.WithResourceDescription("Training profile: body weight, experience tier, goal and preferred training days"),
	mcp.WithMIMEType("application/json"),
)

var resProgram = mcp.NewResource(
	"repcoach://program",
	"Training Program",
	mcp.WithResourceDescription("The active program: its session rotation with prescribed exercises, sets and weights"),
	mcp.WithMIMEType("application/json"),
)

var resRecentWorkouts = mcp.NewResource(
	"repcoach://recent_workouts",
	"Recent Workouts",
	mcp.WithResourceDescription("The 10 most recent completed workout logs"),
	mcp.WithMIMEType("application/json"),
)
