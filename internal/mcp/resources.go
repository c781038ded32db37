package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

const recentWorkoutCount = 10

func (h *handlers) profile(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	profile, err := h.loadProfile(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req, profile)
}

func (h *handlers) program(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	program, err := h.loadProgram(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req, program)
}

func (h *handlers) recentWorkouts(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	history, err := h.store.Logs(ctx)
	if err != nil {
		return nil, err
	}
	if len(history) > recentWorkoutCount {
		history = history[len(history)-recentWorkoutCount:]
	}
	return jsonResource(req, history)
}

func jsonResource(req mcp.ReadResourceRequest, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
