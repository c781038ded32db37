// Package server exposes the coaching engine over HTTP. All state lives in
// the store; handlers compose the pure schedule/autoreg/analytics packages
// with the stateful workout tracker.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/repcoach/internal/insight"
	"github.com/meltforce/repcoach/internal/models"
	"github.com/meltforce/repcoach/internal/store"
	"github.com/meltforce/repcoach/internal/workout"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store      store.Store
	classifier *models.Classifier
	insights   *insight.Service
	imbalance  *store.Cache
	log        *slog.Logger
	apiKey     string
	router     chi.Router

	// One user, one active workout. The mutex serializes tracker access
	// across concurrent requests from multiple devices.
	mu      sync.Mutex
	tracker *workout.Tracker

	now func() time.Time
}

// New creates a new Server with all routes configured.
func New(st store.Store, classifier *models.Classifier, insights *insight.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:      st,
		classifier: classifier,
		insights:   insights,
		imbalance:  store.NewCache(st, store.KeyImbalanceAnalysis, 24*time.Hour, 1),
		log:        log,
		apiKey:     apiKey,
		router:     chi.NewRouter(),
		tracker:    workout.NewTracker(st, classifier),
		now:        time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read-only endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/schedule", s.handleSchedule)
	s.router.Get("/api/v1/schedule/today", s.handleScheduleToday)
	s.router.Get("/api/v1/workout", s.handleActiveWorkout)
	s.router.Get("/api/v1/history", s.handleHistory)
	s.router.Get("/api/v1/analytics/streak", s.handleStreak)
	s.router.Get("/api/v1/analytics/volume", s.handleVolume)
	s.router.Get("/api/v1/analytics/e1rm", s.handleE1RM)
	s.router.Get("/api/v1/analytics/insights", s.handleStrengthInsights)
	s.router.Get("/api/v1/analytics/imbalance", s.handleImbalance)
	s.router.Get("/api/v1/insight", s.handleCoachInsight)
	s.router.Get("/api/v1/profile", s.handleGetProfile)
	s.router.Get("/api/v1/program", s.handleGetProgram)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/schedule/swap", s.handleSwapDays)
		r.Post("/api/v1/workout/start", s.handleStartWorkout)
		r.Post("/api/v1/workout/sets", s.handleUpdateSet)
		r.Post("/api/v1/workout/sets/toggle", s.handleToggleSet)
		r.Post("/api/v1/workout/finish", s.handleFinishWorkout)
		r.Post("/api/v1/workout/resume", s.handleResumeWorkout)
		r.Post("/api/v1/workout/reactivate", s.handleReactivateWorkout)
		r.Post("/api/v1/workout/discard", s.handleDiscardWorkout)
		r.Put("/api/v1/profile", s.handlePutProfile)
		r.Put("/api/v1/program", s.handlePutProgram)
	})
}

// loadProfile reads the stored profile; a missing document yields the zero
// profile (no preferred days means every day is eligible).
func (s *Server) loadProfile(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	err := s.store.Get(ctx, store.KeyProfile, &p)
	if errors.Is(err, store.ErrNotFound) {
		return models.Profile{}, nil
	}
	return p, err
}

func (s *Server) loadProgram(ctx context.Context) (models.Program, error) {
	var p models.Program
	err := s.store.Get(ctx, store.KeyProgram, &p)
	if errors.Is(err, store.ErrNotFound) {
		return models.Program{}, nil
	}
	return p, err
}
