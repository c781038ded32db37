package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/meltforce/repcoach/internal/autoreg"
	"github.com/meltforce/repcoach/internal/models"
	"github.com/meltforce/repcoach/internal/schedule"
	"github.com/meltforce/repcoach/internal/store"
	"github.com/meltforce/repcoach/internal/workout"
)

func (s *Server) handleScheduleToday(w http.ResponseWriter, r *http.Request) {
	s.resolveSchedule(w, r, models.NewDate(s.now()))
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	date := models.Date(r.URL.Query().Get("date"))
	if date == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date parameter required"})
		return
	}
	if _, err := date.Time(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date, want YYYY-MM-DD"})
		return
	}
	s.resolveSchedule(w, r, date)
}

func (s *Server) resolveSchedule(w http.ResponseWriter, r *http.Request, date models.Date) {
	ctx := r.Context()
	program, profile, history, overrides, err := s.scheduleInputs(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	result, err := schedule.ScheduledWorkout(date, program, profile, history, overrides)
	if errors.Is(err, schedule.ErrNoProgram) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "schedule": result})
}

func (s *Server) handleSwapDays(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DateA models.Date `json:"date_a"`
		DateB models.Date `json:"date_b"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	ctx := r.Context()
	program, profile, history, overrides, err := s.scheduleInputs(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	updated, err := schedule.SwapDays(req.DateA, req.DateB, program, profile, history, overrides)
	if errors.Is(err, schedule.ErrScheduleConflict) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := store.SaveOverrides(ctx, s.store, updated); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"overrides": updated})
}

func (s *Server) scheduleInputs(ctx context.Context) (models.Program, models.Profile, []models.WorkoutLog, models.ScheduleOverrides, error) {
	program, err := s.loadProgram(ctx)
	if err != nil {
		return models.Program{}, models.Profile{}, nil, nil, err
	}
	profile, err := s.loadProfile(ctx)
	if err != nil {
		return models.Program{}, models.Profile{}, nil, nil, err
	}
	history, err := s.store.Logs(ctx)
	if err != nil {
		return models.Program{}, models.Profile{}, nil, nil, err
	}
	overrides, err := store.LoadOverrides(ctx, s.store)
	if err != nil {
		return models.Program{}, models.Profile{}, nil, nil, err
	}
	return program, profile, history, overrides, nil
}

func (s *Server) handleStartWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sleep     int `json:"sleep"`
		Nutrition int `json:"nutrition"`
		Stress    int `json:"stress"`
		Soreness  int `json:"soreness"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	ctx := r.Context()
	program, profile, history, overrides, err := s.scheduleInputs(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	result, err := schedule.ScheduledWorkout(models.NewDate(s.now()), program, profile, history, overrides)
	if err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	if result.Kind != schedule.KindPlanned {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no workout planned for today (" + string(result.Kind) + ")"})
		return
	}

	readiness := models.NewReadiness(req.Sleep, req.Nutrition, req.Stress, req.Soreness)
	adjusted := autoreg.Adapt(*result.Session, readiness)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tracker.Start(ctx, adjusted, readiness); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    s.tracker.Status(),
		"readiness": readiness,
		"workout":   s.tracker.State(),
	})
}

func (s *Server) handleActiveWorkout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  s.tracker.Status(),
		"workout": s.tracker.State(),
	})
}

func (s *Server) handleUpdateSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Exercise int           `json:"exercise"`
		Set      int           `json:"set"`
		Field    workout.Field `json:"field"`
		Value    float64       `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	switch req.Field {
	case workout.FieldReps, workout.FieldWeight, workout.FieldRIR:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "field must be reps, weight or rir"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tracker.UpdateSet(r.Context(), req.Exercise, req.Set, req.Field, req.Value); err != nil {
		writeJSON(w, trackerStatusCode(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workout": s.tracker.State()})
}

func (s *Server) handleToggleSet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Exercise int `json:"exercise"`
		Set      int `json:"set"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tracker.ToggleSetComplete(r.Context(), req.Exercise, req.Set); err != nil {
		writeJSON(w, trackerStatusCode(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workout": s.tracker.State()})
}

func (s *Server) handleFinishWorkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Completion   models.CompletionLevel `json:"completion"`
		PainLocation string                 `json:"pain_location"`
		PumpRating   *int                   `json:"pump_rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	feedback := models.Feedback{
		Completion:   req.Completion,
		PainLocation: req.PainLocation,
		PumpRating:   req.PumpRating,
	}

	ctx := r.Context()
	s.mu.Lock()
	defer s.mu.Unlock()

	log, err := s.tracker.Finish(ctx, feedback)
	if err != nil {
		var incomplete *workout.IncompleteWorkoutError
		if errors.As(err, &incomplete) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":          err.Error(),
				"exercise_index": incomplete.ExerciseIndex,
				"exercise_name":  incomplete.ExerciseName,
			})
			return
		}
		writeJSON(w, trackerStatusCode(err), map[string]string{"error": err.Error()})
		return
	}

	if err := s.store.AppendLog(ctx, *log); err != nil {
		s.log.Error("appending workout log", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"log": log})
}

func (s *Server) handleResumeWorkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	persisted, err := s.store.LoadActiveState(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if persisted == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active workout to resume"})
		return
	}

	program, err := s.loadProgram(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	status, err := s.tracker.Resume(ctx, *persisted, program)
	if errors.Is(err, workout.ErrNoLongerValid) {
		writeJSON(w, http.StatusGone, map[string]string{"error": err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"workout": s.tracker.State(),
	})
}

func (s *Server) handleReactivateWorkout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tracker.Reactivate(r.Context()); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": s.tracker.Status()})
}

func (s *Server) handleDiscardWorkout(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.tracker.Discard(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": s.tracker.Status()})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.Logs(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func trackerStatusCode(err error) int {
	if errors.Is(err, workout.ErrNotInProgress) {
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
