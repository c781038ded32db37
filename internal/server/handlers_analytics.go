package server

import (
	"context"
	"net/http"

	"github.com/meltforce/repcoach/internal/analytics"
	"github.com/meltforce/repcoach/internal/insight"
	"github.com/meltforce/repcoach/internal/models"
)

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.Logs(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"streak_weeks": analytics.CurrentStreak(history, s.now())})
}

func (s *Server) handleVolume(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.Logs(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analytics.VolumeSeries(history))
}

func (s *Server) handleE1RM(w http.ResponseWriter, r *http.Request) {
	history, err := s.store.Logs(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	series := analytics.E1RMSeries(history)
	if name := r.URL.Query().Get("exercise"); name != "" {
		points, ok := series[name]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "no logged sets for " + name})
			return
		}
		writeJSON(w, http.StatusOK, points)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleStrengthInsights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	profile, err := s.loadProfile(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	history, err := s.store.Logs(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analytics.StrengthInsights(s.classifier, profile, history))
}

func (s *Server) handleImbalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	history, err := s.store.Logs(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	var reports []models.ImbalanceReport
	err = s.imbalance.Get(ctx, len(history), func(ctx context.Context) (any, error) {
		return analytics.DetectImbalances(s.classifier, history), nil
	}, &reports)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"imbalances": reports,
		"plateaus":   analytics.DetectPlateaus(history),
		"pain":       analytics.PainPatterns(history),
	})
}

func (s *Server) handleCoachInsight(w http.ResponseWriter, r *http.Request) {
	intent := insight.Intent(r.URL.Query().Get("intent"))
	if intent == "" {
		intent = insight.IntentDailyInsight
	}
	switch intent {
	case insight.IntentDailyInsight, insight.IntentCoachFeedback, insight.IntentStrengthNarrative:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown intent"})
		return
	}

	ctx := r.Context()
	profile, err := s.loadProfile(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	history, err := s.store.Logs(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	text, err := s.insights.Coach(ctx, intent, profile, history)
	if err != nil {
		// The service already degraded to fallback text; log and serve it.
		s.log.Warn("coach insight degraded", "intent", intent, "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"intent": string(intent), "text": text})
}
