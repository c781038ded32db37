package server

import (
	"encoding/json"
	"net/http"

	"github.com/meltforce/repcoach/internal/models"
	"github.com/meltforce/repcoach/internal/store"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.loadProfile(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if err := s.store.Set(r.Context(), store.KeyProfile, profile); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	program, err := s.loadProgram(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, program)
}

func (s *Server) handlePutProgram(w http.ResponseWriter, r *http.Request) {
	var program models.Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(program.Sessions) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "program needs at least one session"})
		return
	}
	for _, sess := range program.Sessions {
		if sess.Name == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "every session needs a name"})
			return
		}
	}
	if err := s.store.Set(r.Context(), store.KeyProgram, program); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, program)
}
