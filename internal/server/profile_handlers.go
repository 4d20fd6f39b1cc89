package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wealthwise/advisor/internal/domain"
	"github.com/wealthwise/advisor/internal/modules/advisory"
)

// handleCreateProfile stores a new financial profile.
// POST /api/profiles
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.FinancialProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := advisory.ValidateProfile(profile); err != nil {
		s.writeGatewayError(w, err)
		return
	}

	created, err := s.profiles.Create(profile)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to create profile")
		s.writeError(w, http.StatusInternalServerError, "failed to create profile")
		return
	}

	s.writeJSON(w, http.StatusCreated, created)
}

// handleGetProfile returns a stored profile.
// GET /api/profiles/{id}
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	profile, err := s.profiles.GetByID(id)
	if err != nil {
		s.log.Error().Err(err).Str("profile_id", id).Msg("Failed to get profile")
		s.writeError(w, http.StatusInternalServerError, "failed to get profile")
		return
	}
	if profile == nil {
		s.writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

// handleListProfiles returns all stored profiles.
// GET /api/profiles
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	list, err := s.profiles.List()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list profiles")
		s.writeError(w, http.StatusInternalServerError, "failed to list profiles")
		return
	}
	if list == nil {
		list = []domain.FinancialProfile{}
	}

	s.writeJSON(w, http.StatusOK, list)
}

// handleUpdateProfile replaces a stored profile.
// PUT /api/profiles/{id}
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var profile domain.FinancialProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	profile.ID = id

	if err := advisory.ValidateProfile(profile); err != nil {
		s.writeGatewayError(w, err)
		return
	}

	if err := s.profiles.Update(profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.log.Error().Err(err).Str("profile_id", id).Msg("Failed to update profile")
		s.writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

// handleDeleteProfile removes a stored profile and its advice history.
// DELETE /api/profiles/{id}
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.profiles.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, http.StatusNotFound, "profile not found")
			return
		}
		s.log.Error().Err(err).Str("profile_id", id).Msg("Failed to delete profile")
		s.writeError(w, http.StatusInternalServerError, "failed to delete profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
