package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/wealthwise/advisor/internal/domain"
	"github.com/wealthwise/advisor/internal/modules/advisory"
)

// generateAdviceRequest is an inbound profile plus the optional
// backend-only fields the advisory service accepts. The profile fields
// sit at the top level, matching the entity's JSON shape.
type generateAdviceRequest struct {
	domain.FinancialProfile
	adviceExtras
}

// adviceExtras carries caller-supplied advisory options that are not
// part of the stored profile. All optional.
type adviceExtras struct {
	EmploymentStatus     string           `json:"EmploymentStatus,omitempty"`
	TotalDebt            *decimal.Decimal `json:"TotalDebt,omitempty"`
	MonthlyDebtPayments  *decimal.Decimal `json:"MonthlyDebtPayments,omitempty"`
	InvestmentExperience *int             `json:"InvestmentExperience,omitempty"`
	ShortTermHorizon     *int             `json:"ShortTermHorizon,omitempty"`
	MediumTermHorizon    *int             `json:"MediumTermHorizon,omitempty"`
	LongTermHorizon      *int             `json:"LongTermHorizon,omitempty"`
	HasEmergencyFund     *bool            `json:"HasEmergencyFund,omitempty"`
	ESGPreference        *bool            `json:"EsgPreference,omitempty"`
	CryptoTolerance      *bool            `json:"CryptoTolerance,omitempty"`
}

func (e adviceExtras) toOptions() advisory.RequestOptions {
	return advisory.RequestOptions{
		EmploymentStatus:     e.EmploymentStatus,
		TotalDebt:            e.TotalDebt,
		MonthlyDebtPayments:  e.MonthlyDebtPayments,
		InvestmentExperience: e.InvestmentExperience,
		ShortTermHorizon:     e.ShortTermHorizon,
		MediumTermHorizon:    e.MediumTermHorizon,
		LongTermHorizon:      e.LongTermHorizon,
		HasEmergencyFund:     e.HasEmergencyFund,
		ESGPreference:        e.ESGPreference,
		CryptoTolerance:      e.CryptoTolerance,
	}
}

// handleGenerateAdvice generates advice for an ad-hoc profile supplied
// in the request body. Nothing is persisted.
// POST /api/advice/generate
func (s *Server) handleGenerateAdvice(w http.ResponseWriter, r *http.Request) {
	var req generateAdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	advice, err := s.gateway.GenerateAdvice(r.Context(), req.FinancialProfile, req.adviceExtras.toOptions())
	if err != nil {
		s.writeGatewayError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, advice)
}

// handleGenerateForProfile generates advice for a stored profile and
// records the result in the advice history.
// POST /api/advice/generate/{profileID}
func (s *Server) handleGenerateForProfile(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")

	profile, err := s.profiles.GetByID(profileID)
	if err != nil {
		s.log.Error().Err(err).Str("profile_id", profileID).Msg("Failed to load profile")
		s.writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		s.writeError(w, http.StatusNotFound, "profile not found")
		return
	}

	// The body is optional and, when present, only carries extras.
	var extras adviceExtras
	if err := json.NewDecoder(r.Body).Decode(&extras); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	advice, err := s.gateway.GenerateAdvice(r.Context(), *profile, extras.toOptions())
	if err != nil {
		s.writeGatewayError(w, err)
		return
	}

	if _, err := s.history.Save(profileID, advice); err != nil {
		// The advice was generated; losing the history row should not
		// lose the response.
		s.log.Error().Err(err).Str("profile_id", profileID).Msg("Failed to record advice history")
	}

	s.writeJSON(w, http.StatusOK, advice)
}

// adviceRecordResponse is one history entry in API responses.
type adviceRecordResponse struct {
	domain.FinancialAdvice
	ExpiresAt time.Time `json:"ExpiresAt"`
}

// handleAdviceHistory lists non-expired advice records for a profile.
// GET /api/advice/history/{profileID}
func (s *Server) handleAdviceHistory(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")

	records, err := s.history.ListByProfile(profileID)
	if err != nil {
		s.log.Error().Err(err).Str("profile_id", profileID).Msg("Failed to list advice history")
		s.writeError(w, http.StatusInternalServerError, "failed to list advice history")
		return
	}

	response := make([]adviceRecordResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, adviceRecordResponse{
			FinancialAdvice: rec.Advice,
			ExpiresAt:       rec.ExpiresAt,
		})
	}
	s.writeJSON(w, http.StatusOK, response)
}
