package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wealthwise/advisor/internal/modules/advisory"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"service": "wealthwise-advisor",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// errorResponse is the JSON shape of every error this API returns.
type errorResponse struct {
	Error  string   `json:"error"`
	Kind   string   `json:"kind,omitempty"`
	Fields []string `json:"fields,omitempty"`
}

// writeError writes a plain error without a taxonomy kind.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// writeGatewayError maps the advisory error taxonomy onto HTTP status
// codes: "fix your input" (validation, client), "try again later"
// (upstream, transport), "we gave up" (cancelled), "contact support"
// (malformed response, configuration).
func (s *Server) writeGatewayError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error(), Kind: string(advisory.KindOf(err))}

	var ae *advisory.Error
	if errors.As(err, &ae) {
		resp.Fields = ae.Fields
	}

	status := http.StatusInternalServerError
	switch advisory.KindOf(err) {
	case advisory.KindValidation:
		status = http.StatusBadRequest
	case advisory.KindClient:
		status = http.StatusBadGateway
	case advisory.KindUpstream, advisory.KindTransport:
		status = http.StatusServiceUnavailable
	case advisory.KindCancelled:
		status = http.StatusGatewayTimeout
	case advisory.KindMalformedResponse:
		status = http.StatusBadGateway
	}

	s.writeJSON(w, status, resp)
}
