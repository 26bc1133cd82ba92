package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hireloop/interview-engine/internal/evaluation"
	"github.com/hireloop/interview-engine/internal/interview"
	"github.com/hireloop/interview-engine/internal/prompt"
	"github.com/hireloop/interview-engine/internal/rounds"
)

// apiResponse is the standard API response envelope
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

// apiError represents an API error
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON writes a successful JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: true,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := apiResponse{
		Success: false,
		Error: &apiError{
			Code:    code,
			Message: message,
		},
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// respondDomainError maps domain errors to HTTP status codes and
// stable error codes.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, rounds.ErrUnknownRoundKind):
		respondError(w, http.StatusBadRequest, "unknown_round", err.Error())
	case errors.Is(err, prompt.ErrRoundMismatch):
		respondError(w, http.StatusBadRequest, "round_mismatch", err.Error())
	case errors.Is(err, prompt.ErrMissingRequiredField):
		respondError(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, interview.ErrDuplicateSessionID):
		respondError(w, http.StatusConflict, "duplicate_session", err.Error())
	case errors.Is(err, interview.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, evaluation.ErrSessionNotEvaluable):
		respondError(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, interview.ErrRealtimeUnavailable):
		respondError(w, http.StatusBadGateway, "realtime_unavailable", err.Error())
	case errors.Is(err, evaluation.ErrEvaluationUnavailable):
		respondError(w, http.StatusBadGateway, "evaluation_unavailable", err.Error())
	default:
		slog.Error("unhandled domain error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// handleHealth returns the service health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "interview-engine",
	})
}

// handleReady checks downstream dependencies
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.manager.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "not_ready", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
