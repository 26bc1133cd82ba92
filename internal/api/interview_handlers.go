package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hireloop/interview-engine/internal/interview"
	"github.com/hireloop/interview-engine/internal/models"
	"github.com/hireloop/interview-engine/internal/rounds"
)

// handleCreateInterview creates a new interview session and opens the
// realtime voice channel.
func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	kind, err := rounds.ParseRoundKind(req.Round)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	ictx := models.InterviewContext{
		Role:               req.Role,
		Company:            req.Company,
		JobDescription:     req.JobDescription,
		ResumeExcerpt:      req.ResumeExcerpt,
		DurationMinutes:    req.DurationMinutes,
		MandatoryQuestions: req.MandatoryQuestions,
		RoundKind:          kind,
		InterviewerID:      req.InterviewerID,
		CandidateID:        req.CandidateID,
		PassingScore:       req.PassingScore,
	}

	result, err := s.manager.CreateSession(r.Context(), ictx)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	interviewer := result.Interviewer
	resp := models.CreateInterviewResponse{
		SessionID:         result.Session.ID,
		InstructionsReady: true,
		State:             result.Session.State,
		EphemeralToken:    result.Realtime.ClientSecret,
		Voice:             interviewer.VoiceID,
		Model:             result.Realtime.Model,
		ExpiresAt:         result.Session.ExpiresAt,
		Interviewer:       &interviewer,
	}
	respondJSON(w, http.StatusCreated, resp)
}

// handleGetInterview returns the current session snapshot.
func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, err := s.manager.GetSession(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SnapshotOf(sess))
}

// handleDeleteInterview removes a session and its durable snapshot.
func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.manager.RemoveSession(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"session_id": id, "status": "deleted"})
}

// handleEndInterview completes an active session.
func (s *Server) handleEndInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.manager.EndSession(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}

	sess, err := s.manager.GetSession(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SnapshotOf(sess))
}

// handleEvaluateInterview scores a finished session and attaches the
// result.
func (s *Server) handleEvaluateInterview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := s.manager.EvaluateSession(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// handleAppendTranscript appends a batch of transcript turns to an
// active session.
func (s *Server) handleAppendTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.AppendTranscriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}
	if len(req.Turns) == 0 {
		respondError(w, http.StatusBadRequest, "validation_error", "turns must not be empty")
		return
	}

	for i, turn := range req.Turns {
		speaker, err := parseSpeaker(turn.Speaker)
		if err != nil {
			respondError(w, http.StatusBadRequest, "validation_error",
				fmt.Sprintf("turn %d: %v", i, err))
			return
		}
		if err := s.manager.RecordTurn(r.Context(), id, speaker, turn.Text); err != nil {
			respondDomainError(w, err)
			return
		}
	}

	sess, err := s.manager.GetSession(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.SnapshotOf(sess))
}

// handleListInterviewers returns the available interviewer personas.
func (s *Server) handleListInterviewers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"interviewers": interview.Personas(),
	})
}

func parseSpeaker(raw string) (models.Speaker, error) {
	switch models.Speaker(raw) {
	case models.SpeakerInterviewer:
		return models.SpeakerInterviewer, nil
	case models.SpeakerCandidate:
		return models.SpeakerCandidate, nil
	default:
		return "", fmt.Errorf("unknown speaker %q", raw)
	}
}
