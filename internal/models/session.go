package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionState represents the current state of an interview session
type SessionState string

const (
	SessionPending   SessionState = "pending"   // Created, realtime session not yet opened
	SessionActive    SessionState = "active"    // Realtime session open, turns flowing
	SessionCompleted SessionState = "completed" // Closed normally, transcript finalized
	SessionExpired   SessionState = "expired"   // Expiry elapsed without explicit completion
	SessionFailed    SessionState = "failed"    // Collaborator error, reason recorded
	SessionEvaluated SessionState = "evaluated" // Evaluation result attached
)

// IsTerminal returns true if the state is a final state.
func (s SessionState) IsTerminal() bool {
	switch s {
	case SessionCompleted, SessionExpired, SessionFailed, SessionEvaluated:
		return true
	}
	return false
}

// Evaluable reports whether a session in this state can accept an
// evaluation result. Pending and active sessions have no usable
// transcript yet; evaluated sessions already carry one.
func (s SessionState) Evaluable() bool {
	switch s {
	case SessionCompleted, SessionExpired, SessionFailed:
		return true
	}
	return false
}

// Speaker identifies who produced a transcript turn.
type Speaker string

const (
	SpeakerInterviewer Speaker = "interviewer"
	SpeakerCandidate   Speaker = "candidate"
)

// Turn is a single transcript record. The transcript is append-only.
type Turn struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the unit of interview lifecycle tracking.
type Session struct {
	ID            string                    `json:"id"`
	ExternalID    string                    `json:"external_id,omitempty"`
	State         SessionState              `json:"state"`
	Context       InterviewContext          `json:"context"`
	Instructions  ComposedInstructions      `json:"instructions"`
	CreatedAt     time.Time                 `json:"created_at"`
	ActivatedAt   *time.Time                `json:"activated_at,omitempty"`
	EndedAt       *time.Time                `json:"ended_at,omitempty"`
	ExpiresAt     time.Time                 `json:"expires_at"`
	FailureReason string                    `json:"failure_reason,omitempty"`
	Transcript    []Turn                    `json:"transcript,omitempty"`
	Coverage      map[CoverageCategory]bool `json:"coverage,omitempty"`
	Evaluation    *EvaluationResult         `json:"evaluation,omitempty"`
}

// IsExpired checks if the session duration budget has elapsed at the
// given instant.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// CoveredCategories returns the checklist categories marked as touched,
// in stable order.
func (s *Session) CoveredCategories() []CoverageCategory {
	var covered []CoverageCategory
	for _, cat := range s.Instructions.Checklist {
		if s.Coverage[cat] {
			covered = append(covered, cat)
		}
	}
	return covered
}

// HasCandidateTurns reports whether the transcript contains at least one
// candidate turn. Evaluating a session without any yields an evaluation
// flagged insufficient-data.
func (s *Session) HasCandidateTurns() bool {
	for _, turn := range s.Transcript {
		if turn.Speaker == SpeakerCandidate {
			return true
		}
	}
	return false
}

// NewSessionID generates an opaque local session identifier.
func NewSessionID() string {
	return "intv_" + uuid.New().String()
}

// Interviewer is a selectable interviewer persona with a voice model.
type Interviewer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	VoiceID     string `json:"voice_id"`
	Gender      string `json:"gender"`
	Accent      string `json:"accent"`
	Description string `json:"description,omitempty"`
}
