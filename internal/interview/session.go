package interview

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hireloop/interview-engine/internal/models"
)

// Common errors
var (
	ErrInvalidTransition  = errors.New("invalid session transition")
	ErrSessionNotFound    = errors.New("session not found")
	ErrDuplicateSessionID = errors.New("duplicate session id")
)

// Session wraps the session record with per-session mutual exclusion.
// Transition operations and turn ingestion are order-sensitive, so all
// access to the same session is serialized; sessions with different ids
// never contend. Transitions are atomic: either every associated field
// updates under the lock, or none do.
type Session struct {
	mu   sync.Mutex
	data models.Session
}

// NewSession creates a session in the pending state. The expiry is the
// duration budget plus a grace window.
func NewSession(ctx models.InterviewContext, instructions models.ComposedInstructions, now time.Time, grace time.Duration) *Session {
	budget := time.Duration(ctx.DurationMinutes) * time.Minute
	return &Session{
		data: models.Session{
			ID:           models.NewSessionID(),
			State:        models.SessionPending,
			Context:      ctx,
			Instructions: instructions,
			CreatedAt:    now,
			ExpiresAt:    now.Add(budget + grace),
			Coverage:     make(map[models.CoverageCategory]bool),
		},
	}
}

// ID returns the session identifier. Immutable after creation.
func (s *Session) ID() string {
	return s.data.ID
}

// State returns the current state.
func (s *Session) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.State
}

// Snapshot returns a deep copy of the session record for read-only
// consumption outside the lock.
func (s *Session) Snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

func (s *Session) copyLocked() models.Session {
	out := s.data
	out.Transcript = append([]models.Turn(nil), s.data.Transcript...)
	out.Coverage = make(map[models.CoverageCategory]bool, len(s.data.Coverage))
	for cat, touched := range s.data.Coverage {
		out.Coverage[cat] = touched
	}
	if s.data.Evaluation != nil {
		ev := *s.data.Evaluation
		out.Evaluation = &ev
	}
	return out
}

// Activate transitions pending -> active, committing the external session
// id returned by the realtime collaborator.
func (s *Session) Activate(externalID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.State != models.SessionPending {
		return fmt.Errorf("%w: activate from %q", ErrInvalidTransition, s.data.State)
	}
	s.data.State = models.SessionActive
	s.data.ExternalID = externalID
	s.data.ActivatedAt = &now
	return nil
}

// RecordTurn appends a transcript turn. Valid only while active. Coverage
// progress is updated by keyword matching against the interviewer's
// question; the matching is advisory, a diagnostic rather than a gate.
func (s *Session) RecordTurn(speaker models.Speaker, text string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.State != models.SessionActive {
		return fmt.Errorf("%w: record turn in %q", ErrInvalidTransition, s.data.State)
	}
	s.data.Transcript = append(s.data.Transcript, models.Turn{
		Speaker:   speaker,
		Text:      text,
		Timestamp: now,
	})
	if speaker == models.SpeakerInterviewer {
		tagCoverage(s.data.Coverage, s.data.Instructions.Checklist, s.data.Context, text)
	}
	return nil
}

// Complete transitions active -> completed, finalizing the transcript.
func (s *Session) Complete(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.State != models.SessionActive {
		return fmt.Errorf("%w: complete from %q", ErrInvalidTransition, s.data.State)
	}
	s.data.State = models.SessionCompleted
	s.data.EndedAt = &now
	return nil
}

// Expire moves any non-terminal state to expired. Idempotent: expiring an
// already-terminal session is a no-op, not an error.
func (s *Session) Expire(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.State.IsTerminal() {
		return
	}
	s.data.State = models.SessionExpired
	s.data.EndedAt = &now
}

// Fail moves any non-terminal state to failed, recording the reason.
func (s *Session) Fail(reason string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data.State.IsTerminal() {
		return fmt.Errorf("%w: fail from %q", ErrInvalidTransition, s.data.State)
	}
	s.data.State = models.SessionFailed
	s.data.FailureReason = reason
	s.data.EndedAt = &now
	return nil
}

// AttachEvaluation transitions completed|expired|failed -> evaluated. A
// pending or active session has no usable transcript yet and is rejected.
func (s *Session) AttachEvaluation(result *models.EvaluationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.data.State.Evaluable() {
		return fmt.Errorf("%w: attach evaluation in %q", ErrInvalidTransition, s.data.State)
	}
	ev := *result
	s.data.State = models.SessionEvaluated
	s.data.Evaluation = &ev
	return nil
}
