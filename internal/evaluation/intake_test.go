package evaluation

import (
	"errors"
	"testing"
	"time"

	"github.com/hireloop/interview-engine/internal/models"
)

func finishedSession(state models.SessionState) models.Session {
	return models.Session{
		ID:    "intv_test",
		State: state,
		Context: models.InterviewContext{
			Role:            "Backend Engineer",
			DurationMinutes: 30,
			RoundKind:       models.RoundTechnical,
		},
		Instructions: models.ComposedInstructions{
			Checklist: []models.CoverageCategory{models.CoverageRoleFundamentals},
		},
		Transcript: []models.Turn{
			{Speaker: models.SpeakerInterviewer, Text: "What is a goroutine?", Timestamp: time.Now()},
			{Speaker: models.SpeakerCandidate, Text: "A lightweight thread.", Timestamp: time.Now()},
		},
		Coverage: map[models.CoverageCategory]bool{
			models.CoverageRoleFundamentals: true,
		},
	}
}

func TestSubmitEvaluableStates(t *testing.T) {
	for _, state := range []models.SessionState{
		models.SessionCompleted,
		models.SessionExpired,
		models.SessionFailed,
	} {
		req, err := Submit(finishedSession(state))
		if err != nil {
			t.Errorf("Submit(%q) failed: %v", state, err)
			continue
		}
		if req.SessionID != "intv_test" {
			t.Errorf("Submit(%q): wrong session id %q", state, req.SessionID)
		}
		if len(req.Transcript) != 2 {
			t.Errorf("Submit(%q): expected 2 turns, got %d", state, len(req.Transcript))
		}
		if len(req.Covered) != 1 || req.Covered[0] != models.CoverageRoleFundamentals {
			t.Errorf("Submit(%q): wrong covered set %v", state, req.Covered)
		}
	}
}

func TestSubmitRejectsNonEvaluableStates(t *testing.T) {
	for _, state := range []models.SessionState{
		models.SessionPending,
		models.SessionActive,
		models.SessionEvaluated,
	} {
		_, err := Submit(finishedSession(state))
		if !errors.Is(err, ErrSessionNotEvaluable) {
			t.Errorf("Submit(%q): expected ErrSessionNotEvaluable, got %v", state, err)
		}
	}
}
