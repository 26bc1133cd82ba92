package evaluation

import (
	"errors"
	"fmt"

	"github.com/hireloop/interview-engine/internal/models"
)

// Common errors
var (
	ErrEvaluationUnavailable = errors.New("evaluation collaborator unavailable")
	ErrSessionNotEvaluable   = errors.New("session is not in an evaluable state")
)

// Submit packages a finished session for the scoring collaborator. The
// session must be completed, expired, or failed; a pending or active
// session has no finalized transcript yet.
func Submit(sess models.Session) (*models.EvaluationRequest, error) {
	if !sess.State.Evaluable() {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotEvaluable, sess.State)
	}
	return &models.EvaluationRequest{
		SessionID:  sess.ID,
		Context:    sess.Context,
		Transcript: sess.Transcript,
		Covered:    sess.CoveredCategories(),
	}, nil
}
