package evaluation

import (
	"context"
	"time"

	"github.com/hireloop/interview-engine/internal/models"
)

// Scorer is the contract with the opaque scoring collaborator: payload in,
// structured evaluation out. Implementations do not retry internally;
// retry policy belongs to the caller.
type Scorer interface {
	Score(ctx context.Context, req *models.EvaluationRequest) (*models.EvaluationResult, error)
}

// Evaluate scores a packaged transcript. A transcript without a single
// candidate turn is still legal: it short-circuits to an insufficient-data
// result locally, with no collaborator call.
func Evaluate(ctx context.Context, scorer Scorer, req *models.EvaluationRequest, now time.Time) (*models.EvaluationResult, error) {
	if !hasCandidateTurns(req.Transcript) {
		result := InsufficientDataResult(now)
		applyPassingScore(req, result)
		return result, nil
	}

	result, err := scorer.Score(ctx, req)
	if err != nil {
		return nil, err
	}
	result.EvaluatedAt = now
	if result.FeedbackLabel == "" {
		result.FeedbackLabel = models.FeedbackLabelFor(result.OverallScore)
	}
	applyPassingScore(req, result)
	return result, nil
}

// applyPassingScore derives the pass/fail verdict when the context carries
// a threshold. Applied on every evaluation path, including insufficient
// data: a score of zero against any threshold is a fail, not an unknown.
func applyPassingScore(req *models.EvaluationRequest, result *models.EvaluationResult) {
	if req.Context.PassingScore == nil {
		return
	}
	passed := result.OverallScore >= float64(*req.Context.PassingScore)
	result.Passed = &passed
}

// InsufficientDataResult is the evaluation attached to a session whose
// transcript carries no candidate answers.
func InsufficientDataResult(now time.Time) *models.EvaluationResult {
	return &models.EvaluationResult{
		OverallScore:  0,
		FeedbackLabel: "Poor",
		Strengths:     nil,
		Weaknesses: []string{
			"The interview ended before any questions were answered",
		},
		Recommendations: []string{
			"Complete the full interview to receive a proper evaluation",
			"Allocate sufficient time for the interview session",
		},
		InsufficientData: true,
		EvaluatedAt:      now,
	}
}

func hasCandidateTurns(transcript []models.Turn) bool {
	for _, turn := range transcript {
		if turn.Speaker == models.SpeakerCandidate {
			return true
		}
	}
	return false
}
