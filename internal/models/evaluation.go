package models

import "time"

// EvaluationRequest is the opaque payload handed to the scoring
// collaborator: finished transcript plus session context and the
// advisory coverage diagnostic.
type EvaluationRequest struct {
	SessionID  string             `json:"session_id"`
	Context    InterviewContext   `json:"context"`
	Transcript []Turn             `json:"transcript"`
	Covered    []CoverageCategory `json:"covered,omitempty"`
}

// PerformanceBreakdown holds per-dimension scores on a 0-10 scale.
type PerformanceBreakdown struct {
	Communication      float64 `json:"communication"`
	TechnicalKnowledge float64 `json:"technical_knowledge"`
	Confidence         float64 `json:"confidence"`
	Structure          float64 `json:"structure"`
}

// EvaluationResult is the structured outcome of scoring a transcript.
// OverallScore is 0-100.
type EvaluationResult struct {
	OverallScore     float64              `json:"overall_score"`
	FeedbackLabel    string               `json:"feedback_label"`
	Breakdown        PerformanceBreakdown `json:"performance_breakdown"`
	Strengths        []string             `json:"strengths"`
	Weaknesses       []string             `json:"weaknesses"`
	Recommendations  []string             `json:"recommendations"`
	InsufficientData bool                 `json:"insufficient_data,omitempty"`
	Passed           *bool                `json:"passed,omitempty"`
	EvaluatedAt      time.Time            `json:"evaluated_at"`
}

// FeedbackLabelFor maps an overall score to its label band.
func FeedbackLabelFor(score float64) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 60:
		return "Good"
	case score >= 40:
		return "Fair"
	default:
		return "Poor"
	}
}
