package models

import "time"

// CreateInterviewRequest is the request body for creating a session.
type CreateInterviewRequest struct {
	Role               string   `json:"role"`
	Company            string   `json:"company,omitempty"`
	JobDescription     string   `json:"job_description,omitempty"`
	ResumeExcerpt      string   `json:"resume_excerpt,omitempty"`
	DurationMinutes    int      `json:"duration_minutes"`
	Round              string   `json:"round"`
	MandatoryQuestions []string `json:"mandatory_questions,omitempty"`
	InterviewerID      string   `json:"interviewer_id,omitempty"`
	CandidateID        string   `json:"candidate_id,omitempty"`
	PassingScore       *int     `json:"passing_score,omitempty"`
}

// CreateInterviewResponse is returned after creating a session. The
// realtime connection details are forwarded so the frontend can open
// the voice channel directly.
type CreateInterviewResponse struct {
	SessionID         string       `json:"session_id"`
	InstructionsReady bool         `json:"instructions_ready"`
	State             SessionState `json:"state"`
	EphemeralToken    string       `json:"ephemeral_token,omitempty"`
	Voice             string       `json:"voice,omitempty"`
	Model             string       `json:"model,omitempty"`
	ExpiresAt         time.Time    `json:"expires_at"`
	Interviewer       *Interviewer `json:"interviewer,omitempty"`
}

// TurnRecord is a single transcript entry as submitted by the frontend.
type TurnRecord struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// AppendTranscriptRequest carries a batch of transcript turns.
type AppendTranscriptRequest struct {
	Turns []TurnRecord `json:"turns"`
}

// SessionSnapshot is the caller-facing view of a session.
type SessionSnapshot struct {
	SessionID     string             `json:"session_id"`
	State         SessionState       `json:"state"`
	Round         RoundKind          `json:"round"`
	Role          string             `json:"role"`
	Company       string             `json:"company,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	ActivatedAt   *time.Time         `json:"activated_at,omitempty"`
	EndedAt       *time.Time         `json:"ended_at,omitempty"`
	ExpiresAt     time.Time          `json:"expires_at"`
	FailureReason string             `json:"failure_reason,omitempty"`
	TurnCount     int                `json:"turn_count"`
	Transcript    []Turn             `json:"transcript,omitempty"`
	Checklist     []CoverageCategory `json:"checklist"`
	Covered       []CoverageCategory `json:"covered,omitempty"`
	Evaluation    *EvaluationResult  `json:"evaluation,omitempty"`
}

// SnapshotOf builds the caller-facing view from a session copy.
func SnapshotOf(s Session) SessionSnapshot {
	return SessionSnapshot{
		SessionID:     s.ID,
		State:         s.State,
		Round:         s.Context.RoundKind,
		Role:          s.Context.Role,
		Company:       s.Context.Company,
		CreatedAt:     s.CreatedAt,
		ActivatedAt:   s.ActivatedAt,
		EndedAt:       s.EndedAt,
		ExpiresAt:     s.ExpiresAt,
		FailureReason: s.FailureReason,
		TurnCount:     len(s.Transcript),
		Transcript:    s.Transcript,
		Checklist:     s.Instructions.Checklist,
		Covered:       s.CoveredCategories(),
		Evaluation:    s.Evaluation,
	}
}
