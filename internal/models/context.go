package models

import (
	"sort"
)

// RoundKind identifies an interview round archetype. The set is closed:
// no new kinds are registered at runtime.
type RoundKind string

const (
	RoundWarmUp     RoundKind = "warmup"
	RoundTechnical  RoundKind = "technical"
	RoundManagerial RoundKind = "managerial"
	RoundHR         RoundKind = "hr"
	RoundGeneral    RoundKind = "general"
)

// AllRoundKinds returns the closed set of round kinds in a stable order.
func AllRoundKinds() []RoundKind {
	return []RoundKind{RoundWarmUp, RoundTechnical, RoundManagerial, RoundHR, RoundGeneral}
}

// Valid reports whether the kind is one of the five registered rounds.
func (k RoundKind) Valid() bool {
	switch k {
	case RoundWarmUp, RoundTechnical, RoundManagerial, RoundHR, RoundGeneral:
		return true
	}
	return false
}

// InterviewContext is the dynamic input bundle for one session.
// Immutable after creation.
type InterviewContext struct {
	Role               string    `json:"role"`
	Company            string    `json:"company,omitempty"`
	JobDescription     string    `json:"job_description,omitempty"`
	ResumeExcerpt      string    `json:"resume_excerpt,omitempty"`
	DurationMinutes    int       `json:"duration_minutes"`
	MandatoryQuestions []string  `json:"mandatory_questions,omitempty"`
	RoundKind          RoundKind `json:"round_kind"`
	InterviewerID      string    `json:"interviewer_id,omitempty"`
	CandidateID        string    `json:"candidate_id,omitempty"`
	PassingScore       *int      `json:"passing_score,omitempty"`
}

// CoverageCategory is a context category a session is expected to touch
// before closing.
type CoverageCategory string

const (
	CoverageRoleFundamentals CoverageCategory = "role_fundamentals"
	CoverageResume           CoverageCategory = "resume"
	CoverageJobDescription   CoverageCategory = "job_description"
	CoverageCompany          CoverageCategory = "company"
)

// ComposedInstructions is the fully resolved prompt text plus the derived
// coverage checklist. Immutable; recomposition requires a new session.
type ComposedInstructions struct {
	Text      string             `json:"text"`
	Checklist []CoverageCategory `json:"checklist"`
}

// Requires reports whether the checklist contains the given category.
func (c ComposedInstructions) Requires(cat CoverageCategory) bool {
	for _, got := range c.Checklist {
		if got == cat {
			return true
		}
	}
	return false
}

// ChecklistFor derives the coverage checklist from context presence flags.
// Role fundamentals are always required; the optional categories are required
// iff the corresponding field is present. The result ordering is stable so
// composition stays deterministic.
func ChecklistFor(ctx InterviewContext) []CoverageCategory {
	checklist := []CoverageCategory{CoverageRoleFundamentals}
	if ctx.ResumeExcerpt != "" {
		checklist = append(checklist, CoverageResume)
	}
	if ctx.JobDescription != "" {
		checklist = append(checklist, CoverageJobDescription)
	}
	if ctx.Company != "" {
		checklist = append(checklist, CoverageCompany)
	}
	sort.Slice(checklist, func(i, j int) bool { return checklist[i] < checklist[j] })
	return checklist
}
