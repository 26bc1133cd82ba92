package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hireloop/interview-engine/internal/models"
	"github.com/hireloop/interview-engine/internal/rounds"
)

// Common errors
var (
	ErrRoundMismatch        = errors.New("context round does not match template round")
	ErrMissingRequiredField = errors.New("missing required field")
)

// Omission clauses substituted for absent optional context. They tell the
// model explicitly to skip the topic instead of inventing content.
const (
	noCompanyClause = "No company information provided. Do not reference or invent any company details."
	noJDClause      = "No job description provided. Do not reference or invent job description requirements."
	noResumeClause  = "No resume provided. Do not reference or invent details from the candidate's resume."
)

// Compose merges a round template with the dynamic interview context into
// the final instruction text handed to the conversational model, plus the
// derived coverage checklist. Output is deterministic: identical inputs
// produce byte-identical instructions.
func Compose(tmpl *rounds.RoundTemplate, ctx models.InterviewContext) (models.ComposedInstructions, error) {
	if ctx.Role == "" {
		return models.ComposedInstructions{}, fmt.Errorf("%w: role", ErrMissingRequiredField)
	}
	if ctx.DurationMinutes <= 0 {
		return models.ComposedInstructions{}, fmt.Errorf("%w: duration_minutes", ErrMissingRequiredField)
	}
	if ctx.RoundKind != tmpl.Kind {
		return models.ComposedInstructions{}, fmt.Errorf("%w: context %q vs template %q",
			ErrRoundMismatch, ctx.RoundKind, tmpl.Kind)
	}

	var b strings.Builder
	b.WriteString(substitute(tmpl, ctx))

	if len(ctx.MandatoryQuestions) > 0 {
		writeMandatoryQuestions(&b, ctx.MandatoryQuestions)
	} else {
		writeFlow(&b, tmpl)
	}

	writePacing(&b, ctx.DurationMinutes)
	writeClosing(&b)

	return models.ComposedInstructions{
		Text:      b.String(),
		Checklist: models.ChecklistFor(ctx),
	}, nil
}

// substitute resolves every named placeholder in the template text.
func substitute(tmpl *rounds.RoundTemplate, ctx models.InterviewContext) string {
	company := noCompanyClause
	if ctx.Company != "" {
		company = ctx.Company
	}
	jd := noJDClause
	if ctx.JobDescription != "" {
		jd = ctx.JobDescription
	}
	resume := noResumeClause
	if ctx.ResumeExcerpt != "" {
		resume = ctx.ResumeExcerpt
	}

	r := strings.NewReplacer(
		"{{role}}", ctx.Role,
		"{{duration}}", fmt.Sprintf("%d minutes", ctx.DurationMinutes),
		"{{tone}}", tmpl.Tone,
		"{{company_context}}", company,
		"{{job_description_context}}", jd,
		"{{resume_context}}", resume,
	)
	return r.Replace(tmpl.Text)
}

// writeMandatoryQuestions appends the strict-ordering directive. It replaces
// the round's free-form flow entirely: the listed questions are asked
// verbatim, in order, one at a time.
func writeMandatoryQuestions(b *strings.Builder, questions []string) {
	b.WriteString("\n### MANDATORY QUESTIONS (STRICT ORDER)\n")
	b.WriteString("Ask the following questions verbatim, in the listed order.\n")
	b.WriteString("Ask exactly one question at a time. Do not answer any question yourself.\n")
	b.WriteString("Do not skip a question. Advance to the next question only after the candidate has responded.\n")
	b.WriteString("Do not generate additional questions of your own until every listed question has been asked.\n\n")
	for i, q := range questions {
		fmt.Fprintf(b, "%d. %s\n", i+1, q)
	}
}

// writeFlow appends the round's free-form flow outline bounded by its
// topic allow/deny lists.
func writeFlow(b *strings.Builder, tmpl *rounds.RoundTemplate) {
	b.WriteString("\n### INTERVIEW FLOW\n")
	b.WriteString("Structure the interview along these phases:\n")
	for i, step := range tmpl.FlowSteps {
		fmt.Fprintf(b, "%d. %s\n", i+1, step)
	}

	if len(tmpl.AllowedTopics) > 0 {
		b.WriteString("\nKeep questions within these topics:\n")
		for _, topic := range tmpl.AllowedTopics {
			fmt.Fprintf(b, "- %s\n", topic)
		}
	}
	if len(tmpl.ForbiddenTopics) > 0 {
		b.WriteString("\nNever ask about:\n")
		for _, topic := range tmpl.ForbiddenTopics {
			fmt.Fprintf(b, "- %s\n", topic)
		}
	}
}

// QuestionRange returns the advisory target question count for a duration.
// The range degenerates for very short interviews, so it is floored at one
// question.
func QuestionRange(durationMinutes int) (low, high int) {
	low = durationMinutes / 3
	high = durationMinutes / 2
	if low < 1 {
		low = 1
	}
	if high < low {
		high = low
	}
	return low, high
}

// writePacing appends the duration-derived pacing directive. This is
// advisory text for the downstream model, not a locally enforced timer.
func writePacing(b *strings.Builder, durationMinutes int) {
	low, high := QuestionRange(durationMinutes)
	b.WriteString("\n### PACING\n")
	fmt.Fprintf(b, "The interview lasts %d minutes. Target %d to %d questions in total, budgeting 2 to 4 minutes per question.\n",
		durationMinutes, low, high)
	b.WriteString("Treat the target as a minimum frequency, not a quota to stop at: if time remains after your planned questions, continue with depth follow-ups.\n")
	b.WriteString("Do not track time yourself; the application signals when to wrap up.\n")
}

// writeClosing appends the invariant closing directive shared by every round.
func writeClosing(b *strings.Builder) {
	b.WriteString("\n### CLOSING RULES\n")
	b.WriteString("Ask the candidate for a self-introduction exactly once, at the start of the interview. Never repeat it.\n")
	b.WriteString("End the interview with exactly this closing statement: \"Thank you for sharing your experience today. The hiring team will follow up with you soon. You may now end the interview.\"\n")
	b.WriteString("Conduct the interview in English. Be lenient on accent and occasional code-switching; intervene only when a full response is more than 90% non-English, with: \"I'll need responses in English for this assessment.\"\n")
}
