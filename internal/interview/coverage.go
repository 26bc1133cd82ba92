package interview

import (
	"strings"

	"github.com/hireloop/interview-engine/internal/models"
)

// Keyword cues per coverage category. Matching is deliberately loose:
// coverage is a best-effort diagnostic of which context categories the
// interviewer has touched, never a hard gate on completion.
var coverageCues = map[models.CoverageCategory][]string{
	models.CoverageResume: {
		"resume",
		"your background",
		"your experience",
		"you worked",
		"your project",
		"you mentioned",
	},
	models.CoverageJobDescription: {
		"job description",
		"this position",
		"the role requires",
		"responsibilities",
		"requirement",
	},
	models.CoverageCompany: {
		"our company",
		"our team",
		"the company",
	},
}

// tagCoverage marks checklist categories touched by an interviewer turn.
// Role fundamentals are marked by any substantive question; the optional
// categories by their keyword cues or, for company, the company name itself.
func tagCoverage(progress map[models.CoverageCategory]bool, checklist []models.CoverageCategory, ctx models.InterviewContext, text string) {
	lower := strings.ToLower(text)

	for _, cat := range checklist {
		if progress[cat] {
			continue
		}
		switch cat {
		case models.CoverageRoleFundamentals:
			if strings.Contains(lower, "?") {
				progress[cat] = true
			}
		case models.CoverageCompany:
			if ctx.Company != "" && strings.Contains(lower, strings.ToLower(ctx.Company)) {
				progress[cat] = true
				continue
			}
			if matchesAny(lower, coverageCues[cat]) {
				progress[cat] = true
			}
		default:
			if matchesAny(lower, coverageCues[cat]) {
				progress[cat] = true
			}
		}
	}
}

func matchesAny(text string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			return true
		}
	}
	return false
}
