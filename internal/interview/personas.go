package interview

import "github.com/hireloop/interview-engine/internal/models"

// The closed set of interviewer personas. Voice ids are the realtime
// collaborator's voice models.
var personas = []models.Interviewer{
	{
		ID:          "1",
		Name:        "Priya Sharma",
		VoiceID:     "shimmer",
		Gender:      "Female",
		Accent:      "Indian English",
		Description: "Experienced technical interviewer with expertise in software engineering",
	},
	{
		ID:          "2",
		Name:        "Sarah Johnson",
		VoiceID:     "coral",
		Gender:      "Female",
		Accent:      "US English",
		Description: "Senior HR interviewer specializing in behavioral assessments",
	},
	{
		ID:          "3",
		Name:        "Arjun Patel",
		VoiceID:     "echo",
		Gender:      "Male",
		Accent:      "Indian English",
		Description: "Tech lead with focus on system design interviews",
	},
	{
		ID:          "4",
		Name:        "Michael Chen",
		VoiceID:     "alloy",
		Gender:      "Male",
		Accent:      "US English",
		Description: "Engineering manager focused on leadership and technical skills",
	},
}

// Personas returns the available interviewer personas.
func Personas() []models.Interviewer {
	out := make([]models.Interviewer, len(personas))
	copy(out, personas)
	return out
}

// PersonaByID returns the persona with the given id, falling back to the
// first persona when the id is empty or unknown.
func PersonaByID(id string) models.Interviewer {
	for _, p := range personas {
		if p.ID == id {
			return p
		}
	}
	return personas[0]
}
