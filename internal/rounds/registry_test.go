package rounds

import (
	"errors"
	"strings"
	"testing"

	"github.com/hireloop/interview-engine/internal/models"
)

func TestNewRegistryLoadsAllRounds(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	for _, kind := range models.AllRoundKinds() {
		tmpl, err := reg.Get(kind)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", kind, err)
		}
		if tmpl.Kind != kind {
			t.Errorf("expected kind %q, got %q", kind, tmpl.Kind)
		}
		if strings.TrimSpace(tmpl.Text) == "" {
			t.Errorf("round %q has empty template text", kind)
		}
		if len(tmpl.FlowSteps) == 0 {
			t.Errorf("round %q has no flow steps", kind)
		}
		if tmpl.Tone == "" {
			t.Errorf("round %q has no tone", kind)
		}
	}
}

func TestRegistryTopicsAreDisjoint(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	for _, kind := range models.AllRoundKinds() {
		tmpl, err := reg.Get(kind)
		if err != nil {
			t.Fatalf("Get(%q) failed: %v", kind, err)
		}

		forbidden := make(map[string]bool)
		for _, topic := range tmpl.ForbiddenTopics {
			forbidden[topic] = true
		}
		for _, topic := range tmpl.AllowedTopics {
			if forbidden[topic] {
				t.Errorf("round %q: topic %q is both allowed and forbidden", kind, topic)
			}
		}
	}
}

func TestGetUnknownRound(t *testing.T) {
	reg, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	_, err = reg.Get(models.RoundKind("behavioral"))
	if !errors.Is(err, ErrUnknownRoundKind) {
		t.Errorf("expected ErrUnknownRoundKind, got %v", err)
	}
}

func TestParseRoundKind(t *testing.T) {
	tests := []struct {
		input   string
		want    models.RoundKind
		wantErr bool
	}{
		{"technical", models.RoundTechnical, false},
		{"HR", models.RoundHR, false},
		{" warmup ", models.RoundWarmUp, false},
		{"Managerial", models.RoundManagerial, false},
		{"general", models.RoundGeneral, false},
		{"", "", true},
		{"behavioral", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRoundKind(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownRoundKind) {
				t.Errorf("ParseRoundKind(%q): expected ErrUnknownRoundKind, got %v", tt.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRoundKind(%q) failed: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRoundKind(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBuildTemplateRejectsOverlappingTopics(t *testing.T) {
	_, err := buildTemplate(templateFile{
		Kind:            "technical",
		Tone:            "neutral",
		FlowSteps:       []string{"opening"},
		AllowedTopics:   []string{"system design"},
		ForbiddenTopics: []string{"system design"},
		Template:        "### ROLE\ninterview text",
	})
	if err == nil {
		t.Fatal("expected error for overlapping topic sets")
	}
}

func TestBuildTemplateRejectsEmptyText(t *testing.T) {
	_, err := buildTemplate(templateFile{
		Kind:      "hr",
		Tone:      "warm",
		FlowSteps: []string{"opening"},
		Template:  "   \n",
	})
	if err == nil {
		t.Fatal("expected error for empty template text")
	}
}
