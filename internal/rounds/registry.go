package rounds

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hireloop/interview-engine/internal/models"
)

//go:embed assets/*.yaml
var assetFS embed.FS

// ErrUnknownRoundKind is returned when no template is registered for a kind.
var ErrUnknownRoundKind = errors.New("unknown round kind")

// RoundTemplate is the immutable prompt archetype for one interview round.
type RoundTemplate struct {
	Kind            models.RoundKind
	FlowSteps       []string
	AllowedTopics   []string
	ForbiddenTopics []string
	Tone            string
	Text            string
}

// templateFile represents the YAML structure of a round asset file
type templateFile struct {
	Kind            string   `yaml:"kind"`
	Tone            string   `yaml:"tone"`
	FlowSteps       []string `yaml:"flow_steps"`
	AllowedTopics   []string `yaml:"allowed_topics"`
	ForbiddenTopics []string `yaml:"forbidden_topics"`
	Template        string   `yaml:"template"`
}

// Registry holds one template per round kind. Populated once at process
// start from the embedded assets; never mutated afterwards.
type Registry struct {
	templates map[models.RoundKind]*RoundTemplate
}

// NewRegistry loads and validates the closed set of round templates.
func NewRegistry() (*Registry, error) {
	entries, err := assetFS.ReadDir("assets")
	if err != nil {
		return nil, fmt.Errorf("failed to read round assets: %w", err)
	}

	reg := &Registry{templates: make(map[models.RoundKind]*RoundTemplate)}

	for _, entry := range entries {
		data, err := assetFS.ReadFile("assets/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read round asset %s: %w", entry.Name(), err)
		}

		var tf templateFile
		if err := yaml.Unmarshal(data, &tf); err != nil {
			return nil, fmt.Errorf("failed to parse round asset %s: %w", entry.Name(), err)
		}

		tmpl, err := buildTemplate(tf)
		if err != nil {
			return nil, fmt.Errorf("invalid round asset %s: %w", entry.Name(), err)
		}

		if _, exists := reg.templates[tmpl.Kind]; exists {
			return nil, fmt.Errorf("duplicate template for round %q", tmpl.Kind)
		}
		reg.templates[tmpl.Kind] = tmpl
	}

	for _, kind := range models.AllRoundKinds() {
		if _, ok := reg.templates[kind]; !ok {
			return nil, fmt.Errorf("missing template for round %q", kind)
		}
	}

	return reg, nil
}

// Get retrieves the template for a round kind.
func (r *Registry) Get(kind models.RoundKind) (*RoundTemplate, error) {
	tmpl, ok := r.templates[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoundKind, kind)
	}
	return tmpl, nil
}

// Kinds returns the registered round kinds in their canonical order.
func (r *Registry) Kinds() []models.RoundKind {
	return models.AllRoundKinds()
}

func buildTemplate(tf templateFile) (*RoundTemplate, error) {
	kind := models.RoundKind(tf.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRoundKind, tf.Kind)
	}
	if strings.TrimSpace(tf.Template) == "" {
		return nil, fmt.Errorf("template text is required for round %q", tf.Kind)
	}
	if len(tf.FlowSteps) == 0 {
		return nil, fmt.Errorf("flow_steps are required for round %q", tf.Kind)
	}

	// Allowed and forbidden topic sets must be disjoint.
	forbidden := make(map[string]bool, len(tf.ForbiddenTopics))
	for _, topic := range tf.ForbiddenTopics {
		forbidden[topic] = true
	}
	for _, topic := range tf.AllowedTopics {
		if forbidden[topic] {
			return nil, fmt.Errorf("topic %q is both allowed and forbidden in round %q", topic, tf.Kind)
		}
	}

	return &RoundTemplate{
		Kind:            kind,
		FlowSteps:       tf.FlowSteps,
		AllowedTopics:   tf.AllowedTopics,
		ForbiddenTopics: tf.ForbiddenTopics,
		Tone:            tf.Tone,
		Text:            tf.Template,
	}, nil
}

// ParseRoundKind converts an external round name into a RoundKind.
func ParseRoundKind(name string) (models.RoundKind, error) {
	kind := models.RoundKind(strings.ToLower(strings.TrimSpace(name)))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoundKind, name)
	}
	return kind, nil
}
