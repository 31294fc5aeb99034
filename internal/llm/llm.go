package llm

import (
	"context"
	"errors"

	"portfolio-backend/internal/portfolios"
)

// Enhancer asks a language model to enrich portfolio text.
type Enhancer interface {
	Enhance(ctx context.Context, input EnhanceInput) (*Enhancement, error)
}

// EnhanceInput is the user content the prompt is built from.
type EnhanceInput struct {
	FullName     string
	Profession   string
	Bio          string
	Skills       []string
	Instructions string
}

// Enhancement is the structured reply of the model. A nil *Enhancement means
// no enhancement is available.
type Enhancement struct {
	EnhancedBio            string                         `json:"enhancedBio"`
	SkillsWithDescriptions []portfolios.SkillDescription  `json:"skillsWithDescriptions"`
	SuggestedProjects      []portfolios.ProjectSuggestion `json:"suggestedProjects"`
	ProfessionalSummary    string                         `json:"professionalSummary"`
}

// ApplyTo merges the enhancement fields over g.
func (e *Enhancement) ApplyTo(g *portfolios.GeneratedContent) {
	if e == nil || g == nil {
		return
	}
	g.EnhancedBio = e.EnhancedBio
	g.SkillsWithDescriptions = e.SkillsWithDescriptions
	g.SuggestedProjects = e.SuggestedProjects
	g.ProfessionalSummary = e.ProfessionalSummary
}

var (
	// ErrNotConfigured is returned when no provider credentials are set.
	ErrNotConfigured = errors.New("llm provider not configured")
	// ErrMalformedReply is returned when the model reply is not the expected JSON object.
	ErrMalformedReply = errors.New("malformed enhancement reply")
)

// PlaceholderEnhancer is used when no provider is configured.
type PlaceholderEnhancer struct{}

// Enhance returns ErrNotConfigured.
func (PlaceholderEnhancer) Enhance(context.Context, EnhanceInput) (*Enhancement, error) {
	return nil, ErrNotConfigured
}

var _ Enhancer = PlaceholderEnhancer{}
