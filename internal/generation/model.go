package generation

import (
	"strings"

	"portfolio-backend/internal/portfolios"
)

// ContentInput is the user-entered content; Skills is comma separated.
type ContentInput struct {
	FullName   string `json:"fullName"`
	Profession string `json:"profession"`
	Bio        string `json:"bio"`
	Skills     string `json:"skills"`
}

// Request asks for a new portfolio to be created and generated.
type Request struct {
	OwnerID          string       `json:"-"`
	Title            string       `json:"title"`
	TemplateID       string       `json:"templateId"`
	Content          ContentInput `json:"content"`
	GenerationPrompt string       `json:"aiPrompt"`
}

// Outcome reports how a generation request ended.
type Outcome struct {
	Success     bool              `json:"success"`
	PortfolioID string            `json:"portfolioId,omitempty"`
	Enhanced    bool              `json:"enhancedContent"`
	Status      portfolios.Status `json:"status,omitempty"`
	Reason      string            `json:"reason,omitempty"`
}

// InvokeRequest is the payload the generation function accepts.
type InvokeRequest struct {
	PortfolioID string             `json:"portfolioId"`
	Content     portfolios.Content `json:"content"`
	AIPrompt    string             `json:"aiPrompt,omitempty"`
}

// InvokeResult is the generation function reply.
type InvokeResult struct {
	Success     bool   `json:"success"`
	PortfolioID string `json:"portfolioId,omitempty"`
	Enhanced    bool   `json:"enhancedContent"`
	Error       string `json:"error,omitempty"`
}

// ParseSkills splits a comma separated list, trimming each entry and
// dropping empty ones.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
