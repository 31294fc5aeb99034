package portfolios

import "time"

type Status string

const (
	StatusDraft      Status = "draft"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// DefaultRevision is the revision number assigned to new records.
const DefaultRevision = 1

// Content is the structured text a user submits for a portfolio.
type Content struct {
	FullName   string   `json:"fullName"`
	Profession string   `json:"profession"`
	Bio        string   `json:"bio"`
	Skills     []string `json:"skills"`
}

type SkillDescription struct {
	Skill       string `json:"skill"`
	Description string `json:"description"`
}

type ProjectSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// GeneratedContent is the original content plus any AI enhancement and the
// time generation finished.
type GeneratedContent struct {
	Content
	EnhancedBio            string              `json:"enhancedBio,omitempty"`
	SkillsWithDescriptions []SkillDescription  `json:"skillsWithDescriptions,omitempty"`
	SuggestedProjects      []ProjectSuggestion `json:"suggestedProjects,omitempty"`
	ProfessionalSummary    string              `json:"professionalSummary,omitempty"`
	GeneratedAt            time.Time           `json:"generatedAt"`
}

// Enhanced reports whether any enhancement field is present.
func (g GeneratedContent) Enhanced() bool {
	return g.EnhancedBio != "" ||
		len(g.SkillsWithDescriptions) > 0 ||
		len(g.SuggestedProjects) > 0 ||
		g.ProfessionalSummary != ""
}

type Portfolio struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	Title            string            `json:"title"`
	TemplateID       string            `json:"templateId"`
	Content          Content           `json:"content"`
	AIPrompt         string            `json:"aiPrompt,omitempty"`
	GeneratedContent *GeneratedContent `json:"generatedContent,omitempty"`
	Status           Status            `json:"status"`
	RevisionNumber   int               `json:"revisionNumber"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}
