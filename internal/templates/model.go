package templates

import "time"

type Type string

const (
	TypeModern       Type = "modern"
	TypeClassic      Type = "classic"
	TypeCreative     Type = "creative"
	TypeMinimal      Type = "minimal"
	TypeProfessional Type = "professional"
)

// Template is a stored layout a portfolio can be rendered with.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Type        Type      `json:"type"`
	HTMLContent string    `json:"htmlContent"`
	CSSStyles   string    `json:"cssStyles,omitempty"`
	PreviewURL  string    `json:"previewUrl,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
