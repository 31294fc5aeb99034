package exports

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/templates"
)

type renderData struct {
	Title               string
	CSS                 template.CSS
	FullName            string
	Profession          string
	Bio                 string
	ProfessionalSummary string
	Skills              []string
	SkillDescriptions   []portfolios.SkillDescription
	Projects            []portfolios.ProjectSuggestion
	GeneratedAt         string
}

// RenderHTML executes the template layout over the portfolio's generated
// content. The enhanced bio replaces the original when present.
func RenderHTML(tpl templates.Template, p portfolios.Portfolio) ([]byte, error) {
	if p.GeneratedContent == nil {
		return nil, ErrNotReady
	}
	layout, err := template.New(tpl.ID).Parse(tpl.HTMLContent)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", tpl.ID, err)
	}
	g := p.GeneratedContent
	bio := g.Bio
	if g.EnhancedBio != "" {
		bio = g.EnhancedBio
	}
	data := renderData{
		Title:               p.Title,
		CSS:                 template.CSS(tpl.CSSStyles),
		FullName:            g.FullName,
		Profession:          g.Profession,
		Bio:                 bio,
		ProfessionalSummary: g.ProfessionalSummary,
		Skills:              g.Skills,
		SkillDescriptions:   g.SkillsWithDescriptions,
		Projects:            g.SuggestedProjects,
		GeneratedAt:         g.GeneratedAt.UTC().Format(time.RFC1123),
	}
	var buf bytes.Buffer
	if err := layout.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render template %s: %w", tpl.ID, err)
	}
	return buf.Bytes(), nil
}
