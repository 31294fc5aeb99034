package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseEnhancement decodes a model reply. Markdown code fences around the
// JSON are tolerated; a reply with none of the four fields is rejected.
func ParseEnhancement(raw string) (*Enhancement, error) {
	body := stripFences(raw)
	if body == "" {
		return nil, fmt.Errorf("%w: empty reply", ErrMalformedReply)
	}
	var e Enhancement
	if err := json.Unmarshal([]byte(body), &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReply, err)
	}
	e.EnhancedBio = strings.TrimSpace(e.EnhancedBio)
	e.ProfessionalSummary = strings.TrimSpace(e.ProfessionalSummary)
	if e.EnhancedBio == "" && e.ProfessionalSummary == "" &&
		len(e.SkillsWithDescriptions) == 0 && len(e.SuggestedProjects) == 0 {
		return nil, fmt.Errorf("%w: no enhancement fields", ErrMalformedReply)
	}
	return &e, nil
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
