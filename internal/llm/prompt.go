package llm

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

// UserMessage is the fixed user turn sent with every enhancement request.
const UserMessage = "Please enhance my portfolio content based on the information provided."

//go:embed prompts/enhance_v1.tmpl
var enhancePromptV1 string

var enhanceTemplate = template.Must(template.New("enhance_v1").Parse(enhancePromptV1))

type promptData struct {
	FullName     string
	Profession   string
	Bio          string
	Skills       string
	Instructions string
}

// BuildSystemPrompt renders the system instruction for input.
func BuildSystemPrompt(input EnhanceInput) (string, error) {
	var buf bytes.Buffer
	err := enhanceTemplate.Execute(&buf, promptData{
		FullName:     input.FullName,
		Profession:   input.Profession,
		Bio:          input.Bio,
		Skills:       strings.Join(input.Skills, ", "),
		Instructions: strings.TrimSpace(input.Instructions),
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
