package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"portfolio-backend/internal/llm"
	"portfolio-backend/internal/shared/telemetry"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.7
	defaultMaxTokens   = 1500
	defaultTimeout     = 120 * time.Second
)

// Options configures the OpenAI enhancer.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements llm.Enhancer using OpenAI Chat Completions.
type Client struct {
	model       string
	temperature float64
	maxTokens   int
	llm         llms.Model
}

// NewClient constructs a new OpenAI client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required: %w", llm.ErrNotConfigured)
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	lcOpts := []lcopenai.Option{
		lcopenai.WithToken(opts.APIKey),
		lcopenai.WithModel(model),
		lcopenai.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		lcOpts = append(lcOpts, lcopenai.WithBaseURL(strings.TrimRight(base, "/")))
	}
	chat, err := lcopenai.New(lcOpts...)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}
	return &Client{
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		llm:         chat,
	}, nil
}

// Enhance sends the portfolio content to the model and parses its JSON reply.
func (c *Client) Enhance(ctx context.Context, input llm.EnhanceInput) (*llm.Enhancement, error) {
	system, err := llm.BuildSystemPrompt(input)
	if err != nil {
		return nil, err
	}
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, llm.UserMessage),
	}

	start := time.Now()
	resp, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("openai request timed out: %w", err)
		}
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return nil, fmt.Errorf("%w: no choices", llm.ErrMalformedReply)
	}
	choice := resp.Choices[0]
	logUsage(c.model, time.Since(start), choice.GenerationInfo)

	return llm.ParseEnhancement(choice.Content)
}

func logUsage(model string, elapsed time.Duration, info map[string]any) {
	fields := map[string]any{
		"model":       model,
		"duration_ms": elapsed.Milliseconds(),
	}
	for _, key := range []string{"PromptTokens", "CompletionTokens", "TotalTokens"} {
		if v, ok := info[key]; ok {
			fields[key] = v
		}
	}
	telemetry.Info("llm.response", fields)
}

var _ llm.Enhancer = (*Client)(nil)
