package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio-backend/internal/llm"
)

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Options{})
	if !errors.Is(err, llm.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestEnhanceSendsPromptAndParsesReply(t *testing.T) {
	var gotBody map[string]any
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		reply := "```json\n{\"enhancedBio\":\"Sharper bio\",\"professionalSummary\":\"Builds things.\"," +
			"\"skillsWithDescriptions\":[{\"skill\":\"Go\",\"description\":\"Expert\"}]," +
			"\"suggestedProjects\":[{\"title\":\"API\",\"description\":\"A service\"}]}\n```"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(reply))
	}))
	defer server.Close()

	client, err := NewClient(Options{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	got, err := client.Enhance(context.Background(), llm.EnhanceInput{
		FullName:   "Jane Doe",
		Profession: "Engineer",
		Bio:        "I build.",
		Skills:     []string{"Go", "SQL"},
	})
	if err != nil {
		t.Fatalf("enhance: %v", err)
	}
	if got.EnhancedBio != "Sharper bio" || got.ProfessionalSummary != "Builds things." {
		t.Fatalf("unexpected enhancement %+v", got)
	}
	if len(got.SkillsWithDescriptions) != 1 || got.SkillsWithDescriptions[0].Skill != "Go" {
		t.Fatalf("unexpected skills %+v", got.SkillsWithDescriptions)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if !strings.HasSuffix(gotPath, "/chat/completions") {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected model %v", gotBody["model"])
	}
	if gotBody["temperature"] != 0.7 {
		t.Fatalf("unexpected temperature %v", gotBody["temperature"])
	}
	messages, _ := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	raw, _ := json.Marshal(messages)
	if !strings.Contains(string(raw), "Skills: Go, SQL") {
		t.Fatalf("prompt missing skills: %s", raw)
	}
	for i, wantRole := range []string{"system", "user"} {
		msg, _ := messages[i].(map[string]any)
		if msg["role"] != wantRole {
			t.Fatalf("message %d: expected role %q, got %v", i, wantRole, msg["role"])
		}
	}
}

func TestEnhanceReturnsErrorOnProviderFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Options{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Enhance(context.Background(), llm.EnhanceInput{FullName: "Jane"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestEnhanceRejectsNonJSONReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion("sorry, I cannot help"))
	}))
	defer server.Close()

	client, err := NewClient(Options{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Enhance(context.Background(), llm.EnhanceInput{FullName: "Jane"})
	if !errors.Is(err, llm.ErrMalformedReply) {
		t.Fatalf("expected ErrMalformedReply, got %v", err)
	}
}
