package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/llm"
	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/templates"
)

func newTestRouter(h *Handler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHandlerCreatePortfolio(t *testing.T) {
	repo := portfolios.NewMemoryRepo()
	fn := NewFunction(repo, &stubEnhancer{enhancement: &llm.Enhancement{EnhancedBio: "Better"}})
	router := newTestRouter(NewHandler(NewPipeline(repo, templates.NewSeededMemoryRepo(), LocalInvoker{Function: fn}), fn), "user-1")

	req := janeRequest()
	req.OwnerID = "ignored"
	resp := postJSON(t, router, "/api/v1/portfolios", req)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var out Outcome
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.True(t, out.Enhanced)

	got, err := repo.GetByID(context.Background(), "user-1", out.PortfolioID)
	require.NoError(t, err)
	assert.Equal(t, portfolios.StatusCompleted, got.Status)
}

func TestHandlerCreatePortfolioErrors(t *testing.T) {
	failing := invokerFunc(func(context.Context, string, InvokeRequest) (InvokeResult, error) {
		return InvokeResult{}, errors.New("unreachable")
	})
	unknownTemplate := janeRequest()
	unknownTemplate.TemplateID = "no-such-template"

	tests := []struct {
		name     string
		repo     portfolios.Repo
		body     any
		wantCode int
		wantErr  string
	}{
		{
			name:     "validation",
			repo:     portfolios.NewMemoryRepo(),
			body:     Request{Title: "x"},
			wantCode: http.StatusBadRequest,
			wantErr:  "validation_error",
		},
		{
			name:     "unknown template",
			repo:     portfolios.NewMemoryRepo(),
			body:     unknownTemplate,
			wantCode: http.StatusBadRequest,
			wantErr:  "validation_error",
		},
		{
			name:     "persistence",
			repo:     failingCreateRepo{portfolios.NewMemoryRepo()},
			body:     janeRequest(),
			wantCode: http.StatusInternalServerError,
			wantErr:  "persistence_error",
		},
		{
			name:     "invocation",
			repo:     portfolios.NewMemoryRepo(),
			body:     janeRequest(),
			wantCode: http.StatusBadGateway,
			wantErr:  "generation_failed",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{Repo: tt.repo, Templates: templates.NewSeededMemoryRepo(), Invoker: failing}
			router := newTestRouter(NewHandler(p, nil), "user-1")

			resp := postJSON(t, router, "/api/v1/portfolios", tt.body)
			require.Equal(t, tt.wantCode, resp.Code)

			var envelope struct {
				Error struct {
					Code    string         `json:"code"`
					Details map[string]any `json:"details"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
			assert.Equal(t, tt.wantErr, envelope.Error.Code)
			if tt.wantCode == http.StatusBadGateway {
				assert.NotEmpty(t, envelope.Error.Details["portfolioId"])
			}
		})
	}
}

func TestHandlerFunctionEndpoint(t *testing.T) {
	repo := portfolios.NewMemoryRepo()
	require.NoError(t, repo.Create(context.Background(), portfolios.Portfolio{
		ID:         "p-1",
		UserID:     "user-1",
		Title:      "T",
		TemplateID: "tpl",
		Status:     portfolios.StatusGenerating,
	}))
	fn := NewFunction(repo, llm.PlaceholderEnhancer{})

	owner := newTestRouter(NewHandler(nil, fn), "user-1")
	stranger := newTestRouter(NewHandler(nil, fn), "user-2")
	body := InvokeRequest{
		PortfolioID: "p-1",
		Content:     portfolios.Content{FullName: "Jane Doe", Skills: []string{"Go"}},
	}

	resp := postJSON(t, stranger, "/api/v1"+FunctionPath, body)
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	var failed InvokeResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &failed))
	assert.False(t, failed.Success)
	assert.NotEmpty(t, failed.Error)

	resp = postJSON(t, owner, "/api/v1"+FunctionPath, body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var ok InvokeResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &ok))
	assert.True(t, ok.Success)
	assert.Equal(t, "p-1", ok.PortfolioID)
	assert.False(t, ok.Enhanced)
}
