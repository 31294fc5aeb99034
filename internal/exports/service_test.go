package exports

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/shared/storage/object/local"
	"portfolio-backend/internal/templates"
)

const modernTemplateID = "00000000-0000-0000-0000-000000000001"

var exportNow = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func seedPortfolio(t *testing.T, repo *portfolios.MemoryRepo, id string, complete bool) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, portfolios.Portfolio{
		ID:         id,
		UserID:     "user-1",
		Title:      "Jane's <Portfolio>",
		TemplateID: modernTemplateID,
		Content:    portfolios.Content{FullName: "Jane Doe", Profession: "Engineer", Bio: "Original bio", Skills: []string{"Go"}},
		Status:     portfolios.StatusGenerating,
	}))
	if !complete {
		return
	}
	require.NoError(t, repo.Finalize(ctx, "user-1", id, portfolios.StatusCompleted, &portfolios.GeneratedContent{
		Content:             portfolios.Content{FullName: "Jane Doe", Profession: "Engineer", Bio: "Original bio", Skills: []string{"Go"}},
		EnhancedBio:         "Enhanced bio",
		ProfessionalSummary: "Ships <reliable> systems",
		SuggestedProjects:   []portfolios.ProjectSuggestion{{Title: "Billing", Description: "Payments API"}},
		GeneratedAt:         exportNow,
	}, exportNow))
}

func newTestService(t *testing.T) (*Service, *portfolios.MemoryRepo) {
	t.Helper()
	prepo := portfolios.NewMemoryRepo()
	return &Service{
		Repo:       NewMemoryRepo(),
		Portfolios: prepo,
		Templates:  templates.NewSeededMemoryRepo(),
		Store:      local.New(t.TempDir()),
		Now:        func() time.Time { return exportNow },
		NewID:      func() string { return "e-1" },
	}, prepo
}

func TestCreateHTMLExport(t *testing.T) {
	svc, prepo := newTestService(t)
	seedPortfolio(t, prepo, "p-1", true)

	e, err := svc.Create(context.Background(), "user-1", "p-1", "HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, e.Format)
	assert.Equal(t, exportNow, e.GeneratedAt)
	assert.Positive(t, e.FileSize)
	assert.True(t, strings.HasSuffix(e.FileURL, "/exports/e-1.html"))

	_, rc, err := svc.Open(context.Background(), "user-1", "e-1")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	html := string(body)
	assert.Contains(t, html, "Enhanced bio")
	assert.NotContains(t, html, "Original bio")
	assert.Contains(t, html, "Ships &lt;reliable&gt; systems")
	assert.Contains(t, html, "Billing")
	assert.Contains(t, html, "font-family:Inter")

	items, err := svc.List(context.Background(), "user-1", "p-1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCreateExportErrors(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		id      string
		format  Format
		wantErr error
	}{
		{name: "unsupported pdf", owner: "user-1", id: "p-done", format: FormatPDF, wantErr: ErrUnsupportedFormat},
		{name: "unknown format", owner: "user-1", id: "p-done", format: "gif", wantErr: ErrInvalidInput},
		{name: "not completed", owner: "user-1", id: "p-pending", format: FormatHTML, wantErr: ErrNotReady},
		{name: "other owner", owner: "user-2", id: "p-done", format: FormatHTML, wantErr: portfolios.ErrForbidden},
		{name: "missing", owner: "user-1", id: "p-none", format: FormatHTML, wantErr: portfolios.ErrNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc, prepo := newTestService(t)
			seedPortfolio(t, prepo, "p-done", true)
			seedPortfolio(t, prepo, "p-pending", false)

			_, err := svc.Create(context.Background(), tt.owner, tt.id, tt.format)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestHandlerExportLifecycle(t *testing.T) {
	svc, prepo := newTestService(t)
	seedPortfolio(t, prepo, "p-1", true)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/portfolios/p-1/exports", strings.NewReader(`{"format":"pptx"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "unsupported_format")

	req = httptest.NewRequest(http.MethodPost, "/api/v1/portfolios/p-1/exports", strings.NewReader(`{"format":"html"}`))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var created Export
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/exports/"+created.ID+"/file", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, resp.Body.String(), "Jane Doe")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/exports/missing/file", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
