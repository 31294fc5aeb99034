package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMeReturnsStoredProfile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := NewMemoryRepo()
	if err := repo.Create(context.Background(), User{ID: "user-1", Email: "jane@example.com", FullName: "Jane Doe"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "user-1")
		c.Next()
	})
	NewHandler(NewService(repo)).RegisterRoutes(router.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload["fullName"] != "Jane Doe" || payload["emailVerified"] != false {
		t.Fatalf("unexpected payload %v", payload)
	}
}

func TestMeUnknownUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", "ghost")
		c.Next()
	})
	NewHandler(NewService(NewMemoryRepo())).RegisterRoutes(router.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestUpsertFromAuthNormalizesEmail(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	err := svc.UpsertFromAuth(context.Background(), User{ID: "google:9", Email: "  Jane@Example.COM ", FullName: " Jane "})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	profile, err := svc.Profile(context.Background(), "google:9")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Email != "jane@example.com" || profile.FullName != "Jane" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}
