package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/shared/server/middleware"
)

func doJSON(t *testing.T, router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestHandlerAccountLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, mailer := newPasswordService(t)

	router := gin.New()
	router.Use(middleware.Auth(svc.Revocations))
	api := router.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	api.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	resp := doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", SignUpInput{
		Email: "jane@example.com", Password: "secret123", FullName: "Jane Doe",
	}, "")
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/auth/signin", signInRequest{Email: "jane@example.com", Password: "secret123"}, "")
	require.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "email_not_verified")

	resp = doJSON(t, router, http.MethodGet, "/api/v1/auth/verify?token="+mailer.lastToken(t), nil, "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, router, http.MethodPost, "/api/v1/auth/signin", signInRequest{Email: "jane@example.com", Password: "secret123"}, "")
	require.Equal(t, http.StatusOK, resp.Code)
	var session Session
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/ping", nil, session.Token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = doJSON(t, router, http.MethodDelete, "/api/v1/session", nil, session.Token)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = doJSON(t, router, http.MethodGet, "/api/v1/ping", nil, session.Token)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestHandlerSignUpConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newPasswordService(t)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))

	in := SignUpInput{Email: "jane@example.com", Password: "secret123"}
	require.Equal(t, http.StatusCreated, doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", in, "").Code)
	assert.Equal(t, http.StatusConflict, doJSON(t, router, http.MethodPost, "/api/v1/auth/signup", in, "").Code)
}
