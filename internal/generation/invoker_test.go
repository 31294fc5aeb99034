package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/shared/auth"
)

func TestHTTPInvokerForwardsTokenAndDecodes(t *testing.T) {
	var gotAuth string
	var gotBody InvokeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(InvokeResult{Success: true, PortfolioID: gotBody.PortfolioID, Enhanced: true})
	}))
	defer server.Close()

	invoker := NewHTTPInvoker(server.URL, 5*time.Second)
	ctx := auth.ContextWithToken(context.Background(), "tok-123")
	result, err := invoker.Invoke(ctx, "user-1", InvokeRequest{
		PortfolioID: "p-1",
		Content:     portfolios.Content{FullName: "Jane Doe"},
		AIPrompt:    "short",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Enhanced)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "p-1", gotBody.PortfolioID)
	assert.Equal(t, "short", gotBody.AIPrompt)
}

func TestHTTPInvokerNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(InvokeResult{Success: false, Error: "Failed to fetch portfolio"})
	}))
	defer server.Close()

	_, err := NewHTTPInvoker(server.URL, time.Second).Invoke(context.Background(), "user-1", InvokeRequest{PortfolioID: "p-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "Failed to fetch portfolio")
}

func TestHTTPInvokerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPInvoker(url, time.Second).Invoke(context.Background(), "user-1", InvokeRequest{PortfolioID: "p-1"})
	require.Error(t, err)
}

func TestInvokerTimeoutOutlastsModelCall(t *testing.T) {
	for _, llmTimeout := range []time.Duration{0, time.Second, 120 * time.Second} {
		got := InvokerTimeout(llmTimeout)
		assert.Greater(t, got, llmTimeout)
		assert.Greater(t, got, time.Duration(0))
	}
	assert.Equal(t, 150*time.Second, InvokerTimeout(120*time.Second))
}
