package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"portfolio-backend/internal/shared/auth"
)

// LocalInvoker runs the generation function in-process.
type LocalInvoker struct {
	Function *Function
}

func (l LocalInvoker) Invoke(ctx context.Context, ownerID string, req InvokeRequest) (InvokeResult, error) {
	return l.Function.Run(ctx, ownerID, req)
}

const maxFunctionReply = 1 << 20

// HTTPInvoker posts to a remote generation function endpoint, forwarding the
// caller's bearer token so the function resolves the same owner.
type HTTPInvoker struct {
	URL    string
	Client *http.Client
}

// invokerTimeoutMargin covers the function's own persistence work on top of
// its model call.
const invokerTimeoutMargin = 30 * time.Second

// InvokerTimeout returns the HTTP invoker timeout for a given model timeout.
// It is always strictly longer so the function settles the record first.
func InvokerTimeout(llmTimeout time.Duration) time.Duration {
	if llmTimeout <= 0 {
		llmTimeout = 120 * time.Second
	}
	return llmTimeout + invokerTimeoutMargin
}

func NewHTTPInvoker(url string, timeout time.Duration) *HTTPInvoker {
	return &HTTPInvoker{URL: url, Client: &http.Client{Timeout: timeout}}
}

func (h *HTTPInvoker) Invoke(ctx context.Context, _ string, req InvokeRequest) (InvokeResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return InvokeResult{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.URL, bytes.NewReader(payload))
	if err != nil {
		return InvokeResult{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token := auth.TokenFromContext(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return InvokeResult{}, fmt.Errorf("call function: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFunctionReply))
	if err != nil {
		return InvokeResult{}, fmt.Errorf("read function reply: %w", err)
	}
	var result InvokeResult
	decodeErr := json.Unmarshal(body, &result)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(result.Error)
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return InvokeResult{}, fmt.Errorf("function status %d: %s", resp.StatusCode, msg)
	}
	if decodeErr != nil {
		return InvokeResult{}, fmt.Errorf("decode function reply: %w", decodeErr)
	}
	return result, nil
}

var (
	_ Invoker = LocalInvoker{}
	_ Invoker = (*HTTPInvoker)(nil)
)
