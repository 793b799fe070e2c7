package llm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAnthropicGatewayRequiresKey(t *testing.T) {
	if _, err := NewAnthropicGateway(Config{}); err == nil {
		t.Fatal("expected error when API key is missing")
	}
}

func TestAnthropicInvokeDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server detects the client disconnect and
		// cancels the request context; otherwise srv.Close deadlocks.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	g, err := NewAnthropicGateway(Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: 1})
	if err != nil {
		t.Fatal(err)
	}
	// Disable the transport timeout so only the per-invoke deadline can fire.
	g.httpClient.Timeout = 0

	start := time.Now()
	_, err = g.Invoke(context.Background(), "extract fields")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("Invoke returned after %v, deadline is configured at 1s", elapsed)
	}
}
