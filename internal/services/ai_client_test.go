package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courseloom/backend/internal/logger"
)

func newTestAIClient(srv *httptest.Server, maxRetries int) *aiClient {
	return &aiClient{
		log:        logger.NewNop(),
		baseURL:    srv.URL,
		apiKey:     "test-key",
		model:      "test-model",
		httpClient: srv.Client(),
		maxRetries: maxRetries,
	}
}

func TestGenerateJSONStopsRetryingOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	client := newTestAIClient(srv, 3)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := client.GenerateJSON(ctx, "system", "user", "macro_plan", map[string]any{"type": "object"})
	elapsed := time.Since(start)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	// cancellation must interrupt the backoff, not wait it out
	if elapsed > 500*time.Millisecond {
		t.Fatalf("cancel took %v to take effect", elapsed)
	}
}

func TestGenerateJSONStopsRetryingOnDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	client := newTestAIClient(srv, 3)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.GenerateJSON(ctx, "system", "user", "macro_plan", map[string]any{"type": "object"})
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed > 500*time.Millisecond {
		t.Fatalf("expired deadline took %v to take effect", elapsed)
	}
}

func TestGenerateJSONDoesNotRetryClientErrors(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()
	client := newTestAIClient(srv, 3)

	_, err := client.GenerateJSON(context.Background(), "system", "user", "macro_plan", map[string]any{"type": "object"})
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if hits != 1 {
		t.Fatalf("expected a single attempt for a 400, got %d", hits)
	}
}
