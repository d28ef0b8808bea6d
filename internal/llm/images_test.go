package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testImageClient(t *testing.T, handler http.HandlerFunc) (*ImageClient, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := NewImageClient("key", "dall-e-3", srv.URL)
	c.HTTPClient = &http.Client{Timeout: 2 * time.Second}
	return c, srv.Close
}

func TestImageClient_Generate(t *testing.T) {
	c, closeSrv := testImageClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req imageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.N != 1 || req.Model != "dall-e-3" || req.Prompt == "" {
			t.Errorf("unexpected request: %+v", req)
		}
		_, _ = w.Write([]byte(`{"data":[{"url":"https://img.example/one.png"}]}`))
	})
	defer closeSrv()

	url, err := c.Generate(context.Background(), "a warm illustration")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if url != "https://img.example/one.png" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestImageClient_Generate_Failure(t *testing.T) {
	c, closeSrv := testImageClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		_, _ = w.Write([]byte("oops"))
	})
	defer closeSrv()

	_, err := c.Generate(context.Background(), "prompt")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 500 {
		t.Fatalf("expected 500 APIError, got %v", err)
	}
}

func TestImageClient_Generate_EmptyData(t *testing.T) {
	c, closeSrv := testImageClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	defer closeSrv()

	if _, err := c.Generate(context.Background(), "prompt"); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}
