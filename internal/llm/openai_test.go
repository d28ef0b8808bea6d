package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_NoKey(t *testing.T) {
	c := NewClient("", "model", "")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, err := c.Complete(ctx, "hi"); err == nil {
		t.Fatalf("expected error with missing key")
	}
	if err := c.StreamChat(ctx, "hi", nil); err == nil {
		t.Fatalf("expected error with missing key")
	}
}

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := NewClient("key", "model", srv.URL)
	c.HTTPClient = &http.Client{Timeout: 2 * time.Second}
	return c, srv.Close
}

func TestClient_NonOKCarriesStatusAndMessage(t *testing.T) {
	c, closeSrv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(502)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream melted"}}`))
	})
	defer closeSrv()

	_, err := c.Complete(context.Background(), "hi")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != 502 || apiErr.Message != "upstream melted" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}

func TestClient_Complete(t *testing.T) {
	c, closeSrv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer key" {
			t.Errorf("missing bearer auth, got %q", got)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Title: Hi"}}]}`))
	})
	defer closeSrv()

	text, err := c.Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if text != "Title: Hi" {
		t.Fatalf("unexpected content %q", text)
	}
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	c, closeSrv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	})
	defer closeSrv()

	if _, err := c.Complete(context.Background(), "hi"); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestClient_StreamChat(t *testing.T) {
	c, closeSrv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(sseFrame("Title: ") + sseFrame("Hi") + "data: [DONE]\n\n"))
	})
	defer closeSrv()

	var got strings.Builder
	err := c.StreamChat(context.Background(), "prompt", func(d string) { got.WriteString(d) })
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if got.String() != "Title: Hi" {
		t.Fatalf("unexpected accumulated text %q", got.String())
	}
}

func TestClient_StreamChat_NoContent(t *testing.T) {
	c, closeSrv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
	})
	defer closeSrv()

	err := c.StreamChat(context.Background(), "prompt", nil)
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestClient_StreamChat_BrokenBodyIsNotSuccess(t *testing.T) {
	// promise more bytes than are sent, so the client sees the body die
	// mid-transfer after two deltas already arrived
	c, closeSrv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Content-Length", "100000")
		_, _ = w.Write([]byte(sseFrame("Title: Hi") + sseFrame("General: partial ans")))
	})
	defer closeSrv()

	var got strings.Builder
	err := c.StreamChat(context.Background(), "prompt", func(d string) { got.WriteString(d) })
	if err == nil {
		t.Fatalf("truncated stream reported as success, accumulated %q", got.String())
	}
	if errors.Is(err, ErrNoContent) {
		t.Fatalf("expected a transport error, got %v", err)
	}
}

func TestClient_StreamChat_CancelDiscardsRemainder(t *testing.T) {
	c, closeSrv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(sseFrame("first") + sseFrame("second") + "data: [DONE]\n\n"))
	})
	defer closeSrv()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var calls []string
	err := c.StreamChat(ctx, "prompt", func(d string) {
		calls = append(calls, d)
		cancel()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(calls) != 1 || calls[0] != "first" {
		t.Fatalf("fragments after cancellation must be discarded, got %v", calls)
	}
}

func TestClient_StreamChat_NonOK(t *testing.T) {
	c, closeSrv := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(429)
		_, _ = w.Write([]byte("slow down"))
	})
	defer closeSrv()

	err := c.StreamChat(context.Background(), "prompt", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 429 {
		t.Fatalf("expected 429 APIError, got %v", err)
	}
}
