package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrNoContent reports a 2xx response whose stream or message carried no text.
var ErrNoContent = errors.New("openai: no content in response")

// APIError is a non-2xx answer from the upstream API, carrying the upstream
// status and message so callers can surface a useful diagnostic.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai error: status=%d message=%s", e.Status, e.Message)
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	HTTPClient *http.Client
	APIKey     string
	Model      string
	BaseURL    string

	// generation knobs applied to every request
	MaxTokens   int
	Temperature float64
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionsRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	FinishReason string      `json:"finish_reason"`
	Message      chatMessage `json:"message"`
}

type chatCompletionsResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(apiKey, model, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &Client{
		// no client-side timeout on the shared client: streaming calls can
		// legitimately stay open well past a fixed deadline; callers bound
		// them with ctx
		HTTPClient:  &http.Client{},
		APIKey:      apiKey,
		Model:       model,
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		MaxTokens:   600,
		Temperature: 0.7,
	}
}

func (c *Client) post(ctx context.Context, prompt string, stream bool) (*http.Response, error) {
	if c.APIKey == "" {
		return nil, fmt.Errorf("openai api key missing")
	}
	endpoint := c.BaseURL + "/v1/chat/completions"

	reqBody, _ := json.Marshal(chatCompletionsRequest{
		Model:       c.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Stream:      stream,
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		msg := string(b)
		var parsed apiErrorBody
		if json.Unmarshal(b, &parsed) == nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return resp, nil
}

// Complete performs a single non-streaming generation and returns the full
// assistant text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.post(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var cr chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if len(cr.Choices) == 0 || cr.Choices[0].Message.Content == "" {
		return "", ErrNoContent
	}
	return cr.Choices[0].Message.Content, nil
}

// StreamChat performs a streaming generation, invoking onDelta for every
// content fragment in arrival order. It returns ErrNoContent when the stream
// closed without ever producing text, and a wrapped transport error when the
// body broke mid-stream, even if some fragments already arrived.
func (c *Client) StreamChat(ctx context.Context, prompt string, onDelta func(string)) error {
	resp, err := c.post(ctx, prompt, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	dec := NewStreamDecoder(resp.Body)
	sawContent := false
	for {
		delta, ok := dec.Next()
		if !ok {
			break
		}
		sawContent = true
		if onDelta != nil {
			onDelta(delta)
		}
		if ctx.Err() != nil {
			// teardown: stop consuming and abandon the rest of the transfer
			return ctx.Err()
		}
	}
	if err := dec.Err(); err != nil {
		return fmt.Errorf("openai: stream interrupted: %w", err)
	}
	if !sawContent {
		return ErrNoContent
	}
	return nil
}
