package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ImageClient talks to an OpenAI-compatible image-generation endpoint.
type ImageClient struct {
	HTTPClient *http.Client
	APIKey     string
	Model      string
	BaseURL    string
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
	Style   string `json:"style"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

func NewImageClient(apiKey, model, baseURL string) *ImageClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &ImageClient{
		// image generation is slow; give the transport plenty of room
		HTTPClient: &http.Client{Timeout: 90 * time.Second},
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

// Generate requests one image for the prompt and returns its URL.
func (c *ImageClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("openai api key missing")
	}
	endpoint := c.BaseURL + "/v1/images/generations"

	reqBody, _ := json.Marshal(imageRequest{
		Model:   c.Model,
		Prompt:  prompt,
		N:       1,
		Size:    "1024x1024",
		Quality: "standard",
		Style:   "natural",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		msg := string(b)
		var parsed apiErrorBody
		if json.Unmarshal(b, &parsed) == nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", &APIError{Status: resp.StatusCode, Message: msg}
	}

	var ir imageResponse
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return "", fmt.Errorf("openai: decode image response: %w", err)
	}
	if len(ir.Data) == 0 || ir.Data[0].URL == "" {
		return "", ErrNoContent
	}
	return ir.Data[0].URL, nil
}
