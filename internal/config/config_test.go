package config

import "testing"

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", "")
	t.Setenv("OPENAI_MODEL_ID", "")
	t.Setenv("OPENAI_IMAGE_MODEL_ID", "")
	t.Setenv("OPENAI_BASE_URL", "")
	cfg := Load()
	if cfg.HTTPAddress == "" {
		t.Fatalf("expected default http address")
	}
	if cfg.OpenAIModelID == "" {
		t.Fatalf("expected default openai model id")
	}
	if cfg.OpenAIImageModelID == "" {
		t.Fatalf("expected default image model id")
	}
	if cfg.OpenAIBaseURL == "" {
		t.Fatalf("expected default openai base url")
	}
}

func TestLoad_RespectsOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":9999")
	t.Setenv("OPENAI_MODEL_ID", "gpt-4o")
	cfg := Load()
	if cfg.HTTPAddress != ":9999" {
		t.Fatalf("expected override address, got %s", cfg.HTTPAddress)
	}
	if cfg.OpenAIModelID != "gpt-4o" {
		t.Fatalf("expected override model, got %s", cfg.OpenAIModelID)
	}
}
