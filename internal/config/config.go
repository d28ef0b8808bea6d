package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	HTTPAddress        string
	OpenAIKey          string
	OpenAIModelID      string
	OpenAIImageModelID string
	OpenAIBaseURL      string
	DeepgramKey        string
}

// Load reads environment variables and returns Config with sane defaults.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	addr := os.Getenv("HTTP_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set - reflections and images will not work")
	} else {
		keyPreview := openAIKey
		if len(keyPreview) > 8 {
			keyPreview = keyPreview[:8]
		}
		log.Printf("Using OpenAI API key: %s...", keyPreview)
	}

	modelID := os.Getenv("OPENAI_MODEL_ID")
	if modelID == "" {
		modelID = "gpt-4o-mini"
	}

	imageModelID := os.Getenv("OPENAI_IMAGE_MODEL_ID")
	if imageModelID == "" {
		imageModelID = "dall-e-3"
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}

	deepgramKey := os.Getenv("DEEPGRAM_API_KEY")
	if deepgramKey == "" {
		log.Println("Warning: DEEPGRAM_API_KEY not set - live transcription will not work")
	}

	log.Printf("config: HTTP_ADDRESS=%s model=%s image_model=%s", addr, modelID, imageModelID)
	return Config{
		HTTPAddress:        addr,
		OpenAIKey:          openAIKey,
		OpenAIModelID:      modelID,
		OpenAIImageModelID: imageModelID,
		OpenAIBaseURL:      baseURL,
		DeepgramKey:        deepgramKey,
	}
}
