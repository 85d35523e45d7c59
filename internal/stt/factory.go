package stt

import (
	"fmt"
	"log"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/config"
)

// NewProvider creates the STT provider for the configured model.
func NewProvider(cfg *config.Settings) (Provider, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}

	log.Printf("[STT Factory] Creating OpenAI STT provider with model %s", cfg.STTModel)
	return NewOpenAIProvider(cfg.OpenAIKey, cfg.STTModel), nil
}
