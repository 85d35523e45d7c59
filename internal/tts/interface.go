package tts

import (
	"context"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/model"
)

// Provider defines the interface for text-to-speech providers.
type Provider interface {
	// Synthesize converts reply text into audio in the configured
	// container/codec. Empty input is an error.
	Synthesize(ctx context.Context, text string) (*model.SynthesisResult, error)

	// Name returns the name of the provider (e.g., "openai")
	Name() string
}
