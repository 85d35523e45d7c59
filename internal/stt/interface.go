package stt

import (
	"context"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/model"
)

// Provider defines the interface for speech-to-text providers.
type Provider interface {
	// Transcribe converts a validated audio clip into text. languageHint
	// is an ISO 639-1 code and may be empty.
	Transcribe(ctx context.Context, clip model.AudioClip, languageHint string) (*model.TranscriptionResult, error)

	// Name returns the name of the provider (e.g., "openai")
	Name() string
}
