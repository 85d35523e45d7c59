package stt

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/model"
)

// OpenAIProvider implements STT using the OpenAI Whisper transcription API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a Whisper-backed STT provider.
func NewOpenAIProvider(apiKey, sttModel string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  sttModel,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Transcribe uploads the clip and returns the transcript with the detected
// language and measured duration.
func (p *OpenAIProvider) Transcribe(ctx context.Context, clip model.AudioClip, languageHint string) (*model.TranscriptionResult, error) {
	startTime := time.Now()

	req := openai.AudioRequest{
		Model: p.model,
		// The API infers the container from the filename extension.
		FilePath: "clip" + extensionForMIME(clip.MIMEType),
		Reader:   bytes.NewReader(clip.Data),
		Language: languageHint,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}

	resp, err := p.client.CreateTranscription(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai transcription: %w", err)
	}

	transcript := strings.TrimSpace(resp.Text)
	if transcript == "" {
		// Terminal content error, not a transport failure.
		return nil, fmt.Errorf("no speech detected in audio")
	}

	language := resp.Language
	if language == "" {
		language = languageHint
	}

	log.Printf("[OpenAI STT] Transcription successful: language=%s, chars=%d, audio=%.1fs, took=%v",
		language, len(transcript), resp.Duration, time.Since(startTime))

	return &model.TranscriptionResult{
		Text:            transcript,
		Language:        language,
		DurationSeconds: resp.Duration,
	}, nil
}

// extensionForMIME maps an accepted upload MIME type to a filename extension
// understood by the transcription API.
func extensionForMIME(mimeType string) string {
	mimeType = strings.ToLower(mimeType)
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	switch mimeType {
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/webm":
		return ".webm"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	case "audio/flac":
		return ".flac"
	default:
		return ".mp3"
	}
}
