package tts

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/config"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/model"
)

// OpenAIProvider implements TTS using the OpenAI speech API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	voice  string
	format string
}

// NewOpenAIProvider creates a speech provider from the configured model,
// voice preset, and output format.
func NewOpenAIProvider(cfg *config.Settings) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(cfg.OpenAIKey),
		model:  cfg.TTSModel,
		voice:  cfg.TTSVoice,
		format: cfg.TTSFormat,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Synthesize converts text into audio bytes in the configured format.
func (p *OpenAIProvider) Synthesize(ctx context.Context, text string) (*model.SynthesisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("synthesis input text is empty")
	}

	startTime := time.Now()

	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.model),
		Input:          text,
		Voice:          openai.SpeechVoice(p.voice),
		ResponseFormat: openai.SpeechResponseFormat(p.format),
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("provider returned no audio")
	}

	log.Printf("[OpenAI TTS] Synthesis successful: format=%s, bytes=%d, took=%v",
		p.format, len(audio), time.Since(startTime))

	return &model.SynthesisResult{
		Audio:    audio,
		MIMEType: MIMETypeForFormat(p.format),
	}, nil
}

// MIMETypeForFormat maps a TTS output format to its MIME type.
func MIMETypeForFormat(format string) string {
	switch strings.ToLower(format) {
	case "mp3":
		return "audio/mpeg"
	case "opus":
		return "audio/opus"
	case "aac":
		return "audio/aac"
	case "flac":
		return "audio/flac"
	case "wav":
		return "audio/wav"
	case "pcm":
		return "audio/pcm"
	default:
		return "application/octet-stream"
	}
}
