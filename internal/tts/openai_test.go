package tts

import (
	"context"
	"testing"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/config"
)

// TestSynthesizeRejectsEmptyInput checks the empty-text guard fires before
// any network call.
func TestSynthesizeRejectsEmptyInput(t *testing.T) {
	p := NewOpenAIProvider(&config.Settings{
		OpenAIKey: "sk-test",
		TTSModel:  "gpt-4o-mini-tts",
		TTSVoice:  "alloy",
		TTSFormat: "mp3",
	})

	for _, input := range []string{"", "   ", "\n"} {
		if _, err := p.Synthesize(context.Background(), input); err == nil {
			t.Fatalf("Synthesize(%q) = nil error, want empty-input rejection", input)
		}
	}
}

// TestMIMETypeForFormat checks the format-to-MIME mapping.
func TestMIMETypeForFormat(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"mp3", "audio/mpeg"},
		{"opus", "audio/opus"},
		{"aac", "audio/aac"},
		{"flac", "audio/flac"},
		{"wav", "audio/wav"},
		{"pcm", "audio/pcm"},
		{"MP3", "audio/mpeg"},
		{"unknown", "application/octet-stream"},
	}

	for _, tt := range tests {
		if got := MIMETypeForFormat(tt.format); got != tt.want {
			t.Fatalf("MIMETypeForFormat(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}
