package model

import "github.com/google/uuid"

// AudioClip is the raw uploaded audio. It is never mutated after creation;
// validation happens before the clip enters the pipeline.
type AudioClip struct {
	Data     []byte
	MIMEType string
	// DurationSeconds is the client-declared duration. Zero means the
	// client did not declare one.
	DurationSeconds float64
}

// TranscriptionResult is the output of the speech-to-text stage.
type TranscriptionResult struct {
	Text     string
	Language string
	// Confidence is 0 when the provider does not report one.
	Confidence float64
	// DurationSeconds is the provider-measured audio length.
	DurationSeconds float64
}

// ReasoningResult is the output of the language-model stage.
type ReasoningResult struct {
	ReplyText string
	Intent    string
	Payload   map[string]any
}

// SynthesisResult is the terminal audio artifact of the pipeline.
type SynthesisResult struct {
	Audio    []byte
	MIMEType string
}

// PipelineRequest is the per-call envelope. It is created at ingress, flows
// through every stage, and is discarded once the response is written.
type PipelineRequest struct {
	ID           string
	Clip         AudioClip
	LanguageHint string
}

// NewPipelineRequest assigns a fresh request ID to an inbound clip.
func NewPipelineRequest(clip AudioClip, languageHint string) PipelineRequest {
	return PipelineRequest{
		ID:           uuid.NewString(),
		Clip:         clip,
		LanguageHint: languageHint,
	}
}

// Response is the composite success payload returned to the caller.
// Audio is base64-encoded on the wire by encoding/json.
type Response struct {
	RequestID   string         `json:"request_id"`
	Transcript  string         `json:"transcript"`
	Language    string         `json:"language,omitempty"`
	ReplyText   string         `json:"reply_text"`
	Intent      string         `json:"intent,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
	Audio       []byte         `json:"audio_bytes,omitempty"`
	AudioFormat string         `json:"audio_format,omitempty"`
	// Degraded marks a text-only response returned because synthesis
	// failed and TEXT_FALLBACK is enabled.
	Degraded bool `json:"degraded,omitempty"`
}
