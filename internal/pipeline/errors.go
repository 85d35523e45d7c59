package pipeline

import "fmt"

// Stage names, as reported to the caller on failure.
const (
	StageValidation    = "validation"
	StageTranscription = "transcription"
	StageReasoning     = "reasoning"
	StageSynthesis     = "synthesis"
)

// Error kinds. The boundary layer maps these to HTTP status codes.
const (
	KindValidation          = "validation_error"
	KindTranscription       = "transcription_error"
	KindReasoning           = "reasoning_error"
	KindSynthesis           = "synthesis_error"
	KindProviderUnavailable = "provider_unavailable"
)

// Error is a typed stage failure. Message is safe to return to the caller;
// the wrapped cause carries the internal diagnostic and is only logged.
type Error struct {
	Stage   string `json:"stage"`
	Kind    string `json:"kind"`
	Message string `json:"message"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Stage, e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Stage, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// NewValidationError creates a client-caused, terminal validation failure.
// reason is one of the stable codes: unsupported_mime_type, audio_too_long,
// empty_audio.
func NewValidationError(reason string) *Error {
	return &Error{Stage: StageValidation, Kind: KindValidation, Message: reason}
}

// NewStageError wraps a provider failure for the given stage.
func NewStageError(stage, kind, message string, cause error) *Error {
	return &Error{Stage: stage, Kind: kind, Message: message, cause: cause}
}

// NewUnavailable marks a stage failure caused by cancellation, timeout, or
// provider outage. Safe to retry with a new request.
func NewUnavailable(stage, reason string, cause error) *Error {
	return &Error{Stage: stage, Kind: KindProviderUnavailable, Message: reason, cause: cause}
}
