package pipeline

import (
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/config"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/model"
)

// ValidateClip enforces the inbound audio contract before any provider call
// is made. Checks run in a fixed order and the first violation wins. Pure
// function of the clip and settings, no I/O.
func ValidateClip(clip model.AudioClip, cfg *config.Settings) *Error {
	if !cfg.AllowsMIMEType(clip.MIMEType) {
		return NewValidationError("unsupported_mime_type")
	}
	if clip.DurationSeconds > float64(cfg.MaxAudioSeconds) {
		return NewValidationError("audio_too_long")
	}
	if len(clip.Data) == 0 {
		return NewValidationError("empty_audio")
	}
	return nil
}
