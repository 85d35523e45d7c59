package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Defaults mirror the deployed service configuration. Every recognized
// environment variable is listed here; anything else in the environment is
// ignored.
const (
	DefaultPort         = "8080"
	DefaultLanguage     = "ur"
	DefaultLLMModel     = "gpt-5-mini"
	DefaultSTTModel     = "whisper-1"
	DefaultTTSModel     = "gpt-4o-mini-tts"
	DefaultTTSVoice     = "alloy"
	DefaultTTSFormat    = "mp3"
	DefaultMaxAudioSecs = 90
)

// defaultAllowedMIMETypes lists the accepted upload formats when
// ALLOWED_AUDIO_MIME_TYPES is not set.
var defaultAllowedMIMETypes = []string{
	"audio/wav",
	"audio/x-wav",
	"audio/webm",
	"audio/mpeg",
	"audio/mp3",
	"audio/ogg",
	"audio/flac",
}

// Settings is the immutable runtime configuration snapshot. It is resolved
// once at process start and shared by reference; nothing mutates it afterward.
type Settings struct {
	Port string

	OpenAIKey string

	DefaultLanguage string
	LLMModel        string
	STTModel        string
	TTSModel        string
	TTSVoice        string
	TTSFormat       string

	MaxAudioSeconds       int
	AllowedAudioMIMETypes []string

	// TextFallback returns transcript and reply text when only speech
	// synthesis fails, instead of failing the whole request.
	TextFallback bool
}

// Load parses configuration from environment variables
func Load() (*Settings, error) {
	return load(os.Getenv)
}

func load(lookup func(string) string) (*Settings, error) {
	cfg := &Settings{
		Port:            getEnv(lookup, "PORT", DefaultPort),
		OpenAIKey:       getEnv(lookup, "OPENAI_API_KEY", ""),
		DefaultLanguage: getEnv(lookup, "DEFAULT_LANGUAGE", DefaultLanguage),
		LLMModel:        getEnv(lookup, "LLM_MODEL", DefaultLLMModel),
		STTModel:        getEnv(lookup, "STT_MODEL", DefaultSTTModel),
		TTSModel:        getEnv(lookup, "TTS_MODEL", DefaultTTSModel),
		TTSVoice:        getEnv(lookup, "TTS_VOICE", DefaultTTSVoice),
		TTSFormat:       getEnv(lookup, "TTS_FORMAT", DefaultTTSFormat),
	}

	// The provider secret is the one hard requirement. Refusing to start
	// beats failing on the first paid call.
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required. Please set it as environment variable or in a .env file")
	}

	maxSecs := getEnv(lookup, "MAX_AUDIO_SECONDS", "")
	if maxSecs == "" {
		cfg.MaxAudioSeconds = DefaultMaxAudioSecs
	} else {
		n, err := strconv.Atoi(maxSecs)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_AUDIO_SECONDS must be a positive integer, got %q", maxSecs)
		}
		cfg.MaxAudioSeconds = n
	}

	cfg.AllowedAudioMIMETypes = parseMIMETypes(getEnv(lookup, "ALLOWED_AUDIO_MIME_TYPES", ""))

	fallback := getEnv(lookup, "TEXT_FALLBACK", "false")
	b, err := strconv.ParseBool(fallback)
	if err != nil {
		return nil, fmt.Errorf("TEXT_FALLBACK must be a boolean, got %q", fallback)
	}
	cfg.TextFallback = b

	return cfg, nil
}

// parseMIMETypes parses a comma-separated MIME type list. Entries may omit
// the "audio/" prefix ("wav" and "audio/wav" are equivalent).
func parseMIMETypes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		out := make([]string, len(defaultAllowedMIMETypes))
		copy(out, defaultAllowedMIMETypes)
		return out
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !strings.Contains(part, "/") {
			part = "audio/" + part
		}
		out = append(out, part)
	}
	return out
}

// AllowsMIMEType reports whether the given content type is accepted for
// upload. Parameters such as ";codecs=opus" are ignored.
func (s *Settings) AllowsMIMEType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	for _, allowed := range s.AllowedAudioMIMETypes {
		if mimeType == allowed {
			return true
		}
	}
	return false
}

// getEnv resolves an environment variable through the lookup function.
// Names are matched case-insensitively; deployments historically used
// lowercase names in .env files.
func getEnv(lookup func(string) string, key, fallback string) string {
	if v := lookup(key); v != "" {
		return v
	}
	if v := lookup(strings.ToLower(key)); v != "" {
		return v
	}
	return fallback
}

// Resolver memoizes a Settings snapshot so construction happens exactly once
// even when the first access races across goroutines.
type Resolver struct {
	lookup func(string) string

	once     sync.Once
	settings *Settings
	err      error
}

// NewResolver returns a resolver backed by the process environment.
func NewResolver() *Resolver {
	return &Resolver{lookup: os.Getenv}
}

// Resolve returns the cached settings, loading them on first call. The
// result (including a load failure) is fixed for the resolver's lifetime.
func (r *Resolver) Resolve() (*Settings, error) {
	r.once.Do(func() {
		r.settings, r.err = load(r.lookup)
	})
	return r.settings, r.err
}

var defaultResolver = NewResolver()

// Get returns the process-wide settings snapshot, resolving it on first use.
func Get() (*Settings, error) {
	return defaultResolver.Resolve()
}
