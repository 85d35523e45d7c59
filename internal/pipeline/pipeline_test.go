package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/model"
)

type sttStub struct {
	calls atomic.Int64
	fn    func(ctx context.Context) (*model.TranscriptionResult, error)
}

func (s *sttStub) Transcribe(ctx context.Context, clip model.AudioClip, languageHint string) (*model.TranscriptionResult, error) {
	s.calls.Add(1)
	return s.fn(ctx)
}

func (s *sttStub) Name() string { return "stub" }

type reasonerStub struct {
	calls atomic.Int64
	fn    func() (*model.ReasoningResult, error)
}

func (s *reasonerStub) Reason(ctx context.Context, transcript model.TranscriptionResult) (*model.ReasoningResult, error) {
	s.calls.Add(1)
	return s.fn()
}

type ttsStub struct {
	calls atomic.Int64
	fn    func() (*model.SynthesisResult, error)
}

func (s *ttsStub) Synthesize(ctx context.Context, text string) (*model.SynthesisResult, error) {
	s.calls.Add(1)
	return s.fn()
}

func (s *ttsStub) Name() string { return "stub" }

func happyStubs() (*sttStub, *reasonerStub, *ttsStub) {
	sttS := &sttStub{fn: func(context.Context) (*model.TranscriptionResult, error) {
		return &model.TranscriptionResult{Text: "hello", Language: "en", DurationSeconds: 5}, nil
	}}
	reasonS := &reasonerStub{fn: func() (*model.ReasoningResult, error) {
		return &model.ReasoningResult{ReplyText: "hi there", Intent: "greeting"}, nil
	}}
	ttsS := &ttsStub{fn: func() (*model.SynthesisResult, error) {
		return &model.SynthesisResult{Audio: []byte{0x00, 0x01}, MIMEType: "audio/mpeg"}, nil
	}}
	return sttS, reasonS, ttsS
}

func wavClip() model.AudioClip {
	return model.AudioClip{Data: []byte("riff"), MIMEType: "audio/wav", DurationSeconds: 5}
}

// TestRunHappyPath checks the composite result of a full pass.
func TestRunHappyPath(t *testing.T) {
	sttS, reasonS, ttsS := happyStubs()
	p := New(testSettings(), sttS, reasonS, ttsS)

	resp, perr := p.Run(context.Background(), model.NewPipelineRequest(wavClip(), ""))
	if perr != nil {
		t.Fatalf("Run() error = %v", perr)
	}

	if resp.Transcript != "hello" {
		t.Fatalf("transcript = %q, want hello", resp.Transcript)
	}
	if resp.ReplyText != "hi there" {
		t.Fatalf("reply_text = %q, want hi there", resp.ReplyText)
	}
	if string(resp.Audio) != "\x00\x01" {
		t.Fatalf("audio = %v, want [0 1]", resp.Audio)
	}
	if resp.AudioFormat != "mp3" {
		t.Fatalf("audio_format = %q, want mp3", resp.AudioFormat)
	}
	if resp.Degraded {
		t.Fatal("degraded = true on full success")
	}
	if sttS.calls.Load() != 1 || reasonS.calls.Load() != 1 || ttsS.calls.Load() != 1 {
		t.Fatalf("calls = %d/%d/%d, want 1/1/1", sttS.calls.Load(), reasonS.calls.Load(), ttsS.calls.Load())
	}
}

// TestRunEmptyClipRejected checks a 0-byte clip never reaches a provider.
func TestRunEmptyClipRejected(t *testing.T) {
	sttS, reasonS, ttsS := happyStubs()
	p := New(testSettings(), sttS, reasonS, ttsS)

	clip := model.AudioClip{MIMEType: "audio/wav"}
	_, perr := p.Run(context.Background(), model.NewPipelineRequest(clip, ""))
	if perr == nil {
		t.Fatal("expected validation failure")
	}
	if perr.Kind != KindValidation || perr.Message != "empty_audio" {
		t.Fatalf("error = %s/%s, want validation_error/empty_audio", perr.Kind, perr.Message)
	}
	if sttS.calls.Load()+reasonS.calls.Load()+ttsS.calls.Load() != 0 {
		t.Fatalf("provider calls = %d/%d/%d, want none", sttS.calls.Load(), reasonS.calls.Load(), ttsS.calls.Load())
	}
}

// TestRunUnsupportedMIMERejected checks no provider call for a bad MIME type.
func TestRunUnsupportedMIMERejected(t *testing.T) {
	sttS, reasonS, ttsS := happyStubs()
	p := New(testSettings(), sttS, reasonS, ttsS)

	clip := model.AudioClip{Data: []byte{1}, MIMEType: "video/mp4"}
	_, perr := p.Run(context.Background(), model.NewPipelineRequest(clip, ""))
	if perr == nil || perr.Message != "unsupported_mime_type" {
		t.Fatalf("error = %v, want unsupported_mime_type", perr)
	}
	if sttS.calls.Load()+reasonS.calls.Load()+ttsS.calls.Load() != 0 {
		t.Fatal("expected zero provider calls")
	}
}

// TestRunTranscriptionFailureShortCircuits checks downstream stages never run.
func TestRunTranscriptionFailureShortCircuits(t *testing.T) {
	sttS, reasonS, ttsS := happyStubs()
	sttS.fn = func(context.Context) (*model.TranscriptionResult, error) {
		return nil, errors.New("no speech detected in audio")
	}
	p := New(testSettings(), sttS, reasonS, ttsS)

	_, perr := p.Run(context.Background(), model.NewPipelineRequest(wavClip(), ""))
	if perr == nil {
		t.Fatal("expected failure")
	}
	if perr.Stage != StageTranscription || perr.Kind != KindTranscription {
		t.Fatalf("error = %s/%s, want transcription/transcription_error", perr.Stage, perr.Kind)
	}
	if sttS.calls.Load() != 1 {
		t.Fatalf("stt calls = %d, want 1 (content errors are not retried)", sttS.calls.Load())
	}
	if reasonS.calls.Load() != 0 || ttsS.calls.Load() != 0 {
		t.Fatalf("downstream calls = %d/%d, want 0/0", reasonS.calls.Load(), ttsS.calls.Load())
	}
}

// TestRunTransientTranscriptionRetried checks the single-retry budget.
func TestRunTransientTranscriptionRetried(t *testing.T) {
	sttS, reasonS, ttsS := happyStubs()
	attempt := 0
	sttS.fn = func(context.Context) (*model.TranscriptionResult, error) {
		attempt++
		if attempt == 1 {
			return nil, &openai.APIError{HTTPStatusCode: 500, Message: "upstream hiccup"}
		}
		return &model.TranscriptionResult{Text: "hello", Language: "en"}, nil
	}
	p := New(testSettings(), sttS, reasonS, ttsS)

	resp, perr := p.Run(context.Background(), model.NewPipelineRequest(wavClip(), ""))
	if perr != nil {
		t.Fatalf("Run() error = %v", perr)
	}
	if sttS.calls.Load() != 2 {
		t.Fatalf("stt calls = %d, want 2", sttS.calls.Load())
	}
	if resp.Transcript != "hello" {
		t.Fatalf("transcript = %q, want hello", resp.Transcript)
	}
}

// TestRunTransientExhaustedIsUnavailable checks outage mapping after retry.
func TestRunTransientExhaustedIsUnavailable(t *testing.T) {
	sttS, reasonS, ttsS := happyStubs()
	sttS.fn = func(context.Context) (*model.TranscriptionResult, error) {
		return nil, &openai.APIError{HTTPStatusCode: 503}
	}
	p := New(testSettings(), sttS, reasonS, ttsS)

	_, perr := p.Run(context.Background(), model.NewPipelineRequest(wavClip(), ""))
	if perr == nil {
		t.Fatal("expected failure")
	}
	if perr.Stage != StageTranscription || perr.Kind != KindProviderUnavailable {
		t.Fatalf("error = %s/%s, want transcription/provider_unavailable", perr.Stage, perr.Kind)
	}
	if sttS.calls.Load() != 2 {
		t.Fatalf("stt calls = %d, want 2", sttS.calls.Load())
	}
}

// TestRunEmptyReplyFailsBeforeSynthesis checks the empty-reply guard.
func TestRunEmptyReplyFailsBeforeSynthesis(t *testing.T) {
	sttS, reasonS, ttsS := happyStubs()
	reasonS.fn = func() (*model.ReasoningResult, error) {
		return &model.ReasoningResult{ReplyText: ""}, nil
	}
	p := New(testSettings(), sttS, reasonS, ttsS)

	_, perr := p.Run(context.Background(), model.NewPipelineRequest(wavClip(), ""))
	if perr == nil {
		t.Fatal("expected failure")
	}
	if perr.Stage != StageReasoning || perr.Kind != KindReasoning {
		t.Fatalf("error = %s/%s, want reasoning/reasoning_error", perr.Stage, perr.Kind)
	}
	if ttsS.calls.Load() != 0 {
		t.Fatalf("tts calls = %d, want 0", ttsS.calls.Load())
	}
}

// TestRunCancelledMidTranscription checks cancellation surfaces as
// provider_unavailable with reason "cancelled".
func TestRunCancelledMidTranscription(t *testing.T) {
	sttS, reasonS, ttsS := happyStubs()
	ctx, cancel := context.WithCancel(context.Background())
	sttS.fn = func(ctx context.Context) (*model.TranscriptionResult, error) {
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	}
	p := New(testSettings(), sttS, reasonS, ttsS)

	_, perr := p.Run(ctx, model.NewPipelineRequest(wavClip(), ""))
	if perr == nil {
		t.Fatal("expected failure")
	}
	if perr.Stage != StageTranscription || perr.Kind != KindProviderUnavailable {
		t.Fatalf("error = %s/%s, want transcription/provider_unavailable", perr.Stage, perr.Kind)
	}
	if perr.Message != "cancelled" {
		t.Fatalf("message = %q, want cancelled", perr.Message)
	}
	if sttS.calls.Load() != 1 {
		t.Fatalf("stt calls = %d, want 1 (no retry after cancellation)", sttS.calls.Load())
	}
	if reasonS.calls.Load() != 0 || ttsS.calls.Load() != 0 {
		t.Fatal("expected no downstream calls after cancellation")
	}
}

// TestRunSynthesisFailureAllOrNothing checks the default policy fails the
// whole request when synthesis fails.
func TestRunSynthesisFailureAllOrNothing(t *testing.T) {
	sttS, reasonS, ttsS := happyStubs()
	ttsS.fn = func() (*model.SynthesisResult, error) {
		return nil, errors.New("voice preset unavailable")
	}
	p := New(testSettings(), sttS, reasonS, ttsS)

	_, perr := p.Run(context.Background(), model.NewPipelineRequest(wavClip(), ""))
	if perr == nil {
		t.Fatal("expected failure")
	}
	if perr.Stage != StageSynthesis || perr.Kind != KindSynthesis {
		t.Fatalf("error = %s/%s, want synthesis/synthesis_error", perr.Stage, perr.Kind)
	}
}

// TestRunSynthesisFailureTextFallback checks the degraded text-only path.
func TestRunSynthesisFailureTextFallback(t *testing.T) {
	sttS, reasonS, ttsS := happyStubs()
	ttsS.fn = func() (*model.SynthesisResult, error) {
		return nil, errors.New("voice preset unavailable")
	}
	cfg := testSettings()
	cfg.TextFallback = true
	p := New(cfg, sttS, reasonS, ttsS)

	resp, perr := p.Run(context.Background(), model.NewPipelineRequest(wavClip(), ""))
	if perr != nil {
		t.Fatalf("Run() error = %v, want degraded success", perr)
	}
	if !resp.Degraded {
		t.Fatal("degraded = false, want true")
	}
	if len(resp.Audio) != 0 || resp.AudioFormat != "" {
		t.Fatalf("audio = %d bytes/format %q, want none", len(resp.Audio), resp.AudioFormat)
	}
	if resp.Transcript != "hello" || resp.ReplyText != "hi there" {
		t.Fatalf("text payload = %q/%q, want hello/hi there", resp.Transcript, resp.ReplyText)
	}
}

// TestRunTextSkipsTranscription checks the typed-question path.
func TestRunTextSkipsTranscription(t *testing.T) {
	sttS, reasonS, ttsS := happyStubs()
	p := New(testSettings(), sttS, reasonS, ttsS)

	resp, perr := p.RunText(context.Background(), "what is the wheat rate", "en")
	if perr != nil {
		t.Fatalf("RunText() error = %v", perr)
	}
	if sttS.calls.Load() != 0 {
		t.Fatalf("stt calls = %d, want 0", sttS.calls.Load())
	}
	if resp.Transcript != "what is the wheat rate" {
		t.Fatalf("transcript = %q, want the question text", resp.Transcript)
	}
	if resp.ReplyText != "hi there" || len(resp.Audio) == 0 {
		t.Fatalf("reply = %q audio = %d bytes, want full reply with audio", resp.ReplyText, len(resp.Audio))
	}
}

// TestRunConcurrentRequestsIndependent checks one pipeline instance serves
// concurrent callers without shared state.
func TestRunConcurrentRequestsIndependent(t *testing.T) {
	sttS, reasonS, ttsS := happyStubs()
	p := New(testSettings(), sttS, reasonS, ttsS)

	const workers = 8
	done := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			resp, perr := p.Run(context.Background(), model.NewPipelineRequest(wavClip(), ""))
			if perr != nil {
				done <- perr
				return
			}
			if resp.Transcript != "hello" {
				done <- errors.New("unexpected transcript " + resp.Transcript)
				return
			}
			done <- nil
		}()
	}
	for i := 0; i < workers; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Run() error = %v", err)
		}
	}
	if sttS.calls.Load() != int64(workers) {
		t.Fatalf("stt calls = %d, want %d", sttS.calls.Load(), workers)
	}
}
