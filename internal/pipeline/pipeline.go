package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/ai"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/config"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/model"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/stt"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/tts"
)

// Pipeline wires the voice stages into an ordered, fail-fast chain:
// validate -> transcribe -> reason -> synthesize. It holds no per-request
// state, so one instance serves concurrent callers without locking.
type Pipeline struct {
	cfg      *config.Settings
	stt      stt.Provider
	reasoner ai.Reasoner
	tts      tts.Provider
}

// New assembles a pipeline from its stage providers.
func New(cfg *config.Settings, sttProvider stt.Provider, reasoner ai.Reasoner, ttsProvider tts.Provider) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		stt:      sttProvider,
		reasoner: reasoner,
		tts:      ttsProvider,
	}
}

// Run executes the full pipeline for one request. It advances through the
// stages strictly in order and short-circuits on the first failure; no
// partial result leaves the pipeline unless TEXT_FALLBACK permits a
// degraded text-only response when synthesis alone fails.
func (p *Pipeline) Run(ctx context.Context, req model.PipelineRequest) (*model.Response, *Error) {
	start := time.Now()

	// Validating
	log.Printf("[Pipeline %s] validating: mime=%s, bytes=%d, declared=%.1fs",
		req.ID, req.Clip.MIMEType, len(req.Clip.Data), req.Clip.DurationSeconds)
	if verr := ValidateClip(req.Clip, p.cfg); verr != nil {
		log.Printf("[Pipeline %s] validation failed: %s", req.ID, verr.Message)
		return nil, verr
	}

	// Transcribing
	stageStart := time.Now()
	var transcript *model.TranscriptionResult
	err := withRetry(ctx, func() error {
		var terr error
		transcript, terr = p.stt.Transcribe(ctx, req.Clip, req.LanguageHint)
		return terr
	})
	if err != nil {
		return nil, p.stageFailure(ctx, req.ID, StageTranscription, KindTranscription,
			"speech transcription failed", err, stageStart)
	}
	log.Printf("[Pipeline %s] transcription completed in %v (language=%s, chars=%d)",
		req.ID, time.Since(stageStart), transcript.Language, len(transcript.Text))

	// Reasoning
	stageStart = time.Now()
	reply, rerr := p.reason(ctx, req.ID, *transcript, stageStart)
	if rerr != nil {
		return nil, rerr
	}

	resp := &model.Response{
		RequestID:  req.ID,
		Transcript: transcript.Text,
		Language:   transcript.Language,
		ReplyText:  reply.ReplyText,
		Intent:     reply.Intent,
		Payload:    reply.Payload,
	}

	// Synthesizing
	stageStart = time.Now()
	serr := p.synthesize(ctx, req.ID, reply.ReplyText, resp, stageStart)
	if serr != nil {
		return nil, serr
	}

	// Complete
	log.Printf("[Pipeline %s] complete in %v (degraded=%t)", req.ID, time.Since(start), resp.Degraded)
	return resp, nil
}

// RunText executes the reasoning and synthesis stages for a typed question,
// skipping audio validation and transcription. Used by the text ask path.
func (p *Pipeline) RunText(ctx context.Context, text, language string) (*model.Response, *Error) {
	req := model.NewPipelineRequest(model.AudioClip{}, language)
	start := time.Now()

	transcript := model.TranscriptionResult{Text: text, Language: language}

	stageStart := time.Now()
	reply, rerr := p.reason(ctx, req.ID, transcript, stageStart)
	if rerr != nil {
		return nil, rerr
	}

	resp := &model.Response{
		RequestID:  req.ID,
		Transcript: text,
		Language:   language,
		ReplyText:  reply.ReplyText,
		Intent:     reply.Intent,
		Payload:    reply.Payload,
	}

	stageStart = time.Now()
	serr := p.synthesize(ctx, req.ID, reply.ReplyText, resp, stageStart)
	if serr != nil {
		return nil, serr
	}

	log.Printf("[Pipeline %s] complete in %v (degraded=%t)", req.ID, time.Since(start), resp.Degraded)
	return resp, nil
}

// reason runs the reasoning stage and enforces the non-empty reply contract.
func (p *Pipeline) reason(ctx context.Context, requestID string, transcript model.TranscriptionResult, stageStart time.Time) (*model.ReasoningResult, *Error) {
	var reply *model.ReasoningResult
	err := withRetry(ctx, func() error {
		var rerr error
		reply, rerr = p.reasoner.Reason(ctx, transcript)
		return rerr
	})
	if err != nil {
		return nil, p.stageFailure(ctx, requestID, StageReasoning, KindReasoning,
			"language model reasoning failed", err, stageStart)
	}
	if reply == nil || reply.ReplyText == "" {
		// Never hand an empty utterance to synthesis.
		log.Printf("[Pipeline %s] reasoning failed after %v: empty reply", requestID, time.Since(stageStart))
		return nil, NewStageError(StageReasoning, KindReasoning, "language model returned an empty reply", nil)
	}
	log.Printf("[Pipeline %s] reasoning completed in %v (intent=%q, chars=%d)",
		requestID, time.Since(stageStart), reply.Intent, len(reply.ReplyText))
	return reply, nil
}

// synthesize runs the synthesis stage, filling resp in place. When only
// synthesis fails and TEXT_FALLBACK is on, the response is marked degraded
// instead of failing the request.
func (p *Pipeline) synthesize(ctx context.Context, requestID, text string, resp *model.Response, stageStart time.Time) *Error {
	var speech *model.SynthesisResult
	err := withRetry(ctx, func() error {
		var serr error
		speech, serr = p.tts.Synthesize(ctx, text)
		return serr
	})
	if err != nil {
		if p.cfg.TextFallback && !isCancelled(ctx, err) {
			log.Printf("[Pipeline %s] synthesis failed after %v, returning degraded text response: %v",
				requestID, time.Since(stageStart), err)
			resp.Degraded = true
			return nil
		}
		return p.stageFailure(ctx, requestID, StageSynthesis, KindSynthesis,
			"speech synthesis failed", err, stageStart)
	}

	resp.Audio = speech.Audio
	resp.AudioFormat = p.cfg.TTSFormat
	log.Printf("[Pipeline %s] synthesis completed in %v (format=%s, bytes=%d)",
		requestID, time.Since(stageStart), p.cfg.TTSFormat, len(speech.Audio))
	return nil
}

// stageFailure classifies a provider error for the caller. Cancellation and
// exhausted transient failures surface as provider_unavailable; everything
// else keeps the stage's own kind. The raw cause is logged, never returned.
func (p *Pipeline) stageFailure(ctx context.Context, requestID, stage, kind, message string, err error, stageStart time.Time) *Error {
	log.Printf("[Pipeline %s] %s failed after %v: %v", requestID, stage, time.Since(stageStart), err)

	if isCancelled(ctx, err) {
		return NewUnavailable(stage, "cancelled", err)
	}
	if IsTransient(err) {
		return NewUnavailable(stage, "provider unreachable", err)
	}
	return NewStageError(stage, kind, message, err)
}

func isCancelled(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
