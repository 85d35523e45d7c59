package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/config"
	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/model"
)

// replyMaxTokens bounds the model response; spoken answers must stay short.
const replyMaxTokens = 500

// Reasoner turns a transcript into an assistant reply.
type Reasoner interface {
	Reason(ctx context.Context, transcript model.TranscriptionResult) (*model.ReasoningResult, error)
}

// OpenAIReasoner implements Reasoner using the OpenAI chat completion API.
type OpenAIReasoner struct {
	client          *openai.Client
	model           string
	defaultLanguage string
}

// NewOpenAIReasoner creates a chat-completion-backed reasoner.
func NewOpenAIReasoner(cfg *config.Settings) *OpenAIReasoner {
	return &OpenAIReasoner{
		client:          openai.NewClient(cfg.OpenAIKey),
		model:           cfg.LLMModel,
		defaultLanguage: cfg.DefaultLanguage,
	}
}

// Reason sends the transcript to the language model and parses the reply.
// Falls back to the configured default language when the transcript carries
// none. An empty model reply is an error, never passed downstream.
func (r *OpenAIReasoner) Reason(ctx context.Context, transcript model.TranscriptionResult) (*model.ReasoningResult, error) {
	startTime := time.Now()

	language := transcript.Language
	if language == "" {
		language = r.defaultLanguage
	}

	systemPrompt, userPrompt := BuildPrompt(transcript.Text, language)

	req := openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: 0.3, // Low temperature for factual answers
		MaxTokens:   replyMaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	result := parseReply(content)
	if strings.TrimSpace(result.ReplyText) == "" {
		return nil, fmt.Errorf("model returned an empty reply")
	}

	log.Printf("[Reasoner] Reply generated: language=%s, intent=%q, chars=%d, tokens=%d, took=%v",
		language, result.Intent, len(result.ReplyText), resp.Usage.TotalTokens, time.Since(startTime))

	return result, nil
}
