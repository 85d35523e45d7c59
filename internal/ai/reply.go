package ai

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/enigmAsad/CUI-Web-Innovators-Hackathon/internal/model"
)

// modelReply matches the JSON format requested from the model.
type modelReply struct {
	Reply   string         `json:"reply"`
	Intent  string         `json:"intent,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

// parseReply decodes the model output. Models occasionally wrap JSON in
// markdown code fences or ignore the format entirely; in the worst case the
// whole content is treated as the spoken reply.
func parseReply(content string) *model.ReasoningResult {
	var reply modelReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		extracted := extractJSONFromMarkdown(content)
		if err := json.Unmarshal([]byte(extracted), &reply); err != nil {
			log.Printf("[Reasoner] Response is not JSON, using raw content as reply")
			return &model.ReasoningResult{ReplyText: strings.TrimSpace(content)}
		}
	}

	return &model.ReasoningResult{
		ReplyText: strings.TrimSpace(reply.Reply),
		Intent:    reply.Intent,
		Payload:   reply.Payload,
	}
}

// extractJSONFromMarkdown extracts JSON from markdown code blocks
func extractJSONFromMarkdown(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
	}

	return strings.TrimSpace(content)
}
