package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"casefile-backend/internal/shared/telemetry"
)

// Prompt inputs beyond this size are truncated before the request is built.
const maxPromptChars = 48000

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model,omitempty"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// completer is the transport both provider backends implement: send a chat
// request, return the assistant message content.
type completer interface {
	complete(ctx context.Context, messages []chatMessage, jsonMode bool) (string, error)
	name() string
}

// client implements Provider on top of a completer transport.
type client struct {
	t completer
}

func (c *client) Name() string { return c.t.name() }

func (c *client) AnalyzeDocument(ctx context.Context, text, fileName string) (AnalysisResult, error) {
	messages := analysisMessages(truncate(text), fileName)
	raw, err := c.t.complete(ctx, messages, true)
	if err != nil {
		return AnalysisResult{}, &AnalysisError{Op: "analyze", Err: err}
	}
	return parseAnalysis(raw, c.t.name()), nil
}

func (c *client) ExtractLineItems(ctx context.Context, text, fileName string) ([]BillCandidate, error) {
	messages := lineItemMessages(truncate(text), fileName)
	raw, err := c.t.complete(ctx, messages, true)
	if err != nil {
		return nil, &AnalysisError{Op: "extract line items", Err: err}
	}
	return parseBillCandidates(raw, c.t.name()), nil
}

func (c *client) GenerateLetter(ctx context.Context, facts LetterFacts) (string, error) {
	payload, err := json.Marshal(facts)
	if err != nil {
		return "", &AnalysisError{Op: "generate letter", Err: err}
	}
	messages := letterMessages(string(payload))
	reply, err := c.t.complete(ctx, messages, false)
	if err != nil {
		return "", &AnalysisError{Op: "generate letter", Err: err}
	}
	return strings.TrimSpace(reply), nil
}

func (c *client) ChatCompletion(ctx context.Context, history []ChatMessage, systemPrompt string) (string, error) {
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = defaultChatSystemPrompt
	}
	messages := make([]chatMessage, 0, len(history)+1)
	messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, m := range history {
		role := m.Role
		if role != "assistant" && role != "system" {
			role = "user"
		}
		messages = append(messages, chatMessage{Role: role, Content: m.Content})
	}
	reply, err := c.t.complete(ctx, messages, false)
	if err != nil {
		return "", &AnalysisError{Op: "chat", Err: err}
	}
	return strings.TrimSpace(reply), nil
}

func truncate(text string) string {
	if len(text) <= maxPromptChars {
		return text
	}
	return text[:maxPromptChars]
}

func decodeChatResponse(body []byte, provider string) (string, error) {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%s response parse: %w", provider, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%s error: %s (%s)", provider, parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s response missing choices", provider)
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%s response empty content", provider)
	}
	if parsed.Usage != nil {
		telemetry.Info("llm.response", map[string]any{
			"provider":          provider,
			"model":             parsed.Model,
			"prompt_tokens":     parsed.Usage.PromptTokens,
			"completion_tokens": parsed.Usage.CompletionTokens,
			"total_tokens":      parsed.Usage.TotalTokens,
		})
	}
	return content, nil
}

var _ Provider = (*client)(nil)
