package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// openaiTransport talks to the OpenAI Chat Completions API directly.
type openaiTransport struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

func newOpenAIClient(cfg ProviderConfig) Provider {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o"
	}
	return &client{t: &openaiTransport{
		apiKey:     strings.TrimSpace(cfg.OpenAIAPIKey),
		model:      model,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}}
}

func (t *openaiTransport) name() string { return "openai" }

func (t *openaiTransport) complete(ctx context.Context, messages []chatMessage, jsonMode bool) (string, error) {
	temp := float32(0)
	reqBody := chatRequest{
		Model:       t.model,
		Messages:    messages,
		Temperature: &temp,
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return decodeChatResponse(body, "openai")
}
