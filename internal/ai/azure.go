package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultAzureAPIVersion = "2024-02-15-preview"

// azureTransport talks to an Azure OpenAI gateway deployment. The endpoint
// shape and auth header differ from the direct API: the model is addressed
// by deployment name and the key travels in an api-key header.
type azureTransport struct {
	endpoint   string
	apiKey     string
	apiVersion string
	deployment string
	httpClient *http.Client
}

func newAzureClient(cfg ProviderConfig) Provider {
	version := strings.TrimSpace(cfg.AzureAPIVersion)
	if version == "" {
		version = defaultAzureAPIVersion
	}
	return &client{t: &azureTransport{
		endpoint:   strings.TrimRight(strings.TrimSpace(cfg.AzureEndpoint), "/"),
		apiKey:     strings.TrimSpace(cfg.AzureAPIKey),
		apiVersion: version,
		deployment: strings.TrimSpace(cfg.AzureDeployment),
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}}
}

func (t *azureTransport) name() string { return "azure" }

func (t *azureTransport) requestURL() string {
	return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		t.endpoint, url.PathEscape(t.deployment), url.QueryEscape(t.apiVersion))
}

func (t *azureTransport) complete(ctx context.Context, messages []chatMessage, jsonMode bool) (string, error) {
	temp := float32(0)
	// Model rides on the deployment; the body omits it.
	reqBody := chatRequest{
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

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.requestURL(), bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("api-key", t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("azure request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return decodeChatResponse(body, "azure")
}
