package ai

import (
	"context"
	"strings"
)

// Provider abstracts the LLM backends used by the analysis pipeline.
type Provider interface {
	AnalyzeDocument(ctx context.Context, text, fileName string) (AnalysisResult, error)
	ExtractLineItems(ctx context.Context, text, fileName string) ([]BillCandidate, error)
	GenerateLetter(ctx context.Context, facts LetterFacts) (string, error)
	ChatCompletion(ctx context.Context, history []ChatMessage, systemPrompt string) (string, error)
	Name() string
}

// ProviderConfig is the per-user provider selection input, with environment
// fallbacks already merged in by the caller.
type ProviderConfig struct {
	UseAzureGateway bool
	AzureEndpoint   string
	AzureAPIKey     string
	AzureAPIVersion string
	AzureDeployment string

	OpenAIAPIKey string
	Model        string
}

// NewProvider selects and constructs a provider from the given configuration.
// Selection is pure: the same config always yields the same implementation.
// An explicit opt-in to the gateway wins when fully configured; otherwise the
// direct key is used; otherwise a ConfigurationError names the missing fields.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.UseAzureGateway {
		if missing := missingGatewayFields(cfg); len(missing) == 0 {
			return newAzureClient(cfg), nil
		}
	}
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		return newOpenAIClient(cfg), nil
	}
	if cfg.UseAzureGateway {
		missing := missingGatewayFields(cfg)
		missing = append(missing, "openAiApiKey")
		return nil, &ConfigurationError{Missing: missing}
	}
	return nil, &ConfigurationError{Missing: []string{"openAiApiKey"}}
}

func missingGatewayFields(cfg ProviderConfig) []string {
	var missing []string
	if strings.TrimSpace(cfg.AzureEndpoint) == "" {
		missing = append(missing, "azureEndpoint")
	}
	if strings.TrimSpace(cfg.AzureDeployment) == "" {
		missing = append(missing, "azureDeployment")
	}
	if strings.TrimSpace(cfg.AzureAPIKey) == "" {
		missing = append(missing, "azureApiKey")
	}
	return missing
}
