package ai

import (
	"errors"
	"testing"
)

func gatewayConfig() ProviderConfig {
	return ProviderConfig{
		UseAzureGateway: true,
		AzureEndpoint:   "https://firm.openai.azure.com",
		AzureAPIKey:     "azure-key",
		AzureDeployment: "gpt-4o-legal",
		OpenAIAPIKey:    "direct-key",
	}
}

func TestNewProvider_GatewayWinsWhenFullyConfigured(t *testing.T) {
	p, err := NewProvider(gatewayConfig())
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name() != "azure" {
		t.Fatalf("expected azure provider, got %s", p.Name())
	}
}

func TestNewProvider_IncompleteGatewayFallsBackToDirect(t *testing.T) {
	cfg := gatewayConfig()
	cfg.AzureDeployment = ""
	p, err := NewProvider(cfg)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("expected openai fallback, got %s", p.Name())
	}
}

func TestNewProvider_DirectOnly(t *testing.T) {
	p, err := NewProvider(ProviderConfig{OpenAIAPIKey: "direct-key"})
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.Name() != "openai" {
		t.Fatalf("expected openai provider, got %s", p.Name())
	}
}

func TestNewProvider_NoConfigNamesMissingFields(t *testing.T) {
	_, err := NewProvider(ProviderConfig{UseAzureGateway: true})
	if err == nil {
		t.Fatal("expected configuration error")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %T", err)
	}
	want := map[string]bool{
		"azureEndpoint":   false,
		"azureDeployment": false,
		"azureApiKey":     false,
		"openAiApiKey":    false,
	}
	for _, field := range cfgErr.Missing {
		if _, ok := want[field]; !ok {
			t.Fatalf("unexpected missing field %q", field)
		}
		want[field] = true
	}
	for field, seen := range want {
		if !seen {
			t.Fatalf("expected missing field %q to be named", field)
		}
	}
}

func TestNewProvider_Deterministic(t *testing.T) {
	cfg := gatewayConfig()
	for i := 0; i < 5; i++ {
		p, err := NewProvider(cfg)
		if err != nil {
			t.Fatalf("NewProvider: %v", err)
		}
		if p.Name() != "azure" {
			t.Fatalf("selection not deterministic: got %s on attempt %d", p.Name(), i)
		}
	}
}
