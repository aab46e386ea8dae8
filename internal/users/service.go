package users

import (
	"context"
	"errors"
	"strings"

	"casefile-backend/internal/ai"
)

// Defaults are the environment-level fallbacks merged under a user's
// stored provider settings.
type Defaults struct {
	OpenAIAPIKey    string
	Model           string
	AzureAPIKey     string
	AzureAPIVersion string
}

type Service struct {
	Repo     Repo
	Defaults Defaults
}

func NewService(repo Repo, defaults Defaults) *Service {
	return &Service{Repo: repo, Defaults: defaults}
}

// EnsureUser persists the identity forwarded by the auth gateway so
// cases and documents have a stable owner.
func (s *Service) EnsureUser(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(user.ID) == "" {
		return errors.New("user id is required")
	}
	return s.Repo.Upsert(ctx, user)
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// ProviderConfig resolves the effective AI provider settings for a
// user: stored per-user values first, environment defaults underneath.
// A missing user row falls back to the environment alone.
func (s *Service) ProviderConfig(ctx context.Context, userID string) (ai.ProviderConfig, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return ai.ProviderConfig{}, err
	}

	cfg := ai.ProviderConfig{
		UseAzureGateway: user.UseAzureGateway,
		AzureEndpoint:   user.AzureEndpoint,
		AzureAPIKey:     user.AzureAPIKey,
		AzureAPIVersion: user.AzureAPIVersion,
		AzureDeployment: user.AzureDeployment,
		OpenAIAPIKey:    user.OpenAIAPIKey,
		Model:           s.Defaults.Model,
	}
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = s.Defaults.OpenAIAPIKey
	}
	if cfg.AzureAPIKey == "" {
		cfg.AzureAPIKey = s.Defaults.AzureAPIKey
	}
	if cfg.AzureAPIVersion == "" {
		cfg.AzureAPIVersion = s.Defaults.AzureAPIVersion
	}
	return cfg, nil
}

// ProviderSettingsUpdate is a partial update; nil fields keep the
// stored value.
type ProviderSettingsUpdate struct {
	OpenAIAPIKey    *string
	UseAzureGateway *bool
	AzureEndpoint   *string
	AzureAPIKey     *string
	AzureAPIVersion *string
	AzureDeployment *string
}

// UpdateProviderSettings merges the update into the stored settings and
// verifies the result still selects a provider. An update that would
// leave the user without any usable configuration is rejected with the
// provider's ConfigurationError so the handler can name the missing
// fields.
func (s *Service) UpdateProviderSettings(ctx context.Context, userID string, update ProviderSettingsUpdate) (User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}

	if update.OpenAIAPIKey != nil {
		user.OpenAIAPIKey = strings.TrimSpace(*update.OpenAIAPIKey)
	}
	if update.UseAzureGateway != nil {
		user.UseAzureGateway = *update.UseAzureGateway
	}
	if update.AzureEndpoint != nil {
		user.AzureEndpoint = strings.TrimRight(strings.TrimSpace(*update.AzureEndpoint), "/")
	}
	if update.AzureAPIKey != nil {
		user.AzureAPIKey = strings.TrimSpace(*update.AzureAPIKey)
	}
	if update.AzureAPIVersion != nil {
		user.AzureAPIVersion = strings.TrimSpace(*update.AzureAPIVersion)
	}
	if update.AzureDeployment != nil {
		user.AzureDeployment = strings.TrimSpace(*update.AzureDeployment)
	}

	check := ai.ProviderConfig{
		UseAzureGateway: user.UseAzureGateway,
		AzureEndpoint:   user.AzureEndpoint,
		AzureAPIKey:     user.AzureAPIKey,
		AzureAPIVersion: user.AzureAPIVersion,
		AzureDeployment: user.AzureDeployment,
		OpenAIAPIKey:    user.OpenAIAPIKey,
	}
	if check.OpenAIAPIKey == "" {
		check.OpenAIAPIKey = s.Defaults.OpenAIAPIKey
	}
	if check.AzureAPIKey == "" {
		check.AzureAPIKey = s.Defaults.AzureAPIKey
	}
	if _, err := ai.NewProvider(check); err != nil {
		return User{}, err
	}

	if err := s.Repo.UpdateProviderSettings(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}
