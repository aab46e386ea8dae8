package users

import "time"

// User carries the identity plus the per-user AI provider settings.
// Secret fields are never serialized into responses.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`

	UseAzureGateway bool   `json:"useAzureGateway"`
	AzureEndpoint   string `json:"azureEndpoint"`
	AzureAPIKey     string `json:"-"`
	AzureAPIVersion string `json:"azureApiVersion"`
	AzureDeployment string `json:"azureDeployment"`
	OpenAIAPIKey    string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasOpenAIKey lets responses acknowledge a stored key without echoing it.
func (u User) HasOpenAIKey() bool { return u.OpenAIAPIKey != "" }

func (u User) HasAzureKey() bool { return u.AzureAPIKey != "" }
