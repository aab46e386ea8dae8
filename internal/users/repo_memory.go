package users

import (
	"context"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	users map[string]User
}

var _ Repo = (*MemoryRepo)(nil)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{users: make(map[string]User)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	now := time.Now().UTC()
	if !ok {
		user.CreatedAt = now
	} else {
		user.CreatedAt = existing.CreatedAt
		// Identity upserts never clobber stored provider settings.
		user.UseAzureGateway = existing.UseAzureGateway
		user.AzureEndpoint = existing.AzureEndpoint
		user.AzureAPIKey = existing.AzureAPIKey
		user.AzureAPIVersion = existing.AzureAPIVersion
		user.AzureDeployment = existing.AzureDeployment
		user.OpenAIAPIKey = existing.OpenAIAPIKey
	}
	user.UpdatedAt = now
	r.users[user.ID] = user
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *MemoryRepo) UpdateProviderSettings(ctx context.Context, user User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	existing.UseAzureGateway = user.UseAzureGateway
	existing.AzureEndpoint = user.AzureEndpoint
	existing.AzureAPIKey = user.AzureAPIKey
	existing.AzureAPIVersion = user.AzureAPIVersion
	existing.AzureDeployment = user.AzureDeployment
	existing.OpenAIAPIKey = user.OpenAIAPIKey
	existing.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = existing
	return nil
}
