package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

func (r *PGRepo) Upsert(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, created_at, updated_at)
VALUES ($1, $2, $3, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  full_name = EXCLUDED.full_name,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.Email,
		nullableString(user.FullName),
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `
SELECT id, email, full_name,
       use_azure_gateway, azure_endpoint, azure_api_key, azure_api_version, azure_deployment,
       openai_api_key, created_at, updated_at
FROM users
WHERE id = $1
LIMIT 1`
	var user User
	var fullName sql.NullString
	var azEndpoint, azKey, azVersion, azDeployment, openaiKey sql.NullString
	var updatedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Email,
		&fullName,
		&user.UseAzureGateway,
		&azEndpoint,
		&azKey,
		&azVersion,
		&azDeployment,
		&openaiKey,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.FullName = fullName.String
	user.AzureEndpoint = azEndpoint.String
	user.AzureAPIKey = azKey.String
	user.AzureAPIVersion = azVersion.String
	user.AzureDeployment = azDeployment.String
	user.OpenAIAPIKey = openaiKey.String
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = time.Now().UTC()
	}
	return user, nil
}

func (r *PGRepo) UpdateProviderSettings(ctx context.Context, user User) error {
	const query = `
UPDATE users SET
  use_azure_gateway = $2,
  azure_endpoint = $3,
  azure_api_key = $4,
  azure_api_version = $5,
  azure_deployment = $6,
  openai_api_key = $7,
  updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		user.ID,
		user.UseAzureGateway,
		nullableString(user.AzureEndpoint),
		nullableString(user.AzureAPIKey),
		nullableString(user.AzureAPIVersion),
		nullableString(user.AzureDeployment),
		nullableString(user.OpenAIAPIKey),
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
