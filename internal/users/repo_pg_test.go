package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoGetByIDScansProviderSettings(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "email", "full_name",
		"use_azure_gateway", "azure_endpoint", "azure_api_key", "azure_api_version", "azure_deployment",
		"openai_api_key", "created_at", "updated_at",
	}).AddRow(
		"user-1", "jane@firm.example", "Jane Smith",
		true, "https://firm.azure.example", "az-key", "2024-02-15-preview", "gpt-4o",
		nil, now, now,
	)
	mock.ExpectQuery("SELECT id, email, full_name").
		WithArgs("user-1").
		WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !user.UseAzureGateway || user.AzureDeployment != "gpt-4o" {
		t.Fatalf("provider settings not scanned: %+v", user)
	}
	if user.OpenAIAPIKey != "" {
		t.Fatalf("null openai key should scan empty, got %q", user.OpenAIAPIKey)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateProviderSettingsNullsEmptyStrings(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE users SET").
		WithArgs("user-1", false, nil, nil, nil, nil, "sk-test").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.UpdateProviderSettings(context.Background(), User{ID: "user-1", OpenAIAPIKey: "sk-test"})
	if err != nil {
		t.Fatalf("UpdateProviderSettings: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateProviderSettingsMissingUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateProviderSettings(context.Background(), User{ID: "ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
