package cases

import (
	"context"
	"errors"
	"testing"
)

func TestCreate_DefaultsToOpen(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	kase, err := svc.Create(context.Background(), "user-1", CreateInput{Title: "Doe v. Transit Co", ClientName: "Jane Doe"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if kase.Status != StatusOpen {
		t.Fatalf("expected open status, got %q", kase.Status)
	}
	if kase.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestCreate_RequiresTitleAndClient(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Create(context.Background(), "user-1", CreateInput{ClientName: "Jane Doe"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing title: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(context.Background(), "user-1", CreateInput{Title: "Doe v. Transit Co"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing client: expected ErrInvalidInput, got %v", err)
	}
}

func TestGetOwned_OtherUsersCaseReadsAsNotFound(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	kase, err := svc.Create(context.Background(), "user-1", CreateInput{Title: "Doe v. Transit Co", ClientName: "Jane Doe"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), "user-2", kase.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign case, got %v", err)
	}
}

func TestUpdate_RejectsUnknownStatus(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	kase, err := svc.Create(context.Background(), "user-1", CreateInput{Title: "Doe v. Transit Co", ClientName: "Jane Doe"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	bad := "archived"
	if _, err := svc.Update(context.Background(), "user-1", kase.ID, UpdateInput{Status: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	good := StatusSettled
	updated, err := svc.Update(context.Background(), "user-1", kase.ID, UpdateInput{Status: &good})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != StatusSettled {
		t.Fatalf("expected settled, got %q", updated.Status)
	}
}

func TestDelete_OwnershipEnforced(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	kase, err := svc.Create(context.Background(), "user-1", CreateInput{Title: "Doe v. Transit Co", ClientName: "Jane Doe"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(context.Background(), "user-2", kase.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), "user-1", kase.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), "user-1", kase.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("case should be gone, got %v", err)
	}
}
