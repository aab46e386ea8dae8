package documents

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"casefile-backend/internal/cases"
	"casefile-backend/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) (*Service, *cases.Service) {
	t.Helper()
	caseSvc := cases.NewService(cases.NewMemoryRepo())
	svc := &Service{
		Store: local.New(t.TempDir()),
		Repo:  NewMemoryRepo(),
		Cases: caseSvc,
	}
	return svc, caseSvc
}

func TestUpload_RecordsDocumentUnderCase(t *testing.T) {
	svc, caseSvc := newTestService(t)
	kase, err := caseSvc.Create(context.Background(), "user-1", cases.CreateInput{Title: "Doe v. Transit Co", ClientName: "Jane Doe"})
	if err != nil {
		t.Fatalf("create case: %v", err)
	}

	doc, err := svc.Upload(context.Background(), "user-1", kase.ID, "records.txt", strings.NewReader("medical records"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ProcessingStatus != StatusUploaded {
		t.Fatalf("expected uploaded status, got %q", doc.ProcessingStatus)
	}
	if doc.CaseID != kase.ID {
		t.Fatalf("expected case id %q, got %q", kase.ID, doc.CaseID)
	}

	rc, err := svc.OpenContent(context.Background(), doc)
	if err != nil {
		t.Fatalf("OpenContent: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "medical records" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestUpload_RejectsForeignCase(t *testing.T) {
	svc, caseSvc := newTestService(t)
	kase, err := caseSvc.Create(context.Background(), "user-1", cases.CreateInput{Title: "Doe v. Transit Co", ClientName: "Jane Doe"})
	if err != nil {
		t.Fatalf("create case: %v", err)
	}

	_, err = svc.Upload(context.Background(), "user-2", kase.ID, "records.txt", strings.NewReader("x"))
	if !errors.Is(err, cases.ErrNotFound) {
		t.Fatalf("expected cases.ErrNotFound, got %v", err)
	}
}

func TestGetOwned_ForeignDocumentIsForbidden(t *testing.T) {
	svc, caseSvc := newTestService(t)
	kase, err := caseSvc.Create(context.Background(), "user-1", cases.CreateInput{Title: "Doe v. Transit Co", ClientName: "Jane Doe"})
	if err != nil {
		t.Fatalf("create case: %v", err)
	}
	doc, err := svc.Upload(context.Background(), "user-1", kase.ID, "records.txt", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if _, err := svc.GetOwned(context.Background(), "user-2", doc.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.GetOwned(context.Background(), "user-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
