package documents

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"casefile-backend/internal/cases"
	"casefile-backend/internal/search"
	"casefile-backend/internal/shared/storage/object"
)

// Service contains business logic for documents. Ownership always
// flows through the case: a document belongs to whoever owns its case.
type Service struct {
	Store  object.ObjectStore
	Repo   Repo
	Cases  *cases.Service
	Search *search.Indexer
}

// ErrSearchUnavailable means no search backend is configured.
var ErrSearchUnavailable = errors.New("search is not configured")

// SearchDocuments runs a full-text query over the caller's indexed
// documents.
func (s *Service) SearchDocuments(ctx context.Context, userID, query string, limit int) ([]search.Hit, error) {
	if !s.Search.Available() {
		return nil, ErrSearchUnavailable
	}
	if query == "" {
		return nil, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}
	return s.Search.Search(ctx, userID, query, limit)
}

// Upload checks case ownership, saves the file to object storage, and
// records the document with status uploaded.
func (s *Service) Upload(ctx context.Context, userID, caseID, fileName string, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if _, err := s.Cases.GetOwned(ctx, userID, caseID); err != nil {
		return Document{}, err
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, caseID, fileName, r)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:               uuid.NewString(),
		CaseID:           caseID,
		UserID:           userID,
		FileName:         fileName,
		MimeType:         mimeType,
		SizeBytes:        size,
		StorageKey:       storageKey,
		ProcessingStatus: StatusUploaded,
		UploadedAt:       time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// GetOwned fetches a document and verifies the caller owns the case it
// belongs to. ErrForbidden distinguishes "exists but not yours" so the
// analyze endpoint can answer 403 rather than 404.
func (s *Service) GetOwned(ctx context.Context, userID, documentID string) (Document, error) {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return Document{}, err
	}
	if doc.UserID != userID {
		return Document{}, ErrForbidden
	}
	return doc, nil
}

// ListByCase returns the case's documents after an ownership check.
func (s *Service) ListByCase(ctx context.Context, userID, caseID string) ([]Document, error) {
	if _, err := s.Cases.GetOwned(ctx, userID, caseID); err != nil {
		return nil, err
	}
	return s.Repo.ListByCase(ctx, caseID)
}

// OpenContent streams the stored original file.
func (s *Service) OpenContent(ctx context.Context, doc Document) (io.ReadCloser, error) {
	return s.Store.Open(ctx, doc.StorageKey)
}

func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.GetOwned(ctx, userID, documentID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, documentID); err != nil {
		return err
	}
	if doc.SearchIndexed && s.Search.Available() {
		s.Search.Delete(ctx, documentID)
	}
	return nil
}
