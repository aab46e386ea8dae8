package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document
}

var _ Repo = (*MemoryRepo)(nil)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: make(map[string]Document)}
}

func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (r *MemoryRepo) ListByCase(ctx context.Context, caseID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Document, 0)
	for _, doc := range r.docs {
		if doc.CaseID == caseID {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

func (r *MemoryRepo) SetStatus(ctx context.Context, documentID, status, processingError string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[documentID]
	if !ok {
		return ErrNotFound
	}
	doc.ProcessingStatus = status
	doc.ProcessingError = processingError
	r.docs[documentID] = doc
	return nil
}

func (r *MemoryRepo) SaveAnalysis(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.docs[doc.ID]
	if !ok {
		return ErrNotFound
	}
	existing.ProcessingStatus = doc.ProcessingStatus
	existing.ProcessingError = doc.ProcessingError
	existing.AIProcessed = doc.AIProcessed
	existing.AISummary = doc.AISummary
	existing.AnalysisQuality = doc.AnalysisQuality
	existing.ExtractedData = doc.ExtractedData
	existing.DocIntel = doc.DocIntel
	existing.Embedding = doc.Embedding
	existing.SearchIndexed = doc.SearchIndexed
	existing.SearchIndexedAt = doc.SearchIndexedAt
	if doc.ProcessedAt != nil {
		existing.ProcessedAt = doc.ProcessedAt
	} else {
		now := time.Now().UTC()
		existing.ProcessedAt = &now
	}
	r.docs[doc.ID] = existing
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[documentID]; !ok {
		return ErrNotFound
	}
	delete(r.docs, documentID)
	return nil
}
