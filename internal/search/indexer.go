// Package search indexes processed documents into Typesense so case
// documents are findable by content. Indexing is best effort: when the
// search backend is not configured or unreachable the pipeline carries
// on and records that the document was not indexed.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"casefile-backend/internal/shared/telemetry"
)

const documentsCollection = "documents"

// Snippet length stored per document. Full text lives in the database;
// the index only needs enough to match on.
const maxContentChars = 8000

// Document is the denormalized record written to the index.
type Document struct {
	ID         string
	CaseID     string
	UserID     string
	FileName   string
	Summary    string
	Content    string
	Status     string
	UploadedAt time.Time
}

// Hit is a search result row.
type Hit struct {
	DocumentID string
	CaseID     string
	FileName   string
	Summary    string
}

// Indexer wraps the Typesense client. A nil Indexer (or one built from
// empty config) reports itself unavailable.
type Indexer struct {
	client *typesense.Client
}

// NewIndexer builds an indexer for the given server. Returns nil when
// the URL is empty so callers can treat search as absent.
func NewIndexer(url, apiKey string) *Indexer {
	if url == "" {
		return nil
	}
	client := typesense.NewClient(
		typesense.WithServer(url),
		typesense.WithAPIKey(apiKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)
	return &Indexer{client: client}
}

func (ix *Indexer) Available() bool {
	return ix != nil && ix.client != nil
}

// InitSchema ensures the documents collection exists. Safe to call on
// every startup.
func (ix *Indexer) InitSchema(ctx context.Context) error {
	if !ix.Available() {
		return fmt.Errorf("search: indexer not configured")
	}
	if _, err := ix.client.Collection(documentsCollection).Retrieve(ctx); err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: documentsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "case_id", Type: "string", Facet: pointer.True()},
			{Name: "user_id", Type: "string", Facet: pointer.True()},
			{Name: "file_name", Type: "string"},
			{Name: "summary", Type: "string", Optional: pointer.True()},
			{Name: "content", Type: "string", Optional: pointer.True()},
			{Name: "status", Type: "string", Facet: pointer.True()},
			{Name: "uploaded_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("uploaded_at"),
	}
	if _, err := ix.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("search: create collection: %w", err)
	}
	telemetry.Info("search collection created", map[string]any{"collection": documentsCollection})
	return nil
}

// Upsert writes a document to the index keyed by its ID, so re-analysis
// replaces the previous entry instead of duplicating it.
func (ix *Indexer) Upsert(ctx context.Context, doc Document) error {
	if !ix.Available() {
		return fmt.Errorf("search: indexer not configured")
	}
	content := doc.Content
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	record := map[string]any{
		"id":          doc.ID,
		"case_id":     doc.CaseID,
		"user_id":     doc.UserID,
		"file_name":   doc.FileName,
		"summary":     doc.Summary,
		"content":     content,
		"status":      doc.Status,
		"uploaded_at": doc.UploadedAt.Unix(),
	}
	if _, err := ix.client.Collection(documentsCollection).Documents().Upsert(ctx, record); err != nil {
		return fmt.Errorf("search: upsert document: %w", err)
	}
	return nil
}

// Delete removes a document from the index. Missing documents are not
// an error.
func (ix *Indexer) Delete(ctx context.Context, documentID string) error {
	if !ix.Available() {
		return fmt.Errorf("search: indexer not configured")
	}
	if _, err := ix.client.Collection(documentsCollection).Document(documentID).Delete(ctx); err != nil {
		telemetry.Warn("search delete failed", map[string]any{"documentId": documentID, "error": err.Error()})
	}
	return nil
}

// Search runs a full-text query over the caller's documents.
func (ix *Indexer) Search(ctx context.Context, userID, query string, limit int) ([]Hit, error) {
	if !ix.Available() {
		return nil, fmt.Errorf("search: indexer not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	params := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("file_name,summary,content"),
		FilterBy: pointer.String(fmt.Sprintf("user_id:=%s", userID)),
		PerPage:  pointer.Int(limit),
	}
	result, err := ix.client.Collection(documentsCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search: query failed: %w", err)
	}
	hits := []Hit{}
	if result.Hits == nil {
		return hits, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		doc := *hit.Document
		hits = append(hits, Hit{
			DocumentID: stringField(doc, "id"),
			CaseID:     stringField(doc, "case_id"),
			FileName:   stringField(doc, "file_name"),
			Summary:    stringField(doc, "summary"),
		})
	}
	return hits, nil
}

func stringField(doc map[string]any, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}
