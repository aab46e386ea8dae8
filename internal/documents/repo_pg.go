package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"casefile-backend/internal/ai"
)

// PGRepo implements Repo using Postgres. Pipeline-derived structures
// are stored as jsonb.
type PGRepo struct {
	DB *sql.DB
}

var _ Repo = (*PGRepo)(nil)

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id, case_id, user_id, file_name, mime_type, size_bytes,
    storage_provider, storage_key, processing_status, uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	storageProvider := doc.StorageProvider
	if storageProvider == "" {
		storageProvider = "local"
	}
	status := doc.ProcessingStatus
	if status == "" {
		status = StatusUploaded
	}
	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.CaseID,
		doc.UserID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		storageProvider,
		doc.StorageKey,
		status,
		doc.UploadedAt,
	)
	return err
}

const selectColumns = `
    id, case_id, user_id, file_name, mime_type, size_bytes,
    storage_provider, storage_key, processing_status, processing_error,
    ai_processed, ai_summary, analysis_quality, extracted_data,
    docintel_meta, embedding_meta, search_indexed, search_indexed_at,
    uploaded_at, processed_at`

func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	query := `SELECT` + selectColumns + `
FROM documents
WHERE id = $1
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

func (r *PGRepo) ListByCase(ctx context.Context, caseID string) ([]Document, error) {
	query := `SELECT` + selectColumns + `
FROM documents
WHERE case_id = $1
ORDER BY uploaded_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (r *PGRepo) SetStatus(ctx context.Context, documentID, status, processingError string) error {
	const query = `
UPDATE documents SET processing_status = $2, processing_error = $3
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, documentID, status, nullableString(processingError))
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) SaveAnalysis(ctx context.Context, doc Document) error {
	const query = `
UPDATE documents SET
  processing_status = $2,
  processing_error = $3,
  ai_processed = $4,
  ai_summary = $5,
  analysis_quality = $6,
  extracted_data = $7,
  docintel_meta = $8,
  embedding_meta = $9,
  search_indexed = $10,
  search_indexed_at = $11,
  processed_at = $12
WHERE id = $1`

	extracted, err := marshalNullable(doc.ExtractedData)
	if err != nil {
		return fmt.Errorf("marshal extracted data: %w", err)
	}
	docintelMeta, err := marshalNullable(doc.DocIntel)
	if err != nil {
		return fmt.Errorf("marshal docintel meta: %w", err)
	}
	embeddingMeta, err := marshalNullable(doc.Embedding)
	if err != nil {
		return fmt.Errorf("marshal embedding meta: %w", err)
	}

	processedAt := doc.ProcessedAt
	if processedAt == nil {
		now := time.Now().UTC()
		processedAt = &now
	}

	res, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.ProcessingStatus,
		nullableString(doc.ProcessingError),
		doc.AIProcessed,
		nullableString(doc.AISummary),
		nullableString(doc.AnalysisQuality),
		extracted,
		docintelMeta,
		embeddingMeta,
		doc.SearchIndexed,
		nullableTimePtr(doc.SearchIndexedAt),
		*processedAt,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, documentID)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var processingError, aiSummary, analysisQuality sql.NullString
	var extracted, docintelMeta, embeddingMeta []byte
	var searchIndexedAt, processedAt sql.NullTime

	err := row.Scan(
		&doc.ID,
		&doc.CaseID,
		&doc.UserID,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageProvider,
		&doc.StorageKey,
		&doc.ProcessingStatus,
		&processingError,
		&doc.AIProcessed,
		&aiSummary,
		&analysisQuality,
		&extracted,
		&docintelMeta,
		&embeddingMeta,
		&doc.SearchIndexed,
		&searchIndexedAt,
		&doc.UploadedAt,
		&processedAt,
	)
	if err != nil {
		return Document{}, err
	}
	doc.ProcessingError = processingError.String
	doc.AISummary = aiSummary.String
	doc.AnalysisQuality = analysisQuality.String
	if len(extracted) > 0 {
		var data ai.ExtractedData
		if err := json.Unmarshal(extracted, &data); err != nil {
			return Document{}, fmt.Errorf("unmarshal extracted data: %w", err)
		}
		doc.ExtractedData = &data
	}
	if len(docintelMeta) > 0 {
		var meta DocIntelMeta
		if err := json.Unmarshal(docintelMeta, &meta); err != nil {
			return Document{}, fmt.Errorf("unmarshal docintel meta: %w", err)
		}
		doc.DocIntel = &meta
	}
	if len(embeddingMeta) > 0 {
		var meta EmbeddingMeta
		if err := json.Unmarshal(embeddingMeta, &meta); err != nil {
			return Document{}, fmt.Errorf("unmarshal embedding meta: %w", err)
		}
		doc.Embedding = &meta
	}
	if searchIndexedAt.Valid {
		t := searchIndexedAt.Time
		doc.SearchIndexedAt = &t
	}
	if processedAt.Valid {
		t := processedAt.Time
		doc.ProcessedAt = &t
	}
	return doc, nil
}

func marshalNullable(v any) (any, error) {
	switch val := v.(type) {
	case *ai.ExtractedData:
		if val == nil {
			return nil, nil
		}
	case *DocIntelMeta:
		if val == nil {
			return nil, nil
		}
	case *EmbeddingMeta:
		if val == nil {
			return nil, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTimePtr(value *time.Time) any {
	if value == nil {
		return nil
	}
	return *value
}
