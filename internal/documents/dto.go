package documents

import (
	"time"

	"casefile-backend/internal/ai"
)

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID       string            `json:"documentId"`
	CaseID           string            `json:"caseId"`
	FileName         string            `json:"fileName"`
	MimeType         string            `json:"mimeType"`
	SizeBytes        int64             `json:"sizeBytes"`
	ProcessingStatus string            `json:"processingStatus"`
	ProcessingError  string            `json:"processingError,omitempty"`
	AIProcessed      bool              `json:"aiProcessed"`
	AISummary        string            `json:"aiSummary,omitempty"`
	AnalysisQuality  string            `json:"analysisQuality,omitempty"`
	ExtractedData    *ai.ExtractedData `json:"extractedData,omitempty"`
	DocIntel         *DocIntelMeta     `json:"documentIntelligence,omitempty"`
	Embedding        *EmbeddingMeta    `json:"vectorEmbedding,omitempty"`
	SearchIndexed    bool              `json:"searchIndexed"`
	UploadedAt       time.Time         `json:"uploadedAt"`
	ProcessedAt      *time.Time        `json:"processedAt,omitempty"`
}

func ToResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:       doc.ID,
		CaseID:           doc.CaseID,
		FileName:         doc.FileName,
		MimeType:         doc.MimeType,
		SizeBytes:        doc.SizeBytes,
		ProcessingStatus: doc.ProcessingStatus,
		ProcessingError:  doc.ProcessingError,
		AIProcessed:      doc.AIProcessed,
		AISummary:        doc.AISummary,
		AnalysisQuality:  doc.AnalysisQuality,
		ExtractedData:    doc.ExtractedData,
		DocIntel:         doc.DocIntel,
		Embedding:        doc.Embedding,
		SearchIndexed:    doc.SearchIndexed,
		UploadedAt:       doc.UploadedAt,
		ProcessedAt:      doc.ProcessedAt,
	}
}
