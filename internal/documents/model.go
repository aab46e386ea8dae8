package documents

import (
	"time"

	"casefile-backend/internal/ai"
)

// Processing lifecycle for an uploaded document.
const (
	StatusUploaded  = "uploaded"
	StatusAnalyzing = "analyzing"
	StatusProcessed = "processed"
	StatusError     = "error"
)

// DocIntelMeta records what the document-intelligence service saw, so
// the record shows whether OCR ran and how trustworthy the text is.
type DocIntelMeta struct {
	Used          bool    `json:"used"`
	Confidence    float64 `json:"confidence,omitempty"`
	PageCount     int     `json:"pageCount,omitempty"`
	Tables        int     `json:"tables,omitempty"`
	KeyValuePairs int     `json:"keyValuePairs,omitempty"`
}

// EmbeddingMeta records the embedding run for a document.
type EmbeddingMeta struct {
	Generated  bool   `json:"generated"`
	Model      string `json:"model,omitempty"`
	Dimensions int    `json:"dimensions,omitempty"`
	ChunkCount int    `json:"chunkCount,omitempty"`
}

// Document is an uploaded file attached to a case, plus everything the
// analysis pipeline has derived from it.
type Document struct {
	ID              string
	CaseID          string
	UserID          string
	FileName        string
	MimeType        string
	SizeBytes       int64
	StorageProvider string
	StorageKey      string

	ProcessingStatus string
	ProcessingError  string
	AIProcessed      bool
	AISummary        string
	AnalysisQuality  string
	ExtractedData    *ai.ExtractedData
	DocIntel         *DocIntelMeta
	Embedding        *EmbeddingMeta
	SearchIndexed    bool
	SearchIndexedAt  *time.Time

	UploadedAt  time.Time
	ProcessedAt *time.Time
}
