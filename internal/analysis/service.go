// Package analysis runs the document pipeline: text extraction, AI
// analysis, bill extraction, and search indexing, accumulated in memory
// and persisted in a single write at the end.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"casefile-backend/internal/ai"
	"casefile-backend/internal/bills"
	"casefile-backend/internal/docintel"
	"casefile-backend/internal/documents"
	"casefile-backend/internal/embeddings"
	"casefile-backend/internal/extract"
	"casefile-backend/internal/search"
	"casefile-backend/internal/shared/metrics"
	"casefile-backend/internal/shared/telemetry"
	"casefile-backend/internal/users"
)

// ErrLocked means another analysis currently holds the document.
var ErrLocked = errors.New("analysis already in progress")

// ErrNoTextCapability means no extraction path could produce text for
// the document, so bill extraction has nothing to work from.
var ErrNoTextCapability = errors.New("no text extraction capability for this document")

const lockTTL = 5 * time.Minute

// Timeouts bound each pipeline stage. A stage that exceeds its budget
// fails under that stage's fallback policy instead of stalling the
// request.
type Timeouts struct {
	Extraction time.Duration
	Embedding  time.Duration
	Analysis   time.Duration
	Indexing   time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Extraction: 45 * time.Second,
		Embedding:  15 * time.Second,
		Analysis:   90 * time.Second,
		Indexing:   10 * time.Second,
	}
}

// ProviderFactory builds a provider from resolved config. Tests swap in
// a stub so no network is touched.
type ProviderFactory func(ai.ProviderConfig) (ai.Provider, error)

// Service orchestrates the pipeline.
type Service struct {
	Documents   *documents.Service
	Users       *users.Service
	Bills       *bills.Materializer
	DocIntel    *docintel.Client
	Embedder    *embeddings.Client
	Search      *search.Indexer
	Locker      Locker
	Timeouts    Timeouts
	NewProvider ProviderFactory
}

// Result is everything the analyze endpoint reports back.
type Result struct {
	Document     documents.Document
	Summary      string
	KeyFindings  []string
	Extracted    *ai.ExtractedData
	Quality      string
	BillsCreated int
}

// Analyze runs the full pipeline for one document. The only errors it
// returns are ownership/lookup failures, the lock conflict, provider
// configuration errors, and the final persistence failure; every
// external stage degrades instead of failing the request.
func (s *Service) Analyze(ctx context.Context, userID, documentID string) (Result, error) {
	doc, err := s.Documents.GetOwned(ctx, userID, documentID)
	if err != nil {
		return Result{}, err
	}

	// Provider selection happens before any external call so a
	// misconfigured user gets an actionable error immediately.
	providerCfg, err := s.Users.ProviderConfig(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	provider, err := s.newProvider(providerCfg)
	if err != nil {
		return Result{}, err
	}

	acquired, err := s.Locker.Acquire(ctx, documentID, lockTTL)
	if err != nil {
		return Result{}, fmt.Errorf("acquire lock: %w", err)
	}
	if !acquired {
		return Result{}, ErrLocked
	}
	defer s.Locker.Release(context.WithoutCancel(ctx), documentID)

	metrics.IncAnalysisStarted()
	started := time.Now()
	if err := s.Documents.Repo.SetStatus(ctx, documentID, documents.StatusAnalyzing, ""); err != nil {
		metrics.IncAnalysisFailed()
		return Result{}, fmt.Errorf("mark analyzing: %w", err)
	}

	timeouts := s.timeouts()

	text, docintelMeta, extracted := s.extractText(ctx, doc, timeouts.Extraction)
	if !extracted {
		text = placeholderText(doc)
	}
	embeddingMeta := s.embed(ctx, doc, text, timeouts.Embedding)
	analysisResult := s.runAnalysis(ctx, provider, doc, text, timeouts.Analysis)
	billsCreated := s.extractBillsBestEffort(ctx, provider, doc, text, timeouts.Analysis)

	doc.ProcessingStatus = documents.StatusProcessed
	doc.ProcessingError = ""
	doc.AIProcessed = true
	doc.AISummary = analysisResult.Summary
	doc.AnalysisQuality = analysisResult.Quality
	doc.ExtractedData = &analysisResult.ExtractedData
	doc.DocIntel = docintelMeta
	doc.Embedding = embeddingMeta
	now := time.Now().UTC()
	doc.ProcessedAt = &now

	if s.index(ctx, doc, text, timeouts.Indexing) {
		doc.SearchIndexed = true
		doc.SearchIndexedAt = &now
	}

	if err := s.Documents.Repo.SaveAnalysis(ctx, doc); err != nil {
		metrics.IncAnalysisFailed()
		return Result{}, fmt.Errorf("persist analysis: %w", err)
	}

	metrics.IncAnalysisCompleted()
	if analysisResult.Quality == ai.QualityDegraded {
		metrics.IncAnalysisDegraded()
	}
	metrics.ObserveAnalysisDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("analysis complete", map[string]any{
		"documentId": documentID,
		"quality":    analysisResult.Quality,
		"bills":      billsCreated,
		"indexed":    doc.SearchIndexed,
		"durationMs": time.Since(started).Milliseconds(),
	})

	return Result{
		Document:     doc,
		Summary:      analysisResult.Summary,
		KeyFindings:  analysisResult.KeyFindings,
		Extracted:    doc.ExtractedData,
		Quality:      analysisResult.Quality,
		BillsCreated: billsCreated,
	}, nil
}

// ExtractBills runs line-item extraction on demand. Unlike the analyze
// path, a document that yields no text is reported as a capability
// failure rather than silently producing nothing.
func (s *Service) ExtractBills(ctx context.Context, userID, documentID string) ([]bills.MedicalBill, int, error) {
	doc, err := s.Documents.GetOwned(ctx, userID, documentID)
	if err != nil {
		return nil, 0, err
	}
	providerCfg, err := s.Users.ProviderConfig(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	provider, err := s.newProvider(providerCfg)
	if err != nil {
		return nil, 0, err
	}

	timeouts := s.timeouts()
	text, _, extracted := s.extractText(ctx, doc, timeouts.Extraction)
	if !extracted {
		return nil, 0, ErrNoTextCapability
	}

	callCtx, cancel := context.WithTimeout(ctx, timeouts.Analysis)
	defer cancel()
	candidates, err := provider.ExtractLineItems(callCtx, text, doc.FileName)
	if err != nil {
		return nil, 0, fmt.Errorf("extract line items: %w", err)
	}

	created, err := s.Bills.Materialize(ctx, doc.CaseID, userID, doc.ID, candidates)
	if err != nil {
		return created, len(candidates), err
	}
	return created, len(candidates), nil
}

// GenerateLetter drafts a demand letter for a case from the facts the
// pipeline has already gathered: client identity from the case record,
// injuries and treatment from analyzed documents, and the billed total
// from materialized bills.
func (s *Service) GenerateLetter(ctx context.Context, userID, caseID, recipient string) (string, error) {
	kase, err := s.Documents.Cases.GetOwned(ctx, userID, caseID)
	if err != nil {
		return "", err
	}
	providerCfg, err := s.Users.ProviderConfig(ctx, userID)
	if err != nil {
		return "", err
	}
	provider, err := s.newProvider(providerCfg)
	if err != nil {
		return "", err
	}

	docs, err := s.Documents.ListByCase(ctx, userID, caseID)
	if err != nil {
		return "", err
	}
	caseBills, err := s.Bills.Repo.ListByCase(ctx, caseID)
	if err != nil {
		return "", err
	}

	facts := ai.LetterFacts{
		ClientName:  kase.ClientName,
		Recipient:   recipient,
		Injuries:    collectInjuries(docs),
		Treatment:   collectTreatment(docs),
		TotalBilled: sumBilled(caseBills),
	}
	if kase.IncidentDate != nil {
		facts.IncidentDate = kase.IncidentDate.Format("2006-01-02")
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeouts().Analysis)
	defer cancel()
	return provider.GenerateLetter(callCtx, facts)
}

func collectInjuries(docs []documents.Document) string {
	var parts []string
	for _, doc := range docs {
		if doc.ExtractedData == nil || doc.ExtractedData.MedicalInfo == nil {
			continue
		}
		for _, d := range doc.ExtractedData.MedicalInfo.Diagnoses {
			if d.Narrative != "" {
				parts = append(parts, d.Narrative)
			}
		}
	}
	return strings.Join(parts, "; ")
}

func collectTreatment(docs []documents.Document) string {
	var parts []string
	for _, doc := range docs {
		if doc.ExtractedData == nil || doc.ExtractedData.MedicalInfo == nil {
			continue
		}
		info := doc.ExtractedData.MedicalInfo
		for _, p := range info.Procedures {
			if p.Description != "" {
				parts = append(parts, p.Description)
			}
		}
		parts = append(parts, info.TreatmentRecommendations...)
	}
	return strings.Join(parts, "; ")
}

func sumBilled(caseBills []bills.MedicalBill) string {
	total := 0.0
	for _, b := range caseBills {
		amount, err := strconv.ParseFloat(b.Amount, 64)
		if err != nil {
			continue
		}
		total += amount
	}
	return fmt.Sprintf("%.2f", total)
}

// Chat forwards a conversation to the user's provider.
func (s *Service) Chat(ctx context.Context, userID string, history []ai.ChatMessage) (string, error) {
	providerCfg, err := s.Users.ProviderConfig(ctx, userID)
	if err != nil {
		return "", err
	}
	provider, err := s.newProvider(providerCfg)
	if err != nil {
		return "", err
	}
	callCtx, cancel := context.WithTimeout(ctx, s.timeouts().Analysis)
	defer cancel()
	return provider.ChatCompletion(callCtx, history, "")
}

func (s *Service) newProvider(cfg ai.ProviderConfig) (ai.Provider, error) {
	if s.NewProvider != nil {
		return s.NewProvider(cfg)
	}
	return ai.NewProvider(cfg)
}

func (s *Service) timeouts() Timeouts {
	t := s.Timeouts
	d := DefaultTimeouts()
	if t.Extraction <= 0 {
		t.Extraction = d.Extraction
	}
	if t.Embedding <= 0 {
		t.Embedding = d.Embedding
	}
	if t.Analysis <= 0 {
		t.Analysis = d.Analysis
	}
	if t.Indexing <= 0 {
		t.Indexing = d.Indexing
	}
	return t
}

// extractText tries document intelligence, then local parsing. The
// third return is false when neither path produced text.
func (s *Service) extractText(ctx context.Context, doc documents.Document, timeout time.Duration) (string, *documents.DocIntelMeta, bool) {
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if s.DocIntel.IsAvailable() {
		data, err := s.readContent(stageCtx, doc)
		if err == nil {
			result, err := s.DocIntel.Analyze(stageCtx, data, doc.MimeType)
			if err == nil && result.Text != "" {
				return result.Text, &documents.DocIntelMeta{
					Used:          true,
					Confidence:    result.Confidence,
					PageCount:     result.PageCount,
					Tables:        len(result.Tables),
					KeyValuePairs: len(result.KeyValuePairs),
				}, true
			}
			if err != nil {
				telemetry.Warn("document intelligence failed, falling back to local extraction", map[string]any{
					"documentId": doc.ID,
					"error":      err.Error(),
				})
			}
		}
	}

	text, err := extract.FromStore(stageCtx, s.Documents.Store, doc.StorageKey, doc.MimeType, doc.FileName)
	if err == nil && text != "" {
		return text, &documents.DocIntelMeta{Used: false}, true
	}
	if err != nil {
		telemetry.Warn("local extraction failed", map[string]any{
			"documentId": doc.ID,
			"error":      err.Error(),
		})
	}
	return "", &documents.DocIntelMeta{Used: false}, false
}

func (s *Service) readContent(ctx context.Context, doc documents.Document) ([]byte, error) {
	rc, err := s.Documents.OpenContent(ctx, doc)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func placeholderText(doc documents.Document) string {
	return fmt.Sprintf(
		"Document %q (type %s) was uploaded on %s but its text could not be extracted. Analyze based on the file name and document type only.",
		doc.FileName, doc.MimeType, doc.UploadedAt.Format("2006-01-02"),
	)
}

func (s *Service) embed(ctx context.Context, doc documents.Document, text string, timeout time.Duration) *documents.EmbeddingMeta {
	if !s.Embedder.Available() || text == "" {
		return nil
	}
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chunks := embeddings.Chunk(text, 512)
	if len(chunks) == 0 {
		return nil
	}
	batch := chunks
	if len(batch) > maxEmbedChunks {
		batch = batch[:maxEmbedChunks]
	}
	if _, err := s.Embedder.EmbedBatch(stageCtx, batch); err != nil {
		telemetry.Warn("embedding generation failed", map[string]any{
			"documentId": doc.ID,
			"error":      err.Error(),
		})
		return nil
	}
	return &documents.EmbeddingMeta{
		Generated:  true,
		Model:      s.Embedder.Model,
		Dimensions: s.Embedder.Dimensions,
		ChunkCount: len(chunks),
	}
}

// maxEmbedChunks caps how much of a large document is embedded inline;
// the analyze request should not stall on hundreds of chunks.
const maxEmbedChunks = 8

func (s *Service) runAnalysis(ctx context.Context, provider ai.Provider, doc documents.Document, text string, timeout time.Duration) ai.AnalysisResult {
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := provider.AnalyzeDocument(stageCtx, text, doc.FileName)
	if err != nil {
		telemetry.Warn("analysis failed, substituting degraded result", map[string]any{
			"documentId": doc.ID,
			"provider":   provider.Name(),
			"error":      err.Error(),
		})
		return ai.Degraded(doc.FileName)
	}
	return result
}

func (s *Service) extractBillsBestEffort(ctx context.Context, provider ai.Provider, doc documents.Document, text string, timeout time.Duration) int {
	if text == "" {
		return 0
	}
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	candidates, err := provider.ExtractLineItems(stageCtx, text, doc.FileName)
	if err != nil {
		telemetry.Warn("bill extraction failed", map[string]any{
			"documentId": doc.ID,
			"error":      err.Error(),
		})
		return 0
	}
	created, err := s.Bills.Materialize(ctx, doc.CaseID, doc.UserID, doc.ID, candidates)
	if err != nil {
		telemetry.Warn("bill materialization incomplete", map[string]any{
			"documentId": doc.ID,
			"error":      err.Error(),
		})
	}
	return len(created)
}

func (s *Service) index(ctx context.Context, doc documents.Document, text string, timeout time.Duration) bool {
	if !s.Search.Available() {
		return false
	}
	stageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.Search.Upsert(stageCtx, search.Document{
		ID:         doc.ID,
		CaseID:     doc.CaseID,
		UserID:     doc.UserID,
		FileName:   doc.FileName,
		Summary:    doc.AISummary,
		Content:    text,
		Status:     doc.ProcessingStatus,
		UploadedAt: doc.UploadedAt,
	})
	if err != nil {
		telemetry.Warn("search indexing failed", map[string]any{
			"documentId": doc.ID,
			"error":      err.Error(),
		})
		return false
	}
	return true
}
