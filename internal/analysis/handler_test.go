package analysis_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"casefile-backend/internal/ai"
	"casefile-backend/internal/bootstrap"
	"casefile-backend/internal/shared/config"
)

type routedProvider struct {
	result     ai.AnalysisResult
	candidates []ai.BillCandidate
}

func (p *routedProvider) AnalyzeDocument(_ context.Context, _, _ string) (ai.AnalysisResult, error) {
	return p.result, nil
}

func (p *routedProvider) ExtractLineItems(_ context.Context, _, _ string) ([]ai.BillCandidate, error) {
	return p.candidates, nil
}

func (p *routedProvider) GenerateLetter(_ context.Context, facts ai.LetterFacts) (string, error) {
	return "Dear " + facts.Recipient + ", we represent " + facts.ClientName + ".", nil
}

func (p *routedProvider) ChatCompletion(_ context.Context, _ []ai.ChatMessage, _ string) (string, error) {
	return "reply", nil
}

func (p *routedProvider) Name() string { return "stub" }

func TestAnalyzeEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}

	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	provider := &routedProvider{
		result: ai.AnalysisResult{
			Summary:     "Jane Doe was treated for a lumbar strain after a rear-end collision.",
			KeyFindings: []string{"Lumbar strain diagnosed"},
			ExtractedData: ai.ExtractedData{
				PatientInfo: &ai.PatientInfo{Name: "Jane Doe"},
			},
			Quality: ai.QualityFull,
		},
		candidates: []ai.BillCandidate{
			{Provider: "City Hospital", Amount: "$1,250.50", Description: "ER visit"},
		},
	}
	app.AnalysisService.NewProvider = func(_ ai.ProviderConfig) (ai.Provider, error) {
		return provider, nil
	}
	router := app.Router

	// Create a case.
	caseBody := strings.NewReader(`{"title":"Doe v. Transit Co","clientName":"Jane Doe"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cases", caseBody)
	req.Header.Set("Content-Type", "application/json")
	addUserHeader(req)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create case: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var kase struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&kase); err != nil {
		t.Fatalf("decode case: %v", err)
	}

	// Upload a document into the case.
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", "records.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte("Patient Jane Doe treated for lumbar strain. Billed $1,250.50 by City Hospital.")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/api/v1/cases/"+kase.ID+"/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addUserHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var uploaded struct {
		DocumentID string `json:"documentId"`
		Status     string `json:"processingStatus"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode upload: %v", err)
	}
	if uploaded.Status != "uploaded" {
		t.Fatalf("expected uploaded status, got %s", uploaded.Status)
	}

	// Analyze it.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+uploaded.DocumentID+"/analyze", nil)
	addUserHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("analyze: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var analyzed struct {
		Document struct {
			ProcessingStatus string `json:"processingStatus"`
			AIProcessed      bool   `json:"aiProcessed"`
		} `json:"document"`
		Analysis struct {
			Summary         string `json:"summary"`
			AnalysisQuality string `json:"analysisQuality"`
			BillsCreated    int    `json:"billsCreated"`
		} `json:"analysis"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&analyzed); err != nil {
		t.Fatalf("decode analyze: %v", err)
	}
	if analyzed.Document.ProcessingStatus != "processed" {
		t.Fatalf("expected processed, got %s", analyzed.Document.ProcessingStatus)
	}
	if !analyzed.Document.AIProcessed {
		t.Fatal("expected aiProcessed true")
	}
	if analyzed.Analysis.AnalysisQuality != "full" {
		t.Fatalf("expected full quality, got %s", analyzed.Analysis.AnalysisQuality)
	}
	if analyzed.Analysis.BillsCreated != 1 {
		t.Fatalf("expected one bill created, got %d", analyzed.Analysis.BillsCreated)
	}

	// The extracted bill is listed under the case with a normalized amount.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/cases/"+kase.ID+"/bills", nil)
	addUserHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("list bills: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var billList []struct {
		Provider string `json:"provider"`
		Amount   string `json:"amount"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&billList); err != nil {
		t.Fatalf("decode bills: %v", err)
	}
	if len(billList) != 1 {
		t.Fatalf("expected one bill, got %d", len(billList))
	}
	if billList[0].Provider != "City Hospital" || billList[0].Amount != "1250.50" || billList[0].Status != "pending" {
		t.Fatalf("unexpected bill: %+v", billList[0])
	}

	// Draft a demand letter from the accumulated facts.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/cases/"+kase.ID+"/generate-letter",
		strings.NewReader(`{"recipient":"Acme Insurance"}`))
	req.Header.Set("Content-Type", "application/json")
	addUserHeader(req)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("generate letter: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var letter struct {
		Letter string `json:"letter"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&letter); err != nil {
		t.Fatalf("decode letter: %v", err)
	}
	if !strings.Contains(letter.Letter, "Jane Doe") || !strings.Contains(letter.Letter, "Acme Insurance") {
		t.Fatalf("unexpected letter: %q", letter.Letter)
	}
}

func TestAnalyzeRequiresIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Port:            "0",
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/some-id/analyze", nil)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", resp.Code)
	}
}

func addUserHeader(req *http.Request) {
	req.Header.Set("X-User-Id", "user-e2e")
	req.Header.Set("X-User-Email", "jane@firm.example")
}
