package ai

import (
	"strings"
	"testing"
)

func TestParseAnalysis_CompleteResponse(t *testing.T) {
	raw := `{
		"summary": "Lumbar strain following a rear-end collision.",
		"extractedData": {
			"patientInfo": {"name": "Jane Doe", "dateOfBirth": "1990-01-01"},
			"medicalInfo": {"diagnoses": [{"code": "S39.012A", "narrative": "lumbar strain"}]}
		},
		"keyFindings": ["Lumbar strain diagnosed"]
	}`
	result := parseAnalysis(raw, "openai")
	if result.Summary != "Lumbar strain following a rear-end collision." {
		t.Fatalf("unexpected summary: %q", result.Summary)
	}
	if result.ExtractedData.PatientInfo == nil || result.ExtractedData.PatientInfo.Name != "Jane Doe" {
		t.Fatalf("expected patient name, got %+v", result.ExtractedData.PatientInfo)
	}
	if len(result.KeyFindings) != 1 {
		t.Fatalf("expected one key finding, got %d", len(result.KeyFindings))
	}
	if result.Quality != QualityFull {
		t.Fatalf("expected full quality, got %s", result.Quality)
	}
}

func TestParseAnalysis_InvalidJSONYieldsDefaults(t *testing.T) {
	result := parseAnalysis("not json at all", "openai")
	if result.Summary != fallbackSummary {
		t.Fatalf("expected fallback summary, got %q", result.Summary)
	}
	if result.KeyFindings == nil || len(result.KeyFindings) != 0 {
		t.Fatalf("expected empty key findings, got %v", result.KeyFindings)
	}
}

func TestParseAnalysis_MissingKeysYieldDefaults(t *testing.T) {
	result := parseAnalysis(`{"unrelated": true}`, "azure")
	if result.Summary != fallbackSummary {
		t.Fatalf("expected fallback summary, got %q", result.Summary)
	}
	if result.ExtractedData.PatientInfo != nil {
		t.Fatalf("expected empty extracted data")
	}
	if result.KeyFindings == nil {
		t.Fatal("key findings must never be nil")
	}
}

func TestParseBillCandidates_TopLevelArray(t *testing.T) {
	raw := `[{"provider": "City Hospital", "amount": 500, "serviceDate": "2024-01-01"}]`
	bills := parseBillCandidates(raw, "openai")
	if len(bills) != 1 {
		t.Fatalf("expected one candidate, got %d", len(bills))
	}
	if bills[0].Provider != "City Hospital" {
		t.Fatalf("unexpected provider: %q", bills[0].Provider)
	}
}

func TestParseBillCandidates_WrappedObject(t *testing.T) {
	raw := `{"bills": [{"provider": "Valley Imaging", "amount": "1,250.00"}]}`
	bills := parseBillCandidates(raw, "azure")
	if len(bills) != 1 {
		t.Fatalf("expected one candidate, got %d", len(bills))
	}
}

func TestParseBillCandidates_OtherShapeYieldsEmpty(t *testing.T) {
	for _, raw := range []string{`{"total": 500}`, `"just a string"`, `42`, `broken`} {
		bills := parseBillCandidates(raw, "openai")
		if bills == nil {
			t.Fatalf("raw %q: expected empty slice, got nil", raw)
		}
		if len(bills) != 0 {
			t.Fatalf("raw %q: expected no candidates, got %d", raw, len(bills))
		}
	}
}

func TestDegraded_ShapeIsComplete(t *testing.T) {
	result := Degraded("records.pdf")
	if result.Summary == "" {
		t.Fatal("degraded summary must be non-empty")
	}
	if !strings.Contains(result.Summary, "records.pdf") {
		t.Fatalf("degraded summary should name the file: %q", result.Summary)
	}
	if result.KeyFindings == nil {
		t.Fatal("degraded key findings must be non-nil")
	}
	if result.Quality != QualityDegraded {
		t.Fatalf("expected degraded quality, got %s", result.Quality)
	}
}
