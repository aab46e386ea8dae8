package ai

import (
	"encoding/json"

	"casefile-backend/internal/shared/telemetry"
)

// fallbackSummary is substituted whenever the model's JSON cannot be used.
const fallbackSummary = "Document analyzed successfully."

// parseAnalysis converts raw model output into a well-typed AnalysisResult.
// Parse failures and missing keys yield safe defaults instead of errors; a
// half-parsed object never reaches the caller. Shape deviations are logged.
func parseAnalysis(raw, provider string) AnalysisResult {
	result := AnalysisResult{
		Summary:     fallbackSummary,
		KeyFindings: []string{},
		Quality:     QualityFull,
	}

	var envelope struct {
		Summary       string          `json:"summary"`
		ExtractedData json.RawMessage `json:"extractedData"`
		KeyFindings   []string        `json:"keyFindings"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		telemetry.Warn("llm.analysis.parse_failed", map[string]any{
			"provider": provider,
			"error":    err.Error(),
		})
		return result
	}

	var deviations []string
	if envelope.Summary != "" {
		result.Summary = envelope.Summary
	} else {
		deviations = append(deviations, "summary")
	}

	if len(envelope.ExtractedData) > 0 {
		var extracted ExtractedData
		if err := json.Unmarshal(envelope.ExtractedData, &extracted); err != nil {
			deviations = append(deviations, "extractedData")
		} else {
			result.ExtractedData = extracted
		}
	} else {
		deviations = append(deviations, "extractedData")
	}

	if envelope.KeyFindings != nil {
		result.KeyFindings = envelope.KeyFindings
	} else if len(result.ExtractedData.KeyFindings) > 0 {
		result.KeyFindings = result.ExtractedData.KeyFindings
	} else {
		deviations = append(deviations, "keyFindings")
	}

	if len(deviations) > 0 {
		telemetry.Warn("llm.analysis.shape_deviation", map[string]any{
			"provider": provider,
			"missing":  deviations,
		})
	}
	return result
}

// parseBillCandidates accepts either a top-level array or an object with a
// "bills" array; any other shape yields an empty slice. Line-item extraction
// is always best-effort.
func parseBillCandidates(raw, provider string) []BillCandidate {
	var direct []BillCandidate
	if err := json.Unmarshal([]byte(raw), &direct); err == nil {
		return direct
	}

	var wrapped struct {
		Bills []BillCandidate `json:"bills"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil && wrapped.Bills != nil {
		return wrapped.Bills
	}

	telemetry.Warn("llm.bills.shape_deviation", map[string]any{
		"provider": provider,
	})
	return []BillCandidate{}
}

// Degraded builds the fallback analysis substituted when the LLM stage fails.
// Keeping it in one place makes the fallback behavior testable on its own.
func Degraded(fileName string) AnalysisResult {
	return AnalysisResult{
		Summary: "Automated analysis was unavailable for " + fileName +
			". The document was stored and can be re-analyzed once an AI provider is reachable.",
		ExtractedData: ExtractedData{},
		KeyFindings:   []string{},
		Quality:       QualityDegraded,
	}
}
