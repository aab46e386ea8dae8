package bills

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"casefile-backend/internal/ai"
	"casefile-backend/internal/shared/telemetry"
)

// Schema the model's line items must satisfy before they become bill
// rows. Candidates that fail are skipped, never fatal.
const candidateSchema = `{
  "type": "object",
  "properties": {
    "provider":    {"type": "string"},
    "amount":      {"type": ["number", "string", "null"]},
    "serviceDate": {"type": ["string", "null"]},
    "billDate":    {"type": ["string", "null"]},
    "description": {"type": ["string", "null"]},
    "insurance":   {"type": ["string", "null"]},
    "status":      {"type": ["string", "null"]}
  }
}`

var compiledCandidateSchema = jsonschema.MustCompileString("candidate.json", candidateSchema)

var reAmountChars = regexp.MustCompile(`[^0-9.\-]`)

const defaultProvider = "Unknown Provider"

// Materializer turns AI-extracted bill candidates into persisted
// medical bills with the documented defaults filled in.
type Materializer struct {
	Repo Repo
}

// Materialize validates and persists each candidate. Invalid
// candidates are logged and skipped; the survivors are returned.
func (m *Materializer) Materialize(ctx context.Context, caseID, userID, documentID string, candidates []ai.BillCandidate) ([]MedicalBill, error) {
	out := make([]MedicalBill, 0, len(candidates))
	for i, cand := range candidates {
		if err := validateCandidate(cand); err != nil {
			telemetry.Warn("skipping invalid bill candidate", map[string]any{
				"documentId": documentID,
				"index":      i,
				"error":      err.Error(),
			})
			continue
		}
		bill := fromCandidate(cand, caseID, userID, documentID)
		if err := m.Repo.Create(ctx, bill); err != nil {
			return out, fmt.Errorf("persist bill: %w", err)
		}
		out = append(out, bill)
	}
	return out, nil
}

func validateCandidate(cand ai.BillCandidate) error {
	raw, err := json.Marshal(cand)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return compiledCandidateSchema.Validate(v)
}

func fromCandidate(cand ai.BillCandidate, caseID, userID, documentID string) MedicalBill {
	now := time.Now().UTC()
	bill := MedicalBill{
		ID:          uuid.NewString(),
		CaseID:      caseID,
		UserID:      userID,
		Provider:    strings.TrimSpace(cand.Provider),
		Amount:      NormalizeAmount(cand.Amount),
		ServiceDate: parseCandidateDate(cand.ServiceDate),
		BillDate:    parseCandidateDate(cand.BillDate),
		Description: strings.TrimSpace(cand.Description),
		Insurance:   strings.TrimSpace(cand.Insurance),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if documentID != "" {
		id := documentID
		bill.DocumentID = &id
	}
	if bill.Provider == "" {
		bill.Provider = defaultProvider
	}
	if bill.ServiceDate == nil {
		bill.ServiceDate = &now
	}
	if bill.BillDate == nil {
		bill.BillDate = &now
	}
	if ValidStatus(cand.Status) {
		bill.Status = cand.Status
	}
	return bill
}

// NormalizeAmount renders a model-supplied amount as a plain decimal
// string with two fraction digits. Anything unusable becomes "0.00".
func NormalizeAmount(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		return "0.00"
	case string:
		s = v
	case float64:
		return fmt.Sprintf("%.2f", v)
	case int:
		return fmt.Sprintf("%d.00", v)
	case json.Number:
		s = v.String()
	default:
		return "0.00"
	}

	s = reAmountChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || s == "." {
		return "0.00"
	}
	if strings.Count(s, ".") > 1 {
		return "0.00"
	}

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if strings.Contains(s, "-") {
		return "0.00"
	}

	whole, frac, _ := strings.Cut(s, ".")
	whole = strings.TrimLeft(whole, "0")
	if whole == "" {
		whole = "0"
	}
	switch {
	case len(frac) == 0:
		frac = "00"
	case len(frac) == 1:
		frac += "0"
	case len(frac) > 2:
		frac = frac[:2]
	}
	out := whole + "." + frac
	if neg && out != "0.00" {
		out = "-" + out
	}
	return out
}

var candidateDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	time.RFC3339,
}

func parseCandidateDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range candidateDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
