package bills

import (
	"context"
	"testing"
	"time"

	"casefile-backend/internal/ai"
)

func TestNormalizeAmount(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"$500", "500.00"},
		{"1,250.00", "1250.00"},
		{"$1,250.5", "1250.50"},
		{500.0, "500.00"},
		{125.456, "125.46"},
		{"", "0.00"},
		{nil, "0.00"},
		{"not a number", "0.00"},
		{"12.34.56", "0.00"},
		{"-75.00", "-75.00"},
		{"0075", "75.00"},
		{map[string]any{"v": 1}, "0.00"},
	}
	for _, tc := range cases {
		if got := NormalizeAmount(tc.in); got != tc.want {
			t.Errorf("NormalizeAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaterialize_AppliesDefaults(t *testing.T) {
	repo := NewMemoryRepo()
	m := &Materializer{Repo: repo}

	bills, err := m.Materialize(context.Background(), "case-1", "user-1", "doc-1", []ai.BillCandidate{
		{Amount: "$500"},
	})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(bills) != 1 {
		t.Fatalf("expected one bill, got %d", len(bills))
	}
	bill := bills[0]
	if bill.Provider != "Unknown Provider" {
		t.Fatalf("expected default provider, got %q", bill.Provider)
	}
	if bill.Amount != "500.00" {
		t.Fatalf("expected normalized amount, got %q", bill.Amount)
	}
	if bill.Status != StatusPending {
		t.Fatalf("expected pending status, got %q", bill.Status)
	}
	if bill.ServiceDate == nil {
		t.Fatal("expected service date defaulted to now")
	}
	if bill.BillDate == nil {
		t.Fatal("expected bill date defaulted to now")
	}
	if bill.DocumentID == nil || *bill.DocumentID != "doc-1" {
		t.Fatalf("expected document link, got %v", bill.DocumentID)
	}
}

func TestMaterialize_ParsesDatesAndStatus(t *testing.T) {
	m := &Materializer{Repo: NewMemoryRepo()}
	bills, err := m.Materialize(context.Background(), "case-1", "user-1", "doc-1", []ai.BillCandidate{
		{
			Provider:    "City Hospital",
			Amount:      1250.0,
			ServiceDate: "2024-03-15",
			BillDate:    "03/20/2024",
			Status:      StatusVerified,
		},
	})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	bill := bills[0]
	if bill.ServiceDate == nil || bill.ServiceDate.Format("2006-01-02") != "2024-03-15" {
		t.Fatalf("unexpected service date: %v", bill.ServiceDate)
	}
	if bill.BillDate == nil || bill.BillDate.Format("2006-01-02") != "2024-03-20" {
		t.Fatalf("unexpected bill date: %v", bill.BillDate)
	}
	if bill.Status != StatusVerified {
		t.Fatalf("expected verified, got %q", bill.Status)
	}
}

func TestMaterialize_UnparseableDateDefaultsToNow(t *testing.T) {
	m := &Materializer{Repo: NewMemoryRepo()}
	before := time.Now().UTC().Add(-time.Second)
	bills, err := m.Materialize(context.Background(), "case-1", "user-1", "", []ai.BillCandidate{
		{Provider: "Valley Imaging", Amount: "750", ServiceDate: "sometime last spring"},
	})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if bills[0].ServiceDate == nil || bills[0].ServiceDate.Before(before) {
		t.Fatalf("expected service date defaulted to now, got %v", bills[0].ServiceDate)
	}
	if bills[0].DocumentID != nil {
		t.Fatal("expected no document link for manual extraction")
	}
}

func TestMaterialize_InvalidCandidateSkipped(t *testing.T) {
	repo := NewMemoryRepo()
	m := &Materializer{Repo: repo}
	bills, err := m.Materialize(context.Background(), "case-1", "user-1", "doc-1", []ai.BillCandidate{
		{Provider: "Good Clinic", Amount: "100"},
		{Provider: "Bad Row", Amount: []any{"not", "valid"}},
	})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(bills) != 1 {
		t.Fatalf("expected invalid candidate skipped, got %d bills", len(bills))
	}
	if bills[0].Provider != "Good Clinic" {
		t.Fatalf("wrong survivor: %q", bills[0].Provider)
	}
}
