package bills

import "time"

const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusDisputed = "disputed"
	StatusApproved = "approved"
)

// MedicalBill is a billing line item attached to a case. Amounts are
// kept as decimal strings so no float rounding leaks into totals.
type MedicalBill struct {
	ID          string     `json:"id"`
	CaseID      string     `json:"caseId"`
	UserID      string     `json:"-"`
	DocumentID  *string    `json:"documentId,omitempty"`
	Provider    string     `json:"provider"`
	Amount      string     `json:"amount"`
	ServiceDate *time.Time `json:"serviceDate,omitempty"`
	BillDate    *time.Time `json:"billDate,omitempty"`
	Description string     `json:"description,omitempty"`
	Insurance   string     `json:"insurance,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusVerified, StatusDisputed, StatusApproved:
		return true
	}
	return false
}
