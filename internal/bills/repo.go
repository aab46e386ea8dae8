package bills

import "context"

var (
	ErrNotFound     = errNotFound{}
	ErrInvalidInput = errInvalidInput{}
)

type errNotFound struct{}

func (errNotFound) Error() string { return "bill not found" }

type errInvalidInput struct{}

func (errInvalidInput) Error() string { return "invalid input" }

type Repo interface {
	Create(ctx context.Context, bill MedicalBill) error
	GetByID(ctx context.Context, billID string) (MedicalBill, error)
	ListByCase(ctx context.Context, caseID string) ([]MedicalBill, error)
	UpdateStatus(ctx context.Context, billID, status string) error
	Delete(ctx context.Context, billID string) error
}
