package bills

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"casefile-backend/internal/cases"
)

// Service contains business logic for medical bills.
type Service struct {
	Repo  Repo
	Cases *cases.Service
}

// CreateInput carries the fields for a manually entered bill.
type CreateInput struct {
	DocumentID  string
	Provider    string
	Amount      string
	ServiceDate *time.Time
	BillDate    *time.Time
	Description string
	Insurance   string
}

func (s *Service) Create(ctx context.Context, userID, caseID string, in CreateInput) (MedicalBill, error) {
	if _, err := s.Cases.GetOwned(ctx, userID, caseID); err != nil {
		return MedicalBill{}, err
	}
	in.Provider = strings.TrimSpace(in.Provider)
	if in.Provider == "" {
		return MedicalBill{}, fmt.Errorf("%w: provider is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	bill := MedicalBill{
		ID:          uuid.NewString(),
		CaseID:      caseID,
		UserID:      userID,
		Provider:    in.Provider,
		Amount:      NormalizeAmount(in.Amount),
		ServiceDate: in.ServiceDate,
		BillDate:    in.BillDate,
		Description: strings.TrimSpace(in.Description),
		Insurance:   strings.TrimSpace(in.Insurance),
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.DocumentID != "" {
		id := in.DocumentID
		bill.DocumentID = &id
	}
	if bill.BillDate == nil {
		bill.BillDate = &now
	}
	if err := s.Repo.Create(ctx, bill); err != nil {
		return MedicalBill{}, err
	}
	return bill, nil
}

func (s *Service) ListByCase(ctx context.Context, userID, caseID string) ([]MedicalBill, error) {
	if _, err := s.Cases.GetOwned(ctx, userID, caseID); err != nil {
		return nil, err
	}
	return s.Repo.ListByCase(ctx, caseID)
}

func (s *Service) UpdateStatus(ctx context.Context, userID, billID, status string) (MedicalBill, error) {
	if !ValidStatus(status) {
		return MedicalBill{}, fmt.Errorf("%w: status must be one of pending, verified, disputed, approved", ErrInvalidInput)
	}
	bill, err := s.Repo.GetByID(ctx, billID)
	if err != nil {
		return MedicalBill{}, err
	}
	if bill.UserID != userID {
		return MedicalBill{}, ErrNotFound
	}
	if err := s.Repo.UpdateStatus(ctx, billID, status); err != nil {
		return MedicalBill{}, err
	}
	bill.Status = status
	bill.UpdatedAt = time.Now().UTC()
	return bill, nil
}

func (s *Service) Delete(ctx context.Context, userID, billID string) error {
	bill, err := s.Repo.GetByID(ctx, billID)
	if err != nil {
		return err
	}
	if bill.UserID != userID {
		return ErrNotFound
	}
	return s.Repo.Delete(ctx, billID)
}
