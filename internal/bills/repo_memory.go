package bills

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	bills map[string]MedicalBill
}

var _ Repo = (*MemoryRepo)(nil)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{bills: make(map[string]MedicalBill)}
}

func (r *MemoryRepo) Create(ctx context.Context, bill MedicalBill) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bills[bill.ID] = bill
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, billID string) (MedicalBill, error) {
	if err := ctx.Err(); err != nil {
		return MedicalBill{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	bill, ok := r.bills[billID]
	if !ok {
		return MedicalBill{}, ErrNotFound
	}
	return bill, nil
}

func (r *MemoryRepo) ListByCase(ctx context.Context, caseID string) ([]MedicalBill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MedicalBill, 0)
	for _, bill := range r.bills {
		if bill.CaseID == caseID {
			out = append(out, bill)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, billID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	bill, ok := r.bills[billID]
	if !ok {
		return ErrNotFound
	}
	bill.Status = status
	bill.UpdatedAt = time.Now().UTC()
	r.bills[billID] = bill
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, billID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bills[billID]; !ok {
		return ErrNotFound
	}
	delete(r.bills, billID)
	return nil
}
