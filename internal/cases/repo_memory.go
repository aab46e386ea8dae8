package cases

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	cases map[string]Case
}

var _ Repo = (*MemoryRepo)(nil)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{cases: make(map[string]Case)}
}

func (r *MemoryRepo) Create(ctx context.Context, kase Case) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cases[kase.ID] = kase
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, caseID string) (Case, error) {
	if err := ctx.Err(); err != nil {
		return Case{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	kase, ok := r.cases[caseID]
	if !ok {
		return Case{}, ErrNotFound
	}
	return kase, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Case, 0)
	for _, kase := range r.cases {
		if kase.UserID == userID {
			out = append(out, kase)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Case{}, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, kase Case) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.cases[kase.ID]
	if !ok {
		return ErrNotFound
	}
	kase.CreatedAt = existing.CreatedAt
	kase.UpdatedAt = time.Now().UTC()
	r.cases[kase.ID] = kase
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, caseID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cases[caseID]; !ok {
		return ErrNotFound
	}
	delete(r.cases, caseID)
	return nil
}
