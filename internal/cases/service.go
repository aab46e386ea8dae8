package cases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service contains business logic for cases.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// CreateInput carries the client-supplied fields for a new case.
type CreateInput struct {
	Title        string
	ClientName   string
	IncidentDate *time.Time
	Description  string
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Case, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.ClientName = strings.TrimSpace(in.ClientName)
	if in.Title == "" {
		return Case{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.ClientName == "" {
		return Case{}, fmt.Errorf("%w: clientName is required", ErrInvalidInput)
	}

	kase := Case{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        in.Title,
		ClientName:   in.ClientName,
		IncidentDate: in.IncidentDate,
		Status:       StatusOpen,
		Description:  strings.TrimSpace(in.Description),
		CreatedAt:    time.Now().UTC(),
	}
	kase.UpdatedAt = kase.CreatedAt
	if err := s.Repo.Create(ctx, kase); err != nil {
		return Case{}, err
	}
	return kase, nil
}

// GetOwned fetches a case and verifies the caller owns it. A case
// owned by someone else reads as not found so IDs do not leak.
func (s *Service) GetOwned(ctx context.Context, userID, caseID string) (Case, error) {
	kase, err := s.Repo.GetByID(ctx, caseID)
	if err != nil {
		return Case{}, err
	}
	if kase.UserID != userID {
		return Case{}, ErrNotFound
	}
	return kase, nil
}

func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Case, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// UpdateInput carries a partial case update; nil fields keep the
// stored value.
type UpdateInput struct {
	Title        *string
	ClientName   *string
	IncidentDate *time.Time
	Status       *string
	Description  *string
}

func (s *Service) Update(ctx context.Context, userID, caseID string, in UpdateInput) (Case, error) {
	kase, err := s.GetOwned(ctx, userID, caseID)
	if err != nil {
		return Case{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return Case{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		kase.Title = title
	}
	if in.ClientName != nil {
		name := strings.TrimSpace(*in.ClientName)
		if name == "" {
			return Case{}, fmt.Errorf("%w: clientName cannot be empty", ErrInvalidInput)
		}
		kase.ClientName = name
	}
	if in.IncidentDate != nil {
		kase.IncidentDate = in.IncidentDate
	}
	if in.Status != nil {
		if !ValidStatus(*in.Status) {
			return Case{}, fmt.Errorf("%w: status must be one of open, settled, closed", ErrInvalidInput)
		}
		kase.Status = *in.Status
	}
	if in.Description != nil {
		kase.Description = strings.TrimSpace(*in.Description)
	}

	if err := s.Repo.Update(ctx, kase); err != nil {
		return Case{}, err
	}
	kase.UpdatedAt = time.Now().UTC()
	return kase, nil
}

func (s *Service) Delete(ctx context.Context, userID, caseID string) error {
	if _, err := s.GetOwned(ctx, userID, caseID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, caseID)
}
