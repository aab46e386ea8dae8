package cases

import "context"

var (
	ErrNotFound     = errNotFound{}
	ErrInvalidInput = errInvalidInput{}
)

type errNotFound struct{}

func (errNotFound) Error() string { return "case not found" }

type errInvalidInput struct{}

func (errInvalidInput) Error() string { return "invalid input" }

type Repo interface {
	Create(ctx context.Context, kase Case) error
	GetByID(ctx context.Context, caseID string) (Case, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Case, error)
	Update(ctx context.Context, kase Case) error
	Delete(ctx context.Context, caseID string) error
}
