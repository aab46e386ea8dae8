package documents

import "context"

var (
	ErrNotFound     = errNotFound{}
	ErrInvalidInput = errInvalidInput{}
	ErrForbidden    = errForbidden{}
)

type errNotFound struct{}

func (errNotFound) Error() string { return "document not found" }

type errInvalidInput struct{}

func (errInvalidInput) Error() string { return "invalid input" }

type errForbidden struct{}

func (errForbidden) Error() string { return "document belongs to another user" }

// Repo defines persistence operations for documents.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	ListByCase(ctx context.Context, caseID string) ([]Document, error)
	SetStatus(ctx context.Context, documentID, status, processingError string) error
	// SaveAnalysis persists every pipeline-derived field in one write.
	SaveAnalysis(ctx context.Context, doc Document) error
	Delete(ctx context.Context, documentID string) error
}
