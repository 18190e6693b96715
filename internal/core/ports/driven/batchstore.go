package driven

import (
	"context"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// BatchStore persists batch runs.
// This is an optional store - when nil, batches are not recorded.
type BatchStore interface {
	// Save stores a batch result, replacing any run with the same ID.
	Save(ctx context.Context, result *domain.BatchResult) error

	// Get retrieves a batch result by ID.
	// Returns ErrNotFound if the batch does not exist.
	Get(ctx context.Context, id string) (*domain.BatchResult, error)

	// List returns stored runs, newest first.
	List(ctx context.Context) ([]domain.BatchSummary, error)

	// Delete removes a batch run.
	Delete(ctx context.Context, id string) error
}
