package driving

import (
	"context"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// BatchService runs extraction over many documents.
type BatchService interface {
	// ProcessBatch extracts every document in input order. Failed documents
	// are recorded and skipped. On cancellation the partial result is
	// returned together with the context error.
	ProcessBatch(ctx context.Context, paths []string) (*domain.BatchResult, error)

	// List returns stored batch runs, newest first.
	List(ctx context.Context) ([]domain.BatchSummary, error)

	// Get returns a stored batch run.
	Get(ctx context.Context, id string) (*domain.BatchResult, error)
}
