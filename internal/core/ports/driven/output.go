package driven

import (
	"context"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// DatasetWriter appends conversation records to a line-delimited dataset.
// Implementations must be safe for concurrent use; each record is one line.
type DatasetWriter interface {
	// Append writes one record as a single line.
	Append(ctx context.Context, record *domain.ConversationRecord) error

	// Path returns the dataset file path.
	Path() string

	// Close flushes and releases the file.
	Close() error
}

// TableWriter writes a batch result as a table.
type TableWriter interface {
	// Format returns the table format this writer produces.
	Format() domain.TableFormat

	// Write stores the batch table at path.
	Write(ctx context.Context, path string, result *domain.BatchResult) error
}

// DocumentRenderer renders a segmented document to a file format.
type DocumentRenderer interface {
	// Name returns the renderer name (e.g. "markdown").
	Name() string

	// Extension returns the output file extension including the dot.
	Extension() string

	// Render returns the rendered bytes. summary may be nil.
	Render(ctx context.Context, doc *domain.Document, paragraphs []domain.Paragraph, summary *domain.DocumentSummary) ([]byte, error)
}
