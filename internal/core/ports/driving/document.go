package driving

import (
	"context"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// DocumentService runs the per-file document pipeline.
type DocumentService interface {
	// ExtractText returns the text of a file.
	ExtractText(ctx context.Context, path string) (string, error)

	// Segment splits text into typed paragraphs through the configured pipeline.
	Segment(ctx context.Context, text string) ([]domain.Paragraph, error)

	// ProcessFile extracts, segments, appends the dataset record and renders outputs.
	ProcessFile(ctx context.Context, path string) domain.FileOutcome

	// ProcessDirectory processes every supported file of dir with a pool of
	// workers. Outcomes are returned in file name order.
	ProcessDirectory(ctx context.Context, dir string, workers int) ([]domain.FileOutcome, error)

	// Summarise returns the AI summary of a file.
	// Returns ErrLLMUnavailable when no summariser is configured.
	Summarise(ctx context.Context, path string) (*domain.DocumentSummary, error)
}

// SupportedExtensions lists the file extensions the document pipeline accepts.
func SupportedExtensions() []string {
	return []string{".pdf", ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".txt", ".md", ".html", ".docx"}
}
