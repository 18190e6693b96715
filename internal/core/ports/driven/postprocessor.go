package driven

import (
	"context"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// PostProcessor transforms document text into typed paragraphs.
// PostProcessors are chained in a pipeline (segmentation, sanitising).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and the paragraphs so far.
	// A processor that creates paragraphs (the segmenter) receives nil and
	// returns new paragraphs; later stages receive and return paragraphs.
	Process(ctx context.Context, doc *domain.Document, paragraphs []domain.Paragraph) ([]domain.Paragraph, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Paragraph, error)
}
