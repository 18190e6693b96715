package driven

import (
	"context"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// Enricher asks an AI service for fields the patterns did not capture.
// This is an optional service - when nil, extraction returns pattern fields only.
type Enricher interface {
	// Enrich returns additional fields for the document. Returned keys
	// overwrite existing ones when merged.
	Enrich(ctx context.Context, text string, fields *domain.ExtractedFieldSet) (map[string]any, error)
}

// Summariser produces an executive summary and table of contents.
// This is an optional service - when nil, rendered documents carry no summary.
type Summariser interface {
	// Summarise returns the summary for the document text.
	Summarise(ctx context.Context, text string) (*domain.DocumentSummary, error)
}
