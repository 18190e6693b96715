package driving

import (
	"context"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// ExtractionService classifies documents and extracts their fields.
type ExtractionService interface {
	// Classify returns the first document type whose detection pattern matches.
	Classify(text string) domain.DocumentType

	// Extract returns the fields of the document. hint is the zero
	// DocumentType when the type should be detected.
	Extract(ctx context.Context, text string, hint domain.DocumentType) *domain.ExtractedFieldSet
}
