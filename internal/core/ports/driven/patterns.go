package driven

import "github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"

// PatternLoader loads the field-extraction pattern table.
type PatternLoader interface {
	// Load returns the pattern set. Implementations return the built-in
	// set when no custom source is configured.
	Load() (*domain.PatternSet, error)
}
