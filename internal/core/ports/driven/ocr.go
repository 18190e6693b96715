package driven

import (
	"context"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// OCREngine recognises text in scanned documents and images.
// The backend is chosen once at configuration time.
type OCREngine interface {
	// Name returns the engine name for logging.
	Name() string

	// Backend returns which backend this engine is.
	Backend() domain.OCRBackend

	// Recognise extracts text from the file at path.
	// lang is a Tesseract language code (e.g. "por").
	// Returns ErrOCRUnavailable when the engine cannot be reached.
	Recognise(ctx context.Context, path, lang string) (*domain.OCRResult, error)

	// Close releases resources.
	Close() error
}

// TextSource turns a file path into text.
// Direct text extraction is tried first; OCR is used when it yields too little.
type TextSource interface {
	// ExtractText returns the document text.
	ExtractText(ctx context.Context, path string) (string, error)
}
