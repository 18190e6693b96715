// Package ocr selects the OCR engine configured in settings.
//
// Engines:
//   - tesseract: local recognition through gosseract
//   - mistral: Mistral OCR API
//   - documentai: Google Document AI
package ocr

import (
	"context"
	"fmt"

	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/ocr/documentai"
	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/ocr/mistral"
	"github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/ocr/tesseract"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// NewEngine creates the engine for settings.Backend. Settings are expected
// to have environment credentials applied already.
func NewEngine(ctx context.Context, settings domain.OCRSettings) (driven.OCREngine, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: OCR backend %q is missing credentials. Run 'ocrsc settings wizard' to fix",
			domain.ErrOCRUnavailable, settings.Backend)
	}

	switch settings.Backend {
	case domain.OCRBackendLocal:
		return tesseract.New(), nil

	case domain.OCRBackendMistral:
		engine, err := mistral.New(mistral.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			RequestsPerSecond: settings.RateLimit,
		})
		if err != nil {
			return nil, err
		}
		return engine, nil

	case domain.OCRBackendDocumentAI:
		engine, err := documentai.New(ctx, settings.DocumentAI, settings.RateLimit)
		if err != nil {
			return nil, err
		}
		return engine, nil

	default:
		return nil, fmt.Errorf("%w: unsupported OCR backend: %s", domain.ErrInvalidInput, settings.Backend)
	}
}
