// Package textsource turns a file path into text. Direct extraction through
// the normaliser registry is tried first; scanned PDFs and images fall back
// to the configured OCR engine.
package textsource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/logger"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers/docx"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers/html"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers/markdown"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers/pdf"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers/plaintext"
)

// Ensure Source implements the interface.
var _ driven.TextSource = (*Source)(nil)

// DefaultRegistry returns a registry with every built-in normaliser.
func DefaultRegistry() *normalisers.Registry {
	return normalisers.NewRegistry(
		plaintext.New(),
		markdown.New(),
		html.New(),
		docx.New(),
		pdf.New(),
	)
}

// Source extracts document text.
type Source struct {
	registry  driven.NormaliserRegistry
	engine    driven.OCREngine
	language  string
	minLength int
}

// Option configures a Source.
type Option func(*Source)

// WithOCR sets the engine used for scanned documents. Without one, scanned
// documents fail with ErrOCRUnavailable.
func WithOCR(engine driven.OCREngine) Option {
	return func(s *Source) {
		s.engine = engine
	}
}

// WithLanguage sets the OCR language code.
func WithLanguage(lang string) Option {
	return func(s *Source) {
		if lang != "" {
			s.language = lang
		}
	}
}

// WithMinTextLength sets how many characters direct extraction must exceed
// before OCR is skipped.
func WithMinTextLength(n int) Option {
	return func(s *Source) {
		if n >= 0 {
			s.minLength = n
		}
	}
}

// New creates a text source over registry.
func New(registry driven.NormaliserRegistry, opts ...Option) *Source {
	s := &Source{
		registry:  registry,
		language:  domain.DefaultOCRLanguage,
		minLength: domain.MinTextLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExtractText returns the text of the file at path.
func (s *Source) ExtractText(ctx context.Context, path string) (string, error) {
	mimeType := normalisers.MIMETypeForPath(path)
	ocrCapable := mimeType == "application/pdf" || normalisers.IsImage(mimeType)

	if !normalisers.IsImage(mimeType) {
		text, err := s.direct(ctx, path, mimeType)
		switch {
		case err == nil && !ocrCapable:
			if strings.TrimSpace(text) == "" {
				return "", fmt.Errorf("%s: %w", path, domain.ErrTextTooShort)
			}
			return text, nil
		case err == nil && s.longEnough(text):
			logger.Debug("direct text extraction succeeded for %s", path)
			return text, nil
		case err != nil && !ocrCapable:
			return "", err
		case errors.Is(err, domain.ErrNotPDF), errors.Is(err, os.ErrNotExist):
			return "", err
		case err != nil:
			logger.Warn("direct extraction failed for %s: %v", path, err)
		default:
			logger.Debug("direct text of %s too short, using OCR", path)
		}
	}

	return s.recognise(ctx, path)
}

func (s *Source) direct(ctx context.Context, path, mimeType string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	res, err := s.registry.Normalise(ctx, &domain.RawDocument{
		URI:      path,
		MIMEType: mimeType,
		Content:  data,
	})
	if err != nil {
		return "", err
	}
	return res.Document.Content, nil
}

func (s *Source) recognise(ctx context.Context, path string) (string, error) {
	if s.engine == nil {
		return "", fmt.Errorf("%s: %w", path, domain.ErrOCRUnavailable)
	}

	result, err := s.engine.Recognise(ctx, path, s.language)
	if err != nil {
		return "", fmt.Errorf("%s ocr: %w", s.engine.Name(), err)
	}
	logger.Debug("%s: %d pages, %d calls in %s", s.engine.Name(),
		result.Usage.PagesProcessed, result.Usage.Calls, result.Usage.Duration)

	text := strings.TrimSpace(result.Text)
	if !s.longEnough(text) {
		return "", fmt.Errorf("%s: %w (insufficient quality)", path, domain.ErrTextTooShort)
	}
	return text, nil
}

func (s *Source) longEnough(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) > s.minLength
}
