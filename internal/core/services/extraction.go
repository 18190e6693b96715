package services

import (
	"context"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driving"
	"github.com/leo-dower/ocr-rag-super-charged/internal/logger"
)

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// maxOriginalText is the excerpt length kept for unclassified documents.
const maxOriginalText = 500

// ExtractionService classifies documents and extracts typed fields.
type ExtractionService struct {
	patterns *domain.PatternSet
	enricher driven.Enricher // Optional; nil disables enrichment.
}

// ExtractionOption configures an ExtractionService.
type ExtractionOption func(*ExtractionService)

// WithEnricher enables AI enrichment after pattern extraction.
func WithEnricher(e driven.Enricher) ExtractionOption {
	return func(s *ExtractionService) {
		s.enricher = e
	}
}

// NewExtractionService creates an extraction service. A nil pattern set
// uses the built-in patterns.
func NewExtractionService(patterns *domain.PatternSet, opts ...ExtractionOption) *ExtractionService {
	if patterns == nil {
		patterns = domain.DefaultPatternSet()
	}
	s := &ExtractionService{patterns: patterns}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Classify returns the first configured type whose detection pattern
// matches. Legal is probed before fiscal before banking.
func (s *ExtractionService) Classify(text string) domain.DocumentType {
	for _, tp := range s.patterns.Types() {
		if tp.Detect.MatchString(text) {
			return tp.Type
		}
	}
	return domain.DocumentTypeUnclassified
}

// Extract returns the fields of the document. The zero hint triggers
// classification. Enrichment errors are logged and the pattern result is kept.
func (s *ExtractionService) Extract(ctx context.Context, text string, hint domain.DocumentType) *domain.ExtractedFieldSet {
	docType := hint
	if !docType.IsValid() {
		if docType != "" {
			logger.Warn("ignoring unknown document type hint %q", hint)
		}
		docType = s.Classify(text)
	}

	tp, ok := s.patterns.Lookup(docType)
	if !ok {
		result := domain.NewExtractedFieldSet(domain.DocumentTypeUnclassified)
		result.Set(domain.FieldOriginalText, domain.Truncate(text, maxOriginalText))
		return result
	}

	result := domain.NewExtractedFieldSet(docType)
	for _, field := range tp.Fields {
		m := field.Pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := m[0]
		if len(m) > 1 {
			raw = m[1]
		}
		if value, keep := normalizeField(field.Name, raw); keep {
			result.Set(field.Name, value)
		}
	}

	if s.enricher == nil {
		return result
	}
	return s.enrich(ctx, text, result)
}

func (s *ExtractionService) enrich(ctx context.Context, text string, fields *domain.ExtractedFieldSet) *domain.ExtractedFieldSet {
	extra, err := s.enricher.Enrich(ctx, text, fields.Clone())
	if err != nil {
		logger.Error("AI enrichment failed: %v", err)
		return fields
	}
	if len(extra) == 0 {
		return fields
	}
	enriched := fields.Clone()
	enriched.Merge(extra)
	enriched.Enriched = true
	return enriched
}
