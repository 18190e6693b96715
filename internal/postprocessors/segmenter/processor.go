// Package segmenter splits document text into typed paragraphs.
package segmenter

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// Name is the registry name of the segmenter stage.
const Name = "segmenter"

// DefaultMinLength is the rune count a block must exceed to be kept.
const DefaultMinLength = 10

var (
	blockSeparator = regexp.MustCompile(`\n{2,}`)
	headingPattern = regexp.MustCompile(`(?i)^(TÍTULO|CAPÍTULO|SEÇÃO)\s+[IVXLCDM0-9]+`)
	articlePattern = regexp.MustCompile(`(?i)(artigo|art\.?)\s*\d+º?`)
)

// Processor segments document content into paragraphs.
// It implements the PostProcessor interface.
type Processor struct {
	minLength int
}

// Option configures the segmenter.
type Option func(*Processor)

// WithMinLength sets the rune count a block must exceed to be kept.
func WithMinLength(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.minLength = n
		}
	}
}

// New creates a new segmenter with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{minLength: DefaultMinLength}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process segments the document content.
// Input paragraphs are ignored; the segmenter always starts from the raw text.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Paragraph) ([]domain.Paragraph, error) {
	return p.Segment(doc.Content), nil
}

// Segment splits text on blank lines and classifies each surviving block.
func (p *Processor) Segment(text string) []domain.Paragraph {
	if text == "" {
		return nil
	}

	var paragraphs []domain.Paragraph
	for _, block := range blockSeparator.Split(text, -1) {
		block = strings.TrimSpace(block)
		if !p.keep(block) {
			continue
		}
		clean := strings.TrimSpace(strings.ReplaceAll(block, "\n", " "))
		paragraphs = append(paragraphs, domain.Paragraph{Text: clean, Kind: Classify(clean)})
	}
	return paragraphs
}

// Segment splits text with the default minimum length.
func Segment(text string) []domain.Paragraph {
	return New().Segment(text)
}

// Classify returns the kind of a cleaned paragraph. Heading wins over
// article, and article over emphasis.
func Classify(text string) domain.ParagraphKind {
	switch {
	case headingPattern.MatchString(text):
		return domain.ParagraphHeading
	case articlePattern.MatchString(text):
		return domain.ParagraphArticle
	case strings.Contains(text, "**"):
		return domain.ParagraphEmphasis
	default:
		return domain.ParagraphNormal
	}
}

func (p *Processor) keep(block string) bool {
	if block == "" || utf8.RuneCountInString(block) <= p.minLength {
		return false
	}
	return strings.IndexFunc(block, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}
