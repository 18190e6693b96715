// Package xmlsafe removes characters that XML 1.0 documents cannot carry.
package xmlsafe

import (
	"context"
	"strings"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// Name is the registry name of the xmlsafe stage.
const Name = "xmlsafe"

// Processor rewrites paragraph text so it is valid XML character data.
// Paragraphs left empty are dropped.
type Processor struct {
	replacement string
}

// Option configures the processor.
type Option func(*Processor)

// WithReplacement sets the text written in place of each invalid character.
func WithReplacement(s string) Option {
	return func(p *Processor) {
		p.replacement = s
	}
}

// New creates a new xmlsafe processor.
func New(opts ...Option) *Processor {
	p := &Processor{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process sanitises each paragraph in place order.
func (p *Processor) Process(_ context.Context, _ *domain.Document, paragraphs []domain.Paragraph) ([]domain.Paragraph, error) {
	if paragraphs == nil {
		return nil, nil
	}
	out := make([]domain.Paragraph, 0, len(paragraphs))
	for _, para := range paragraphs {
		text := strings.TrimSpace(p.Sanitize(para.Text))
		if text == "" {
			continue
		}
		out = append(out, domain.Paragraph{Text: text, Kind: para.Kind})
	}
	return out, nil
}

// Sanitize replaces every rune outside the XML 1.0 Char production.
func (p *Processor) Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if IsXMLChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteString(p.replacement)
		}
	}
	return b.String()
}

// IsXMLChar reports whether r may appear in XML 1.0 character data.
func IsXMLChar(r rune) bool {
	switch {
	case r == 0x09 || r == 0x0A || r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	default:
		return false
	}
}
