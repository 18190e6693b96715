package render

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/yuin/goldmark"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// Ensure HTMLRenderer implements the interface.
var _ driven.DocumentRenderer = (*HTMLRenderer)(nil)

// HTMLRenderer converts the Markdown rendering to a standalone HTML page.
// Raw HTML in the source text is escaped.
type HTMLRenderer struct {
	markdown *MarkdownRenderer
	md       goldmark.Markdown
}

// NewHTMLRenderer creates an HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		markdown: NewMarkdownRenderer(),
		md:       goldmark.New(),
	}
}

// Name returns the renderer name.
func (r *HTMLRenderer) Name() string { return "html" }

// Extension returns the output file extension.
func (r *HTMLRenderer) Extension() string { return ".html" }

// Render builds the HTML page.
func (r *HTMLRenderer) Render(ctx context.Context, doc *domain.Document, paragraphs []domain.Paragraph, summary *domain.DocumentSummary) ([]byte, error) {
	source, err := r.markdown.Render(ctx, doc, paragraphs, summary)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := r.md.Convert(source, &body); err != nil {
		return nil, fmt.Errorf("convert markdown: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html lang=\"pt-BR\">\n<head>\n<meta charset=\"utf-8\">\n")
	buf.WriteString("<title>" + html.EscapeString(Title(doc)) + "</title>\n")
	buf.WriteString("</head>\n<body>\n")
	buf.Write(body.Bytes())
	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes(), nil
}
