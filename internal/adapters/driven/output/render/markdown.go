// Package render turns segmented paragraphs into readable documents.
package render

import (
	"bytes"
	"context"
	"html"
	"path/filepath"
	"strings"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// Section titles of the summary block.
const (
	SummaryHeading = "Sumário Executivo"
	TOCHeading     = "Tabela de Conteúdo"
)

// Ensure MarkdownRenderer implements the interface.
var _ driven.DocumentRenderer = (*MarkdownRenderer)(nil)

// MarkdownRenderer writes paragraphs as Markdown. Headings become level two
// headings, articles and emphasised paragraphs are bold.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a Markdown renderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Name returns the renderer name.
func (r *MarkdownRenderer) Name() string { return "markdown" }

// Extension returns the output file extension.
func (r *MarkdownRenderer) Extension() string { return ".md" }

// Render builds the Markdown document. A non-empty summary is placed before
// the paragraphs.
func (r *MarkdownRenderer) Render(ctx context.Context, doc *domain.Document, paragraphs []domain.Paragraph, summary *domain.DocumentSummary) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("# Documento: " + Title(doc) + "\n\n")

	if summary != nil && !summary.IsEmpty() {
		writeSummary(&buf, summary)
	}

	for _, p := range paragraphs {
		text := cleanText(p.Text)
		if text == "" {
			continue
		}
		switch p.Kind {
		case domain.ParagraphHeading:
			buf.WriteString("## " + strings.ReplaceAll(text, "\n", " "))
		case domain.ParagraphArticle, domain.ParagraphEmphasis:
			buf.WriteString("**" + text + "**")
		default:
			buf.WriteString(text)
		}
		buf.WriteString("\n\n")
	}

	return append(bytes.TrimRight(buf.Bytes(), "\n"), '\n'), nil
}

func writeSummary(buf *bytes.Buffer, summary *domain.DocumentSummary) {
	if s := strings.TrimSpace(summary.Summary); s != "" {
		buf.WriteString("## " + SummaryHeading + "\n\n" + s + "\n\n")
	}
	if toc := strings.TrimSpace(summary.TableOfContents); toc != "" {
		buf.WriteString("## " + TOCHeading + "\n\n")
		if strings.HasPrefix(toc, "{") || strings.HasPrefix(toc, "[") {
			buf.WriteString("```json\n" + toc + "\n```\n\n")
		} else {
			buf.WriteString(toc + "\n\n")
		}
	}
	buf.WriteString("---\n\n")
}

// Title returns the document title, falling back to the file name.
func Title(doc *domain.Document) string {
	if doc == nil {
		return ""
	}
	if doc.Title != "" {
		return doc.Title
	}
	return filepath.Base(doc.URI)
}

// cleanText decodes HTML entities and drops bold markers, which the
// renderer reapplies per paragraph kind.
func cleanText(s string) string {
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "**", "")
	return strings.TrimSpace(s)
}
