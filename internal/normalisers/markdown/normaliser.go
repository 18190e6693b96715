// Package markdown extracts paragraph text from Markdown documents.
package markdown

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct {
	md goldmark.Markdown
}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{md: goldmark.New()}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise converts a markdown document to blank-line separated blocks.
// Strong emphasis keeps its ** markers; other formatting is dropped.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	src := []byte(normalisers.NormaliseNewlines(string(raw.Content)))
	blocks, heading := n.Extract(src)

	title := heading
	if title == "" {
		title = normalisers.Title(raw)
	}

	return &driven.NormaliseResult{
		Document: normalisers.NewDocument(raw, title, strings.Join(blocks, "\n\n"), "markdown"),
	}, nil
}

// Extract returns the text blocks of src and its first level-one heading.
func (n *Normaliser) Extract(src []byte) (blocks []string, title string) {
	doc := n.md.Parser().Parse(text.NewReader(src))

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.ThematicBreak:
			return ast.WalkSkipChildren, nil
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			var b strings.Builder
			writeInline(&b, node, src)
			block := strings.TrimSpace(b.String())
			if block == "" {
				return ast.WalkSkipChildren, nil
			}
			if h, ok := v.(*ast.Heading); ok && h.Level == 1 && title == "" {
				title = block
			}
			blocks = append(blocks, block)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return blocks, title
}

func writeInline(b *strings.Builder, parent ast.Node, src []byte) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		switch v := child.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		case *ast.Emphasis:
			if v.Level >= 2 {
				b.WriteString("**")
				writeInline(b, v, src)
				b.WriteString("**")
			} else {
				writeInline(b, v, src)
			}
		case *ast.AutoLink:
			b.Write(v.URL(src))
		case *ast.Image, *ast.RawHTML:
			// dropped
		default:
			writeInline(b, child, src)
		}
	}
}
