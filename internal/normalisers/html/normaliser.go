package html

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Generic MIME normaliser, higher than plaintext
}

// Normalise converts an HTML document to blank-line separated blocks.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	root, err := html.Parse(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", raw.URI, err)
	}

	title := findTitle(root)
	if title == "" {
		title = normalisers.Title(raw)
	}

	e := &extractor{}
	e.walk(root)
	e.flush()

	return &driven.NormaliseResult{
		Document: normalisers.NewDocument(raw, title, strings.Join(e.blocks, "\n\n"), "html"),
	}, nil
}

// skipped elements contribute no text.
var skipped = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Svg:      true,
	atom.Template: true,
}

// block elements end the current text block.
var block = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Tr: true, atom.Blockquote: true, atom.Pre: true,
	atom.Table: true, atom.Ul: true, atom.Ol: true, atom.Hr: true, atom.Br: true,
	atom.Header: true, atom.Footer: true, atom.Main: true, atom.Dd: true, atom.Dt: true,
}

type extractor struct {
	current strings.Builder
	blocks  []string
}

func (e *extractor) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		e.current.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
		if block[n.DataAtom] {
			e.flush()
			defer e.flush()
		}
		if n.DataAtom == atom.Strong || n.DataAtom == atom.B {
			e.current.WriteString("**")
			defer e.current.WriteString("**")
		}
	case html.CommentNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.walk(c)
	}
}

// flush closes the current block, collapsing whitespace.
func (e *extractor) flush() {
	text := strings.Join(strings.Fields(e.current.String()), " ")
	e.current.Reset()
	if strings.Trim(text, "* ") == "" {
		return
	}
	e.blocks = append(e.blocks, text)
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.Title {
		var b strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
		return strings.TrimSpace(b.String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}
