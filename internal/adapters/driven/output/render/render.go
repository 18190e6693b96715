package render

import (
	"fmt"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// ForSettings returns the renderers enabled in settings, Markdown first.
func ForSettings(settings domain.OutputSettings) []driven.DocumentRenderer {
	var renderers []driven.DocumentRenderer
	if settings.Markdown {
		renderers = append(renderers, NewMarkdownRenderer())
	}
	if settings.HTML {
		renderers = append(renderers, NewHTMLRenderer())
	}
	return renderers
}

// ByName returns the renderer called name.
func ByName(name string) (driven.DocumentRenderer, error) {
	switch name {
	case "markdown", "md":
		return NewMarkdownRenderer(), nil
	case "html":
		return NewHTMLRenderer(), nil
	default:
		return nil, fmt.Errorf("%w: renderer %q", domain.ErrInvalidInput, name)
	}
}
