package normalisers

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// NewDocument builds the normalised document for raw. Line endings in
// content are converted to \n.
func NewDocument(raw *domain.RawDocument, title, content, format string) domain.Document {
	metadata := copyMetadata(raw.Metadata)
	if metadata == nil {
		metadata = make(map[string]any)
	}
	metadata["mime_type"] = raw.MIMEType
	if format != "" {
		metadata["format"] = format
	}

	return domain.Document{
		ID:        uuid.New().String(),
		URI:       raw.URI,
		Title:     title,
		Content:   NormaliseNewlines(content),
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
}

// NormaliseNewlines converts CRLF and lone CR line endings to LF.
func NormaliseNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Title returns the "title" metadata entry if set, otherwise a title
// derived from the file name.
func Title(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	return TitleFromURI(raw.URI)
}

// TitleFromURI derives a human-readable title from a file name.
func TitleFromURI(uri string) string {
	filename := filepath.Base(uri)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	return strings.ReplaceAll(filename, "-", " ")
}

func copyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
