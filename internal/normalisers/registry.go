package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

var _ driven.NormaliserRegistry = (*Registry)(nil)

// extensionMIMETypes maps the file extensions read directly to MIME types.
var extensionMIMETypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".html": "text/html",
	".htm":  "text/html",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".bmp":  "image/bmp",
}

// MIMETypeForPath returns the MIME type for a file extension, or
// application/octet-stream when unknown.
func MIMETypeForPath(path string) string {
	if mime, ok := extensionMIMETypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsImage reports whether the MIME type is a raster image that only OCR can read.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/")
}

// Registry dispatches documents to the highest priority normaliser for
// their MIME type.
type Registry struct {
	mu     sync.RWMutex
	byMIME map[string][]driven.Normaliser
}

// NewRegistry creates a registry holding the given normalisers.
func NewRegistry(normalisers ...driven.Normaliser) *Registry {
	r := &Registry{byMIME: make(map[string][]driven.Normaliser)}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser for each MIME type it supports.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mime := range n.SupportedMIMETypes() {
		list := append(r.byMIME[mime], n)
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Priority() > list[j].Priority()
		})
		r.byMIME[mime] = list
	}
}

// Normalise runs the best normaliser for raw.MIMEType.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	n, ok := r.lookup(raw.MIMEType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, raw.MIMEType)
	}
	return n.Normalise(ctx, raw)
}

// Supports reports whether a normaliser handles the MIME type.
func (r *Registry) Supports(mimeType string) bool {
	_, ok := r.lookup(mimeType)
	return ok
}

// SupportedMIMETypes returns all MIME types that can be normalised, sorted.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.byMIME))
	for mime := range r.byMIME {
		types = append(types, mime)
	}
	sort.Strings(types)
	return types
}

func (r *Registry) lookup(mimeType string) (driven.Normaliser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.byMIME[mimeType]
	if len(list) == 0 {
		return nil, false
	}
	return list[0], true
}
