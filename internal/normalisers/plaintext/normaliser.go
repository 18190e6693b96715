// Package plaintext reads text files, decoding Latin-1 when the bytes are
// not valid UTF-8.
package plaintext

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/csv",
		"text/markdown",
		"text/html",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5 // Fallback normaliser
}

// Normalise decodes the raw bytes as text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content, err := Decode(raw.Content)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", raw.URI, err)
	}

	return &driven.NormaliseResult{
		Document: normalisers.NewDocument(raw, normalisers.Title(raw), content, "text"),
	}, nil
}

// Decode returns data as a string, stripping a UTF-8 byte order mark.
// Data that is not valid UTF-8 is read as ISO-8859-1, the encoding of
// most legacy Portuguese text exports.
func Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
