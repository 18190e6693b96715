// Package jsonl appends conversation records to a line-delimited dataset.
package jsonl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// Ensure Writer implements the interface.
var _ driven.DatasetWriter = (*Writer)(nil)

// Writer appends one JSON object per line. Appends are serialised so lines
// from concurrent workers never interleave.
type Writer struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	closed bool
}

// New returns a writer that opens path on the first Append.
func New(path string) *Writer {
	return &Writer{path: path}
}

// Open opens path for appending, creating it and its directory if needed.
func Open(path string) (*Writer, error) {
	w := New(path)
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) open() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	w.file = f
	return nil
}

// Append writes record as a single line.
func (w *Writer) Append(ctx context.Context, record *domain.ConversationRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := Encode(record)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("dataset %s is closed", w.path)
	}
	if w.file == nil {
		if err := w.open(); err != nil {
			return err
		}
	}
	if _, err := w.file.Write(line); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	return nil
}

// Path returns the dataset file path.
func (w *Writer) Path() string {
	return w.path
}

// Close flushes and releases the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// Encode renders record as one newline-terminated line. Non-ASCII text is
// kept as UTF-8 and HTML characters are not escaped.
func Encode(record *domain.ConversationRecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("%w: nil record", domain.ErrInvalidInput)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(record); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return buf.Bytes(), nil
}
