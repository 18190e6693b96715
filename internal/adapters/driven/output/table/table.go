// Package table writes batch extraction results as CSV or XLSX tables.
package table

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// New returns the writer for format.
func New(format domain.TableFormat) (driven.TableWriter, error) {
	switch format {
	case domain.TableFormatCSV:
		return NewCSVWriter(), nil
	case domain.TableFormatXLSX:
		return NewXLSXWriter(), nil
	default:
		return nil, fmt.Errorf("%w: table format %q", domain.ErrInvalidInput, format)
	}
}

// ensureDir creates the parent directory of path.
func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create table directory: %w", err)
	}
	return nil
}

// rawValue returns the typed value behind a table cell, or nil when the
// cell has no typed field.
func rawValue(row domain.BatchRow, col string) any {
	if col == domain.ColumnSourcePath || row.Result == nil {
		return nil
	}
	v, _ := row.Result.Get(col)
	return v
}
