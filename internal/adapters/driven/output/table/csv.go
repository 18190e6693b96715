package table

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// Ensure CSVWriter implements the interface.
var _ driven.TableWriter = (*CSVWriter)(nil)

// CSVWriter writes a UTF-8 comma separated table with a header row.
type CSVWriter struct{}

// NewCSVWriter creates a CSV table writer.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Format returns csv.
func (w *CSVWriter) Format() domain.TableFormat {
	return domain.TableFormatCSV
}

// Write replaces path with the batch table.
func (w *CSVWriter) Write(ctx context.Context, path string, result *domain.BatchResult) error {
	if result == nil {
		return fmt.Errorf("%w: nil batch result", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(result.Columns()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(result.Table()); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return f.Close()
}
