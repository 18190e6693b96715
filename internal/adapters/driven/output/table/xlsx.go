package table

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// SheetName is the worksheet holding the extraction table.
const SheetName = "Dados"

const (
	minColWidth = 10
	maxColWidth = 60
)

// Ensure XLSXWriter implements the interface.
var _ driven.TableWriter = (*XLSXWriter)(nil)

// XLSXWriter writes the table as an Excel workbook. Currency fields are
// stored as numbers, everything else as text.
type XLSXWriter struct{}

// NewXLSXWriter creates an XLSX table writer.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Format returns xlsx.
func (w *XLSXWriter) Format() domain.TableFormat {
	return domain.TableFormatXLSX
}

// Write replaces path with the batch workbook.
func (w *XLSXWriter) Write(ctx context.Context, path string, result *domain.BatchResult) error {
	if result == nil {
		return fmt.Errorf("%w: nil batch result", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := Workbook(result)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}
	return nil
}

// Workbook builds the in-memory workbook for result.
func Workbook(result *domain.BatchResult) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(SheetName)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	cols := result.Columns()
	widths := make([]int, len(cols))
	var writeErr error
	write := func(col, row int, v any) {
		if writeErr != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err == nil {
			err = f.SetCellValue(SheetName, cell, v)
		}
		if err != nil {
			writeErr = fmt.Errorf("xlsx cell %d,%d: %w", col+1, row, err)
		}
	}

	for i, name := range cols {
		write(i, 1, name)
		widths[i] = utf8.RuneCountInString(name)
	}

	for r, record := range result.Table() {
		row := result.Rows[r]
		for i, text := range record {
			switch v := rawValue(row, cols[i]).(type) {
			case float64:
				write(i, r+2, v)
			case time.Time:
				write(i, r+2, v.Format(domain.DateLayout))
			default:
				write(i, r+2, text)
			}
			if n := utf8.RuneCountInString(text); n > widths[i] {
				widths[i] = n
			}
		}
	}

	if writeErr != nil {
		_ = f.Close()
		return nil, writeErr
	}

	for i, width := range widths {
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(SheetName, name, name, float64(clamp(width+2, minColWidth, maxColWidth)))
	}
	return f, nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
