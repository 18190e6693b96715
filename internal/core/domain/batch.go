package domain

import "time"

// BatchRow is one successfully processed document of a batch.
type BatchRow struct {
	// Path is the document path as given to the batch.
	Path string

	// Result is the extraction result.
	Result *ExtractedFieldSet
}

// BatchFailure records a document that could not be processed.
type BatchFailure struct {
	Path  string
	Error string
	Kind  FailureKind
}

// BatchResult is the tabular outcome of a batch run.
type BatchResult struct {
	// ID identifies the run when it is persisted.
	ID string

	// Rows holds one entry per successful document, in input order.
	Rows []BatchRow

	// Failures holds the skipped documents, in input order.
	Failures []BatchFailure

	StartedAt   time.Time
	CompletedAt time.Time
}

// Columns returns the table header: tipo_documento, every field name in
// first-seen order across rows, then caminho_documento.
func (b *BatchResult) Columns() []string {
	cols := []string{FieldDocumentType}
	seen := map[string]bool{FieldDocumentType: true, ColumnSourcePath: true}
	for _, row := range b.Rows {
		for _, k := range row.Result.Keys() {
			if seen[k] {
				continue
			}
			seen[k] = true
			cols = append(cols, k)
		}
	}
	return append(cols, ColumnSourcePath)
}

// Table returns the rows as strings aligned with Columns. Missing fields
// are empty strings.
func (b *BatchResult) Table() [][]string {
	cols := b.Columns()
	table := make([][]string, 0, len(b.Rows))
	for _, row := range b.Rows {
		record := make([]string, len(cols))
		for i, col := range cols {
			record[i] = b.cell(row, col)
		}
		table = append(table, record)
	}
	return table
}

func (b *BatchResult) cell(row BatchRow, col string) string {
	switch col {
	case ColumnSourcePath:
		return row.Path
	case FieldDocumentType:
		if v, ok := row.Result.Get(FieldDocumentType); ok {
			return FormatFieldValue(v)
		}
		if row.Result == nil {
			return ""
		}
		return row.Result.DocumentType.Label()
	default:
		v, _ := row.Result.Get(col)
		return FormatFieldValue(v)
	}
}

// Duration returns how long the run took.
func (b *BatchResult) Duration() time.Duration {
	if b.CompletedAt.IsZero() {
		return 0
	}
	return b.CompletedAt.Sub(b.StartedAt)
}

// Summary returns the listing view of the run.
func (b *BatchResult) Summary() BatchSummary {
	return BatchSummary{
		ID:          b.ID,
		Documents:   len(b.Rows),
		Failures:    len(b.Failures),
		StartedAt:   b.StartedAt,
		CompletedAt: b.CompletedAt,
	}
}

// BatchSummary is a stored batch run without its rows.
type BatchSummary struct {
	ID          string
	Documents   int
	Failures    int
	StartedAt   time.Time
	CompletedAt time.Time
}
