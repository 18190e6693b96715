package driving

import "github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"

// DatasetService builds and validates conversation records.
type DatasetService interface {
	// BuildRecord pairs the document text with its segmented paragraphs.
	// Returns false when the assistant turn would be empty.
	BuildRecord(text string, paragraphs []domain.Paragraph) (*domain.ConversationRecord, bool)

	// ValidateRecord checks the turn structure of a record.
	ValidateRecord(record *domain.ConversationRecord) bool

	// ValidateRecordJSON checks one dataset line against the record schema
	// and the turn structure. Returns ErrInvalidRecord on failure.
	ValidateRecordJSON(line []byte) error
}
