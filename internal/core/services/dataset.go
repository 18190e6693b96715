package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driving"
)

// Ensure DatasetService implements the interface.
var _ driving.DatasetService = (*DatasetService)(nil)

// maxUserContent is the number of characters of document text kept in the user turn.
const maxUserContent = 5000

// recordSchema describes one dataset line.
const recordSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["messages"],
  "properties": {
    "messages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["role", "content"],
        "properties": {
          "role": {"type": "string", "enum": ["user", "assistant"]},
          "content": {"type": "string"}
        }
      }
    }
  }
}`

// DatasetService builds and validates conversation records.
type DatasetService struct {
	schema *jsonschema.Schema
}

// NewDatasetService creates a dataset service.
func NewDatasetService() (*DatasetService, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("record.json", strings.NewReader(recordSchema)); err != nil {
		return nil, fmt.Errorf("add record schema: %w", err)
	}
	schema, err := compiler.Compile("record.json")
	if err != nil {
		return nil, fmt.Errorf("compile record schema: %w", err)
	}
	return &DatasetService{schema: schema}, nil
}

// BuildRecord pairs the document text with its segmented paragraphs.
func (s *DatasetService) BuildRecord(text string, paragraphs []domain.Paragraph) (*domain.ConversationRecord, bool) {
	return BuildRecord(text, paragraphs)
}

// ValidateRecord checks the turn structure of a record.
func (s *DatasetService) ValidateRecord(record *domain.ConversationRecord) bool {
	return ValidateRecord(record)
}

// ValidateRecordJSON checks one dataset line against the record schema and
// the turn structure.
func (s *DatasetService) ValidateRecordJSON(line []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: decode: %w", domain.ErrInvalidRecord, err)
	}
	if err := s.schema.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}

	var record domain.ConversationRecord
	if err := json.Unmarshal(line, &record); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
	}
	if !ValidateRecord(&record) {
		return fmt.Errorf("%w: turns must alternate from user to assistant", domain.ErrInvalidRecord)
	}
	return nil
}

// BuildRecord returns a two-turn record: the sanitised text excerpt as the
// user turn and the joined paragraphs as the assistant turn. It returns
// false when no paragraph carries text.
func BuildRecord(text string, paragraphs []domain.Paragraph) (*domain.ConversationRecord, bool) {
	parts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		parts = append(parts, p.Text)
	}
	assistant := strings.Join(parts, "\n\n")
	if assistant == "" {
		return nil, false
	}

	return &domain.ConversationRecord{Messages: []domain.Turn{
		{Role: domain.RoleUser, Content: Sanitize(domain.Truncate(text, maxUserContent))},
		{Role: domain.RoleAssistant, Content: Sanitize(assistant)},
	}}, true
}

// Sanitize collapses whitespace runs to one space, trims the ends and drops
// every character outside printable ASCII.
func Sanitize(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	var b strings.Builder
	b.Grow(len(collapsed))
	for _, r := range collapsed {
		if r >= 0x20 && r <= 0x7E {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateRecord reports whether a record has at least two turns, starts
// with the user, ends with the assistant and never repeats a role.
func ValidateRecord(record *domain.ConversationRecord) bool {
	if record == nil || len(record.Messages) < 2 {
		return false
	}
	msgs := record.Messages
	if msgs[0].Role != domain.RoleUser || msgs[len(msgs)-1].Role != domain.RoleAssistant {
		return false
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].Role == msgs[i-1].Role {
			return false
		}
	}
	return true
}
