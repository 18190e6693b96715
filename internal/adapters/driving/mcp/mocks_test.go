package mcp

import (
	"context"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	paragraphs []domain.Paragraph
	err        error
	segmented  []string
}

func (m *mockDocumentService) ExtractText(_ context.Context, _ string) (string, error) {
	return "", m.err
}

func (m *mockDocumentService) Segment(_ context.Context, text string) ([]domain.Paragraph, error) {
	m.segmented = append(m.segmented, text)
	return m.paragraphs, m.err
}

func (m *mockDocumentService) ProcessFile(_ context.Context, path string) domain.FileOutcome {
	return domain.FileOutcome{Path: path, Err: m.err}
}

func (m *mockDocumentService) ProcessDirectory(_ context.Context, _ string, _ int) ([]domain.FileOutcome, error) {
	return nil, m.err
}

func (m *mockDocumentService) Summarise(_ context.Context, _ string) (*domain.DocumentSummary, error) {
	return nil, m.err
}

// mockExtractionService is a mock implementation of driving.ExtractionService.
type mockExtractionService struct {
	docType domain.DocumentType
	fields  *domain.ExtractedFieldSet
	hints   []domain.DocumentType
}

func (m *mockExtractionService) Classify(_ string) domain.DocumentType {
	return m.docType
}

func (m *mockExtractionService) Extract(_ context.Context, _ string, hint domain.DocumentType) *domain.ExtractedFieldSet {
	m.hints = append(m.hints, hint)
	return m.fields
}

// mockDatasetService is a mock implementation of driving.DatasetService.
type mockDatasetService struct {
	record *domain.ConversationRecord
	valid  bool
	got    []domain.Paragraph
}

func (m *mockDatasetService) BuildRecord(_ string, paragraphs []domain.Paragraph) (*domain.ConversationRecord, bool) {
	m.got = paragraphs
	return m.record, m.record != nil
}

func (m *mockDatasetService) ValidateRecord(_ *domain.ConversationRecord) bool {
	return m.valid
}

func (m *mockDatasetService) ValidateRecordJSON(_ []byte) error {
	if m.valid {
		return nil
	}
	return domain.ErrInvalidRecord
}

// mockBatchService is a mock implementation of driving.BatchService.
type mockBatchService struct {
	summaries []domain.BatchSummary
	result    *domain.BatchResult
	err       error
}

func (m *mockBatchService) ProcessBatch(_ context.Context, _ []string) (*domain.BatchResult, error) {
	return m.result, m.err
}

func (m *mockBatchService) List(_ context.Context) ([]domain.BatchSummary, error) {
	return m.summaries, m.err
}

func (m *mockBatchService) Get(_ context.Context, _ string) (*domain.BatchResult, error) {
	return m.result, m.err
}

func validPorts() *Ports {
	return &Ports{
		Document:   &mockDocumentService{},
		Extraction: &mockExtractionService{fields: domain.NewExtractedFieldSet(domain.DocumentTypeUnclassified)},
		Dataset:    &mockDatasetService{},
	}
}
