package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

// mockTextSource returns canned text per path.
type mockTextSource struct {
	texts map[string]string
	errs  map[string]error
	calls []string
	mu    sync.Mutex
}

func (m *mockTextSource) ExtractText(_ context.Context, path string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, path)
	m.mu.Unlock()
	if err, ok := m.errs[path]; ok {
		return "", err
	}
	text, ok := m.texts[path]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

// mockEnricher returns fixed fields or an error.
type mockEnricher struct {
	fields   map[string]any
	err      error
	received *domain.ExtractedFieldSet
}

func (m *mockEnricher) Enrich(_ context.Context, _ string, fields *domain.ExtractedFieldSet) (map[string]any, error) {
	m.received = fields
	if m.err != nil {
		return nil, m.err
	}
	return m.fields, nil
}

// mockSummariser returns a fixed summary.
type mockSummariser struct {
	summary *domain.DocumentSummary
	err     error
}

func (m *mockSummariser) Summarise(_ context.Context, _ string) (*domain.DocumentSummary, error) {
	return m.summary, m.err
}

// mockPipeline splits text on blank lines into normal paragraphs.
type mockPipeline struct {
	err error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Paragraph, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Paragraph
	for _, block := range strings.Split(doc.Content, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		out = append(out, domain.Paragraph{Text: block, Kind: domain.ParagraphNormal})
	}
	return out, nil
}

// mockDatasetWriter collects appended records.
type mockDatasetWriter struct {
	mu      sync.Mutex
	records []*domain.ConversationRecord
	err     error
}

func (m *mockDatasetWriter) Append(_ context.Context, record *domain.ConversationRecord) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *mockDatasetWriter) Path() string { return "dataset.jsonl" }

func (m *mockDatasetWriter) Close() error { return nil }

// mockRenderer renders paragraphs as plain lines.
type mockRenderer struct {
	err         error
	lastSummary *domain.DocumentSummary
	mu          sync.Mutex
}

func (m *mockRenderer) Name() string { return "text" }

func (m *mockRenderer) Extension() string { return ".txt" }

func (m *mockRenderer) Render(_ context.Context, _ *domain.Document, paragraphs []domain.Paragraph, summary *domain.DocumentSummary) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	m.lastSummary = summary
	m.mu.Unlock()
	var b strings.Builder
	if summary != nil {
		b.WriteString(summary.Summary + "\n")
	}
	for _, p := range paragraphs {
		b.WriteString(p.Text + "\n")
	}
	return []byte(b.String()), nil
}

// failingBatchStore fails every Save.
type failingBatchStore struct{}

func (failingBatchStore) Save(context.Context, *domain.BatchResult) error {
	return errors.New("disk full")
}

func (failingBatchStore) Get(context.Context, string) (*domain.BatchResult, error) {
	return nil, domain.ErrNotFound
}

func (failingBatchStore) List(context.Context) ([]domain.BatchSummary, error) {
	return nil, nil
}

func (failingBatchStore) Delete(context.Context, string) error {
	return nil
}

// mockAIConfigValidator records validation calls.
type mockAIConfigValidator struct {
	llmErr error
	called bool
}

func (m *mockAIConfigValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.called = true
	return m.llmErr
}
