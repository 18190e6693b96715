package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	text       string
	extractErr error
	paragraphs []domain.Paragraph
	segmentErr error
	outcome    domain.FileOutcome
	outcomes   []domain.FileOutcome
	summary    *domain.DocumentSummary
	err        error

	segmented []string
	processed []string
	workers   int
}

func (m *mockDocumentService) ExtractText(_ context.Context, _ string) (string, error) {
	return m.text, m.extractErr
}

func (m *mockDocumentService) Segment(_ context.Context, text string) ([]domain.Paragraph, error) {
	m.segmented = append(m.segmented, text)
	return m.paragraphs, m.segmentErr
}

func (m *mockDocumentService) ProcessFile(_ context.Context, path string) domain.FileOutcome {
	m.processed = append(m.processed, path)
	o := m.outcome
	o.Path = path
	return o
}

func (m *mockDocumentService) ProcessDirectory(_ context.Context, dir string, workers int) ([]domain.FileOutcome, error) {
	m.processed = append(m.processed, dir)
	m.workers = workers
	return m.outcomes, m.err
}

func (m *mockDocumentService) Summarise(_ context.Context, _ string) (*domain.DocumentSummary, error) {
	return m.summary, m.err
}

// mockExtractionService is a mock implementation of driving.ExtractionService.
type mockExtractionService struct {
	fields *domain.ExtractedFieldSet
	hints  []domain.DocumentType
	texts  []string
}

func (m *mockExtractionService) Classify(_ string) domain.DocumentType {
	return m.fields.DocumentType
}

func (m *mockExtractionService) Extract(_ context.Context, text string, hint domain.DocumentType) *domain.ExtractedFieldSet {
	m.hints = append(m.hints, hint)
	m.texts = append(m.texts, text)
	return m.fields
}

// mockDatasetService is a mock implementation of driving.DatasetService.
// Lines containing "messages" are valid JSON records.
type mockDatasetService struct {
	record  *domain.ConversationRecord
	invalid bool
}

func (m *mockDatasetService) BuildRecord(_ string, _ []domain.Paragraph) (*domain.ConversationRecord, bool) {
	return m.record, m.record != nil
}

func (m *mockDatasetService) ValidateRecord(_ *domain.ConversationRecord) bool {
	return !m.invalid
}

func (m *mockDatasetService) ValidateRecordJSON(line []byte) error {
	if bytes.Contains(line, []byte("messages")) {
		return nil
	}
	return domain.ErrInvalidRecord
}

// mockBatchService is a mock implementation of driving.BatchService.
type mockBatchService struct {
	result    *domain.BatchResult
	summaries []domain.BatchSummary
	err       error
	paths     []string
}

func (m *mockBatchService) ProcessBatch(_ context.Context, paths []string) (*domain.BatchResult, error) {
	m.paths = paths
	return m.result, m.err
}

func (m *mockBatchService) List(_ context.Context) ([]domain.BatchSummary, error) {
	return m.summaries, m.err
}

func (m *mockBatchService) Get(_ context.Context, _ string) (*domain.BatchResult, error) {
	return m.result, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	values      map[string]string
	validateErr error
	llmErr      error
	backend     domain.OCRBackend
	provider    domain.AIProvider
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		values:   make(map[string]string),
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Resolved() (*domain.AppSettings, error) {
	return m.Get()
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if key == "bad.key" {
		return domain.ErrInvalidInput
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) SetOCRBackend(backend domain.OCRBackend) error {
	m.backend = backend
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, _, _ string) error {
	m.provider = provider
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.llmErr
}

// mockDatasetWriter collects appended records in memory.
type mockDatasetWriter struct {
	records []*domain.ConversationRecord
}

func (m *mockDatasetWriter) Append(_ context.Context, record *domain.ConversationRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *mockDatasetWriter) Path() string { return "memory.jsonl" }
func (m *mockDatasetWriter) Close() error { return nil }

// mockTableWriter records the last write.
type mockTableWriter struct {
	format  domain.TableFormat
	path    string
	written *domain.BatchResult
}

func (m *mockTableWriter) Format() domain.TableFormat { return m.format }

func (m *mockTableWriter) Write(_ context.Context, path string, result *domain.BatchResult) error {
	m.path = path
	m.written = result
	return nil
}

// testServices holds the mocks injected by setupTestServices.
type testServices struct {
	document *mockDocumentService
	extract  *mockExtractionService
	enriched *mockExtractionService
	dataset  *mockDatasetService
	batch    *mockBatchService
	settings *mockSettingsService
	writer   *mockDatasetWriter
	table    *mockTableWriter
	output   domain.OutputSettings
}

// setupTestServices injects fresh mocks and restores empty services on cleanup.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	output := domain.DefaultAppSettings().Output
	output.Directory = t.TempDir()

	ts := &testServices{
		document: &mockDocumentService{},
		extract:  &mockExtractionService{fields: domain.NewExtractedFieldSet(domain.DocumentTypeUnclassified)},
		dataset:  &mockDatasetService{},
		batch:    &mockBatchService{},
		settings: newMockSettingsService(),
		writer:   &mockDatasetWriter{},
		table:    &mockTableWriter{},
		output:   output,
	}

	SetServices(&Services{
		Document:      ts.document,
		Extraction:    ts.extract,
		Dataset:       ts.dataset,
		Batch:         ts.batch,
		Settings:      ts.settings,
		DatasetWriter: ts.writer,
		TableWriter: func(format domain.TableFormat) (driven.TableWriter, error) {
			ts.table.format = format
			return ts.table, nil
		},
		Output: output,
	})

	t.Cleanup(func() {
		SetServices(&Services{})
		outputSettings = domain.DefaultAppSettings().Output
	})
	return ts
}

// withEnrichment injects an extraction service used for --enrich.
func (ts *testServices) withEnrichment(fields *domain.ExtractedFieldSet) {
	ts.enriched = &mockExtractionService{fields: fields}
	enrichedExtraction = ts.enriched
}

// execute runs the root command with args and stdin, returning its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default, since cobra keeps parsed
// values between executions.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue) //nolint:errcheck // defaults always parse
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}
