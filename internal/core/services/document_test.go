package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

const sampleText = "CAPÍTULO I Das disposições gerais\n\nArt. 1º Este regulamento se aplica a todos."

func newTestDocumentService(t *testing.T, source *mockTextSource, opts ...DocumentOption) *DocumentService {
	t.Helper()
	dataset, err := NewDatasetService()
	require.NoError(t, err)
	return NewDocumentService(source, &mockPipeline{}, dataset, opts...)
}

func TestDocumentService_Segment(t *testing.T) {
	svc := newTestDocumentService(t, &mockTextSource{})

	paragraphs, err := svc.Segment(context.Background(), sampleText)
	require.NoError(t, err)
	assert.Len(t, paragraphs, 2)
}

func TestDocumentService_ProcessFile(t *testing.T) {
	out := t.TempDir()
	writer := &mockDatasetWriter{}
	renderer := &mockRenderer{}
	source := &mockTextSource{texts: map[string]string{"/in/lei.pdf": sampleText}}
	svc := newTestDocumentService(t, source,
		WithDatasetWriter(writer),
		WithRenderers(out, renderer),
	)

	outcome := svc.ProcessFile(context.Background(), "/in/lei.pdf")

	require.NoError(t, outcome.Err)
	assert.True(t, outcome.OK())
	assert.Equal(t, 2, outcome.Paragraphs)
	assert.True(t, outcome.RecordWritten)
	require.Len(t, writer.records, 1)
	assert.True(t, ValidateRecord(writer.records[0]))

	require.Equal(t, []string{filepath.Join(out, "lei.txt")}, outcome.Outputs)
	data, err := os.ReadFile(outcome.Outputs[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "CAPÍTULO I")
	assert.Nil(t, renderer.lastSummary)
}

func TestDocumentService_ProcessFile_NoParagraphs(t *testing.T) {
	writer := &mockDatasetWriter{}
	source := &mockTextSource{texts: map[string]string{"blank.txt": "\n\n \n\n"}}
	svc := newTestDocumentService(t, source, WithDatasetWriter(writer))

	outcome := svc.ProcessFile(context.Background(), "blank.txt")

	require.NoError(t, outcome.Err)
	assert.False(t, outcome.RecordWritten)
	assert.Empty(t, writer.records)
}

func TestDocumentService_ProcessFile_ExtractError(t *testing.T) {
	source := &mockTextSource{errs: map[string]error{"bad.pdf": domain.ErrTextTooShort}}
	svc := newTestDocumentService(t, source)

	outcome := svc.ProcessFile(context.Background(), "bad.pdf")

	assert.ErrorIs(t, outcome.Err, domain.ErrTextTooShort)
	assert.False(t, outcome.OK())
}

func TestDocumentService_ProcessFile_WriterError(t *testing.T) {
	source := &mockTextSource{texts: map[string]string{"a.txt": sampleText}}
	svc := newTestDocumentService(t, source, WithDatasetWriter(&mockDatasetWriter{err: errors.New("read-only")}))

	outcome := svc.ProcessFile(context.Background(), "a.txt")

	assert.Error(t, outcome.Err)
	assert.Contains(t, outcome.Err.Error(), "append dataset record")
}

func TestDocumentService_ProcessFile_RenderError(t *testing.T) {
	source := &mockTextSource{texts: map[string]string{"a.txt": sampleText}}
	svc := newTestDocumentService(t, source, WithRenderers(t.TempDir(), &mockRenderer{err: errors.New("boom")}))

	outcome := svc.ProcessFile(context.Background(), "a.txt")

	assert.Error(t, outcome.Err)
	assert.Empty(t, outcome.Outputs)
}

func TestDocumentService_ProcessFile_WithSummary(t *testing.T) {
	renderer := &mockRenderer{}
	summary := &domain.DocumentSummary{Summary: "Resumo do documento", TableOfContents: "1. Introdução"}
	source := &mockTextSource{texts: map[string]string{"a.txt": sampleText}}
	svc := newTestDocumentService(t, source,
		WithRenderers(t.TempDir(), renderer),
		WithSummariser(&mockSummariser{summary: summary}, true),
	)

	outcome := svc.ProcessFile(context.Background(), "a.txt")

	require.NoError(t, outcome.Err)
	assert.Equal(t, summary, renderer.lastSummary)
}

func TestDocumentService_ProcessFile_SummaryFailureStillRenders(t *testing.T) {
	renderer := &mockRenderer{}
	source := &mockTextSource{texts: map[string]string{"a.txt": sampleText}}
	svc := newTestDocumentService(t, source,
		WithRenderers(t.TempDir(), renderer),
		WithSummariser(&mockSummariser{err: domain.ErrLLMUnavailable}, true),
	)

	outcome := svc.ProcessFile(context.Background(), "a.txt")

	require.NoError(t, outcome.Err)
	assert.Len(t, outcome.Outputs, 1)
	assert.Nil(t, renderer.lastSummary)
}

func TestDocumentService_ProcessDirectory(t *testing.T) {
	dir := t.TempDir()
	files := []string{"b.txt", "a.pdf", "c.TXT", "notes.odt"}
	texts := map[string]string{}
	for _, name := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
		texts[path] = sampleText
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.pdf"), 0700))

	writer := &mockDatasetWriter{}
	source := &mockTextSource{texts: texts}
	svc := newTestDocumentService(t, source, WithDatasetWriter(writer))

	outcomes, err := svc.ProcessDirectory(context.Background(), dir, 3)
	require.NoError(t, err)

	require.Len(t, outcomes, 3)
	assert.Equal(t, filepath.Join(dir, "a.pdf"), outcomes[0].Path)
	assert.Equal(t, filepath.Join(dir, "b.txt"), outcomes[1].Path)
	assert.Equal(t, filepath.Join(dir, "c.TXT"), outcomes[2].Path)
	for _, o := range outcomes {
		assert.NoError(t, o.Err)
		assert.True(t, o.RecordWritten)
	}
	assert.Len(t, writer.records, 3)
}

func TestDocumentService_ProcessDirectory_FailureDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(good, []byte("x"), 0600))
	require.NoError(t, os.WriteFile(bad, []byte("x"), 0600))

	source := &mockTextSource{
		texts: map[string]string{good: sampleText},
		errs:  map[string]error{bad: errors.New("corrupt xref")},
	}
	svc := newTestDocumentService(t, source)

	outcomes, err := svc.ProcessDirectory(context.Background(), dir, 0)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Error(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
}

func TestDocumentService_ProcessDirectory_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))

	source := &mockTextSource{texts: map[string]string{path: sampleText}}
	svc := newTestDocumentService(t, source)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := svc.ProcessDirectory(ctx, dir, 2)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, outcomes, 1)
	assert.ErrorIs(t, outcomes[0].Err, context.Canceled)
	assert.Empty(t, source.calls)
}

func TestDocumentService_ProcessDirectory_MissingDir(t *testing.T) {
	svc := newTestDocumentService(t, &mockTextSource{})

	_, err := svc.ProcessDirectory(context.Background(), filepath.Join(t.TempDir(), "missing"), 1)
	assert.Error(t, err)
}

func TestDocumentService_Summarise(t *testing.T) {
	source := &mockTextSource{texts: map[string]string{"a.txt": sampleText}}

	svc := newTestDocumentService(t, source)
	_, err := svc.Summarise(context.Background(), "a.txt")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	summary := &domain.DocumentSummary{Summary: "s"}
	svc = newTestDocumentService(t, source, WithSummariser(&mockSummariser{summary: summary}, false))
	got, err := svc.Summarise(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, summary, got)
}

func TestIsSupportedFile(t *testing.T) {
	assert.True(t, IsSupportedFile("scan.PDF"))
	assert.True(t, IsSupportedFile("page.tiff"))
	assert.True(t, IsSupportedFile("contrato.docx"))
	assert.False(t, IsSupportedFile("planilha.xlsx"))
	assert.False(t, IsSupportedFile("README"))
}
