package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

func testRecord() *domain.ConversationRecord {
	return &domain.ConversationRecord{Messages: []domain.Turn{
		{Role: domain.RoleUser, Content: "Qual é o assunto?"},
		{Role: domain.RoleAssistant, Content: "Contrato de locação."},
	}}
}

func TestDatasetBuildCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.document.text = "texto"
	ts.dataset.record = testRecord()

	out, err := execute(t, "", "dataset", "build", "a.pdf", "b.pdf")

	require.NoError(t, err)
	require.Len(t, ts.writer.records, 2)
	assert.Same(t, ts.dataset.record, ts.writer.records[0])
	assert.Contains(t, out, "a.pdf: 2 turns")
	assert.Contains(t, out, "Wrote 2 records to memory.jsonl (0 skipped)")
}

func TestDatasetBuildCmd_SkipsUnbuildable(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "", "dataset", "build", "short.txt")

	require.NoError(t, err)
	assert.Empty(t, ts.writer.records)
	assert.Contains(t, out, "not enough paragraphs")
	assert.Contains(t, out, "Wrote 0 records to memory.jsonl (1 skipped)")
}

func TestDatasetBuildCmd_SkipsInvalid(t *testing.T) {
	ts := setupTestServices(t)
	ts.dataset.record = testRecord()
	ts.dataset.invalid = true

	out, err := execute(t, "", "dataset", "build", "a.pdf")

	require.NoError(t, err)
	assert.Empty(t, ts.writer.records)
	assert.Contains(t, out, domain.ErrInvalidRecord.Error())
}

func TestDatasetBuildCmd_SkipsExtractError(t *testing.T) {
	ts := setupTestServices(t)
	ts.document.extractErr = domain.ErrTextTooShort
	ts.dataset.record = testRecord()

	out, err := execute(t, "", "dataset", "build", "a.pdf")

	require.NoError(t, err)
	assert.Empty(t, ts.writer.records)
	assert.Contains(t, out, domain.ErrTextTooShort.Error())
}

func TestDatasetBuildCmd_NoWriter(t *testing.T) {
	setupTestServices(t)
	datasetWriter = nil

	_, err := execute(t, "", "dataset", "build", "a.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset writer not configured")
}

func TestDatasetValidateCmd(t *testing.T) {
	setupTestServices(t)
	path := filepath.Join(t.TempDir(), "dataset.jsonl")
	lines := []string{
		`{"messages":[]}`,
		``,
		`{"broken":true}`,
		`{"messages":[{"role":"user"}]}`,
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600))

	out, err := execute(t, "", "dataset", "validate", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 invalid records")
	assert.Contains(t, out, "line 3:")
	assert.Contains(t, out, path+": 2 valid, 1 invalid")
}

func TestDatasetValidateCmd_DefaultPath(t *testing.T) {
	ts := setupTestServices(t)
	require.NoError(t, os.WriteFile(ts.output.DatasetPath(), []byte(`{"messages":[]}`+"\n"), 0o600))

	out, err := execute(t, "", "dataset", "validate")

	require.NoError(t, err)
	assert.Contains(t, out, ": 1 valid, 0 invalid")
}

func TestDatasetValidateCmd_MissingFile(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "dataset", "validate", filepath.Join(t.TempDir(), "none.jsonl"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
