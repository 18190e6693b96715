package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

func TestSegmentCmd_Stdin(t *testing.T) {
	ts := setupTestServices(t)
	ts.document.paragraphs = []domain.Paragraph{
		{Text: "TÍTULO I", Kind: domain.ParagraphHeading},
		{Text: "Texto comum do documento.", Kind: domain.ParagraphNormal},
	}

	out, err := execute(t, "TÍTULO I\n\nTexto comum do documento.", "segment", "-")

	require.NoError(t, err)
	assert.Equal(t, []string{"TÍTULO I\n\nTexto comum do documento."}, ts.document.segmented)
	assert.Contains(t, out, "[heading] TÍTULO I")
	assert.Contains(t, out, "[normal] Texto comum do documento.")
	assert.Contains(t, out, "2 paragraphs (heading: 1, article: 0, emphasis: 0, normal: 1)")
}

func TestSegmentCmd_FileUsesExtractedText(t *testing.T) {
	ts := setupTestServices(t)
	ts.document.text = "extracted"

	out, err := execute(t, "", "segment", "doc.pdf")

	require.NoError(t, err)
	assert.Equal(t, []string{"extracted"}, ts.document.segmented)
	assert.Contains(t, out, "No paragraphs found.")
}

func TestSegmentCmd_JSON(t *testing.T) {
	ts := setupTestServices(t)
	ts.document.paragraphs = []domain.Paragraph{
		{Text: "Art. 5º Todos são iguais", Kind: domain.ParagraphArticle},
	}

	out, err := execute(t, "text", "segment", "-", "--json")
	require.NoError(t, err)

	var got []domain.Paragraph
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, ts.document.paragraphs, got)
}

func TestSegmentCmd_JSONEmptyIsArray(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "segment", "-", "--json")

	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(out))
}

func TestSegmentCmd_ExtractError(t *testing.T) {
	ts := setupTestServices(t)
	ts.document.extractErr = domain.ErrUnsupportedType

	_, err := execute(t, "", "segment", "file.xyz")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "file.xyz")
}

func TestSegmentCmd_SegmentError(t *testing.T) {
	ts := setupTestServices(t)
	ts.document.segmentErr = errors.New("pipeline broke")

	_, err := execute(t, "text", "segment", "-")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "segmentation failed")
}

func TestSegmentCmd_NoService(t *testing.T) {
	setupTestServices(t)
	documentService = nil

	_, err := execute(t, "", "segment", "-")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "document service not configured")
}

func TestFormatKindCounts(t *testing.T) {
	paragraphs := []domain.Paragraph{
		{Kind: domain.ParagraphArticle},
		{Kind: domain.ParagraphArticle},
		{Kind: domain.ParagraphEmphasis},
	}

	assert.Equal(t, "3 paragraphs (heading: 0, article: 2, emphasis: 1, normal: 0)", formatKindCounts(paragraphs))
	assert.Equal(t, "0 paragraphs (heading: 0, article: 0, emphasis: 0, normal: 0)", formatKindCounts(nil))
}
