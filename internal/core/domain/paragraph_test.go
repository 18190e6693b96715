package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParagraphKind_IsValid(t *testing.T) {
	for _, k := range []ParagraphKind{ParagraphNormal, ParagraphHeading, ParagraphArticle, ParagraphEmphasis} {
		assert.True(t, k.IsValid(), k.String())
	}
	assert.False(t, ParagraphKind("footnote").IsValid())
	assert.False(t, ParagraphKind("").IsValid())
}

func TestParagraph_JSON(t *testing.T) {
	p := Paragraph{Text: "CAPÍTULO I Das disposições", Kind: ParagraphHeading}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"CAPÍTULO I Das disposições","kind":"heading"}`, string(data))
}
