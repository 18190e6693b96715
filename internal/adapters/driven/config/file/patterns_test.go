package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

func TestPatternLoader_EmptyPathLoadsDefaults(t *testing.T) {
	set, err := NewPatternLoader("").Load()

	require.NoError(t, err)
	require.Len(t, set.Types(), 3)
	assert.Equal(t, domain.DocumentTypeLegal, set.Types()[0].Type)
	assert.Equal(t, domain.DocumentTypeFiscal, set.Types()[1].Type)
	assert.Equal(t, domain.DocumentTypeBanking, set.Types()[2].Type)
}

func TestPatternLoader_MissingFile(t *testing.T) {
	loader := NewPatternLoader(filepath.Join(t.TempDir(), "patterns.yaml"))

	_, err := loader.Load()

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatternLoader_OverridesOneType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := `types:
  - type: fiscal
    detect: '\bRECIBO\b'
    fields:
      - name: numero_recibo
        pattern: 'RECIBO\s*(\d+)'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	set, err := NewPatternLoader(path).Load()
	require.NoError(t, err)

	fiscal, ok := set.Lookup(domain.DocumentTypeFiscal)
	require.True(t, ok)
	assert.True(t, fiscal.Detect.MatchString("recibo 12"))
	require.Len(t, fiscal.Fields, 1)
	assert.Equal(t, "numero_recibo", fiscal.Fields[0].Name)

	legal, ok := set.Lookup(domain.DocumentTypeLegal)
	require.True(t, ok)
	assert.True(t, legal.Detect.MatchString("PROCESSO"), "types not in the file keep the built-in patterns")
}

func TestParsePatterns_AcceptsEnglishTypeNames(t *testing.T) {
	set, err := ParsePatterns([]byte("types:\n  - type: banking\n    detect: 'EXTRATO'\n"))

	require.NoError(t, err)
	banking, ok := set.Lookup(domain.DocumentTypeBanking)
	require.True(t, ok)
	assert.Empty(t, banking.Fields)
}

func TestParsePatterns_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "types: [unclosed"},
		{"unknown type", "types:\n  - type: medico\n    detect: 'X'\n"},
		{"unclassified type", "types:\n  - type: nao_identificado\n    detect: 'X'\n"},
		{"missing detect", "types:\n  - type: fiscal\n"},
		{"bad detect regex", "types:\n  - type: fiscal\n    detect: '(unclosed'\n"},
		{"bad field regex", "types:\n  - type: fiscal\n    detect: 'NFe'\n    fields:\n      - name: x\n        pattern: '[a-'\n"},
		{"unnamed field", "types:\n  - type: fiscal\n    detect: 'NFe'\n    fields:\n      - pattern: 'x'\n"},
		{"duplicate type", "types:\n  - type: fiscal\n    detect: 'A'\n  - type: fiscal\n    detect: 'B'\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePatterns([]byte(tt.yaml))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestMarshalDefaultPatterns_RoundTrip(t *testing.T) {
	data, err := MarshalDefaultPatterns()
	require.NoError(t, err)

	set, err := ParsePatterns(data)
	require.NoError(t, err)

	defaults := domain.DefaultPatternSet()
	require.Len(t, set.Types(), len(defaults.Types()))
	for i, want := range defaults.Types() {
		got := set.Types()[i]
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, want.Detect.String(), got.Detect.String())
		require.Len(t, got.Fields, len(want.Fields))
		for j := range want.Fields {
			assert.Equal(t, want.Fields[j].Name, got.Fields[j].Name)
			assert.Equal(t, want.Fields[j].Pattern.String(), got.Fields[j].Pattern.String())
		}
	}
}
