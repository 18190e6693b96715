package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/services"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		input   string
		wantYes bool
		wantNo  bool
	}{
		{"y", true, false},
		{"Sim", true, false},
		{"YES", true, false},
		{"n", false, true},
		{"não", false, true},
		{"", false, false},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.wantYes, parseYes(tt.input))
			assert.Equal(t, tt.wantNo, parseNo(tt.input))
		})
	}
}

func TestSortLanguages_DefaultFirst(t *testing.T) {
	codes := []string{"spa", "eng", "por", "deu", "fra"}
	sortLanguages(codes)
	assert.Equal(t, []string{"por", "deu", "eng", "fra", "spa"}, codes)
}

func TestSettingsShowCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.settings.OCR.Backend = domain.OCRBackendMistral
	ts.settings.settings.OCR.APIKey = "mistral-secret-key"

	out, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[OCR]")
	assert.Contains(t, out, "Language: por (portuguese)")
	assert.Contains(t, out, "API Key: mist...-key")
	assert.NotContains(t, out, "mistral-secret-key")
	assert.Contains(t, out, "[Output]")
	assert.Contains(t, out, "Patterns file: (built-in)")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShowCmd_ValidationWarning(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.validateErr = errors.New("OCR backend \"mistral\" is missing credentials")

	out, err := execute(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: OCR backend")
	assert.Contains(t, out, "ocrsc settings wizard")
}

func TestSettingsSetCmd_ListsKeys(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "", "settings", "set")

	require.NoError(t, err)
	for _, key := range services.SettingKeys() {
		assert.Contains(t, out, key)
	}
}

func TestSettingsSetCmd(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "", "settings", "set", "ocr.language", "eng")

	require.NoError(t, err)
	assert.Equal(t, "eng", ts.settings.values["ocr.language"])
	assert.Contains(t, out, "ocr.language = eng")
}

func TestSettingsSetCmd_MasksAPIKey(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "", "settings", "set", "llm.api_key", "sk-1234567890abcdef")

	require.NoError(t, err)
	assert.Equal(t, "sk-1234567890abcdef", ts.settings.values["llm.api_key"])
	assert.Contains(t, out, "llm.api_key = sk-1...cdef")
}

func TestSettingsSetCmd_Errors(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "", "settings", "set", "bad.key", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = execute(t, "", "settings", "set", "ocr.language")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")
}

func TestSettingsWizardCmd(t *testing.T) {
	ts := setupTestServices(t)
	input := strings.Join([]string{
		"1", // local OCR
		"",  // default language
		"n", // no AI
		"",  // keep output directory
		"2", // xlsx
		"",  // markdown (default yes)
		"y", // html
	}, "\n") + "\n"

	out, err := execute(t, input, "settings", "wizard")

	require.NoError(t, err)
	assert.Equal(t, domain.OCRBackendLocal, ts.settings.backend)
	assert.Equal(t, map[string]string{
		"ocr.language":        "por",
		"extraction.enrich":   "false",
		"output.summary":      "false",
		"output.table_format": "xlsx",
		"output.markdown":     "true",
		"output.html":         "true",
	}, ts.settings.values)
	assert.Empty(t, ts.settings.provider)
	assert.Contains(t, out, "All settings are valid and saved.")
}

func TestSettingsWizardCmd_DocumentAI(t *testing.T) {
	ts := setupTestServices(t)
	input := strings.Join([]string{
		"3",          // documentai
		"my-project", // project
		"",           // location keeps default
		"proc-123",   // processor
		"",           // credentials from environment
		"2",          // german
		"",           // no AI
		"/tmp/out",   // output directory
		"",           // csv
		"n",          // no markdown
		"",           // no html
	}, "\n") + "\n"

	_, err := execute(t, input, "settings", "wizard")

	require.NoError(t, err)
	assert.Equal(t, domain.OCRBackendDocumentAI, ts.settings.backend)
	assert.Equal(t, "my-project", ts.settings.values["ocr.documentai.project_id"])
	assert.Equal(t, "proc-123", ts.settings.values["ocr.documentai.processor_id"])
	assert.NotContains(t, ts.settings.values, "ocr.documentai.location")
	assert.Equal(t, "deu", ts.settings.values["ocr.language"])
	assert.Equal(t, "/tmp/out", ts.settings.values["output.directory"])
	assert.Equal(t, "csv", ts.settings.values["output.table_format"])
	assert.Equal(t, "false", ts.settings.values["output.markdown"])
	assert.Equal(t, "false", ts.settings.values["output.html"])
}

func TestSettingsCmd_NoService(t *testing.T) {
	setupTestServices(t)
	settingsService = nil

	for _, args := range [][]string{{"settings"}, {"settings", "set"}, {"settings", "wizard"}, {"settings", "ocr"}, {"settings", "llm"}} {
		_, err := execute(t, "", args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}
