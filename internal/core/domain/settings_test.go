package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "mistral is valid", provider: AIProviderMistral, expected: true},
		{name: "openai is valid", provider: AIProviderOpenAI, expected: true},
		{name: "ollama is valid", provider: AIProviderOllama, expected: true},
		{name: "empty string is invalid", provider: AIProvider(""), expected: false},
		{name: "anthropic is invalid", provider: AIProvider("anthropic"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.True(t, AIProviderMistral.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOllama.IsLocal())
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Mistral (cloud)", AIProviderMistral.Description())
	assert.Equal(t, unknownDescription, AIProvider("other").Description())
}

// TestLLMSettings_IsConfigured tests configuration checks
func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{
			name:     "mistral with key",
			settings: LLMSettings{Provider: AIProviderMistral, APIKey: "k"},
			expected: true,
		},
		{
			name:     "mistral without key",
			settings: LLMSettings{Provider: AIProviderMistral},
			expected: false,
		},
		{
			name:     "ollama without key",
			settings: LLMSettings{Provider: AIProviderOllama},
			expected: true,
		},
		{
			name:     "no provider",
			settings: LLMSettings{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestOCRSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings OCRSettings
		expected bool
	}{
		{name: "local", settings: OCRSettings{Backend: OCRBackendLocal}, expected: true},
		{name: "mistral without key", settings: OCRSettings{Backend: OCRBackendMistral}, expected: false},
		{name: "mistral with key", settings: OCRSettings{Backend: OCRBackendMistral, APIKey: "k"}, expected: true},
		{
			name: "documentai complete",
			settings: OCRSettings{
				Backend:    OCRBackendDocumentAI,
				DocumentAI: DocumentAISettings{ProjectID: "p", Location: "eu", ProcessorID: "x"},
			},
			expected: true,
		},
		{
			name:     "documentai missing processor",
			settings: OCRSettings{Backend: OCRBackendDocumentAI, DocumentAI: DocumentAISettings{ProjectID: "p", Location: "eu"}},
			expected: false,
		},
		{name: "unknown backend", settings: OCRSettings{Backend: "cloud"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

func TestTableFormat(t *testing.T) {
	assert.True(t, TableFormatCSV.IsValid())
	assert.True(t, TableFormatXLSX.IsValid())
	assert.False(t, TableFormat("ods").IsValid())
	assert.Equal(t, ".xlsx", TableFormatXLSX.Extension())
	assert.Len(t, AllTableFormats(), 2)
}

// TestDefaultAppSettings tests the default configuration values
func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, OCRBackendLocal, s.OCR.Backend)
	assert.Equal(t, "por", s.OCR.Language)
	assert.Equal(t, 50, s.OCR.MinTextLength)
	assert.Equal(t, "https://api.mistral.ai/v1", s.OCR.BaseURL)
	assert.InDelta(t, 2.0, s.OCR.RateLimit, 0.0001)
	assert.Equal(t, "us", s.OCR.DocumentAI.Location)

	assert.Equal(t, AIProviderMistral, s.LLM.Provider)
	assert.Equal(t, "mistral-large-latest", s.LLM.Model)
	assert.False(t, s.LLM.IsConfigured())

	assert.False(t, s.Extraction.Enrich)
	assert.Empty(t, s.Extraction.PatternsFile)

	assert.Equal(t, "./output", s.Output.Directory)
	assert.Equal(t, "mistral_dataset.jsonl", s.Output.DatasetFile)
	assert.Equal(t, TableFormatCSV, s.Output.TableFormat)
	assert.Equal(t, "dados_extraidos", s.Output.TableFile)
	assert.True(t, s.Output.Markdown)
	assert.False(t, s.Output.HTML)
	assert.False(t, s.Output.Summary)

	assert.Equal(t, []string{"segmenter"}, s.Segmentation.Processors)
}

func TestOutputSettings_Paths(t *testing.T) {
	o := OutputSettings{
		Directory:   "out",
		DatasetFile: "mistral_dataset.jsonl",
		TableFormat: TableFormatXLSX,
		TableFile:   "dados_extraidos",
	}

	assert.Equal(t, filepath.Join("out", "mistral_dataset.jsonl"), o.DatasetPath())
	assert.Equal(t, filepath.Join("out", "dados_extraidos.xlsx"), o.TablePath())
}

func TestDefaultLLMModels_CoverAllProviders(t *testing.T) {
	models := DefaultLLMModels()
	urls := DefaultLLMBaseURLs()
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, models[p], "model for %s", p)
		assert.NotEmpty(t, urls[p], "base URL for %s", p)
	}
}

// TestPipelineConfig_GetProcessorConfig tests per-processor lookup
func TestPipelineConfig_GetProcessorConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()

	segCfg := cfg.GetProcessorConfig("segmenter")
	require.NotNil(t, segCfg)
	assert.Equal(t, 10, segCfg["min_length"])

	assert.Nil(t, cfg.GetProcessorConfig("unknown"))

	empty := PipelineConfig{}
	assert.Nil(t, empty.GetProcessorConfig("segmenter"))
}
