package domain

import "path/filepath"

const unknownDescription = "Unknown"

// AIProvider identifies an LLM service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderMistral is the Mistral cloud API.
	AIProviderMistral AIProvider = "mistral"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderMistral, AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderMistral || p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderMistral:
		return "Mistral (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// TableFormat is the file format of the extraction table.
type TableFormat string

// Available table formats.
const (
	TableFormatCSV  TableFormat = "csv"
	TableFormatXLSX TableFormat = "xlsx"
)

// IsValid returns true if the format is recognised.
func (f TableFormat) IsValid() bool {
	return f == TableFormatCSV || f == TableFormatXLSX
}

// Extension returns the file extension including the dot.
func (f TableFormat) Extension() string {
	return "." + string(f)
}

// String returns the string representation.
func (f TableFormat) String() string {
	return string(f)
}

// DocumentAISettings holds Google Document AI configuration.
type DocumentAISettings struct {
	ProjectID       string
	Location        string
	ProcessorID     string
	CredentialsFile string
}

// IsConfigured returns true if a processor is set.
func (d DocumentAISettings) IsConfigured() bool {
	return d.ProjectID != "" && d.Location != "" && d.ProcessorID != ""
}

// OCRSettings holds text recognition configuration.
type OCRSettings struct {
	// Backend is the OCR engine, chosen once at startup.
	Backend OCRBackend

	// Language is a Tesseract language code (por, eng, spa, fra, deu).
	Language string

	// MinTextLength is the direct-text threshold before OCR is used.
	MinTextLength int

	// APIKey is the Mistral API key.
	APIKey string

	// BaseURL is the Mistral API endpoint.
	BaseURL string

	// RateLimit is the request rate for remote backends, per second.
	RateLimit float64

	// DocumentAI holds the Document AI processor.
	DocumentAI DocumentAISettings
}

// IsConfigured returns true if the selected backend has what it needs.
func (o OCRSettings) IsConfigured() bool {
	switch o.Backend {
	case OCRBackendLocal:
		return true
	case OCRBackendMistral:
		return o.APIKey != ""
	case OCRBackendDocumentAI:
		return o.DocumentAI.IsConfigured()
	default:
		return false
	}
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty uses the provider default.
	BaseURL string

	// APIKey is the API key (for Mistral/OpenAI).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ExtractionSettings holds field extraction configuration.
type ExtractionSettings struct {
	// Enrich enables AI enrichment of extracted fields.
	Enrich bool

	// PatternsFile is an optional YAML file replacing the built-in patterns.
	PatternsFile string
}

// OutputSettings holds output file configuration.
type OutputSettings struct {
	Directory   string
	DatasetFile string
	TableFormat TableFormat
	TableFile   string
	Markdown    bool
	HTML        bool
	Summary     bool
}

// DatasetPath returns the JSONL dataset path.
func (o OutputSettings) DatasetPath() string {
	return filepath.Join(o.Directory, o.DatasetFile)
}

// TablePath returns the extraction table path with its extension.
func (o OutputSettings) TablePath() string {
	return filepath.Join(o.Directory, o.TableFile+o.TableFormat.Extension())
}

// AppSettings holds all application settings.
type AppSettings struct {
	OCR          OCRSettings
	LLM          LLMSettings
	Extraction   ExtractionSettings
	Output       OutputSettings
	Segmentation PipelineConfig
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM needs an API key before enrichment or summaries work.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		OCR: OCRSettings{
			Backend:       OCRBackendLocal,
			Language:      DefaultOCRLanguage,
			MinTextLength: MinTextLength,
			BaseURL:       DefaultMistralBaseURL,
			RateLimit:     2,
			DocumentAI: DocumentAISettings{
				Location: "us",
			},
		},
		LLM: LLMSettings{
			Provider: AIProviderMistral,
			Model:    DefaultLLMModels()[AIProviderMistral],
		},
		Output: OutputSettings{
			Directory:   "./output",
			DatasetFile: "mistral_dataset.jsonl",
			TableFormat: TableFormatCSV,
			TableFile:   "dados_extraidos",
			Markdown:    true,
		},
		Segmentation: DefaultPipelineConfig(),
	}
}

// DefaultMistralBaseURL is the Mistral API root.
const DefaultMistralBaseURL = "https://api.mistral.ai/v1"

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderMistral,
		AIProviderOpenAI,
		AIProviderOllama,
	}
}

// AllTableFormats returns the supported table formats.
func AllTableFormats() []TableFormat {
	return []TableFormat{TableFormatCSV, TableFormatXLSX}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderMistral: "mistral-large-latest",
		AIProviderOpenAI:  "gpt-4o-mini",
		AIProviderOllama:  "llama3.2",
	}
}

// DefaultLLMBaseURLs returns the API endpoint of each provider.
func DefaultLLMBaseURLs() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderMistral: DefaultMistralBaseURL,
		AIProviderOpenAI:  "https://api.openai.com/v1",
		AIProviderOllama:  "http://localhost:11434",
	}
}

// PipelineConfig holds paragraph pipeline configuration.
// Uses generic map-based config so new stages can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"segmenter"},
		ProcessorConfigs: map[string]map[string]any{
			"segmenter": {
				"min_length": 10,
			},
		},
	}
}
