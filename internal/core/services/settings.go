package services

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyOCRBackend       = "ocr.backend"
	keyOCRLanguage      = "ocr.language"
	keyOCRMinText       = "ocr.min_text_length"
	keyOCRAPIKey        = "ocr.api_key"
	keyOCRBaseURL       = "ocr.base_url"
	keyOCRRateLimit     = "ocr.rate_limit"
	keyDocAIProject     = "ocr.documentai.project_id"
	keyDocAILocation    = "ocr.documentai.location"
	keyDocAIProcessor   = "ocr.documentai.processor_id"
	keyDocAICredentials = "ocr.documentai.credentials_file"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyEnrich           = "extraction.enrich"
	keyPatternsFile     = "extraction.patterns_file"
	keyOutputDir        = "output.directory"
	keyDatasetFile      = "output.dataset_file"
	keyTableFormat      = "output.table_format"
	keyTableFile        = "output.table_file"
	keyMarkdown         = "output.markdown"
	keyHTML             = "output.html"
	keySummary          = "output.summary"
	keyProcessors       = "segmentation.processors"
)

// Environment variables that override stored credentials.
const (
	EnvMistralAPIKey     = "MISTRAL_API_KEY"
	EnvGoogleCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
	kindList
)

// settingKinds lists every key accepted by Set.
var settingKinds = map[string]valueKind{
	keyOCRBackend:       kindString,
	keyOCRLanguage:      kindString,
	keyOCRMinText:       kindInt,
	keyOCRAPIKey:        kindString,
	keyOCRBaseURL:       kindString,
	keyOCRRateLimit:     kindFloat,
	keyDocAIProject:     kindString,
	keyDocAILocation:    kindString,
	keyDocAIProcessor:   kindString,
	keyDocAICredentials: kindString,
	keyLLMProvider:      kindString,
	keyLLMModel:         kindString,
	keyLLMBaseURL:       kindString,
	keyLLMAPIKey:        kindString,
	keyEnrich:           kindBool,
	keyPatternsFile:     kindString,
	keyOutputDir:        kindString,
	keyDatasetFile:      kindString,
	keyTableFormat:      kindString,
	keyTableFile:        kindString,
	keyMarkdown:         kindBool,
	keyHTML:             kindBool,
	keySummary:          kindBool,
	keyProcessors:       kindList,
}

type settingValue struct {
	key   string
	value any
}

// SettingKeys returns every configurable key in sorted order.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves stored application settings, falling back to defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		OCR: domain.OCRSettings{
			Backend:       s.getOCRBackend(defaults.OCR.Backend),
			Language:      s.getLanguage(defaults.OCR.Language),
			MinTextLength: s.getInt(keyOCRMinText, defaults.OCR.MinTextLength),
			APIKey:        s.configStore.GetString(keyOCRAPIKey),
			BaseURL:       s.getString(keyOCRBaseURL, defaults.OCR.BaseURL),
			RateLimit:     s.getFloat(keyOCRRateLimit, defaults.OCR.RateLimit),
			DocumentAI: domain.DocumentAISettings{
				ProjectID:       s.configStore.GetString(keyDocAIProject),
				Location:        s.getString(keyDocAILocation, defaults.OCR.DocumentAI.Location),
				ProcessorID:     s.configStore.GetString(keyDocAIProcessor),
				CredentialsFile: s.configStore.GetString(keyDocAICredentials),
			},
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty uses the provider endpoint
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Extraction: domain.ExtractionSettings{
			Enrich:       s.getBool(keyEnrich, defaults.Extraction.Enrich),
			PatternsFile: s.configStore.GetString(keyPatternsFile),
		},
		Output: domain.OutputSettings{
			Directory:   s.getString(keyOutputDir, defaults.Output.Directory),
			DatasetFile: s.getString(keyDatasetFile, defaults.Output.DatasetFile),
			TableFormat: s.getTableFormat(defaults.Output.TableFormat),
			TableFile:   s.getString(keyTableFile, defaults.Output.TableFile),
			Markdown:    s.getBool(keyMarkdown, defaults.Output.Markdown),
			HTML:        s.getBool(keyHTML, defaults.Output.HTML),
			Summary:     s.getBool(keySummary, defaults.Output.Summary),
		},
		Segmentation: s.GetPipelineConfig(),
	}

	return settings, nil
}

// Resolved returns the stored settings with environment credentials
// filled in where the config file has none. The result is meant for
// wiring adapters and is never saved.
func (s *SettingsService) Resolved() (*domain.AppSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	if key := s.getenv(EnvMistralAPIKey); key != "" {
		if settings.OCR.APIKey == "" {
			settings.OCR.APIKey = key
		}
		if settings.LLM.APIKey == "" && settings.LLM.Provider == domain.AIProviderMistral {
			settings.LLM.APIKey = key
		}
	}
	if creds := s.getenv(EnvGoogleCredentials); creds != "" && settings.OCR.DocumentAI.CredentialsFile == "" {
		settings.OCR.DocumentAI.CredentialsFile = creds
	}
	return settings, nil
}

// Save persists application settings. Empty API keys are not written so
// that saving never erases a stored key.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []settingValue{
		{keyOCRBackend, settings.OCR.Backend.String()},
		{keyOCRLanguage, settings.OCR.Language},
		{keyOCRMinText, settings.OCR.MinTextLength},
		{keyOCRBaseURL, settings.OCR.BaseURL},
		{keyOCRRateLimit, settings.OCR.RateLimit},
		{keyDocAIProject, settings.OCR.DocumentAI.ProjectID},
		{keyDocAILocation, settings.OCR.DocumentAI.Location},
		{keyDocAIProcessor, settings.OCR.DocumentAI.ProcessorID},
		{keyDocAICredentials, settings.OCR.DocumentAI.CredentialsFile},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyEnrich, settings.Extraction.Enrich},
		{keyPatternsFile, settings.Extraction.PatternsFile},
		{keyOutputDir, settings.Output.Directory},
		{keyDatasetFile, settings.Output.DatasetFile},
		{keyTableFormat, settings.Output.TableFormat.String()},
		{keyTableFile, settings.Output.TableFile},
		{keyMarkdown, settings.Output.Markdown},
		{keyHTML, settings.Output.HTML},
		{keySummary, settings.Output.Summary},
		{keyProcessors, settings.Segmentation.Processors},
	}
	if settings.OCR.APIKey != "" {
		values = append(values, settingValue{keyOCRAPIKey, settings.OCR.APIKey})
	}
	if settings.LLM.APIKey != "" {
		values = append(values, settingValue{keyLLMAPIKey, settings.LLM.APIKey})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Set updates a single setting from its string form.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := validateSetting(key, value); err != nil {
		return err
	}

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindFloat:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
		}
		parsed = f
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindList:
		parsed = splitList(value)
	default:
		parsed = value
	}

	return s.configStore.Set(key, parsed)
}

// SetOCRBackend selects the OCR engine.
func (s *SettingsService) SetOCRBackend(backend domain.OCRBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid OCR backend: %s", backend)
	}
	return s.configStore.Set(keyOCRBackend, backend.String())
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	// Local providers need a base URL; cloud providers use their default endpoint.
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = domain.DefaultLLMBaseURLs()[provider]
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks if current settings are consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Resolved()
	if err != nil {
		return err
	}

	if !settings.OCR.Backend.IsValid() {
		return fmt.Errorf("invalid OCR backend: %s", settings.OCR.Backend)
	}
	if !settings.OCR.IsConfigured() {
		return fmt.Errorf("OCR backend %q is missing credentials or processor settings",
			settings.OCR.Backend.Description())
	}
	if (settings.Extraction.Enrich || settings.Output.Summary) && !settings.LLM.IsConfigured() {
		return fmt.Errorf("AI enrichment and summaries require LLM provider %q to be configured",
			settings.LLM.Provider.Description())
	}
	if len(settings.Segmentation.Processors) == 0 || settings.Segmentation.Processors[0] != "segmenter" {
		return fmt.Errorf("segmentation.processors must start with \"segmenter\"")
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Resolved()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// GetPipelineConfig returns the paragraph pipeline configuration.
// Returns default configuration if nothing is configured.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	defaults := domain.DefaultPipelineConfig()

	if processors := s.configStore.GetStringSlice(keyProcessors); len(processors) > 0 {
		defaults.Processors = processors
	}

	for _, name := range defaults.Processors {
		cfg := s.loadProcessorConfig("segmentation." + name + ".")
		if len(cfg) == 0 {
			continue
		}
		if defaults.ProcessorConfigs == nil {
			defaults.ProcessorConfigs = make(map[string]map[string]any)
		}
		existing := defaults.ProcessorConfigs[name]
		if existing == nil {
			existing = make(map[string]any)
		}
		for k, v := range cfg {
			existing[k] = v
		}
		defaults.ProcessorConfigs[name] = existing
	}

	return defaults
}

// loadProcessorConfig loads config keys with a given prefix into a map.
func (s *SettingsService) loadProcessorConfig(prefix string) map[string]any {
	cfg := make(map[string]any)
	for _, key := range []string{"min_length", "replacement"} {
		if val, exists := s.configStore.Get(prefix + key); exists {
			cfg[key] = val
		}
	}
	return cfg
}

func validateSetting(key, value string) error {
	switch key {
	case keyOCRBackend:
		if !domain.OCRBackend(value).IsValid() {
			return fmt.Errorf("%w: OCR backend %q (use local, mistral or documentai)", domain.ErrInvalidInput, value)
		}
	case keyOCRLanguage:
		if _, ok := domain.LanguageName(value); !ok {
			return fmt.Errorf("%w: unsupported language %q", domain.ErrInvalidInput, value)
		}
	case keyLLMProvider:
		if !domain.AIProvider(value).IsValid() {
			return fmt.Errorf("%w: LLM provider %q", domain.ErrInvalidInput, value)
		}
	case keyTableFormat:
		if !domain.TableFormat(value).IsValid() {
			return fmt.Errorf("%w: table format %q (use csv or xlsx)", domain.ErrInvalidInput, value)
		}
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val := s.configStore.GetFloat(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getOCRBackend(defaultVal domain.OCRBackend) domain.OCRBackend {
	backend := domain.OCRBackend(s.configStore.GetString(keyOCRBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getLanguage(defaultVal string) string {
	lang := s.configStore.GetString(keyOCRLanguage)
	if _, ok := domain.LanguageName(lang); !ok {
		return defaultVal
	}
	return lang
}

func (s *SettingsService) getTableFormat(defaultVal domain.TableFormat) domain.TableFormat {
	format := domain.TableFormat(s.configStore.GetString(keyTableFormat))
	if !format.IsValid() {
		return defaultVal
	}
	return format
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
