// Package ai builds the LLM-backed services: the chat client, the field
// enricher and the document summariser.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamallm "github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/llm/ollama"
	openaillm "github.com/leo-dower/ocr-rag-super-charged/internal/adapters/driven/llm/openai"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// llmRequestsPerSecond throttles the hosted providers.
const llmRequestsPerSecond = 1

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	LLMService driven.LLMService
	Enricher   driven.Enricher
	Summariser driven.Summariser
	Warnings   []string // Non-fatal issues that caused fallback.
	FellBack   bool     // True if AI features were disabled.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise creates and validates the LLM service, then wraps it in an
// enricher and a summariser. Failures never abort: the result falls back
// to pattern-only extraction and unsummarised output, with a warning.
func Initialise(settings *domain.LLMSettings, prompts driven.PromptStore) *InitResult {
	result := &InitResult{}

	if settings == nil || !settings.IsConfigured() {
		result.FellBack = true
		result.Warnings = append(result.Warnings,
			"LLM provider not configured. Run 'ocrsc settings wizard' to enable AI features")
		return result
	}

	svc, err := CreateAndValidateLLMService(settings)
	if err != nil {
		result.FellBack = true
		result.Warnings = append(result.Warnings, err.Error())
		return result
	}

	result.LLMService = svc
	result.Enricher = NewEnricher(svc, prompts)
	result.Summariser = NewSummariser(svc, prompts)
	return result
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'ocrsc settings wizard' to fix",
			domain.ErrLLMUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'ocrsc settings wizard' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for use in the settings wizard to validate credentials on configuration.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderMistral, domain.AIProviderOpenAI:
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = domain.DefaultLLMBaseURLs()[settings.Provider]
		}
		model := settings.Model
		if model == "" {
			model = domain.DefaultLLMModels()[settings.Provider]
		}
		svc, err := openaillm.NewLLMService(openaillm.LLMConfig{
			Provider:          settings.Provider.String(),
			APIKey:            settings.APIKey,
			BaseURL:           baseURL,
			Model:             model,
			RequestsPerSecond: llmRequestsPerSecond,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
