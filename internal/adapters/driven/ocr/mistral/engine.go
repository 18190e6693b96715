// Package mistral provides the Mistral OCR API engine.
package mistral

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// Default configuration values.
const (
	DefaultBaseURL = domain.DefaultMistralBaseURL
	DefaultModel   = "mistral-ocr-latest"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Mistral OCR engine.
type Config struct {
	// APIKey is the Mistral API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.mistral.ai/v1).
	BaseURL string

	// Model is the OCR model (default: mistral-ocr-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond throttles uploads. Zero disables throttling.
	RequestsPerSecond float64
}

// Engine uploads documents to the /ocr endpoint.
type Engine struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	model   string
}

type ocrRequest struct {
	Model              string      `json:"model"`
	ID                 string      `json:"id"`
	Document           ocrDocument `json:"document"`
	IncludeImageBase64 bool        `json:"include_image_base64"`
	Language           string      `json:"language,omitempty"`
}

type ocrDocument struct {
	Type         string `json:"type"`
	DocumentURL  string `json:"document_url,omitempty"`
	ImageURL     string `json:"image_url,omitempty"`
	DocumentName string `json:"document_name,omitempty"`
}

type ocrResponse struct {
	Pages []struct {
		Index    int     `json:"index"`
		Text     *string `json:"text,omitempty"`
		Markdown string  `json:"markdown"`
	} `json:"pages"`
	UsageInfo struct {
		PagesProcessed int `json:"pages_processed"`
	} `json:"usage_info"`
}

// New creates a Mistral OCR engine.
func New(cfg Config) (*Engine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mistral ocr: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Engine{
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Name returns the engine name for logging.
func (e *Engine) Name() string { return "mistral-ocr" }

// Backend returns the mistral backend.
func (e *Engine) Backend() domain.OCRBackend { return domain.OCRBackendMistral }

// Recognise uploads the file as base64 and joins the text of every page
// with blank lines.
func (e *Engine) Recognise(ctx context.Context, path, lang string) (*domain.OCRResult, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	reqBody := ocrRequest{
		Model:    e.model,
		ID:       uuid.NewString(),
		Document: document(path, data),
	}
	if name, ok := domain.LanguageName(lang); ok {
		reqBody.Language = name
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("mistral ocr: wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/ocr", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: mistral ocr network request failed: %w", domain.ErrOCRUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("mistral ocr: %w", domain.ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("mistral ocr error (status %d): %s", resp.StatusCode, string(body))
	}

	var ocrResp ocrResponse
	if err := json.Unmarshal(body, &ocrResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	texts := make([]string, 0, len(ocrResp.Pages))
	for _, p := range ocrResp.Pages {
		text := p.Markdown
		if p.Text != nil {
			text = *p.Text
		}
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}

	pages := ocrResp.UsageInfo.PagesProcessed
	if pages == 0 {
		pages = len(ocrResp.Pages)
	}

	return &domain.OCRResult{
		Text:    strings.Join(texts, "\n\n"),
		Pages:   len(ocrResp.Pages),
		Backend: domain.OCRBackendMistral,
		Usage: domain.OCRUsage{
			Calls:          1,
			PagesProcessed: pages,
			Duration:       time.Since(start),
		},
	}, nil
}

// Close releases resources.
func (e *Engine) Close() error { return nil }

// document encodes the file as a data URL. Images go through image_url,
// everything else is sent as a PDF document.
func document(path string, data []byte) ocrDocument {
	mimeType := normalisers.MIMETypeForPath(path)
	encoded := base64.StdEncoding.EncodeToString(data)
	if normalisers.IsImage(mimeType) {
		return ocrDocument{
			Type:     "image_url",
			ImageURL: "data:" + mimeType + ";base64," + encoded,
		}
	}
	return ocrDocument{
		Type:         "document_url",
		DocumentURL:  "data:application/pdf;base64," + encoded,
		DocumentName: filepath.Base(path),
	}
}
