// Package documentai provides the Google Document AI OCR engine.
package documentai

import (
	"context"
	"fmt"
	"os"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/normalisers"
)

// Ensure Engine implements the interface.
var _ driven.OCREngine = (*Engine)(nil)

// ProcessFunc sends one ProcessRequest and returns the processed document.
type ProcessFunc func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error)

// Engine recognises documents with a Document AI OCR processor.
type Engine struct {
	name    string
	process ProcessFunc
	closer  func() error
	limiter *rate.Limiter
}

// New connects to the regional Document AI endpoint. Credentials come from
// cfg.CredentialsFile, or Application Default Credentials when it is empty.
func New(ctx context.Context, cfg domain.DocumentAISettings, requestsPerSecond float64) (*Engine, error) {
	if !cfg.IsConfigured() {
		return nil, fmt.Errorf("%w: document AI needs project_id, location and processor_id", domain.ErrInvalidInput)
	}

	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)),
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Document AI client: %w", domain.ErrOCRUnavailable, err)
	}

	process := func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.Document, error) {
		resp, err := client.ProcessDocument(ctx, req)
		if err != nil {
			return nil, err
		}
		return resp.GetDocument(), nil
	}
	return NewWithProcessor(ProcessorName(cfg), process, client.Close, requestsPerSecond), nil
}

// NewWithProcessor creates an engine around a custom process function.
// closer may be nil.
func NewWithProcessor(name string, process ProcessFunc, closer func() error, requestsPerSecond float64) *Engine {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Engine{name: name, process: process, closer: closer, limiter: limiter}
}

// ProcessorName builds the processor resource name.
func ProcessorName(cfg domain.DocumentAISettings) string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", cfg.ProjectID, cfg.Location, cfg.ProcessorID)
}

// Name returns the engine name for logging.
func (e *Engine) Name() string { return "documentai" }

// Backend returns the documentai backend.
func (e *Engine) Backend() domain.OCRBackend { return domain.OCRBackendDocumentAI }

// Recognise sends the raw file to the processor. The language hint is
// ignored; Document AI detects languages itself.
func (e *Engine) Recognise(ctx context.Context, path, _ string) (*domain.OCRResult, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	mimeType := normalisers.MIMETypeForPath(path)
	if !normalisers.IsImage(mimeType) {
		mimeType = "application/pdf"
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("documentai: wait for rate limiter: %w", err)
	}

	doc, err := e.process(ctx, &documentaipb.ProcessRequest{
		Name: e.name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mimeType,
			},
		},
		SkipHumanReview: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}

	pages := len(doc.GetPages())
	return &domain.OCRResult{
		Text:    doc.GetText(),
		Pages:   pages,
		Backend: domain.OCRBackendDocumentAI,
		Usage: domain.OCRUsage{
			Calls:          1,
			PagesProcessed: pages,
			Duration:       time.Since(start),
		},
	}, nil
}

// Close releases the client connection.
func (e *Engine) Close() error {
	if e.closer == nil {
		return nil
	}
	return e.closer()
}
