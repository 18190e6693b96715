package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driving"
	"github.com/leo-dower/ocr-rag-super-charged/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService runs the per-file pipeline: text extraction, segmentation,
// dataset append and rendering.
type DocumentService struct {
	source   driven.TextSource
	pipeline driven.PostProcessorPipeline
	dataset  driving.DatasetService

	// Optional collaborators; nil or empty disables the step.
	writer     driven.DatasetWriter
	renderers  []driven.DocumentRenderer
	summariser driven.Summariser
	outputDir  string
	summaries  bool
}

// DocumentOption configures a DocumentService.
type DocumentOption func(*DocumentService)

// WithDatasetWriter appends valid records to the dataset.
func WithDatasetWriter(w driven.DatasetWriter) DocumentOption {
	return func(s *DocumentService) {
		s.writer = w
	}
}

// WithRenderers renders every processed file into outputDir.
func WithRenderers(outputDir string, renderers ...driven.DocumentRenderer) DocumentOption {
	return func(s *DocumentService) {
		s.outputDir = outputDir
		s.renderers = append(s.renderers, renderers...)
	}
}

// WithSummariser configures the summariser. When enabled is true, rendered
// outputs are prefixed with the summary.
func WithSummariser(summariser driven.Summariser, enabled bool) DocumentOption {
	return func(s *DocumentService) {
		s.summariser = summariser
		s.summaries = enabled
	}
}

// NewDocumentService creates a document service.
func NewDocumentService(
	source driven.TextSource,
	pipeline driven.PostProcessorPipeline,
	dataset driving.DatasetService,
	opts ...DocumentOption,
) *DocumentService {
	s := &DocumentService{
		source:   source,
		pipeline: pipeline,
		dataset:  dataset,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExtractText returns the text of a file.
func (s *DocumentService) ExtractText(ctx context.Context, path string) (string, error) {
	return s.source.ExtractText(ctx, path)
}

// Segment splits text into typed paragraphs.
func (s *DocumentService) Segment(ctx context.Context, text string) ([]domain.Paragraph, error) {
	return s.pipeline.Process(ctx, &domain.Document{Content: text})
}

// ProcessFile runs the whole pipeline on one file.
func (s *DocumentService) ProcessFile(ctx context.Context, path string) domain.FileOutcome {
	outcome := domain.FileOutcome{Path: path}

	text, err := s.source.ExtractText(ctx, path)
	if err != nil {
		outcome.Err = fmt.Errorf("extract %s: %w", path, err)
		return outcome
	}

	doc := newDocument(path, text)
	paragraphs, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		outcome.Err = fmt.Errorf("segment %s: %w", path, err)
		return outcome
	}
	outcome.Paragraphs = len(paragraphs)

	written, err := s.appendRecord(ctx, text, paragraphs)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.RecordWritten = written

	if len(s.renderers) == 0 {
		return outcome
	}

	summary := s.summarise(ctx, path, text)
	for _, r := range s.renderers {
		out, err := s.render(ctx, r, doc, paragraphs, summary)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.Outputs = append(outcome.Outputs, out)
	}
	return outcome
}

// ProcessDirectory processes every supported file in dir. Files run on a
// bounded pool of workers; outcomes keep file name order. Cancellation is
// checked before each file starts.
func (s *DocumentService) ProcessDirectory(ctx context.Context, dir string, workers int) ([]domain.FileOutcome, error) {
	paths, err := ListSupportedFiles(dir)
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	outcomes := make([]domain.FileOutcome, len(paths))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i] = domain.FileOutcome{Path: path, Err: err}
				return nil
			}
			outcomes[i] = s.ProcessFile(ctx, path)
			if outcomes[i].Err != nil {
				logger.Error("failed to process %s: %v", path, outcomes[i].Err)
			} else {
				logger.Info("processed %s (%d paragraphs)", path, outcomes[i].Paragraphs)
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		for i := range outcomes {
			if outcomes[i].Path == "" {
				outcomes[i] = domain.FileOutcome{Path: paths[i], Err: err}
			}
		}
		return outcomes, err
	}
	return outcomes, nil
}

// Summarise returns the AI summary of a file.
func (s *DocumentService) Summarise(ctx context.Context, path string) (*domain.DocumentSummary, error) {
	if s.summariser == nil {
		return nil, domain.ErrLLMUnavailable
	}
	text, err := s.source.ExtractText(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return s.summariser.Summarise(ctx, text)
}

// ListSupportedFiles returns the supported files of dir in name order.
func ListSupportedFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsSupportedFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

// IsSupportedFile reports whether the file extension is accepted by the pipeline.
func IsSupportedFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range driving.SupportedExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

func (s *DocumentService) appendRecord(ctx context.Context, text string, paragraphs []domain.Paragraph) (bool, error) {
	if s.writer == nil {
		return false, nil
	}
	record, ok := s.dataset.BuildRecord(text, paragraphs)
	if !ok {
		logger.Debug("no paragraphs survived segmentation, skipping dataset record")
		return false, nil
	}
	if !s.dataset.ValidateRecord(record) {
		logger.Warn("built record failed validation, skipping")
		return false, nil
	}
	if err := s.writer.Append(ctx, record); err != nil {
		return false, fmt.Errorf("append dataset record: %w", err)
	}
	return true, nil
}

func (s *DocumentService) summarise(ctx context.Context, path, text string) *domain.DocumentSummary {
	if !s.summaries || s.summariser == nil {
		return nil
	}
	summary, err := s.summariser.Summarise(ctx, text)
	if err != nil {
		logger.Error("failed to summarise %s: %v", path, err)
		return nil
	}
	return summary
}

func (s *DocumentService) render(
	ctx context.Context,
	r driven.DocumentRenderer,
	doc *domain.Document,
	paragraphs []domain.Paragraph,
	summary *domain.DocumentSummary,
) (string, error) {
	data, err := r.Render(ctx, doc, paragraphs, summary)
	if err != nil {
		return "", fmt.Errorf("render %s as %s: %w", doc.URI, r.Name(), err)
	}
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	out := filepath.Join(s.outputDir, doc.Title+r.Extension())
	if err := os.WriteFile(out, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}

func newDocument(path, text string) *domain.Document {
	base := filepath.Base(path)
	return &domain.Document{
		ID:        uuid.New().String(),
		URI:       path,
		Title:     strings.TrimSuffix(base, filepath.Ext(base)),
		Content:   text,
		CreatedAt: time.Now(),
	}
}
