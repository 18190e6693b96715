package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driving"
	"github.com/leo-dower/ocr-rag-super-charged/internal/logger"
)

// Ensure BatchService implements the interface.
var _ driving.BatchService = (*BatchService)(nil)

// BatchService runs field extraction over many documents.
type BatchService struct {
	source    driven.TextSource
	extractor driving.ExtractionService
	store     driven.BatchStore // Optional; nil disables persistence.
}

// BatchOption configures a BatchService.
type BatchOption func(*BatchService)

// WithBatchStore persists every completed batch.
func WithBatchStore(store driven.BatchStore) BatchOption {
	return func(s *BatchService) {
		s.store = store
	}
}

// NewBatchService creates a batch service.
func NewBatchService(source driven.TextSource, extractor driving.ExtractionService, opts ...BatchOption) *BatchService {
	s := &BatchService{
		source:    source,
		extractor: extractor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessBatch extracts every document in input order. A document whose
// text cannot be obtained is logged, recorded as a failure and skipped.
// Cancellation is only checked between documents.
func (s *BatchService) ProcessBatch(ctx context.Context, paths []string) (*domain.BatchResult, error) {
	result := &domain.BatchResult{
		ID:        uuid.New().String(),
		Rows:      make([]domain.BatchRow, 0, len(paths)),
		StartedAt: time.Now(),
	}

	logger.Section("Batch " + result.ID)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			result.CompletedAt = time.Now()
			return result, err
		}

		text, err := s.source.ExtractText(ctx, path)
		if err != nil {
			kind := domain.ClassifyFailure(err)
			logger.Error("failed to process %s: %v", path, err)
			result.Failures = append(result.Failures, domain.BatchFailure{
				Path:  path,
				Error: err.Error(),
				Kind:  kind,
			})
			continue
		}

		fields := s.extractor.Extract(ctx, text, "")
		logger.Debug("%s: %s with %d fields", path, fields.DocumentType, fields.Len())
		result.Rows = append(result.Rows, domain.BatchRow{Path: path, Result: fields})
	}
	result.CompletedAt = time.Now()

	if s.store != nil {
		if err := s.store.Save(ctx, result); err != nil {
			logger.Error("failed to store batch %s: %v", result.ID, err)
		}
	}

	logger.Info("batch %s: %d documents, %d failures", result.ID, len(result.Rows), len(result.Failures))
	return result, nil
}

// List returns stored batch runs, newest first.
func (s *BatchService) List(ctx context.Context) ([]domain.BatchSummary, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.List(ctx)
}

// Get returns a stored batch run.
func (s *BatchService) Get(ctx context.Context, id string) (*domain.BatchResult, error) {
	if s.store == nil {
		return nil, fmt.Errorf("batch %s: %w", id, domain.ErrNotFound)
	}
	return s.store.Get(ctx, id)
}
