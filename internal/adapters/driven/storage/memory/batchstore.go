package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
	"github.com/leo-dower/ocr-rag-super-charged/internal/core/ports/driven"
)

// Ensure BatchStore implements the interface.
var _ driven.BatchStore = (*BatchStore)(nil)

// BatchStore is an in-memory implementation of driven.BatchStore.
type BatchStore struct {
	mu      sync.RWMutex
	batches map[string]*domain.BatchResult
}

// NewBatchStore creates a new in-memory batch store.
func NewBatchStore() *BatchStore {
	return &BatchStore{
		batches: make(map[string]*domain.BatchResult),
	}
}

// Save stores a batch result, replacing any run with the same ID.
func (s *BatchStore) Save(_ context.Context, result *domain.BatchResult) error {
	if result == nil || result.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[result.ID] = copyBatch(result)
	return nil
}

// Get retrieves a batch result by ID.
func (s *BatchStore) Get(_ context.Context, id string) (*domain.BatchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyBatch(b), nil
}

// List returns stored runs, newest first.
func (s *BatchStore) List(_ context.Context) ([]domain.BatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.BatchSummary, 0, len(s.batches))
	for _, b := range s.batches {
		out = append(out, b.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out, nil
}

// Delete removes a batch run.
func (s *BatchStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.batches[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.batches, id)
	return nil
}

func copyBatch(b *domain.BatchResult) *domain.BatchResult {
	c := *b
	c.Rows = make([]domain.BatchRow, len(b.Rows))
	for i, row := range b.Rows {
		c.Rows[i] = domain.BatchRow{Path: row.Path, Result: row.Result.Clone()}
	}
	c.Failures = append([]domain.BatchFailure(nil), b.Failures...)
	return &c
}
