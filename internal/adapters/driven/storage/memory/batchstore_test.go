package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leo-dower/ocr-rag-super-charged/internal/core/domain"
)

func newBatch(id string, started time.Time) *domain.BatchResult {
	fields := domain.NewExtractedFieldSet(domain.DocumentTypeFiscal)
	fields.Set("valor_total", 99.9)
	return &domain.BatchResult{
		ID:          id,
		Rows:        []domain.BatchRow{{Path: "nota.pdf", Result: fields}},
		StartedAt:   started,
		CompletedAt: started.Add(time.Second),
	}
}

func TestBatchStore_SaveAndGet(t *testing.T) {
	store := NewBatchStore()
	ctx := context.Background()

	batch := newBatch("b1", time.Now())
	require.NoError(t, store.Save(ctx, batch))

	got, err := store.Get(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "nota.pdf", got.Rows[0].Path)

	// Stored copies are isolated from the caller.
	batch.Rows[0].Result.Set("cnpj", "x")
	got, err = store.Get(ctx, "b1")
	require.NoError(t, err)
	_, ok := got.Rows[0].Result.Get("cnpj")
	assert.False(t, ok)
}

func TestBatchStore_Save_Invalid(t *testing.T) {
	store := NewBatchStore()
	assert.ErrorIs(t, store.Save(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Save(context.Background(), &domain.BatchResult{}), domain.ErrInvalidInput)
}

func TestBatchStore_Get_NotFound(t *testing.T) {
	store := NewBatchStore()
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBatchStore_List_NewestFirst(t *testing.T) {
	store := NewBatchStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, newBatch("old", base)))
	require.NoError(t, store.Save(ctx, newBatch("new", base.Add(time.Hour))))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
	assert.Equal(t, 1, list[0].Documents)
}

func TestBatchStore_Delete(t *testing.T) {
	store := NewBatchStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newBatch("b1", time.Now())))
	require.NoError(t, store.Delete(ctx, "b1"))
	assert.ErrorIs(t, store.Delete(ctx, "b1"), domain.ErrNotFound)
}
