package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nft-metadata-api/internal/domain"
	"nft-metadata-api/internal/storage"
)

func newLookup(id, mint string, requestedAt int64) *domain.Lookup {
	return &domain.Lookup{
		ID:              id,
		Mint:            mint,
		MetadataAddress: "meta-" + mint,
		Outcome:         domain.LookupOutcomeOK,
		DurationMs:      12,
		RequestedAt:     requestedAt,
	}
}

func TestLookupStore_InsertAndGetByID(t *testing.T) {
	store := NewLookupStore()
	ctx := context.Background()

	l := newLookup("id1", "mint1", 1704067200000)
	require.NoError(t, store.Insert(ctx, l))

	got, err := store.GetByID(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, l, got)

	// Returned values are copies.
	got.Mint = "changed"
	again, err := store.GetByID(ctx, "id1")
	require.NoError(t, err)
	assert.Equal(t, "mint1", again.Mint)
}

func TestLookupStore_GetByID_NotFound(t *testing.T) {
	store := NewLookupStore()

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLookupStore_DuplicateKey(t *testing.T) {
	store := NewLookupStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newLookup("id1", "mint1", 1)))
	err := store.Insert(ctx, newLookup("id1", "mint2", 2))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestLookupStore_InvalidInput(t *testing.T) {
	store := NewLookupStore()
	ctx := context.Background()

	bad := newLookup("id1", "mint1", 1)
	bad.Outcome = "exploded"

	negative := newLookup("id2", "mint1", 1)
	negative.DurationMs = -1

	for _, l := range []*domain.Lookup{nil, newLookup("", "mint1", 1), newLookup("id3", "", 1), bad, negative} {
		assert.ErrorIs(t, store.Insert(ctx, l), storage.ErrInvalidInput)
	}
}

func TestLookupStore_ListByMint(t *testing.T) {
	store := NewLookupStore()
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, newLookup("a", "mint1", 100)))
	require.NoError(t, store.Insert(ctx, newLookup("b", "mint1", 300)))
	require.NoError(t, store.Insert(ctx, newLookup("c", "mint1", 200)))
	require.NoError(t, store.Insert(ctx, newLookup("d", "mint2", 400)))

	got, err := store.ListByMint(ctx, "mint1", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
	assert.Equal(t, "a", got[2].ID)

	limited, err := store.ListByMint(ctx, "mint1", 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "b", limited[0].ID)
	assert.Equal(t, "c", limited[1].ID)
}

func TestLookupStore_ListByMint_Empty(t *testing.T) {
	store := NewLookupStore()

	got, err := store.ListByMint(context.Background(), "unknown", 10)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLookupStore_ConcurrentInsert(t *testing.T) {
	store := NewLookupStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Insert(ctx, newLookup(fmt.Sprintf("id%d", i), "mint1", int64(i))))
		}(i)
	}
	wg.Wait()

	got, err := store.ListByMint(ctx, "mint1", 0)
	require.NoError(t, err)
	assert.Len(t, got, 50)
	assert.Equal(t, int64(49), got[0].RequestedAt)
}
