package memory

import (
	"context"
	"sort"
	"sync"

	"nft-metadata-api/internal/domain"
	"nft-metadata-api/internal/storage"
)

// LookupStore is an in-memory implementation of storage.LookupStore.
type LookupStore struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Lookup
	byMint map[string][]*domain.Lookup // insertion order
}

// NewLookupStore creates a new in-memory lookup store.
func NewLookupStore() *LookupStore {
	return &LookupStore{
		byID:   make(map[string]*domain.Lookup),
		byMint: make(map[string][]*domain.Lookup),
	}
}

// Insert adds a new lookup. Returns ErrDuplicateKey if id already exists.
func (s *LookupStore) Insert(_ context.Context, l *domain.Lookup) error {
	if err := storage.ValidateLookup(l); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[l.ID]; exists {
		return storage.ErrDuplicateKey
	}

	lookupCopy := *l
	s.byID[l.ID] = &lookupCopy
	s.byMint[l.Mint] = append(s.byMint[l.Mint], &lookupCopy)
	return nil
}

// GetByID retrieves a lookup by ID. Returns ErrNotFound if not exists.
func (s *LookupStore) GetByID(_ context.Context, id string) (*domain.Lookup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, exists := s.byID[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	lookupCopy := *l
	return &lookupCopy, nil
}

// ListByMint retrieves lookups for a mint, newest first.
func (s *LookupStore) ListByMint(_ context.Context, mint string, limit int) ([]*domain.Lookup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.byMint[mint]
	result := make([]*domain.Lookup, 0, len(entries))
	for _, l := range entries {
		lookupCopy := *l
		result = append(result, &lookupCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].RequestedAt != result[j].RequestedAt {
			return result[i].RequestedAt > result[j].RequestedAt
		}
		return result[i].ID < result[j].ID
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

var _ storage.LookupStore = (*LookupStore)(nil)
