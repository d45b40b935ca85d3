package storage

import (
	"context"

	"nft-metadata-api/internal/domain"
)

// LookupStore provides access to metadata_lookups storage.
// The journal is append-only and is never consulted to answer a resolution.
type LookupStore interface {
	// Insert adds a new lookup. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, l *domain.Lookup) error

	// GetByID retrieves a lookup by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.Lookup, error)

	// ListByMint retrieves up to limit lookups for a mint, ordered by requested_at DESC.
	// A limit <= 0 returns all lookups.
	ListByMint(ctx context.Context, mint string, limit int) ([]*domain.Lookup, error)
}

// ValidateLookup checks the fields every backend requires before insert.
func ValidateLookup(l *domain.Lookup) error {
	if l == nil || l.ID == "" || l.Mint == "" || !l.Outcome.Valid() {
		return ErrInvalidInput
	}
	if l.DurationMs < 0 || l.RequestedAt < 0 {
		return ErrInvalidInput
	}
	return nil
}
