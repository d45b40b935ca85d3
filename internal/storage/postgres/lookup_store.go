package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"nft-metadata-api/internal/domain"
	"nft-metadata-api/internal/storage"
)

// LookupStore implements storage.LookupStore using PostgreSQL.
type LookupStore struct {
	pool *Pool
}

// NewLookupStore creates a new LookupStore.
func NewLookupStore(pool *Pool) *LookupStore {
	return &LookupStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LookupStore = (*LookupStore)(nil)

// Insert adds a new lookup. Returns ErrDuplicateKey if id exists.
func (s *LookupStore) Insert(ctx context.Context, l *domain.Lookup) error {
	if err := storage.ValidateLookup(l); err != nil {
		return err
	}

	query := `
		INSERT INTO metadata_lookups (
			id, mint, metadata_address, outcome, error, duration_ms, requested_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		l.ID,
		l.Mint,
		l.MetadataAddress,
		string(l.Outcome),
		l.Error,
		l.DurationMs,
		l.RequestedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert lookup: %w", err)
	}
	return nil
}

// GetByID retrieves a lookup by ID. Returns ErrNotFound if not exists.
func (s *LookupStore) GetByID(ctx context.Context, id string) (*domain.Lookup, error) {
	query := `
		SELECT id, mint, metadata_address, outcome, error, duration_ms, requested_at
		FROM metadata_lookups
		WHERE id = $1
	`

	row := s.pool.QueryRow(ctx, query, id)
	l, err := scanLookup(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get lookup by id: %w", err)
	}
	return l, nil
}

// ListByMint retrieves lookups for a mint, ordered by requested_at DESC.
func (s *LookupStore) ListByMint(ctx context.Context, mint string, limit int) ([]*domain.Lookup, error) {
	query := `
		SELECT id, mint, metadata_address, outcome, error, duration_ms, requested_at
		FROM metadata_lookups
		WHERE mint = $1
		ORDER BY requested_at DESC, id ASC
	`
	args := []any{mint}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lookups by mint: %w", err)
	}
	defer rows.Close()

	result := make([]*domain.Lookup, 0)
	for rows.Next() {
		l, err := scanLookup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookups: %w", err)
	}

	return result, nil
}

// scanLookup scans a single row into Lookup.
func scanLookup(row pgx.Row) (*domain.Lookup, error) {
	var (
		l       domain.Lookup
		outcome string
	)

	err := row.Scan(
		&l.ID,
		&l.Mint,
		&l.MetadataAddress,
		&outcome,
		&l.Error,
		&l.DurationMs,
		&l.RequestedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Outcome = domain.LookupOutcome(outcome)
	return &l, nil
}
