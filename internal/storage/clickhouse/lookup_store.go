package clickhouse

import (
	"context"
	"fmt"

	"nft-metadata-api/internal/domain"
	"nft-metadata-api/internal/storage"
)

// LookupStore implements storage.LookupStore using ClickHouse.
// MergeTree does not enforce uniqueness, so Insert checks for the id first.
type LookupStore struct {
	conn *Conn
}

// NewLookupStore creates a new LookupStore.
func NewLookupStore(conn *Conn) *LookupStore {
	return &LookupStore{conn: conn}
}

// Compile-time interface check.
var _ storage.LookupStore = (*LookupStore)(nil)

// Insert adds a new lookup. Returns ErrDuplicateKey if id exists.
func (s *LookupStore) Insert(ctx context.Context, l *domain.Lookup) error {
	if err := storage.ValidateLookup(l); err != nil {
		return err
	}

	exists, err := s.exists(ctx, l.ID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO metadata_lookups (
			id, mint, metadata_address, outcome, error, duration_ms, requested_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	err = batch.Append(
		l.ID, l.Mint, l.MetadataAddress, string(l.Outcome), l.Error, l.DurationMs, l.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByID retrieves a lookup by ID. Returns ErrNotFound if not exists.
func (s *LookupStore) GetByID(ctx context.Context, id string) (*domain.Lookup, error) {
	query := `
		SELECT id, mint, metadata_address, outcome, error, duration_ms, requested_at
		FROM metadata_lookups
		WHERE id = ?
		LIMIT 1
	`

	rows, err := s.conn.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("query lookup by id: %w", err)
	}
	defer rows.Close()

	lookups, err := scanLookups(rows)
	if err != nil {
		return nil, err
	}
	if len(lookups) == 0 {
		return nil, storage.ErrNotFound
	}
	return lookups[0], nil
}

// ListByMint retrieves lookups for a mint, ordered by requested_at DESC.
func (s *LookupStore) ListByMint(ctx context.Context, mint string, limit int) ([]*domain.Lookup, error) {
	query := `
		SELECT id, mint, metadata_address, outcome, error, duration_ms, requested_at
		FROM metadata_lookups
		WHERE mint = ?
		ORDER BY requested_at DESC, id ASC
	`
	args := []any{mint}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, uint64(limit))
	}

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lookups by mint: %w", err)
	}
	defer rows.Close()

	return scanLookups(rows)
}

func (s *LookupStore) exists(ctx context.Context, id string) (bool, error) {
	var count uint64
	row := s.conn.QueryRow(ctx, `SELECT count() FROM metadata_lookups WHERE id = ?`, id)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// chRows is the subset of driver.Rows used by scanners.
type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

// scanLookups scans multiple rows into a slice.
func scanLookups(rows chRows) ([]*domain.Lookup, error) {
	result := make([]*domain.Lookup, 0)
	for rows.Next() {
		var (
			l       domain.Lookup
			outcome string
		)
		if err := rows.Scan(
			&l.ID, &l.Mint, &l.MetadataAddress, &outcome, &l.Error, &l.DurationMs, &l.RequestedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		l.Outcome = domain.LookupOutcome(outcome)
		result = append(result, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookups: %w", err)
	}
	return result, nil
}
