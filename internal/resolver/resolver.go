// Package resolver turns a mint address into its sanitized Metaplex metadata.
package resolver

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nft-metadata-api/internal/domain"
	"nft-metadata-api/internal/metaplex"
	"nft-metadata-api/internal/observability"
	"nft-metadata-api/internal/solana"
	"nft-metadata-api/internal/storage"
)

// journalTimeout bounds a single journal write.
const journalTimeout = 5 * time.Second

// Resolver resolves mint addresses to metadata. Safe for concurrent use.
type Resolver struct {
	reader  solana.AccountReader
	logger  *zap.Logger
	journal storage.LookupStore
	backend string

	derive func(mint solana.Address) (solana.Address, bool)
	now    func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithJournal records every resolution in store. backend labels the
// journal write metrics.
func WithJournal(store storage.LookupStore, backend string) Option {
	return func(r *Resolver) {
		r.journal = store
		r.backend = backend
	}
}

// New creates a Resolver reading accounts through reader.
func New(reader solana.AccountReader, opts ...Option) *Resolver {
	r := &Resolver{
		reader: reader,
		logger: zap.L(),
		derive: metaplex.DeriveMetadataAddress,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("component", "resolver"))
	return r
}

// Resolve returns the metadata of mint. Every failure is a *ResolutionError.
// A single RPC call is made; ctx bounds it.
func (r *Resolver) Resolve(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	start := r.now()

	meta, pda, err := r.resolve(ctx, mint)

	elapsed := r.now().Sub(start)
	outcome := domain.LookupOutcomeOK
	if err != nil {
		outcome = KindOf(err).Outcome()
	}
	observability.RecordResolution(string(outcome), elapsed.Seconds())

	if err != nil {
		r.logger.Warn("resolution failed",
			zap.String("mint", mint),
			zap.String("outcome", string(outcome)),
			zap.Error(err),
		)
	} else {
		r.logger.Debug("resolved metadata",
			zap.String("mint", mint),
			zap.String("metadata_address", pda),
			zap.String("name", meta.Name),
			zap.Duration("elapsed", elapsed),
		)
	}

	r.record(ctx, mint, pda, outcome, err, start, elapsed)

	return meta, err
}

func (r *Resolver) resolve(ctx context.Context, mint string) (*domain.TokenMetadata, string, error) {
	mintAddr, err := solana.ParseAddress(mint)
	if err != nil {
		return nil, "", &ResolutionError{Kind: KindInvalidMint, Mint: mint, Err: err}
	}

	pda, ok := r.derive(mintAddr)
	if !ok {
		return nil, "", &ResolutionError{Kind: KindNoMetadataAccount, Mint: mint}
	}

	raw, err := r.reader.GetAccountData(ctx, pda)
	if err != nil {
		return nil, pda.String(), &ResolutionError{Kind: KindFetchFailed, Mint: mint, Err: err}
	}

	decoded, err := metaplex.Decode(raw)
	if err != nil {
		return nil, pda.String(), &ResolutionError{Kind: KindDecodeFailed, Mint: mint, Err: err}
	}

	return Sanitize(decoded), pda.String(), nil
}

// Sanitize converts decoded account data into the response record:
// NUL padding is stripped and creator addresses are base-58 encoded.
func Sanitize(m *metaplex.Metadata) *domain.TokenMetadata {
	creators := make([]domain.Creator, 0, len(m.Data.Creators))
	for _, c := range m.Data.Creators {
		creators = append(creators, domain.Creator{
			Address:  c.Address.String(),
			Verified: c.Verified,
			Share:    c.Share,
		})
	}

	return &domain.TokenMetadata{
		Name:                 metaplex.TrimPadding(m.Data.Name),
		Symbol:               metaplex.TrimPadding(m.Data.Symbol),
		SellerFeeBasisPoints: m.Data.SellerFeeBasisPoints,
		URI:                  metaplex.TrimPadding(m.Data.URI),
		Creators:             creators,
	}
}

// record appends the resolution to the journal. Failures are logged only.
func (r *Resolver) record(ctx context.Context, mint, pda string, outcome domain.LookupOutcome, resErr error, start time.Time, elapsed time.Duration) {
	if r.journal == nil {
		return
	}

	l := &domain.Lookup{
		ID:              uuid.NewString(),
		Mint:            mint,
		MetadataAddress: pda,
		Outcome:         outcome,
		DurationMs:      elapsed.Milliseconds(),
		RequestedAt:     start.UnixMilli(),
	}
	if resErr != nil {
		l.Error = resErr.Error()
	}

	// The caller may already be gone; the write still completes.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	err := r.journal.Insert(writeCtx, l)
	observability.RecordJournalWrite(r.backend, err)
	if err != nil {
		r.logger.Error("journal write failed",
			zap.String("mint", mint),
			zap.String("backend", r.backend),
			zap.Error(err),
		)
	}
}
