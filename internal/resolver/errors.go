package resolver

import (
	"errors"
	"fmt"

	"nft-metadata-api/internal/domain"
)

// Kind classifies why a resolution failed.
type Kind int

const (
	// KindInvalidMint: the mint is not base-58 or does not decode to 32 bytes.
	KindInvalidMint Kind = iota + 1
	// KindNoMetadataAccount: no off-curve metadata address exists for the mint.
	KindNoMetadataAccount
	// KindFetchFailed: the account could not be read from the RPC node.
	KindFetchFailed
	// KindDecodeFailed: the account bytes are not a valid metadata layout.
	KindDecodeFailed
)

// Sentinels matched by ResolutionError via errors.Is.
var (
	ErrInvalidMint       = errors.New("invalid mint address")
	ErrNoMetadataAccount = errors.New("no metadata account")
	ErrFetchFailed       = errors.New("fetch metadata account failed")
	ErrDecodeFailed      = errors.New("decode metadata account failed")
)

func (k Kind) String() string {
	return string(k.Outcome())
}

// Outcome maps the kind to its journal outcome.
func (k Kind) Outcome() domain.LookupOutcome {
	switch k {
	case KindInvalidMint:
		return domain.LookupOutcomeInvalidMint
	case KindNoMetadataAccount:
		return domain.LookupOutcomeNoMetadataAccount
	case KindFetchFailed:
		return domain.LookupOutcomeFetchFailed
	case KindDecodeFailed:
		return domain.LookupOutcomeDecodeFailed
	}
	return "unknown"
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidMint:
		return ErrInvalidMint
	case KindNoMetadataAccount:
		return ErrNoMetadataAccount
	case KindFetchFailed:
		return ErrFetchFailed
	case KindDecodeFailed:
		return ErrDecodeFailed
	}
	return nil
}

// ResolutionError is returned by Resolve for every failure.
type ResolutionError struct {
	Kind Kind
	Mint string
	Err  error // underlying cause, may be nil
}

func (e *ResolutionError) Error() string {
	msg := "resolve metadata"
	if s := e.Kind.sentinel(); s != nil {
		msg = s.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %q: %v", msg, e.Mint, e.Err)
	}
	return fmt.Sprintf("%s %q", msg, e.Mint)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e.Kind.
func (e *ResolutionError) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the kind of a resolution error, or 0 if err is not one.
func KindOf(err error) Kind {
	var resErr *ResolutionError
	if errors.As(err, &resErr) {
		return resErr.Kind
	}
	return 0
}
