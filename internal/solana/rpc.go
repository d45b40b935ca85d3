package solana

import (
	"context"
	"errors"
)

// ErrAccountNotFound is returned when an account does not exist or holds no data.
var ErrAccountNotFound = errors.New("account not found")

// AccountReader fetches the raw data of a single account.
type AccountReader interface {
	// GetAccountData returns the decoded account data.
	// Returns ErrAccountNotFound if the account is missing or empty.
	GetAccountData(ctx context.Context, address Address) ([]byte, error)
}

// RPCClient defines the Solana RPC HTTP interface used by the service.
type RPCClient interface {
	AccountReader

	// GetAccountInfo retrieves account info by public key. Returns nil if not found.
	GetAccountInfo(ctx context.Context, address Address) (*AccountInfo, error)

	// GetEpochInfo retrieves information about the current epoch.
	GetEpochInfo(ctx context.Context) (*EpochInfo, error)

	// GetSlot retrieves the current slot.
	GetSlot(ctx context.Context) (int64, error)
}
