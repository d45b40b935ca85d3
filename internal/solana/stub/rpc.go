package stub

import (
	"context"
	"fmt"
	"sync"

	"nft-metadata-api/internal/solana"
)

// RPCClient implements solana.RPCClient for testing.
// Set Err to fail every call; EpochErr and SlotErr fail only their method.
type RPCClient struct {
	Accounts map[solana.Address][]byte
	Epoch    *solana.EpochInfo
	Slot     int64

	Err      error
	EpochErr error
	SlotErr  error

	mu    sync.Mutex
	calls int
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Accounts: make(map[solana.Address][]byte),
	}
}

// SetAccount stores data under address.
func (c *RPCClient) SetAccount(address solana.Address, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Accounts == nil {
		c.Accounts = make(map[solana.Address][]byte)
	}
	c.Accounts[address] = data
}

// Calls returns the number of account reads served so far.
func (c *RPCClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// GetAccountData returns the stored account data.
// Missing and empty accounts yield solana.ErrAccountNotFound.
func (c *RPCClient) GetAccountData(_ context.Context, address solana.Address) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++

	if c.Err != nil {
		return nil, c.Err
	}
	data, ok := c.Accounts[address]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", solana.ErrAccountNotFound, address)
	}
	return data, nil
}

// GetAccountInfo wraps the stored data in an AccountInfo. Returns nil if not found.
func (c *RPCClient) GetAccountInfo(ctx context.Context, address solana.Address) (*solana.AccountInfo, error) {
	data, err := c.GetAccountData(ctx, address)
	if err != nil {
		if c.Err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &solana.AccountInfo{Data: data}, nil
}

// GetEpochInfo returns Epoch.
func (c *RPCClient) GetEpochInfo(_ context.Context) (*solana.EpochInfo, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	if c.EpochErr != nil {
		return nil, c.EpochErr
	}
	if c.Epoch == nil {
		return &solana.EpochInfo{}, nil
	}
	return c.Epoch, nil
}

// GetSlot returns Slot.
func (c *RPCClient) GetSlot(_ context.Context) (int64, error) {
	if c.Err != nil {
		return 0, c.Err
	}
	if c.SlotErr != nil {
		return 0, c.SlotErr
	}
	return c.Slot, nil
}

var _ solana.RPCClient = (*RPCClient)(nil)
