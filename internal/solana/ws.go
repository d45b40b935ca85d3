package solana

import "context"

// WSClient defines Solana WebSocket subscription interface.
type WSClient interface {
	// SubscribeAccount streams the account's data every time it changes.
	SubscribeAccount(ctx context.Context, address Address) (<-chan AccountNotification, error)

	// Close closes the WebSocket connection.
	Close() error
}

// AccountNotification represents an accountNotification message.
type AccountNotification struct {
	Address  Address
	Slot     int64
	Lamports uint64
	Owner    string
	Data     []byte
}
