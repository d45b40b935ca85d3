package solana

// AccountInfo represents Solana account information with decoded data.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       []byte
	Executable bool
	RentEpoch  uint64
}

// EpochInfo from getEpochInfo.
type EpochInfo struct {
	AbsoluteSlot     int64  `json:"absoluteSlot"`
	BlockHeight      int64  `json:"blockHeight"`
	Epoch            int64  `json:"epoch"`
	SlotIndex        int64  `json:"slotIndex"`
	SlotsInEpoch     int64  `json:"slotsInEpoch"`
	TransactionCount *int64 `json:"transactionCount,omitempty"`
}

// Commitment levels accepted by RPC and subscription methods.
const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)
