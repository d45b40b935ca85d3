package domain

// LookupOutcome is the result class of a metadata resolution.
type LookupOutcome string

// Lookup outcome constants.
const (
	LookupOutcomeOK                LookupOutcome = "ok"
	LookupOutcomeInvalidMint       LookupOutcome = "invalid_mint"
	LookupOutcomeNoMetadataAccount LookupOutcome = "no_metadata_account"
	LookupOutcomeFetchFailed       LookupOutcome = "fetch_failed"
	LookupOutcomeDecodeFailed      LookupOutcome = "decode_failed"
)

// Valid reports whether o is a known outcome.
func (o LookupOutcome) Valid() bool {
	switch o {
	case LookupOutcomeOK, LookupOutcomeInvalidMint, LookupOutcomeNoMetadataAccount,
		LookupOutcomeFetchFailed, LookupOutcomeDecodeFailed:
		return true
	}
	return false
}

// Lookup is one entry of the append-only resolution journal.
// Corresponds to metadata_lookups table in PostgreSQL and ClickHouse.
type Lookup struct {
	ID              string        `json:"id"`               // PK (uuid)
	Mint            string        `json:"mint"`             // as supplied by the caller
	MetadataAddress string        `json:"metadata_address"` // derived PDA, empty if not derived
	Outcome         LookupOutcome `json:"outcome"`
	Error           string        `json:"error,omitempty"`
	DurationMs      int64         `json:"duration_ms"`
	RequestedAt     int64         `json:"requested_at"` // unix ms
}
