package domain

// NFT is an entry of the static demo catalog served at GET /nft/{id}.
type NFT struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
