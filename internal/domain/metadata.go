package domain

// TokenMetadata represents the sanitized Metaplex metadata of a mint.
// Serialized as the response body of GET /nft/metadata/{mint}.
type TokenMetadata struct {
	Name                 string    `json:"name"`                    // NUL padding stripped
	Symbol               string    `json:"symbol"`                  // NUL padding stripped
	SellerFeeBasisPoints uint16    `json:"seller_fee_basis_points"` // royalty, 500 = 5%
	URI                  string    `json:"uri"`                     // off-chain JSON location
	Creators             []Creator `json:"creators"`                // never nil
}

// Creator is a royalty recipient. Shares are passed through as stored on-chain.
type Creator struct {
	Address  string `json:"address"` // base58
	Verified bool   `json:"verified"`
	Share    uint8  `json:"share"` // percentage
}
