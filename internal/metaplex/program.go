// Package metaplex derives and decodes Metaplex Token Metadata accounts.
package metaplex

import "nft-metadata-api/internal/solana"

// ProgramID is the Metaplex Token Metadata program.
var ProgramID = solana.MustParseAddress("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

// MetadataSeed is the first seed of every metadata PDA.
const MetadataSeed = "metadata"

// DeriveMetadataAddress derives the metadata PDA for a mint.
// Seeds: ["metadata", program_id, mint].
// Returns false only if no bump seed yields an off-curve address.
func DeriveMetadataAddress(mint solana.Address) (solana.Address, bool) {
	addr, _, err := DeriveMetadataAddressWithBump(mint)
	if err != nil {
		return solana.Address{}, false
	}
	return addr, true
}

// DeriveMetadataAddressWithBump is DeriveMetadataAddress that also reports the bump seed.
func DeriveMetadataAddressWithBump(mint solana.Address) (solana.Address, uint8, error) {
	seeds := [][]byte{
		[]byte(MetadataSeed),
		ProgramID[:],
		mint[:],
	}
	return solana.FindProgramAddress(seeds, ProgramID)
}
