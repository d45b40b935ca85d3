package solana

import (
	"bytes"
	"testing"

	bcommon "github.com/blocto/solana-go-sdk/common"
	sgo "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMints = []string{
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
	"So11111111111111111111111111111111111111112",
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263",
	"7GCihgDB8fe6KNjn2MYtkzZcRjQy3t9GHdC8uHYmW2hr",
}

const testProgram = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"

func metadataSeeds(program, mint Address) [][]byte {
	return [][]byte{[]byte("metadata"), program[:], mint[:]}
}

func TestFindProgramAddress_Deterministic(t *testing.T) {
	program := MustParseAddress(testProgram)

	for _, m := range testMints {
		mint := MustParseAddress(m)

		first, bump1, err := FindProgramAddress(metadataSeeds(program, mint), program)
		require.NoError(t, err)

		for i := 0; i < 5; i++ {
			again, bump2, err := FindProgramAddress(metadataSeeds(program, mint), program)
			require.NoError(t, err)
			assert.Equal(t, first, again)
			assert.Equal(t, bump1, bump2)
		}
	}
}

func TestFindProgramAddress_OffCurve(t *testing.T) {
	program := MustParseAddress(testProgram)

	for _, m := range testMints {
		addr, _, err := FindProgramAddress(metadataSeeds(program, MustParseAddress(m)), program)
		require.NoError(t, err)
		assert.False(t, IsOnCurve(addr[:]), "derived address %s is on curve", addr)
	}
}

func TestFindProgramAddress_BumpReproduces(t *testing.T) {
	program := MustParseAddress(testProgram)
	mint := MustParseAddress(testMints[0])
	seeds := metadataSeeds(program, mint)

	addr, bump, err := FindProgramAddress(seeds, program)
	require.NoError(t, err)

	direct, err := CreateProgramAddress(append(seeds, []byte{bump}), program)
	require.NoError(t, err)
	assert.Equal(t, addr, direct)

	// Every higher bump must have produced an on-curve point.
	for b := 255; b > int(bump); b-- {
		_, err := CreateProgramAddress(append(metadataSeeds(program, mint), []byte{byte(b)}), program)
		assert.ErrorIs(t, err, ErrOnCurve)
	}
}

func TestFindProgramAddress_DoesNotMutateSeeds(t *testing.T) {
	program := MustParseAddress(testProgram)
	mint := MustParseAddress(testMints[1])
	seeds := metadataSeeds(program, mint)
	before := bytes.Join(seeds, nil)

	_, _, err := FindProgramAddress(seeds, program)
	require.NoError(t, err)

	assert.Len(t, seeds, 3)
	assert.Equal(t, before, bytes.Join(seeds, nil))
}

func TestFindProgramAddress_MatchesSolanaGo(t *testing.T) {
	program := MustParseAddress(testProgram)
	sgoProgram := sgo.MustPublicKeyFromBase58(testProgram)

	for _, m := range testMints {
		mint := MustParseAddress(m)
		sgoMint := sgo.MustPublicKeyFromBase58(m)

		addr, bump, err := FindProgramAddress(metadataSeeds(program, mint), program)
		require.NoError(t, err)

		want, wantBump, err := sgo.FindProgramAddress(
			[][]byte{[]byte("metadata"), sgoProgram.Bytes(), sgoMint.Bytes()},
			sgoProgram,
		)
		require.NoError(t, err)

		assert.Equal(t, want.String(), addr.String(), "mint %s", m)
		assert.Equal(t, wantBump, bump, "mint %s", m)
	}
}

func TestFindProgramAddress_MatchesBloctoSDK(t *testing.T) {
	program := MustParseAddress(testProgram)
	bProgram := bcommon.PublicKeyFromString(testProgram)

	for _, m := range testMints {
		mint := MustParseAddress(m)
		bMint := bcommon.PublicKeyFromString(m)

		addr, _, err := FindProgramAddress(metadataSeeds(program, mint), program)
		require.NoError(t, err)

		want, _, err := bcommon.FindProgramAddress(
			[][]byte{[]byte("metadata"), bProgram.Bytes(), bMint.Bytes()},
			bProgram,
		)
		require.NoError(t, err)

		assert.Equal(t, want.ToBase58(), addr.String(), "mint %s", m)
	}
}

func TestCreateProgramAddress_SeedLimits(t *testing.T) {
	program := MustParseAddress(testProgram)

	_, err := CreateProgramAddress([][]byte{make([]byte, MaxSeedLength+1)}, program)
	assert.ErrorIs(t, err, ErrMaxSeedLengthExceeded)

	tooMany := make([][]byte, MaxSeeds+1)
	for i := range tooMany {
		tooMany[i] = []byte{byte(i)}
	}
	_, err = CreateProgramAddress(tooMany, program)
	assert.ErrorIs(t, err, ErrMaxSeedLengthExceeded)

	_, _, err = FindProgramAddress([][]byte{make([]byte, MaxSeedLength+1)}, program)
	assert.ErrorIs(t, err, ErrMaxSeedLengthExceeded)
}
