package metaplex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"nft-metadata-api/internal/solana"
)

// Account keys stored in the first byte of Token Metadata accounts.
const (
	KeyUninitialized     uint8 = 0
	KeyEditionV1         uint8 = 1
	KeyMasterEditionV1   uint8 = 2
	KeyReservationListV1 uint8 = 3
	KeyMetadataV1        uint8 = 4
)

// Fixed sizes of the on-chain layout.
const (
	creatorSize = solana.AddressLength + 2
	// key + update authority + mint
	headerSize = 1 + 2*solana.AddressLength
)

var (
	// ErrTruncated is returned when the data ends before a required field.
	ErrTruncated = errors.New("account data truncated")

	// ErrInvalidValue is returned for option or bool bytes outside {0, 1}.
	ErrInvalidValue = errors.New("invalid encoded value")
)

// DecodeError describes where decoding of a metadata account stopped.
type DecodeError struct {
	Field  string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode metadata field %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Creator is a royalty recipient listed in the metadata.
type Creator struct {
	Address  solana.Address
	Verified bool
	Share    uint8
}

// Data holds the user-facing metadata fields.
type Data struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator
}

// Metadata is the decoded head of a Token Metadata account.
//
// Layout (borsh):
//   - key: u8
//   - update_authority: Pubkey (32 bytes)
//   - mint: Pubkey (32 bytes)
//   - name, symbol, uri: String (u32 LE length + bytes)
//   - seller_fee_basis_points: u16 LE
//   - creators: Option<Vec<Creator>> (u8 flag, u32 LE count, 34 bytes each)
//
// Later fields (primary sale, mutability, editions, collections) and the
// zero padding of the fixed-size account are not read.
type Metadata struct {
	Key             uint8
	UpdateAuthority solana.Address
	Mint            solana.Address
	Data            Data
}

// Decode parses a Token Metadata account from the front of data.
// Trailing bytes are ignored. Strings are returned exactly as stored;
// see TrimPadding.
func Decode(data []byte) (*Metadata, error) {
	if len(data) < headerSize {
		return nil, &DecodeError{Field: "header", Offset: 0, Err: fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, headerSize, len(data))}
	}

	r := &reader{buf: data}
	m := &Metadata{}

	m.Key, _ = r.u8("key")
	m.UpdateAuthority, _ = r.address("update_authority")
	m.Mint, _ = r.address("mint")

	var err error
	if m.Data.Name, err = r.str("name"); err != nil {
		return nil, err
	}
	if m.Data.Symbol, err = r.str("symbol"); err != nil {
		return nil, err
	}
	if m.Data.URI, err = r.str("uri"); err != nil {
		return nil, err
	}
	if m.Data.SellerFeeBasisPoints, err = r.u16("seller_fee_basis_points"); err != nil {
		return nil, err
	}

	hasCreators, err := r.flag("creators", "option")
	if err != nil {
		return nil, err
	}
	if hasCreators {
		if m.Data.Creators, err = r.creators(); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// TrimPadding strips the trailing NUL bytes that pad fixed-width string fields.
func TrimPadding(s string) string {
	return strings.TrimRight(s, "\x00")
}

// reader walks a byte slice, failing with DecodeError on out-of-bounds reads.
type reader struct {
	buf []byte
	off int
}

func (r *reader) take(field string, n int) ([]byte, error) {
	if n < 0 || n > len(r.buf)-r.off {
		return nil, &DecodeError{
			Field:  field,
			Offset: r.off,
			Err:    fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, len(r.buf)-r.off),
		}
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) u8(field string) (uint8, error) {
	b, err := r.take(field, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) u16(field string) (uint16, error) {
	b, err := r.take(field, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *reader) u32(field string) (uint32, error) {
	b, err := r.take(field, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// flag reads a byte that must be 0 or 1, as used by borsh bools and option tags.
func (r *reader) flag(field, kind string) (bool, error) {
	off := r.off
	v, err := r.u8(field)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, &DecodeError{Field: field, Offset: off, Err: fmt.Errorf("%w: %s byte %d", ErrInvalidValue, kind, v)}
}

func (r *reader) address(field string) (solana.Address, error) {
	var a solana.Address
	b, err := r.take(field, solana.AddressLength)
	if err != nil {
		return a, err
	}
	copy(a[:], b)
	return a, nil
}

func (r *reader) str(field string) (string, error) {
	n, err := r.u32(field)
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(len(r.buf)-r.off) {
		return "", &DecodeError{
			Field:  field,
			Offset: r.off,
			Err:    fmt.Errorf("%w: declared length %d, have %d", ErrTruncated, n, len(r.buf)-r.off),
		}
	}
	b, _ := r.take(field, int(n))
	return string(b), nil
}

func (r *reader) creators() ([]Creator, error) {
	n, err := r.u32("creators")
	if err != nil {
		return nil, err
	}
	// Bound the count before allocating.
	if uint64(n)*creatorSize > uint64(len(r.buf)-r.off) {
		return nil, &DecodeError{
			Field:  "creators",
			Offset: r.off,
			Err:    fmt.Errorf("%w: %d creators need %d bytes, have %d", ErrTruncated, n, uint64(n)*creatorSize, len(r.buf)-r.off),
		}
	}

	creators := make([]Creator, 0, n)
	for i := uint32(0); i < n; i++ {
		field := fmt.Sprintf("creators[%d]", i)
		var c Creator
		if c.Address, err = r.address(field+".address"); err != nil {
			return nil, err
		}
		if c.Verified, err = r.flag(field+".verified", "bool"); err != nil {
			return nil, err
		}
		if c.Share, err = r.u8(field+".share"); err != nil {
			return nil, err
		}
		creators = append(creators, c)
	}
	return creators, nil
}
