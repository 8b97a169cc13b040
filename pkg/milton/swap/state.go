package swap

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
)

// PoolStateSize is the size of a pool account.
const PoolStateSize = 32 + 32 + 8 + 8 + 8

// ErrInvalidPair is returned when a pool is addressed with two identical
// mints.
var ErrInvalidPair = errors.New("pool mints must differ")

// PoolState is the on-chain state of a pool account. MintA is always the
// byte-wise smaller mint.
type PoolState struct {
	MintA    ed25519.PublicKey
	MintB    ed25519.PublicKey
	ReserveA uint64
	ReserveB uint64
	LPSupply uint64
}

func (p PoolState) Marshal() []byte {
	b := make([]byte, PoolStateSize)

	var offset int
	binary.PutKey32(b, p.MintA, &offset)
	binary.PutKey32(b[offset:], p.MintB, &offset)
	binary.PutUint64(b[offset:], p.ReserveA, &offset)
	binary.PutUint64(b[offset:], p.ReserveB, &offset)
	binary.PutUint64(b[offset:], p.LPSupply, &offset)

	return b
}

func (p *PoolState) Unmarshal(b []byte) error {
	if len(b) != PoolStateSize {
		return errors.Errorf("invalid pool account size: %d", len(b))
	}

	var offset int
	binary.GetKey32(b, &p.MintA, &offset)
	binary.GetKey32(b[offset:], &p.MintB, &offset)
	binary.GetUint64(b[offset:], &p.ReserveA, &offset)
	binary.GetUint64(b[offset:], &p.ReserveB, &offset)
	binary.GetUint64(b[offset:], &p.LPSupply, &offset)

	return nil
}

// OrderMints returns the pair in the canonical byte order used for pool
// derivation, or ErrInvalidPair if the mints are equal.
func OrderMints(mintA, mintB ed25519.PublicKey) (ed25519.PublicKey, ed25519.PublicKey, error) {
	switch bytes.Compare(mintA, mintB) {
	case -1:
		return mintA, mintB, nil
	case 1:
		return mintB, mintA, nil
	default:
		return nil, nil, ErrInvalidPair
	}
}

// GetPoolAddress derives the pool account for a pair of mints, in either
// order.
func GetPoolAddress(mintA, mintB ed25519.PublicKey) (ed25519.PublicKey, error) {
	first, second, err := OrderMints(mintA, mintB)
	if err != nil {
		return nil, err
	}
	return solana.FindProgramAddress(ProgramKey, []byte("pool"), first, second)
}
