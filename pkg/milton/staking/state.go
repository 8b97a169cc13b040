package staking

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
)

// StakeInfoSize is the size of a per-staker stake account.
const StakeInfoSize = 8 + 4 + 4

// StakeInfo is the on-chain state of a per-staker stake account.
type StakeInfo struct {
	Amount        uint64
	StakedAt      uint32
	LastClaimTime uint32
}

func (s StakeInfo) Marshal() []byte {
	b := make([]byte, StakeInfoSize)

	var offset int
	binary.PutUint64(b, s.Amount, &offset)
	binary.PutUint32(b[offset:], s.StakedAt, &offset)
	binary.PutUint32(b[offset:], s.LastClaimTime, &offset)

	return b
}

func (s *StakeInfo) Unmarshal(b []byte) error {
	if len(b) != StakeInfoSize {
		return errors.Errorf("invalid stake account size: %d", len(b))
	}

	var offset int
	binary.GetUint64(b, &s.Amount, &offset)
	binary.GetUint32(b[offset:], &s.StakedAt, &offset)
	binary.GetUint32(b[offset:], &s.LastClaimTime, &offset)

	return nil
}

// GetStakeAddress derives the stake account for a staker.
func GetStakeAddress(staker ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(ProgramKey, []byte("stake"), staker)
}

// GetTotalStakedAddress derives the program-wide total staked counter.
func GetTotalStakedAddress() (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(ProgramKey, []byte("total_staked"))
}

// GetAPRAddress derives the account holding the current APR as an f64.
func GetAPRAddress() (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(ProgramKey, []byte("apr"))
}
