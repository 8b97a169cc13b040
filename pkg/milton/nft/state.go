package nft

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
)

// MetadataMinSize is the fixed prefix of a metadata account; the URI
// occupies the remainder.
const MetadataMinSize = nameFieldSize + symbolFieldSize + 2 + 32

// Metadata is the on-chain state of an NFT metadata account.
type Metadata struct {
	Name            string
	Symbol          string
	RoyaltyBps      uint16
	UpdateAuthority ed25519.PublicKey
	URI             string
}

func (md Metadata) Marshal() ([]byte, error) {
	b := make([]byte, MetadataMinSize+len(md.URI))

	var offset int
	if err := binary.PutFixedString(b, md.Name, nameFieldSize, &offset); err != nil {
		return nil, err
	}
	if err := binary.PutFixedString(b[offset:], md.Symbol, symbolFieldSize, &offset); err != nil {
		return nil, err
	}
	binary.PutUint16(b[offset:], md.RoyaltyBps, &offset)
	binary.PutKey32(b[offset:], md.UpdateAuthority, &offset)
	copy(b[offset:], md.URI)

	return b, nil
}

func (md *Metadata) Unmarshal(b []byte) error {
	if len(b) < MetadataMinSize {
		return errors.Errorf("invalid metadata account size: %d", len(b))
	}

	var offset int
	binary.GetFixedString(b, &md.Name, nameFieldSize, &offset)
	binary.GetFixedString(b[offset:], &md.Symbol, symbolFieldSize, &offset)
	binary.GetUint16(b[offset:], &md.RoyaltyBps, &offset)
	binary.GetKey32(b[offset:], &md.UpdateAuthority, &offset)
	md.URI = string(b[offset:])

	return nil
}

// GetMetadataAddress derives the metadata account for an NFT mint.
func GetMetadataAddress(mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(ProgramKey, []byte("metadata"), mint)
}
