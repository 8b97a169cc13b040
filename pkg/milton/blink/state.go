package blink

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
)

const (
	// BlinkRecordMinSize is the fixed prefix of a blink account; the QR kind
	// string occupies the remainder.
	BlinkRecordMinSize = 3 + 4 + textFieldSize + fontFieldSize + 3 + 32

	// LinkRecordSize is the size of a claim link account.
	LinkRecordSize = 32 + 8 + 8 + 1
)

// BlinkRecord is the on-chain state of a blink account.
type BlinkRecord struct {
	Color      string
	Duration   float32
	Text       string
	Font       string
	Background string
	QRAddress  ed25519.PublicKey
	QRKind     string
}

func (r BlinkRecord) Marshal() ([]byte, error) {
	b := make([]byte, BlinkRecordMinSize+len(r.QRKind))

	var offset int
	if err := binary.PutHexColor(b, r.Color, &offset); err != nil {
		return nil, err
	}
	binary.PutFloat32(b[offset:], r.Duration, &offset)
	if err := binary.PutFixedString(b[offset:], r.Text, textFieldSize, &offset); err != nil {
		return nil, err
	}
	if err := binary.PutFixedString(b[offset:], r.Font, fontFieldSize, &offset); err != nil {
		return nil, err
	}
	if err := binary.PutHexColor(b[offset:], r.Background, &offset); err != nil {
		return nil, err
	}
	binary.PutKey32(b[offset:], r.QRAddress, &offset)
	copy(b[offset:], r.QRKind)

	return b, nil
}

func (r *BlinkRecord) Unmarshal(b []byte) error {
	if len(b) < BlinkRecordMinSize {
		return errors.Errorf("invalid blink account size: %d", len(b))
	}

	var offset int
	binary.GetHexColor(b, &r.Color, &offset)
	binary.GetFloat32(b[offset:], &r.Duration, &offset)
	binary.GetFixedString(b[offset:], &r.Text, textFieldSize, &offset)
	binary.GetFixedString(b[offset:], &r.Font, fontFieldSize, &offset)
	binary.GetHexColor(b[offset:], &r.Background, &offset)
	binary.GetKey32(b[offset:], &r.QRAddress, &offset)
	r.QRKind = string(b[offset:])

	return nil
}

// LinkRecord is the on-chain state of a claim link account.
type LinkRecord struct {
	Creator ed25519.PublicKey
	Amount  uint64
	Expiry  uint64
	Claimed bool
}

func (r LinkRecord) Marshal() []byte {
	b := make([]byte, LinkRecordSize)

	var offset int
	binary.PutKey32(b, r.Creator, &offset)
	binary.PutUint64(b[offset:], r.Amount, &offset)
	binary.PutUint64(b[offset:], r.Expiry, &offset)
	if r.Claimed {
		b[offset] = 1
	}

	return b
}

func (r *LinkRecord) Unmarshal(b []byte) error {
	if len(b) != LinkRecordSize {
		return errors.Errorf("invalid link account size: %d", len(b))
	}

	var offset int
	binary.GetKey32(b, &r.Creator, &offset)
	binary.GetUint64(b[offset:], &r.Amount, &offset)
	binary.GetUint64(b[offset:], &r.Expiry, &offset)
	r.Claimed = b[offset] != 0

	return nil
}

// GetBlinkAddress derives the blink account for an NFT mint.
func GetBlinkAddress(nftMint ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(ProgramKey, []byte("blink"), nftMint)
}

// GetNFTAddress derives the blink NFT account for a minter.
func GetNFTAddress(minter ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(ProgramKey, []byte("nft"), minter)
}

// GetLinkAddress derives the claim link account for a creator.
func GetLinkAddress(creator ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(ProgramKey, []byte("link"), creator)
}
