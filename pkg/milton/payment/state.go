package payment

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
)

type PaymentStatus byte

const (
	PaymentStatusCompleted PaymentStatus = iota
	PaymentStatusPending
	PaymentStatusRefunded
)

func (s PaymentStatus) String() string {
	switch s {
	case PaymentStatusCompleted:
		return "completed"
	case PaymentStatusPending:
		return "pending"
	case PaymentStatusRefunded:
		return "refunded"
	}
	return "unknown"
}

// PaymentInfoSize is the size of a payment account.
const PaymentInfoSize = 32 + 32 + 8 + 4 + 1

// PaymentInfo is the on-chain state of a payment account.
type PaymentInfo struct {
	Payer     ed25519.PublicKey
	Recipient ed25519.PublicKey
	Amount    uint64
	Timestamp uint32
	Status    PaymentStatus
}

func (p PaymentInfo) Marshal() []byte {
	b := make([]byte, PaymentInfoSize)

	var offset int
	binary.PutKey32(b, p.Payer, &offset)
	binary.PutKey32(b[offset:], p.Recipient, &offset)
	binary.PutUint64(b[offset:], p.Amount, &offset)
	binary.PutUint32(b[offset:], p.Timestamp, &offset)
	binary.PutUint8(b[offset:], byte(p.Status), &offset)

	return b
}

func (p *PaymentInfo) Unmarshal(b []byte) error {
	if len(b) != PaymentInfoSize {
		return errors.Errorf("invalid payment account size: %d", len(b))
	}

	var offset int
	binary.GetKey32(b, &p.Payer, &offset)
	binary.GetKey32(b[offset:], &p.Recipient, &offset)
	binary.GetUint64(b[offset:], &p.Amount, &offset)
	binary.GetUint32(b[offset:], &p.Timestamp, &offset)

	status := b[offset]
	if status > byte(PaymentStatusRefunded) {
		return errors.Errorf("invalid payment status: %d", status)
	}
	p.Status = PaymentStatus(status)

	return nil
}

// GetPaymentAddress derives the payment account for a payer/recipient pair.
func GetPaymentAddress(payer, recipient ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(ProgramKey, []byte("payment"), payer, recipient)
}

// GetTotalVolumeAddress derives the program-wide volume counter.
func GetTotalVolumeAddress() (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(ProgramKey, []byte("total_volume"))
}
