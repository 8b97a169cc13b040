// Package payment provides the client for the Milton payment program.
package payment

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
	"github.com/milton-protocol/milton-go/pkg/solana/token"
)

// ProgramKey is the address of the payment program that should be used.
var ProgramKey = solana.MustPublicKeyFromBase58("236Q8MTKpEoLKBwqG4BC5etUz5phWpFnaX3oZxVCBhft")

type Command byte

const (
	CommandProcessPayment Command = iota
	CommandRefundPayment

	CommandUnknown = Command(math.MaxUint8)
)

func GetCommand(m solana.Message, index int) (Command, error) {
	if index >= len(m.Instructions) {
		return CommandUnknown, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
		return CommandUnknown, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 {
		return CommandUnknown, errors.New("payment instruction missing data")
	}

	return Command(i.Data[0]), nil
}

func paymentInstruction(cmd Command, payer, recipient, payerTokenAccount, recipientTokenAccount, paymentAddress, mint ed25519.PublicKey, amount uint64) solana.Instruction {
	data := make([]byte, 1+8)
	var offset int
	binary.PutUint8(data, byte(cmd), &offset)
	binary.PutUint64(data[offset:], amount, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(payer, true),
		solana.NewAccountMeta(recipient, false),
		solana.NewAccountMeta(payerTokenAccount, false),
		solana.NewAccountMeta(recipientTokenAccount, false),
		solana.NewAccountMeta(paymentAddress, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}

// ProcessPayment transfers amount from the payer's token account to the
// recipient's and records the payment.
func ProcessPayment(payer, recipient, payerTokenAccount, recipientTokenAccount, paymentAddress, mint ed25519.PublicKey, amount uint64) solana.Instruction {
	return paymentInstruction(CommandProcessPayment, payer, recipient, payerTokenAccount, recipientTokenAccount, paymentAddress, mint, amount)
}

// RefundPayment returns amount from the recipient's token account to the
// payer's and marks the payment refunded.
func RefundPayment(payer, recipient, payerTokenAccount, recipientTokenAccount, paymentAddress, mint ed25519.PublicKey, amount uint64) solana.Instruction {
	return paymentInstruction(CommandRefundPayment, payer, recipient, payerTokenAccount, recipientTokenAccount, paymentAddress, mint, amount)
}

// DecompiledPayment is the decompiled form shared by both payment opcodes.
type DecompiledPayment struct {
	Payer                 ed25519.PublicKey
	Recipient             ed25519.PublicKey
	PayerTokenAccount     ed25519.PublicKey
	RecipientTokenAccount ed25519.PublicKey
	PaymentAddress        ed25519.PublicKey
	Mint                  ed25519.PublicKey
	Amount                uint64
}

func DecompileProcessPayment(m solana.Message, index int) (*DecompiledPayment, error) {
	return decompilePayment(m, index, CommandProcessPayment)
}

func DecompileRefundPayment(m solana.Message, index int) (*DecompiledPayment, error) {
	return decompilePayment(m, index, CommandRefundPayment)
}

func decompilePayment(m solana.Message, index int, cmd Command) (*DecompiledPayment, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 || Command(i.Data[0]) != cmd {
		return nil, solana.ErrIncorrectInstruction
	}
	if len(i.Data) != 1+8 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	if len(i.Accounts) != 7 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	d := &DecompiledPayment{
		Payer:                 m.Accounts[i.Accounts[0]],
		Recipient:             m.Accounts[i.Accounts[1]],
		PayerTokenAccount:     m.Accounts[i.Accounts[2]],
		RecipientTokenAccount: m.Accounts[i.Accounts[3]],
		PaymentAddress:        m.Accounts[i.Accounts[4]],
		Mint:                  m.Accounts[i.Accounts[5]],
	}
	offset := 1
	binary.GetUint64(i.Data[offset:], &d.Amount, &offset)
	return d, nil
}
