// Package swap provides the client for the Milton swap program: constant
// product pools over pairs of SPL mints.
package swap

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
	"github.com/milton-protocol/milton-go/pkg/solana/token"
)

// ProgramKey is the address of the swap program that should be used.
var ProgramKey = solana.MustPublicKeyFromBase58("GqyNp3bt1Ar89GgpQmhLiUc5AsSdC65SpxJnLFh2qCKF")

type Command byte

const (
	CommandSwap Command = iota
	CommandAddLiquidity
	CommandRemoveLiquidity

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
		return CommandUnknown, errors.New("swap instruction missing data")
	}

	return Command(i.Data[0]), nil
}

func poolAccounts(payer, pool, payerTokenA, payerTokenB ed25519.PublicKey) []solana.AccountMeta {
	return []solana.AccountMeta{
		solana.NewAccountMeta(payer, true),
		solana.NewAccountMeta(pool, false),
		solana.NewAccountMeta(payerTokenA, false),
		solana.NewAccountMeta(payerTokenB, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	}
}

// Swap trades amountIn of the pool's A side for at least minAmountOut of its
// B side.
func Swap(payer, pool, payerTokenA, payerTokenB ed25519.PublicKey, amountIn, minAmountOut uint64) solana.Instruction {
	data := make([]byte, 1+8+8)
	var offset int
	binary.PutUint8(data, byte(CommandSwap), &offset)
	binary.PutUint64(data[offset:], amountIn, &offset)
	binary.PutUint64(data[offset:], minAmountOut, &offset)

	return solana.NewInstruction(ProgramKey, data, poolAccounts(payer, pool, payerTokenA, payerTokenB)...)
}

// AddLiquidity deposits amountA and amountB into the pool for LP tokens.
func AddLiquidity(payer, pool, payerTokenA, payerTokenB ed25519.PublicKey, amountA, amountB uint64) solana.Instruction {
	data := make([]byte, 1+8+8)
	var offset int
	binary.PutUint8(data, byte(CommandAddLiquidity), &offset)
	binary.PutUint64(data[offset:], amountA, &offset)
	binary.PutUint64(data[offset:], amountB, &offset)

	return solana.NewInstruction(ProgramKey, data, poolAccounts(payer, pool, payerTokenA, payerTokenB)...)
}

// RemoveLiquidity burns lpAmount of LP tokens for the underlying reserves.
func RemoveLiquidity(payer, pool, payerTokenA, payerTokenB ed25519.PublicKey, lpAmount uint64) solana.Instruction {
	data := make([]byte, 1+8)
	var offset int
	binary.PutUint8(data, byte(CommandRemoveLiquidity), &offset)
	binary.PutUint64(data[offset:], lpAmount, &offset)

	return solana.NewInstruction(ProgramKey, data, poolAccounts(payer, pool, payerTokenA, payerTokenB)...)
}

type DecompiledSwap struct {
	Payer              ed25519.PublicKey
	Pool               ed25519.PublicKey
	PayerTokenAccountA ed25519.PublicKey
	PayerTokenAccountB ed25519.PublicKey
	AmountIn           uint64
	MinAmountOut       uint64
}

func DecompileSwap(m solana.Message, index int) (*DecompiledSwap, error) {
	i, err := expectCommand(m, index, CommandSwap, 1+8+8)
	if err != nil {
		return nil, err
	}

	d := &DecompiledSwap{
		Payer:              m.Accounts[i.Accounts[0]],
		Pool:               m.Accounts[i.Accounts[1]],
		PayerTokenAccountA: m.Accounts[i.Accounts[2]],
		PayerTokenAccountB: m.Accounts[i.Accounts[3]],
	}
	offset := 1
	binary.GetUint64(i.Data[offset:], &d.AmountIn, &offset)
	binary.GetUint64(i.Data[offset:], &d.MinAmountOut, &offset)
	return d, nil
}

type DecompiledAddLiquidity struct {
	Payer   ed25519.PublicKey
	Pool    ed25519.PublicKey
	AmountA uint64
	AmountB uint64
}

func DecompileAddLiquidity(m solana.Message, index int) (*DecompiledAddLiquidity, error) {
	i, err := expectCommand(m, index, CommandAddLiquidity, 1+8+8)
	if err != nil {
		return nil, err
	}

	d := &DecompiledAddLiquidity{
		Payer: m.Accounts[i.Accounts[0]],
		Pool:  m.Accounts[i.Accounts[1]],
	}
	offset := 1
	binary.GetUint64(i.Data[offset:], &d.AmountA, &offset)
	binary.GetUint64(i.Data[offset:], &d.AmountB, &offset)
	return d, nil
}

type DecompiledRemoveLiquidity struct {
	Payer    ed25519.PublicKey
	Pool     ed25519.PublicKey
	LPAmount uint64
}

func DecompileRemoveLiquidity(m solana.Message, index int) (*DecompiledRemoveLiquidity, error) {
	i, err := expectCommand(m, index, CommandRemoveLiquidity, 1+8)
	if err != nil {
		return nil, err
	}

	d := &DecompiledRemoveLiquidity{
		Payer: m.Accounts[i.Accounts[0]],
		Pool:  m.Accounts[i.Accounts[1]],
	}
	offset := 1
	binary.GetUint64(i.Data[offset:], &d.LPAmount, &offset)
	return d, nil
}

func expectCommand(m solana.Message, index int, cmd Command, dataSize int) (solana.CompiledInstruction, error) {
	if index >= len(m.Instructions) {
		return solana.CompiledInstruction{}, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
		return solana.CompiledInstruction{}, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 || Command(i.Data[0]) != cmd {
		return solana.CompiledInstruction{}, solana.ErrIncorrectInstruction
	}
	if len(i.Data) != dataSize {
		return solana.CompiledInstruction{}, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	if len(i.Accounts) != 5 {
		return solana.CompiledInstruction{}, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	return i, nil
}
