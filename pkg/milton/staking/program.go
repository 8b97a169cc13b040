// Package staking provides the client for the Milton staking program.
package staking

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
	"github.com/milton-protocol/milton-go/pkg/solana/token"
)

// ProgramKey is the address of the staking program that should be used.
var ProgramKey = solana.MustPublicKeyFromBase58("9eGsVPu36XVeeW8LpnjU6dZdDFayTtYqUqQ6p5qTdyqz")

type Command byte

const (
	CommandStake Command = iota
	CommandUnstake
	CommandClaimRewards

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
		return CommandUnknown, errors.New("staking instruction missing data")
	}

	return Command(i.Data[0]), nil
}

func stakeAccounts(staker, stakerTokenAccount, stakeAddress, mint ed25519.PublicKey) []solana.AccountMeta {
	return []solana.AccountMeta{
		solana.NewAccountMeta(staker, true),
		solana.NewAccountMeta(stakerTokenAccount, false),
		solana.NewAccountMeta(stakeAddress, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	}
}

func amountData(cmd Command, amount uint64) []byte {
	data := make([]byte, 1+8)
	var offset int
	binary.PutUint8(data, byte(cmd), &offset)
	binary.PutUint64(data[offset:], amount, &offset)
	return data
}

// Stake locks amount of the staking mint from the staker's token account.
func Stake(staker, stakerTokenAccount, stakeAddress, mint ed25519.PublicKey, amount uint64) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		amountData(CommandStake, amount),
		stakeAccounts(staker, stakerTokenAccount, stakeAddress, mint)...,
	)
}

// Unstake releases amount of the staking mint back to the staker's token
// account.
func Unstake(staker, stakerTokenAccount, stakeAddress, mint ed25519.PublicKey, amount uint64) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		amountData(CommandUnstake, amount),
		stakeAccounts(staker, stakerTokenAccount, stakeAddress, mint)...,
	)
}

// ClaimRewards pays out accrued rewards to the staker's token account.
func ClaimRewards(staker, stakerTokenAccount, stakeAddress, mint ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandClaimRewards)},
		stakeAccounts(staker, stakerTokenAccount, stakeAddress, mint)...,
	)
}

type DecompiledStake struct {
	Staker             ed25519.PublicKey
	StakerTokenAccount ed25519.PublicKey
	StakeAddress       ed25519.PublicKey
	Mint               ed25519.PublicKey
	Amount             uint64
}

func DecompileStake(m solana.Message, index int) (*DecompiledStake, error) {
	i, err := expectCommand(m, index, CommandStake)
	if err != nil {
		return nil, err
	}

	amount, err := amountFromData(i.Data)
	if err != nil {
		return nil, err
	}

	return &DecompiledStake{
		Staker:             m.Accounts[i.Accounts[0]],
		StakerTokenAccount: m.Accounts[i.Accounts[1]],
		StakeAddress:       m.Accounts[i.Accounts[2]],
		Mint:               m.Accounts[i.Accounts[3]],
		Amount:             amount,
	}, nil
}

type DecompiledUnstake struct {
	Staker             ed25519.PublicKey
	StakerTokenAccount ed25519.PublicKey
	StakeAddress       ed25519.PublicKey
	Mint               ed25519.PublicKey
	Amount             uint64
}

func DecompileUnstake(m solana.Message, index int) (*DecompiledUnstake, error) {
	i, err := expectCommand(m, index, CommandUnstake)
	if err != nil {
		return nil, err
	}

	amount, err := amountFromData(i.Data)
	if err != nil {
		return nil, err
	}

	return &DecompiledUnstake{
		Staker:             m.Accounts[i.Accounts[0]],
		StakerTokenAccount: m.Accounts[i.Accounts[1]],
		StakeAddress:       m.Accounts[i.Accounts[2]],
		Mint:               m.Accounts[i.Accounts[3]],
		Amount:             amount,
	}, nil
}

type DecompiledClaimRewards struct {
	Staker             ed25519.PublicKey
	StakerTokenAccount ed25519.PublicKey
	StakeAddress       ed25519.PublicKey
	Mint               ed25519.PublicKey
}

func DecompileClaimRewards(m solana.Message, index int) (*DecompiledClaimRewards, error) {
	i, err := expectCommand(m, index, CommandClaimRewards)
	if err != nil {
		return nil, err
	}

	return &DecompiledClaimRewards{
		Staker:             m.Accounts[i.Accounts[0]],
		StakerTokenAccount: m.Accounts[i.Accounts[1]],
		StakeAddress:       m.Accounts[i.Accounts[2]],
		Mint:               m.Accounts[i.Accounts[3]],
	}, nil
}

func amountFromData(data []byte) (uint64, error) {
	if len(data) != 1+8 {
		return 0, errors.Errorf("invalid instruction data size: %d", len(data))
	}
	var amount uint64
	offset := 1
	binary.GetUint64(data[offset:], &amount, &offset)
	return amount, nil
}

func expectCommand(m solana.Message, index int, cmd Command) (solana.CompiledInstruction, error) {
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
	if len(i.Accounts) != 5 {
		return solana.CompiledInstruction{}, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	return i, nil
}
