// Package governance provides the client for the Milton governance program:
// proposals, voting and execution.
package governance

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
)

// ProgramKey is the address of the governance program that should be used.
var ProgramKey = solana.MustPublicKeyFromBase58("GWvvEgLu8F7MGzRfiZ69Hh255hyfEXmmhqdgYP2qd4CL")

type Command byte

const (
	CommandCreateProposal Command = iota
	CommandCastVote
	CommandExecuteProposal

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
		return CommandUnknown, errors.New("governance instruction missing data")
	}

	return Command(i.Data[0]), nil
}

const (
	titleFieldSize       = 32
	descriptionFieldSize = 128

	createProposalDataSize = 1 + titleFieldSize + descriptionFieldSize + 8 + 4
)

// CreateProposal initializes a proposal account with its title, description,
// voting deadline and the number of instructions it will execute.
func CreateProposal(payer, proposal ed25519.PublicKey, title, description string, endTime uint64, numInstructions uint32) (solana.Instruction, error) {
	data := make([]byte, createProposalDataSize)

	var offset int
	binary.PutUint8(data, byte(CommandCreateProposal), &offset)
	if err := binary.PutFixedString(data[offset:], title, titleFieldSize, &offset); err != nil {
		return solana.Instruction{}, err
	}
	if err := binary.PutFixedString(data[offset:], description, descriptionFieldSize, &offset); err != nil {
		return solana.Instruction{}, err
	}
	binary.PutUint64(data[offset:], endTime, &offset)
	binary.PutUint32(data[offset:], numInstructions, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewReadonlyAccountMeta(payer, true),
		solana.NewAccountMeta(proposal, false),
	), nil
}

type DecompiledCreateProposal struct {
	Payer           ed25519.PublicKey
	Proposal        ed25519.PublicKey
	Title           string
	Description     string
	EndTime         uint64
	NumInstructions uint32
}

func DecompileCreateProposal(m solana.Message, index int) (*DecompiledCreateProposal, error) {
	i, err := expectCommand(m, index, CommandCreateProposal)
	if err != nil {
		return nil, err
	}
	if len(i.Data) != createProposalDataSize {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	d := &DecompiledCreateProposal{
		Payer:    m.Accounts[i.Accounts[0]],
		Proposal: m.Accounts[i.Accounts[1]],
	}
	offset := 1
	binary.GetFixedString(i.Data[offset:], &d.Title, titleFieldSize, &offset)
	binary.GetFixedString(i.Data[offset:], &d.Description, descriptionFieldSize, &offset)
	binary.GetUint64(i.Data[offset:], &d.EndTime, &offset)
	binary.GetUint32(i.Data[offset:], &d.NumInstructions, &offset)
	return d, nil
}

// CastVote records the payer's vote on a proposal.
func CastVote(payer, proposal ed25519.PublicKey, inFavor bool) solana.Instruction {
	data := []byte{byte(CommandCastVote), 0}
	if inFavor {
		data[1] = 1
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewReadonlyAccountMeta(payer, true),
		solana.NewAccountMeta(proposal, false),
	)
}

type DecompiledCastVote struct {
	Payer    ed25519.PublicKey
	Proposal ed25519.PublicKey
	InFavor  bool
}

func DecompileCastVote(m solana.Message, index int) (*DecompiledCastVote, error) {
	i, err := expectCommand(m, index, CommandCastVote)
	if err != nil {
		return nil, err
	}
	if len(i.Data) != 2 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledCastVote{
		Payer:    m.Accounts[i.Accounts[0]],
		Proposal: m.Accounts[i.Accounts[1]],
		InFavor:  i.Data[1] != 0,
	}, nil
}

// ExecuteProposal executes a passed proposal.
func ExecuteProposal(payer, proposal ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandExecuteProposal)},
		solana.NewReadonlyAccountMeta(payer, true),
		solana.NewAccountMeta(proposal, false),
	)
}

type DecompiledExecuteProposal struct {
	Payer    ed25519.PublicKey
	Proposal ed25519.PublicKey
}

func DecompileExecuteProposal(m solana.Message, index int) (*DecompiledExecuteProposal, error) {
	i, err := expectCommand(m, index, CommandExecuteProposal)
	if err != nil {
		return nil, err
	}

	return &DecompiledExecuteProposal{
		Payer:    m.Accounts[i.Accounts[0]],
		Proposal: m.Accounts[i.Accounts[1]],
	}, nil
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
	if len(i.Accounts) != 2 {
		return solana.CompiledInstruction{}, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	return i, nil
}
