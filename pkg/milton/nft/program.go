// Package nft provides the client for the Milton NFT program: minting,
// transfers, burns and metadata updates.
package nft

import (
	"bytes"
	"crypto/ed25519"
	"math"

	"github.com/pkg/errors"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
	"github.com/milton-protocol/milton-go/pkg/solana/system"
	"github.com/milton-protocol/milton-go/pkg/solana/token"
)

// ProgramKey is the address of the NFT program that should be used.
var ProgramKey = solana.MustPublicKeyFromBase58("DsxPfojZQjckm1ShL87CX89v8fHAAFfJTfvVauFqvoUr")

type Command byte

const (
	CommandMintNFT Command = iota
	CommandTransferNFT
	CommandBurnNFT
	CommandUpdateMetadata

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
		return CommandUnknown, errors.New("nft instruction missing data")
	}

	return Command(i.Data[0]), nil
}

const (
	nameFieldSize   = 32
	symbolFieldSize = 8

	// opcode + name + symbol + royalty bps
	metadataPayloadFixedSize = 1 + nameFieldSize + symbolFieldSize + 2
)

// MetadataPayload is the creative payload shared by MintNFT and
// UpdateMetadata. Name and Symbol must fit their fixed fields; URI occupies
// the remainder.
type MetadataPayload struct {
	Name       string
	Symbol     string
	RoyaltyBps uint16
	URI        string
}

func metadataPayloadData(cmd Command, p MetadataPayload) ([]byte, error) {
	data := make([]byte, metadataPayloadFixedSize+len(p.URI))

	var offset int
	binary.PutUint8(data, byte(cmd), &offset)
	if err := binary.PutFixedString(data[offset:], p.Name, nameFieldSize, &offset); err != nil {
		return nil, err
	}
	if err := binary.PutFixedString(data[offset:], p.Symbol, symbolFieldSize, &offset); err != nil {
		return nil, err
	}
	binary.PutUint16(data[offset:], p.RoyaltyBps, &offset)
	copy(data[offset:], p.URI)

	return data, nil
}

func decodeMetadataPayload(data []byte) (MetadataPayload, error) {
	var p MetadataPayload
	if len(data) < metadataPayloadFixedSize {
		return p, errors.Errorf("invalid payload size: %d", len(data))
	}

	offset := 1 // opcode
	binary.GetFixedString(data[offset:], &p.Name, nameFieldSize, &offset)
	binary.GetFixedString(data[offset:], &p.Symbol, symbolFieldSize, &offset)
	binary.GetUint16(data[offset:], &p.RoyaltyBps, &offset)
	p.URI = string(data[offset:])

	return p, nil
}

// MintNFT mints a new NFT and initializes its metadata account.
func MintNFT(payer, mint, metadataAddress ed25519.PublicKey, p MetadataPayload) (solana.Instruction, error) {
	data, err := metadataPayloadData(CommandMintNFT, p)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(payer, true),
		solana.NewAccountMeta(mint, false),
		solana.NewAccountMeta(metadataAddress, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
	), nil
}

type DecompiledMintNFT struct {
	Payer           ed25519.PublicKey
	Mint            ed25519.PublicKey
	MetadataAddress ed25519.PublicKey
	Payload         MetadataPayload
}

func DecompileMintNFT(m solana.Message, index int) (*DecompiledMintNFT, error) {
	i, err := expectCommand(m, index, CommandMintNFT, 5)
	if err != nil {
		return nil, err
	}

	p, err := decodeMetadataPayload(i.Data)
	if err != nil {
		return nil, err
	}

	return &DecompiledMintNFT{
		Payer:           m.Accounts[i.Accounts[0]],
		Mint:            m.Accounts[i.Accounts[1]],
		MetadataAddress: m.Accounts[i.Accounts[2]],
		Payload:         p,
	}, nil
}

// TransferNFT moves the NFT between token accounts.
func TransferNFT(owner, sourceTokenAccount, destinationTokenAccount, mint ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandTransferNFT)},
		solana.NewAccountMeta(owner, true),
		solana.NewAccountMeta(sourceTokenAccount, false),
		solana.NewAccountMeta(destinationTokenAccount, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}

type DecompiledTransferNFT struct {
	Owner                   ed25519.PublicKey
	SourceTokenAccount      ed25519.PublicKey
	DestinationTokenAccount ed25519.PublicKey
	Mint                    ed25519.PublicKey
}

func DecompileTransferNFT(m solana.Message, index int) (*DecompiledTransferNFT, error) {
	i, err := expectCommand(m, index, CommandTransferNFT, 5)
	if err != nil {
		return nil, err
	}

	return &DecompiledTransferNFT{
		Owner:                   m.Accounts[i.Accounts[0]],
		SourceTokenAccount:      m.Accounts[i.Accounts[1]],
		DestinationTokenAccount: m.Accounts[i.Accounts[2]],
		Mint:                    m.Accounts[i.Accounts[3]],
	}, nil
}

// BurnNFT burns the NFT and closes its metadata account.
func BurnNFT(owner, ownerTokenAccount, mint, metadataAddress ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandBurnNFT)},
		solana.NewAccountMeta(owner, true),
		solana.NewAccountMeta(ownerTokenAccount, false),
		solana.NewAccountMeta(mint, false),
		solana.NewAccountMeta(metadataAddress, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}

type DecompiledBurnNFT struct {
	Owner             ed25519.PublicKey
	OwnerTokenAccount ed25519.PublicKey
	Mint              ed25519.PublicKey
	MetadataAddress   ed25519.PublicKey
}

func DecompileBurnNFT(m solana.Message, index int) (*DecompiledBurnNFT, error) {
	i, err := expectCommand(m, index, CommandBurnNFT, 5)
	if err != nil {
		return nil, err
	}

	return &DecompiledBurnNFT{
		Owner:             m.Accounts[i.Accounts[0]],
		OwnerTokenAccount: m.Accounts[i.Accounts[1]],
		Mint:              m.Accounts[i.Accounts[2]],
		MetadataAddress:   m.Accounts[i.Accounts[3]],
	}, nil
}

// UpdateMetadata rewrites the metadata account of an existing NFT. Only the
// update authority recorded in the metadata may sign this.
func UpdateMetadata(authority, mint, metadataAddress ed25519.PublicKey, p MetadataPayload) (solana.Instruction, error) {
	data, err := metadataPayloadData(CommandUpdateMetadata, p)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewReadonlyAccountMeta(authority, true),
		solana.NewAccountMeta(metadataAddress, false),
		solana.NewReadonlyAccountMeta(mint, false),
	), nil
}

type DecompiledUpdateMetadata struct {
	Authority       ed25519.PublicKey
	MetadataAddress ed25519.PublicKey
	Mint            ed25519.PublicKey
	Payload         MetadataPayload
}

func DecompileUpdateMetadata(m solana.Message, index int) (*DecompiledUpdateMetadata, error) {
	i, err := expectCommand(m, index, CommandUpdateMetadata, 3)
	if err != nil {
		return nil, err
	}

	p, err := decodeMetadataPayload(i.Data)
	if err != nil {
		return nil, err
	}

	return &DecompiledUpdateMetadata{
		Authority:       m.Accounts[i.Accounts[0]],
		MetadataAddress: m.Accounts[i.Accounts[1]],
		Mint:            m.Accounts[i.Accounts[2]],
		Payload:         p,
	}, nil
}

func expectCommand(m solana.Message, index int, cmd Command, numAccounts int) (solana.CompiledInstruction, error) {
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
	if len(i.Accounts) != numAccounts {
		return solana.CompiledInstruction{}, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	return i, nil
}
