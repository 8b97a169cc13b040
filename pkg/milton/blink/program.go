// Package blink provides the client for the Milton blink program: QR-styled
// value transfer profiles, donations, one-time claim links and the blink NFT
// flow.
package blink

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

// ProgramKey is the address of the blink program that should be used.
var ProgramKey = solana.MustPublicKeyFromBase58("9fdpYYLVKA2MJhEprZwcXtH9hpRXKwRcAk5ALunYAQry")

type Command byte

const (
	CommandCreateBlink Command = iota
	CommandAddDonation
	CommandUpdateBlink
	CommandSendTokens
	CommandReceiveTokens
	CommandMintNFT
	CommandTransferNFT
	CommandCreateLink
	CommandClaimLink

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
		return CommandUnknown, errors.New("blink instruction missing data")
	}

	return Command(i.Data[0]), nil
}

const (
	textFieldSize = 32
	fontFieldSize = 32

	// opcode + color + duration + text + font + background + qr address
	appearanceFixedSize = 1 + 3 + 4 + textFieldSize + fontFieldSize + 3 + 32
)

// Appearance is the style payload shared by CreateBlink and UpdateBlink.
// Text and Font must fit their 32 byte fields; QRKind is free-form and
// occupies the remainder of the payload.
type Appearance struct {
	Color      string // "#rrggbb"
	Duration   float32
	Text       string
	Font       string
	Background string // "#rrggbb"
	QRAddress  ed25519.PublicKey
	QRKind     string
}

func appearanceData(cmd Command, a Appearance) ([]byte, error) {
	data := make([]byte, appearanceFixedSize+len(a.QRKind))

	var offset int
	binary.PutUint8(data, byte(cmd), &offset)
	if err := binary.PutHexColor(data[offset:], a.Color, &offset); err != nil {
		return nil, err
	}
	binary.PutFloat32(data[offset:], a.Duration, &offset)
	if err := binary.PutFixedString(data[offset:], a.Text, textFieldSize, &offset); err != nil {
		return nil, err
	}
	if err := binary.PutFixedString(data[offset:], a.Font, fontFieldSize, &offset); err != nil {
		return nil, err
	}
	if err := binary.PutHexColor(data[offset:], a.Background, &offset); err != nil {
		return nil, err
	}
	binary.PutKey32(data[offset:], a.QRAddress, &offset)
	copy(data[offset:], a.QRKind)

	return data, nil
}

func decodeAppearance(data []byte) (Appearance, error) {
	var a Appearance
	if len(data) < appearanceFixedSize {
		return a, errors.Errorf("invalid payload size: %d", len(data))
	}

	offset := 1 // opcode
	binary.GetHexColor(data[offset:], &a.Color, &offset)
	binary.GetFloat32(data[offset:], &a.Duration, &offset)
	binary.GetFixedString(data[offset:], &a.Text, textFieldSize, &offset)
	binary.GetFixedString(data[offset:], &a.Font, fontFieldSize, &offset)
	binary.GetHexColor(data[offset:], &a.Background, &offset)
	binary.GetKey32(data[offset:], &a.QRAddress, &offset)
	a.QRKind = string(data[offset:])

	return a, nil
}

// CreateBlink initializes the blink account for an NFT with its style
// payload.
func CreateBlink(payer, blinkAddress, nftMint ed25519.PublicKey, a Appearance) (solana.Instruction, error) {
	data, err := appearanceData(CommandCreateBlink, a)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(payer, true),
		solana.NewAccountMeta(blinkAddress, false),
		solana.NewReadonlyAccountMeta(nftMint, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	), nil
}

// UpdateBlink rewrites the style payload of an existing blink account.
func UpdateBlink(payer, blinkAddress, nftMint ed25519.PublicKey, a Appearance) (solana.Instruction, error) {
	data, err := appearanceData(CommandUpdateBlink, a)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(payer, true),
		solana.NewAccountMeta(blinkAddress, false),
		solana.NewReadonlyAccountMeta(nftMint, false),
	), nil
}

type DecompiledCreateBlink struct {
	Payer        ed25519.PublicKey
	BlinkAddress ed25519.PublicKey
	NFTMint      ed25519.PublicKey
	Appearance   Appearance
}

func DecompileCreateBlink(m solana.Message, index int) (*DecompiledCreateBlink, error) {
	i, err := expectCommand(m, index, CommandCreateBlink, 5)
	if err != nil {
		return nil, err
	}

	a, err := decodeAppearance(i.Data)
	if err != nil {
		return nil, err
	}

	return &DecompiledCreateBlink{
		Payer:        m.Accounts[i.Accounts[0]],
		BlinkAddress: m.Accounts[i.Accounts[1]],
		NFTMint:      m.Accounts[i.Accounts[2]],
		Appearance:   a,
	}, nil
}

type DecompiledUpdateBlink struct {
	Payer        ed25519.PublicKey
	BlinkAddress ed25519.PublicKey
	NFTMint      ed25519.PublicKey
	Appearance   Appearance
}

func DecompileUpdateBlink(m solana.Message, index int) (*DecompiledUpdateBlink, error) {
	i, err := expectCommand(m, index, CommandUpdateBlink, 3)
	if err != nil {
		return nil, err
	}

	a, err := decodeAppearance(i.Data)
	if err != nil {
		return nil, err
	}

	return &DecompiledUpdateBlink{
		Payer:        m.Accounts[i.Accounts[0]],
		BlinkAddress: m.Accounts[i.Accounts[1]],
		NFTMint:      m.Accounts[i.Accounts[2]],
		Appearance:   a,
	}, nil
}

// AddDonation registers a donation address on a blink account.
func AddDonation(payer, blinkAddress, donationAddress ed25519.PublicKey) solana.Instruction {
	data := make([]byte, 1+32)
	var offset int
	binary.PutUint8(data, byte(CommandAddDonation), &offset)
	binary.PutKey32(data[offset:], donationAddress, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(payer, true),
		solana.NewAccountMeta(blinkAddress, false),
		solana.NewReadonlyAccountMeta(donationAddress, false),
	)
}

type DecompiledAddDonation struct {
	Payer           ed25519.PublicKey
	BlinkAddress    ed25519.PublicKey
	DonationAddress ed25519.PublicKey
}

func DecompileAddDonation(m solana.Message, index int) (*DecompiledAddDonation, error) {
	i, err := expectCommand(m, index, CommandAddDonation, 3)
	if err != nil {
		return nil, err
	}
	if len(i.Data) != 1+32 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	var donation ed25519.PublicKey
	offset := 1
	binary.GetKey32(i.Data[offset:], &donation, &offset)

	return &DecompiledAddDonation{
		Payer:           m.Accounts[i.Accounts[0]],
		BlinkAddress:    m.Accounts[i.Accounts[1]],
		DonationAddress: donation,
	}, nil
}

// SendTokens moves amount between the sender's and recipient's token
// accounts under the blink program's authority checks.
func SendTokens(payer, senderTokenAccount, recipientTokenAccount, mint ed25519.PublicKey, amount uint64) solana.Instruction {
	data := make([]byte, 1+8)
	var offset int
	binary.PutUint8(data, byte(CommandSendTokens), &offset)
	binary.PutUint64(data[offset:], amount, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(payer, true),
		solana.NewAccountMeta(senderTokenAccount, false),
		solana.NewAccountMeta(recipientTokenAccount, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}

type DecompiledSendTokens struct {
	Payer                 ed25519.PublicKey
	SenderTokenAccount    ed25519.PublicKey
	RecipientTokenAccount ed25519.PublicKey
	Mint                  ed25519.PublicKey
	Amount                uint64
}

func DecompileSendTokens(m solana.Message, index int) (*DecompiledSendTokens, error) {
	i, err := expectCommand(m, index, CommandSendTokens, 5)
	if err != nil {
		return nil, err
	}
	if len(i.Data) != 1+8 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	var amount uint64
	offset := 1
	binary.GetUint64(i.Data[offset:], &amount, &offset)

	return &DecompiledSendTokens{
		Payer:                 m.Accounts[i.Accounts[0]],
		SenderTokenAccount:    m.Accounts[i.Accounts[1]],
		RecipientTokenAccount: m.Accounts[i.Accounts[2]],
		Mint:                  m.Accounts[i.Accounts[3]],
		Amount:                amount,
	}, nil
}

// ReceiveTokens acknowledges an inbound transfer on the receiving side.
func ReceiveTokens(payer, senderTokenAccount, recipientTokenAccount, mint ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandReceiveTokens)},
		solana.NewAccountMeta(payer, true),
		solana.NewAccountMeta(senderTokenAccount, false),
		solana.NewAccountMeta(recipientTokenAccount, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}

// MintNFT mints the blink NFT carrying the given metadata blob.
func MintNFT(minter, nftAddress, nftMint ed25519.PublicKey, metadata string) solana.Instruction {
	data := make([]byte, 1+len(metadata))
	data[0] = byte(CommandMintNFT)
	copy(data[1:], metadata)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(minter, true),
		solana.NewAccountMeta(nftAddress, false),
		solana.NewAccountMeta(nftMint, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
	)
}

type DecompiledMintNFT struct {
	Minter     ed25519.PublicKey
	NFTAddress ed25519.PublicKey
	NFTMint    ed25519.PublicKey
	Metadata   string
}

func DecompileMintNFT(m solana.Message, index int) (*DecompiledMintNFT, error) {
	i, err := expectCommand(m, index, CommandMintNFT, 5)
	if err != nil {
		return nil, err
	}

	return &DecompiledMintNFT{
		Minter:     m.Accounts[i.Accounts[0]],
		NFTAddress: m.Accounts[i.Accounts[1]],
		NFTMint:    m.Accounts[i.Accounts[2]],
		Metadata:   string(i.Data[1:]),
	}, nil
}

// TransferNFT moves the blink NFT between token accounts.
func TransferNFT(owner, sourceTokenAccount, destinationTokenAccount, nftMint ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandTransferNFT)},
		solana.NewAccountMeta(owner, true),
		solana.NewAccountMeta(sourceTokenAccount, false),
		solana.NewAccountMeta(destinationTokenAccount, false),
		solana.NewReadonlyAccountMeta(nftMint, false),
		solana.NewReadonlyAccountMeta(token.ProgramKey, false),
	)
}

// CreateLink escrows amount behind a one-time claim link that expires at
// the given unix time.
func CreateLink(creator, linkAddress ed25519.PublicKey, amount, expiry uint64) solana.Instruction {
	data := make([]byte, 1+8+8)
	var offset int
	binary.PutUint8(data, byte(CommandCreateLink), &offset)
	binary.PutUint64(data[offset:], amount, &offset)
	binary.PutUint64(data[offset:], expiry, &offset)

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(creator, true),
		solana.NewAccountMeta(linkAddress, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey, false),
	)
}

type DecompiledCreateLink struct {
	Creator     ed25519.PublicKey
	LinkAddress ed25519.PublicKey
	Amount      uint64
	Expiry      uint64
}

func DecompileCreateLink(m solana.Message, index int) (*DecompiledCreateLink, error) {
	i, err := expectCommand(m, index, CommandCreateLink, 3)
	if err != nil {
		return nil, err
	}
	if len(i.Data) != 1+8+8 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	d := &DecompiledCreateLink{
		Creator:     m.Accounts[i.Accounts[0]],
		LinkAddress: m.Accounts[i.Accounts[1]],
	}
	offset := 1
	binary.GetUint64(i.Data[offset:], &d.Amount, &offset)
	binary.GetUint64(i.Data[offset:], &d.Expiry, &offset)
	return d, nil
}

// ClaimLink redeems an escrowed claim link.
func ClaimLink(claimer, linkAddress ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandClaimLink)},
		solana.NewAccountMeta(claimer, true),
		solana.NewAccountMeta(linkAddress, false),
	)
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
