package blink

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milton-protocol/milton-go/pkg/solana"
)

func generateKey(t *testing.T) ed25519.PublicKey {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub
}

func testAppearance(t *testing.T) Appearance {
	return Appearance{
		Color:      "#1a2b3c",
		Duration:   1.5,
		Text:       "scan me",
		Font:       "monospace",
		Background: "#ffffff",
		QRAddress:  generateKey(t),
		QRKind:     "terminal",
	}
}

func TestCreateBlink_RoundTrip(t *testing.T) {
	payer := generateKey(t)
	blinkAddress := generateKey(t)
	nftMint := generateKey(t)
	appearance := testAppearance(t)

	ixn, err := CreateBlink(payer, blinkAddress, nftMint, appearance)
	require.NoError(t, err)

	txn := solana.NewTransaction(payer, ixn)

	cmd, err := GetCommand(txn.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, CommandCreateBlink, cmd)

	decompiled, err := DecompileCreateBlink(txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, payer, decompiled.Payer)
	assert.Equal(t, blinkAddress, decompiled.BlinkAddress)
	assert.Equal(t, nftMint, decompiled.NFTMint)
	assert.Equal(t, appearance, decompiled.Appearance)
}

func TestCreateBlink_TextTooLong(t *testing.T) {
	appearance := testAppearance(t)
	appearance.Text = "this text is far far far too long to fit in its field"

	_, err := CreateBlink(generateKey(t), generateKey(t), generateKey(t), appearance)
	assert.Error(t, err)
}

func TestCreateBlink_InvalidColor(t *testing.T) {
	appearance := testAppearance(t)
	appearance.Color = "red"

	_, err := CreateBlink(generateKey(t), generateKey(t), generateKey(t), appearance)
	assert.Error(t, err)
}

func TestUpdateBlink_RoundTrip(t *testing.T) {
	payer := generateKey(t)
	blinkAddress := generateKey(t)
	nftMint := generateKey(t)
	appearance := testAppearance(t)

	ixn, err := UpdateBlink(payer, blinkAddress, nftMint, appearance)
	require.NoError(t, err)

	txn := solana.NewTransaction(payer, ixn)

	decompiled, err := DecompileUpdateBlink(txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, payer, decompiled.Payer)
	assert.Equal(t, appearance, decompiled.Appearance)

	_, err = DecompileCreateBlink(txn.Message, 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
}

func TestAddDonation_RoundTrip(t *testing.T) {
	payer := generateKey(t)
	blinkAddress := generateKey(t)
	donation := generateKey(t)

	txn := solana.NewTransaction(payer, AddDonation(payer, blinkAddress, donation))

	decompiled, err := DecompileAddDonation(txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, payer, decompiled.Payer)
	assert.Equal(t, blinkAddress, decompiled.BlinkAddress)
	assert.Equal(t, donation, decompiled.DonationAddress)
}

func TestSendTokens_RoundTrip(t *testing.T) {
	payer := generateKey(t)
	sender := generateKey(t)
	recipient := generateKey(t)
	mint := generateKey(t)

	txn := solana.NewTransaction(payer, SendTokens(payer, sender, recipient, mint, 12345))

	decompiled, err := DecompileSendTokens(txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, payer, decompiled.Payer)
	assert.Equal(t, sender, decompiled.SenderTokenAccount)
	assert.Equal(t, recipient, decompiled.RecipientTokenAccount)
	assert.Equal(t, mint, decompiled.Mint)
	assert.EqualValues(t, 12345, decompiled.Amount)
}

func TestMintNFT_RoundTrip(t *testing.T) {
	minter := generateKey(t)
	nftAddress := generateKey(t)
	nftMint := generateKey(t)

	txn := solana.NewTransaction(minter, MintNFT(minter, nftAddress, nftMint, `{"name":"milton"}`))

	cmd, err := GetCommand(txn.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, CommandMintNFT, cmd)

	decompiled, err := DecompileMintNFT(txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, minter, decompiled.Minter)
	assert.Equal(t, nftAddress, decompiled.NFTAddress)
	assert.Equal(t, nftMint, decompiled.NFTMint)
	assert.Equal(t, `{"name":"milton"}`, decompiled.Metadata)
}

func TestCreateLink_RoundTrip(t *testing.T) {
	creator := generateKey(t)
	linkAddress := generateKey(t)

	txn := solana.NewTransaction(creator, CreateLink(creator, linkAddress, 500, 1700000000))

	decompiled, err := DecompileCreateLink(txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, creator, decompiled.Creator)
	assert.Equal(t, linkAddress, decompiled.LinkAddress)
	assert.EqualValues(t, 500, decompiled.Amount)
	assert.EqualValues(t, 1700000000, decompiled.Expiry)
}

func TestGetCommand_WrongProgram(t *testing.T) {
	payer := generateKey(t)
	ixn := solana.NewInstruction(generateKey(t), []byte{0}, solana.NewAccountMeta(payer, true))
	txn := solana.NewTransaction(payer, ixn)

	_, err := GetCommand(txn.Message, 0)
	assert.Equal(t, solana.ErrIncorrectProgram, err)

	_, err = GetCommand(txn.Message, 1)
	assert.Error(t, err)
}

func TestBlinkRecord_RoundTrip(t *testing.T) {
	record := BlinkRecord{
		Color:      "#00ff7f",
		Duration:   2.25,
		Text:       "donate",
		Font:       "sans-serif",
		Background: "#000000",
		QRAddress:  generateKey(t),
		QRKind:     "svg",
	}

	data, err := record.Marshal()
	require.NoError(t, err)
	require.Len(t, data, BlinkRecordMinSize+len(record.QRKind))

	var decoded BlinkRecord
	require.NoError(t, decoded.Unmarshal(data))
	assert.Equal(t, record, decoded)

	assert.Error(t, decoded.Unmarshal(data[:BlinkRecordMinSize-1]))
}

func TestLinkRecord_RoundTrip(t *testing.T) {
	record := LinkRecord{
		Creator: generateKey(t),
		Amount:  42,
		Expiry:  1800000000,
		Claimed: true,
	}

	data := record.Marshal()
	require.Len(t, data, LinkRecordSize)

	var decoded LinkRecord
	require.NoError(t, decoded.Unmarshal(data))
	assert.Equal(t, record, decoded)
}

func TestAddresses_Deterministic(t *testing.T) {
	nftMint := generateKey(t)

	a, err := GetBlinkAddress(nftMint)
	require.NoError(t, err)
	b, err := GetBlinkAddress(nftMint)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other, err := GetBlinkAddress(generateKey(t))
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}
