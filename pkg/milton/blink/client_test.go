package blink

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milton-protocol/milton-go/pkg/milton/program"
	"github.com/milton-protocol/milton-go/pkg/milton/programtest"
	"github.com/milton-protocol/milton-go/pkg/solana"
)

func testClient(t *testing.T) (Client, *programtest.Ledger, ed25519.PublicKey, ed25519.PrivateKey) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	ledger := programtest.NewLedger()
	submitter := program.NewSubmitter(ledger, program.LocalSigner(priv))
	return NewClient(submitter), ledger, pub, priv
}

func TestClient_CreateBlink(t *testing.T) {
	client, ledger, payer, _ := testClient(t)
	nftMint := generateKey(t)

	sig, err := client.CreateBlink(payer, nftMint, testAppearance(t))
	require.NoError(t, err)
	assert.NotEqual(t, solana.Signature{}, sig)

	submitted := ledger.Submitted()
	require.Len(t, submitted, 1)

	decompiled, err := DecompileCreateBlink(submitted[0].Message, 0)
	require.NoError(t, err)

	expectedAddress, err := GetBlinkAddress(nftMint)
	require.NoError(t, err)
	assert.Equal(t, expectedAddress, decompiled.BlinkAddress)
}

func TestClient_CreateBlink_InvalidInput(t *testing.T) {
	client, ledger, payer, _ := testClient(t)

	_, err := client.CreateBlink(payer, nil, testAppearance(t))
	assert.Equal(t, program.InvalidInput, program.KindOf(err))
	assert.Empty(t, ledger.Submitted())
}

func TestClient_GetBlinkData(t *testing.T) {
	client, ledger, _, _ := testClient(t)
	nftMint := generateKey(t)

	record := BlinkRecord{
		Color:      "#123456",
		Duration:   3,
		Text:       "hello",
		Font:       "serif",
		Background: "#654321",
		QRAddress:  generateKey(t),
		QRKind:     "terminal",
	}
	data, err := record.Marshal()
	require.NoError(t, err)

	blinkAddress, err := GetBlinkAddress(nftMint)
	require.NoError(t, err)
	ledger.SetAccount(blinkAddress, ProgramKey, data)

	loaded, err := client.GetBlinkData(nftMint)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)
}

func TestClient_GetBlinkData_NotFound(t *testing.T) {
	client, _, _, _ := testClient(t)

	_, err := client.GetBlinkData(generateKey(t))
	assert.Equal(t, program.AccountNotFound, program.KindOf(err))
}

func TestClient_SendTokens(t *testing.T) {
	client, ledger, payer, _ := testClient(t)
	recipient := generateKey(t)
	mint := generateKey(t)

	_, err := client.SendTokens(payer, recipient, mint, 0)
	assert.Equal(t, program.InvalidInput, program.KindOf(err))

	_, err = client.SendTokens(payer, recipient, mint, 1000)
	require.NoError(t, err)

	submitted := ledger.Submitted()
	require.Len(t, submitted, 1)

	decompiled, err := DecompileSendTokens(submitted[0].Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1000, decompiled.Amount)
}

func TestClient_Links(t *testing.T) {
	client, ledger, payer, _ := testClient(t)

	_, err := client.CreateLink(payer, 250, 1900000000)
	require.NoError(t, err)

	linkAddress, err := GetLinkAddress(payer)
	require.NoError(t, err)

	record := LinkRecord{Creator: payer, Amount: 250, Expiry: 1900000000}
	ledger.SetAccount(linkAddress, ProgramKey, record.Marshal())

	loaded, err := client.GetLinkData(payer)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)
	assert.False(t, loaded.Claimed)

	_, err = client.ClaimLink(payer, payer)
	require.NoError(t, err)
	assert.Len(t, ledger.Submitted(), 2)
}

func TestClient_WithLedger(t *testing.T) {
	client, _, payer, _ := testClient(t)

	other := programtest.NewLedger()
	rebound := client.WithLedger(other)

	_, err := rebound.CreateLink(payer, 10, 1)
	require.NoError(t, err)
	assert.Len(t, other.Submitted(), 1)
}
