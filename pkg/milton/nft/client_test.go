package nft

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

func testClient(t *testing.T) (Client, *programtest.Ledger, ed25519.PublicKey) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	ledger := programtest.NewLedger()
	submitter := program.NewSubmitter(ledger, program.LocalSigner(priv))
	return NewClient(submitter), ledger, pub
}

// applyNFT mimics the on-chain program for mint and update metadata.
func applyNFT(l *programtest.Ledger, txn solana.Transaction) error {
	for index := range txn.Message.Instructions {
		cmd, err := GetCommand(txn.Message, index)
		if err != nil {
			continue
		}

		switch cmd {
		case CommandMintNFT:
			d, err := DecompileMintNFT(txn.Message, index)
			if err != nil {
				return err
			}
			md := Metadata{
				Name:            d.Payload.Name,
				Symbol:          d.Payload.Symbol,
				RoyaltyBps:      d.Payload.RoyaltyBps,
				UpdateAuthority: d.Payer,
				URI:             d.Payload.URI,
			}
			data, err := md.Marshal()
			if err != nil {
				return err
			}
			l.SetAccount(d.MetadataAddress, ProgramKey, data)

		case CommandUpdateMetadata:
			d, err := DecompileUpdateMetadata(txn.Message, index)
			if err != nil {
				return err
			}
			raw, ok := l.AccountData(d.MetadataAddress)
			if !ok {
				return solana.NewTransactionError(solana.TransactionErrorAccountNotFound)
			}
			var md Metadata
			if err := md.Unmarshal(raw); err != nil {
				return err
			}
			md.Name = d.Payload.Name
			md.Symbol = d.Payload.Symbol
			md.RoyaltyBps = d.Payload.RoyaltyBps
			md.URI = d.Payload.URI
			data, err := md.Marshal()
			if err != nil {
				return err
			}
			l.SetAccount(d.MetadataAddress, ProgramKey, data)

		case CommandBurnNFT:
			d, err := DecompileBurnNFT(txn.Message, index)
			if err != nil {
				return err
			}
			l.DeleteAccount(d.MetadataAddress)
		}
	}
	return nil
}

func TestClient_MintAndGetMetadata(t *testing.T) {
	client, ledger, payer := testClient(t)
	ledger.SubmitHook = applyNFT

	mint := generateKey(t)

	_, err := client.MintNFT(payer, mint, testPayload())
	require.NoError(t, err)

	md, err := client.GetMetadata(mint)
	require.NoError(t, err)
	assert.Equal(t, "Milton #1", md.Name)
	assert.Equal(t, "MLTN", md.Symbol)
	assert.EqualValues(t, 500, md.RoyaltyBps)
	assert.Equal(t, payer, md.UpdateAuthority)
}

func TestClient_UpdateMetadata_Authority(t *testing.T) {
	client, ledger, payer := testClient(t)
	ledger.SubmitHook = applyNFT

	mint := generateKey(t)

	_, err := client.MintNFT(payer, mint, testPayload())
	require.NoError(t, err)

	updated := testPayload()
	updated.URI = "ipfs://new"

	_, err = client.UpdateMetadata(payer, mint, updated)
	require.NoError(t, err)

	md, err := client.GetMetadata(mint)
	require.NoError(t, err)
	assert.Equal(t, "ipfs://new", md.URI)

	// someone else cannot update
	other := generateKey(t)
	_, err = client.UpdateMetadata(other, mint, updated)
	assert.Equal(t, program.Unauthorized, program.KindOf(err))
}

func TestClient_BurnNFT(t *testing.T) {
	client, ledger, payer := testClient(t)
	ledger.SubmitHook = applyNFT

	mint := generateKey(t)

	_, err := client.MintNFT(payer, mint, testPayload())
	require.NoError(t, err)

	_, err = client.BurnNFT(payer, mint)
	require.NoError(t, err)

	_, err = client.GetMetadata(mint)
	assert.Equal(t, program.AccountNotFound, program.KindOf(err))
}

func TestClient_GetNFTsByOwner(t *testing.T) {
	client, ledger, payer := testClient(t)
	mint := generateKey(t)
	tokenAccount := generateKey(t)

	ledger.AddTokenAccount(payer, mint, tokenAccount)

	accounts, err := client.GetNFTsByOwner(payer, mint)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, tokenAccount, accounts[0])
}
