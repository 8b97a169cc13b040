package token

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

func TestTransfer_RoundTrip(t *testing.T) {
	source := generateKey(t)
	dest := generateKey(t)
	owner := generateKey(t)

	instruction := Transfer(source, dest, owner, 123456789)
	txn := solana.NewTransaction(owner, instruction)

	cmd, err := GetCommand(txn.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, CommandTransfer, cmd)

	decompiled, err := DecompileTransfer(txn.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, source, decompiled.Source)
	assert.Equal(t, dest, decompiled.Destination)
	assert.Equal(t, owner, decompiled.Owner)
	assert.EqualValues(t, 123456789, decompiled.Amount)
}

func TestTransferChecked_RoundTrip(t *testing.T) {
	source := generateKey(t)
	mint := generateKey(t)
	dest := generateKey(t)
	owner := generateKey(t)

	instruction := TransferChecked(source, mint, dest, owner, 500, 9)
	txn := solana.NewTransaction(owner, instruction)

	cmd, err := GetCommand(txn.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, CommandTransferChecked, cmd)

	decompiled, err := DecompileTransferChecked(txn.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, source, decompiled.Source)
	assert.Equal(t, mint, decompiled.Mint)
	assert.Equal(t, dest, decompiled.Destination)
	assert.Equal(t, owner, decompiled.Owner)
	assert.EqualValues(t, 500, decompiled.Amount)
	assert.EqualValues(t, 9, decompiled.Decimals)
}

func TestInitializeAccount_RoundTrip(t *testing.T) {
	account := generateKey(t)
	mint := generateKey(t)
	owner := generateKey(t)

	instruction := InitializeAccount(account, mint, owner)
	txn := solana.NewTransaction(owner, instruction)

	decompiled, err := DecompileInitializeAccount(txn.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, account, decompiled.Account)
	assert.Equal(t, mint, decompiled.Mint)
	assert.Equal(t, owner, decompiled.Owner)
}

func TestCloseAccount_RoundTrip(t *testing.T) {
	account := generateKey(t)
	dest := generateKey(t)
	owner := generateKey(t)

	instruction := CloseAccount(account, dest, owner)
	txn := solana.NewTransaction(owner, instruction)

	decompiled, err := DecompileCloseAccount(txn.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, account, decompiled.Account)
	assert.Equal(t, dest, decompiled.Destination)
	assert.Equal(t, owner, decompiled.Owner)
}

func TestGetAssociatedAccount(t *testing.T) {
	wallet := generateKey(t)
	mint := generateKey(t)

	a, err := GetAssociatedAccount(wallet, mint)
	require.NoError(t, err)
	b, err := GetAssociatedAccount(wallet, mint)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := GetAssociatedAccount(wallet, generateKey(t))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestCreateAssociatedTokenAccount_RoundTrip(t *testing.T) {
	payer := generateKey(t)
	wallet := generateKey(t)
	mint := generateKey(t)

	instruction, ata, err := CreateAssociatedTokenAccount(payer, wallet, mint)
	require.NoError(t, err)

	txn := solana.NewTransaction(payer, instruction)

	decompiled, err := DecompileCreateAssociatedAccount(txn.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, payer, decompiled.Payer)
	assert.Equal(t, wallet, decompiled.Owner)
	assert.Equal(t, mint, decompiled.Mint)
	assert.Equal(t, ata, decompiled.Address)
}

func TestAccount_RoundTrip(t *testing.T) {
	account := Account{
		Mint:   generateKey(t),
		Owner:  generateKey(t),
		Amount: 42,
		State:  AccountStateInitialized,
	}

	data := account.Marshal()
	require.Len(t, data, AccountSize)

	var decoded Account
	require.True(t, decoded.Unmarshal(data))
	assert.Equal(t, account.Mint, decoded.Mint)
	assert.Equal(t, account.Owner, decoded.Owner)
	assert.Equal(t, account.Amount, decoded.Amount)
	assert.Equal(t, account.State, decoded.State)

	assert.False(t, decoded.Unmarshal(data[:AccountSize-1]))
}
