package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKeypair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return pub, priv
}

func TestTransaction_PayerFirst(t *testing.T) {
	payer, _ := generateKeypair(t)
	program, _ := generateKeypair(t)
	a, _ := generateKeypair(t)
	b, _ := generateKeypair(t)

	txn := NewTransaction(
		payer,
		NewInstruction(program, []byte{1}, NewAccountMeta(a, true), NewAccountMeta(b, false)),
	)

	assert.Equal(t, payer, txn.Message.Accounts[0])
	assert.EqualValues(t, 2, txn.Message.Header.NumSignatures)
}

func TestTransaction_DedupesAccounts(t *testing.T) {
	payer, _ := generateKeypair(t)
	program, _ := generateKeypair(t)
	shared, _ := generateKeypair(t)

	txn := NewTransaction(
		payer,
		NewInstruction(program, []byte{1}, NewAccountMeta(shared, false)),
		NewInstruction(program, []byte{2}, NewReadonlyAccountMeta(shared, false)),
	)

	var count int
	for _, account := range txn.Message.Accounts {
		if bytes.Equal(account, shared) {
			count++
		}
	}
	assert.Equal(t, 1, count)

	// writable wins when duplicates merge: only the program is readonly
	assert.EqualValues(t, 1, txn.Message.Header.NumReadOnly)
}

func TestTransaction_SignAndVerify(t *testing.T) {
	payer, payerPriv := generateKeypair(t)
	program, _ := generateKeypair(t)

	txn := NewTransaction(
		payer,
		NewInstruction(program, []byte{1, 2, 3}, NewAccountMeta(payer, true)),
	)

	var blockhash Blockhash
	blockhash[0] = 7
	txn.SetBlockhash(blockhash)

	require.NoError(t, txn.Sign(payerPriv))
	require.Len(t, txn.Signatures, 1)

	messageBytes := txn.Message.Marshal()
	assert.True(t, ed25519.Verify(payer, messageBytes, txn.Signatures[0][:]))
}

func TestTransaction_Sign_WrongKey(t *testing.T) {
	payer, _ := generateKeypair(t)
	program, _ := generateKeypair(t)
	_, strangerPriv := generateKeypair(t)

	txn := NewTransaction(
		payer,
		NewInstruction(program, []byte{1}, NewAccountMeta(payer, true)),
	)

	assert.Error(t, txn.Sign(strangerPriv))
}

func TestTransaction_MarshalRoundTrip(t *testing.T) {
	payer, payerPriv := generateKeypair(t)
	program, _ := generateKeypair(t)
	other, _ := generateKeypair(t)

	txn := NewTransaction(
		payer,
		NewInstruction(program, []byte{0xde, 0xad}, NewAccountMeta(payer, true), NewReadonlyAccountMeta(other, false)),
	)

	var blockhash Blockhash
	blockhash[3] = 9
	txn.SetBlockhash(blockhash)
	require.NoError(t, txn.Sign(payerPriv))

	raw := txn.Marshal()
	require.LessOrEqual(t, len(raw), MaxTransactionSize)

	var decoded Transaction
	require.NoError(t, decoded.Unmarshal(raw))

	assert.Equal(t, txn.Signatures, decoded.Signatures)
	assert.Equal(t, txn.Message.Header, decoded.Message.Header)
	assert.Equal(t, txn.Message.Accounts, decoded.Message.Accounts)
	assert.Equal(t, txn.Message.RecentBlockhash, decoded.Message.RecentBlockhash)
	assert.Equal(t, txn.Message.Instructions, decoded.Message.Instructions)
}

func TestTransaction_RejectsVersionedMessage(t *testing.T) {
	payer, payerPriv := generateKeypair(t)
	program, _ := generateKeypair(t)

	txn := NewTransaction(
		payer,
		NewInstruction(program, []byte{1}, NewAccountMeta(payer, true)),
	)
	require.NoError(t, txn.Sign(payerPriv))

	raw := txn.Marshal()

	// flip the version bit on the first message byte
	raw[1+ed25519.SignatureSize] |= 0x80

	var decoded Transaction
	assert.Error(t, decoded.Unmarshal(raw))
}

func TestTransaction_String(t *testing.T) {
	payer, payerPriv := generateKeypair(t)
	program, _ := generateKeypair(t)

	txn := NewTransaction(
		payer,
		NewInstruction(program, []byte{1}, NewAccountMeta(payer, true)),
	)
	require.NoError(t, txn.Sign(payerPriv))

	assert.NotEmpty(t, txn.String())
	assert.Equal(t, txn.Signatures[0][:], txn.Signature())
}
