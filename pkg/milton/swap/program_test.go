package swap

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

func TestSwap_RoundTrip(t *testing.T) {
	payer := generateKey(t)
	pool := generateKey(t)
	tokenA := generateKey(t)
	tokenB := generateKey(t)

	txn := solana.NewTransaction(payer, Swap(payer, pool, tokenA, tokenB, 1000, 990))

	cmd, err := GetCommand(txn.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, CommandSwap, cmd)

	decompiled, err := DecompileSwap(txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, payer, decompiled.Payer)
	assert.Equal(t, pool, decompiled.Pool)
	assert.Equal(t, tokenA, decompiled.PayerTokenAccountA)
	assert.Equal(t, tokenB, decompiled.PayerTokenAccountB)
	assert.EqualValues(t, 1000, decompiled.AmountIn)
	assert.EqualValues(t, 990, decompiled.MinAmountOut)

	_, err = DecompileAddLiquidity(txn.Message, 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
}

func TestAddLiquidity_RoundTrip(t *testing.T) {
	payer := generateKey(t)

	txn := solana.NewTransaction(payer, AddLiquidity(payer, generateKey(t), generateKey(t), generateKey(t), 500, 600))

	decompiled, err := DecompileAddLiquidity(txn.Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 500, decompiled.AmountA)
	assert.EqualValues(t, 600, decompiled.AmountB)
}

func TestRemoveLiquidity_RoundTrip(t *testing.T) {
	payer := generateKey(t)

	txn := solana.NewTransaction(payer, RemoveLiquidity(payer, generateKey(t), generateKey(t), generateKey(t), 42))

	decompiled, err := DecompileRemoveLiquidity(txn.Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 42, decompiled.LPAmount)
}

func TestPoolState_RoundTrip(t *testing.T) {
	state := PoolState{
		MintA:    generateKey(t),
		MintB:    generateKey(t),
		ReserveA: 1_000_000,
		ReserveB: 2_000_000,
		LPSupply: 1_414_213,
	}

	data := state.Marshal()
	require.Len(t, data, PoolStateSize)

	var decoded PoolState
	require.NoError(t, decoded.Unmarshal(data))
	assert.Equal(t, state, decoded)

	assert.Error(t, decoded.Unmarshal(data[:PoolStateSize-1]))
}

func TestGetPoolAddress_OrderIndependent(t *testing.T) {
	mintA := generateKey(t)
	mintB := generateKey(t)

	a, err := GetPoolAddress(mintA, mintB)
	require.NoError(t, err)
	b, err := GetPoolAddress(mintB, mintA)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = GetPoolAddress(mintA, mintA)
	assert.Equal(t, ErrInvalidPair, err)
}
