package staking

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

func TestStake_RoundTrip(t *testing.T) {
	staker := generateKey(t)
	tokenAccount := generateKey(t)
	stakeAddress := generateKey(t)
	mint := generateKey(t)

	txn := solana.NewTransaction(staker, Stake(staker, tokenAccount, stakeAddress, mint, 777))

	cmd, err := GetCommand(txn.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, CommandStake, cmd)

	decompiled, err := DecompileStake(txn.Message, 0)
	require.NoError(t, err)

	assert.Equal(t, staker, decompiled.Staker)
	assert.Equal(t, tokenAccount, decompiled.StakerTokenAccount)
	assert.Equal(t, stakeAddress, decompiled.StakeAddress)
	assert.Equal(t, mint, decompiled.Mint)
	assert.EqualValues(t, 777, decompiled.Amount)

	_, err = DecompileUnstake(txn.Message, 0)
	assert.Equal(t, solana.ErrIncorrectInstruction, err)
}

func TestUnstake_RoundTrip(t *testing.T) {
	staker := generateKey(t)

	txn := solana.NewTransaction(staker, Unstake(staker, generateKey(t), generateKey(t), generateKey(t), 11))

	decompiled, err := DecompileUnstake(txn.Message, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 11, decompiled.Amount)
}

func TestClaimRewards_RoundTrip(t *testing.T) {
	staker := generateKey(t)
	tokenAccount := generateKey(t)
	stakeAddress := generateKey(t)
	mint := generateKey(t)

	txn := solana.NewTransaction(staker, ClaimRewards(staker, tokenAccount, stakeAddress, mint))

	decompiled, err := DecompileClaimRewards(txn.Message, 0)
	require.NoError(t, err)
	assert.Equal(t, staker, decompiled.Staker)
	assert.Equal(t, stakeAddress, decompiled.StakeAddress)
}

func TestStakeInfo_RoundTrip(t *testing.T) {
	info := StakeInfo{
		Amount:        123456789,
		StakedAt:      1700000000,
		LastClaimTime: 1700003600,
	}

	data := info.Marshal()
	require.Len(t, data, StakeInfoSize)

	var decoded StakeInfo
	require.NoError(t, decoded.Unmarshal(data))
	assert.Equal(t, info, decoded)

	assert.Error(t, decoded.Unmarshal(data[:StakeInfoSize-1]))
}

func TestAddresses_SeedSeparation(t *testing.T) {
	staker := generateKey(t)

	stakeAddress, err := GetStakeAddress(staker)
	require.NoError(t, err)
	totalStaked, err := GetTotalStakedAddress()
	require.NoError(t, err)
	apr, err := GetAPRAddress()
	require.NoError(t, err)

	assert.NotEqual(t, stakeAddress, totalStaked)
	assert.NotEqual(t, totalStaked, apr)

	again, err := GetStakeAddress(staker)
	require.NoError(t, err)
	assert.Equal(t, stakeAddress, again)
}
