package solana

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProgramAddress(t *testing.T) {
	program, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	// derived addresses are off the curve and deterministic
	for _, seed := range [][]byte{[]byte("blink"), []byte("stake"), []byte("pool")} {
		address, err := CreateProgramAddress(program, seed, []byte{255})
		if err == ErrInvalidPublicKey {
			continue
		}
		require.NoError(t, err)

		again, err := CreateProgramAddress(program, seed, []byte{255})
		require.NoError(t, err)
		assert.Equal(t, address, again)
	}
}

func TestCreateProgramAddress_MaxSeeds(t *testing.T) {
	program, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	seeds := make([][]byte, maxSeeds+1)
	for i := range seeds {
		seeds[i] = []byte{byte(i)}
	}

	_, err = CreateProgramAddress(program, seeds...)
	assert.Equal(t, ErrTooManySeeds, err)

	_, err = CreateProgramAddress(program, make([]byte, maxSeedLength+1))
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)
}

func TestFindProgramAddress(t *testing.T) {
	program, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	address, err := FindProgramAddress(program, []byte("metadata"))
	require.NoError(t, err)

	again, bump, err := FindProgramAddressAndBump(program, []byte("metadata"))
	require.NoError(t, err)
	assert.Equal(t, address, again)

	// the bump is part of the derivation
	direct, err := CreateProgramAddress(program, []byte("metadata"), []byte{bump})
	require.NoError(t, err)
	assert.Equal(t, address, direct)
}

func TestFindProgramAddress_SeedSeparation(t *testing.T) {
	program, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	a, err := FindProgramAddress(program, []byte("blink"))
	require.NoError(t, err)
	b, err := FindProgramAddress(program, []byte("nft"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	otherProgram, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	c, err := FindProgramAddress(otherProgram, []byte("blink"))
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
