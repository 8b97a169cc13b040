package binary

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorAdvancement(t *testing.T) {
	key, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	b := make([]byte, 32+8+4+2+1+4+8)

	var offset int
	PutKey32(b, key, &offset)
	assert.Equal(t, 32, offset)
	PutUint64(b[offset:], 1<<40, &offset)
	assert.Equal(t, 40, offset)
	PutUint32(b[offset:], 7, &offset)
	PutUint16(b[offset:], 9, &offset)
	PutUint8(b[offset:], 11, &offset)
	PutFloat32(b[offset:], 1.5, &offset)
	PutFloat64(b[offset:], -2.25, &offset)
	assert.Equal(t, len(b), offset)

	var (
		gotKey ed25519.PublicKey
		u64    uint64
		u32    uint32
		u16    uint16
		u8     uint8
		f32    float32
		f64    float64
	)
	offset = 0
	GetKey32(b, &gotKey, &offset)
	GetUint64(b[offset:], &u64, &offset)
	GetUint32(b[offset:], &u32, &offset)
	GetUint16(b[offset:], &u16, &offset)
	GetUint8(b[offset:], &u8, &offset)
	GetFloat32(b[offset:], &f32, &offset)
	GetFloat64(b[offset:], &f64, &offset)

	assert.Equal(t, key, gotKey)
	assert.EqualValues(t, 1<<40, u64)
	assert.EqualValues(t, 7, u32)
	assert.EqualValues(t, 9, u16)
	assert.EqualValues(t, 11, u8)
	assert.Equal(t, float32(1.5), f32)
	assert.Equal(t, -2.25, f64)
}

func TestLittleEndianLayout(t *testing.T) {
	b := make([]byte, 8)
	var offset int
	PutUint64(b, 0x0102030405060708, &offset)
	assert.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, b)
}

func TestOptionalFields(t *testing.T) {
	key, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	const optionSize = 4

	b := make([]byte, optionSize+32)
	var offset int
	PutOptionalKey32(b, key, &offset, optionSize)
	assert.Equal(t, optionSize+32, offset)

	var gotKey ed25519.PublicKey
	offset = 0
	GetOptionalKey32(b, &gotKey, &offset, optionSize)
	assert.Equal(t, key, gotKey)

	// absent key leaves the destination nil
	empty := make([]byte, optionSize+32)
	var missing ed25519.PublicKey
	offset = 0
	GetOptionalKey32(empty, &missing, &offset, optionSize)
	assert.Nil(t, missing)

	amount := uint64(42)
	b = make([]byte, optionSize+8)
	offset = 0
	PutOptionalUint64(b, &amount, &offset, optionSize)

	var gotAmount *uint64
	offset = 0
	GetOptionalUint64(b, &gotAmount, &offset, optionSize)
	require.NotNil(t, gotAmount)
	assert.EqualValues(t, 42, *gotAmount)
}

func TestFixedString(t *testing.T) {
	b := make([]byte, 32)

	var offset int
	require.NoError(t, PutFixedString(b, "milton", 32, &offset))
	assert.Equal(t, 32, offset)

	var s string
	offset = 0
	GetFixedString(b, &s, 32, &offset)
	assert.Equal(t, "milton", s)

	// overflow is an error, not a truncation
	assert.Error(t, PutFixedString(make([]byte, 4), "milton", 4, &offset))
}

func TestFixedString_OverwritesStaleBytes(t *testing.T) {
	b := make([]byte, 8)
	var offset int
	require.NoError(t, PutFixedString(b, "longest!", 8, &offset))

	offset = 0
	require.NoError(t, PutFixedString(b, "ab", 8, &offset))

	var s string
	offset = 0
	GetFixedString(b, &s, 8, &offset)
	assert.Equal(t, "ab", s)
}
