package shortvec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, length := range []int{0, 1, 5, 127, 128, 255, 256, 16383, 16384, 65535} {
		buf := new(bytes.Buffer)

		_, err := EncodeLen(buf, length)
		require.NoError(t, err)

		decoded, err := DecodeLen(buf)
		require.NoError(t, err)
		assert.Equal(t, length, decoded)
	}
}

func TestEncodeLen_Width(t *testing.T) {
	for _, tc := range []struct {
		length int
		width  int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
	} {
		buf := new(bytes.Buffer)
		n, err := EncodeLen(buf, tc.length)
		require.NoError(t, err)
		assert.Equal(t, tc.width, n, "length %d", tc.length)
	}
}

func TestDecodeLen_Short(t *testing.T) {
	_, err := DecodeLen(new(bytes.Buffer))
	assert.Error(t, err)

	// continuation bit set with no following byte
	_, err = DecodeLen(bytes.NewBuffer([]byte{0x80}))
	assert.Error(t, err)
}
