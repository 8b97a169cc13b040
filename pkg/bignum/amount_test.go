package bignum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmount_Arithmetic(t *testing.T) {
	a := NewAmount(100)
	b := NewAmount(42)

	// add/sub are inverses
	assert.True(t, a.Add(b).Sub(b).Eq(a))
	assert.True(t, a.Sub(a).IsZero())

	assert.True(t, a.Mul(NewAmount(0)).IsZero())
	assert.True(t, a.Mul(NewAmount(1)).Eq(a))

	q, err := a.Div(b)
	require.NoError(t, err)
	assert.EqualValues(t, 2, q.Int64())

	r, err := a.Mod(b)
	require.NoError(t, err)
	assert.EqualValues(t, 16, r.Int64())

	// quotient*divisor + remainder reassembles the dividend
	assert.True(t, q.Mul(b).Add(r).Eq(a))
}

func TestAmount_DivisionByZero(t *testing.T) {
	a := NewAmount(1)

	_, err := a.Div(Amount{})
	assert.Equal(t, ErrDivisionByZero, err)

	_, err = a.Mod(NewAmount(0))
	assert.Equal(t, ErrDivisionByZero, err)
}

func TestAmount_Immutability(t *testing.T) {
	a := NewAmount(10)
	_ = a.Add(NewAmount(5))
	_ = a.Neg()
	assert.EqualValues(t, 10, a.Int64())
}

func TestAmount_ZeroValueUsable(t *testing.T) {
	var zero Amount
	assert.True(t, zero.IsZero())
	assert.True(t, zero.Add(NewAmount(3)).Eq(NewAmount(3)))
	assert.Equal(t, "0", zero.String())
}

func TestAmount_Pow(t *testing.T) {
	assert.EqualValues(t, 1024, NewAmount(2).Pow(10).Int64())
	assert.EqualValues(t, 1, NewAmount(7).Pow(0).Int64())

	// 10^18 overflows int64 multiplication chains but not Amount
	big := NewAmount(10).Pow(18)
	assert.Equal(t, "1000000000000000000", big.String())
}

func TestAmount_Compare(t *testing.T) {
	a := NewAmount(-5)
	b := NewAmount(5)

	assert.True(t, a.Lt(b))
	assert.True(t, b.Gt(a))
	assert.True(t, a.Lte(a))
	assert.True(t, a.Gte(a))
	assert.True(t, a.IsNeg())
	assert.True(t, b.IsPos())

	assert.True(t, a.Abs().Eq(b))
	assert.True(t, b.Neg().Eq(a))
}

func TestAmount_MinMax(t *testing.T) {
	a := NewAmount(1)
	b := NewAmount(-3)
	c := NewAmount(7)

	assert.True(t, Min(a, b, c).Eq(b))
	assert.True(t, Max(a, b, c).Eq(c))
	assert.True(t, Min(a).Eq(a))
	assert.True(t, Max(a).Eq(a))
}

func TestAmount_FromString(t *testing.T) {
	a, err := NewAmountFromString("123456789012345678901234567890", 10)
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", a.String())

	h, err := NewAmountFromString("ff", 16)
	require.NoError(t, err)
	assert.EqualValues(t, 255, h.Int64())

	_, err = NewAmountFromString("not a number", 10)
	assert.Equal(t, ErrInvalidNumber, err)
}

func TestAmount_Bytes8LE(t *testing.T) {
	a := NewAmountFromUint64(0x0102030405060708)

	b, err := a.Bytes8LE()
	require.NoError(t, err)
	assert.Equal(t, []byte{8, 7, 6, 5, 4, 3, 2, 1}, b)

	back, err := FromBytes8LE(b)
	require.NoError(t, err)
	assert.True(t, back.Eq(a))

	// negative and oversized amounts don't fit the wire field
	_, err = NewAmount(-1).Bytes8LE()
	assert.Error(t, err)

	_, err = NewAmountFromUint64(1).Add(NewAmountFromUint64(0xffffffffffffffff)).Bytes8LE()
	assert.Error(t, err)

	_, err = FromBytes8LE([]byte{1, 2, 3})
	assert.Error(t, err)
}
