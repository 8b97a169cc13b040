// Package bignum provides an arbitrary precision integer amount used for
// token quantities. All operations are immutable: they return new Amount
// values and never modify their receivers.
package bignum

import (
	"encoding/binary"
	"math/big"

	"github.com/pkg/errors"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrInvalidNumber  = errors.New("invalid number")
)

// Amount is an immutable arbitrary precision integer.
//
// The zero value is usable and represents 0.
type Amount struct {
	v *big.Int
}

// NewAmount returns an Amount from an int64.
func NewAmount(v int64) Amount {
	return Amount{v: big.NewInt(v)}
}

// NewAmountFromUint64 returns an Amount from a uint64.
func NewAmountFromUint64(v uint64) Amount {
	return Amount{v: new(big.Int).SetUint64(v)}
}

// NewAmountFromString parses s in the given base (2..36). A base of 0
// selects the base from the string prefix, per big.Int semantics.
func NewAmountFromString(s string, base int) (Amount, error) {
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return Amount{}, errors.Wrapf(ErrInvalidNumber, "cannot parse %q in base %d", s, base)
	}

	return Amount{v: v}, nil
}

func (a Amount) value() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return a.v
}

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{v: new(big.Int).Add(a.value(), b.value())}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{v: new(big.Int).Sub(a.value(), b.value())}
}

// Mul returns a * b.
func (a Amount) Mul(b Amount) Amount {
	return Amount{v: new(big.Int).Mul(a.value(), b.value())}
}

// Div returns a / b, truncated towards zero. Dividing by zero returns
// ErrDivisionByZero.
func (a Amount) Div(b Amount) (Amount, error) {
	if b.IsZero() {
		return Amount{}, ErrDivisionByZero
	}

	return Amount{v: new(big.Int).Quo(a.value(), b.value())}, nil
}

// Mod returns a % b with the sign of a. Dividing by zero returns
// ErrDivisionByZero.
func (a Amount) Mod(b Amount) (Amount, error) {
	if b.IsZero() {
		return Amount{}, ErrDivisionByZero
	}

	return Amount{v: new(big.Int).Rem(a.value(), b.value())}, nil
}

// Pow returns a^e. Negative exponents return 1, matching big.Int.
func (a Amount) Pow(e uint64) Amount {
	return Amount{v: new(big.Int).Exp(a.value(), new(big.Int).SetUint64(e), nil)}
}

// Abs returns |a|.
func (a Amount) Abs() Amount {
	return Amount{v: new(big.Int).Abs(a.value())}
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{v: new(big.Int).Neg(a.value())}
}

// Cmp returns -1 if a < b, 0 if a == b, and +1 if a > b.
func (a Amount) Cmp(b Amount) int {
	return a.value().Cmp(b.value())
}

func (a Amount) Eq(b Amount) bool  { return a.Cmp(b) == 0 }
func (a Amount) Lt(b Amount) bool  { return a.Cmp(b) < 0 }
func (a Amount) Lte(b Amount) bool { return a.Cmp(b) <= 0 }
func (a Amount) Gt(b Amount) bool  { return a.Cmp(b) > 0 }
func (a Amount) Gte(b Amount) bool { return a.Cmp(b) >= 0 }

func (a Amount) IsZero() bool { return a.value().Sign() == 0 }
func (a Amount) IsNeg() bool  { return a.value().Sign() < 0 }
func (a Amount) IsPos() bool  { return a.value().Sign() > 0 }

// Min returns the smallest of the provided amounts.
func Min(first Amount, rest ...Amount) Amount {
	min := first
	for _, a := range rest {
		if a.Lt(min) {
			min = a
		}
	}
	return min
}

// Max returns the largest of the provided amounts.
func Max(first Amount, rest ...Amount) Amount {
	max := first
	for _, a := range rest {
		if a.Gt(max) {
			max = a
		}
	}
	return max
}

// String renders the amount in base 10.
func (a Amount) String() string {
	return a.value().String()
}

// Text renders the amount in the given base (2..36).
func (a Amount) Text(base int) string {
	return a.value().Text(base)
}

// Int64 returns the amount as an int64. The result is undefined if the
// amount does not fit, per big.Int semantics.
func (a Amount) Int64() int64 {
	return a.value().Int64()
}

// Uint64 returns the amount as a uint64. The result is undefined if the
// amount does not fit, per big.Int semantics.
func (a Amount) Uint64() uint64 {
	return a.value().Uint64()
}

// IsUint64 reports whether the amount fits in a uint64.
func (a Amount) IsUint64() bool {
	return a.value().IsUint64()
}

// Bytes8LE renders the amount as 8 little-endian bytes, the wire form used
// by instruction payloads. Amounts outside [0, 2^64) return an error.
func (a Amount) Bytes8LE() ([]byte, error) {
	if !a.IsUint64() {
		return nil, errors.Errorf("amount %s does not fit in 8 bytes", a.String())
	}

	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, a.Uint64())
	return b, nil
}

// FromBytes8LE parses 8 little-endian bytes into an Amount.
func FromBytes8LE(b []byte) (Amount, error) {
	if len(b) != 8 {
		return Amount{}, errors.Errorf("invalid length: %d", len(b))
	}

	return NewAmountFromUint64(binary.LittleEndian.Uint64(b)), nil
}
