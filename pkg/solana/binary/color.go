package binary

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
)

const colorSize = 3

// ParseHexColor parses a "#rrggbb" color string into its 3 byte form.
func ParseHexColor(s string) ([colorSize]byte, error) {
	var c [colorSize]byte

	if len(s) != 7 || s[0] != '#' {
		return c, errors.Errorf("invalid color: %q", s)
	}

	raw, err := hex.DecodeString(s[1:])
	if err != nil {
		return c, errors.Wrapf(err, "invalid color: %q", s)
	}

	copy(c[:], raw)
	return c, nil
}

// FormatHexColor renders a 3 byte color as "#rrggbb".
func FormatHexColor(c [colorSize]byte) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}

// PutHexColor writes a "#rrggbb" color string as 3 raw bytes.
func PutHexColor(dst []byte, s string, offset *int) error {
	c, err := ParseHexColor(s)
	if err != nil {
		return err
	}

	copy(dst, c[:])
	*offset += colorSize
	return nil
}

// GetHexColor reads 3 raw bytes as a "#rrggbb" color string.
func GetHexColor(src []byte, dst *string, offset *int) {
	var c [colorSize]byte
	copy(c[:], src)
	*dst = FormatHexColor(c)
	*offset += colorSize
}
