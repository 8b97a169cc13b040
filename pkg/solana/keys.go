package solana

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// PublicKeyFromBase58 parses a base58 encoded ed25519 public key.
func PublicKeyFromBase58(s string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base58 encoded key")
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid key length: %d", len(raw))
	}

	return raw, nil
}

// MustPublicKeyFromBase58 parses a base58 encoded ed25519 public key,
// panicking on malformed input. Intended for hard coded program keys.
func MustPublicKeyFromBase58(s string) ed25519.PublicKey {
	key, err := PublicKeyFromBase58(s)
	if err != nil {
		panic(err)
	}

	return key
}

// IsValidPublicKey reports whether s is a base58 string that decodes
// to exactly 32 bytes.
func IsValidPublicKey(s string) bool {
	_, err := PublicKeyFromBase58(s)
	return err == nil
}
