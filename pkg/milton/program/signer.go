package program

import (
	"crypto/ed25519"

	"github.com/milton-protocol/milton-go/pkg/solana"
)

// SignFunc signs a compiled transaction in place. Implementations decide
// where key material lives; clients never hold private keys directly.
type SignFunc func(txn *solana.Transaction) error

// LocalSigner returns a SignFunc backed by in-process ed25519 private keys.
func LocalSigner(keys ...ed25519.PrivateKey) SignFunc {
	return func(txn *solana.Transaction) error {
		return txn.Sign(keys...)
	}
}
