package program

import (
	"crypto/ed25519"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
)

const versionFieldSize = 32

// GetVersion reads the version string a Milton program publishes in the
// first 32 bytes of its program account.
func GetVersion(ledger Ledger, programKey ed25519.PublicKey) (string, error) {
	info, err := ledger.GetAccountInfo(programKey, solana.CommitmentConfirmed)
	if err != nil {
		return "", FromLedgerError(err, "failed to load program account")
	}
	if len(info.Data) < versionFieldSize {
		return "", Errorf(InvalidAccount, "program account too small: %d bytes", len(info.Data))
	}

	var version string
	var offset int
	binary.GetFixedString(info.Data, &version, versionFieldSize, &offset)
	return version, nil
}
