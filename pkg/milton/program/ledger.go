package program

import (
	"crypto/ed25519"

	"github.com/milton-protocol/milton-go/pkg/solana"
)

// Ledger is the read/submit surface program clients need from an RPC node.
// solana.Client satisfies it; tests substitute in-memory implementations.
type Ledger interface {
	GetAccountInfo(ed25519.PublicKey, solana.Commitment) (solana.AccountInfo, error)
	GetBalance(ed25519.PublicKey) (uint64, error)
	GetFilteredProgramAccounts(program ed25519.PublicKey, offset uint, filterValue []byte) ([]solana.ProgramAccount, uint64, error)
	GetLatestBlockhash() (solana.Blockhash, error)
	GetMinimumBalanceForRentExemption(size uint64) (uint64, error)
	GetSignatureStatus(solana.Signature, solana.Commitment) (*solana.SignatureStatus, error)
	GetTokenAccountBalance(ed25519.PublicKey) (uint64, uint64, error)
	GetTokenAccountsByOwner(owner, mint ed25519.PublicKey) ([]ed25519.PublicKey, error)
	SubmitTransaction(solana.Transaction, solana.Commitment) (solana.Signature, error)
}

var _ Ledger = (solana.Client)(nil)
