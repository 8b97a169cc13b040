// Package programtest provides an in-memory Ledger for exercising program
// clients without an RPC node.
package programtest

import (
	"crypto/ed25519"
	"sync"

	"github.com/milton-protocol/milton-go/pkg/solana"
)

type account struct {
	owner ed25519.PublicKey
	data  []byte
}

// Ledger is an in-memory implementation of program.Ledger. Accounts are
// seeded with SetAccount; submitted transactions are recorded and optionally
// interpreted by SubmitHook, which lets tests mutate seeded account state the
// way the on-chain program would.
type Ledger struct {
	mu sync.Mutex

	accounts      map[string]account
	balances      map[string]uint64
	tokenBalances map[string]uint64
	tokenAccounts map[string][]ed25519.PublicKey

	submitted []solana.Transaction

	// SubmitHook, if set, is invoked for every submitted transaction.
	// Returning an error fails the submission.
	SubmitHook func(l *Ledger, txn solana.Transaction) error
}

func NewLedger() *Ledger {
	return &Ledger{
		accounts:      make(map[string]account),
		balances:      make(map[string]uint64),
		tokenBalances: make(map[string]uint64),
		tokenAccounts: make(map[string][]ed25519.PublicKey),
	}
}

// SetAccount seeds (or replaces) an account's owner and data.
func (l *Ledger) SetAccount(key, owner ed25519.PublicKey, data []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[string(key)] = account{owner: owner, data: data}
}

// AccountData returns a copy of the account's data.
func (l *Ledger) AccountData(key ed25519.PublicKey) ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.accounts[string(key)]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(a.data))
	copy(out, a.data)
	return out, true
}

// DeleteAccount removes a seeded account.
func (l *Ledger) DeleteAccount(key ed25519.PublicKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.accounts, string(key))
}

// SetBalance seeds a lamport balance.
func (l *Ledger) SetBalance(key ed25519.PublicKey, lamports uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[string(key)] = lamports
}

// SetTokenBalance seeds a token account balance.
func (l *Ledger) SetTokenBalance(key ed25519.PublicKey, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokenBalances[string(key)] = amount
}

// TokenBalance reads a seeded token account balance.
func (l *Ledger) TokenBalance(key ed25519.PublicKey) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tokenBalances[string(key)]
}

// AddTokenAccount registers a token account under an owner/mint pair.
func (l *Ledger) AddTokenAccount(owner, mint, tokenAccount ed25519.PublicKey) {
	l.mu.Lock()
	defer l.mu.Unlock()
	k := string(owner) + string(mint)
	l.tokenAccounts[k] = append(l.tokenAccounts[k], tokenAccount)
}

// Submitted returns all transactions submitted so far.
func (l *Ledger) Submitted() []solana.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]solana.Transaction, len(l.submitted))
	copy(out, l.submitted)
	return out
}

func (l *Ledger) GetAccountInfo(key ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[string(key)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}

	data := make([]byte, len(a.data))
	copy(data, a.data)
	return solana.AccountInfo{
		Data:  data,
		Owner: a.owner,
	}, nil
}

func (l *Ledger) GetBalance(key ed25519.PublicKey) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[string(key)], nil
}

func (l *Ledger) GetFilteredProgramAccounts(programKey ed25519.PublicKey, offset uint, filterValue []byte) ([]solana.ProgramAccount, uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []solana.ProgramAccount
	for key, a := range l.accounts {
		if string(a.owner) != string(programKey) {
			continue
		}
		end := int(offset) + len(filterValue)
		if end > len(a.data) {
			continue
		}
		if string(a.data[offset:end]) != string(filterValue) {
			continue
		}

		data := make([]byte, len(a.data))
		copy(data, a.data)
		out = append(out, solana.ProgramAccount{
			PublicKey: ed25519.PublicKey(key),
			Data:      data,
		})
	}
	return out, 1, nil
}

func (l *Ledger) GetLatestBlockhash() (solana.Blockhash, error) {
	var bh solana.Blockhash
	bh[0] = 1
	return bh, nil
}

func (l *Ledger) GetMinimumBalanceForRentExemption(size uint64) (uint64, error) {
	return 890880 + 6960*size, nil
}

func (l *Ledger) GetSignatureStatus(sig solana.Signature, _ solana.Commitment) (*solana.SignatureStatus, error) {
	return &solana.SignatureStatus{Slot: 1}, nil
}

func (l *Ledger) GetTokenAccountBalance(key ed25519.PublicKey) (uint64, uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	amount, ok := l.tokenBalances[string(key)]
	if !ok {
		return 0, 0, solana.ErrNoBalance
	}
	return amount, 1, nil
}

func (l *Ledger) GetTokenAccountsByOwner(owner, mint ed25519.PublicKey) ([]ed25519.PublicKey, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tokenAccounts[string(owner)+string(mint)], nil
}

func (l *Ledger) SubmitTransaction(txn solana.Transaction, _ solana.Commitment) (solana.Signature, error) {
	l.mu.Lock()
	l.submitted = append(l.submitted, txn)
	hook := l.SubmitHook
	l.mu.Unlock()

	if hook != nil {
		if err := hook(l, txn); err != nil {
			return solana.Signature{}, err
		}
	}

	return txn.Signatures[0], nil
}
