package swap

import (
	"crypto/ed25519"

	"github.com/milton-protocol/milton-go/pkg/milton/program"
	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/token"
)

// Client is the high level interface to the swap program. It is an immutable
// value; WithLedger returns a copy bound to a different ledger.
type Client struct {
	submitter program.Submitter
}

func NewClient(submitter program.Submitter) Client {
	return Client{submitter: submitter}
}

// WithLedger returns a copy of the client bound to a different ledger.
func (c Client) WithLedger(ledger program.Ledger) Client {
	return Client{submitter: c.submitter.WithLedger(ledger)}
}

// GetVersion returns the version string published by the swap program.
func (c Client) GetVersion() (string, error) {
	return program.GetVersion(c.submitter.Ledger(), ProgramKey)
}

func (c Client) poolAccounts(payer, mintA, mintB ed25519.PublicKey) (pool, payerTokenA, payerTokenB ed25519.PublicKey, err error) {
	pool, err = GetPoolAddress(mintA, mintB)
	if err == ErrInvalidPair {
		return nil, nil, nil, program.Wrap(err, program.InvalidPair, "pool mints must differ")
	}
	if err != nil {
		return nil, nil, nil, program.Wrap(err, program.Internal, "failed to derive pool address")
	}

	payerTokenA, err = token.GetAssociatedAccount(payer, mintA)
	if err != nil {
		return nil, nil, nil, program.Wrap(err, program.InvalidTokenAccount, "failed to derive token account")
	}
	payerTokenB, err = token.GetAssociatedAccount(payer, mintB)
	if err != nil {
		return nil, nil, nil, program.Wrap(err, program.InvalidTokenAccount, "failed to derive token account")
	}
	return pool, payerTokenA, payerTokenB, nil
}

// Swap trades amountIn of mintA for mintB, enforcing minAmountOut. Slippage
// and liquidity are pre-checked against the current pool state when the pool
// account exists; the program re-checks on-chain.
func (c Client) Swap(payer, mintA, mintB ed25519.PublicKey, amountIn, minAmountOut uint64) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":  payer,
		"mint a": mintA,
		"mint b": mintB,
	}); err != nil {
		return solana.Signature{}, err
	}
	if amountIn == 0 {
		return solana.Signature{}, program.NewError(program.InvalidInput, "amount must be positive")
	}

	pool, payerTokenA, payerTokenB, err := c.poolAccounts(payer, mintA, mintB)
	if err != nil {
		return solana.Signature{}, err
	}

	if state, stateErr := c.GetPoolState(mintA, mintB); stateErr == nil {
		reserveIn, reserveOut := state.ReserveA, state.ReserveB
		if string(mintA) != string(state.MintA) {
			reserveIn, reserveOut = reserveOut, reserveIn
		}
		if reserveIn == 0 || reserveOut == 0 {
			return solana.Signature{}, program.NewError(program.InsufficientLiquidity, "pool has no liquidity")
		}
		expectedOut := constantProductOut(reserveIn, reserveOut, amountIn)
		if expectedOut < minAmountOut {
			return solana.Signature{}, program.Errorf(program.ExcessiveSlippage, "expected out %d below minimum %d", expectedOut, minAmountOut)
		}
	}

	return c.submitter.Submit(payer, "", Swap(payer, pool, payerTokenA, payerTokenB, amountIn, minAmountOut))
}

// AddLiquidity deposits amountA of mintA and amountB of mintB into the pool.
func (c Client) AddLiquidity(payer, mintA, mintB ed25519.PublicKey, amountA, amountB uint64) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":  payer,
		"mint a": mintA,
		"mint b": mintB,
	}); err != nil {
		return solana.Signature{}, err
	}
	if amountA == 0 || amountB == 0 {
		return solana.Signature{}, program.NewError(program.InvalidInput, "amounts must be positive")
	}

	pool, payerTokenA, payerTokenB, err := c.poolAccounts(payer, mintA, mintB)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.submitter.Submit(payer, "", AddLiquidity(payer, pool, payerTokenA, payerTokenB, amountA, amountB))
}

// RemoveLiquidity burns lpAmount of the payer's LP tokens.
func (c Client) RemoveLiquidity(payer, mintA, mintB ed25519.PublicKey, lpAmount uint64) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":  payer,
		"mint a": mintA,
		"mint b": mintB,
	}); err != nil {
		return solana.Signature{}, err
	}
	if lpAmount == 0 {
		return solana.Signature{}, program.NewError(program.InvalidInput, "amount must be positive")
	}

	pool, payerTokenA, payerTokenB, err := c.poolAccounts(payer, mintA, mintB)
	if err != nil {
		return solana.Signature{}, err
	}

	if state, stateErr := c.GetPoolState(mintA, mintB); stateErr == nil {
		if lpAmount > state.LPSupply {
			return solana.Signature{}, program.Errorf(program.InsufficientLiquidity, "lp amount %d exceeds supply %d", lpAmount, state.LPSupply)
		}
	}

	return c.submitter.Submit(payer, "", RemoveLiquidity(payer, pool, payerTokenA, payerTokenB, lpAmount))
}

// GetPoolState loads and decodes the pool account for a pair of mints.
func (c Client) GetPoolState(mintA, mintB ed25519.PublicKey) (PoolState, error) {
	var state PoolState

	pool, err := GetPoolAddress(mintA, mintB)
	if err == ErrInvalidPair {
		return state, program.Wrap(err, program.InvalidPair, "pool mints must differ")
	}
	if err != nil {
		return state, program.Wrap(err, program.Internal, "failed to derive pool address")
	}

	info, err := c.submitter.Ledger().GetAccountInfo(pool, c.submitter.Commitment())
	if err != nil {
		return state, program.FromLedgerError(err, "failed to load pool account")
	}

	if err := state.Unmarshal(info.Data); err != nil {
		return state, program.Wrap(err, program.InvalidAccount, "malformed pool account")
	}
	return state, nil
}

// GetSpotPrice returns the current price of mintA denominated in mintB.
func (c Client) GetSpotPrice(mintA, mintB ed25519.PublicKey) (float64, error) {
	state, err := c.GetPoolState(mintA, mintB)
	if err != nil {
		return 0, err
	}

	reserveA, reserveB := state.ReserveA, state.ReserveB
	if string(mintA) != string(state.MintA) {
		reserveA, reserveB = reserveB, reserveA
	}
	if reserveA == 0 {
		return 0, program.NewError(program.InsufficientLiquidity, "pool has no liquidity")
	}
	return float64(reserveB) / float64(reserveA), nil
}

// constantProductOut computes the output of an x*y=k swap with no fee.
func constantProductOut(reserveIn, reserveOut, amountIn uint64) uint64 {
	return uint64(float64(reserveOut) * float64(amountIn) / float64(reserveIn+amountIn))
}
