package staking

import (
	"crypto/ed25519"

	"github.com/milton-protocol/milton-go/pkg/milton/program"
	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
	"github.com/milton-protocol/milton-go/pkg/solana/token"
)

// Client is the high level interface to the staking program. It is an
// immutable value; WithLedger returns a copy bound to a different ledger.
type Client struct {
	submitter program.Submitter
	mint      ed25519.PublicKey
}

// NewClient returns a staking client operating on the given staking mint.
func NewClient(submitter program.Submitter, mint ed25519.PublicKey) Client {
	return Client{submitter: submitter, mint: mint}
}

// WithLedger returns a copy of the client bound to a different ledger.
func (c Client) WithLedger(ledger program.Ledger) Client {
	return Client{submitter: c.submitter.WithLedger(ledger), mint: c.mint}
}

// GetVersion returns the version string published by the staking program.
func (c Client) GetVersion() (string, error) {
	return program.GetVersion(c.submitter.Ledger(), ProgramKey)
}

func (c Client) stakeInstructionAccounts(staker ed25519.PublicKey) (tokenAccount, stakeAddress ed25519.PublicKey, err error) {
	tokenAccount, err = token.GetAssociatedAccount(staker, c.mint)
	if err != nil {
		return nil, nil, program.Wrap(err, program.InvalidTokenAccount, "failed to derive staker token account")
	}
	stakeAddress, err = GetStakeAddress(staker)
	if err != nil {
		return nil, nil, program.Wrap(err, program.Internal, "failed to derive stake address")
	}
	return tokenAccount, stakeAddress, nil
}

// Stake locks amount of the staking mint.
func (c Client) Stake(staker ed25519.PublicKey, amount uint64) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"staker": staker,
		"mint":   c.mint,
	}); err != nil {
		return solana.Signature{}, err
	}
	if amount == 0 {
		return solana.Signature{}, program.NewError(program.InvalidInput, "amount must be positive")
	}

	tokenAccount, stakeAddress, err := c.stakeInstructionAccounts(staker)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.submitter.Submit(staker, "", Stake(staker, tokenAccount, stakeAddress, c.mint, amount))
}

// Unstake releases amount of the staking mint. Amounts exceeding the staked
// balance are rejected by the program on-chain.
func (c Client) Unstake(staker ed25519.PublicKey, amount uint64) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"staker": staker,
		"mint":   c.mint,
	}); err != nil {
		return solana.Signature{}, err
	}
	if amount == 0 {
		return solana.Signature{}, program.NewError(program.InvalidInput, "amount must be positive")
	}

	tokenAccount, stakeAddress, err := c.stakeInstructionAccounts(staker)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.submitter.Submit(staker, "", Unstake(staker, tokenAccount, stakeAddress, c.mint, amount))
}

// ClaimRewards pays out accrued rewards.
func (c Client) ClaimRewards(staker ed25519.PublicKey) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"staker": staker,
		"mint":   c.mint,
	}); err != nil {
		return solana.Signature{}, err
	}

	tokenAccount, stakeAddress, err := c.stakeInstructionAccounts(staker)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.submitter.Submit(staker, "", ClaimRewards(staker, tokenAccount, stakeAddress, c.mint))
}

// GetStakeInfo loads and decodes the staker's stake account.
func (c Client) GetStakeInfo(staker ed25519.PublicKey) (StakeInfo, error) {
	var info StakeInfo

	stakeAddress, err := GetStakeAddress(staker)
	if err != nil {
		return info, program.Wrap(err, program.Internal, "failed to derive stake address")
	}

	accountInfo, err := c.submitter.Ledger().GetAccountInfo(stakeAddress, c.submitter.Commitment())
	if err != nil {
		return info, program.FromLedgerError(err, "failed to load stake account")
	}

	if err := info.Unmarshal(accountInfo.Data); err != nil {
		return info, program.Wrap(err, program.InvalidAccount, "malformed stake account")
	}
	return info, nil
}

// GetTotalStaked reads the program-wide total staked counter.
func (c Client) GetTotalStaked() (uint64, error) {
	address, err := GetTotalStakedAddress()
	if err != nil {
		return 0, program.Wrap(err, program.Internal, "failed to derive total staked address")
	}

	accountInfo, err := c.submitter.Ledger().GetAccountInfo(address, c.submitter.Commitment())
	if err != nil {
		return 0, program.FromLedgerError(err, "failed to load total staked account")
	}
	if len(accountInfo.Data) < 8 {
		return 0, program.Errorf(program.InvalidAccount, "total staked account too small: %d bytes", len(accountInfo.Data))
	}

	var total uint64
	var offset int
	binary.GetUint64(accountInfo.Data, &total, &offset)
	return total, nil
}

// GetAPR reads the current annual percentage rate published by the program.
func (c Client) GetAPR() (float64, error) {
	address, err := GetAPRAddress()
	if err != nil {
		return 0, program.Wrap(err, program.Internal, "failed to derive apr address")
	}

	accountInfo, err := c.submitter.Ledger().GetAccountInfo(address, c.submitter.Commitment())
	if err != nil {
		return 0, program.FromLedgerError(err, "failed to load apr account")
	}
	if len(accountInfo.Data) < 8 {
		return 0, program.Errorf(program.InvalidAccount, "apr account too small: %d bytes", len(accountInfo.Data))
	}

	var apr float64
	var offset int
	binary.GetFloat64(accountInfo.Data, &apr, &offset)
	return apr, nil
}
