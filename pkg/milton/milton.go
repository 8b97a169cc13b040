// Package milton bundles the clients for all Milton programs behind a
// single entry point.
package milton

import (
	"crypto/ed25519"

	"github.com/sirupsen/logrus"

	"github.com/milton-protocol/milton-go/pkg/milton/blink"
	"github.com/milton-protocol/milton-go/pkg/milton/governance"
	"github.com/milton-protocol/milton-go/pkg/milton/nft"
	"github.com/milton-protocol/milton-go/pkg/milton/payment"
	"github.com/milton-protocol/milton-go/pkg/milton/program"
	"github.com/milton-protocol/milton-go/pkg/milton/staking"
	"github.com/milton-protocol/milton-go/pkg/milton/swap"
	"github.com/milton-protocol/milton-go/pkg/solana"
)

// Client bundles one façade per Milton program, all sharing a ledger, a
// signing capability and the configured fee and commitment settings.
type Client struct {
	Blink      blink.Client
	Staking    staking.Client
	Governance governance.Client
	Payment    payment.Client
	Swap       swap.Client
	NFT        nft.Client

	ledger program.Ledger
	sign   program.SignFunc
	cfg    Config
	log    *logrus.Entry
}

// NewClient builds the bundle from configuration, a ledger and a signing
// capability. Program address overrides in the configuration are applied
// process-wide.
func NewClient(cfg Config, ledger program.Ledger, sign program.SignFunc) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := applyProgramOverrides(cfg); err != nil {
		return nil, err
	}

	commitment, err := cfg.commitment()
	if err != nil {
		return nil, err
	}

	var mint ed25519.PublicKey
	if cfg.Mint != "" {
		mint, err = solana.PublicKeyFromBase58(cfg.Mint)
		if err != nil {
			return nil, program.Wrap(err, program.InvalidInput, "invalid mint address")
		}
	}

	submitter := program.NewSubmitter(
		ledger,
		sign,
		program.WithCommitment(commitment),
		program.WithFees(program.FeeConfig{
			ComputeUnitLimit: cfg.ComputeUnitLimit,
			ComputeUnitPrice: cfg.ComputeUnitPrice,
		}),
	)

	return &Client{
		Blink:      blink.NewClient(submitter),
		Staking:    staking.NewClient(submitter, mint),
		Governance: governance.NewClient(submitter, mint),
		Payment:    payment.NewClient(submitter, mint),
		Swap:       swap.NewClient(submitter),
		NFT:        nft.NewClient(submitter),

		ledger: ledger,
		sign:   sign,
		cfg:    cfg,
		log:    logrus.StandardLogger().WithField("type", "milton/client"),
	}, nil
}

// Dial connects to the configured RPC endpoint and builds the bundle around
// it.
func Dial(cfg Config, sign program.SignFunc) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewClient(cfg, solana.New(cfg.Endpoint), sign)
}

// WithLedger returns a copy of the bundle with every façade rebound to a
// different ledger.
func (c *Client) WithLedger(ledger program.Ledger) *Client {
	rebound := *c
	rebound.ledger = ledger
	rebound.Blink = c.Blink.WithLedger(ledger)
	rebound.Staking = c.Staking.WithLedger(ledger)
	rebound.Governance = c.Governance.WithLedger(ledger)
	rebound.Payment = c.Payment.WithLedger(ledger)
	rebound.Swap = c.Swap.WithLedger(ledger)
	rebound.NFT = c.NFT.WithLedger(ledger)
	return &rebound
}

// Ledger returns the ledger the bundle is bound to.
func (c *Client) Ledger() program.Ledger {
	return c.ledger
}

func (c *Client) programs() map[string]ed25519.PublicKey {
	return map[string]ed25519.PublicKey{
		"blink":      blink.ProgramKey,
		"staking":    staking.ProgramKey,
		"governance": governance.ProgramKey,
		"payment":    payment.ProgramKey,
		"swap":       swap.ProgramKey,
		"nft":        nft.ProgramKey,
	}
}

// CheckProgramAccounts verifies that every Milton program account exists on
// the ledger, returning the names of the missing ones.
func (c *Client) CheckProgramAccounts() ([]string, error) {
	var missing []string
	for name, key := range c.programs() {
		_, err := c.ledger.GetAccountInfo(key, solana.CommitmentConfirmed)
		if err == solana.ErrNoAccountInfo {
			missing = append(missing, name)
			continue
		}
		if err != nil {
			return nil, program.FromLedgerError(err, "failed to check program account")
		}
	}
	return missing, nil
}

// ProgramVersions returns the version string published by each deployed
// Milton program. Programs without an account are skipped.
func (c *Client) ProgramVersions() (map[string]string, error) {
	versions := make(map[string]string)
	for name, key := range c.programs() {
		version, err := program.GetVersion(c.ledger, key)
		if err != nil {
			if program.KindOf(err) == program.AccountNotFound {
				continue
			}
			return nil, err
		}
		versions[name] = version
	}
	return versions, nil
}

func applyProgramOverrides(cfg Config) error {
	overrides := []struct {
		address string
		target  *ed25519.PublicKey
	}{
		{cfg.BlinkProgram, &blink.ProgramKey},
		{cfg.StakingProgram, &staking.ProgramKey},
		{cfg.GovernanceProgram, &governance.ProgramKey},
		{cfg.PaymentProgram, &payment.ProgramKey},
		{cfg.SwapProgram, &swap.ProgramKey},
		{cfg.NFTProgram, &nft.ProgramKey},
	}

	for _, o := range overrides {
		if o.address == "" {
			continue
		}
		key, err := solana.PublicKeyFromBase58(o.address)
		if err != nil {
			return program.Wrap(err, program.InvalidInput, "invalid program address")
		}
		*o.target = key
	}
	return nil
}
