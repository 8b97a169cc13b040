package milton

import (
	"time"

	"github.com/spf13/viper"

	"github.com/milton-protocol/milton-go/pkg/milton/program"
	"github.com/milton-protocol/milton-go/pkg/solana"
)

const (
	envPrefix = "milton"

	configKeyEndpoint          = "endpoint"
	configKeyCommitment        = "commitment"
	configKeyMint              = "mint"
	configKeyDecimals          = "decimals"
	configKeyComputeUnitLimit  = "compute_unit_limit"
	configKeyComputeUnitPrice  = "compute_unit_price"
	configKeySubmitTimeout     = "submit_timeout"
	configKeyBlinkProgram      = "blink_program"
	configKeyStakingProgram    = "staking_program"
	configKeyGovernanceProgram = "governance_program"
	configKeyPaymentProgram    = "payment_program"
	configKeySwapProgram       = "swap_program"
	configKeyNFTProgram        = "nft_program"

	defaultEndpoint      = "https://api.mainnet-beta.solana.com"
	defaultCommitment    = "confirmed"
	defaultDecimals      = 9
	defaultSubmitTimeout = 90 * time.Second
)

// Config is the environment-driven configuration for the bundle client.
// Program address fields override the built-in addresses when set.
type Config struct {
	Endpoint   string
	Commitment string
	Mint       string
	Decimals   uint8

	// Priority fee settings; zero disables the corresponding instruction.
	ComputeUnitLimit uint32
	ComputeUnitPrice uint64

	SubmitTimeout time.Duration

	BlinkProgram      string
	StakingProgram    string
	GovernanceProgram string
	PaymentProgram    string
	SwapProgram       string
	NFTProgram        string
}

// LoadConfig reads configuration from MILTON_* environment variables,
// falling back to mainnet defaults.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault(configKeyEndpoint, defaultEndpoint)
	v.SetDefault(configKeyCommitment, defaultCommitment)
	v.SetDefault(configKeyDecimals, defaultDecimals)
	v.SetDefault(configKeySubmitTimeout, defaultSubmitTimeout)

	cfg := Config{
		Endpoint:          v.GetString(configKeyEndpoint),
		Commitment:        v.GetString(configKeyCommitment),
		Mint:              v.GetString(configKeyMint),
		Decimals:          uint8(v.GetUint(configKeyDecimals)),
		ComputeUnitLimit:  v.GetUint32(configKeyComputeUnitLimit),
		ComputeUnitPrice:  v.GetUint64(configKeyComputeUnitPrice),
		SubmitTimeout:     v.GetDuration(configKeySubmitTimeout),
		BlinkProgram:      v.GetString(configKeyBlinkProgram),
		StakingProgram:    v.GetString(configKeyStakingProgram),
		GovernanceProgram: v.GetString(configKeyGovernanceProgram),
		PaymentProgram:    v.GetString(configKeyPaymentProgram),
		SwapProgram:       v.GetString(configKeySwapProgram),
		NFTProgram:        v.GetString(configKeyNFTProgram),
	}

	return cfg, cfg.Validate()
}

// Validate rejects malformed addresses and unknown commitment levels.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return program.NewError(program.InvalidInput, "endpoint must be set")
	}
	if _, err := c.commitment(); err != nil {
		return err
	}

	addresses := map[string]string{
		"mint":               c.Mint,
		"blink program":      c.BlinkProgram,
		"staking program":    c.StakingProgram,
		"governance program": c.GovernanceProgram,
		"payment program":    c.PaymentProgram,
		"swap program":       c.SwapProgram,
		"nft program":        c.NFTProgram,
	}
	for name, address := range addresses {
		if address != "" && !solana.IsValidPublicKey(address) {
			return program.Errorf(program.InvalidInput, "invalid %s address", name)
		}
	}
	return nil
}

func (c Config) commitment() (solana.Commitment, error) {
	switch c.Commitment {
	case "", "confirmed":
		return solana.CommitmentConfirmed, nil
	case "processed":
		return solana.CommitmentProcessed, nil
	case "finalized":
		return solana.CommitmentFinalized, nil
	default:
		return solana.Commitment{}, program.Errorf(program.InvalidInput, "unknown commitment level %q", c.Commitment)
	}
}
