package milton

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milton-protocol/milton-go/pkg/milton/blink"
	"github.com/milton-protocol/milton-go/pkg/milton/governance"
	"github.com/milton-protocol/milton-go/pkg/milton/nft"
	"github.com/milton-protocol/milton-go/pkg/milton/payment"
	"github.com/milton-protocol/milton-go/pkg/milton/program"
	"github.com/milton-protocol/milton-go/pkg/milton/programtest"
	"github.com/milton-protocol/milton-go/pkg/milton/staking"
	"github.com/milton-protocol/milton-go/pkg/milton/swap"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
)

func testBundle(t *testing.T) (*Client, *programtest.Ledger, ed25519.PublicKey) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	ledger := programtest.NewLedger()
	client, err := NewClient(Config{Endpoint: "http://localhost:8899"}, ledger, program.LocalSigner(priv))
	require.NoError(t, err)
	return client, ledger, pub
}

func TestConfig_Validate(t *testing.T) {
	assert.Error(t, Config{}.Validate())
	assert.NoError(t, Config{Endpoint: "http://localhost:8899"}.Validate())
	assert.Error(t, Config{Endpoint: "x", Commitment: "instant"}.Validate())
	assert.Error(t, Config{Endpoint: "x", Mint: "not-base58!"}.Validate())
	assert.NoError(t, Config{Endpoint: "x", Commitment: "finalized"}.Validate())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, defaultEndpoint, cfg.Endpoint)
	assert.Equal(t, defaultCommitment, cfg.Commitment)
	assert.EqualValues(t, defaultDecimals, cfg.Decimals)
	assert.Equal(t, defaultSubmitTimeout, cfg.SubmitTimeout)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("MILTON_ENDPOINT", "http://localhost:8899")
	t.Setenv("MILTON_COMMITMENT", "finalized")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8899", cfg.Endpoint)
	assert.Equal(t, "finalized", cfg.Commitment)
}

func TestClient_CheckProgramAccounts(t *testing.T) {
	client, ledger, _ := testBundle(t)

	missing, err := client.CheckProgramAccounts()
	require.NoError(t, err)
	assert.Len(t, missing, 6)

	for _, key := range []ed25519.PublicKey{
		blink.ProgramKey,
		staking.ProgramKey,
		governance.ProgramKey,
		payment.ProgramKey,
		swap.ProgramKey,
		nft.ProgramKey,
	} {
		ledger.SetAccount(key, key, make([]byte, 64))
	}

	missing, err = client.CheckProgramAccounts()
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestClient_ProgramVersions(t *testing.T) {
	client, ledger, _ := testBundle(t)

	versions, err := client.ProgramVersions()
	require.NoError(t, err)
	assert.Empty(t, versions)

	data := make([]byte, 32)
	var offset int
	require.NoError(t, binary.PutFixedString(data, "1.4.2", 32, &offset))
	ledger.SetAccount(staking.ProgramKey, staking.ProgramKey, data)

	versions, err = client.ProgramVersions()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"staking": "1.4.2"}, versions)
}

func TestClient_WithLedger(t *testing.T) {
	client, _, payer := testBundle(t)

	other := programtest.NewLedger()
	rebound := client.WithLedger(other)

	_, err := rebound.Blink.CreateLink(payer, 10, 1)
	require.NoError(t, err)
	assert.Len(t, other.Submitted(), 1)
	assert.Same(t, other, rebound.Ledger().(*programtest.Ledger))
}
