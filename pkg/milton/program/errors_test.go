package program

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milton-protocol/milton-go/pkg/solana"
)

func TestErrorKind_StatusCode(t *testing.T) {
	badRequest := []ErrorKind{
		InvalidInput,
		InvalidInstruction,
		InvalidAccount,
		InvalidTokenAccount,
		InvalidMetadata,
		InvalidPeriod,
		InvalidPair,
		ExcessiveSlippage,
		InsufficientFunds,
		InsufficientTokenBalance,
		InsufficientVotingPower,
		InsufficientLiquidity,
		UnstakeBeforeLock,
		VotingPeriodEnded,
		ProposalAlreadyExecuted,
		PoolFull,
	}
	for _, kind := range badRequest {
		assert.Equal(t, 400, kind.StatusCode(), kind.String())
	}

	assert.Equal(t, 401, Unauthorized.StatusCode())
	assert.Equal(t, 401, SignatureRejected.StatusCode())
	assert.Equal(t, 404, AccountNotFound.StatusCode())
	assert.Equal(t, 409, AccountAlreadyExists.StatusCode())
	assert.Equal(t, 429, RateLimitExceeded.StatusCode())

	assert.Equal(t, 500, Unknown.StatusCode())
	assert.Equal(t, 500, Internal.StatusCode())
	assert.Equal(t, 500, NetworkError.StatusCode())
	assert.Equal(t, 500, TransactionFailed.StatusCode())
}

func TestError_Message(t *testing.T) {
	e := NewError(InvalidInput, "amount is required")
	assert.Equal(t, "invalid input: amount is required", e.Error())
	assert.Equal(t, 400, e.StatusCode)

	assert.Equal(t, "unauthorized", NewError(Unauthorized, "").Error())
	assert.Equal(t, "pool full: at capacity", Errorf(PoolFull, "at %s", "capacity").Error())
}

func TestError_WrapAndUnwrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, Internal, "nothing"))

	cause := errors.New("connection refused")
	e := Wrap(cause, NetworkError, "failed to reach node")

	assert.Equal(t, cause, e.Unwrap())
	assert.Equal(t, cause, e.Cause())
	assert.True(t, errors.Is(e, cause))
	assert.Equal(t, "connection refused", e.Data["cause"])
}

func TestError_KindOf(t *testing.T) {
	e := NewError(ExcessiveSlippage, "min amount out not met")

	assert.Equal(t, ExcessiveSlippage, KindOf(e))
	assert.True(t, IsKind(e, ExcessiveSlippage))
	assert.False(t, IsKind(e, InsufficientLiquidity))

	// kinds survive further wrapping
	wrapped := errors.Wrap(e, "swap failed")
	assert.Equal(t, ExcessiveSlippage, KindOf(wrapped))

	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
	assert.Equal(t, Unknown, KindOf(nil))
}

func TestError_WithData(t *testing.T) {
	e := NewError(InvalidInput, "bad parameter").
		WithData("param", "amount").
		WithData("value", -1)

	assert.Equal(t, "amount", e.Data["param"])
	assert.Equal(t, -1, e.Data["value"])
}

func TestFromLedgerError(t *testing.T) {
	assert.Nil(t, FromLedgerError(nil, "noop"))

	// errors that already carry a kind pass through untouched
	orig := NewError(VotingPeriodEnded, "too late")
	assert.Equal(t, orig, FromLedgerError(orig, "ignored"))

	e := FromLedgerError(solana.ErrNoAccountInfo, "load stake info")
	assert.Equal(t, AccountNotFound, e.Kind)

	e = FromLedgerError(solana.ErrNoBalance, "load voting power")
	assert.Equal(t, AccountNotFound, e.Kind)

	e = FromLedgerError(errors.New("timeout"), "submit")
	assert.Equal(t, TransactionFailed, e.Kind)
}

func TestFromLedgerError_TransactionErrors(t *testing.T) {
	for _, tc := range []struct {
		key  solana.TransactionErrorKey
		kind ErrorKind
	}{
		{solana.TransactionErrorAccountNotFound, AccountNotFound},
		{solana.TransactionErrorProgramAccountNotFound, AccountNotFound},
		{solana.TransactionErrorInsufficientFundsForFee, InsufficientFunds},
		{solana.TransactionErrorSignatureFailure, SignatureRejected},
		{solana.TransactionErrorBlockhashNotFound, TransactionFailed},
	} {
		txErr := solana.NewTransactionError(tc.key)
		e := FromLedgerError(txErr, "submit")
		assert.Equal(t, tc.kind, e.Kind, string(tc.key))
	}
}

func TestFromLedgerError_InstructionErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		kind ErrorKind
	}{
		{"InsufficientFunds", InsufficientFunds},
		{"InvalidInstructionData", InvalidInstruction},
		{"InvalidArgument", InvalidInstruction},
		{"InvalidAccountData", InvalidAccount},
		{"UninitializedAccount", InvalidAccount},
		{"AccountAlreadyInitialized", AccountAlreadyExists},
		{"MissingRequiredSignature", Unauthorized},
		{"GenericError", TransactionFailed},
	} {
		var raw interface{}
		require.NoError(t, json.Unmarshal([]byte(`{"InstructionError":[0,"`+tc.name+`"]}`), &raw))

		txErr, err := solana.ParseTransactionError(raw)
		require.NoError(t, err)
		require.NotNil(t, txErr)

		e := FromLedgerError(txErr, "submit")
		assert.Equal(t, tc.kind, e.Kind, tc.name)
	}
}
