package solana

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ybbus/jsonrpc"
)

func TestParseTransactionError_String(t *testing.T) {
	txErr, err := ParseTransactionError("AccountInUse")
	require.NoError(t, err)
	require.NotNil(t, txErr)
	assert.Equal(t, TransactionErrorAccountInUse, txErr.ErrorKey())
	assert.Nil(t, txErr.InstructionError())
}

func TestParseTransactionError_InstructionError(t *testing.T) {
	var raw interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"InstructionError":[0,{"Custom":3}]}`), &raw))

	txErr, err := ParseTransactionError(raw)
	require.NoError(t, err)
	require.NotNil(t, txErr)
	assert.Equal(t, TransactionErrorInstructionError, txErr.ErrorKey())

	ixnErr := txErr.InstructionError()
	require.NotNil(t, ixnErr)
	assert.Equal(t, InstructionErrorCustom, ixnErr.ErrorKey())

	custom := ixnErr.CustomError()
	require.NotNil(t, custom)
	assert.Equal(t, CustomError(3), *custom)
}

func TestParseTransactionError_NamedInstructionError(t *testing.T) {
	var raw interface{}
	require.NoError(t, json.Unmarshal([]byte(`{"InstructionError":[2,"InsufficientFunds"]}`), &raw))

	txErr, err := ParseTransactionError(raw)
	require.NoError(t, err)
	require.NotNil(t, txErr)

	ixnErr := txErr.InstructionError()
	require.NotNil(t, ixnErr)
	assert.Equal(t, InstructionErrorInsufficientFunds, ixnErr.ErrorKey())
	assert.Nil(t, ixnErr.CustomError())
}

func TestParseRPCError(t *testing.T) {
	txErr, err := ParseRPCError(nil)
	require.NoError(t, err)
	assert.Nil(t, txErr)

	rpcErr := &jsonrpc.RPCError{
		Code:    -32002,
		Message: "Transaction simulation failed",
		Data: map[string]interface{}{
			"err": "BlockhashNotFound",
		},
	}
	txErr, err = ParseRPCError(rpcErr)
	require.NoError(t, err)
	require.NotNil(t, txErr)
	assert.Equal(t, TransactionErrorBlockhashNotFound, txErr.ErrorKey())
}
