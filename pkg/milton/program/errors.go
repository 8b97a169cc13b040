// Package program provides the shared plumbing for Milton program clients:
// the error taxonomy, parameter validation, the ledger interface and the
// transaction submit/confirm pipeline.
package program

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/milton-protocol/milton-go/pkg/solana"
)

// ErrorKind classifies every failure a program client can surface. The set
// is closed; downstream code switches on kinds rather than matching message
// strings.
type ErrorKind int

const (
	Unknown ErrorKind = iota
	Internal
	InvalidInput
	Unauthorized
	TransactionFailed
	InsufficientFunds
	InvalidInstruction
	AccountNotFound
	InvalidAccount
	AccountAlreadyExists
	InvalidTokenAccount
	InsufficientTokenBalance
	InvalidMetadata
	MintFailed
	TransferFailed
	PoolFull
	InvalidPeriod
	UnstakeBeforeLock
	ProposalCreationFailed
	ProposalAlreadyExecuted
	VotingPeriodEnded
	InsufficientVotingPower
	InsufficientLiquidity
	ExcessiveSlippage
	InvalidPair
	APIRequestFailed
	RateLimitExceeded
	WalletConnectionFailed
	SignatureRejected
	NetworkError
	RemoteProcedureError
)

var kindNames = map[ErrorKind]string{
	Unknown:                  "unknown",
	Internal:                 "internal",
	InvalidInput:             "invalid input",
	Unauthorized:             "unauthorized",
	TransactionFailed:        "transaction failed",
	InsufficientFunds:        "insufficient funds",
	InvalidInstruction:       "invalid instruction",
	AccountNotFound:          "account not found",
	InvalidAccount:           "invalid account",
	AccountAlreadyExists:     "account already exists",
	InvalidTokenAccount:      "invalid token account",
	InsufficientTokenBalance: "insufficient token balance",
	InvalidMetadata:          "invalid metadata",
	MintFailed:               "mint failed",
	TransferFailed:           "transfer failed",
	PoolFull:                 "pool full",
	InvalidPeriod:            "invalid period",
	UnstakeBeforeLock:        "unstake before lock expiry",
	ProposalCreationFailed:   "proposal creation failed",
	ProposalAlreadyExecuted:  "proposal already executed",
	VotingPeriodEnded:        "voting period ended",
	InsufficientVotingPower:  "insufficient voting power",
	InsufficientLiquidity:    "insufficient liquidity",
	ExcessiveSlippage:        "excessive slippage",
	InvalidPair:              "invalid pair",
	APIRequestFailed:         "api request failed",
	RateLimitExceeded:        "rate limit exceeded",
	WalletConnectionFailed:   "wallet connection failed",
	SignatureRejected:        "signature rejected",
	NetworkError:             "network error",
	RemoteProcedureError:     "remote procedure error",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// StatusCode returns the HTTP-style status class for the kind.
func (k ErrorKind) StatusCode() int {
	switch k {
	case InvalidInput, InvalidInstruction, InvalidAccount, InvalidTokenAccount,
		InvalidMetadata, InvalidPeriod, InvalidPair, ExcessiveSlippage,
		InsufficientFunds, InsufficientTokenBalance, InsufficientVotingPower,
		InsufficientLiquidity, UnstakeBeforeLock, VotingPeriodEnded,
		ProposalAlreadyExecuted, PoolFull:
		return 400
	case Unauthorized, SignatureRejected:
		return 401
	case AccountNotFound:
		return 404
	case AccountAlreadyExists:
		return 409
	case RateLimitExceeded:
		return 429
	default:
		return 500
	}
}

// Error is the structured error surfaced by every program client operation.
type Error struct {
	Kind       ErrorKind
	Message    string
	StatusCode int
	Data       map[string]interface{}

	cause error
}

// NewError returns an Error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{
		Kind:       kind,
		Message:    message,
		StatusCode: kind.StatusCode(),
	}
}

// Errorf returns an Error of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return NewError(kind, fmt.Sprintf(format, args...))
}

// Wrap attaches a cause to a new Error of the given kind. The cause's
// message is retained under Data["cause"] so it survives serialization.
func Wrap(cause error, kind ErrorKind, message string) *Error {
	if cause == nil {
		return nil
	}

	e := NewError(kind, message)
	e.cause = cause
	return e.WithData("cause", cause.Error())
}

// Wrapf is Wrap with a formatted message.
func Wrapf(cause error, kind ErrorKind, format string, args ...interface{}) *Error {
	return Wrap(cause, kind, fmt.Sprintf(format, args...))
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Cause supports github.com/pkg/errors unwrapping.
func (e *Error) Cause() error {
	return e.cause
}

// WithData returns e with the key/value pair added to its Data map.
func (e *Error) WithData(key string, value interface{}) *Error {
	if e.Data == nil {
		e.Data = make(map[string]interface{})
	}
	e.Data[key] = value
	return e
}

// IsKind reports whether err is (or wraps) an Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or Unknown when err carries no kind.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// FromLedgerError maps transport and execution errors surfaced by the ledger
// client into the taxonomy. Errors that already carry a kind pass through.
func FromLedgerError(err error, message string) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	kind := TransactionFailed
	switch {
	case errors.Is(err, solana.ErrNoAccountInfo):
		kind = AccountNotFound
	case errors.Is(err, solana.ErrNoBalance):
		kind = AccountNotFound
	case errors.Is(err, solana.ErrSignatureNotFound):
		kind = TransactionFailed
	}

	var txErr *solana.TransactionError
	if errors.As(err, &txErr) {
		kind = kindOfTransactionError(txErr)
	}
	var insErr *solana.InstructionError
	if errors.As(err, &insErr) {
		kind = kindOfInstructionError(insErr)
	}

	return Wrap(err, kind, message)
}

func kindOfTransactionError(err *solana.TransactionError) ErrorKind {
	switch err.ErrorKey() {
	case solana.TransactionErrorAccountNotFound, solana.TransactionErrorProgramAccountNotFound:
		return AccountNotFound
	case solana.TransactionErrorInsufficientFundsForFee:
		return InsufficientFunds
	case solana.TransactionErrorSignatureFailure:
		return SignatureRejected
	case solana.TransactionErrorInstructionError:
		if ie := err.InstructionError(); ie != nil {
			return kindOfInstructionError(ie)
		}
		return TransactionFailed
	default:
		return TransactionFailed
	}
}

func kindOfInstructionError(err *solana.InstructionError) ErrorKind {
	switch err.ErrorKey() {
	case solana.InstructionErrorInsufficientFunds:
		return InsufficientFunds
	case solana.InstructionErrorInvalidInstructionData, solana.InstructionErrorInvalidArgument:
		return InvalidInstruction
	case solana.InstructionErrorInvalidAccountData, solana.InstructionErrorUninitializedAccount:
		return InvalidAccount
	case solana.InstructionErrorAccountAlreadyInitialized:
		return AccountAlreadyExists
	case solana.InstructionErrorMissingRequiredSignature:
		return Unauthorized
	default:
		return TransactionFailed
	}
}
