package program

import (
	"crypto/ed25519"

	"github.com/sirupsen/logrus"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/computebudget"
	"github.com/milton-protocol/milton-go/pkg/solana/memo"
)

// FeeConfig controls the compute budget instructions prepended to every
// submitted transaction. A zero field disables the corresponding instruction.
type FeeConfig struct {
	ComputeUnitLimit uint32
	ComputeUnitPrice uint64
}

// Submitter runs the shared submit path for all program clients: assemble,
// fetch a blockhash, sign via the injected capability, submit, and block
// until the requested commitment is reached.
//
// Submitter is an immutable value; WithLedger returns a copy bound to a
// different ledger.
type Submitter struct {
	ledger     Ledger
	sign       SignFunc
	fees       FeeConfig
	commitment solana.Commitment
	log        *logrus.Entry
}

type SubmitterOption func(*Submitter)

// WithFees attaches compute budget instructions to every transaction.
func WithFees(fees FeeConfig) SubmitterOption {
	return func(s *Submitter) {
		s.fees = fees
	}
}

// WithCommitment sets the commitment level submissions are confirmed at.
// The default is confirmed.
func WithCommitment(commitment solana.Commitment) SubmitterOption {
	return func(s *Submitter) {
		s.commitment = commitment
	}
}

func NewSubmitter(ledger Ledger, sign SignFunc, opts ...SubmitterOption) Submitter {
	s := Submitter{
		ledger:     ledger,
		sign:       sign,
		commitment: solana.CommitmentConfirmed,
		log:        logrus.StandardLogger().WithField("type", "milton/submitter"),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLedger returns a copy of the submitter bound to a different ledger.
func (s Submitter) WithLedger(ledger Ledger) Submitter {
	s.ledger = ledger
	return s
}

// Ledger returns the ledger the submitter is bound to.
func (s Submitter) Ledger() Ledger {
	return s.ledger
}

// Commitment returns the commitment level submissions are confirmed at.
func (s Submitter) Commitment() solana.Commitment {
	return s.commitment
}

// Submit assembles the instructions into a transaction paid by payer, signs
// it and submits it, blocking until the configured commitment is reached.
// A non-empty note is attached as a trailing memo instruction.
func (s Submitter) Submit(payer ed25519.PublicKey, note string, instructions ...solana.Instruction) (solana.Signature, error) {
	if len(instructions) == 0 {
		return solana.Signature{}, NewError(InvalidInstruction, "no instructions to submit")
	}

	var ixns []solana.Instruction
	if s.fees.ComputeUnitLimit > 0 {
		ixns = append(ixns, computebudget.SetComputeUnitLimit(s.fees.ComputeUnitLimit))
	}
	if s.fees.ComputeUnitPrice > 0 {
		ixns = append(ixns, computebudget.SetComputeUnitPrice(s.fees.ComputeUnitPrice))
	}
	ixns = append(ixns, instructions...)
	if note != "" {
		ixns = append(ixns, memo.Instruction(note))
	}

	txn := solana.NewTransaction(payer, ixns...)

	blockhash, err := s.ledger.GetLatestBlockhash()
	if err != nil {
		return solana.Signature{}, Wrap(err, NetworkError, "failed to get latest blockhash")
	}
	txn.SetBlockhash(blockhash)

	if err := s.sign(&txn); err != nil {
		return solana.Signature{}, Wrap(err, SignatureRejected, "failed to sign transaction")
	}

	sig, err := s.ledger.SubmitTransaction(txn, s.commitment)
	if err != nil {
		return sig, FromLedgerError(err, "failed to submit transaction")
	}

	status, err := s.ledger.GetSignatureStatus(sig, s.commitment)
	if err != nil {
		return sig, FromLedgerError(err, "failed to confirm transaction")
	}
	if status != nil && status.ErrorResult != nil {
		return sig, FromLedgerError(status.ErrorResult, "transaction failed")
	}

	s.log.WithField("signature", sig).Trace("transaction confirmed")

	return sig, nil
}
