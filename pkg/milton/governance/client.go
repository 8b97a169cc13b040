package governance

import (
	"crypto/ed25519"
	"crypto/rand"
	"time"

	"github.com/milton-protocol/milton-go/pkg/milton/program"
	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/token"
)

// ProposalIDGenerator mints the address of a new proposal account. The
// default generator draws fresh ed25519 keys; tests inject deterministic
// ones.
type ProposalIDGenerator func() (ed25519.PublicKey, error)

func randomProposalID() (ed25519.PublicKey, error) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	return pub, err
}

// Client is the high level interface to the governance program. It is an
// immutable value; WithLedger returns a copy bound to a different ledger.
type Client struct {
	submitter  program.Submitter
	mint       ed25519.PublicKey
	generateID ProposalIDGenerator
}

type ClientOption func(*Client)

// WithProposalIDGenerator overrides how new proposal addresses are minted.
func WithProposalIDGenerator(g ProposalIDGenerator) ClientOption {
	return func(c *Client) {
		c.generateID = g
	}
}

// NewClient returns a governance client. Voting power is read from the
// voter's associated account for the governance mint.
func NewClient(submitter program.Submitter, mint ed25519.PublicKey, opts ...ClientOption) Client {
	c := Client{
		submitter:  submitter,
		mint:       mint,
		generateID: randomProposalID,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLedger returns a copy of the client bound to a different ledger.
func (c Client) WithLedger(ledger program.Ledger) Client {
	c.submitter = c.submitter.WithLedger(ledger)
	return c
}

// GetVersion returns the version string published by the governance program.
func (c Client) GetVersion() (string, error) {
	return program.GetVersion(c.submitter.Ledger(), ProgramKey)
}

// CreateProposal creates a proposal whose voting window closes votingPeriod
// from now, returning the minted proposal id and the submission signature.
func (c Client) CreateProposal(payer ed25519.PublicKey, title, description string, numInstructions uint32, votingPeriod time.Duration) (ed25519.PublicKey, solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":       payer,
		"title":       title,
		"description": description,
	}); err != nil {
		return nil, solana.Signature{}, err
	}
	if votingPeriod <= 0 {
		return nil, solana.Signature{}, program.NewError(program.InvalidPeriod, "voting period must be positive")
	}

	proposal, err := c.generateID()
	if err != nil {
		return nil, solana.Signature{}, program.Wrap(err, program.ProposalCreationFailed, "failed to mint proposal id")
	}

	endTime := uint64(time.Now().Add(votingPeriod).Unix())
	ixn, err := CreateProposal(payer, proposal, title, description, endTime, numInstructions)
	if err != nil {
		return nil, solana.Signature{}, program.Wrap(err, program.InvalidInput, "invalid proposal fields")
	}

	sig, err := c.submitter.Submit(payer, "", ixn)
	if err != nil {
		return nil, solana.Signature{}, err
	}
	return proposal, sig, nil
}

// CastVote records the payer's vote on a proposal.
func (c Client) CastVote(payer, proposal ed25519.PublicKey, inFavor bool) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":    payer,
		"proposal": proposal,
	}); err != nil {
		return solana.Signature{}, err
	}

	return c.submitter.Submit(payer, "", CastVote(payer, proposal, inFavor))
}

// ExecuteProposal executes a passed proposal.
func (c Client) ExecuteProposal(payer, proposal ed25519.PublicKey) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":    payer,
		"proposal": proposal,
	}); err != nil {
		return solana.Signature{}, err
	}

	state, err := c.GetProposal(proposal)
	if err != nil {
		return solana.Signature{}, err
	}
	if state.Status == ProposalStatusExecuted {
		return solana.Signature{}, program.NewError(program.ProposalAlreadyExecuted, "proposal already executed")
	}

	return c.submitter.Submit(payer, "", ExecuteProposal(payer, proposal))
}

// GetProposal loads and decodes a proposal account.
func (c Client) GetProposal(proposal ed25519.PublicKey) (Proposal, error) {
	var state Proposal

	info, err := c.submitter.Ledger().GetAccountInfo(proposal, c.submitter.Commitment())
	if err != nil {
		return state, program.FromLedgerError(err, "failed to load proposal account")
	}

	if err := state.Unmarshal(info.Data); err != nil {
		return state, program.Wrap(err, program.InvalidAccount, "malformed proposal account")
	}
	return state, nil
}

// ProposalEntry pairs a proposal's id with its decoded state.
type ProposalEntry struct {
	ID       ed25519.PublicKey
	Proposal Proposal
}

// GetActiveProposals scans the governance program's accounts for proposals
// whose status is still active.
func (c Client) GetActiveProposals() ([]ProposalEntry, error) {
	accounts, _, err := c.submitter.Ledger().GetFilteredProgramAccounts(
		ProgramKey,
		ProposalStatusOffset,
		[]byte{byte(ProposalStatusActive)},
	)
	if err != nil {
		return nil, program.FromLedgerError(err, "failed to scan proposal accounts")
	}

	entries := make([]ProposalEntry, 0, len(accounts))
	for _, account := range accounts {
		var state Proposal
		if err := state.Unmarshal(account.Data); err != nil {
			// non-proposal account owned by the program
			continue
		}
		entries = append(entries, ProposalEntry{ID: account.PublicKey, Proposal: state})
	}
	return entries, nil
}

// GetVoterInfo loads the voter's record for a proposal. A missing record
// means the voter has not voted.
func (c Client) GetVoterInfo(voter, proposal ed25519.PublicKey) (VoterRecord, error) {
	var record VoterRecord

	address, err := GetVoterRecordAddress(voter, proposal)
	if err != nil {
		return record, program.Wrap(err, program.Internal, "failed to derive voter record address")
	}

	info, err := c.submitter.Ledger().GetAccountInfo(address, c.submitter.Commitment())
	if err != nil {
		if program.KindOf(program.FromLedgerError(err, "")) == program.AccountNotFound {
			return record, nil
		}
		return record, program.FromLedgerError(err, "failed to load voter record")
	}

	if err := record.Unmarshal(info.Data); err != nil {
		return record, program.Wrap(err, program.InvalidAccount, "malformed voter record")
	}
	return record, nil
}

// GetVotingPower returns the voter's balance of the governance mint.
func (c Client) GetVotingPower(voter ed25519.PublicKey) (uint64, error) {
	tokenAccount, err := token.GetAssociatedAccount(voter, c.mint)
	if err != nil {
		return 0, program.Wrap(err, program.InvalidTokenAccount, "failed to derive voter token account")
	}

	amount, _, err := c.submitter.Ledger().GetTokenAccountBalance(tokenAccount)
	if err != nil {
		if program.KindOf(program.FromLedgerError(err, "")) == program.AccountNotFound {
			return 0, nil
		}
		return 0, program.FromLedgerError(err, "failed to load voter token balance")
	}
	return amount, nil
}
