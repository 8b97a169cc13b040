package payment

import (
	"crypto/ed25519"

	"github.com/google/uuid"

	"github.com/milton-protocol/milton-go/pkg/milton/program"
	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
	"github.com/milton-protocol/milton-go/pkg/solana/token"
)

// Client is the high level interface to the payment program. It is an
// immutable value; WithLedger returns a copy bound to a different ledger.
type Client struct {
	submitter program.Submitter
	mint      ed25519.PublicKey
}

// NewClient returns a payment client operating on the given payment mint.
func NewClient(submitter program.Submitter, mint ed25519.PublicKey) Client {
	return Client{submitter: submitter, mint: mint}
}

// WithLedger returns a copy of the client bound to a different ledger.
func (c Client) WithLedger(ledger program.Ledger) Client {
	return Client{submitter: c.submitter.WithLedger(ledger), mint: c.mint}
}

// GetVersion returns the version string published by the payment program.
func (c Client) GetVersion() (string, error) {
	return program.GetVersion(c.submitter.Ledger(), ProgramKey)
}

func (c Client) paymentAccounts(payer, recipient ed25519.PublicKey) (payerTokenAccount, recipientTokenAccount, paymentAddress ed25519.PublicKey, err error) {
	payerTokenAccount, err = token.GetAssociatedAccount(payer, c.mint)
	if err != nil {
		return nil, nil, nil, program.Wrap(err, program.InvalidTokenAccount, "failed to derive payer token account")
	}
	recipientTokenAccount, err = token.GetAssociatedAccount(recipient, c.mint)
	if err != nil {
		return nil, nil, nil, program.Wrap(err, program.InvalidTokenAccount, "failed to derive recipient token account")
	}
	paymentAddress, err = GetPaymentAddress(payer, recipient)
	if err != nil {
		return nil, nil, nil, program.Wrap(err, program.Internal, "failed to derive payment address")
	}
	return payerTokenAccount, recipientTokenAccount, paymentAddress, nil
}

// ProcessPayment pays amount to the recipient. The note travels in a trailing
// memo instruction; an empty note gets a generated reference id so every
// payment is traceable off-chain.
func (c Client) ProcessPayment(payer, recipient ed25519.PublicKey, amount uint64, note string) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":     payer,
		"recipient": recipient,
		"mint":      c.mint,
	}); err != nil {
		return solana.Signature{}, err
	}
	if amount == 0 {
		return solana.Signature{}, program.NewError(program.InvalidInput, "amount must be positive")
	}

	payerTokenAccount, recipientTokenAccount, paymentAddress, err := c.paymentAccounts(payer, recipient)
	if err != nil {
		return solana.Signature{}, err
	}

	if note == "" {
		note = uuid.New().String()
	}

	return c.submitter.Submit(
		payer,
		note,
		ProcessPayment(payer, recipient, payerTokenAccount, recipientTokenAccount, paymentAddress, c.mint, amount),
	)
}

// RefundPayment returns amount of an earlier payment to its payer. The payer
// argument is the original payer receiving the refund; the recipient signs.
func (c Client) RefundPayment(payer, recipient ed25519.PublicKey, amount uint64) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":     payer,
		"recipient": recipient,
		"mint":      c.mint,
	}); err != nil {
		return solana.Signature{}, err
	}
	if amount == 0 {
		return solana.Signature{}, program.NewError(program.InvalidInput, "amount must be positive")
	}

	payerTokenAccount, recipientTokenAccount, paymentAddress, err := c.paymentAccounts(payer, recipient)
	if err != nil {
		return solana.Signature{}, err
	}

	return c.submitter.Submit(
		payer,
		"",
		RefundPayment(payer, recipient, payerTokenAccount, recipientTokenAccount, paymentAddress, c.mint, amount),
	)
}

// GetPaymentInfo loads and decodes the payment account for a payer/recipient
// pair.
func (c Client) GetPaymentInfo(payer, recipient ed25519.PublicKey) (PaymentInfo, error) {
	var info PaymentInfo

	paymentAddress, err := GetPaymentAddress(payer, recipient)
	if err != nil {
		return info, program.Wrap(err, program.Internal, "failed to derive payment address")
	}

	accountInfo, err := c.submitter.Ledger().GetAccountInfo(paymentAddress, c.submitter.Commitment())
	if err != nil {
		return info, program.FromLedgerError(err, "failed to load payment account")
	}

	if err := info.Unmarshal(accountInfo.Data); err != nil {
		return info, program.Wrap(err, program.InvalidAccount, "malformed payment account")
	}
	return info, nil
}

// GetPaymentHistory scans the payment program's accounts for payments made
// by the payer.
func (c Client) GetPaymentHistory(payer ed25519.PublicKey) ([]PaymentInfo, error) {
	accounts, _, err := c.submitter.Ledger().GetFilteredProgramAccounts(ProgramKey, 0, payer)
	if err != nil {
		return nil, program.FromLedgerError(err, "failed to scan payment accounts")
	}

	history := make([]PaymentInfo, 0, len(accounts))
	for _, account := range accounts {
		var info PaymentInfo
		if err := info.Unmarshal(account.Data); err != nil {
			// non-payment account owned by the program
			continue
		}
		history = append(history, info)
	}
	return history, nil
}

// GetTotalVolume reads the program-wide volume counter.
func (c Client) GetTotalVolume() (uint64, error) {
	address, err := GetTotalVolumeAddress()
	if err != nil {
		return 0, program.Wrap(err, program.Internal, "failed to derive total volume address")
	}

	accountInfo, err := c.submitter.Ledger().GetAccountInfo(address, c.submitter.Commitment())
	if err != nil {
		return 0, program.FromLedgerError(err, "failed to load total volume account")
	}
	if len(accountInfo.Data) < 8 {
		return 0, program.Errorf(program.InvalidAccount, "total volume account too small: %d bytes", len(accountInfo.Data))
	}

	var total uint64
	var offset int
	binary.GetUint64(accountInfo.Data, &total, &offset)
	return total, nil
}
