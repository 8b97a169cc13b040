package blink

import (
	"crypto/ed25519"

	"github.com/milton-protocol/milton-go/pkg/milton/program"
	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/token"
)

// Client is the high level interface to the blink program. It is an
// immutable value; WithLedger returns a copy bound to a different ledger.
type Client struct {
	submitter program.Submitter
}

func NewClient(submitter program.Submitter) Client {
	return Client{submitter: submitter}
}

// WithLedger returns a copy of the client bound to a different ledger.
func (c Client) WithLedger(ledger program.Ledger) Client {
	return Client{submitter: c.submitter.WithLedger(ledger)}
}

// GetVersion returns the version string published by the blink program.
func (c Client) GetVersion() (string, error) {
	return program.GetVersion(c.submitter.Ledger(), ProgramKey)
}

// CreateBlink creates the blink account for an NFT mint with the given
// appearance.
func (c Client) CreateBlink(payer, nftMint ed25519.PublicKey, a Appearance) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":    payer,
		"nft mint": nftMint,
		"color":    a.Color,
		"text":     a.Text,
	}); err != nil {
		return solana.Signature{}, err
	}

	blinkAddress, err := GetBlinkAddress(nftMint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.Internal, "failed to derive blink address")
	}

	ixn, err := CreateBlink(payer, blinkAddress, nftMint, a)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidInput, "invalid appearance")
	}

	return c.submitter.Submit(payer, "", ixn)
}

// UpdateBlink rewrites the appearance of an existing blink account.
func (c Client) UpdateBlink(payer, nftMint ed25519.PublicKey, a Appearance) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":    payer,
		"nft mint": nftMint,
		"color":    a.Color,
		"text":     a.Text,
	}); err != nil {
		return solana.Signature{}, err
	}

	blinkAddress, err := GetBlinkAddress(nftMint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.Internal, "failed to derive blink address")
	}

	ixn, err := UpdateBlink(payer, blinkAddress, nftMint, a)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidInput, "invalid appearance")
	}

	return c.submitter.Submit(payer, "", ixn)
}

// AddDonation registers a donation address on the blink account.
func (c Client) AddDonation(payer, nftMint, donationAddress ed25519.PublicKey) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":            payer,
		"nft mint":         nftMint,
		"donation address": donationAddress,
	}); err != nil {
		return solana.Signature{}, err
	}

	blinkAddress, err := GetBlinkAddress(nftMint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.Internal, "failed to derive blink address")
	}

	return c.submitter.Submit(payer, "", AddDonation(payer, blinkAddress, donationAddress))
}

// SendTokens transfers amount of mint from the payer's associated token
// account to the recipient's.
func (c Client) SendTokens(payer, recipient, mint ed25519.PublicKey, amount uint64) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":     payer,
		"recipient": recipient,
		"mint":      mint,
	}); err != nil {
		return solana.Signature{}, err
	}
	if amount == 0 {
		return solana.Signature{}, program.NewError(program.InvalidInput, "amount must be positive")
	}

	senderTokenAccount, err := token.GetAssociatedAccount(payer, mint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidTokenAccount, "failed to derive sender token account")
	}
	recipientTokenAccount, err := token.GetAssociatedAccount(recipient, mint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidTokenAccount, "failed to derive recipient token account")
	}

	return c.submitter.Submit(payer, "", SendTokens(payer, senderTokenAccount, recipientTokenAccount, mint, amount))
}

// ReceiveTokens acknowledges an inbound transfer from sender to the payer.
func (c Client) ReceiveTokens(payer, sender, mint ed25519.PublicKey) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":  payer,
		"sender": sender,
		"mint":   mint,
	}); err != nil {
		return solana.Signature{}, err
	}

	senderTokenAccount, err := token.GetAssociatedAccount(sender, mint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidTokenAccount, "failed to derive sender token account")
	}
	recipientTokenAccount, err := token.GetAssociatedAccount(payer, mint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidTokenAccount, "failed to derive recipient token account")
	}

	return c.submitter.Submit(payer, "", ReceiveTokens(payer, senderTokenAccount, recipientTokenAccount, mint))
}

// MintNFT mints the payer's blink NFT carrying the given metadata blob.
func (c Client) MintNFT(payer, nftMint ed25519.PublicKey, metadata string) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":    payer,
		"nft mint": nftMint,
		"metadata": metadata,
	}); err != nil {
		return solana.Signature{}, err
	}

	nftAddress, err := GetNFTAddress(payer)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.Internal, "failed to derive nft address")
	}

	return c.submitter.Submit(payer, "", MintNFT(payer, nftAddress, nftMint, metadata))
}

// TransferNFT moves the blink NFT from the payer to the recipient.
func (c Client) TransferNFT(payer, recipient, nftMint ed25519.PublicKey) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":     payer,
		"recipient": recipient,
		"nft mint":  nftMint,
	}); err != nil {
		return solana.Signature{}, err
	}

	sourceTokenAccount, err := token.GetAssociatedAccount(payer, nftMint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidTokenAccount, "failed to derive source token account")
	}
	destinationTokenAccount, err := token.GetAssociatedAccount(recipient, nftMint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidTokenAccount, "failed to derive destination token account")
	}

	return c.submitter.Submit(payer, "", TransferNFT(payer, sourceTokenAccount, destinationTokenAccount, nftMint))
}

// CreateLink escrows amount behind a one-time claim link expiring at the
// given unix time.
func (c Client) CreateLink(payer ed25519.PublicKey, amount, expiry uint64) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer": payer,
	}); err != nil {
		return solana.Signature{}, err
	}
	if amount == 0 {
		return solana.Signature{}, program.NewError(program.InvalidInput, "amount must be positive")
	}

	linkAddress, err := GetLinkAddress(payer)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.Internal, "failed to derive link address")
	}

	return c.submitter.Submit(payer, "", CreateLink(payer, linkAddress, amount, expiry))
}

// ClaimLink redeems the claim link created by creator.
func (c Client) ClaimLink(payer, creator ed25519.PublicKey) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":   payer,
		"creator": creator,
	}); err != nil {
		return solana.Signature{}, err
	}

	linkAddress, err := GetLinkAddress(creator)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.Internal, "failed to derive link address")
	}

	return c.submitter.Submit(payer, "", ClaimLink(payer, linkAddress))
}

// GetBlinkData loads and decodes the blink account for an NFT mint.
func (c Client) GetBlinkData(nftMint ed25519.PublicKey) (BlinkRecord, error) {
	var record BlinkRecord

	blinkAddress, err := GetBlinkAddress(nftMint)
	if err != nil {
		return record, program.Wrap(err, program.Internal, "failed to derive blink address")
	}

	info, err := c.submitter.Ledger().GetAccountInfo(blinkAddress, c.submitter.Commitment())
	if err != nil {
		return record, program.FromLedgerError(err, "failed to load blink account")
	}

	if err := record.Unmarshal(info.Data); err != nil {
		return record, program.Wrap(err, program.InvalidAccount, "malformed blink account")
	}
	return record, nil
}

// GetLinkData loads and decodes the claim link account created by creator.
func (c Client) GetLinkData(creator ed25519.PublicKey) (LinkRecord, error) {
	var record LinkRecord

	linkAddress, err := GetLinkAddress(creator)
	if err != nil {
		return record, program.Wrap(err, program.Internal, "failed to derive link address")
	}

	info, err := c.submitter.Ledger().GetAccountInfo(linkAddress, c.submitter.Commitment())
	if err != nil {
		return record, program.FromLedgerError(err, "failed to load link account")
	}

	if err := record.Unmarshal(info.Data); err != nil {
		return record, program.Wrap(err, program.InvalidAccount, "malformed link account")
	}
	return record, nil
}
