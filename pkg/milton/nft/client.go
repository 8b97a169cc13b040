package nft

import (
	"crypto/ed25519"

	"github.com/milton-protocol/milton-go/pkg/milton/program"
	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/token"
)

// Client is the high level interface to the NFT program. It is an immutable
// value; WithLedger returns a copy bound to a different ledger.
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

// GetVersion returns the version string published by the NFT program.
func (c Client) GetVersion() (string, error) {
	return program.GetVersion(c.submitter.Ledger(), ProgramKey)
}

// MintNFT mints a new NFT with the given metadata payload.
func (c Client) MintNFT(payer, mint ed25519.PublicKey, p MetadataPayload) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":  payer,
		"mint":   mint,
		"name":   p.Name,
		"symbol": p.Symbol,
		"uri":    p.URI,
	}); err != nil {
		return solana.Signature{}, err
	}

	metadataAddress, err := GetMetadataAddress(mint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.Internal, "failed to derive metadata address")
	}

	ixn, err := MintNFT(payer, mint, metadataAddress, p)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidMetadata, "invalid metadata payload")
	}

	sig, err := c.submitter.Submit(payer, "", ixn)
	if err != nil {
		if program.KindOf(err) == program.TransactionFailed {
			return sig, program.Wrap(err, program.MintFailed, "mint transaction failed")
		}
		return sig, err
	}
	return sig, nil
}

// TransferNFT moves the NFT from the payer to the recipient.
func (c Client) TransferNFT(payer, recipient, mint ed25519.PublicKey) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":     payer,
		"recipient": recipient,
		"mint":      mint,
	}); err != nil {
		return solana.Signature{}, err
	}

	sourceTokenAccount, err := token.GetAssociatedAccount(payer, mint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidTokenAccount, "failed to derive source token account")
	}
	destinationTokenAccount, err := token.GetAssociatedAccount(recipient, mint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidTokenAccount, "failed to derive destination token account")
	}

	sig, err := c.submitter.Submit(payer, "", TransferNFT(payer, sourceTokenAccount, destinationTokenAccount, mint))
	if err != nil {
		if program.KindOf(err) == program.TransactionFailed {
			return sig, program.Wrap(err, program.TransferFailed, "transfer transaction failed")
		}
		return sig, err
	}
	return sig, nil
}

// BurnNFT burns the payer's NFT and closes its metadata account.
func (c Client) BurnNFT(payer, mint ed25519.PublicKey) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer": payer,
		"mint":  mint,
	}); err != nil {
		return solana.Signature{}, err
	}

	ownerTokenAccount, err := token.GetAssociatedAccount(payer, mint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidTokenAccount, "failed to derive owner token account")
	}
	metadataAddress, err := GetMetadataAddress(mint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.Internal, "failed to derive metadata address")
	}

	return c.submitter.Submit(payer, "", BurnNFT(payer, ownerTokenAccount, mint, metadataAddress))
}

// UpdateMetadata rewrites the metadata of an existing NFT. The payer must be
// the metadata's update authority.
func (c Client) UpdateMetadata(payer, mint ed25519.PublicKey, p MetadataPayload) (solana.Signature, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"payer":  payer,
		"mint":   mint,
		"name":   p.Name,
		"symbol": p.Symbol,
		"uri":    p.URI,
	}); err != nil {
		return solana.Signature{}, err
	}

	metadataAddress, err := GetMetadataAddress(mint)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.Internal, "failed to derive metadata address")
	}

	current, err := c.GetMetadata(mint)
	if err != nil {
		return solana.Signature{}, err
	}
	if string(current.UpdateAuthority) != string(payer) {
		return solana.Signature{}, program.NewError(program.Unauthorized, "payer is not the update authority")
	}

	ixn, err := UpdateMetadata(payer, mint, metadataAddress, p)
	if err != nil {
		return solana.Signature{}, program.Wrap(err, program.InvalidMetadata, "invalid metadata payload")
	}

	return c.submitter.Submit(payer, "", ixn)
}

// GetMetadata loads and decodes the metadata account for an NFT mint.
func (c Client) GetMetadata(mint ed25519.PublicKey) (Metadata, error) {
	var md Metadata

	metadataAddress, err := GetMetadataAddress(mint)
	if err != nil {
		return md, program.Wrap(err, program.Internal, "failed to derive metadata address")
	}

	info, err := c.submitter.Ledger().GetAccountInfo(metadataAddress, c.submitter.Commitment())
	if err != nil {
		return md, program.FromLedgerError(err, "failed to load metadata account")
	}

	if err := md.Unmarshal(info.Data); err != nil {
		return md, program.Wrap(err, program.InvalidAccount, "malformed metadata account")
	}
	return md, nil
}

// GetNFTsByOwner returns the owner's token accounts for the given mint.
func (c Client) GetNFTsByOwner(owner, mint ed25519.PublicKey) ([]ed25519.PublicKey, error) {
	if err := program.ValidateParams(map[string]interface{}{
		"owner": owner,
		"mint":  mint,
	}); err != nil {
		return nil, err
	}

	accounts, err := c.submitter.Ledger().GetTokenAccountsByOwner(owner, mint)
	if err != nil {
		return nil, program.FromLedgerError(err, "failed to load token accounts")
	}
	return accounts, nil
}
