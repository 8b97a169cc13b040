package governance

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/milton-protocol/milton-go/pkg/solana"
	"github.com/milton-protocol/milton-go/pkg/solana/binary"
)

type ProposalStatus byte

const (
	ProposalStatusActive ProposalStatus = iota
	ProposalStatusExecuted
	ProposalStatusDefeated
	ProposalStatusCanceled
)

func (s ProposalStatus) String() string {
	switch s {
	case ProposalStatusActive:
		return "active"
	case ProposalStatusExecuted:
		return "executed"
	case ProposalStatusDefeated:
		return "defeated"
	case ProposalStatusCanceled:
		return "canceled"
	}
	return "unknown"
}

const (
	// ProposalSize is the size of a proposal account.
	ProposalSize = titleFieldSize + descriptionFieldSize + 32 + 4 + 4 + 4 + 4 + 1

	// ProposalStatusOffset is the byte offset of the status field, used for
	// program account scans.
	ProposalStatusOffset = ProposalSize - 1

	// VoterRecordSize is the size of a voter record account.
	VoterRecordSize = 2
)

// Proposal is the on-chain state of a proposal account.
type Proposal struct {
	Title        string
	Description  string
	Proposer     ed25519.PublicKey
	StartTime    uint32
	EndTime      uint32
	ForVotes     uint32
	AgainstVotes uint32
	Status       ProposalStatus
}

func (p Proposal) Marshal() ([]byte, error) {
	b := make([]byte, ProposalSize)

	var offset int
	if err := binary.PutFixedString(b, p.Title, titleFieldSize, &offset); err != nil {
		return nil, err
	}
	if err := binary.PutFixedString(b[offset:], p.Description, descriptionFieldSize, &offset); err != nil {
		return nil, err
	}
	binary.PutKey32(b[offset:], p.Proposer, &offset)
	binary.PutUint32(b[offset:], p.StartTime, &offset)
	binary.PutUint32(b[offset:], p.EndTime, &offset)
	binary.PutUint32(b[offset:], p.ForVotes, &offset)
	binary.PutUint32(b[offset:], p.AgainstVotes, &offset)
	binary.PutUint8(b[offset:], byte(p.Status), &offset)

	return b, nil
}

func (p *Proposal) Unmarshal(b []byte) error {
	if len(b) != ProposalSize {
		return errors.Errorf("invalid proposal account size: %d", len(b))
	}

	var offset int
	binary.GetFixedString(b, &p.Title, titleFieldSize, &offset)
	binary.GetFixedString(b[offset:], &p.Description, descriptionFieldSize, &offset)
	binary.GetKey32(b[offset:], &p.Proposer, &offset)
	binary.GetUint32(b[offset:], &p.StartTime, &offset)
	binary.GetUint32(b[offset:], &p.EndTime, &offset)
	binary.GetUint32(b[offset:], &p.ForVotes, &offset)
	binary.GetUint32(b[offset:], &p.AgainstVotes, &offset)

	status := b[offset]
	if status > byte(ProposalStatusCanceled) {
		return errors.Errorf("invalid proposal status: %d", status)
	}
	p.Status = ProposalStatus(status)

	return nil
}

// VoterRecord is the on-chain state of a per-voter, per-proposal record.
type VoterRecord struct {
	HasVoted bool
	InFavor  bool
}

func (r VoterRecord) Marshal() []byte {
	b := make([]byte, VoterRecordSize)
	if r.HasVoted {
		b[0] = 1
	}
	if r.InFavor {
		b[1] = 1
	}
	return b
}

func (r *VoterRecord) Unmarshal(b []byte) error {
	if len(b) != VoterRecordSize {
		return errors.Errorf("invalid voter record size: %d", len(b))
	}
	r.HasVoted = b[0] != 0
	r.InFavor = b[1] != 0
	return nil
}

// GetVoterRecordAddress derives the voter record for a voter on a proposal.
func GetVoterRecordAddress(voter, proposal ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(ProgramKey, []byte("voter_info"), voter, proposal)
}
