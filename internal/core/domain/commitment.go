package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CommitmentStatus represents the different statuses that a commitment can
// assume. Pending is the only non-terminal one.
type CommitmentStatus string

const (
	CommitmentStatusPending   CommitmentStatus = "pending"
	CommitmentStatusClaimed   CommitmentStatus = "claimed"
	CommitmentStatusCancelled CommitmentStatus = "cancelled"
)

func (s CommitmentStatus) String() string {
	return string(s)
}

// IsTerminal returns whether no further transition is allowed from s.
func (s CommitmentStatus) IsTerminal() bool {
	return s == CommitmentStatusClaimed || s == CommitmentStatusCancelled
}

// Commitment is the data structure representing a hidden transfer identified
// by the hash of its opening.
type Commitment struct {
	ID          uint64
	Hash        string
	Sender      string
	Recipient   string
	Amount      decimal.Decimal
	Token       string
	Salt        string
	Timestamp   int64
	Status      CommitmentStatus
	ClaimedAt   int64
	CancelledAt int64
	CreatedAt   int64
}

// Opening holds the values that, once revealed, allow anyone to recompute the
// hash of a commitment.
type Opening struct {
	Sender    string
	Recipient string
	Amount    decimal.Decimal
	Token     string
	Salt      string
	Timestamp int64
}

// NewCommitment validates the given arguments, draws a fresh random salt and
// returns a pending commitment whose hash binds all its fields.
func NewCommitment(
	sender, recipient string, amount decimal.Decimal, token string,
	timestamp int64,
) (*Commitment, error) {
	if !IsValidAddress(sender) || !IsValidAddress(recipient) {
		return nil, ErrInvalidAddress
	}
	if !IsValidAmount(amount) {
		return nil, ErrInvalidAmount
	}
	if !isValidToken(token) {
		return nil, ErrInvalidToken
	}

	salt, err := newSalt()
	if err != nil {
		return nil, fmt.Errorf("cannot generate salt: %w", err)
	}

	opening := Opening{
		Sender:    NormalizeAddress(sender),
		Recipient: NormalizeAddress(recipient),
		Amount:    amount,
		Token:     NormalizeToken(token),
		Salt:      salt,
		Timestamp: timestamp,
	}

	return &Commitment{
		Hash:      opening.Hash(),
		Sender:    opening.Sender,
		Recipient: opening.Recipient,
		Amount:    opening.Amount,
		Token:     opening.Token,
		Salt:      opening.Salt,
		Timestamp: opening.Timestamp,
		Status:    CommitmentStatusPending,
	}, nil
}

// Payload returns the canonical string the commitment hash is computed from.
// Addresses are lower-cased and the token upper-cased regardless of how they
// are provided.
func (o Opening) Payload() string {
	return strings.Join([]string{
		NormalizeAddress(o.Sender),
		NormalizeAddress(o.Recipient),
		o.Amount.String(),
		NormalizeToken(o.Token),
		o.Salt,
		fmt.Sprintf("%d", o.Timestamp),
	}, payloadSeparator)
}

// Hash returns the 0x prefixed, lower-case hex SHA-256 digest of the payload.
func (o Opening) Hash() string {
	digest := sha256.Sum256([]byte(o.Payload()))
	return HashPrefix + hex.EncodeToString(digest[:])
}

// Opening returns the values committed by c.
func (c *Commitment) Opening() Opening {
	return Opening{
		Sender:    c.Sender,
		Recipient: c.Recipient,
		Amount:    c.Amount,
		Token:     c.Token,
		Salt:      c.Salt,
		Timestamp: c.Timestamp,
	}
}

// Verify recomputes the hash from the stored fields and compares it with the
// stored one.
func (c *Commitment) Verify() bool {
	return c.Opening().Hash() == c.Hash
}

// IsPending ...
func (c *Commitment) IsPending() bool {
	return c.Status == CommitmentStatusPending
}

// IsClaimed ...
func (c *Commitment) IsClaimed() bool {
	return c.Status == CommitmentStatusClaimed
}

// IsCancelled ...
func (c *Commitment) IsCancelled() bool {
	return c.Status == CommitmentStatusCancelled
}

// IsRecipient compares the given address with the recipient, ignoring case.
func (c *Commitment) IsRecipient(address string) bool {
	return NormalizeAddress(address) == NormalizeAddress(c.Recipient)
}

// IsSender compares the given address with the sender, ignoring case.
func (c *Commitment) IsSender(address string) bool {
	return NormalizeAddress(address) == NormalizeAddress(c.Sender)
}

// Claim brings a pending commitment to the claimed status.
func (c *Commitment) Claim(claimedAt int64) error {
	switch c.Status {
	case CommitmentStatusPending:
	case CommitmentStatusClaimed:
		return ErrCommitmentAlreadyClaimed
	default:
		return ErrCommitmentNotPending
	}

	c.Status = CommitmentStatusClaimed
	c.ClaimedAt = claimedAt
	return nil
}

// Cancel brings a pending commitment to the cancelled status.
func (c *Commitment) Cancel(cancelledAt int64) error {
	switch c.Status {
	case CommitmentStatusPending:
	case CommitmentStatusCancelled:
		return ErrCommitmentAlreadyCancelled
	default:
		return ErrCommitmentNotPending
	}

	c.Status = CommitmentStatusCancelled
	c.CancelledAt = cancelledAt
	return nil
}

func newSalt() (string, error) {
	b := make([]byte, SaltSize)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
