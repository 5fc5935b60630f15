package domain

import "context"

// CommitmentStats counts the commitments of every status.
type CommitmentStats struct {
	Pending   uint64
	Claimed   uint64
	Cancelled uint64
}

// Total ...
func (s CommitmentStats) Total() uint64 {
	return s.Pending + s.Claimed + s.Cancelled
}

// CommitmentRepository is the abstraction for any kind of database intended
// to persist Commitments. Every implementation must serialize transitions of
// the same commitment so that at most one of concurrent claims/cancels wins.
type CommitmentRepository interface {
	// AddPendingCommitment stores a new pending commitment, assigning its ID
	// and CreatedAt. Returns ErrDuplicateHash if the hash is already known,
	// whatever its status.
	AddPendingCommitment(ctx context.Context, commitment *Commitment) error
	// GetCommitment returns the commitment with the given hash, whatever its
	// status, or ErrCommitmentNotFound.
	GetCommitment(ctx context.Context, hash string) (*Commitment, error)
	// GetPendingCommitmentsForRecipient returns the pending commitments of the
	// given recipient in insertion order.
	GetPendingCommitmentsForRecipient(
		ctx context.Context, recipient string,
	) ([]Commitment, error)
	// ClaimCommitment moves a pending commitment to the claimed status and
	// returns the updated record.
	ClaimCommitment(
		ctx context.Context, hash string, claimedAt int64,
	) (*Commitment, error)
	// CancelCommitment moves a pending commitment to the cancelled status and
	// returns the updated record.
	CancelCommitment(
		ctx context.Context, hash string, cancelledAt int64,
	) (*Commitment, error)
	// GetCommitments returns all commitments, newest first.
	GetCommitments(ctx context.Context, page Page) ([]Commitment, error)
	// GetCommitmentStats counts the stored commitments by status.
	GetCommitmentStats(ctx context.Context) (*CommitmentStats, error)
}
