package dbbadger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

type commitmentRepositoryImpl struct {
	store    *badgerhold.Store
	sequence *badger.Sequence
}

// NewCommitmentRepositoryImpl initialize a badger implementation of the
// domain.CommitmentRepository. Surrogate IDs are drawn from the given
// sequence.
func NewCommitmentRepositoryImpl(
	store *badgerhold.Store, sequence *badger.Sequence,
) domain.CommitmentRepository {
	return &commitmentRepositoryImpl{store, sequence}
}

func (r *commitmentRepositoryImpl) AddPendingCommitment(
	ctx context.Context, commitment *domain.Commitment,
) error {
	id, err := r.sequence.Next()
	if err != nil {
		return err
	}

	toInsert := *commitment
	toInsert.ID = id + 1
	toInsert.CreatedAt = time.Now().Unix()
	toInsert.Status = domain.CommitmentStatusPending

	if err := r.runTx(ctx, func(tx *badger.Txn) error {
		return r.store.TxInsert(tx, toInsert.Hash, &toInsert)
	}); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrDuplicateHash
		}
		return err
	}

	*commitment = toInsert
	return nil
}

func (r *commitmentRepositoryImpl) GetCommitment(
	_ context.Context, hash string,
) (*domain.Commitment, error) {
	var commitment domain.Commitment
	if err := r.store.Get(hash, &commitment); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrCommitmentNotFound
		}
		return nil, err
	}
	return &commitment, nil
}

func (r *commitmentRepositoryImpl) GetPendingCommitmentsForRecipient(
	_ context.Context, recipient string,
) ([]domain.Commitment, error) {
	query := badgerhold.Where("Recipient").Eq(domain.NormalizeAddress(recipient)).
		And("Status").Eq(domain.CommitmentStatusPending).
		SortBy("ID")

	return r.findCommitments(query)
}

func (r *commitmentRepositoryImpl) ClaimCommitment(
	ctx context.Context, hash string, claimedAt int64,
) (*domain.Commitment, error) {
	return r.updateCommitment(ctx, hash, func(c *domain.Commitment) error {
		return c.Claim(claimedAt)
	})
}

func (r *commitmentRepositoryImpl) CancelCommitment(
	ctx context.Context, hash string, cancelledAt int64,
) (*domain.Commitment, error) {
	return r.updateCommitment(ctx, hash, func(c *domain.Commitment) error {
		return c.Cancel(cancelledAt)
	})
}

func (r *commitmentRepositoryImpl) GetCommitments(
	_ context.Context, page domain.Page,
) ([]domain.Commitment, error) {
	query := (&badgerhold.Query{}).SortBy("ID").Reverse().
		Skip(page.Offset()).Limit(page.Size)

	return r.findCommitments(query)
}

func (r *commitmentRepositoryImpl) GetCommitmentStats(
	_ context.Context,
) (*domain.CommitmentStats, error) {
	count := func(status domain.CommitmentStatus) (uint64, error) {
		n, err := r.store.Count(
			&domain.Commitment{}, badgerhold.Where("Status").Eq(status),
		)
		return uint64(n), err
	}

	pending, err := count(domain.CommitmentStatusPending)
	if err != nil {
		return nil, err
	}
	claimed, err := count(domain.CommitmentStatusClaimed)
	if err != nil {
		return nil, err
	}
	cancelled, err := count(domain.CommitmentStatusCancelled)
	if err != nil {
		return nil, err
	}

	return &domain.CommitmentStats{
		Pending:   pending,
		Claimed:   claimed,
		Cancelled: cancelled,
	}, nil
}

// updateCommitment reads, transitions and writes back the commitment in a
// single read-write transaction. Badger aborts the commit of a transaction
// whose read keys changed in the meantime, in which case the whole update is
// re-evaluated against the fresh record.
func (r *commitmentRepositoryImpl) updateCommitment(
	ctx context.Context, hash string, updateFn func(*domain.Commitment) error,
) (*domain.Commitment, error) {
	var commitment domain.Commitment
	if err := r.runTx(ctx, func(tx *badger.Txn) error {
		commitment = domain.Commitment{}
		if err := r.store.TxGet(tx, hash, &commitment); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return domain.ErrCommitmentNotFound
			}
			return err
		}
		if err := updateFn(&commitment); err != nil {
			return err
		}
		return r.store.TxUpdate(tx, hash, &commitment)
	}); err != nil {
		return nil, err
	}

	return &commitment, nil
}

func (r *commitmentRepositoryImpl) runTx(
	ctx context.Context, txBody func(tx *badger.Txn) error,
) error {
	return runTx(ctx, r.store, txBody)
}

func (r *commitmentRepositoryImpl) findCommitments(
	query *badgerhold.Query,
) ([]domain.Commitment, error) {
	commitments := make([]domain.Commitment, 0)
	if err := r.store.Find(&commitments, query); err != nil {
		return nil, err
	}
	return commitments, nil
}

// runTx executes txBody in a read-write badger transaction, retrying as long
// as the commit fails because of a conflicting concurrent transaction.
func runTx(
	ctx context.Context, store *badgerhold.Store,
	txBody func(tx *badger.Txn) error,
) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := store.Badger().Update(txBody)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return err
	}
}
