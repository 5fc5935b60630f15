package dbcache

import (
	"context"

	"github.com/dgraph-io/ristretto"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

// commitmentRepository is a read-through decorator. Only claimed and
// cancelled commitments are cached since they never change again.
type commitmentRepository struct {
	domain.CommitmentRepository

	cache *ristretto.Cache
}

func newCommitmentRepository(
	repo domain.CommitmentRepository, cache *ristretto.Cache,
) domain.CommitmentRepository {
	return &commitmentRepository{repo, cache}
}

func (r *commitmentRepository) GetCommitment(
	ctx context.Context, hash string,
) (*domain.Commitment, error) {
	if commitment, ok := r.get(hash); ok {
		return commitment, nil
	}

	commitment, err := r.CommitmentRepository.GetCommitment(ctx, hash)
	if err != nil {
		return nil, err
	}
	r.set(commitment)
	return commitment, nil
}

func (r *commitmentRepository) ClaimCommitment(
	ctx context.Context, hash string, claimedAt int64,
) (*domain.Commitment, error) {
	commitment, err := r.CommitmentRepository.ClaimCommitment(
		ctx, hash, claimedAt,
	)
	if err != nil {
		return nil, err
	}
	r.set(commitment)
	return commitment, nil
}

func (r *commitmentRepository) CancelCommitment(
	ctx context.Context, hash string, cancelledAt int64,
) (*domain.Commitment, error) {
	commitment, err := r.CommitmentRepository.CancelCommitment(
		ctx, hash, cancelledAt,
	)
	if err != nil {
		return nil, err
	}
	r.set(commitment)
	return commitment, nil
}

func (r *commitmentRepository) get(hash string) (*domain.Commitment, bool) {
	v, ok := r.cache.Get(hash)
	if !ok {
		return nil, false
	}
	commitment := v.(domain.Commitment)
	return &commitment, true
}

func (r *commitmentRepository) set(commitment *domain.Commitment) {
	if !commitment.Status.IsTerminal() {
		return
	}
	r.cache.Set(commitment.Hash, *commitment, 1)
}
