package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

// commitmentInmemoryStore keeps commitments partitioned by status. A hash is
// always found in exactly one partition.
type commitmentInmemoryStore struct {
	pending   map[string]domain.Commitment
	claimed   map[string]domain.Commitment
	cancelled map[string]domain.Commitment
	nextID    uint64
	locker    *sync.RWMutex
}

func newCommitmentInmemoryStore() *commitmentInmemoryStore {
	return &commitmentInmemoryStore{
		pending:   make(map[string]domain.Commitment),
		claimed:   make(map[string]domain.Commitment),
		cancelled: make(map[string]domain.Commitment),
		locker:    &sync.RWMutex{},
	}
}

type commitmentRepositoryImpl struct {
	store *commitmentInmemoryStore
}

// NewCommitmentRepositoryImpl returns a new empty inmemory
// CommitmentRepository implementation.
func NewCommitmentRepositoryImpl() domain.CommitmentRepository {
	return &commitmentRepositoryImpl{newCommitmentInmemoryStore()}
}

func (r *commitmentRepositoryImpl) AddPendingCommitment(
	_ context.Context, commitment *domain.Commitment,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	if _, ok := r.find(commitment.Hash); ok {
		return domain.ErrDuplicateHash
	}

	r.store.nextID++
	commitment.ID = r.store.nextID
	commitment.CreatedAt = time.Now().Unix()
	commitment.Status = domain.CommitmentStatusPending

	r.store.pending[commitment.Hash] = *commitment
	return nil
}

func (r *commitmentRepositoryImpl) GetCommitment(
	_ context.Context, hash string,
) (*domain.Commitment, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	commitment, ok := r.find(hash)
	if !ok {
		return nil, domain.ErrCommitmentNotFound
	}
	return &commitment, nil
}

func (r *commitmentRepositoryImpl) GetPendingCommitmentsForRecipient(
	_ context.Context, recipient string,
) ([]domain.Commitment, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	commitments := make([]domain.Commitment, 0)
	for _, c := range r.store.pending {
		if c.IsRecipient(recipient) {
			commitments = append(commitments, c)
		}
	}
	sortByID(commitments, false)
	return commitments, nil
}

func (r *commitmentRepositoryImpl) ClaimCommitment(
	_ context.Context, hash string, claimedAt int64,
) (*domain.Commitment, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	commitment, ok := r.find(hash)
	if !ok {
		return nil, domain.ErrCommitmentNotFound
	}
	if err := commitment.Claim(claimedAt); err != nil {
		return nil, err
	}

	delete(r.store.pending, hash)
	r.store.claimed[hash] = commitment
	return &commitment, nil
}

func (r *commitmentRepositoryImpl) CancelCommitment(
	_ context.Context, hash string, cancelledAt int64,
) (*domain.Commitment, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	commitment, ok := r.find(hash)
	if !ok {
		return nil, domain.ErrCommitmentNotFound
	}
	if err := commitment.Cancel(cancelledAt); err != nil {
		return nil, err
	}

	delete(r.store.pending, hash)
	r.store.cancelled[hash] = commitment
	return &commitment, nil
}

func (r *commitmentRepositoryImpl) GetCommitments(
	_ context.Context, page domain.Page,
) ([]domain.Commitment, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	all := make(
		[]domain.Commitment, 0,
		len(r.store.pending)+len(r.store.claimed)+len(r.store.cancelled),
	)
	for _, partition := range r.partitions() {
		for _, c := range partition {
			all = append(all, c)
		}
	}
	sortByID(all, true)

	from := page.Offset()
	if from >= len(all) {
		return []domain.Commitment{}, nil
	}
	to := from + page.Size
	if page.Size <= 0 || to > len(all) {
		to = len(all)
	}
	return all[from:to], nil
}

func (r *commitmentRepositoryImpl) GetCommitmentStats(
	_ context.Context,
) (*domain.CommitmentStats, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	return &domain.CommitmentStats{
		Pending:   uint64(len(r.store.pending)),
		Claimed:   uint64(len(r.store.claimed)),
		Cancelled: uint64(len(r.store.cancelled)),
	}, nil
}

func (r *commitmentRepositoryImpl) partitions() []map[string]domain.Commitment {
	return []map[string]domain.Commitment{
		r.store.pending, r.store.claimed, r.store.cancelled,
	}
}

func (r *commitmentRepositoryImpl) find(hash string) (domain.Commitment, bool) {
	for _, partition := range r.partitions() {
		if c, ok := partition[hash]; ok {
			return c, true
		}
	}
	return domain.Commitment{}, false
}

func sortByID(commitments []domain.Commitment, desc bool) {
	sort.SliceStable(commitments, func(i, j int) bool {
		if desc {
			return commitments[i].ID > commitments[j].ID
		}
		return commitments[i].ID < commitments[j].ID
	})
}
