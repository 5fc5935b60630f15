package dbcache

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
	"github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/inmemory"
)

var (
	ctx       = context.Background()
	sender    = "0x" + strings.Repeat("a", 40)
	recipient = "0x" + strings.Repeat("b", 40)
)

// countingRepository counts the lookups reaching the wrapped repository.
type countingRepository struct {
	domain.CommitmentRepository
	gets int
}

func (r *countingRepository) GetCommitment(
	ctx context.Context, hash string,
) (*domain.Commitment, error) {
	r.gets++
	return r.CommitmentRepository.GetCommitment(ctx, hash)
}

func TestCommitmentCache(t *testing.T) {
	t.Run("terminal commitments are served from cache", func(t *testing.T) {
		repo, cached := newTestRepository(t)
		commitment := addCommitment(t, cached)

		_, err := cached.ClaimCommitment(ctx, commitment.Hash, 10)
		require.NoError(t, err)
		cached.(*commitmentRepository).cache.Wait()

		for i := 0; i < 3; i++ {
			got, err := cached.GetCommitment(ctx, commitment.Hash)
			require.NoError(t, err)
			require.True(t, got.IsClaimed())
			require.Equal(t, int64(10), got.ClaimedAt)
		}
		require.Zero(t, repo.gets)
	})

	t.Run("pending commitments are always delegated", func(t *testing.T) {
		repo, cached := newTestRepository(t)
		commitment := addCommitment(t, cached)

		for i := 0; i < 3; i++ {
			got, err := cached.GetCommitment(ctx, commitment.Hash)
			require.NoError(t, err)
			require.True(t, got.IsPending())
		}
		cached.(*commitmentRepository).cache.Wait()
		require.Equal(t, 3, repo.gets)

		_, err := cached.CancelCommitment(ctx, commitment.Hash, 20)
		require.NoError(t, err)
		cached.(*commitmentRepository).cache.Wait()

		got, err := cached.GetCommitment(ctx, commitment.Hash)
		require.NoError(t, err)
		require.True(t, got.IsCancelled())
		require.Equal(t, 3, repo.gets)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		repo, cached := newTestRepository(t)

		for i := 0; i < 2; i++ {
			_, err := cached.GetCommitment(ctx, "0xunknown")
			require.ErrorIs(t, err, domain.ErrCommitmentNotFound)
		}
		require.Equal(t, 2, repo.gets)
	})

	t.Run("failed transitions leave the cache untouched", func(t *testing.T) {
		_, cached := newTestRepository(t)
		commitment := addCommitment(t, cached)

		_, err := cached.ClaimCommitment(ctx, commitment.Hash, 10)
		require.NoError(t, err)

		_, err = cached.CancelCommitment(ctx, commitment.Hash, 20)
		require.ErrorIs(t, err, domain.ErrCommitmentNotPending)
		cached.(*commitmentRepository).cache.Wait()

		got, err := cached.GetCommitment(ctx, commitment.Hash)
		require.NoError(t, err)
		require.True(t, got.IsClaimed())
	})
}

func TestNewRepoManager(t *testing.T) {
	_, err := NewRepoManager(inmemory.NewRepoManager(), 0)
	require.Error(t, err)

	rm, err := NewRepoManager(inmemory.NewRepoManager(), 100)
	require.NoError(t, err)
	require.NotNil(t, rm.CommitmentRepository())
	require.NotNil(t, rm.ParticipantRepository())
	rm.Close()
}

func newTestRepository(
	t *testing.T,
) (*countingRepository, domain.CommitmentRepository) {
	rm, err := NewRepoManager(inmemory.NewRepoManager(), 100)
	require.NoError(t, err)
	t.Cleanup(rm.Close)

	wrapped := rm.(*repoManager)
	repo := &countingRepository{
		CommitmentRepository: inmemory.NewCommitmentRepositoryImpl(),
	}
	return repo, newCommitmentRepository(repo, wrapped.cache)
}

func addCommitment(
	t *testing.T, repo domain.CommitmentRepository,
) *domain.Commitment {
	commitment, err := domain.NewCommitment(
		sender, recipient, decimal.NewFromInt(1), "ETH", 1700000000,
	)
	require.NoError(t, err)
	require.NoError(t, repo.AddPendingCommitment(ctx, commitment))
	return commitment
}
