package db_test

import (
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

func TestCommitmentRepositoryImplementations(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T, repo domain.CommitmentRepository)
	}{
		{"add_and_get_commitment", testAddAndGetCommitment},
		{"duplicate_hash", testDuplicateHash},
		{"pending_for_recipient", testGetPendingCommitmentsForRecipient},
		{"claim_commitment", testClaimCommitment},
		{"cancel_commitment", testCancelCommitment},
		{"get_commitments", testGetCommitments},
		{"commitment_stats", testGetCommitmentStats},
		{"concurrent_claims", testConcurrentClaims},
		{"concurrent_claim_and_cancel", testConcurrentClaimAndCancel},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			for _, rm := range createRepoManagers(t) {
				rm := rm
				t.Run(rm.Name, func(t *testing.T) {
					tt.fn(t, rm.Manager.CommitmentRepository())
				})
			}
		})
	}
}

func testAddAndGetCommitment(t *testing.T, repo domain.CommitmentRepository) {
	commitment := makeRandomCommitment(t)

	_, err := repo.GetCommitment(ctx, commitment.Hash)
	require.ErrorIs(t, err, domain.ErrCommitmentNotFound)

	err = repo.AddPendingCommitment(ctx, commitment)
	require.NoError(t, err)
	require.NotZero(t, commitment.ID)
	require.NotZero(t, commitment.CreatedAt)

	got, err := repo.GetCommitment(ctx, commitment.Hash)
	require.NoError(t, err)
	requireEqualCommitments(t, *commitment, *got)
	require.True(t, got.IsPending())
	require.True(t, got.Verify())
}

func testDuplicateHash(t *testing.T, repo domain.CommitmentRepository) {
	commitment := makeRandomCommitment(t)
	err := repo.AddPendingCommitment(ctx, commitment)
	require.NoError(t, err)

	duplicate := *commitment
	err = repo.AddPendingCommitment(ctx, &duplicate)
	require.ErrorIs(t, err, domain.ErrDuplicateHash)

	// The hash stays reserved once the commitment left the pending status.
	_, err = repo.ClaimCommitment(ctx, commitment.Hash, randomTimestamp())
	require.NoError(t, err)

	duplicate = *commitment
	err = repo.AddPendingCommitment(ctx, &duplicate)
	require.ErrorIs(t, err, domain.ErrDuplicateHash)

	stats, err := repo.GetCommitmentStats(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), stats.Total())
}

func testGetPendingCommitmentsForRecipient(
	t *testing.T, repo domain.CommitmentRepository,
) {
	recipient := randomAddress()

	pending, err := repo.GetPendingCommitmentsForRecipient(ctx, recipient)
	require.NoError(t, err)
	require.Empty(t, pending)

	commitments := make([]*domain.Commitment, 0, 5)
	for i := 0; i < 5; i++ {
		commitment := makeRandomCommitmentFor(t, randomAddress(), recipient)
		err := repo.AddPendingCommitment(ctx, commitment)
		require.NoError(t, err)
		commitments = append(commitments, commitment)
	}
	// Noise for another recipient.
	err = repo.AddPendingCommitment(ctx, makeRandomCommitment(t))
	require.NoError(t, err)

	_, err = repo.ClaimCommitment(ctx, commitments[1].Hash, randomTimestamp())
	require.NoError(t, err)
	_, err = repo.CancelCommitment(ctx, commitments[3].Hash, randomTimestamp())
	require.NoError(t, err)

	// Lookup is case-insensitive and in insertion order.
	pending, err = repo.GetPendingCommitmentsForRecipient(
		ctx, "0x"+strings.ToUpper(recipient[2:]),
	)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	for i, j := range []int{0, 2, 4} {
		require.Equal(t, commitments[j].Hash, pending[i].Hash)
		require.True(t, pending[i].IsPending())
	}
}

func testClaimCommitment(t *testing.T, repo domain.CommitmentRepository) {
	_, err := repo.ClaimCommitment(ctx, "0xunknown", randomTimestamp())
	require.ErrorIs(t, err, domain.ErrCommitmentNotFound)

	commitment := makeRandomCommitment(t)
	err = repo.AddPendingCommitment(ctx, commitment)
	require.NoError(t, err)

	claimedAt := randomTimestamp()
	claimed, err := repo.ClaimCommitment(ctx, commitment.Hash, claimedAt)
	require.NoError(t, err)
	require.True(t, claimed.IsClaimed())
	require.Equal(t, claimedAt, claimed.ClaimedAt)

	got, err := repo.GetCommitment(ctx, commitment.Hash)
	require.NoError(t, err)
	require.True(t, got.IsClaimed())
	require.Equal(t, claimedAt, got.ClaimedAt)
	require.True(t, got.Verify())

	_, err = repo.ClaimCommitment(ctx, commitment.Hash, randomTimestamp())
	require.ErrorIs(t, err, domain.ErrCommitmentAlreadyClaimed)

	_, err = repo.CancelCommitment(ctx, commitment.Hash, randomTimestamp())
	require.ErrorIs(t, err, domain.ErrCommitmentNotPending)

	got, err = repo.GetCommitment(ctx, commitment.Hash)
	require.NoError(t, err)
	require.Equal(t, claimedAt, got.ClaimedAt)
}

func testCancelCommitment(t *testing.T, repo domain.CommitmentRepository) {
	_, err := repo.CancelCommitment(ctx, "0xunknown", randomTimestamp())
	require.ErrorIs(t, err, domain.ErrCommitmentNotFound)

	commitment := makeRandomCommitment(t)
	err = repo.AddPendingCommitment(ctx, commitment)
	require.NoError(t, err)

	cancelledAt := randomTimestamp()
	cancelled, err := repo.CancelCommitment(ctx, commitment.Hash, cancelledAt)
	require.NoError(t, err)
	require.True(t, cancelled.IsCancelled())
	require.Equal(t, cancelledAt, cancelled.CancelledAt)

	_, err = repo.CancelCommitment(ctx, commitment.Hash, randomTimestamp())
	require.ErrorIs(t, err, domain.ErrCommitmentAlreadyCancelled)

	_, err = repo.ClaimCommitment(ctx, commitment.Hash, randomTimestamp())
	require.ErrorIs(t, err, domain.ErrCommitmentNotPending)

	pending, err := repo.GetPendingCommitmentsForRecipient(
		ctx, commitment.Recipient,
	)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func testGetCommitments(t *testing.T, repo domain.CommitmentRepository) {
	commitments := make([]*domain.Commitment, 0, 20)
	for i := 0; i < 20; i++ {
		commitment := makeRandomCommitment(t)
		err := repo.AddPendingCommitment(ctx, commitment)
		require.NoError(t, err)
		commitments = append(commitments, commitment)
	}
	_, err := repo.ClaimCommitment(ctx, commitments[5].Hash, randomTimestamp())
	require.NoError(t, err)

	all, err := repo.GetCommitments(ctx, domain.Page{})
	require.NoError(t, err)
	require.Len(t, all, 20)
	for i := range all {
		require.Equal(t, commitments[len(commitments)-1-i].Hash, all[i].Hash)
	}

	// Test that pagination is correct by getting all 20 commitments in 4
	// pages, each including 5 items. The concatenation of all pages must
	// match the non-paginated list item per item.
	allPaged := make([]domain.Commitment, 0)
	for i := 1; i <= 4; i++ {
		paged, err := repo.GetCommitments(ctx, domain.NewPage(i, 5))
		require.NoError(t, err)
		require.Len(t, paged, 5)
		allPaged = append(allPaged, paged...)
	}
	for i := range all {
		require.Equal(t, all[i].Hash, allPaged[i].Hash)
	}

	paged, err := repo.GetCommitments(ctx, domain.NewPage(5, 5))
	require.NoError(t, err)
	require.Empty(t, paged)
}

func testGetCommitmentStats(t *testing.T, repo domain.CommitmentRepository) {
	stats, err := repo.GetCommitmentStats(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.Total())

	hashes := make([]string, 0, 6)
	for i := 0; i < 6; i++ {
		commitment := makeRandomCommitment(t)
		err := repo.AddPendingCommitment(ctx, commitment)
		require.NoError(t, err)
		hashes = append(hashes, commitment.Hash)
	}
	for _, hash := range hashes[:2] {
		_, err := repo.ClaimCommitment(ctx, hash, randomTimestamp())
		require.NoError(t, err)
	}
	_, err = repo.CancelCommitment(ctx, hashes[2], randomTimestamp())
	require.NoError(t, err)

	stats, err = repo.GetCommitmentStats(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(3), stats.Pending)
	require.Equal(t, uint64(2), stats.Claimed)
	require.Equal(t, uint64(1), stats.Cancelled)
	require.Equal(t, uint64(6), stats.Total())
}

func testConcurrentClaims(t *testing.T, repo domain.CommitmentRepository) {
	commitment := makeRandomCommitment(t)
	err := repo.AddPendingCommitment(ctx, commitment)
	require.NoError(t, err)

	var succeeded, alreadyClaimed int32
	eg := &errgroup.Group{}
	for i := 0; i < 10; i++ {
		claimedAt := int64(i + 1)
		eg.Go(func() error {
			_, err := repo.ClaimCommitment(ctx, commitment.Hash, claimedAt)
			switch {
			case err == nil:
				atomic.AddInt32(&succeeded, 1)
			case errors.Is(err, domain.ErrCommitmentAlreadyClaimed):
				atomic.AddInt32(&alreadyClaimed, 1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	require.Equal(t, int32(1), succeeded)
	require.Equal(t, int32(9), alreadyClaimed)

	stats, err := repo.GetCommitmentStats(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1), stats.Claimed)
	require.Zero(t, stats.Pending)
}

func testConcurrentClaimAndCancel(
	t *testing.T, repo domain.CommitmentRepository,
) {
	commitment := makeRandomCommitment(t)
	err := repo.AddPendingCommitment(ctx, commitment)
	require.NoError(t, err)

	var succeeded int32
	eg := &errgroup.Group{}
	for i := 0; i < 10; i++ {
		at := int64(i + 1)
		transition := repo.ClaimCommitment
		if i%2 == 0 {
			transition = repo.CancelCommitment
		}
		eg.Go(func() error {
			_, err := transition(ctx, commitment.Hash, at)
			switch {
			case err == nil:
				atomic.AddInt32(&succeeded, 1)
			case errors.Is(err, domain.ErrCommitmentAlreadyClaimed),
				errors.Is(err, domain.ErrCommitmentAlreadyCancelled),
				errors.Is(err, domain.ErrCommitmentNotPending):
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	require.Equal(t, int32(1), succeeded)

	got, err := repo.GetCommitment(ctx, commitment.Hash)
	require.NoError(t, err)
	require.True(t, got.Status.IsTerminal())
}

func requireEqualCommitments(t *testing.T, expected, got domain.Commitment) {
	t.Helper()

	require.Equal(t, expected.ID, got.ID)
	require.Equal(t, expected.Hash, got.Hash)
	require.Equal(t, expected.Sender, got.Sender)
	require.Equal(t, expected.Recipient, got.Recipient)
	require.True(t, expected.Amount.Equal(got.Amount))
	require.Equal(t, expected.Token, got.Token)
	require.Equal(t, expected.Salt, got.Salt)
	require.Equal(t, expected.Timestamp, got.Timestamp)
	require.Equal(t, expected.Status, got.Status)
	require.Equal(t, expected.CreatedAt, got.CreatedAt)
}
