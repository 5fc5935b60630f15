package inmemory

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

func TestCommitmentPartitions(t *testing.T) {
	ctx := context.Background()
	repo := NewCommitmentRepositoryImpl().(*commitmentRepositoryImpl)

	hashes := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		commitment, err := domain.NewCommitment(
			"0x"+strings.Repeat("a", 40), "0x"+strings.Repeat("b", 40),
			decimal.NewFromInt(int64(i+1)), "ETH", 1700000000,
		)
		require.NoError(t, err)
		require.NoError(t, repo.AddPendingCommitment(ctx, commitment))
		require.Equal(t, uint64(i+1), commitment.ID)
		hashes = append(hashes, commitment.Hash)
	}

	_, err := repo.ClaimCommitment(ctx, hashes[0], 10)
	require.NoError(t, err)
	_, err = repo.CancelCommitment(ctx, hashes[1], 20)
	require.NoError(t, err)

	require.Len(t, repo.store.pending, 1)
	require.Len(t, repo.store.claimed, 1)
	require.Len(t, repo.store.cancelled, 1)

	for _, hash := range hashes {
		found := 0
		for _, partition := range repo.partitions() {
			if _, ok := partition[hash]; ok {
				found++
			}
		}
		require.Equal(t, 1, found)
	}

	require.Contains(t, repo.store.claimed, hashes[0])
	require.Contains(t, repo.store.cancelled, hashes[1])
	require.Contains(t, repo.store.pending, hashes[2])
}
