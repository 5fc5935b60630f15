package dbcache

import (
	"fmt"

	"github.com/dgraph-io/ristretto"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
)

const (
	// ristretto suggests ~10x counters per expected number of items.
	countersPerItem = 10
	bufferItems     = 64
)

type repoManager struct {
	ports.RepoManager

	cache                *ristretto.Cache
	commitmentRepository domain.CommitmentRepository
}

// NewRepoManager wraps the given repo manager so that terminal commitments
// are served from an in-process cache holding at most size of them.
func NewRepoManager(
	rm ports.RepoManager, size int64,
) (ports.RepoManager, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive")
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: size * countersPerItem,
		MaxCost:     size,
		BufferItems: bufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("creating commitment cache: %w", err)
	}

	return &repoManager{
		RepoManager: rm,
		cache:       cache,
		commitmentRepository: newCommitmentRepository(
			rm.CommitmentRepository(), cache,
		),
	}, nil
}

func (r *repoManager) CommitmentRepository() domain.CommitmentRepository {
	return r.commitmentRepository
}

func (r *repoManager) Close() {
	r.cache.Close()
	r.RepoManager.Close()
}
