package db_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
	dbbadger "github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/badger"
	dbcache "github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/cache"
	"github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/inmemory"
	sqlitedb "github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/sqlite"
)

var ctx = context.Background()

type repoManager struct {
	Name    string
	Manager ports.RepoManager
}

// createRepoManagers returns a fresh, empty instance of every repo manager
// implementation. Postgres is included only if INVISIBLE_TEST_PG_DSN is set.
func createRepoManagers(t *testing.T) []repoManager {
	t.Helper()

	badgerRepoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)

	sqliteRepoManager, err := sqlitedb.NewRepoManager(t.TempDir())
	require.NoError(t, err)

	cachedRepoManager, err := dbcache.NewRepoManager(
		inmemory.NewRepoManager(), 100,
	)
	require.NoError(t, err)

	repoManagers := []repoManager{
		{Name: "inmemory", Manager: inmemory.NewRepoManager()},
		{Name: "badger", Manager: badgerRepoManager},
		{Name: "sqlite", Manager: sqliteRepoManager},
		{Name: "cache", Manager: cachedRepoManager},
	}

	if dsn := os.Getenv(pgDsnEnvVar); len(dsn) > 0 {
		pgRepoManager, err := setupPgRepoManager(dsn)
		require.NoError(t, err)
		repoManagers = append(repoManagers, repoManager{
			Name: "postgres", Manager: pgRepoManager,
		})
	}

	t.Cleanup(func() {
		for _, rm := range repoManagers {
			rm.Manager.Close()
		}
	})

	return repoManagers
}

func makeRandomCommitment(t *testing.T) *domain.Commitment {
	return makeRandomCommitmentFor(t, randomAddress(), randomAddress())
}

func makeRandomCommitmentFor(
	t *testing.T, sender, recipient string,
) *domain.Commitment {
	t.Helper()

	amount := decimal.New(int64(randomIntInRange(1, 1000000)), -6)
	commitment, err := domain.NewCommitment(
		sender, recipient, amount, "ETH", randomTimestamp(),
	)
	require.NoError(t, err)
	return commitment
}

func randomAddress() string {
	return domain.AddressPrefix + randomHex(20)
}

func randomTimestamp() int64 {
	return int64(randomIntInRange(1000000000, 1662688000))
}

func randomHex(len int) string {
	return hex.EncodeToString(randomBytes(len))
}

func randomBytes(len int) []byte {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return b
}

func randomIntInRange(min, max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max-min)))
	return int(n.Int64()) + min
}
