package application

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
	krakenquoter "github.com/invisible-transfer/invisible-daemon/internal/infrastructure/quoter/kraken"
	simulatedquoter "github.com/invisible-transfer/invisible-daemon/internal/infrastructure/quoter/simulated"
	dbbadger "github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/badger"
	dbcache "github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/cache"
	"github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/pg"
	sqlitedb "github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/sqlite"
)

const (
	DBInMemory = "inmemory"
	DBBadger   = "badger"
	DBPostgres = "postgres"
	DBSqlite   = "sqlite"

	QuoterSimulated = "simulated"
	QuoterKraken    = "kraken"
)

var (
	SupportedDBType = map[string]struct{}{
		DBInMemory: {},
		DBBadger:   {},
		DBPostgres: {},
		DBSqlite:   {},
	}
	SupportedQuoterType = map[string]struct{}{
		QuoterSimulated: {},
		QuoterKraken:    {},
	}
)

type Config struct {
	// DBConfig is the datadir for badger and sqlite, a postgresdb.DbConfig
	// for postgres and unused for inmemory.
	DBType    string
	DBConfig  interface{}
	CacheSize int64

	QuoterType       string
	KrakenURL        string
	KrakenPairs      []string
	QuotePriceImpact decimal.Decimal
	QuoteRateLimit   int
	HookAddress      string

	// Clock is used to timestamp commitments, time.Now if nil.
	Clock func() time.Time

	repo       ports.RepoManager
	quoter     ports.Quoter
	commitment CommitmentService
	quote      QuoteService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("unsupported db type %s", c.DBType)
	}
	if _, ok := SupportedQuoterType[c.QuoterType]; !ok {
		return fmt.Errorf("unsupported quoter type %s", c.QuoterType)
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	if _, err := c.quoteService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	svc, _ := c.repoManager()
	return svc
}

func (c *Config) CommitmentService() CommitmentService {
	svc, _ := c.commitmentService()
	return svc
}

func (c *Config) QuoteService() QuoteService {
	svc, _ := c.quoteService()
	return svc
}

// Close releases the quoter and the repo manager, if initialized.
func (c *Config) Close() {
	if c.quote != nil {
		c.quote.Close()
	} else if c.quoter != nil {
		c.quoter.Close()
	}
	if c.repo != nil {
		c.repo.Close()
	}
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		var (
			repoManager ports.RepoManager
			err         error
		)

		switch c.DBType {
		case DBInMemory:
			repoManager = inmemory.NewRepoManager()
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err = dbbadger.NewRepoManager(datadir, log.StandardLogger())
		case DBSqlite:
			datadir, _ := c.DBConfig.(string)
			repoManager, err = sqlitedb.NewRepoManager(datadir)
		case DBPostgres:
			dbConfig, ok := c.DBConfig.(postgresdb.DbConfig)
			if !ok {
				return nil, fmt.Errorf("invalid postgres db config")
			}
			repoManager, err = postgresdb.NewService(dbConfig)
		default:
			return nil, fmt.Errorf("unsupported db type %s", c.DBType)
		}
		if err != nil {
			return nil, err
		}

		if c.CacheSize > 0 {
			cachedRepoManager, err := dbcache.NewRepoManager(
				repoManager, c.CacheSize,
			)
			if err != nil {
				repoManager.Close()
				return nil, err
			}
			repoManager = cachedRepoManager
		}

		c.repo = repoManager
	}
	return c.repo, nil
}

func (c *Config) quoterService() (ports.Quoter, error) {
	if c.quoter == nil {
		var (
			quoter ports.Quoter
			err    error
		)

		switch c.QuoterType {
		case QuoterSimulated:
			quoter, err = simulatedquoter.NewQuoter(
				c.QuotePriceImpact, c.HookAddress,
			)
		case QuoterKraken:
			quoter, err = krakenquoter.NewQuoter(
				c.KrakenURL, c.KrakenPairs, c.QuotePriceImpact, c.HookAddress,
			)
		default:
			return nil, fmt.Errorf("unsupported quoter type %s", c.QuoterType)
		}
		if err != nil {
			return nil, err
		}

		c.quoter = quoter
	}
	return c.quoter, nil
}

func (c *Config) commitmentService() (CommitmentService, error) {
	if c.commitment == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		svc, err := NewCommitmentService(repo, c.Clock)
		if err != nil {
			return nil, err
		}
		c.commitment = svc
	}
	return c.commitment, nil
}

func (c *Config) quoteService() (QuoteService, error) {
	if c.quote == nil {
		quoter, err := c.quoterService()
		if err != nil {
			return nil, err
		}
		svc, err := NewQuoteService(quoter, c.QuoteRateLimit)
		if err != nil {
			return nil, err
		}
		c.quote = svc
	}
	return c.quote, nil
}
