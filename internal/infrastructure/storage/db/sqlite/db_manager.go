package sqlitedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
)

const (
	sqliteDriver = "sqlite"
	dbFileName   = "commitments.sqlite"
	inMemoryDsn  = "file::memory:"
)

const schema = `
	CREATE TABLE IF NOT EXISTS commitment (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hash TEXT NOT NULL UNIQUE,
		sender TEXT NOT NULL,
		recipient TEXT NOT NULL,
		amount TEXT NOT NULL,
		token TEXT NOT NULL,
		salt TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		claimed_at INTEGER NOT NULL DEFAULT 0,
		cancelled_at INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,

		CHECK (status IN ('pending', 'claimed', 'cancelled'))
	);

	CREATE INDEX IF NOT EXISTS idx_commitment_recipient_status
		ON commitment(recipient, status);

	CREATE TABLE IF NOT EXISTS participant (
		address TEXT PRIMARY KEY,
		total_sent INTEGER NOT NULL DEFAULT 0,
		total_received INTEGER NOT NULL DEFAULT 0,
		first_seen INTEGER NOT NULL,
		last_activity INTEGER NOT NULL
	);
`

type repoManager struct {
	db *sql.DB

	commitmentRepository  domain.CommitmentRepository
	participantRepository domain.ParticipantRepository
}

// NewRepoManager opens (or creates if not exists) the sqlite db file inside
// the given dir. If the dir is empty the db is kept in memory.
func NewRepoManager(baseDbDir string) (ports.RepoManager, error) {
	dsn := inMemoryDsn
	if len(baseDbDir) > 0 {
		if err := os.MkdirAll(baseDbDir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		dsn = filepath.Join(baseDbDir, dbFileName)
	}

	db, err := sql.Open(sqliteDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection serializes writers and keeps an in-memory db alive.
	db.SetMaxOpenConns(1)

	if len(baseDbDir) > 0 {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	rm := &repoManager{db: db}
	rm.commitmentRepository = NewCommitmentRepositoryImpl(db, rm.execTx)
	rm.participantRepository = NewParticipantRepositoryImpl(db)

	log.Debugf("sqlite db initialized at %s", dsn)
	return rm, nil
}

func (r *repoManager) CommitmentRepository() domain.CommitmentRepository {
	return r.commitmentRepository
}

func (r *repoManager) ParticipantRepository() domain.ParticipantRepository {
	return r.participantRepository
}

func (r *repoManager) Close() {
	if err := r.db.Close(); err != nil {
		log.WithError(err).Warn("sqlite: cannot close db")
	}
}

func (r *repoManager) execTx(
	ctx context.Context, txBody func(*sql.Tx) error,
) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			log.Errorf("unable to rollback db tx: %v", err)
		}
	}()

	if err := txBody(tx); err != nil {
		return err
	}

	return tx.Commit()
}
