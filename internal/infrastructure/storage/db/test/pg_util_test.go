package db_test

import (
	"database/sql"

	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
	postgresdb "github.com/invisible-transfer/invisible-daemon/internal/infrastructure/storage/db/pg"
)

const (
	pgDsnEnvVar        = "INVISIBLE_TEST_PG_DSN"
	pgMigrationSource  = "file://../pg/migration"
	truncateTablesStmt = "TRUNCATE TABLE commitment, participant RESTART IDENTITY"
)

// setupPgRepoManager migrates the db at dsn and empties its tables, so that
// every test starts from a clean state.
func setupPgRepoManager(dsn string) (ports.RepoManager, error) {
	svc, err := postgresdb.NewService(postgresdb.DbConfig{
		DataSourceURL:      dsn,
		MigrationSourceURL: pgMigrationSource,
	})
	if err != nil {
		return nil, err
	}

	if err := truncateDB(dsn); err != nil {
		svc.Close()
		return nil, err
	}

	return svc, nil
}

func truncateDB(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, truncateTablesStmt)
	return err
}
