package postgresdb

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

const (
	insertCommitmentQuery = `INSERT INTO commitment (hash, sender, recipient,
	amount, token, salt, timestamp, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`

	selectCommitmentQuery = `SELECT ` + commitmentColumns + `
	FROM commitment WHERE hash = $1`

	selectCommitmentForUpdateQuery = selectCommitmentQuery + ` FOR UPDATE`

	selectPendingCommitmentsQuery = `SELECT ` + commitmentColumns + `
	FROM commitment WHERE recipient = $1 AND status = $2 ORDER BY id ASC`

	selectCommitmentsQuery = `SELECT ` + commitmentColumns + `
	FROM commitment ORDER BY id DESC LIMIT $1 OFFSET $2`

	updateCommitmentStatusQuery = `UPDATE commitment SET status = $2,
	claimed_at = $3, cancelled_at = $4 WHERE hash = $1`

	countCommitmentsQuery = `SELECT status, COUNT(*) FROM commitment
	GROUP BY status`
)

type commitmentRepositoryImpl struct {
	pgxPool *pgxpool.Pool
	execTx  func(ctx context.Context, txBody func(pgx.Tx) error) error
}

func NewCommitmentRepositoryImpl(
	pgxPool *pgxpool.Pool,
	execTx func(ctx context.Context, txBody func(pgx.Tx) error) error,
) domain.CommitmentRepository {
	return &commitmentRepositoryImpl{
		pgxPool: pgxPool,
		execTx:  execTx,
	}
}

func (c *commitmentRepositoryImpl) AddPendingCommitment(
	ctx context.Context, commitment *domain.Commitment,
) error {
	createdAt := time.Now().Unix()

	var id int64
	if err := c.pgxPool.QueryRow(
		ctx, insertCommitmentQuery,
		commitment.Hash, commitment.Sender, commitment.Recipient,
		commitment.Amount.String(), commitment.Token, commitment.Salt,
		commitment.Timestamp, domain.CommitmentStatusPending.String(),
		createdAt,
	).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateHash
		}
		return err
	}

	commitment.ID = uint64(id)
	commitment.CreatedAt = createdAt
	commitment.Status = domain.CommitmentStatusPending
	return nil
}

func (c *commitmentRepositoryImpl) GetCommitment(
	ctx context.Context, hash string,
) (*domain.Commitment, error) {
	commitment, err := scanCommitment(
		c.pgxPool.QueryRow(ctx, selectCommitmentQuery, hash),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCommitmentNotFound
		}
		return nil, err
	}
	return commitment, nil
}

func (c *commitmentRepositoryImpl) GetPendingCommitmentsForRecipient(
	ctx context.Context, recipient string,
) ([]domain.Commitment, error) {
	rows, err := c.pgxPool.Query(
		ctx, selectPendingCommitmentsQuery,
		domain.NormalizeAddress(recipient),
		domain.CommitmentStatusPending.String(),
	)
	if err != nil {
		return nil, err
	}
	return scanCommitments(rows)
}

func (c *commitmentRepositoryImpl) ClaimCommitment(
	ctx context.Context, hash string, claimedAt int64,
) (*domain.Commitment, error) {
	return c.updateCommitment(
		ctx, hash, func(commitment *domain.Commitment) error {
			return commitment.Claim(claimedAt)
		},
	)
}

func (c *commitmentRepositoryImpl) CancelCommitment(
	ctx context.Context, hash string, cancelledAt int64,
) (*domain.Commitment, error) {
	return c.updateCommitment(
		ctx, hash, func(commitment *domain.Commitment) error {
			return commitment.Cancel(cancelledAt)
		},
	)
}

func (c *commitmentRepositoryImpl) GetCommitments(
	ctx context.Context, page domain.Page,
) ([]domain.Commitment, error) {
	limit, offset := parsePage(page)
	rows, err := c.pgxPool.Query(ctx, selectCommitmentsQuery, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanCommitments(rows)
}

func (c *commitmentRepositoryImpl) GetCommitmentStats(
	ctx context.Context,
) (*domain.CommitmentStats, error) {
	rows, err := c.pgxPool.Query(ctx, countCommitmentsQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.CommitmentStats{}
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch domain.CommitmentStatus(status) {
		case domain.CommitmentStatusPending:
			stats.Pending = uint64(count)
		case domain.CommitmentStatusClaimed:
			stats.Claimed = uint64(count)
		case domain.CommitmentStatusCancelled:
			stats.Cancelled = uint64(count)
		}
	}
	return stats, rows.Err()
}

// updateCommitment locks the row of the given commitment for the duration of
// the tx so that concurrent transitions are serialized.
func (c *commitmentRepositoryImpl) updateCommitment(
	ctx context.Context, hash string,
	updateFn func(commitment *domain.Commitment) error,
) (*domain.Commitment, error) {
	var updated *domain.Commitment

	txBody := func(tx pgx.Tx) error {
		commitment, err := scanCommitment(
			tx.QueryRow(ctx, selectCommitmentForUpdateQuery, hash),
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrCommitmentNotFound
			}
			return err
		}

		if err := updateFn(commitment); err != nil {
			return err
		}

		if _, err := tx.Exec(
			ctx, updateCommitmentStatusQuery, hash,
			commitment.Status.String(), commitment.ClaimedAt,
			commitment.CancelledAt,
		); err != nil {
			return err
		}

		updated = commitment
		return nil
	}

	if err := c.execTx(ctx, txBody); err != nil {
		return nil, err
	}
	return updated, nil
}
