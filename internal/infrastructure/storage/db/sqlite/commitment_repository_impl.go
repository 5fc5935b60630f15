package sqlitedb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

const (
	insertCommitmentQuery = `INSERT INTO commitment (hash, sender, recipient,
	amount, token, salt, timestamp, status, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT(hash) DO NOTHING`

	selectCommitmentQuery = `SELECT ` + commitmentColumns + `
	FROM commitment WHERE hash = ?`

	selectPendingCommitmentsQuery = `SELECT ` + commitmentColumns + `
	FROM commitment WHERE recipient = ? AND status = ? ORDER BY id ASC`

	selectCommitmentsQuery = `SELECT ` + commitmentColumns + `
	FROM commitment ORDER BY id DESC LIMIT ? OFFSET ?`

	updateCommitmentStatusQuery = `UPDATE commitment SET status = ?,
	claimed_at = ?, cancelled_at = ? WHERE hash = ?`

	countCommitmentsQuery = `SELECT status, COUNT(*) FROM commitment
	GROUP BY status`
)

type commitmentRepositoryImpl struct {
	db     *sql.DB
	execTx func(ctx context.Context, txBody func(*sql.Tx) error) error
}

func NewCommitmentRepositoryImpl(
	db *sql.DB,
	execTx func(ctx context.Context, txBody func(*sql.Tx) error) error,
) domain.CommitmentRepository {
	return &commitmentRepositoryImpl{db, execTx}
}

func (c *commitmentRepositoryImpl) AddPendingCommitment(
	ctx context.Context, commitment *domain.Commitment,
) error {
	createdAt := time.Now().Unix()

	res, err := c.db.ExecContext(
		ctx, insertCommitmentQuery,
		commitment.Hash, commitment.Sender, commitment.Recipient,
		commitment.Amount.String(), commitment.Token, commitment.Salt,
		commitment.Timestamp, domain.CommitmentStatusPending.String(),
		createdAt,
	)
	if err != nil {
		return err
	}

	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrDuplicateHash
	}

	id, err := res.LastInsertId()
	if err != nil {
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
		c.db.QueryRowContext(ctx, selectCommitmentQuery, hash),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommitmentNotFound
		}
		return nil, err
	}
	return commitment, nil
}

func (c *commitmentRepositoryImpl) GetPendingCommitmentsForRecipient(
	ctx context.Context, recipient string,
) ([]domain.Commitment, error) {
	rows, err := c.db.QueryContext(
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
	rows, err := c.db.QueryContext(ctx, selectCommitmentsQuery, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanCommitments(rows)
}

func (c *commitmentRepositoryImpl) GetCommitmentStats(
	ctx context.Context,
) (*domain.CommitmentStats, error) {
	rows, err := c.db.QueryContext(ctx, countCommitmentsQuery)
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

func (c *commitmentRepositoryImpl) updateCommitment(
	ctx context.Context, hash string,
	updateFn func(commitment *domain.Commitment) error,
) (*domain.Commitment, error) {
	var updated *domain.Commitment

	txBody := func(tx *sql.Tx) error {
		commitment, err := scanCommitment(
			tx.QueryRowContext(ctx, selectCommitmentQuery, hash),
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrCommitmentNotFound
			}
			return err
		}

		if err := updateFn(commitment); err != nil {
			return err
		}

		if _, err := tx.ExecContext(
			ctx, updateCommitmentStatusQuery, commitment.Status.String(),
			commitment.ClaimedAt, commitment.CancelledAt, hash,
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
