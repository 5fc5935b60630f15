package sqlitedb

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

const commitmentColumns = `id, hash, sender, recipient, amount, token, salt,
	timestamp, status, claimed_at, cancelled_at, created_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCommitment(row scanner) (*domain.Commitment, error) {
	var (
		c      domain.Commitment
		id     int64
		amount string
		status string
	)
	if err := row.Scan(
		&id, &c.Hash, &c.Sender, &c.Recipient, &amount, &c.Token, &c.Salt,
		&c.Timestamp, &status, &c.ClaimedAt, &c.CancelledAt, &c.CreatedAt,
	); err != nil {
		return nil, err
	}

	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	c.ID = uint64(id)
	c.Amount = parsedAmount
	c.Status = domain.CommitmentStatus(status)

	return &c, nil
}

func scanCommitments(rows *sql.Rows) ([]domain.Commitment, error) {
	defer rows.Close()

	commitments := make([]domain.Commitment, 0)
	for rows.Next() {
		c, err := scanCommitment(rows)
		if err != nil {
			return nil, err
		}
		commitments = append(commitments, *c)
	}

	return commitments, rows.Err()
}

// parsePage maps a page to LIMIT/OFFSET values, -1 meaning no limit.
func parsePage(page domain.Page) (int, int) {
	if page.Size <= 0 {
		return -1, 0
	}
	return page.Size, page.Offset()
}
