package postgresdb

import (
	"github.com/jackc/pgx/v4"
	"github.com/shopspring/decimal"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

const commitmentColumns = `id, hash, sender, recipient, amount, token, salt,
	timestamp, status, claimed_at, cancelled_at, created_at`

const participantColumns = `address, total_sent, total_received, first_seen,
	last_activity`

func scanCommitment(row pgx.Row) (*domain.Commitment, error) {
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

func scanCommitments(rows pgx.Rows) ([]domain.Commitment, error) {
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

func scanParticipant(row pgx.Row) (*domain.Participant, error) {
	var (
		p              domain.Participant
		sent, received int64
	)
	if err := row.Scan(
		&p.Address, &sent, &received, &p.FirstSeen, &p.LastActivity,
	); err != nil {
		return nil, err
	}
	p.TotalSent = uint64(sent)
	p.TotalReceived = uint64(received)
	return &p, nil
}

func parsePage(page domain.Page) (interface{}, int) {
	if page.Size <= 0 {
		return nil, 0
	}
	return page.Size, page.Offset()
}
