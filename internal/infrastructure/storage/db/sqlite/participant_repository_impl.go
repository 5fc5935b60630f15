package sqlitedb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

const (
	upsertParticipantQuery = `INSERT INTO participant (address, total_sent,
	total_received, first_seen, last_activity) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(address) DO UPDATE SET
	total_sent = total_sent + excluded.total_sent,
	total_received = total_received + excluded.total_received,
	last_activity = MAX(last_activity, excluded.last_activity)`

	selectParticipantQuery = `SELECT address, total_sent, total_received,
	first_seen, last_activity FROM participant WHERE address = ?`
)

type participantRepositoryImpl struct {
	db *sql.DB
}

func NewParticipantRepositoryImpl(db *sql.DB) domain.ParticipantRepository {
	return &participantRepositoryImpl{db}
}

func (p *participantRepositoryImpl) AddSent(
	ctx context.Context, address string, at int64,
) error {
	return p.upsert(ctx, address, 1, 0, at)
}

func (p *participantRepositoryImpl) AddReceived(
	ctx context.Context, address string, at int64,
) error {
	return p.upsert(ctx, address, 0, 1, at)
}

func (p *participantRepositoryImpl) Touch(
	ctx context.Context, address string, at int64,
) error {
	return p.upsert(ctx, address, 0, 0, at)
}

func (p *participantRepositoryImpl) GetParticipant(
	ctx context.Context, address string,
) (*domain.Participant, error) {
	var (
		participant    domain.Participant
		sent, received int64
	)
	if err := p.db.QueryRowContext(
		ctx, selectParticipantQuery, domain.NormalizeAddress(address),
	).Scan(
		&participant.Address, &sent, &received, &participant.FirstSeen,
		&participant.LastActivity,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, err
	}

	participant.TotalSent = uint64(sent)
	participant.TotalReceived = uint64(received)
	return &participant, nil
}

func (p *participantRepositoryImpl) upsert(
	ctx context.Context, address string, sent, received, at int64,
) error {
	_, err := p.db.ExecContext(
		ctx, upsertParticipantQuery,
		domain.NormalizeAddress(address), sent, received, at, at,
	)
	return err
}
