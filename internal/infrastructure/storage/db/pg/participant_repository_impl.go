package postgresdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

const (
	upsertParticipantQuery = `INSERT INTO participant (address, total_sent,
	total_received, first_seen, last_activity) VALUES ($1, $2, $3, $4, $4)
	ON CONFLICT (address) DO UPDATE SET
	total_sent = participant.total_sent + EXCLUDED.total_sent,
	total_received = participant.total_received + EXCLUDED.total_received,
	last_activity = GREATEST(participant.last_activity, EXCLUDED.last_activity)`

	selectParticipantQuery = `SELECT ` + participantColumns + `
	FROM participant WHERE address = $1`
)

type participantRepositoryImpl struct {
	pgxPool *pgxpool.Pool
}

func NewParticipantRepositoryImpl(
	pgxPool *pgxpool.Pool,
) domain.ParticipantRepository {
	return &participantRepositoryImpl{pgxPool}
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
	participant, err := scanParticipant(p.pgxPool.QueryRow(
		ctx, selectParticipantQuery, domain.NormalizeAddress(address),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, err
	}
	return participant, nil
}

// upsert relies on ON CONFLICT to increment counters atomically.
func (p *participantRepositoryImpl) upsert(
	ctx context.Context, address string, sent, received, at int64,
) error {
	_, err := p.pgxPool.Exec(
		ctx, upsertParticipantQuery,
		domain.NormalizeAddress(address), sent, received, at,
	)
	return err
}
