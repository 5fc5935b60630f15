package dbbadger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

type participantRepositoryImpl struct {
	store *badgerhold.Store
}

// NewParticipantRepositoryImpl initialize a badger implementation of the
// domain.ParticipantRepository.
func NewParticipantRepositoryImpl(
	store *badgerhold.Store,
) domain.ParticipantRepository {
	return &participantRepositoryImpl{store}
}

func (r *participantRepositoryImpl) AddSent(
	ctx context.Context, address string, at int64,
) error {
	return r.upsertParticipant(ctx, address, at, func(p *domain.Participant) {
		p.AddSent(at)
	})
}

func (r *participantRepositoryImpl) AddReceived(
	ctx context.Context, address string, at int64,
) error {
	return r.upsertParticipant(ctx, address, at, func(p *domain.Participant) {
		p.AddReceived(at)
	})
}

func (r *participantRepositoryImpl) Touch(
	ctx context.Context, address string, at int64,
) error {
	return r.upsertParticipant(ctx, address, at, func(p *domain.Participant) {
		p.Touch(at)
	})
}

func (r *participantRepositoryImpl) GetParticipant(
	_ context.Context, address string,
) (*domain.Participant, error) {
	var participant domain.Participant
	if err := r.store.Get(
		domain.NormalizeAddress(address), &participant,
	); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrParticipantNotFound
		}
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepositoryImpl) upsertParticipant(
	ctx context.Context, address string, at int64,
	updateFn func(p *domain.Participant),
) error {
	key := domain.NormalizeAddress(address)

	return runTx(ctx, r.store, func(tx *badger.Txn) error {
		var participant domain.Participant
		err := r.store.TxGet(tx, key, &participant)
		if err != nil {
			if !errors.Is(err, badgerhold.ErrNotFound) {
				return err
			}
			participant = *domain.NewParticipant(key, at)
		}

		updateFn(&participant)
		return r.store.TxUpsert(tx, key, &participant)
	})
}
