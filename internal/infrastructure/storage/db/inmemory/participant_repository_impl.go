package inmemory

import (
	"context"
	"sync"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

type participantRepositoryImpl struct {
	participants map[string]domain.Participant
	lock         *sync.RWMutex
}

// NewParticipantRepositoryImpl returns a new empty inmemory
// ParticipantRepository implementation.
func NewParticipantRepositoryImpl() domain.ParticipantRepository {
	return &participantRepositoryImpl{
		participants: make(map[string]domain.Participant),
		lock:         &sync.RWMutex{},
	}
}

func (r *participantRepositoryImpl) AddSent(
	_ context.Context, address string, at int64,
) error {
	return r.update(address, at, func(p *domain.Participant) { p.AddSent(at) })
}

func (r *participantRepositoryImpl) AddReceived(
	_ context.Context, address string, at int64,
) error {
	return r.update(address, at, func(p *domain.Participant) { p.AddReceived(at) })
}

func (r *participantRepositoryImpl) Touch(
	_ context.Context, address string, at int64,
) error {
	return r.update(address, at, func(p *domain.Participant) { p.Touch(at) })
}

func (r *participantRepositoryImpl) GetParticipant(
	_ context.Context, address string,
) (*domain.Participant, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	participant, ok := r.participants[domain.NormalizeAddress(address)]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	return &participant, nil
}

func (r *participantRepositoryImpl) update(
	address string, at int64, updateFn func(p *domain.Participant),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	key := domain.NormalizeAddress(address)
	participant, ok := r.participants[key]
	if !ok {
		participant = *domain.NewParticipant(key, at)
	}
	updateFn(&participant)
	r.participants[key] = participant
	return nil
}
