package inmemory

import (
	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
)

type RepoManager struct {
	commitmentRepository  domain.CommitmentRepository
	participantRepository domain.ParticipantRepository
}

func NewRepoManager() ports.RepoManager {
	return &RepoManager{
		commitmentRepository:  NewCommitmentRepositoryImpl(),
		participantRepository: NewParticipantRepositoryImpl(),
	}
}

func (d *RepoManager) CommitmentRepository() domain.CommitmentRepository {
	return d.commitmentRepository
}

func (d *RepoManager) ParticipantRepository() domain.ParticipantRepository {
	return d.participantRepository
}

func (d *RepoManager) Close() {}
