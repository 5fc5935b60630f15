package ports

import "github.com/invisible-transfer/invisible-daemon/internal/core/domain"

// RepoManager interface defines the methods to access the repositories of
// every kind of entity handled by the daemon.
type RepoManager interface {
	CommitmentRepository() domain.CommitmentRepository
	ParticipantRepository() domain.ParticipantRepository

	Close()
}
