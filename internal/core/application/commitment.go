package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invisible-transfer/invisible-daemon/internal/core/application/commitment"
	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
)

type CommitmentService interface {
	GenerateCommitment(
		ctx context.Context,
		sender, recipient string, amount decimal.Decimal, token string,
	) (*domain.Commitment, error)
	VerifyRecipient(
		ctx context.Context, hash, recipient string,
	) (*ports.Verification, error)
	VerifyOpening(
		ctx context.Context, hash string, opening domain.Opening,
	) (bool, error)
	GetStatus(ctx context.Context, hash string) (*domain.Commitment, error)
	ListPending(
		ctx context.Context, recipient string,
	) ([]domain.Commitment, error)
	Claim(ctx context.Context, hash, claimer string) (*domain.Commitment, error)
	Cancel(ctx context.Context, hash, sender string) (*domain.Commitment, error)
	ListCommitments(
		ctx context.Context, page domain.Page,
	) ([]domain.Commitment, error)
	GetStats(ctx context.Context) (*domain.CommitmentStats, error)
	GetParticipantStats(
		ctx context.Context, address string,
	) (*domain.Participant, error)
}

func NewCommitmentService(
	repoManager ports.RepoManager, now func() time.Time,
) (CommitmentService, error) {
	svc, err := commitment.NewService(repoManager, now)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
