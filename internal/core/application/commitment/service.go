package commitment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
	"github.com/invisible-transfer/invisible-daemon/internal/core/ports"
	"github.com/invisible-transfer/invisible-daemon/internal/metrics"
)

const (
	opGenerate        = "generate"
	opVerifyRecipient = "verify_recipient"
	opGetStatus       = "get_status"
	opListPending     = "list_pending"
	opClaim           = "claim"
	opCancel          = "cancel"
	opListAll         = "list_all"
	opGetStats        = "get_stats"
	opGetParticipant  = "get_participant"
)

type Service struct {
	repoManager ports.RepoManager
	now         func() time.Time
}

// NewService returns the commitment service. The given clock is used to
// timestamp commitments and transitions, time.Now is used if nil.
func NewService(
	repoManager ports.RepoManager, now func() time.Time,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if now == nil {
		now = time.Now
	}
	return &Service{repoManager, now}, nil
}

// GenerateCommitment creates a new pending commitment and stores it.
func (s *Service) GenerateCommitment(
	ctx context.Context,
	sender, recipient string, amount decimal.Decimal, token string,
) (commitment *domain.Commitment, err error) {
	defer observe(opGenerate, &err, time.Now())

	timestamp := s.now().Unix()
	commitment, err = domain.NewCommitment(
		sender, recipient, amount, token, timestamp,
	)
	if err != nil {
		return nil, err
	}

	if err = s.repoManager.CommitmentRepository().AddPendingCommitment(
		ctx, commitment,
	); err != nil {
		if errors.Is(err, domain.ErrDuplicateHash) {
			log.WithField("hash", commitment.Hash).Error(
				"commitment hash collision",
			)
		}
		return nil, err
	}

	log.WithField("hash", commitment.Hash).Debug("added pending commitment")

	participants := s.repoManager.ParticipantRepository()
	s.bookkeep(
		"sender", commitment.Sender,
		participants.AddSent(ctx, commitment.Sender, timestamp),
	)
	s.bookkeep(
		"recipient", commitment.Recipient,
		participants.Touch(ctx, commitment.Recipient, timestamp),
	)

	return commitment, nil
}

// VerifyRecipient reports whether the commitment identified by hash is still
// pending and addressed to recipient. Unknown and no longer pending
// commitments are reported as invalid alike.
func (s *Service) VerifyRecipient(
	ctx context.Context, hash, recipient string,
) (verification *ports.Verification, err error) {
	defer observe(opVerifyRecipient, &err, time.Now())

	if !domain.IsValidAddress(recipient) {
		return nil, domain.ErrInvalidAddress
	}

	commitment, err := s.repoManager.CommitmentRepository().GetCommitment(
		ctx, normalizeHash(hash),
	)
	if err != nil {
		if errors.Is(err, domain.ErrCommitmentNotFound) {
			return &ports.Verification{}, nil
		}
		return nil, err
	}

	if !commitment.IsPending() || !commitment.IsRecipient(recipient) {
		return &ports.Verification{}, nil
	}

	return &ports.Verification{
		Valid:  true,
		Amount: commitment.Amount,
		Token:  commitment.Token,
	}, nil
}

// VerifyOpening reports whether the given opening hashes to hash. It does
// not consult the store.
func (s *Service) VerifyOpening(
	_ context.Context, hash string, opening domain.Opening,
) (bool, error) {
	if !domain.IsValidAddress(opening.Sender) ||
		!domain.IsValidAddress(opening.Recipient) {
		return false, domain.ErrInvalidAddress
	}
	return opening.Hash() == normalizeHash(hash), nil
}

// GetStatus returns the commitment identified by hash, whatever its status.
func (s *Service) GetStatus(
	ctx context.Context, hash string,
) (commitment *domain.Commitment, err error) {
	defer observe(opGetStatus, &err, time.Now())

	return s.repoManager.CommitmentRepository().GetCommitment(
		ctx, normalizeHash(hash),
	)
}

// ListPending returns the pending commitments addressed to recipient in
// insertion order.
func (s *Service) ListPending(
	ctx context.Context, recipient string,
) (commitments []domain.Commitment, err error) {
	defer observe(opListPending, &err, time.Now())

	if !domain.IsValidAddress(recipient) {
		return nil, domain.ErrInvalidAddress
	}

	return s.repoManager.CommitmentRepository().
		GetPendingCommitmentsForRecipient(ctx, recipient)
}

// Claim moves the pending commitment identified by hash to the claimed
// status. Only its recipient is allowed to claim it.
func (s *Service) Claim(
	ctx context.Context, hash, claimer string,
) (commitment *domain.Commitment, err error) {
	defer observe(opClaim, &err, time.Now())

	if !domain.IsValidAddress(claimer) {
		return nil, domain.ErrInvalidAddress
	}

	hash = normalizeHash(hash)
	repo := s.repoManager.CommitmentRepository()
	current, err := repo.GetCommitment(ctx, hash)
	if err != nil {
		return nil, err
	}

	claimedAt := s.now().Unix()
	// Dry-run the transition on a copy to fail with the proper status error
	// before checking the claimer.
	dryRun := *current
	if err = dryRun.Claim(claimedAt); err != nil {
		return nil, err
	}
	if !current.IsRecipient(claimer) {
		return nil, domain.ErrNotRecipient
	}

	commitment, err = repo.ClaimCommitment(ctx, hash, claimedAt)
	if err != nil {
		return nil, err
	}

	log.WithField("hash", hash).Debug("commitment claimed")

	s.bookkeep(
		"recipient", commitment.Recipient,
		s.repoManager.ParticipantRepository().AddReceived(
			ctx, commitment.Recipient, claimedAt,
		),
	)

	return commitment, nil
}

// Cancel moves the pending commitment identified by hash to the cancelled
// status. Only its sender is allowed to cancel it.
func (s *Service) Cancel(
	ctx context.Context, hash, sender string,
) (commitment *domain.Commitment, err error) {
	defer observe(opCancel, &err, time.Now())

	if !domain.IsValidAddress(sender) {
		return nil, domain.ErrInvalidAddress
	}

	hash = normalizeHash(hash)
	repo := s.repoManager.CommitmentRepository()
	current, err := repo.GetCommitment(ctx, hash)
	if err != nil {
		return nil, err
	}

	cancelledAt := s.now().Unix()
	dryRun := *current
	if err = dryRun.Cancel(cancelledAt); err != nil {
		return nil, err
	}
	if !current.IsSender(sender) {
		return nil, domain.ErrNotSender
	}

	commitment, err = repo.CancelCommitment(ctx, hash, cancelledAt)
	if err != nil {
		return nil, err
	}

	log.WithField("hash", hash).Debug("commitment cancelled")

	s.bookkeep(
		"sender", commitment.Sender,
		s.repoManager.ParticipantRepository().Touch(
			ctx, commitment.Sender, cancelledAt,
		),
	)

	return commitment, nil
}

// ListCommitments returns a page of all stored commitments, newest first.
func (s *Service) ListCommitments(
	ctx context.Context, page domain.Page,
) (commitments []domain.Commitment, err error) {
	defer observe(opListAll, &err, time.Now())

	return s.repoManager.CommitmentRepository().GetCommitments(ctx, page)
}

// GetStats counts the commitments by status.
func (s *Service) GetStats(
	ctx context.Context,
) (stats *domain.CommitmentStats, err error) {
	defer observe(opGetStats, &err, time.Now())

	return s.repoManager.CommitmentRepository().GetCommitmentStats(ctx)
}

// GetParticipantStats returns the activity of the given address. An address
// never seen before has zeroed stats.
func (s *Service) GetParticipantStats(
	ctx context.Context, address string,
) (participant *domain.Participant, err error) {
	defer observe(opGetParticipant, &err, time.Now())

	if !domain.IsValidAddress(address) {
		return nil, domain.ErrInvalidAddress
	}

	participant, err = s.repoManager.ParticipantRepository().GetParticipant(
		ctx, address,
	)
	if err != nil {
		if errors.Is(err, domain.ErrParticipantNotFound) {
			return &domain.Participant{
				Address: domain.NormalizeAddress(address),
			}, nil
		}
		return nil, err
	}
	return participant, nil
}

// bookkeep logs a failed participant update. The commitment is already
// stored at this point, so the failure is not returned.
func (s *Service) bookkeep(role, address string, err error) {
	if err == nil {
		return
	}
	log.WithError(err).WithFields(log.Fields{
		"role":    role,
		"address": address,
	}).Warn("cannot update participant stats")
}

func normalizeHash(hash string) string {
	return strings.ToLower(strings.TrimSpace(hash))
}

func observe(operation string, err *error, started time.Time) {
	metrics.ObserveCommitmentOperation(operation, *err, started)
}
