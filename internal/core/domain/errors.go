package domain

import "errors"

// Validation errors
var (
	// ErrInvalidAddress is returned if a participant address is not made of
	// the 0x prefix followed by exactly 40 hex digits.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidAmount is returned if the amount to commit is not strictly
	// positive or exceeds the supported precision.
	ErrInvalidAmount = errors.New(
		"amount must be greater than zero and within supported precision",
	)
	// ErrInvalidToken is returned if the token is empty or contains the
	// payload separator.
	ErrInvalidToken = errors.New("invalid token")
)

// Commitment errors
var (
	// ErrDuplicateHash is returned when storing a commitment whose hash is
	// already known.
	ErrDuplicateHash = errors.New("commitment hash already exists")
	// ErrCommitmentNotFound ...
	ErrCommitmentNotFound = errors.New("commitment not found")
	// ErrCommitmentAlreadyClaimed ...
	ErrCommitmentAlreadyClaimed = errors.New("commitment already claimed")
	// ErrCommitmentAlreadyCancelled ...
	ErrCommitmentAlreadyCancelled = errors.New("commitment already cancelled")
	// ErrCommitmentNotPending is returned when a transition is requested on a
	// commitment that reached a different terminal status.
	ErrCommitmentNotPending = errors.New("commitment is not pending")
	// ErrNotRecipient is returned if the claimer is not the recipient of the
	// commitment.
	ErrNotRecipient = errors.New("claimer is not the recipient of this commitment")
	// ErrNotSender is returned if the canceller is not the sender of the
	// commitment.
	ErrNotSender = errors.New("canceller is not the sender of this commitment")
)

// Participant errors
var (
	// ErrParticipantNotFound ...
	ErrParticipantNotFound = errors.New("participant not found")
)
