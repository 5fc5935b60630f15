package domain

import "context"

// ParticipantRepository is the abstraction for any kind of database intended
// to persist Participants. Write methods create the participant if missing.
type ParticipantRepository interface {
	AddSent(ctx context.Context, address string, at int64) error
	AddReceived(ctx context.Context, address string, at int64) error
	Touch(ctx context.Context, address string, at int64) error
	GetParticipant(ctx context.Context, address string) (*Participant, error)
}
