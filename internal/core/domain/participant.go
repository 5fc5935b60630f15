package domain

// Participant keeps track of how many commitments an address sent and
// received.
type Participant struct {
	Address       string
	TotalSent     uint64
	TotalReceived uint64
	FirstSeen     int64
	LastActivity  int64
}

// NewParticipant returns a participant with zeroed counters.
func NewParticipant(address string, seenAt int64) *Participant {
	return &Participant{
		Address:      NormalizeAddress(address),
		FirstSeen:    seenAt,
		LastActivity: seenAt,
	}
}

// AddSent increments the number of commitments created by the participant.
func (p *Participant) AddSent(at int64) {
	p.TotalSent++
	p.Touch(at)
}

// AddReceived increments the number of commitments claimed by the
// participant.
func (p *Participant) AddReceived(at int64) {
	p.TotalReceived++
	p.Touch(at)
}

// Touch updates the last activity time, never moving it backwards.
func (p *Participant) Touch(at int64) {
	if at > p.LastActivity {
		p.LastActivity = at
	}
}
