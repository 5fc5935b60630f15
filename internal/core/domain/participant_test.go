package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/invisible-transfer/invisible-daemon/internal/core/domain"
)

func TestParticipant(t *testing.T) {
	t.Parallel()

	participant := domain.NewParticipant(sender, 100)
	require.Equal(t, domain.NormalizeAddress(sender), participant.Address)
	require.Equal(t, int64(100), participant.FirstSeen)

	participant.AddSent(110)
	participant.AddSent(105)
	participant.AddReceived(120)

	require.Equal(t, uint64(2), participant.TotalSent)
	require.Equal(t, uint64(1), participant.TotalReceived)
	require.Equal(t, int64(100), participant.FirstSeen)
	require.Equal(t, int64(120), participant.LastActivity)
}
