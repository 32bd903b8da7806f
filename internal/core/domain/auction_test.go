package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		stored  AuctionStatus
		startAt time.Time
		endAt   time.Time
		want    AuctionStatus
	}{
		{
			name:    "before start window",
			stored:  StatusBeforeStart,
			startAt: now.Add(time.Hour),
			endAt:   now.Add(2 * time.Hour),
			want:    StatusBeforeStart,
		},
		{
			name:    "inside window",
			stored:  StatusOnGoing,
			startAt: now.Add(-time.Hour),
			endAt:   now.Add(time.Hour),
			want:    StatusOnGoing,
		},
		{
			name:    "past end but not yet swept reads as lapsed",
			stored:  StatusOnGoing,
			startAt: now.Add(-2 * time.Hour),
			endAt:   now.Add(-time.Second),
			want:    StatusEndWithoutBid,
		},
		{
			name:    "stored BEFORE_START already due reads as ongoing",
			stored:  StatusBeforeStart,
			startAt: now.Add(-time.Minute),
			endAt:   now.Add(time.Hour),
			want:    StatusOnGoing,
		},
		{
			name:    "completed stays completed regardless of window",
			stored:  StatusBidCompleted,
			startAt: now.Add(time.Hour),
			endAt:   now.Add(2 * time.Hour),
			want:    StatusBidCompleted,
		},
		{
			name:    "lapsed stays lapsed",
			stored:  StatusEndWithoutBid,
			startAt: now.Add(-time.Hour),
			endAt:   now.Add(time.Hour),
			want:    StatusEndWithoutBid,
		},
		{
			name:    "cancelled stays cancelled",
			stored:  StatusCancelled,
			startAt: now.Add(-time.Hour),
			endAt:   now.Add(time.Hour),
			want:    StatusCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Auction{StartAt: tt.startAt, EndAt: tt.endAt, Status: tt.stored}
			require.Equal(t, tt.want, EffectiveStatus(a, now))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	require.False(t, StatusBeforeStart.IsTerminal())
	require.False(t, StatusOnGoing.IsTerminal())
	require.True(t, StatusBidCompleted.IsTerminal())
	require.True(t, StatusEndWithoutBid.IsTerminal())
	require.True(t, StatusCancelled.IsTerminal())
}

func TestCancelReasonValid(t *testing.T) {
	require.True(t, ReasonItemDamaged.Valid())
	require.True(t, ReasonPriceMistake.Valid())
	require.True(t, ReasonSimpleChangeOfMind.Valid())
	require.False(t, CancelReason("GOT_BORED").Valid())
}
