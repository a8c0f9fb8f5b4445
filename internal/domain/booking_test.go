package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlocking(t *testing.T) {
	blocking := []BookingStatus{BookingConfirmed, BookingCompleted, BookingActive, BookingCancelPending}
	for _, s := range blocking {
		assert.True(t, s.Blocking(), string(s))
	}

	nonBlocking := []BookingStatus{BookingReservationPending, BookingPaymentPending, BookingCancelled}
	for _, s := range nonBlocking {
		assert.False(t, s.Blocking(), string(s))
	}

	assert.ElementsMatch(t, blocking, BlockingStatuses())
}

func TestCanTransitionTo(t *testing.T) {
	allowed := []struct {
		from, to BookingStatus
	}{
		{BookingReservationPending, BookingPaymentPending},
		{BookingReservationPending, BookingCancelled},
		{BookingPaymentPending, BookingConfirmed},
		{BookingPaymentPending, BookingCancelled},
		{BookingConfirmed, BookingCompleted},
		{BookingConfirmed, BookingCancelPending},
		{BookingCancelPending, BookingCancelled},
		{BookingCancelPending, BookingConfirmed},
	}
	for _, tc := range allowed {
		assert.True(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}

	denied := []struct {
		from, to BookingStatus
	}{
		{BookingReservationPending, BookingConfirmed}, // must pass through payment
		{BookingConfirmed, BookingCancelled},          // only via cancel_pending
		{BookingCancelled, BookingConfirmed},          // terminal
		{BookingCompleted, BookingCancelled},          // terminal
	}
	for _, tc := range denied {
		assert.False(t, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOverlaps_HalfOpen(t *testing.T) {
	day := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	b := &Booking{
		StartTime: day.Add(12 * time.Hour),
		EndTime:   day.Add(14 * time.Hour),
	}

	assert.True(t, b.Overlaps(day.Add(13*time.Hour), day.Add(15*time.Hour)))
	assert.True(t, b.Overlaps(day.Add(11*time.Hour), day.Add(13*time.Hour)))
	assert.True(t, b.Overlaps(day.Add(12*time.Hour), day.Add(14*time.Hour)))

	// touching boundaries do not overlap
	assert.False(t, b.Overlaps(day.Add(11*time.Hour), day.Add(12*time.Hour)))
	assert.False(t, b.Overlaps(day.Add(14*time.Hour), day.Add(15*time.Hour)))
}

func TestHoldExpired(t *testing.T) {
	created := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	ttl := 15 * time.Minute

	b := &Booking{Status: BookingReservationPending, CreatedAt: created}
	assert.False(t, b.HoldExpired(created.Add(14*time.Minute), ttl))
	assert.True(t, b.HoldExpired(created.Add(15*time.Minute), ttl))
	assert.True(t, b.HoldExpired(created.Add(time.Hour), ttl))

	confirmed := &Booking{Status: BookingConfirmed, CreatedAt: created}
	assert.False(t, confirmed.HoldExpired(created.Add(time.Hour), ttl))
}
