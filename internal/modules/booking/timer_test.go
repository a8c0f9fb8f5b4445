package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"studiobook/internal/domain"
)

func TestProjectTimer_CountsDown(t *testing.T) {
	created := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	b := &domain.Booking{ID: 1, Status: domain.BookingReservationPending, CreatedAt: created}

	tm := ProjectTimer(b, 15*time.Minute, created.Add(5*time.Minute))

	assert.Equal(t, int64(600), tm.RemainingSeconds)
	assert.False(t, tm.Expired)
	assert.NotNil(t, tm.ExpiresAt)
	assert.Equal(t, created.Add(15*time.Minute), *tm.ExpiresAt)
}

func TestProjectTimer_ExpiredClampsToZero(t *testing.T) {
	created := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	b := &domain.Booking{ID: 1, Status: domain.BookingPaymentPending, CreatedAt: created}

	tm := ProjectTimer(b, 15*time.Minute, created.Add(20*time.Minute))

	assert.True(t, tm.Expired)
	assert.Equal(t, int64(0), tm.RemainingSeconds)
}

func TestProjectTimer_ExactBoundaryIsExpired(t *testing.T) {
	created := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	b := &domain.Booking{ID: 1, Status: domain.BookingReservationPending, CreatedAt: created}

	tm := ProjectTimer(b, 15*time.Minute, created.Add(15*time.Minute))

	assert.True(t, tm.Expired)
}

func TestProjectTimer_NonPendingReadsZeroWithoutExpiredFlag(t *testing.T) {
	for _, st := range []domain.BookingStatus{
		domain.BookingConfirmed,
		domain.BookingCancelled,
		domain.BookingCompleted,
	} {
		b := &domain.Booking{ID: 1, Status: st, CreatedAt: time.Now().Add(-time.Hour)}
		tm := ProjectTimer(b, 15*time.Minute, time.Now())

		assert.Equal(t, int64(0), tm.RemainingSeconds, string(st))
		assert.False(t, tm.Expired, string(st))
		assert.Nil(t, tm.ExpiresAt, string(st))
	}
}

func TestProjectTimer_DoesNotMutateBooking(t *testing.T) {
	created := time.Date(2026, 9, 7, 12, 0, 0, 0, time.UTC)
	b := &domain.Booking{ID: 1, Status: domain.BookingReservationPending, CreatedAt: created}

	_ = ProjectTimer(b, 15*time.Minute, created.Add(time.Hour))

	assert.Equal(t, domain.BookingReservationPending, b.Status)
}
