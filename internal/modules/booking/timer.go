package booking

import (
	"time"

	"studiobook/internal/domain"
)

// Timer is the customer-facing countdown for a pending hold. It is a pure
// projection of the booking's CreatedAt plus the TTL against the current
// clock; recomputing it never mutates booking state, and the authoritative
// expiry stays with the store.
type Timer struct {
	BookingID        int64                `json:"booking_id"`
	Status           domain.BookingStatus `json:"status"`
	RemainingSeconds int64                `json:"remaining_seconds"`
	ExpiresAt        *time.Time           `json:"expires_at,omitempty"`
	Expired          bool                 `json:"expired"`
}

// ProjectTimer derives the countdown: remaining = max(0, createdAt+ttl-now).
// For bookings past the pending states the countdown is meaningless and
// reads as zero without the expired flag.
func ProjectTimer(b *domain.Booking, ttl time.Duration, now time.Time) Timer {
	t := Timer{BookingID: b.ID, Status: b.Status}

	if !b.Status.Pending() {
		return t
	}

	expiresAt := b.HoldExpiresAt(ttl)
	t.ExpiresAt = &expiresAt

	remaining := expiresAt.Sub(now)
	if remaining <= 0 {
		t.Expired = true
		return t
	}
	t.RemainingSeconds = int64(remaining / time.Second)
	return t
}
