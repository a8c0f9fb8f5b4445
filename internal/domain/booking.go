package domain

import "time"

type BookingStatus string

const (
	BookingReservationPending BookingStatus = "reservation_pending"
	BookingPaymentPending     BookingStatus = "payment_pending"
	BookingConfirmed          BookingStatus = "confirmed"
	BookingActive             BookingStatus = "active"
	BookingCancelPending      BookingStatus = "cancel_pending"
	BookingCompleted          BookingStatus = "completed"
	BookingCancelled          BookingStatus = "cancelled"
)

// Blocking reports whether a booking in this status occupies its slot for
// conflict purposes. This is the single source of truth consumed by both the
// slot generator and the creation-time conflict check.
func (s BookingStatus) Blocking() bool {
	switch s {
	case BookingConfirmed, BookingCompleted, BookingActive, BookingCancelPending:
		return true
	}
	return false
}

// Pending reports whether the booking is still an unpaid hold subject to the
// reservation TTL.
func (s BookingStatus) Pending() bool {
	return s == BookingReservationPending || s == BookingPaymentPending
}

// BlockingStatuses returns the statuses that occupy a slot, for use in store
// queries. Must stay in sync with Blocking.
func BlockingStatuses() []BookingStatus {
	return []BookingStatus{BookingConfirmed, BookingCompleted, BookingActive, BookingCancelPending}
}

// CanTransitionTo encodes the reservation lifecycle:
//
//	reservation_pending -> payment_pending -> confirmed -> completed
//	cancelled reachable from both pending states
//	cancel_pending reachable from confirmed, resolves to cancelled or confirmed
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingReservationPending:
		return next == BookingPaymentPending || next == BookingCancelled
	case BookingPaymentPending:
		return next == BookingConfirmed || next == BookingCancelled
	case BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelPending
	case BookingCancelPending:
		return next == BookingCancelled || next == BookingConfirmed
	}
	return false
}

// ServiceSnapshot is a by-value copy of a studio service taken at booking
// time. Later price edits by the owner never alter a placed booking.
type ServiceSnapshot struct {
	ServiceID       int64   `json:"service_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

// EquipmentSnapshot is a by-value copy of a rented equipment item. DayRate is
// the rate at selection time; SessionPrice is the tiered price actually
// charged for this booking's duration.
type EquipmentSnapshot struct {
	EquipmentID  int64   `json:"equipment_id"`
	Name         string  `json:"name"`
	DayRate      float64 `json:"day_rate"`
	SessionPrice float64 `json:"session_price"`
}

type Booking struct {
	ID       int64     `json:"id"`
	StudioID int64     `json:"studio_id"`
	UserID   int64     `json:"user_id"`
	Date     time.Time `json:"date"`

	// StartTime/EndTime span the earliest to latest selected hour; Slots
	// holds the actual hours picked (gaps allowed, gaps not charged).
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Slots     []int     `json:"slots"`

	Services  []ServiceSnapshot   `json:"services"`
	Equipment []EquipmentSnapshot `json:"equipment"`

	Status     BookingStatus `json:"status"`
	TotalPrice float64       `json:"total_price"`

	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
}

// Overlaps is the half-open interval test used everywhere a booking is
// compared against a candidate slot: [start, end) vs [StartTime, EndTime).
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndTime) && end.After(b.StartTime)
}

// HoldExpiresAt returns the instant the pending hold lapses.
func (b *Booking) HoldExpiresAt(ttl time.Duration) time.Time {
	return b.CreatedAt.Add(ttl)
}

// HoldExpired reports whether a pending hold has outlived its TTL. Always
// false for non-pending statuses.
func (b *Booking) HoldExpired(now time.Time, ttl time.Duration) bool {
	return b.Status.Pending() && !now.Before(b.HoldExpiresAt(ttl))
}
