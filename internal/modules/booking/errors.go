package booking

import "errors"

var (
	// ErrSelectionInvalid covers empty selections, out-of-range hours and
	// missing services, all rejected before any store write.
	ErrSelectionInvalid = errors.New("invalid slot selection")
	// ErrMaxDurationExceeded is the duration-cap signal from the selection
	// aggregator.
	ErrMaxDurationExceeded = errors.New("maximum booking duration exceeded")
	// ErrSlotConflict means another booking holds the slot; distinct from
	// validation errors so callers re-fetch availability instead of
	// retrying blindly.
	ErrSlotConflict = errors.New("slot already booked")
	// ErrReservationExpired is returned when a payment-side operation hits
	// a booking whose 15-minute hold has lapsed.
	ErrReservationExpired = errors.New("reservation expired")

	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrNotFound                = errors.New("booking not found")
	ErrForbidden               = errors.New("operation not allowed for this user")
)
