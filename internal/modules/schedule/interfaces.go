package schedule

import (
	"context"
	"time"

	"studiobook/internal/domain"
	"studiobook/internal/modules/availability"
)

// CoverageSource resolves declared-open windows for a studio and date.
type CoverageSource interface {
	CoverageFor(ctx context.Context, studioID int64, date time.Time) (availability.Coverage, error)
}

// BlockingSource is the conflict index: the bookings whose status occupies a
// slot on the given date. Implementations must apply TTL expiry before
// answering, on every call.
type BlockingSource interface {
	GetBlockingForDay(ctx context.Context, studioID int64, date time.Time) ([]domain.Booking, error)
}
