package booking

import (
	"context"
	"time"

	"studiobook/internal/domain"
	"studiobook/internal/modules/schedule"
)

// BookingRepository is the store contract for the reservation lifecycle. The
// guarded updates (UpdateStatusIf / CancelWithReason) serialize transitions
// per booking: a transition applies only if the current status matches.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatusIf(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error)
	CancelWithReason(ctx context.Context, id int64, from []domain.BookingStatus, reason string) (bool, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error)
	ListByStudio(ctx context.Context, studioID int64) ([]domain.Booking, error)
	GetStudioOwnerForBooking(ctx context.Context, bookingID int64) (int64, domain.BookingStatus, error)
}

// ScheduleSource provides the classified day grid used to validate a
// selection right before submission.
type ScheduleSource interface {
	DaySchedule(ctx context.Context, studioID int64, date time.Time) ([]schedule.Slot, error)
}

// ServiceCatalog and EquipmentCatalog return the studio's offerings for
// price snapshotting at creation time.
type ServiceCatalog interface {
	GetByIDs(ctx context.Context, studioID int64, ids []int64) ([]domain.StudioService, error)
}

type EquipmentCatalog interface {
	GetByIDs(ctx context.Context, studioID int64, ids []int64) ([]domain.EquipmentItem, error)
}
