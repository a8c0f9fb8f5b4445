package payment

import (
	"context"
	"time"

	"studiobook/internal/domain"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *domain.GatewayPayment) error
	GetByInvID(ctx context.Context, invID int64) (*domain.GatewayPayment, error)
	GetByOrderID(ctx context.Context, orderID string) (*domain.GatewayPayment, error)
	UpdateStatus(ctx context.Context, invID int64, status domain.GatewayPaymentStatus, rawBody, reason string, paidAt *time.Time) error
	SaveSuccessRawBody(ctx context.Context, invID int64, rawBody string) error
	MarkPaidIdempotent(ctx context.Context, invID int64, rawBody string, paidAt time.Time) (bool, error)
	MarkRefundRequired(ctx context.Context, invID int64, reason string) error
}

// BookingLifecycle is the slice of the booking service the gateway needs:
// authorize checkout, move the hold to payment_pending, and apply the
// asynchronous verdict.
type BookingLifecycle interface {
	GetForUser(ctx context.Context, bookingID, userID int64) (*domain.Booking, error)
	MarkPaymentPending(ctx context.Context, bookingID int64) error
	HandlePaymentOutcome(ctx context.Context, bookingID int64, success bool) error
}
