package domain

import "time"

type GatewayPaymentStatus string

const (
	PaymentCreated        GatewayPaymentStatus = "created"
	PaymentPending        GatewayPaymentStatus = "pending"
	PaymentPaid           GatewayPaymentStatus = "paid"
	PaymentFailed         GatewayPaymentStatus = "failed"
	PaymentRefundRequired GatewayPaymentStatus = "refund_required"
)

// GatewayPayment is one checkout attempt against the payment gateway. OrderID
// is our external reference handed to the gateway; InvID is the numeric
// invoice id the gateway echoes back in callbacks. Both map back to BookingID.
type GatewayPayment struct {
	ID        int64                `json:"id"`
	BookingID int64                `json:"booking_id"`
	OrderID   string               `json:"order_id"`
	InvID     int64                `json:"inv_id"`
	OutSum    string               `json:"out_sum"`

	Description string               `json:"description"`
	Status      GatewayPaymentStatus `json:"status"`
	Signature   string               `json:"-"`
	PaymentURL  string               `json:"payment_url"`

	ResultRawBody  string     `json:"-"`
	SuccessRawBody string     `json:"-"`
	FailureReason  string     `json:"failure_reason,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
