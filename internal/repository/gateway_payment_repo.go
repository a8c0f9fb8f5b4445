package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studiobook/internal/domain"
)

type GatewayPaymentRepository struct {
	db *gorm.DB
}

func NewGatewayPaymentRepository(db *gorm.DB) *GatewayPaymentRepository {
	return &GatewayPaymentRepository{db: db}
}

type gatewayPaymentModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	BookingID int64  `gorm:"column:booking_id;index"`
	OrderID   string `gorm:"column:order_id;uniqueIndex"`
	InvID     int64  `gorm:"column:inv_id;uniqueIndex"`
	OutSum    string `gorm:"column:out_sum"`

	Description string `gorm:"column:description"`
	Status      string `gorm:"column:status;index"`
	Signature   string `gorm:"column:signature"`
	PaymentURL  string `gorm:"column:payment_url;type:text"`

	ResultRawBody  string     `gorm:"column:result_raw_body;type:text"`
	SuccessRawBody string     `gorm:"column:success_raw_body;type:text"`
	FailureReason  string     `gorm:"column:failure_reason"`
	PaidAt         *time.Time `gorm:"column:paid_at"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (gatewayPaymentModel) TableName() string { return "gateway_payments" }

func toDomainPayment(m gatewayPaymentModel) *domain.GatewayPayment {
	return &domain.GatewayPayment{
		ID:             m.ID,
		BookingID:      m.BookingID,
		OrderID:        m.OrderID,
		InvID:          m.InvID,
		OutSum:         m.OutSum,
		Description:    m.Description,
		Status:         domain.GatewayPaymentStatus(m.Status),
		Signature:      m.Signature,
		PaymentURL:     m.PaymentURL,
		ResultRawBody:  m.ResultRawBody,
		SuccessRawBody: m.SuccessRawBody,
		FailureReason:  m.FailureReason,
		PaidAt:         m.PaidAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *GatewayPaymentRepository) Create(ctx context.Context, p *domain.GatewayPayment) error {
	m := gatewayPaymentModel{
		BookingID:   p.BookingID,
		OrderID:     p.OrderID,
		InvID:       p.InvID,
		OutSum:      p.OutSum,
		Description: p.Description,
		Status:      string(p.Status),
		Signature:   p.Signature,
		PaymentURL:  p.PaymentURL,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*p = *toDomainPayment(m)
	return nil
}

func (r *GatewayPaymentRepository) GetByInvID(ctx context.Context, invID int64) (*domain.GatewayPayment, error) {
	var m gatewayPaymentModel
	if err := r.db.WithContext(ctx).Where("inv_id = ?", invID).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainPayment(m), nil
}

func (r *GatewayPaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.GatewayPayment, error) {
	var m gatewayPaymentModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainPayment(m), nil
}

func (r *GatewayPaymentRepository) UpdateStatus(ctx context.Context, invID int64, status domain.GatewayPaymentStatus, rawBody, reason string, paidAt *time.Time) error {
	updates := map[string]interface{}{
		"status":          string(status),
		"result_raw_body": rawBody,
		"failure_reason":  reason,
	}
	if paidAt != nil {
		updates["paid_at"] = *paidAt
	}
	return r.db.WithContext(ctx).Model(&gatewayPaymentModel{}).Where("inv_id = ?", invID).Updates(updates).Error
}

func (r *GatewayPaymentRepository) SaveSuccessRawBody(ctx context.Context, invID int64, rawBody string) error {
	return r.db.WithContext(ctx).Model(&gatewayPaymentModel{}).Where("inv_id = ?", invID).
		Update("success_raw_body", rawBody).Error
}

// MarkPaidIdempotent flips the payment to paid exactly once under a row lock.
// Returns false when the payment was already paid, so gateway retries are
// acknowledged without double-applying the outcome.
func (r *GatewayPaymentRepository) MarkPaidIdempotent(ctx context.Context, invID int64, rawBody string, paidAt time.Time) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p gatewayPaymentModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("inv_id = ?", invID).First(&p).Error; err != nil {
			return err
		}
		if p.Status == string(domain.PaymentPaid) {
			changed = false
			return nil
		}
		res := tx.Model(&gatewayPaymentModel{}).Where("inv_id = ?", invID).Updates(map[string]interface{}{
			"status":          string(domain.PaymentPaid),
			"result_raw_body": rawBody,
			"paid_at":         paidAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("payment row not updated")
		}
		changed = true
		return nil
	})
	return changed, err
}

// MarkRefundRequired flags a payment whose success callback arrived after the
// reservation TTL had already cancelled the booking.
func (r *GatewayPaymentRepository) MarkRefundRequired(ctx context.Context, invID int64, reason string) error {
	return r.db.WithContext(ctx).Model(&gatewayPaymentModel{}).Where("inv_id = ?", invID).
		Updates(map[string]interface{}{
			"status":         string(domain.PaymentRefundRequired),
			"failure_reason": reason,
		}).Error
}
