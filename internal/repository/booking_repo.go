package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"studiobook/internal/domain"
)

// ErrOverlap is returned when the in-transaction conflict check finds another
// non-cancelled booking on the same studio+interval.
var ErrOverlap = errors.New("booking interval overlap")

type BookingRepository struct {
	db  *gorm.DB
	ttl time.Duration

	now func() time.Time
}

func NewBookingRepository(db *gorm.DB, ttl time.Duration) *BookingRepository {
	return &BookingRepository{db: db, ttl: ttl, now: time.Now}
}

type bookingModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	StudioID  int64     `gorm:"column:studio_id;index"`
	UserID    int64     `gorm:"column:user_id;index"`
	Date      time.Time `gorm:"column:date;index"`
	StartTime time.Time `gorm:"column:start_time"`
	EndTime   time.Time `gorm:"column:end_time"`

	Slots     string `gorm:"column:slots;type:text"`
	Services  string `gorm:"column:services;type:text"`
	Equipment string `gorm:"column:equipment;type:text"`

	Status     string  `gorm:"column:status;index"`
	TotalPrice float64 `gorm:"column:total_price"`

	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at"`
	CancellationReason *string    `gorm:"column:cancellation_reason"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var slots []int
	_ = json.Unmarshal([]byte(m.Slots), &slots)
	var services []domain.ServiceSnapshot
	_ = json.Unmarshal([]byte(m.Services), &services)
	var equipment []domain.EquipmentSnapshot
	_ = json.Unmarshal([]byte(m.Equipment), &equipment)

	var reason string
	if m.CancellationReason != nil {
		reason = *m.CancellationReason
	}

	return &domain.Booking{
		ID:                 m.ID,
		StudioID:           m.StudioID,
		UserID:             m.UserID,
		Date:               m.Date,
		StartTime:          m.StartTime,
		EndTime:            m.EndTime,
		Slots:              slots,
		Services:           services,
		Equipment:          equipment,
		Status:             domain.BookingStatus(m.Status),
		TotalPrice:         m.TotalPrice,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		CancelledAt:        m.CancelledAt,
		CancellationReason: reason,
	}
}

func toBookingModel(b *domain.Booking) bookingModel {
	slots, _ := json.Marshal(b.Slots)
	services, _ := json.Marshal(b.Services)
	equipment, _ := json.Marshal(b.Equipment)

	var reason *string
	if b.CancellationReason != "" {
		v := b.CancellationReason
		reason = &v
	}

	return bookingModel{
		ID:                 b.ID,
		StudioID:           b.StudioID,
		UserID:             b.UserID,
		Date:               b.Date,
		StartTime:          b.StartTime,
		EndTime:            b.EndTime,
		Slots:              string(slots),
		Services:           string(services),
		Equipment:          string(equipment),
		Status:             string(b.Status),
		TotalPrice:         b.TotalPrice,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		CancelledAt:        b.CancelledAt,
		CancellationReason: reason,
	}
}

// Create writes the booking inside one transaction: stale holds are expired,
// the conflict check runs, and the row is inserted. On PostgreSQL the
// idx_no_double_booking exclusion constraint closes the remaining race
// between concurrent transactions; its violation surfaces as a pgconn error
// the service maps to a conflict.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.expireStaleTx(tx); err != nil {
			return err
		}

		var cnt int64
		err := tx.Model(&bookingModel{}).
			Where("studio_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
				b.StudioID, string(domain.BookingCancelled), b.EndTime, b.StartTime).
			Count(&cnt).Error
		if err != nil {
			return err
		}
		if cnt > 0 {
			return ErrOverlap
		}

		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		*b = *toDomainBooking(m)
		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

// GetBlockingForDay returns the bookings that occupy slots on the given date.
// Stale pending holds are rewritten to cancelled first, so the result never
// contains a lapsed hold. Re-run on every conflict read, never cached.
func (r *BookingRepository) GetBlockingForDay(ctx context.Context, studioID int64, date time.Time) ([]domain.Booking, error) {
	if _, err := r.ExpireStale(ctx); err != nil {
		return nil, err
	}

	blocking := domain.BlockingStatuses()
	statuses := make([]string, 0, len(blocking))
	for _, s := range blocking {
		statuses = append(statuses, string(s))
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			studioID, statuses, dayEnd, dayStart).
		Order("start_time").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// ExpireStale rewrites pending holds older than the reservation TTL to
// cancelled. The authoritative expiry: the client countdown is advisory only.
func (r *BookingRepository) ExpireStale(ctx context.Context) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := r.expireStaleRes(tx)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	return affected, err
}

func (r *BookingRepository) expireStaleTx(tx *gorm.DB) error {
	return r.expireStaleRes(tx).Error
}

func (r *BookingRepository) expireStaleRes(tx *gorm.DB) *gorm.DB {
	now := r.now()
	cutoff := now.Add(-r.ttl)
	return tx.Model(&bookingModel{}).
		Where("status IN ? AND created_at < ?",
			[]string{string(domain.BookingReservationPending), string(domain.BookingPaymentPending)}, cutoff).
		Updates(map[string]interface{}{
			"status":              string(domain.BookingCancelled),
			"cancelled_at":        now,
			"cancellation_reason": "reservation expired",
			"updated_at":          now,
		})
}

// CompleteFinished moves confirmed bookings whose session has ended to
// completed. Record-keeping only.
func (r *BookingRepository) CompleteFinished(ctx context.Context) (int64, error) {
	now := r.now()
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("status = ? AND end_time <= ?", string(domain.BookingConfirmed), now).
		Updates(map[string]interface{}{
			"status":     string(domain.BookingCompleted),
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}

// UpdateStatusIf applies a guarded status transition: the row is updated only
// if its current status is one of from. Returns false when the guard did not
// match, which serializes concurrent transitions per booking.
func (r *BookingRepository) UpdateStatusIf(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	statuses := make([]string, 0, len(from))
	for _, s := range from {
		statuses = append(statuses, string(s))
	}

	now := r.now()
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": now,
	}
	if to == domain.BookingCancelled {
		updates["cancelled_at"] = now
	}

	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status IN ?", id, statuses).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CancelWithReason is UpdateStatusIf to cancelled with a recorded reason.
func (r *BookingRepository) CancelWithReason(ctx context.Context, id int64, from []domain.BookingStatus, reason string) (bool, error) {
	statuses := make([]string, 0, len(from))
	for _, s := range from {
		statuses = append(statuses, string(s))
	}

	now := r.now()
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status IN ?", id, statuses).
		Updates(map[string]interface{}{
			"status":              string(domain.BookingCancelled),
			"cancelled_at":        now,
			"cancellation_reason": reason,
			"updated_at":          now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

func (r *BookingRepository) ListByStudio(ctx context.Context, studioID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("studio_id = ?", studioID).
		Order("start_time").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// GetStudioOwnerForBooking returns the owning studio's owner id plus the
// booking's current status, for ownership checks on owner-side operations.
func (r *BookingRepository) GetStudioOwnerForBooking(ctx context.Context, bookingID int64) (int64, domain.BookingStatus, error) {
	var row struct {
		OwnerID int64  `gorm:"column:owner_id"`
		Status  string `gorm:"column:status"`
	}
	err := r.db.WithContext(ctx).
		Table("bookings").
		Select("studios.owner_id AS owner_id, bookings.status AS status").
		Joins("JOIN studios ON studios.id = bookings.studio_id").
		Where("bookings.id = ?", bookingID).
		Scan(&row).Error
	if err != nil {
		return 0, "", err
	}
	if row.OwnerID == 0 && row.Status == "" {
		return 0, "", gorm.ErrRecordNotFound
	}
	return row.OwnerID, domain.BookingStatus(row.Status), nil
}
