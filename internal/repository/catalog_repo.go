package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"studiobook/internal/domain"
)

type studioServiceModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	StudioID        int64     `gorm:"column:studio_id;index"`
	Name            string    `gorm:"column:name"`
	Price           float64   `gorm:"column:price"`
	DurationMinutes int       `gorm:"column:duration_minutes"`
	IsActive        bool      `gorm:"column:is_active"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (studioServiceModel) TableName() string { return "studio_services" }

type equipmentModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	StudioID  int64     `gorm:"column:studio_id;index"`
	Name      string    `gorm:"column:name"`
	Category  string    `gorm:"column:category"`
	DayRate   float64   `gorm:"column:day_rate"`
	Quantity  int       `gorm:"column:quantity"`
	IsActive  bool      `gorm:"column:is_active"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (equipmentModel) TableName() string { return "equipment_items" }

func toDomainService(m studioServiceModel) domain.StudioService {
	return domain.StudioService{
		ID:              m.ID,
		StudioID:        m.StudioID,
		Name:            m.Name,
		Price:           m.Price,
		DurationMinutes: m.DurationMinutes,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
	}
}

func toDomainEquipment(m equipmentModel) domain.EquipmentItem {
	return domain.EquipmentItem{
		ID:        m.ID,
		StudioID:  m.StudioID,
		Name:      m.Name,
		Category:  m.Category,
		DayRate:   m.DayRate,
		Quantity:  m.Quantity,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
	}
}

// ServiceRepository reads the bookable services of a studio.
type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) ListByStudio(ctx context.Context, studioID int64) ([]domain.StudioService, error) {
	var rows []studioServiceModel
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND is_active = ?", studioID, true).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.StudioService, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainService(m))
	}
	return out, nil
}

// GetByIDs returns the requested active services of the studio; missing or
// foreign ids are simply absent from the result, callers detect the gap.
func (r *ServiceRepository) GetByIDs(ctx context.Context, studioID int64, ids []int64) ([]domain.StudioService, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []studioServiceModel
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND is_active = ? AND id IN ?", studioID, true, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.StudioService, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainService(m))
	}
	return out, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *domain.StudioService) error {
	m := studioServiceModel{
		StudioID:        s.StudioID,
		Name:            s.Name,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
		IsActive:        s.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = toDomainService(m)
	return nil
}

// EquipmentRepository reads the rentable equipment of a studio.
type EquipmentRepository struct {
	db *gorm.DB
}

func NewEquipmentRepository(db *gorm.DB) *EquipmentRepository {
	return &EquipmentRepository{db: db}
}

func (r *EquipmentRepository) ListByStudio(ctx context.Context, studioID int64) ([]domain.EquipmentItem, error) {
	var rows []equipmentModel
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND is_active = ?", studioID, true).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.EquipmentItem, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainEquipment(m))
	}
	return out, nil
}

func (r *EquipmentRepository) GetByIDs(ctx context.Context, studioID int64, ids []int64) ([]domain.EquipmentItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []equipmentModel
	err := r.db.WithContext(ctx).
		Where("studio_id = ? AND is_active = ? AND id IN ?", studioID, true, ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.EquipmentItem, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainEquipment(m))
	}
	return out, nil
}

func (r *EquipmentRepository) Create(ctx context.Context, e *domain.EquipmentItem) error {
	m := equipmentModel{
		StudioID:  e.StudioID,
		Name:      e.Name,
		Category:  e.Category,
		DayRate:   e.DayRate,
		Quantity:  e.Quantity,
		IsActive:  e.IsActive,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*e = toDomainEquipment(m)
	return nil
}
