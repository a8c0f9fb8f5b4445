package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"studiobook/internal/domain"
)

type StudioRepository struct {
	db *gorm.DB
}

func NewStudioRepository(db *gorm.DB) *StudioRepository {
	return &StudioRepository{db: db}
}

type studioModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	OwnerID     int64      `gorm:"column:owner_id;index"`
	Name        string     `gorm:"column:name"`
	Description string     `gorm:"column:description;type:text"`
	Address     string     `gorm:"column:address"`
	City        string     `gorm:"column:city;index"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
	DeletedAt   *time.Time `gorm:"column:deleted_at;index"`
}

func (studioModel) TableName() string { return "studios" }

func toDomainStudio(m studioModel) *domain.Studio {
	return &domain.Studio{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Description: m.Description,
		Address:     m.Address,
		City:        m.City,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		DeletedAt:   m.DeletedAt,
	}
}

func (r *StudioRepository) GetByID(ctx context.Context, id int64) (*domain.Studio, error) {
	var m studioModel
	if err := r.db.WithContext(ctx).Where("deleted_at IS NULL").First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainStudio(m), nil
}

func (r *StudioRepository) List(ctx context.Context, city string, limit, offset int) ([]domain.Studio, error) {
	q := r.db.WithContext(ctx).Where("deleted_at IS NULL")
	if city != "" {
		q = q.Where("city = ?", city)
	}

	var rows []studioModel
	if err := q.Order("id").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Studio, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainStudio(m))
	}
	return out, nil
}

func (r *StudioRepository) Create(ctx context.Context, s *domain.Studio) error {
	m := studioModel{
		OwnerID:     s.OwnerID,
		Name:        s.Name,
		Description: s.Description,
		Address:     s.Address,
		City:        s.City,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = *toDomainStudio(m)
	return nil
}
