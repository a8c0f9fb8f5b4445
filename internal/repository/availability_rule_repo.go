package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"studiobook/internal/domain"
)

type AvailabilityRuleRepository struct {
	db *gorm.DB
}

func NewAvailabilityRuleRepository(db *gorm.DB) *AvailabilityRuleRepository {
	return &AvailabilityRuleRepository{db: db}
}

type availabilityRuleModel struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	StudioID    int64      `gorm:"column:studio_id;index"`
	Kind        string     `gorm:"column:kind"`
	Weekdays    string     `gorm:"column:weekdays;type:text"`
	Date        *time.Time `gorm:"column:date"`
	StartMinute int        `gorm:"column:start_minute"`
	EndMinute   int        `gorm:"column:end_minute"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (availabilityRuleModel) TableName() string { return "availability_rules" }

func toDomainRule(m availabilityRuleModel) domain.AvailabilityRule {
	var weekdays []int
	_ = json.Unmarshal([]byte(m.Weekdays), &weekdays)

	return domain.AvailabilityRule{
		ID:          m.ID,
		StudioID:    m.StudioID,
		Kind:        domain.RuleKind(m.Kind),
		Weekdays:    weekdays,
		Date:        m.Date,
		StartMinute: m.StartMinute,
		EndMinute:   m.EndMinute,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toRuleModel(r *domain.AvailabilityRule) availabilityRuleModel {
	weekdays, _ := json.Marshal(r.Weekdays)

	return availabilityRuleModel{
		ID:          r.ID,
		StudioID:    r.StudioID,
		Kind:        string(r.Kind),
		Weekdays:    string(weekdays),
		Date:        r.Date,
		StartMinute: r.StartMinute,
		EndMinute:   r.EndMinute,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r *AvailabilityRuleRepository) ListByStudio(ctx context.Context, studioID int64) ([]domain.AvailabilityRule, error) {
	var rows []availabilityRuleModel
	err := r.db.WithContext(ctx).
		Where("studio_id = ?", studioID).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.AvailabilityRule, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainRule(m))
	}
	return out, nil
}

func (r *AvailabilityRuleRepository) Create(ctx context.Context, rule *domain.AvailabilityRule) error {
	m := toRuleModel(rule)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*rule = toDomainRule(m)
	return nil
}

func (r *AvailabilityRuleRepository) GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error) {
	var m availabilityRuleModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	rule := toDomainRule(m)
	return &rule, nil
}

func (r *AvailabilityRuleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&availabilityRuleModel{}, id).Error
}
