package availability

import (
	"context"

	"studiobook/internal/domain"
)

// RuleRepository is the store contract for availability rules. Rules are
// read-only to the resolver; writes go through the owner surface.
type RuleRepository interface {
	ListByStudio(ctx context.Context, studioID int64) ([]domain.AvailabilityRule, error)
	Create(ctx context.Context, rule *domain.AvailabilityRule) error
	GetByID(ctx context.Context, id int64) (*domain.AvailabilityRule, error)
	Delete(ctx context.Context, id int64) error
}
