package catalog

import (
	"context"

	"studiobook/internal/domain"
)

type StudioRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Studio, error)
	List(ctx context.Context, city string, limit, offset int) ([]domain.Studio, error)
}

type ServiceRepository interface {
	ListByStudio(ctx context.Context, studioID int64) ([]domain.StudioService, error)
}

type EquipmentRepository interface {
	ListByStudio(ctx context.Context, studioID int64) ([]domain.EquipmentItem, error)
}

type Service struct {
	studios   StudioRepository
	services  ServiceRepository
	equipment EquipmentRepository
}

func NewService(studios StudioRepository, services ServiceRepository, equipment EquipmentRepository) *Service {
	return &Service{studios: studios, services: services, equipment: equipment}
}

func (s *Service) ListStudios(ctx context.Context, city string, limit, offset int) ([]domain.Studio, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.studios.List(ctx, city, limit, offset)
}

// GetStudio returns the studio with its bookable services and rentable
// equipment, everything the selection screen needs to quote a price.
func (s *Service) GetStudio(ctx context.Context, id int64) (*domain.Studio, error) {
	studio, err := s.studios.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	services, err := s.services.ListByStudio(ctx, id)
	if err != nil {
		return nil, err
	}
	studio.Services = services

	equipment, err := s.equipment.ListByStudio(ctx, id)
	if err != nil {
		return nil, err
	}
	studio.Equipment = equipment

	return studio, nil
}
