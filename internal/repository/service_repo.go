package repository

import (
	"context"

	"github.com/lifeconnect/response-engine/internal/domain"
	"gorm.io/gorm"
)

type ServiceRepository interface {
	ListByCategory(ctx context.Context, category domain.ServiceCategory) ([]domain.EmergencyService, error)
}

type GormServiceRepo struct {
	db *gorm.DB
}

func NewGormServiceRepo(db *gorm.DB) *GormServiceRepo {
	return &GormServiceRepo{db: db}
}

func (r *GormServiceRepo) ListByCategory(ctx context.Context, category domain.ServiceCategory) ([]domain.EmergencyService, error) {
	var models []EmergencyServiceModel
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	services := make([]domain.EmergencyService, 0, len(models))
	for i := range models {
		services = append(services, *serviceModelToDomain(&models[i]))
	}
	return services, nil
}
