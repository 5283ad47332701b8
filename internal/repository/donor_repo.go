package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/lifeconnect/response-engine/internal/domain"
	"gorm.io/gorm"
)

type DonorRepository interface {
	Create(ctx context.Context, d *domain.Donor) error
	List(ctx context.Context) ([]domain.Donor, error)
	GetByID(ctx context.Context, id string) (*domain.Donor, error)
}

type GormDonorRepo struct {
	db *gorm.DB
}

func NewGormDonorRepo(db *gorm.DB) *GormDonorRepo {
	return &GormDonorRepo{db: db}
}

func (r *GormDonorRepo) Create(ctx context.Context, d *domain.Donor) error {
	model := donorModelFromDomain(d)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	if d != nil {
		*d = *donorModelToDomain(model)
	}
	return nil
}

func (r *GormDonorRepo) List(ctx context.Context) ([]domain.Donor, error) {
	var models []DonorModel
	err := r.db.WithContext(ctx).
		Order("registered_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	donors := make([]domain.Donor, 0, len(models))
	for i := range models {
		donors = append(donors, *donorModelToDomain(&models[i]))
	}
	return donors, nil
}

func (r *GormDonorRepo) GetByID(ctx context.Context, id string) (*domain.Donor, error) {
	var model DonorModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return donorModelToDomain(&model), nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}
