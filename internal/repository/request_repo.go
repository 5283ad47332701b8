package repository

import (
	"context"
	"errors"

	"github.com/lifeconnect/response-engine/internal/domain"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, r *domain.BloodRequest) error
	GetByID(ctx context.Context, id string) (*domain.BloodRequest, error)
	ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.BloodRequest, error)
	UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error
}

type GormRequestRepo struct {
	db *gorm.DB
}

func NewGormRequestRepo(db *gorm.DB) *GormRequestRepo {
	return &GormRequestRepo{db: db}
}

func (r *GormRequestRepo) Create(ctx context.Context, req *domain.BloodRequest) error {
	model := requestModelFromDomain(req)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if req != nil {
		*req = *requestModelToDomain(model)
	}
	return nil
}

func (r *GormRequestRepo) GetByID(ctx context.Context, id string) (*domain.BloodRequest, error) {
	var model BloodRequestModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return requestModelToDomain(&model), nil
}

func (r *GormRequestRepo) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.BloodRequest, error) {
	var models []BloodRequestModel
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	requests := make([]domain.BloodRequest, 0, len(models))
	for i := range models {
		requests = append(requests, *requestModelToDomain(&models[i]))
	}
	return requests, nil
}

// UpdateStatus moves a pending request into a terminal status. Requests
// already accepted or declined are left untouched and reported as a
// conflict.
func (r *GormRequestRepo) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	if !status.IsTerminal() {
		return domain.ErrConflict
	}

	result := r.db.WithContext(ctx).
		Model(&BloodRequestModel{}).
		Where("id = ? AND status = ?", id, domain.RequestStatusPending).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&BloodRequestModel{}).
			Where("id = ?", id).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}
