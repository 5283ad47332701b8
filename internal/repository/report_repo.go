package repository

import (
	"context"
	"errors"

	"github.com/lifeconnect/response-engine/internal/domain"
	"gorm.io/gorm"
)

type ReportRepository interface {
	Create(ctx context.Context, r *domain.IncidentReport) error
	GetByID(ctx context.Context, id string) (*domain.IncidentReport, error)
	ListByReporter(ctx context.Context, reporterID string) ([]domain.IncidentReport, error)
	SetDispatchOutcome(ctx context.Context, id string, notified int, failed int) error
}

type GormReportRepo struct {
	db *gorm.DB
}

func NewGormReportRepo(db *gorm.DB) *GormReportRepo {
	return &GormReportRepo{db: db}
}

func (r *GormReportRepo) Create(ctx context.Context, report *domain.IncidentReport) error {
	model := reportModelFromDomain(report)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if report != nil {
		*report = *reportModelToDomain(model)
	}
	return nil
}

func (r *GormReportRepo) GetByID(ctx context.Context, id string) (*domain.IncidentReport, error) {
	var model IncidentReportModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return reportModelToDomain(&model), nil
}

func (r *GormReportRepo) ListByReporter(ctx context.Context, reporterID string) ([]domain.IncidentReport, error) {
	var models []IncidentReportModel
	err := r.db.WithContext(ctx).
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	reports := make([]domain.IncidentReport, 0, len(models))
	for i := range models {
		reports = append(reports, *reportModelToDomain(&models[i]))
	}
	return reports, nil
}

// SetDispatchOutcome records the fan-out result next to the report after
// dispatch settles. The report row itself is never rolled back when
// dispatch fails.
func (r *GormReportRepo) SetDispatchOutcome(ctx context.Context, id string, notified int, failed int) error {
	result := r.db.WithContext(ctx).
		Model(&IncidentReportModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"notified_count": notified,
			"failed_count":   failed,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
