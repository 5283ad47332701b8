package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lifeconnect/response-engine/internal/discovery"
	"github.com/lifeconnect/response-engine/internal/domain"
	"github.com/lifeconnect/response-engine/internal/observability"
	"github.com/lifeconnect/response-engine/internal/repository"
	"go.uber.org/zap"
)

const defaultDispatchTimeout = 5 * time.Second

// NotificationDispatcher fans out notifications to matched responders.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, matches discovery.Result, incidentID string, originDescription string) (*domain.DispatchSummary, error)
}

// ReportService sequences the accident report flow: persist the report,
// discover responders around the incident, dispatch notifications, and
// record the outcome. A dispatch failure never unwinds the persisted
// report.
type ReportService struct {
	reports         repository.ReportRepository
	services        repository.ServiceRepository
	dispatcher      NotificationDispatcher
	logger          *zap.Logger
	metrics         *observability.Metrics
	radiusKm        float64
	dispatchTimeout time.Duration
	now             func() time.Time
}

// SubmitReportResult is returned to the caller after a submission. When
// dispatch could not run, Warning carries the reason and Summary is nil;
// the report itself is still persisted.
type SubmitReportResult struct {
	ReportID string
	Summary  *domain.DispatchSummary
	Warning  string
}

func NewReportService(
	reports repository.ReportRepository,
	services repository.ServiceRepository,
	dispatcher NotificationDispatcher,
	radiusKm float64,
	dispatchTimeout time.Duration,
	logger *zap.Logger,
) (*ReportService, error) {
	if reports == nil {
		return nil, fmt.Errorf("report repository is required")
	}
	if services == nil {
		return nil, fmt.Errorf("service repository is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if dispatchTimeout <= 0 {
		dispatchTimeout = defaultDispatchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ReportService{
		reports:         reports,
		services:        services,
		dispatcher:      dispatcher,
		logger:          logger,
		radiusKm:        radiusKm,
		dispatchTimeout: dispatchTimeout,
		now:             time.Now,
	}, nil
}

func (s *ReportService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Submit persists the report, then discovers and notifies nearby
// responders. The report is committed before any notification work; a
// failed pool fetch or an unreachable notification store is surfaced as a
// warning on the result, never as a submission failure.
func (s *ReportService) Submit(ctx context.Context, actorID string, report *domain.IncidentReport) (*SubmitReportResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(actorID) == "" {
		return nil, fmt.Errorf("%w: actor id is required", domain.ErrValidation)
	}
	if report == nil {
		return nil, fmt.Errorf("%w: incident report is required", domain.ErrValidation)
	}

	report.ID = uuid.NewString()
	report.ReporterID = strings.TrimSpace(actorID)
	report.CreatedAt = s.now().UTC()

	if err := report.Validate(); err != nil {
		return nil, err
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to persist incident report: %w", err)
	}

	result := &SubmitReportResult{ReportID: report.ID}
	logger := observability.WithContextLogger(s.logger, ctx)

	pools, err := s.fetchPools(ctx)
	if err != nil {
		// The report is already committed; losing notification delivery
		// must never lose the report.
		result.Warning = fmt.Sprintf("responder discovery skipped: %v", err)
		logger.Warn("service pool fetch failed after report persisted",
			zap.String("reportId", report.ID),
			zap.Error(err),
		)
		return result, nil
	}

	matches := discovery.DiscoverNearby(report.Coordinate, pools, s.radiusKm)
	s.metrics.AddServicesDiscovered(domain.CategoryHospital.String(), len(matches.Hospitals))
	s.metrics.AddServicesDiscovered(domain.CategoryAmbulance.String(), len(matches.Ambulances))
	s.metrics.AddServicesDiscovered(domain.CategoryPolice.String(), len(matches.Police))

	dispatchCtx, cancel := context.WithTimeout(ctx, s.dispatchTimeout)
	defer cancel()

	summary, err := s.dispatcher.Dispatch(dispatchCtx, matches, report.ID, report.LocationText)
	if err != nil {
		if errors.Is(err, domain.ErrDispatchUnavailable) {
			result.Warning = err.Error()
			logger.Warn("dispatch unavailable, report kept",
				zap.String("reportId", report.ID),
				zap.Error(err),
			)
			return result, nil
		}
		return nil, err
	}

	result.Summary = summary

	if err := s.reports.SetDispatchOutcome(ctx, report.ID, summary.TotalNotified, len(summary.Failures)); err != nil {
		logger.Error("failed to record dispatch outcome",
			zap.String("reportId", report.ID),
			zap.Error(err),
		)
	}

	logger.Info("accident report submitted",
		zap.String("reportId", report.ID),
		zap.Int("servicesMatched", matches.Total()),
		zap.Int("notified", summary.TotalNotified),
		zap.Int("failed", len(summary.Failures)),
	)

	return result, nil
}

// ListByReporter lists the reports a user has submitted.
func (s *ReportService) ListByReporter(ctx context.Context, reporterID string) ([]domain.IncidentReport, error) {
	if strings.TrimSpace(reporterID) == "" {
		return nil, fmt.Errorf("%w: reporter id is required", domain.ErrValidation)
	}
	return s.reports.ListByReporter(ctx, strings.TrimSpace(reporterID))
}

func (s *ReportService) fetchPools(ctx context.Context) (discovery.Pools, error) {
	hospitals, err := s.services.ListByCategory(ctx, domain.CategoryHospital)
	if err != nil {
		return discovery.Pools{}, fmt.Errorf("failed to fetch hospitals: %w", err)
	}
	ambulances, err := s.services.ListByCategory(ctx, domain.CategoryAmbulance)
	if err != nil {
		return discovery.Pools{}, fmt.Errorf("failed to fetch ambulances: %w", err)
	}
	police, err := s.services.ListByCategory(ctx, domain.CategoryPolice)
	if err != nil {
		return discovery.Pools{}, fmt.Errorf("failed to fetch police: %w", err)
	}

	return discovery.Pools{
		Hospitals:  hospitals,
		Ambulances: ambulances,
		Police:     police,
	}, nil
}
