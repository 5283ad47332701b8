package service

import (
	"context"

	"github.com/lifeconnect/response-engine/internal/discovery"
	"github.com/lifeconnect/response-engine/internal/domain"
)

type fakeRequestRepo struct {
	createFn       func(ctx context.Context, r *domain.BloodRequest) error
	getByIDFn      func(ctx context.Context, id string) (*domain.BloodRequest, error)
	listByStatusFn func(ctx context.Context, status domain.RequestStatus) ([]domain.BloodRequest, error)
	updateStatusFn func(ctx context.Context, id string, status domain.RequestStatus) error
}

func (f *fakeRequestRepo) Create(ctx context.Context, r *domain.BloodRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id string) (*domain.BloodRequest, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRequestRepo) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.BloodRequest, error) {
	if f.listByStatusFn != nil {
		return f.listByStatusFn(ctx, status)
	}
	return nil, nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id string, status domain.RequestStatus) error {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return nil
}

type fakeDonorRepo struct {
	createFn  func(ctx context.Context, d *domain.Donor) error
	listFn    func(ctx context.Context) ([]domain.Donor, error)
	getByIDFn func(ctx context.Context, id string) (*domain.Donor, error)
}

func (f *fakeDonorRepo) Create(ctx context.Context, d *domain.Donor) error {
	if f.createFn != nil {
		return f.createFn(ctx, d)
	}
	return nil
}

func (f *fakeDonorRepo) List(ctx context.Context) ([]domain.Donor, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}
	return nil, nil
}

func (f *fakeDonorRepo) GetByID(ctx context.Context, id string) (*domain.Donor, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

type fakeReportRepo struct {
	createFn         func(ctx context.Context, r *domain.IncidentReport) error
	getByIDFn        func(ctx context.Context, id string) (*domain.IncidentReport, error)
	listByReporterFn func(ctx context.Context, reporterID string) ([]domain.IncidentReport, error)
	setOutcomeFn     func(ctx context.Context, id string, notified int, failed int) error
}

func (f *fakeReportRepo) Create(ctx context.Context, r *domain.IncidentReport) error {
	if f.createFn != nil {
		return f.createFn(ctx, r)
	}
	return nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id string) (*domain.IncidentReport, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (f *fakeReportRepo) ListByReporter(ctx context.Context, reporterID string) ([]domain.IncidentReport, error) {
	if f.listByReporterFn != nil {
		return f.listByReporterFn(ctx, reporterID)
	}
	return nil, nil
}

func (f *fakeReportRepo) SetDispatchOutcome(ctx context.Context, id string, notified int, failed int) error {
	if f.setOutcomeFn != nil {
		return f.setOutcomeFn(ctx, id, notified, failed)
	}
	return nil
}

type fakeServiceRepo struct {
	listByCategoryFn func(ctx context.Context, category domain.ServiceCategory) ([]domain.EmergencyService, error)
}

func (f *fakeServiceRepo) ListByCategory(ctx context.Context, category domain.ServiceCategory) ([]domain.EmergencyService, error) {
	if f.listByCategoryFn != nil {
		return f.listByCategoryFn(ctx, category)
	}
	return nil, nil
}

type fakeNotificationRepo struct {
	createFn          func(ctx context.Context, n *domain.Notification) error
	pingFn            func(ctx context.Context) error
	listByRecipientFn func(ctx context.Context, category domain.ServiceCategory, recipientID string) ([]domain.Notification, error)
	markReadFn        func(ctx context.Context, id string) error
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, n)
	}
	return nil
}

func (f *fakeNotificationRepo) Ping(ctx context.Context) error {
	if f.pingFn != nil {
		return f.pingFn(ctx)
	}
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(ctx context.Context, category domain.ServiceCategory, recipientID string) ([]domain.Notification, error) {
	if f.listByRecipientFn != nil {
		return f.listByRecipientFn(ctx, category, recipientID)
	}
	return nil, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, id)
	}
	return nil
}

type fakeDispatcher struct {
	dispatchFn func(ctx context.Context, matches discovery.Result, incidentID string, originDescription string) (*domain.DispatchSummary, error)
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, matches discovery.Result, incidentID string, originDescription string) (*domain.DispatchSummary, error) {
	if f.dispatchFn != nil {
		return f.dispatchFn(ctx, matches, incidentID, originDescription)
	}
	return &domain.DispatchSummary{CountsByCategory: map[domain.ServiceCategory]int{}}, nil
}

type fakeSMSGateway struct {
	sendFn func(ctx context.Context, contact string, message string) error
}

func (f *fakeSMSGateway) Send(ctx context.Context, contact string, message string) error {
	if f.sendFn != nil {
		return f.sendFn(ctx, contact, message)
	}
	return nil
}

type fakeRateLimiter struct {
	waitFn func(ctx context.Context, channel string) error
}

func (f *fakeRateLimiter) Allow(ctx context.Context, channel string) (bool, error) {
	return true, nil
}

func (f *fakeRateLimiter) Wait(ctx context.Context, channel string) error {
	if f.waitFn != nil {
		return f.waitFn(ctx, channel)
	}
	return nil
}
