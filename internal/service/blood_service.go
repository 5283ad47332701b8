package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lifeconnect/response-engine/internal/domain"
	"github.com/lifeconnect/response-engine/internal/gateway"
	"github.com/lifeconnect/response-engine/internal/matching"
	"github.com/lifeconnect/response-engine/internal/observability"
	"github.com/lifeconnect/response-engine/internal/ratelimit"
	"github.com/lifeconnect/response-engine/internal/repository"
	"go.uber.org/zap"
)

const smsChannel = "sms"

// BloodRequestService sequences the blood request flow: persist the
// request, match the donor pool, and let the requester contact one donor
// at a time. Notifying a donor is a manual action, never an automatic
// fan-out.
type BloodRequestService struct {
	requests repository.RequestRepository
	donors   repository.DonorRepository
	sms      gateway.SMSGateway
	limiter  ratelimit.RateLimiter
	logger   *zap.Logger
	metrics  *observability.Metrics
	now      func() time.Time
}

// SubmitRequestResult is returned to the caller after a submission.
type SubmitRequestResult struct {
	RequestID     string
	MatchedDonors []domain.Donor
}

func NewBloodRequestService(
	requests repository.RequestRepository,
	donors repository.DonorRepository,
	sms gateway.SMSGateway,
	limiter ratelimit.RateLimiter,
	logger *zap.Logger,
) (*BloodRequestService, error) {
	if requests == nil {
		return nil, fmt.Errorf("request repository is required")
	}
	if donors == nil {
		return nil, fmt.Errorf("donor repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BloodRequestService{
		requests: requests,
		donors:   donors,
		sms:      sms,
		limiter:  limiter,
		logger:   logger,
		now:      time.Now,
	}, nil
}

func (s *BloodRequestService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Submit persists the request as PENDING and returns the compatible
// donors, narrowed by the request location. A failed donor fetch aborts
// the flow; there is no safe default pool.
func (s *BloodRequestService) Submit(ctx context.Context, actorID string, req *domain.BloodRequest) (*SubmitRequestResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(actorID) == "" {
		return nil, fmt.Errorf("%w: actor id is required", domain.ErrValidation)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: blood request is required", domain.ErrValidation)
	}

	req.ID = uuid.NewString()
	req.RequesterID = strings.TrimSpace(actorID)
	req.LocationText = strings.TrimSpace(req.LocationText)
	req.Status = domain.RequestStatusPending
	req.CreatedAt = s.now().UTC()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to persist blood request: %w", err)
	}

	pool, err := s.donors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch donor pool: %w", err)
	}

	matched, err := matching.FindMatches(pool, req.BloodType, req.LocationText)
	if err != nil {
		return nil, err
	}
	s.metrics.AddDonorMatches(len(matched))

	observability.WithContextLogger(s.logger, ctx).Info("blood request submitted",
		zap.String("requestId", req.ID),
		zap.String("bloodType", req.BloodType.String()),
		zap.Int("matchedDonors", len(matched)),
	)

	return &SubmitRequestResult{
		RequestID:     req.ID,
		MatchedDonors: matched,
	}, nil
}

// ListPending lists requests still waiting for a donor response.
func (s *BloodRequestService) ListPending(ctx context.Context) ([]domain.BloodRequest, error) {
	return s.requests.ListByStatus(ctx, domain.RequestStatusPending)
}

// ListByStatus lists requests in the given lifecycle state.
func (s *BloodRequestService) ListByStatus(ctx context.Context, status domain.RequestStatus) ([]domain.BloodRequest, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid request status %q", domain.ErrValidation, status)
	}
	return s.requests.ListByStatus(ctx, status)
}

// Respond applies a donor's accept or decline. Both outcomes are terminal;
// a request already answered is a conflict.
func (s *BloodRequestService) Respond(ctx context.Context, requestID string, accept bool) error {
	if strings.TrimSpace(requestID) == "" {
		return fmt.Errorf("%w: request id is required", domain.ErrValidation)
	}

	status := domain.RequestStatusDeclined
	if accept {
		status = domain.RequestStatusAccepted
	}

	return s.requests.UpdateStatus(ctx, strings.TrimSpace(requestID), status)
}

// SendDirectSOS sends one urgent SMS to a single donor picked by the
// requester. The send is rate limited so simultaneous requesters cannot
// flood the SMS provider.
func (s *BloodRequestService) SendDirectSOS(ctx context.Context, donorID string, requestID string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.sms == nil {
		return fmt.Errorf("sms gateway is not configured")
	}
	if strings.TrimSpace(donorID) == "" {
		return fmt.Errorf("%w: donor id is required", domain.ErrValidation)
	}
	if strings.TrimSpace(requestID) == "" {
		return fmt.Errorf("%w: request id is required", domain.ErrValidation)
	}

	donor, err := s.donors.GetByID(ctx, strings.TrimSpace(donorID))
	if err != nil {
		return err
	}
	req, err := s.requests.GetByID(ctx, strings.TrimSpace(requestID))
	if err != nil {
		return err
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, smsChannel); err != nil {
			return fmt.Errorf("rate limiter wait failed: %w", err)
		}
	}

	message := fmt.Sprintf(
		"Urgent! A blood request for %s is needed at %s. Please contact immediately.",
		req.BloodType, req.LocationText,
	)

	if err := s.sms.Send(ctx, donor.Contact, message); err != nil {
		s.metrics.IncSOSMessageFailed()
		observability.WithContextLogger(s.logger, ctx).Error("direct SOS failed",
			zap.String("donorId", donor.ID),
			zap.String("requestId", req.ID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send SOS: %w", err)
	}

	s.metrics.IncSOSMessageSent()
	observability.WithContextLogger(s.logger, ctx).Info("direct SOS sent",
		zap.String("donorId", donor.ID),
		zap.String("requestId", req.ID),
	)

	return nil
}
