package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lifeconnect/response-engine/internal/domain"
	"github.com/lifeconnect/response-engine/internal/observability"
	"github.com/lifeconnect/response-engine/internal/repository"
	"go.uber.org/zap"
)

// DonorService registers blood donors.
type DonorService struct {
	donors repository.DonorRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewDonorService(donors repository.DonorRepository, logger *zap.Logger) (*DonorService, error) {
	if donors == nil {
		return nil, fmt.Errorf("donor repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DonorService{
		donors: donors,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Register persists a new donor. A contact number already registered is a
// conflict.
func (s *DonorService) Register(ctx context.Context, donor *domain.Donor) (*domain.Donor, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if donor == nil {
		return nil, fmt.Errorf("%w: donor is required", domain.ErrValidation)
	}

	donor.ID = uuid.NewString()
	donor.Name = strings.TrimSpace(donor.Name)
	donor.Contact = strings.TrimSpace(donor.Contact)
	donor.LocationText = strings.TrimSpace(donor.LocationText)
	donor.RegisteredAt = s.now().UTC()

	if err := donor.Validate(); err != nil {
		return nil, err
	}

	if err := s.donors.Create(ctx, donor); err != nil {
		return nil, err
	}

	observability.WithContextLogger(s.logger, ctx).Info("donor registered",
		zap.String("donorId", donor.ID),
		zap.String("bloodType", donor.BloodType.String()),
	)

	return donor, nil
}

// List returns the full donor pool.
func (s *DonorService) List(ctx context.Context) ([]domain.Donor, error) {
	return s.donors.List(ctx)
}
