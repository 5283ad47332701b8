package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lifeconnect/response-engine/internal/domain"
	"github.com/lifeconnect/response-engine/internal/repository"
	"go.uber.org/zap"
)

// NotificationService serves the recipient side of dispatched
// notifications: a responder lists its inbox and marks entries read.
type NotificationService struct {
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

func NewNotificationService(notifications repository.NotificationRepository, logger *zap.Logger) (*NotificationService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &NotificationService{
		notifications: notifications,
		logger:        logger,
	}, nil
}

// ListForRecipient lists the notifications delivered to one responder,
// newest first.
func (s *NotificationService) ListForRecipient(ctx context.Context, category domain.ServiceCategory, recipientID string) ([]domain.Notification, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("%w: invalid recipient category %q", domain.ErrValidation, category)
	}
	if strings.TrimSpace(recipientID) == "" {
		return nil, fmt.Errorf("%w: recipient id is required", domain.ErrValidation)
	}

	return s.notifications.ListByRecipient(ctx, category, strings.TrimSpace(recipientID))
}

// MarkRead flips a notification to READ. Unknown ids are a not-found.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: notification id is required", domain.ErrValidation)
	}

	return s.notifications.MarkRead(ctx, strings.TrimSpace(id))
}
