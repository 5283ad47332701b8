// Package dispatch fans out notification creates to every matched
// responder and aggregates the outcomes.
package dispatch

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
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const reasonTimeout = "timeout"

// NotificationStore is the external store the dispatcher writes to.
type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	Ping(ctx context.Context) error
}

type Dispatcher struct {
	store   NotificationStore
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

func NewDispatcher(store NotificationStore, logger *zap.Logger) (*Dispatcher, error) {
	if store == nil {
		return nil, fmt.Errorf("notification store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		store:  store,
		logger: logger,
		now:    time.Now,
	}, nil
}

func (d *Dispatcher) SetMetrics(metrics *observability.Metrics) {
	if d == nil {
		return
	}
	d.metrics = metrics
}

type recipient struct {
	category   domain.ServiceCategory
	service    domain.EmergencyService
	distanceKm float64
}

type outcome struct {
	created bool
	reason  string
}

// Dispatch creates one notification per matched responder, all
// concurrently, and waits for every create to settle. Failures never abort
// outstanding creates; each is captured into the summary with its reason.
// When the context deadline passes, outcomes still unknown are reported as
// timeout failures. If the store is unreachable before any create starts,
// Dispatch fails with ErrDispatchUnavailable and issues nothing.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	matches discovery.Result,
	incidentID string,
	originDescription string,
) (*domain.DispatchSummary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(incidentID) == "" {
		return nil, fmt.Errorf("%w: incident id is required", domain.ErrValidation)
	}

	if err := d.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: notification store unreachable: %v", domain.ErrDispatchUnavailable, err)
	}

	recipients := flatten(matches)
	summary := &domain.DispatchSummary{
		CountsByCategory: map[domain.ServiceCategory]int{
			domain.CategoryHospital:  0,
			domain.CategoryAmbulance: 0,
			domain.CategoryPolice:    0,
		},
		Failures: []domain.DispatchFailure{},
	}
	if len(recipients) == 0 {
		return summary, nil
	}

	start := d.now()
	outcomes := make([]outcome, len(recipients))

	g := new(errgroup.Group)
	for i, rcpt := range recipients {
		i, rcpt := i, rcpt
		g.Go(func() error {
			notification := d.buildNotification(rcpt, incidentID, originDescription)
			err := d.store.Create(ctx, notification)
			if err == nil {
				outcomes[i] = outcome{created: true}
				return nil
			}
			outcomes[i] = outcome{reason: failureReason(ctx, err)}
			// Outcomes are collected per recipient; a failed create must
			// never fail the group and cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	for i, rcpt := range recipients {
		if outcomes[i].created {
			summary.CountsByCategory[rcpt.category]++
			summary.TotalNotified++
			d.metrics.IncNotificationCreated(rcpt.category.String())
			continue
		}

		summary.Failures = append(summary.Failures, domain.DispatchFailure{
			Category:    rcpt.category,
			RecipientID: rcpt.service.ID,
			Reason:      outcomes[i].reason,
		})
		d.metrics.IncNotificationFailed(rcpt.category.String(), outcomes[i].reason)
		d.logger.Warn("notification create failed",
			zap.String("incidentId", incidentID),
			zap.String("category", rcpt.category.String()),
			zap.String("recipientId", rcpt.service.ID),
			zap.String("reason", outcomes[i].reason),
		)
	}

	d.metrics.ObserveDispatchDuration(d.now().Sub(start))
	d.logger.Info("dispatch completed",
		zap.String("incidentId", incidentID),
		zap.Int("notified", summary.TotalNotified),
		zap.Int("failed", len(summary.Failures)),
	)

	return summary, nil
}

func (d *Dispatcher) buildNotification(rcpt recipient, incidentID, originDescription string) *domain.Notification {
	title, message := notificationContent(rcpt, originDescription)

	return &domain.Notification{
		ID:                uuid.NewString(),
		RecipientCategory: rcpt.category,
		RecipientID:       rcpt.service.ID,
		RelatedEntityID:   incidentID,
		Title:             title,
		Message:           message,
		Status:            domain.NotificationUnread,
		CreatedAt:         d.now().UTC(),
	}
}

func notificationContent(rcpt recipient, originDescription string) (string, string) {
	place := strings.TrimSpace(originDescription)
	if place == "" {
		place = "the reported location"
	}

	switch rcpt.category {
	case domain.CategoryHospital:
		return "Accident reported nearby",
			fmt.Sprintf("An accident was reported %.1f km from your facility at %s. Casualties may arrive shortly.", rcpt.distanceKm, place)
	case domain.CategoryAmbulance:
		return "Ambulance dispatch request",
			fmt.Sprintf("An accident was reported %.1f km from your unit at %s. Please respond immediately.", rcpt.distanceKm, place)
	case domain.CategoryPolice:
		return "Accident alert",
			fmt.Sprintf("An accident was reported %.1f km from your station at %s. Assistance is requested at the scene.", rcpt.distanceKm, place)
	}

	return "Accident alert",
		fmt.Sprintf("An accident was reported %.1f km away at %s.", rcpt.distanceKm, place)
}

func flatten(matches discovery.Result) []recipient {
	recipients := make([]recipient, 0, matches.Total())
	for _, m := range matches.Hospitals {
		recipients = append(recipients, recipient{category: domain.CategoryHospital, service: m.Service, distanceKm: m.DistanceKm})
	}
	for _, m := range matches.Ambulances {
		recipients = append(recipients, recipient{category: domain.CategoryAmbulance, service: m.Service, distanceKm: m.DistanceKm})
	}
	for _, m := range matches.Police {
		recipients = append(recipients, recipient{category: domain.CategoryPolice, service: m.Service, distanceKm: m.DistanceKm})
	}
	return recipients
}

func failureReason(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return reasonTimeout
	}

	reason := strings.TrimSpace(err.Error())
	if reason == "" {
		return "unknown"
	}
	return reason
}
