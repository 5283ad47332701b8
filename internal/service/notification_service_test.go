package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lifeconnect/response-engine/internal/domain"
)

func newTestNotificationService(t *testing.T, repo *fakeNotificationRepo) *NotificationService {
	t.Helper()

	svc, err := NewNotificationService(repo, nil)
	if err != nil {
		t.Fatalf("NewNotificationService() error = %v", err)
	}
	return svc
}

func TestNotificationService_ListForRecipient(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{
		listByRecipientFn: func(_ context.Context, category domain.ServiceCategory, recipientID string) ([]domain.Notification, error) {
			if category != domain.CategoryHospital {
				t.Errorf("category = %s, want HOSPITAL", category)
			}
			if recipientID != "h1" {
				t.Errorf("recipient id = %s, want h1", recipientID)
			}
			return []domain.Notification{{ID: "n1", Status: domain.NotificationUnread}}, nil
		},
	}
	svc := newTestNotificationService(t, repo)

	got, err := svc.ListForRecipient(context.Background(), domain.CategoryHospital, " h1 ")
	if err != nil {
		t.Fatalf("ListForRecipient() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "n1" {
		t.Errorf("notifications = %+v, want [n1]", got)
	}
}

func TestNotificationService_ListForRecipientValidation(t *testing.T) {
	t.Parallel()

	svc := newTestNotificationService(t, &fakeNotificationRepo{})

	if _, err := svc.ListForRecipient(context.Background(), "CLINIC", "h1"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown category error = %v, want ErrValidation", err)
	}
	if _, err := svc.ListForRecipient(context.Background(), domain.CategoryPolice, "  "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank recipient error = %v, want ErrValidation", err)
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Parallel()

	var gotID string
	repo := &fakeNotificationRepo{
		markReadFn: func(_ context.Context, id string) error {
			gotID = id
			return nil
		},
	}
	svc := newTestNotificationService(t, repo)

	if err := svc.MarkRead(context.Background(), " n1 "); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if gotID != "n1" {
		t.Errorf("marked id = %s, want n1", gotID)
	}

	if err := svc.MarkRead(context.Background(), ""); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("blank id error = %v, want ErrValidation", err)
	}
}

func TestNotificationService_MarkReadUnknownID(t *testing.T) {
	t.Parallel()

	repo := &fakeNotificationRepo{
		markReadFn: func(context.Context, string) error {
			return fmt.Errorf("%w: notification not found", domain.ErrNotFound)
		},
	}
	svc := newTestNotificationService(t, repo)

	if err := svc.MarkRead(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("MarkRead() error = %v, want ErrNotFound", err)
	}
}
