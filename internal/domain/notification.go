package domain

import (
	"fmt"
	"strings"
	"time"
)

// NotificationStatus is the read state of a delivered notification.
type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "UNREAD"
	NotificationRead   NotificationStatus = "READ"
)

func (s NotificationStatus) String() string { return string(s) }

func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationUnread, NotificationRead:
		return true
	}
	return false
}

// Notification is a record created for one matched responder. Only the
// dispatcher creates notifications; only the recipient flips the status.
type Notification struct {
	ID                string
	RecipientCategory ServiceCategory
	RecipientID       string
	RelatedEntityID   string
	Title             string
	Message           string
	Status            NotificationStatus
	CreatedAt         time.Time
}

func (n *Notification) Validate() error {
	if !n.RecipientCategory.IsValid() {
		return fmt.Errorf("%w: invalid recipient category %q", ErrValidation, n.RecipientCategory)
	}
	if strings.TrimSpace(n.RecipientID) == "" {
		return fmt.Errorf("%w: recipient id is required", ErrValidation)
	}
	if strings.TrimSpace(n.RelatedEntityID) == "" {
		return fmt.Errorf("%w: related entity id is required", ErrValidation)
	}
	if strings.TrimSpace(n.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(n.Message) == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}
	return nil
}

// DispatchFailure identifies one recipient whose notification was not
// created, with the reason.
type DispatchFailure struct {
	Category    ServiceCategory
	RecipientID string
	Reason      string
}

// DispatchSummary is the transient result of one dispatch call. It is
// returned to the caller and partially persisted next to the report; it is
// never stored as its own record.
type DispatchSummary struct {
	CountsByCategory map[ServiceCategory]int
	TotalNotified    int
	Failures         []DispatchFailure
}

// NotifiedInCategory returns the successful count for a category.
func (s *DispatchSummary) NotifiedInCategory(category ServiceCategory) int {
	if s == nil || s.CountsByCategory == nil {
		return 0
	}
	return s.CountsByCategory[category]
}
