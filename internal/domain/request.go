package domain

import (
	"fmt"
	"strings"
	"time"
)

// RequestStatus represents the lifecycle state of a blood request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusAccepted RequestStatus = "ACCEPTED"
	RequestStatusDeclined RequestStatus = "DECLINED"
)

func (s RequestStatus) String() string { return string(s) }

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusDeclined:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusAccepted || s == RequestStatusDeclined
}

func ParseRequestStatusFromString(s string) (RequestStatus, error) {
	st := RequestStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid request status %q", ErrValidation, s)
	}
	return st, nil
}

// BloodRequest is an open request for blood units. Status moves from
// PENDING to exactly one of ACCEPTED or DECLINED by a donor action.
type BloodRequest struct {
	ID           string
	RequesterID  string
	BloodType    BloodType
	UnitsNeeded  int
	NeededBy     time.Time
	LocationText string
	Status       RequestStatus
	CreatedAt    time.Time
}

func (r *BloodRequest) Validate() error {
	if strings.TrimSpace(r.RequesterID) == "" {
		return fmt.Errorf("%w: requester id is required", ErrValidation)
	}
	if !r.BloodType.IsValid() {
		return fmt.Errorf("%w: invalid blood type %q", ErrValidation, r.BloodType)
	}
	if r.UnitsNeeded <= 0 {
		return fmt.Errorf("%w: units needed must be positive (got %d)", ErrValidation, r.UnitsNeeded)
	}
	if strings.TrimSpace(r.LocationText) == "" {
		return fmt.Errorf("%w: location is required", ErrValidation)
	}
	return nil
}

// CanTransitionTo reports whether the request may move to the given status.
func (r *BloodRequest) CanTransitionTo(next RequestStatus) bool {
	if r.Status.IsTerminal() {
		return false
	}
	return next == RequestStatusAccepted || next == RequestStatusDeclined
}
