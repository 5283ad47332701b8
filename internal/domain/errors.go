package domain

import "errors"

var (
	// ErrValidation marks input rejected before any store access.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a missing record.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an operation rejected by the current record state.
	ErrConflict = errors.New("conflict")
	// ErrStoreUnavailable marks a collaborator store that cannot be reached.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrDispatchUnavailable marks a dispatch that issued zero notifications
	// because the notification store was unreachable up front.
	ErrDispatchUnavailable = errors.New("dispatch unavailable")
)
