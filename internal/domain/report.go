package domain

import (
	"fmt"
	"strings"
	"time"
)

// IncidentReport is an accident report. Created once per submission and
// immutable afterwards; the image itself lives in external storage and is
// referenced by an opaque handle.
type IncidentReport struct {
	ID           string
	ReporterID   string
	Coordinate   Coordinate
	LocationText string
	Description  string
	Contact      string
	ImageRef     string
	CreatedAt    time.Time
}

func (r *IncidentReport) Validate() error {
	if strings.TrimSpace(r.ReporterID) == "" {
		return fmt.Errorf("%w: reporter id is required", ErrValidation)
	}
	if err := r.Coordinate.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Description) == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if strings.TrimSpace(r.Contact) == "" {
		return fmt.Errorf("%w: contact is required", ErrValidation)
	}
	return nil
}
