package domain

import (
	"fmt"
	"strings"
	"time"
)

// Donor is a registered blood donor. The engine never mutates or deletes
// donor records; contact and location edits happen upstream.
type Donor struct {
	ID           string
	Name         string
	BloodType    BloodType
	Contact      string
	LocationText string
	RegisteredAt time.Time
}

func (d *Donor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: donor name is required", ErrValidation)
	}
	if !d.BloodType.IsValid() {
		return fmt.Errorf("%w: invalid blood type %q", ErrValidation, d.BloodType)
	}
	if strings.TrimSpace(d.Contact) == "" {
		return fmt.Errorf("%w: donor contact is required", ErrValidation)
	}
	return nil
}
