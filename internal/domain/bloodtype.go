package domain

import (
	"fmt"
	"strings"
)

// BloodType is one of the eight ABO/Rh blood groups.
type BloodType string

const (
	BloodAPositive  BloodType = "A+"
	BloodANegative  BloodType = "A-"
	BloodBPositive  BloodType = "B+"
	BloodBNegative  BloodType = "B-"
	BloodABPositive BloodType = "AB+"
	BloodABNegative BloodType = "AB-"
	BloodOPositive  BloodType = "O+"
	BloodONegative  BloodType = "O-"
)

func (b BloodType) String() string { return string(b) }

func (b BloodType) IsValid() bool {
	switch b {
	case BloodAPositive, BloodANegative, BloodBPositive, BloodBNegative,
		BloodABPositive, BloodABNegative, BloodOPositive, BloodONegative:
		return true
	}
	return false
}

func ParseBloodTypeFromString(s string) (BloodType, error) {
	b := BloodType(strings.ToUpper(strings.TrimSpace(s)))
	if !b.IsValid() {
		return "", fmt.Errorf("%w: invalid blood type %q", ErrValidation, s)
	}
	return b, nil
}

// compatibility maps a requested blood type to the donor types it can
// safely receive from.
var compatibility = map[BloodType][]BloodType{
	BloodAPositive:  {BloodAPositive, BloodANegative, BloodOPositive, BloodONegative},
	BloodANegative:  {BloodANegative, BloodONegative},
	BloodBPositive:  {BloodBPositive, BloodBNegative, BloodOPositive, BloodONegative},
	BloodBNegative:  {BloodBNegative, BloodONegative},
	BloodABPositive: {BloodAPositive, BloodANegative, BloodBPositive, BloodBNegative, BloodABPositive, BloodABNegative, BloodOPositive, BloodONegative},
	BloodABNegative: {BloodANegative, BloodBNegative, BloodONegative, BloodABNegative},
	BloodOPositive:  {BloodOPositive, BloodONegative},
	BloodONegative:  {BloodONegative},
}

// CompatibleDonorTypes returns the set of donor blood types a recipient of
// the given type can accept.
func CompatibleDonorTypes(requestType BloodType) ([]BloodType, error) {
	if !requestType.IsValid() {
		return nil, fmt.Errorf("%w: invalid blood type %q", ErrValidation, requestType)
	}

	types := compatibility[requestType]
	out := make([]BloodType, len(types))
	copy(out, types)
	return out, nil
}
