package domain

import (
	"fmt"
	"strings"
)

// ServiceCategory classifies an emergency responder.
type ServiceCategory string

const (
	CategoryHospital  ServiceCategory = "HOSPITAL"
	CategoryAmbulance ServiceCategory = "AMBULANCE"
	CategoryPolice    ServiceCategory = "POLICE"
)

func (c ServiceCategory) String() string { return string(c) }

func (c ServiceCategory) IsValid() bool {
	switch c {
	case CategoryHospital, CategoryAmbulance, CategoryPolice:
		return true
	}
	return false
}

func ParseServiceCategoryFromString(s string) (ServiceCategory, error) {
	c := ServiceCategory(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: invalid service category %q", ErrValidation, s)
	}
	return c, nil
}

// ServiceCategories lists all responder categories in discovery order.
func ServiceCategories() []ServiceCategory {
	return []ServiceCategory{CategoryHospital, CategoryAmbulance, CategoryPolice}
}

// EmergencyService is a responder record (hospital, ambulance, or police
// unit). Read-only to the engine. Position is a "lat,lon" string; records
// with an unparsable position are skipped during discovery rather than
// failing it.
type EmergencyService struct {
	ID       string
	Category ServiceCategory
	Name     string
	Contact  string
	Position string
}

// Coordinate parses the service position.
func (s *EmergencyService) Coordinate() (Coordinate, error) {
	return ParseCoordinate(s.Position)
}
