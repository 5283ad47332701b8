package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate is a WGS84 latitude/longitude pair.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrValidation, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrValidation, c.Longitude)
	}
	return nil
}

// ParseCoordinate parses a "lat,lon" position string as stored on
// emergency service records.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return Coordinate{}, fmt.Errorf("%w: position %q is not lat,lon", ErrValidation, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: invalid latitude %q", ErrValidation, parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: invalid longitude %q", ErrValidation, parts[1])
	}

	coord := Coordinate{Latitude: lat, Longitude: lon}
	if err := coord.Validate(); err != nil {
		return Coordinate{}, err
	}
	return coord, nil
}
