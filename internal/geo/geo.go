// Package geo computes great-circle distances and radius filters over
// candidate coordinates.
package geo

import (
	"math"
	"sort"

	"github.com/lifeconnect/response-engine/internal/domain"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371.0

// DefaultRadiusKm is the search radius applied when a caller does not
// specify one.
const DefaultRadiusKm = 10.0

// DistanceKm returns the haversine distance between two coordinates.
func DistanceKm(a, b domain.Coordinate) float64 {
	latA := toRadians(a.Latitude)
	latB := toRadians(b.Latitude)
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Candidate is an identifiable point considered for a radius search.
type Candidate struct {
	ID         string
	Coordinate domain.Coordinate
}

// Match is a candidate that fell inside the search radius.
type Match struct {
	ID         string
	DistanceKm float64
}

// WithinRadius filters candidates to those within maxDistanceKm of origin,
// sorted ascending by distance. Ties keep input order. A non-positive
// radius yields no matches.
func WithinRadius(origin domain.Coordinate, candidates []Candidate, maxDistanceKm float64) []Match {
	if maxDistanceKm <= 0 {
		return nil
	}

	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		d := DistanceKm(origin, c.Coordinate)
		if d <= maxDistanceKm {
			matches = append(matches, Match{ID: c.ID, DistanceKm: d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})

	return matches
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
