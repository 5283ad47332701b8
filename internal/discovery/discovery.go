// Package discovery locates emergency services around an incident.
package discovery

import (
	"github.com/lifeconnect/response-engine/internal/domain"
	"github.com/lifeconnect/response-engine/internal/geo"
)

// ServiceMatch is a responder inside the search radius with its computed
// distance from the incident.
type ServiceMatch struct {
	Service    domain.EmergencyService
	DistanceKm float64
}

// Pools holds the candidate responders per category, as fetched by the
// caller.
type Pools struct {
	Hospitals  []domain.EmergencyService
	Ambulances []domain.EmergencyService
	Police     []domain.EmergencyService
}

// Result holds the in-radius responders per category, each sorted
// ascending by distance. A category with zero matches is an empty slice,
// never an error.
type Result struct {
	Hospitals  []ServiceMatch
	Ambulances []ServiceMatch
	Police     []ServiceMatch
}

// Total returns the number of matched services across all categories.
func (r Result) Total() int {
	return len(r.Hospitals) + len(r.Ambulances) + len(r.Police)
}

// DiscoverNearby filters each responder category independently by the
// radius around origin. maxDistanceKm <= 0 falls back to the default
// radius. Services whose position does not parse as a coordinate are
// skipped; incomplete records must not abort the discovery.
func DiscoverNearby(origin domain.Coordinate, pools Pools, maxDistanceKm float64) Result {
	if maxDistanceKm <= 0 {
		maxDistanceKm = geo.DefaultRadiusKm
	}

	return Result{
		Hospitals:  matchCategory(origin, pools.Hospitals, maxDistanceKm),
		Ambulances: matchCategory(origin, pools.Ambulances, maxDistanceKm),
		Police:     matchCategory(origin, pools.Police, maxDistanceKm),
	}
}

func matchCategory(origin domain.Coordinate, services []domain.EmergencyService, maxDistanceKm float64) []ServiceMatch {
	byID := make(map[string]domain.EmergencyService, len(services))
	candidates := make([]geo.Candidate, 0, len(services))
	for _, svc := range services {
		coord, err := svc.Coordinate()
		if err != nil {
			continue
		}
		byID[svc.ID] = svc
		candidates = append(candidates, geo.Candidate{ID: svc.ID, Coordinate: coord})
	}

	found := geo.WithinRadius(origin, candidates, maxDistanceKm)
	matches := make([]ServiceMatch, 0, len(found))
	for _, m := range found {
		matches = append(matches, ServiceMatch{Service: byID[m.ID], DistanceKm: m.DistanceKm})
	}
	return matches
}
