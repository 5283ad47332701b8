// Package matching filters donor pools by blood compatibility and
// location text.
package matching

import (
	"strings"

	"github.com/lifeconnect/response-engine/internal/domain"
)

// FindMatches returns the donors compatible with the requested blood type,
// optionally narrowed to those whose location contains the filter as a
// case-insensitive substring. Input order is preserved. The caller supplies
// the already-fetched pool; this function never touches storage. An empty
// request type matches no one and is not an error.
func FindMatches(donors []domain.Donor, requestType domain.BloodType, locationFilter string) ([]domain.Donor, error) {
	if len(donors) == 0 || strings.TrimSpace(string(requestType)) == "" {
		return nil, nil
	}

	compatible, err := domain.CompatibleDonorTypes(requestType)
	if err != nil {
		return nil, err
	}

	accepted := make(map[domain.BloodType]struct{}, len(compatible))
	for _, bt := range compatible {
		accepted[bt] = struct{}{}
	}

	filter := strings.ToLower(strings.TrimSpace(locationFilter))

	matches := make([]domain.Donor, 0, len(donors))
	for _, donor := range donors {
		if _, ok := accepted[donor.BloodType]; !ok {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(donor.LocationText), filter) {
			continue
		}
		matches = append(matches, donor)
	}

	return matches, nil
}
