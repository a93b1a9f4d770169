package search

import (
	"storescout_backend/internal/geo"
	"storescout_backend/internal/listings/domain"
)

// FilterByDistance keeps listings whose verified coordinates lie within
// maxMiles of origin. Listings without usable coordinates (missing location,
// the (0,0) sentinel, or geocoding-fallback defaults) are excluded outright;
// they are never treated as "anywhere". The orchestrator decides separately
// whether to surface those in an unverified-location bucket, as the map
// view does. Online listings are exempted by the caller, not here.
func FilterByDistance(listings []domain.Listing, origin geo.Point, maxMiles float64) []domain.Listing {
	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if !l.HasVerifiedCoordinates() {
			continue
		}
		if geo.Distance(origin, l.Coordinates()) <= maxMiles {
			out = append(out, l)
		}
	}
	return out
}
