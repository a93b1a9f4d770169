package search

import (
	"testing"
	"time"

	"storescout_backend/internal/geo"
	"storescout_backend/internal/listings/domain"

	"github.com/google/uuid"
)

func locatedListing(name string, lat, lon float64) domain.Listing {
	return domain.Listing{
		ID:           uuid.New(),
		BusinessName: name,
		ListingType:  domain.TypeClosing,
		Location:     &domain.Location{Latitude: lat, Longitude: lon},
		CreatedAt:    time.Now(),
	}
}

func TestFilterByDistance_WithinRadius(t *testing.T) {
	origin := geo.Point{Lat: 40.7128, Lon: -74.0060} // NYC
	near := locatedListing("near", 40.73, -74.0)     // ~1 mile
	far := locatedListing("far", 39.9526, -75.1652)  // Philadelphia, ~80 miles

	out := FilterByDistance([]domain.Listing{near, far}, origin, 25)
	if len(out) != 1 || out[0].BusinessName != "near" {
		t.Fatalf("expected only the nearby listing, got %d results", len(out))
	}
}

func TestFilterByDistance_ZeroZeroSentinelExcluded(t *testing.T) {
	// Even an origin adjacent to (0,0) must not match the sentinel.
	origin := geo.Point{Lat: 0.01, Lon: 0.01}
	sentinel := locatedListing("sentinel", 0, 0)

	out := FilterByDistance([]domain.Listing{sentinel}, origin, 1000)
	if len(out) != 0 {
		t.Fatalf("(0,0) coordinates must never pass the geo filter")
	}
}

func TestFilterByDistance_MissingLocationExcluded(t *testing.T) {
	origin := geo.Point{Lat: 40.7128, Lon: -74.0060}
	l := locatedListing("homeless", 40.72, -74.0)
	l.Location = nil

	out := FilterByDistance([]domain.Listing{l}, origin, 100)
	if len(out) != 0 {
		t.Fatalf("listings without a location must be excluded from geo results")
	}
}

func TestFilterByDistance_DefaultLocationExcluded(t *testing.T) {
	origin := geo.Point{Lat: 40.7128, Lon: -74.0060}
	l := locatedListing("fallback", 40.72, -74.0)
	l.Location.IsDefaultLocation = true

	out := FilterByDistance([]domain.Listing{l}, origin, 100)
	if len(out) != 0 {
		t.Fatalf("geocoding-fallback coordinates must not be trusted for distance filtering")
	}
}
