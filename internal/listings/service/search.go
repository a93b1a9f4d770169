package service

import (
	"context"
	"errors"

	"storescout_backend/internal/geo"
	"storescout_backend/internal/geocoding"
	"storescout_backend/internal/listings/domain"
	"storescout_backend/internal/listings/search"
	"storescout_backend/internal/listings/transport"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Search runs the full pipeline: fetch both sources and resolve the origin
// address in parallel, normalize, filter, match, rank, cap. Geocoding
// failure degrades to an unfiltered-by-distance result with a warning;
// repository failure is fatal.
func (s *Service) Search(ctx context.Context, c Criteria) (transport.SearchListingsResponse, error) {
	c = s.applyDefaults(c)
	if err := s.validateCriteria(c); err != nil {
		return transport.SearchListingsResponse{}, err
	}

	var (
		rawStores []domain.RawStore
		rawTips   []domain.RawTip
		warnings  []string
	)
	origin := c.Origin
	locationResolved := true

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawStores, err = s.repo.FetchStores(gctx, true)
		if err != nil {
			return repoErr(err)
		}
		return nil
	})
	if c.IncludeTips {
		g.Go(func() error {
			var err error
			rawTips, err = s.repo.FetchTips(gctx, true)
			if err != nil {
				return repoErr(err)
			}
			return nil
		})
	}

	var geocoded *geo.Point
	var geocodeErr error
	if origin == nil && c.Near != "" {
		// Resolution failure must not cancel the fetches, so the error is
		// captured instead of returned to the group.
		g.Go(func() error {
			pt, err := s.geocoder.Resolve(gctx, c.Near)
			if err != nil {
				geocodeErr = err
				return nil
			}
			geocoded = &pt
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return transport.SearchListingsResponse{}, err
	}

	if c.Near != "" && c.Origin == nil {
		switch {
		case geocodeErr == nil:
			origin = geocoded
		case errors.Is(geocodeErr, geocoding.ErrNotFound):
			locationResolved = false
			warnings = append(warnings, "address could not be found; distance filter not applied")
			s.log.GeocodeFailure(c.Near, geocodeErr)
		default:
			locationResolved = false
			warnings = append(warnings, "location service unavailable; distance filter not applied")
			s.log.GeocodeFailure(c.Near, geocodeErr)
		}
	}

	listings := s.normalizeAll(rawStores, rawTips)
	listings = s.applyFilters(listings, c, origin)

	scored := search.Match(listings, c.Query)
	search.Rank(scored)
	scored = search.Cap(scored, c.Limit)

	results := make([]transport.ListingResponse, 0, len(scored))
	for _, sc := range scored {
		results = append(results, toResponse(sc.Listing, sc.MatchType, origin, false))
	}
	return transport.SearchListingsResponse{
		Results:          results,
		Count:            len(results),
		LocationResolved: locationResolved,
		Warnings:         warnings,
	}, nil
}

// MapView returns all active approved listings split into plottable pins,
// unverified locations, and online stores.
func (s *Service) MapView(ctx context.Context) (transport.MapViewResponse, error) {
	var (
		rawStores []domain.RawStore
		rawTips   []domain.RawTip
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rawStores, err = s.repo.FetchStores(gctx, true)
		return err
	})
	g.Go(func() error {
		var err error
		rawTips, err = s.repo.FetchTips(gctx, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.MapViewResponse{}, repoErr(err)
	}

	now := s.now()
	out := transport.MapViewResponse{
		Pins:       []transport.MapPin{},
		Unverified: []transport.ListingResponse{},
		Online:     []transport.ListingResponse{},
	}
	for _, l := range s.normalizeAll(rawStores, rawTips) {
		if !domain.IsActive(l, now) {
			continue
		}
		switch {
		case l.ListingType == domain.TypeOnline:
			out.Online = append(out.Online, toResponse(l, search.MatchNone, nil, false))
		case l.HasVerifiedCoordinates():
			out.Pins = append(out.Pins, transport.MapPin{
				ID:                 l.ID,
				BusinessName:       l.BusinessName,
				Category:           l.Category,
				ListingType:        string(l.ListingType),
				Latitude:           l.Location.Latitude,
				Longitude:          l.Location.Longitude,
				DiscountPercentage: l.DiscountPercentage,
				IsFeatured:         l.IsFeatured,
			})
		default:
			out.Unverified = append(out.Unverified, toResponse(l, search.MatchNone, nil, false))
		}
	}
	return out, nil
}

func (s *Service) normalizeAll(rawStores []domain.RawStore, rawTips []domain.RawTip) []domain.Listing {
	listings := make([]domain.Listing, 0, len(rawStores)+len(rawTips))
	for _, raw := range rawStores {
		l, err := domain.NormalizeStore(raw)
		if err != nil {
			s.log.RecordDropped("owner_store", rawID(raw.ID), err)
			continue
		}
		listings = append(listings, l)
	}
	for _, raw := range rawTips {
		l, err := domain.NormalizeTip(raw)
		if err != nil {
			s.log.RecordDropped("shopper_tip", rawID(raw.ID), err)
			continue
		}
		listings = append(listings, l)
	}
	return listings
}

// applyFilters runs the structured (non-text) filters in a fixed order:
// approval, expiry, category, type, discount, distance.
func (s *Service) applyFilters(listings []domain.Listing, c Criteria, origin *geo.Point) []domain.Listing {
	now := s.now()
	category := ""
	if c.Category != "" && c.Category != domain.AllCategoriesSentinel {
		category = domain.CanonicalCategory(c.Category)
	}

	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if !l.IsApproved {
			continue
		}
		if !c.IncludeExpired && !domain.IsActive(l, now) {
			continue
		}
		if category != "" && l.Category != category {
			continue
		}
		if c.StoreType != StoreTypeAll && string(l.ListingType) != c.StoreType {
			continue
		}
		if !passesDiscount(l, c.MinDiscount) {
			continue
		}
		out = append(out, l)
	}

	if origin == nil || !origin.Valid() {
		return out
	}
	return filterByOrigin(out, *origin, c.MaxDistanceMiles)
}

// passesDiscount applies the minimum-discount bar to the listing types that
// carry offers (closing and online). Opening listings pass regardless.
func passesDiscount(l domain.Listing, min *int) bool {
	if min == nil || *min <= 0 {
		return true
	}
	if l.ListingType == domain.TypeOpening {
		return true
	}
	return l.DiscountPercentage != nil && *l.DiscountPercentage >= *min
}

// filterByOrigin distance-filters physical listings while exempting online
// ones, preserving the incoming order.
func filterByOrigin(listings []domain.Listing, origin geo.Point, maxMiles float64) []domain.Listing {
	physical := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.ListingType != domain.TypeOnline {
			physical = append(physical, l)
		}
	}
	within := make(map[uuid.UUID]struct{}, len(physical))
	for _, l := range search.FilterByDistance(physical, origin, maxMiles) {
		within[l.ID] = struct{}{}
	}

	out := make([]domain.Listing, 0, len(listings))
	for _, l := range listings {
		if l.ListingType == domain.TypeOnline {
			out = append(out, l)
			continue
		}
		if _, ok := within[l.ID]; ok {
			out = append(out, l)
		}
	}
	return out
}

func rawID(id uuid.UUID) string {
	if id == uuid.Nil {
		return "unknown"
	}
	return id.String()
}
