// Package service orchestrates the listings domain: search over merged
// sources, map and review views, submissions, and the admin approval
// workflow. All persistence goes through the ListingSource port and all
// address resolution through the Geocoder port.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storescout_backend/internal/events"
	"storescout_backend/internal/geo"
	"storescout_backend/internal/listings/domain"
	"storescout_backend/internal/listings/search"
	"storescout_backend/internal/listings/transport"
	"storescout_backend/platform/apperr"
	"storescout_backend/platform/config"
	"storescout_backend/platform/logger"
	"storescout_backend/platform/sanitize"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo     ListingSource
	geocoder Geocoder
	bus      events.Bus
	cfg      config.SearchConfig
	log      *logger.Logger
	now      func() time.Time
}

func New(repo ListingSource, geocoder Geocoder, bus events.Bus, cfg config.SearchConfig, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		geocoder: geocoder,
		bus:      bus,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// SubmitStore accepts an owner listing, geocodes its address, and stores it
// unapproved. Geocoding failure falls back to the configured default
// coordinates with the location marked unverified rather than rejecting the
// submission.
func (s *Service) SubmitStore(ctx context.Context, req transport.SubmitStoreRequest) (transport.SubmitResponse, error) {
	if req.IsOnlineStore && strings.TrimSpace(req.Website) == "" {
		return transport.SubmitResponse{}, apperr.Validation("website is required for online stores")
	}

	closing, err := parseDate(req.ClosingDate)
	if err != nil {
		return transport.SubmitResponse{}, apperr.Validation("closingDate must be formatted as YYYY-MM-DD")
	}
	opening, err := parseDate(req.OpeningDate)
	if err != nil {
		return transport.SubmitResponse{}, apperr.Validation("openingDate must be formatted as YYYY-MM-DD")
	}
	promoEnd, err := parseDate(req.PromotionEndDate)
	if err != nil {
		return transport.SubmitResponse{}, apperr.Validation("promotionEndDate must be formatted as YYYY-MM-DD")
	}

	store := domain.RawStore{
		ID:                  uuid.New(),
		BusinessName:        sanitize.Text(req.BusinessName),
		Category:            domain.CanonicalCategory(req.Category),
		StoreType:           req.StoreType,
		IsOnlineStore:       req.IsOnlineStore,
		Website:             strings.TrimSpace(req.Website),
		Phone:               strings.TrimSpace(req.Phone),
		Email:               strings.TrimSpace(req.Email),
		Address:             sanitize.Text(req.Address),
		City:                sanitize.Text(req.City),
		State:               sanitize.Text(req.State),
		ZipCode:             strings.TrimSpace(req.ZipCode),
		ClosingDate:         closing,
		OpeningDate:         opening,
		PromotionEndDate:    promoEnd,
		DiscountPercentage:  req.DiscountPercentage,
		Description:         sanitize.Text(req.Description),
		SpecialOffers:       sanitize.Text(req.SpecialOffers),
		ReasonForClosing:    sanitize.Text(req.ReasonForClosing),
		ReasonForTransition: sanitize.Text(req.ReasonForTransition),
		IsApproved:          false,
		CreatedAt:           s.now().UTC(),
	}

	if !store.IsOnlineStore {
		s.assignCoordinates(ctx, &store)
	}

	created, err := s.repo.CreateStore(ctx, store)
	if err != nil {
		return transport.SubmitResponse{}, repoErr(err)
	}

	s.bus.Publish(ctx, events.StoreSubmitted{
		BaseEvent:    events.NewBaseEvent(),
		StoreID:      created.ID,
		BusinessName: created.BusinessName,
		StoreType:    created.StoreType,
		City:         created.City,
	})

	return transport.SubmitResponse{
		ID:      created.ID,
		Status:  "pending_review",
		Message: "listing received and awaiting review",
	}, nil
}

// SubmitTip accepts a shopper-reported listing and stores it unapproved.
// The notes blob is kept verbatim; it is decoded leniently at search time.
func (s *Service) SubmitTip(ctx context.Context, req transport.SubmitTipRequest) (transport.SubmitResponse, error) {
	closing, err := parseDate(req.ClosingDate)
	if err != nil {
		return transport.SubmitResponse{}, apperr.Validation("closingDate must be formatted as YYYY-MM-DD")
	}

	tip := domain.RawTip{
		ID:                 uuid.New(),
		StoreName:          sanitize.Text(req.StoreName),
		Category:           domain.CanonicalCategory(req.Category),
		StoreType:          req.StoreType,
		IsOnlineStore:      req.IsOnlineStore,
		Website:            strings.TrimSpace(req.Website),
		Address:            sanitize.Text(req.Address),
		City:               sanitize.Text(req.City),
		State:              sanitize.Text(req.State),
		ZipCode:            strings.TrimSpace(req.ZipCode),
		ClosingDate:        closing,
		DiscountPercentage: req.DiscountPercentage,
		Description:        sanitize.Text(req.Description),
		SpecialOffers:      sanitize.Text(req.SpecialOffers),
		Reason:             sanitize.Text(req.Reason),
		Notes:              req.Notes,
		SubmitterEmail:     strings.TrimSpace(req.SubmitterEmail),
		IsApproved:         false,
		CreatedAt:          s.now().UTC(),
	}

	if !tip.IsOnlineStore {
		addr := joinAddress(tip.Address, tip.City, tip.State, tip.ZipCode)
		if addr != "" {
			if pt, err := s.geocoder.Resolve(ctx, addr); err == nil {
				tip.Latitude = &pt.Lat
				tip.Longitude = &pt.Lon
			} else {
				s.log.GeocodeFailure(addr, err)
				lat, lon := s.cfg.GetDefaultLatitude(), s.cfg.GetDefaultLongitude()
				tip.Latitude = &lat
				tip.Longitude = &lon
				tip.IsDefaultLocation = true
			}
		}
	}

	created, err := s.repo.CreateTip(ctx, tip)
	if err != nil {
		return transport.SubmitResponse{}, repoErr(err)
	}

	s.bus.Publish(ctx, events.TipSubmitted{
		BaseEvent:      events.NewBaseEvent(),
		TipID:          created.ID,
		StoreName:      created.StoreName,
		SubmitterEmail: created.SubmitterEmail,
	})

	return transport.SubmitResponse{
		ID:      created.ID,
		Status:  "pending_review",
		Message: "tip received and awaiting review",
	}, nil
}

// PendingReview returns all unapproved submissions for the admin queue.
// Malformed records are dropped and logged, same as the search path.
func (s *Service) PendingReview(ctx context.Context) (transport.PendingReviewResponse, error) {
	rawStores, err := s.repo.FetchStores(ctx, false)
	if err != nil {
		return transport.PendingReviewResponse{}, repoErr(err)
	}
	rawTips, err := s.repo.FetchTips(ctx, false)
	if err != nil {
		return transport.PendingReviewResponse{}, repoErr(err)
	}

	out := transport.PendingReviewResponse{
		Stores: []transport.ListingResponse{},
		Tips:   []transport.ListingResponse{},
	}
	for _, raw := range rawStores {
		l, err := domain.NormalizeStore(raw)
		if err != nil {
			s.log.RecordDropped("owner_store", raw.ID.String(), err)
			continue
		}
		out.Stores = append(out.Stores, toResponse(l, search.MatchNone, nil, true))
	}
	for _, raw := range rawTips {
		l, err := domain.NormalizeTip(raw)
		if err != nil {
			s.log.RecordDropped("shopper_tip", raw.ID.String(), err)
			continue
		}
		out.Tips = append(out.Tips, toResponse(l, search.MatchNone, nil, true))
	}
	return out, nil
}

// Approve marks a store or tip as approved and publishes the decision.
func (s *Service) Approve(ctx context.Context, kind string, id uuid.UUID) error {
	sourceKind, err := s.setApproval(ctx, kind, id)
	if err != nil {
		return err
	}
	s.bus.Publish(ctx, events.ListingApproved{
		BaseEvent:  events.NewBaseEvent(),
		ListingID:  id,
		SourceKind: string(sourceKind),
	})
	return nil
}

// Reject removes a store or tip and publishes the decision.
func (s *Service) Reject(ctx context.Context, kind string, id uuid.UUID) error {
	var sourceKind domain.SourceKind
	switch kind {
	case "stores":
		sourceKind = domain.SourceOwnerStore
		if err := s.repo.DeleteStore(ctx, id); err != nil {
			return repoErr(err)
		}
	case "tips":
		sourceKind = domain.SourceShopperTip
		if err := s.repo.DeleteTip(ctx, id); err != nil {
			return repoErr(err)
		}
	default:
		return apperr.Validation(fmt.Sprintf("unknown listing kind %q", kind))
	}
	s.bus.Publish(ctx, events.ListingRejected{
		BaseEvent:  events.NewBaseEvent(),
		ListingID:  id,
		SourceKind: string(sourceKind),
	})
	return nil
}

func (s *Service) setApproval(ctx context.Context, kind string, id uuid.UUID) (domain.SourceKind, error) {
	switch kind {
	case "stores":
		return domain.SourceOwnerStore, repoErr(s.repo.SetStoreApproval(ctx, id, true))
	case "tips":
		return domain.SourceShopperTip, repoErr(s.repo.SetTipApproval(ctx, id, true))
	default:
		return "", apperr.Validation(fmt.Sprintf("unknown listing kind %q", kind))
	}
}

func (s *Service) assignCoordinates(ctx context.Context, store *domain.RawStore) {
	addr := joinAddress(store.Address, store.City, store.State, store.ZipCode)
	if addr == "" {
		return
	}
	pt, err := s.geocoder.Resolve(ctx, addr)
	if err != nil {
		s.log.GeocodeFailure(addr, err)
		lat, lon := s.cfg.GetDefaultLatitude(), s.cfg.GetDefaultLongitude()
		store.Latitude = &lat
		store.Longitude = &lon
		store.IsDefaultLocation = true
		return
	}
	store.Latitude = &pt.Lat
	store.Longitude = &pt.Lon
}

// repoErr normalizes persistence failures: typed domain errors pass
// through, anything else means the listing store cannot be reached.
func repoErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*apperr.Error); ok {
		return err
	}
	return apperr.Wrap(apperr.KindUnavailable, "listing repository unavailable", err)
}

func joinAddress(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

func parseDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toResponse(l domain.Listing, mt search.MatchType, origin *geo.Point, adminView bool) transport.ListingResponse {
	resp := transport.ListingResponse{
		ID:                 l.ID,
		SourceKind:         string(l.SourceKind),
		BusinessName:       l.BusinessName,
		Category:           l.Category,
		ListingType:        string(l.ListingType),
		Website:            l.Website,
		DiscountPercentage: l.DiscountPercentage,
		RelevantDate:       l.RelevantDate(),
		Description:        l.DescriptionText,
		SpecialOffers:      l.SpecialOffersText,
		Reason:             l.ReasonText,
		IsFeatured:         l.IsFeatured,
		CreatedAt:          l.CreatedAt,
		MatchType:          string(mt),
	}
	if l.Location != nil {
		resp.Location = &transport.LocationResponse{
			Address:           l.Location.Address,
			City:              l.Location.City,
			State:             l.Location.State,
			ZipCode:           l.Location.ZipCode,
			Latitude:          l.Location.Latitude,
			Longitude:         l.Location.Longitude,
			IsDefaultLocation: l.Location.IsDefaultLocation,
		}
	}
	if origin != nil && l.HasVerifiedCoordinates() {
		d := geo.Distance(*origin, l.Coordinates())
		resp.DistanceMiles = &d
	}
	if adminView {
		resp.SubmitterEmail = l.SubmitterEmail
	}
	return resp
}
