package service

import (
	"fmt"
	"strings"

	"storescout_backend/internal/geo"
	"storescout_backend/internal/listings/domain"
	"storescout_backend/platform/apperr"
)

// StoreTypeAll matches every listing type in search criteria.
const StoreTypeAll = "all"

// Criteria describes one search request after transport decoding. Zero
// values mean "not supplied"; applyDefaults fills the operational knobs
// before validation.
type Criteria struct {
	Query            string
	Category         string
	StoreType        string
	MinDiscount      *int
	Origin           *geo.Point
	Near             string
	MaxDistanceMiles float64
	Limit            int
	IncludeExpired   bool
	IncludeTips      bool
}

func (s *Service) applyDefaults(c Criteria) Criteria {
	if c.Limit == 0 {
		c.Limit = s.cfg.GetSearchDefaultLimit()
	}
	if c.MaxDistanceMiles == 0 {
		c.MaxDistanceMiles = s.cfg.GetSearchDefaultRadiusMiles()
	}
	if c.StoreType == "" {
		c.StoreType = StoreTypeAll
	}
	c.Query = strings.TrimSpace(c.Query)
	c.Near = strings.TrimSpace(c.Near)
	c.Category = strings.TrimSpace(c.Category)
	return c
}

func (s *Service) validateCriteria(c Criteria) error {
	switch c.StoreType {
	case StoreTypeAll, string(domain.TypeClosing), string(domain.TypeOpening), string(domain.TypeOnline):
	default:
		return apperr.Validation(fmt.Sprintf("unknown store type %q", c.StoreType))
	}
	if c.MinDiscount != nil && (*c.MinDiscount < 0 || *c.MinDiscount > 100) {
		return apperr.Validation("minDiscount must be between 0 and 100")
	}
	if c.MaxDistanceMiles <= 0 {
		return apperr.Validation("maxDistanceMiles must be greater than zero")
	}
	if c.Limit < 1 || c.Limit > s.cfg.GetSearchMaxLimit() {
		return apperr.Validation(fmt.Sprintf("limit must be between 1 and %d", s.cfg.GetSearchMaxLimit()))
	}
	if c.Origin != nil {
		if c.Origin.Lat < -90 || c.Origin.Lat > 90 || c.Origin.Lon < -180 || c.Origin.Lon > 180 {
			return apperr.Validation("latitude or longitude out of range")
		}
	}
	return nil
}
