// Package geocoding resolves free-text addresses to coordinates using the
// Nominatim search API, with an optional Redis read-through cache in front
// of it.
package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"storescout_backend/internal/geo"
	"storescout_backend/platform/config"
	"storescout_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when the upstream has no result for an address.
// Callers treat it differently from transport failures: the address is
// wrong, not the service.
var ErrNotFound = errors.New("geocoding: address not found")

type Service struct {
	client *http.Client
	cache  redis.UniversalClient
	cfg    config.GeocodingConfig
	log    *logger.Logger
}

// NewService builds the geocoder. cache may be nil; resolution then always
// hits the upstream.
func NewService(cfg config.GeocodingConfig, cache redis.UniversalClient, log *logger.Logger) *Service {
	return &Service{
		client: &http.Client{Timeout: cfg.GetGeocodingTimeout()},
		cache:  cache,
		cfg:    cfg,
		log:    log,
	}
}

// Resolve geocodes a single address to a point. Cache hits skip the
// upstream entirely; cache errors are ignored so Redis downtime never
// breaks resolution.
func (s *Service) Resolve(ctx context.Context, address string) (geo.Point, error) {
	key := cacheKey(address)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			if pt, ok := decodePoint(cached); ok {
				return pt, nil
			}
		}
	}

	results, err := s.query(ctx, address, 1)
	if err != nil {
		return geo.Point{}, err
	}
	if len(results) == 0 {
		return geo.Point{}, ErrNotFound
	}

	pt, err := parsePoint(results[0].Lat, results[0].Lon)
	if err != nil {
		return geo.Point{}, fmt.Errorf("geocoding: malformed upstream coordinates: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, encodePoint(pt), s.cfg.GetGeocodingCacheTTL()).Err(); err != nil {
			s.log.Warn("geocode cache write failed", "error", err)
		}
	}
	return pt, nil
}

// Suggestions returns up to five address candidates for autocomplete.
func (s *Service) Suggestions(ctx context.Context, query string) ([]AddressSuggestion, error) {
	results, err := s.query(ctx, query, 5)
	if err != nil {
		return nil, err
	}

	suggestions := make([]AddressSuggestion, 0, len(results))
	for _, raw := range results {
		if suggestion, ok := buildSuggestion(raw); ok {
			suggestions = append(suggestions, suggestion)
		}
	}
	return suggestions, nil
}

func (s *Service) query(ctx context.Context, q string, limit int) ([]nominatimResponse, error) {
	params := url.Values{}
	params.Add("q", q)
	params.Add("format", "json")
	params.Add("addressdetails", "1")
	params.Add("limit", strconv.Itoa(limit))
	if codes := s.cfg.GetGeocodingCountryCodes(); codes != "" {
		params.Add("countrycodes", codes)
	}

	reqURL := fmt.Sprintf("%s?%s", s.cfg.GetGeocodingBaseURL(), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.cfg.GetGeocodingUserAgent())

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("nominatim request failed", "error", err)
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("nominatim upstream error", "status", resp.StatusCode)
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var rawResults []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&rawResults); err != nil {
		s.log.Error("failed to decode nominatim payload", "error", err)
		return nil, err
	}
	return rawResults, nil
}

func buildSuggestion(raw nominatimResponse) (AddressSuggestion, bool) {
	city := pickCity(raw.Address)
	if city == "" {
		return AddressSuggestion{}, false
	}

	street := raw.Address.Road
	if street != "" && raw.Address.HouseNumber != "" {
		street = raw.Address.HouseNumber + " " + street
	}

	suggestion := AddressSuggestion{
		Street:  street,
		City:    city,
		State:   raw.Address.State,
		ZipCode: raw.Address.Postcode,
		Lat:     raw.Lat,
		Lon:     raw.Lon,
	}
	suggestion.Label = buildLabel(suggestion)
	return suggestion, true
}

func pickCity(address nominatimAddress) string {
	if address.City != "" {
		return address.City
	}
	if address.Town != "" {
		return address.Town
	}
	if address.Village != "" {
		return address.Village
	}
	if address.Municipality != "" {
		return address.Municipality
	}
	return address.Hamlet
}

func buildLabel(suggestion AddressSuggestion) string {
	parts := make([]string, 0, 4)
	if suggestion.Street != "" {
		parts = append(parts, suggestion.Street)
	}
	parts = append(parts, suggestion.City)
	if suggestion.State != "" {
		parts = append(parts, suggestion.State)
	}
	if suggestion.ZipCode != "" {
		parts = append(parts, suggestion.ZipCode)
	}
	return strings.Join(parts, ", ")
}

func cacheKey(address string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(address))
}

func encodePoint(pt geo.Point) string {
	return strconv.FormatFloat(pt.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(pt.Lon, 'f', -1, 64)
}

func decodePoint(value string) (geo.Point, bool) {
	lat, lon, ok := strings.Cut(value, ",")
	if !ok {
		return geo.Point{}, false
	}
	pt, err := parsePoint(lat, lon)
	if err != nil {
		return geo.Point{}, false
	}
	return pt, true
}

func parsePoint(lat, lon string) (geo.Point, error) {
	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return geo.Point{}, err
	}
	lonF, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return geo.Point{}, err
	}
	return geo.Point{Lat: latF, Lon: lonF}, nil
}
