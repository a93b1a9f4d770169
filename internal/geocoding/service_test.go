package geocoding

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storescout_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetGeocodingBaseURL() string         { return c.baseURL }
func (c testConfig) GetGeocodingUserAgent() string       { return "test/1.0" }
func (c testConfig) GetGeocodingCountryCodes() string    { return "us" }
func (c testConfig) GetGeocodingTimeout() time.Duration  { return time.Second }
func (c testConfig) GetGeocodingCacheTTL() time.Duration { return time.Minute }

func TestResolveReturnsParsedCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "500 Main St, Springfield" {
			t.Errorf("unexpected query: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"39.7817","lon":"-89.6501","display_name":"Springfield","address":{"city":"Springfield","state":"Illinois"}}]`))
	}))
	defer srv.Close()

	svc := NewService(testConfig{baseURL: srv.URL}, nil, logger.New("development"))

	pt, err := svc.Resolve(context.Background(), "500 Main St, Springfield")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if math.Abs(pt.Lat-39.7817) > 1e-9 || math.Abs(pt.Lon-(-89.6501)) > 1e-9 {
		t.Fatalf("unexpected point: %+v", pt)
	}
}

func TestResolveEmptyResultIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	svc := NewService(testConfig{baseURL: srv.URL}, nil, logger.New("development"))

	_, err := svc.Resolve(context.Background(), "nowhere at all")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveUpstreamErrorIsNotNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := NewService(testConfig{baseURL: srv.URL}, nil, logger.New("development"))

	_, err := svc.Resolve(context.Background(), "123 Elm St")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatal("upstream failure must not report as not-found")
	}
}

func TestResolveReadsThroughCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"40.7128","lon":"-74.0060","address":{"city":"New York"}}]`))
	}))
	defer srv.Close()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(testConfig{baseURL: srv.URL}, cache, logger.New("development"))

	first, err := svc.Resolve(context.Background(), "New York, NY")
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := svc.Resolve(context.Background(), "New York, NY")
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if hits != 1 {
		t.Fatalf("expected one upstream call, got %d", hits)
	}
	if first != second {
		t.Fatalf("cached point %+v differs from original %+v", second, first)
	}
}

func TestSuggestionsSkipResultsWithoutCity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"lat":"1","lon":"2","address":{"road":"Main St","house_number":"10","city":"Springfield","state":"Illinois","postcode":"62701"}},
			{"lat":"3","lon":"4","address":{"road":"Lost Rd"}}
		]`))
	}))
	defer srv.Close()

	svc := NewService(testConfig{baseURL: srv.URL}, nil, logger.New("development"))

	got, err := svc.Suggestions(context.Background(), "Main St")
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(got))
	}
	if got[0].Street != "10 Main St" {
		t.Fatalf("unexpected street: %q", got[0].Street)
	}
	if got[0].Label != "10 Main St, Springfield, Illinois, 62701" {
		t.Fatalf("unexpected label: %q", got[0].Label)
	}
}
