package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storescout_backend/internal/geo"
	"storescout_backend/internal/listings/domain"
	"storescout_backend/internal/listings/service"
	"storescout_backend/internal/listings/transport"
	"storescout_backend/platform/events"
	"storescout_backend/platform/logger"
	"storescout_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type stubRepo struct {
	stores []domain.RawStore
}

func (s *stubRepo) FetchStores(ctx context.Context, approved bool) ([]domain.RawStore, error) {
	return s.stores, nil
}

func (s *stubRepo) FetchTips(ctx context.Context, approved bool) ([]domain.RawTip, error) {
	return nil, nil
}

func (s *stubRepo) CreateStore(ctx context.Context, store domain.RawStore) (domain.RawStore, error) {
	return store, nil
}

func (s *stubRepo) CreateTip(ctx context.Context, tip domain.RawTip) (domain.RawTip, error) {
	return tip, nil
}

func (s *stubRepo) SetStoreApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	return nil
}

func (s *stubRepo) SetTipApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	return nil
}

func (s *stubRepo) DeleteStore(ctx context.Context, id uuid.UUID) error { return nil }
func (s *stubRepo) DeleteTip(ctx context.Context, id uuid.UUID) error   { return nil }

type failingGeocoder struct{}

func (failingGeocoder) Resolve(ctx context.Context, address string) (geo.Point, error) {
	return geo.Point{}, errors.New("upstream timeout")
}

type stubCfg struct{}

func (stubCfg) GetSearchDefaultLimit() int           { return 10 }
func (stubCfg) GetSearchMaxLimit() int               { return 100 }
func (stubCfg) GetSearchDefaultRadiusMiles() float64 { return 25 }
func (stubCfg) GetDefaultLatitude() float64          { return 0 }
func (stubCfg) GetDefaultLongitude() float64         { return 0 }

func newTestRouter(t *testing.T, repo *stubRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New("development")
	svc := service.New(repo, failingGeocoder{}, events.NewInMemoryBus(log), stubCfg{}, log)
	h := NewHandler(svc, validator.New())

	engine := gin.New()
	engine.GET("/api/v1/listings/search", h.Search)
	return engine
}

func TestSearchEndpointDegradedGeocodeReturnsOK(t *testing.T) {
	lat, lon := 40.7128, -74.0060
	future := time.Now().AddDate(0, 1, 0)
	repo := &stubRepo{stores: []domain.RawStore{{
		ID:           uuid.New(),
		BusinessName: "Ace Hardware",
		StoreType:    "closing",
		Latitude:     &lat,
		Longitude:    &lon,
		ClosingDate:  &future,
		IsApproved:   true,
		CreatedAt:    time.Now().AddDate(0, 0, -1),
	}}}
	engine := newTestRouter(t, repo)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/search?near=Nowhere+Falls", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp transport.SearchListingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.LocationResolved {
		t.Fatal("expected locationResolved=false after geocode failure")
	}
	if len(resp.Warnings) == 0 {
		t.Fatal("expected a degraded-mode warning")
	}
	if resp.Count != 1 {
		t.Fatalf("expected the listing unfiltered, got %d results", resp.Count)
	}
}

func TestSearchEndpointRejectsHalfCoordinatePair(t *testing.T) {
	engine := newTestRouter(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/search?lat=40.7", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSearchEndpointZeroResultsIsEmptyList(t *testing.T) {
	engine := newTestRouter(t, &stubRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/search?q=velociraptors", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp transport.SearchListingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Fatalf("expected empty (non-null) results, got %+v", resp.Results)
	}
}

func TestBuildCriteriaDefaultsToActiveStoresOnly(t *testing.T) {
	criteria, err := buildCriteria(transport.SearchListingsRequest{})
	if err != nil {
		t.Fatalf("buildCriteria: %v", err)
	}
	if criteria.IncludeExpired {
		t.Fatal("lapsed listings must be excluded unless asked for")
	}
	if criteria.IncludeTips {
		t.Fatal("tips must be opt-in")
	}
}

func TestBuildCriteriaHonorsExplicitToggles(t *testing.T) {
	f, tr := false, true
	criteria, err := buildCriteria(transport.SearchListingsRequest{
		ActiveOnly:  &f,
		IncludeTips: &tr,
	})
	if err != nil {
		t.Fatalf("buildCriteria: %v", err)
	}
	if !criteria.IncludeExpired {
		t.Fatal("activeOnly=false should include lapsed listings")
	}
	if !criteria.IncludeTips {
		t.Fatal("includeTips=true should include tips")
	}
}
