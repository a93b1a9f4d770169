package service

import (
	"context"

	"storescout_backend/internal/geo"
	"storescout_backend/internal/listings/domain"

	"github.com/google/uuid"
)

// ListingSource is the repository contract the orchestrator depends on.
// The pgx implementation lives in internal/listings/repository; tests use
// in-memory fakes.
type ListingSource interface {
	FetchStores(ctx context.Context, approved bool) ([]domain.RawStore, error)
	FetchTips(ctx context.Context, approved bool) ([]domain.RawTip, error)
	CreateStore(ctx context.Context, store domain.RawStore) (domain.RawStore, error)
	CreateTip(ctx context.Context, tip domain.RawTip) (domain.RawTip, error)
	SetStoreApproval(ctx context.Context, id uuid.UUID, approved bool) error
	SetTipApproval(ctx context.Context, id uuid.UUID, approved bool) error
	DeleteStore(ctx context.Context, id uuid.UUID) error
	DeleteTip(ctx context.Context, id uuid.UUID) error
}

// Geocoder resolves free-text addresses to coordinates. Implementations
// return geocoding.ErrNotFound when the address has no result; any error is
// treated as a soft degrade by the search path.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (geo.Point, error)
}
