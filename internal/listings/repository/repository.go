// Package repository provides database access for owner stores and shopper
// tips, the two raw listing sources.
package repository

import (
	"context"
	"fmt"
	"time"

	"storescout_backend/internal/listings/domain"
	"storescout_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const storeNotFoundMsg = "store not found"
const tipNotFoundMsg = "tip not found"

// Repository provides database operations for listings.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new listings repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const storeColumns = `
	id, business_name, category, store_type, is_online_store, website,
	phone, email, address, city, state, zip_code,
	latitude, longitude, is_default_location,
	closing_date, opening_date, promotion_end_date, discount_percentage,
	description, special_offers, reason_for_closing, reason_for_transition,
	is_featured, is_approved, created_at`

const tipColumns = `
	id, store_name, category, store_type, is_online_store, website,
	address, city, state, zip_code,
	latitude, longitude, is_default_location,
	closing_date, opening_date, discount_percentage,
	description, special_offers, reason, notes, submitter_email,
	is_approved, created_at`

// FetchStores returns owner-store records filtered by approval state.
func (r *Repository) FetchStores(ctx context.Context, approved bool) ([]domain.RawStore, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM owner_stores
		WHERE is_approved = $1
		ORDER BY created_at DESC
	`, storeColumns)

	rows, err := r.pool.Query(ctx, query, approved)
	if err != nil {
		return nil, fmt.Errorf("fetch stores: %w", err)
	}
	defer rows.Close()

	return scanStores(rows)
}

// FetchTips returns shopper-tip records filtered by approval state.
func (r *Repository) FetchTips(ctx context.Context, approved bool) ([]domain.RawTip, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM shopper_tips
		WHERE is_approved = $1
		ORDER BY created_at DESC
	`, tipColumns)

	rows, err := r.pool.Query(ctx, query, approved)
	if err != nil {
		return nil, fmt.Errorf("fetch tips: %w", err)
	}
	defer rows.Close()

	return scanTips(rows)
}

// CreateStore inserts an owner-store record.
func (r *Repository) CreateStore(ctx context.Context, store domain.RawStore) (domain.RawStore, error) {
	query := `
		INSERT INTO owner_stores (
			id, business_name, category, store_type, is_online_store, website,
			phone, email, address, city, state, zip_code,
			latitude, longitude, is_default_location,
			closing_date, opening_date, promotion_end_date, discount_percentage,
			description, special_offers, reason_for_closing, reason_for_transition,
			is_featured, is_approved, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12,
			$13, $14, $15,
			$16, $17, $18, $19,
			$20, $21, $22, $23,
			$24, $25, $26
		)
	`

	_, err := r.pool.Exec(ctx, query,
		store.ID,
		store.BusinessName,
		store.Category,
		store.StoreType,
		store.IsOnlineStore,
		store.Website,
		store.Phone,
		store.Email,
		store.Address,
		store.City,
		store.State,
		store.ZipCode,
		store.Latitude,
		store.Longitude,
		store.IsDefaultLocation,
		store.ClosingDate,
		store.OpeningDate,
		store.PromotionEndDate,
		store.DiscountPercentage,
		store.Description,
		store.SpecialOffers,
		store.ReasonForClosing,
		store.ReasonForTransition,
		store.IsFeatured,
		store.IsApproved,
		store.CreatedAt,
	)
	if err != nil {
		return domain.RawStore{}, apperr.Wrap(apperr.KindUnavailable, "create store", err)
	}

	return store, nil
}

// CreateTip inserts a shopper-tip record.
func (r *Repository) CreateTip(ctx context.Context, tip domain.RawTip) (domain.RawTip, error) {
	query := `
		INSERT INTO shopper_tips (
			id, store_name, category, store_type, is_online_store, website,
			address, city, state, zip_code,
			latitude, longitude, is_default_location,
			closing_date, opening_date, discount_percentage,
			description, special_offers, reason, notes, submitter_email,
			is_approved, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13,
			$14, $15, $16,
			$17, $18, $19, $20, $21,
			$22, $23
		)
	`

	_, err := r.pool.Exec(ctx, query,
		tip.ID,
		tip.StoreName,
		tip.Category,
		tip.StoreType,
		tip.IsOnlineStore,
		tip.Website,
		tip.Address,
		tip.City,
		tip.State,
		tip.ZipCode,
		tip.Latitude,
		tip.Longitude,
		tip.IsDefaultLocation,
		tip.ClosingDate,
		tip.OpeningDate,
		tip.DiscountPercentage,
		tip.Description,
		tip.SpecialOffers,
		tip.Reason,
		tip.Notes,
		tip.SubmitterEmail,
		tip.IsApproved,
		tip.CreatedAt,
	)
	if err != nil {
		return domain.RawTip{}, apperr.Wrap(apperr.KindUnavailable, "create tip", err)
	}

	return tip, nil
}

// SetStoreApproval flips the approval flag on an owner store.
func (r *Repository) SetStoreApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE owner_stores SET is_approved = $2 WHERE id = $1
	`, id, approved)
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "set store approval", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(storeNotFoundMsg)
	}
	return nil
}

// SetTipApproval flips the approval flag on a shopper tip.
func (r *Repository) SetTipApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE shopper_tips SET is_approved = $2 WHERE id = $1
	`, id, approved)
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "set tip approval", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(tipNotFoundMsg)
	}
	return nil
}

// DeleteStore removes a rejected owner store.
func (r *Repository) DeleteStore(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM owner_stores WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "delete store", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(storeNotFoundMsg)
	}
	return nil
}

// DeleteTip removes a rejected shopper tip.
func (r *Repository) DeleteTip(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM shopper_tips WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "delete tip", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(tipNotFoundMsg)
	}
	return nil
}

// StoreAddress identifies a store whose coordinates still need geocoding.
type StoreAddress struct {
	ID      uuid.UUID
	Address string
	City    string
	State   string
	ZipCode string
}

// ListStoresMissingCoordinates returns physical stores whose coordinates are
// absent or were assigned as a geocoding fallback, oldest first.
func (r *Repository) ListStoresMissingCoordinates(ctx context.Context, limit int) ([]StoreAddress, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, address, city, state, zip_code
		FROM owner_stores
		WHERE is_online_store = false
		  AND (latitude IS NULL OR longitude IS NULL OR is_default_location = true)
		ORDER BY created_at ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list stores missing coordinates: %w", err)
	}
	defer rows.Close()

	stores := make([]StoreAddress, 0)
	for rows.Next() {
		var s StoreAddress
		if err := rows.Scan(&s.ID, &s.Address, &s.City, &s.State, &s.ZipCode); err != nil {
			return nil, fmt.Errorf("scan store address: %w", err)
		}
		stores = append(stores, s)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return stores, nil
}

// UpdateStoreCoordinates stores freshly geocoded coordinates and clears the
// default-location flag.
func (r *Repository) UpdateStoreCoordinates(ctx context.Context, id uuid.UUID, lat, lon float64) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE owner_stores
		SET latitude = $2, longitude = $3, is_default_location = false
		WHERE id = $1
	`, id, lat, lon)
	if err != nil {
		return fmt.Errorf("update store coordinates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(storeNotFoundMsg)
	}
	return nil
}

// CountLapsedBetween reports how many approved listings crossed their expiry
// date inside the window, per source. Used by the nightly expiry report.
func (r *Repository) CountLapsedBetween(ctx context.Context, from, to time.Time) (stores int, tips int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM owner_stores
			 WHERE is_approved = true
			   AND COALESCE(closing_date, promotion_end_date) >= $1
			   AND COALESCE(closing_date, promotion_end_date) < $2),
			(SELECT count(*) FROM shopper_tips
			 WHERE is_approved = true
			   AND closing_date >= $1
			   AND closing_date < $2)
	`, from, to).Scan(&stores, &tips)
	if err != nil {
		return 0, 0, fmt.Errorf("count lapsed listings: %w", err)
	}
	return stores, tips, nil
}

func scanStores(rows pgx.Rows) ([]domain.RawStore, error) {
	stores := make([]domain.RawStore, 0)
	for rows.Next() {
		var s domain.RawStore
		if err := rows.Scan(
			&s.ID,
			&s.BusinessName,
			&s.Category,
			&s.StoreType,
			&s.IsOnlineStore,
			&s.Website,
			&s.Phone,
			&s.Email,
			&s.Address,
			&s.City,
			&s.State,
			&s.ZipCode,
			&s.Latitude,
			&s.Longitude,
			&s.IsDefaultLocation,
			&s.ClosingDate,
			&s.OpeningDate,
			&s.PromotionEndDate,
			&s.DiscountPercentage,
			&s.Description,
			&s.SpecialOffers,
			&s.ReasonForClosing,
			&s.ReasonForTransition,
			&s.IsFeatured,
			&s.IsApproved,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		stores = append(stores, s)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return stores, nil
}

func scanTips(rows pgx.Rows) ([]domain.RawTip, error) {
	tips := make([]domain.RawTip, 0)
	for rows.Next() {
		var t domain.RawTip
		if err := rows.Scan(
			&t.ID,
			&t.StoreName,
			&t.Category,
			&t.StoreType,
			&t.IsOnlineStore,
			&t.Website,
			&t.Address,
			&t.City,
			&t.State,
			&t.ZipCode,
			&t.Latitude,
			&t.Longitude,
			&t.IsDefaultLocation,
			&t.ClosingDate,
			&t.OpeningDate,
			&t.DiscountPercentage,
			&t.Description,
			&t.SpecialOffers,
			&t.Reason,
			&t.Notes,
			&t.SubmitterEmail,
			&t.IsApproved,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan tip: %w", err)
		}
		tips = append(tips, t)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return tips, nil
}
