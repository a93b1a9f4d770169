// Package transport defines the request and response shapes for the
// listings HTTP surface.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// SearchListingsRequest is the public search query. Range and enum checks
// happen in the service layer so invalid criteria produce typed errors
// before any I/O.
type SearchListingsRequest struct {
	Query            string   `form:"q"`
	Category         string   `form:"category"`
	StoreType        string   `form:"storeType"`
	MinDiscount      *int     `form:"minDiscount"`
	Latitude         *float64 `form:"lat"`
	Longitude        *float64 `form:"lon"`
	Near             string   `form:"near"`
	MaxDistanceMiles *float64 `form:"maxDistanceMiles"`
	Limit            *int     `form:"limit"`
	ActiveOnly       *bool    `form:"activeOnly"`
	IncludeTips      *bool    `form:"includeTips"`
}

// LocationResponse mirrors the canonical location for API consumers.
type LocationResponse struct {
	Address           string  `json:"address,omitempty"`
	City              string  `json:"city,omitempty"`
	State             string  `json:"state,omitempty"`
	ZipCode           string  `json:"zipCode,omitempty"`
	Latitude          float64 `json:"latitude,omitempty"`
	Longitude         float64 `json:"longitude,omitempty"`
	IsDefaultLocation bool    `json:"isDefaultLocation,omitempty"`
}

// ListingResponse is a single search or review result. Owner contact fields
// are never included; SubmitterEmail appears only on the admin review view.
type ListingResponse struct {
	ID                 uuid.UUID         `json:"id"`
	SourceKind         string            `json:"sourceKind"`
	BusinessName       string            `json:"businessName"`
	Category           string            `json:"category"`
	ListingType        string            `json:"listingType"`
	Location           *LocationResponse `json:"location,omitempty"`
	Website            string            `json:"website,omitempty"`
	DiscountPercentage *int              `json:"discountPercentage,omitempty"`
	RelevantDate       *time.Time        `json:"relevantDate,omitempty"`
	Description        string            `json:"description,omitempty"`
	SpecialOffers      string            `json:"specialOffers,omitempty"`
	Reason             string            `json:"reason,omitempty"`
	IsFeatured         bool              `json:"isFeatured"`
	CreatedAt          time.Time         `json:"createdAt"`
	MatchType          string            `json:"matchType,omitempty"`
	DistanceMiles      *float64          `json:"distanceMiles,omitempty"`
	SubmitterEmail     string            `json:"submitterEmail,omitempty"`
}

// SearchListingsResponse wraps ranked results plus degraded-mode signals.
type SearchListingsResponse struct {
	Results          []ListingResponse `json:"results"`
	Count            int               `json:"count"`
	LocationResolved bool              `json:"locationResolved"`
	Warnings         []string          `json:"warnings,omitempty"`
}

// MapPin is a located listing rendered on the browse map.
type MapPin struct {
	ID                 uuid.UUID `json:"id"`
	BusinessName       string    `json:"businessName"`
	Category           string    `json:"category"`
	ListingType        string    `json:"listingType"`
	Latitude           float64   `json:"latitude"`
	Longitude          float64   `json:"longitude"`
	DiscountPercentage *int      `json:"discountPercentage,omitempty"`
	IsFeatured         bool      `json:"isFeatured"`
}

// MapViewResponse splits listings into plottable pins, an unverified-location
// bucket (failed or fallback geocoding), and online stores with no position.
type MapViewResponse struct {
	Pins       []MapPin          `json:"pins"`
	Unverified []ListingResponse `json:"unverifiedLocation"`
	Online     []ListingResponse `json:"online"`
}

// SubmitStoreRequest is the owner submission payload. Dates arrive as
// YYYY-MM-DD strings from the form layer.
type SubmitStoreRequest struct {
	BusinessName        string `json:"businessName" binding:"required" validate:"required,min=2,max=200"`
	Category            string `json:"category" validate:"omitempty,max=100"`
	StoreType           string `json:"storeType" validate:"omitempty,oneof=closing opening online"`
	IsOnlineStore       bool   `json:"isOnlineStore"`
	Website             string `json:"website" validate:"omitempty,url,max=500"`
	Phone               string `json:"phone" validate:"omitempty,max=30"`
	Email               string `json:"email" validate:"omitempty,email"`
	Address             string `json:"address" validate:"omitempty,max=300"`
	City                string `json:"city" validate:"omitempty,max=100"`
	State               string `json:"state" validate:"omitempty,max=50"`
	ZipCode             string `json:"zipCode" validate:"omitempty,max=20"`
	ClosingDate         string `json:"closingDate" validate:"omitempty,datetime=2006-01-02"`
	OpeningDate         string `json:"openingDate" validate:"omitempty,datetime=2006-01-02"`
	PromotionEndDate    string `json:"promotionEndDate" validate:"omitempty,datetime=2006-01-02"`
	DiscountPercentage  *int   `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	Description         string `json:"description" validate:"omitempty,max=5000"`
	SpecialOffers       string `json:"specialOffers" validate:"omitempty,max=2000"`
	ReasonForClosing    string `json:"reasonForClosing" validate:"omitempty,max=2000"`
	ReasonForTransition string `json:"reasonForTransition" validate:"omitempty,max=2000"`
}

// SubmitTipRequest is the shopper submission payload. Notes is an opaque
// JSON blob tolerated as-is; it is parsed leniently at search time.
type SubmitTipRequest struct {
	StoreName          string `json:"storeName" binding:"required" validate:"required,min=2,max=200"`
	Category           string `json:"category" validate:"omitempty,max=100"`
	StoreType          string `json:"storeType" validate:"omitempty,oneof=closing opening online"`
	IsOnlineStore      bool   `json:"isOnlineStore"`
	Website            string `json:"website" validate:"omitempty,url,max=500"`
	Address            string `json:"address" validate:"omitempty,max=300"`
	City               string `json:"city" validate:"omitempty,max=100"`
	State              string `json:"state" validate:"omitempty,max=50"`
	ZipCode            string `json:"zipCode" validate:"omitempty,max=20"`
	ClosingDate        string `json:"closingDate" validate:"omitempty,datetime=2006-01-02"`
	DiscountPercentage *int   `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	Description        string `json:"description" validate:"omitempty,max=5000"`
	SpecialOffers      string `json:"specialOffers" validate:"omitempty,max=2000"`
	Reason             string `json:"reason" validate:"omitempty,max=2000"`
	Notes              string `json:"notes" validate:"omitempty,max=4000"`
	SubmitterEmail     string `json:"submitterEmail" binding:"required" validate:"required,email"`
}

// SubmitResponse acknowledges a submission awaiting review.
type SubmitResponse struct {
	ID      uuid.UUID `json:"id"`
	Status  string    `json:"status"`
	Message string    `json:"message"`
}

// PendingReviewResponse is the admin review queue.
type PendingReviewResponse struct {
	Stores []ListingResponse `json:"stores"`
	Tips   []ListingResponse `json:"tips"`
}
