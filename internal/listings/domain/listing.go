// Package domain holds the canonical listing model and the pure rules that
// operate on it: normalization of the two raw source shapes, the expiry
// policy, and the category taxonomy.
package domain

import (
	"time"

	"storescout_backend/internal/geo"

	"github.com/google/uuid"
)

// SourceKind identifies which submission channel a listing came from.
// Shopper tips never expose owner contact details on the public surface.
type SourceKind string

const (
	SourceOwnerStore SourceKind = "owner_store"
	SourceShopperTip SourceKind = "shopper_tip"
)

// ListingType determines which date and offer fields are semantically
// relevant for a listing.
type ListingType string

const (
	TypeClosing ListingType = "closing"
	TypeOpening ListingType = "opening"
	TypeOnline  ListingType = "online"
)

// Location is the physical position of a listing. IsDefaultLocation marks
// fallback coordinates assigned when geocoding the submitted address failed;
// they are shown to users as unverified and excluded from distance filtering.
type Location struct {
	Address           string  `json:"address"`
	City              string  `json:"city"`
	State             string  `json:"state"`
	ZipCode           string  `json:"zipCode"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	IsDefaultLocation bool    `json:"isDefaultLocation"`
}

// Listing is the canonical, post-normalization view of a store entry.
// It is transient: built fresh from raw records on every search, never
// cached or written back.
type Listing struct {
	ID                 uuid.UUID
	SourceKind         SourceKind
	BusinessName       string
	Category           string
	ListingType        ListingType
	Location           *Location
	Website            string
	DiscountPercentage *int
	ClosingDate        *time.Time
	OpeningDate        *time.Time
	PromotionEndDate   *time.Time
	DescriptionText    string
	SpecialOffersText  string
	ReasonText         string
	SubmitterEmail     string // shopper tips only; never serialized publicly
	IsFeatured         bool
	IsApproved         bool
	CreatedAt          time.Time
}

// RelevantDate is the expiry-relevant date for the listing's type:
// closingDate for closing stores, openingDate for opening stores,
// promotionEndDate for online stores. Nil means no date is set.
func (l Listing) RelevantDate() *time.Time {
	switch l.ListingType {
	case TypeOpening:
		return l.OpeningDate
	case TypeOnline:
		return l.PromotionEndDate
	default:
		return l.ClosingDate
	}
}

// Coordinates returns the listing's position as a geo.Point. The zero point
// is returned for listings without a location; callers check Valid().
func (l Listing) Coordinates() geo.Point {
	if l.Location == nil {
		return geo.Point{}
	}
	return geo.Point{Lat: l.Location.Latitude, Lon: l.Location.Longitude}
}

// HasVerifiedCoordinates reports whether the listing can participate in
// distance filtering: valid coordinates that are not a geocoding fallback.
func (l Listing) HasVerifiedCoordinates() bool {
	if l.Location == nil || l.Location.IsDefaultLocation {
		return false
	}
	return l.Coordinates().Valid()
}

// RawStore is the owner-submitted record shape as stored.
type RawStore struct {
	ID                  uuid.UUID
	BusinessName        string
	Category            string
	StoreType           string
	IsOnlineStore       bool
	Website             string
	Phone               string
	Email               string
	Address             string
	City                string
	State               string
	ZipCode             string
	Latitude            *float64
	Longitude           *float64
	IsDefaultLocation   bool
	ClosingDate         *time.Time
	OpeningDate         *time.Time
	PromotionEndDate    *time.Time
	DiscountPercentage  *int
	Description         string
	SpecialOffers       string
	ReasonForClosing    string
	ReasonForTransition string
	IsFeatured          bool
	IsApproved          bool
	CreatedAt           time.Time
}

// RawTip is the shopper-submitted record shape as stored. Notes is an
// untyped JSON side-channel holding overflow fields; it is decoded once
// during normalization with fully tolerant parsing.
type RawTip struct {
	ID                 uuid.UUID
	StoreName          string
	Category           string
	StoreType          string
	IsOnlineStore      bool
	Website            string
	Address            string
	City               string
	State              string
	ZipCode            string
	Latitude           *float64
	Longitude          *float64
	IsDefaultLocation  bool
	ClosingDate        *time.Time
	OpeningDate        *time.Time
	DiscountPercentage *int
	Description        string
	SpecialOffers      string
	Reason             string
	Notes              string
	SubmitterEmail     string
	IsApproved         bool
	CreatedAt          time.Time
}
