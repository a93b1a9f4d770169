package domain

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Normalization errors. Records failing identity checks are dropped from the
// candidate set by the caller; they never fail a whole search.
var (
	ErrMissingID   = errors.New("record has no id")
	ErrMissingName = errors.New("record has no business name")
)

// NormalizeStore maps an owner-submitted record into the canonical shape.
func NormalizeStore(raw RawStore) (Listing, error) {
	if raw.ID == uuid.Nil {
		return Listing{}, ErrMissingID
	}
	name := strings.TrimSpace(raw.BusinessName)
	if name == "" {
		return Listing{}, ErrMissingName
	}

	listingType := resolveListingType(raw.StoreType, raw.IsOnlineStore)

	l := Listing{
		ID:                 raw.ID,
		SourceKind:         SourceOwnerStore,
		BusinessName:       name,
		Category:           CanonicalCategory(raw.Category),
		ListingType:        listingType,
		Website:            strings.TrimSpace(raw.Website),
		DiscountPercentage: clampDiscount(raw.DiscountPercentage),
		ClosingDate:        raw.ClosingDate,
		OpeningDate:        raw.OpeningDate,
		PromotionEndDate:   raw.PromotionEndDate,
		DescriptionText:    strings.TrimSpace(raw.Description),
		SpecialOffersText:  strings.TrimSpace(raw.SpecialOffers),
		ReasonText:         storeReason(raw, listingType),
		IsFeatured:         raw.IsFeatured,
		IsApproved:         raw.IsApproved,
		CreatedAt:          raw.CreatedAt,
	}

	// Online listings may carry stale address fields in storage; the
	// canonical view drops them so geo filtering can never use them.
	if listingType != TypeOnline {
		l.Location = buildLocation(raw.Address, raw.City, raw.State, raw.ZipCode,
			raw.Latitude, raw.Longitude, raw.IsDefaultLocation)
	}

	return l, nil
}

// NormalizeTip maps a shopper-submitted tip into the canonical shape.
// Owner contact fields are never present on tips; the submitter email is
// retained for admin review but excluded from public serialization.
func NormalizeTip(raw RawTip) (Listing, error) {
	if raw.ID == uuid.Nil {
		return Listing{}, ErrMissingID
	}
	name := strings.TrimSpace(raw.StoreName)
	if name == "" {
		return Listing{}, ErrMissingName
	}

	listingType := resolveListingType(raw.StoreType, raw.IsOnlineStore)

	l := Listing{
		ID:                 raw.ID,
		SourceKind:         SourceShopperTip,
		BusinessName:       name,
		Category:           CanonicalCategory(raw.Category),
		ListingType:        listingType,
		Website:            strings.TrimSpace(raw.Website),
		DiscountPercentage: clampDiscount(raw.DiscountPercentage),
		ClosingDate:        raw.ClosingDate,
		OpeningDate:        raw.OpeningDate,
		DescriptionText:    strings.TrimSpace(raw.Description),
		SpecialOffersText:  strings.TrimSpace(raw.SpecialOffers),
		ReasonText:         strings.TrimSpace(raw.Reason),
		SubmitterEmail:     strings.TrimSpace(raw.SubmitterEmail),
		IsApproved:         raw.IsApproved,
		CreatedAt:          raw.CreatedAt,
	}

	applyTipNotes(&l, raw.Notes)

	if listingType != TypeOnline {
		l.Location = buildLocation(raw.Address, raw.City, raw.State, raw.ZipCode,
			raw.Latitude, raw.Longitude, raw.IsDefaultLocation)
	}

	return l, nil
}

// resolveListingType maps a stored storeType string to the canonical type.
// The online flag wins over whatever string is stored; unrecognized or
// absent values default to closing, the dominant listing kind.
func resolveListingType(storeType string, isOnline bool) ListingType {
	if isOnline {
		return TypeOnline
	}
	switch strings.ToLower(strings.TrimSpace(storeType)) {
	case "opening":
		return TypeOpening
	case "online":
		return TypeOnline
	default:
		return TypeClosing
	}
}

func storeReason(raw RawStore, listingType ListingType) string {
	if listingType == TypeClosing && strings.TrimSpace(raw.ReasonForClosing) != "" {
		return strings.TrimSpace(raw.ReasonForClosing)
	}
	return strings.TrimSpace(raw.ReasonForTransition)
}

func buildLocation(address, city, state, zip string, lat, lon *float64, isDefault bool) *Location {
	loc := &Location{
		Address:           strings.TrimSpace(address),
		City:              strings.TrimSpace(city),
		State:             strings.TrimSpace(state),
		ZipCode:           strings.TrimSpace(zip),
		IsDefaultLocation: isDefault,
	}
	if lat != nil {
		loc.Latitude = *lat
	}
	if lon != nil {
		loc.Longitude = *lon
	}
	return loc
}

func clampDiscount(d *int) *int {
	if d == nil {
		return nil
	}
	if *d < 0 || *d > 100 {
		return nil
	}
	v := *d
	return &v
}

// tipNotes is the overflow shape shoppers' tips smuggle in the notes blob.
// Dates arrive as strings in whatever format the submitting form used;
// discount may be a number or a numeric string.
type tipNotes struct {
	PromotionEndDate   string          `json:"promotionEndDate"`
	OpeningDate        string          `json:"openingDate"`
	SpecialOffers      string          `json:"specialOffers"`
	DiscountPercentage json.RawMessage `json:"discountPercentage"`
}

// applyTipNotes decodes the notes side-channel and overlays any recognized
// fields onto the listing. Malformed JSON, or malformed individual fields,
// are ignored rather than treated as errors.
func applyTipNotes(l *Listing, notes string) {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return
	}

	var parsed tipNotes
	if err := json.Unmarshal([]byte(notes), &parsed); err != nil {
		return
	}

	if t, ok := parseNoteDate(parsed.PromotionEndDate); ok {
		l.PromotionEndDate = &t
	}
	if t, ok := parseNoteDate(parsed.OpeningDate); ok {
		l.OpeningDate = &t
	}
	if offers := strings.TrimSpace(parsed.SpecialOffers); offers != "" {
		l.SpecialOffersText = offers
	}
	if d, ok := parseNoteDiscount(parsed.DiscountPercentage); ok {
		l.DiscountPercentage = clampDiscount(&d)
	}
}

var noteDateFormats = []string{time.RFC3339, "2006-01-02", "01/02/2006"}

func parseNoteDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, format := range noteDateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseNoteDiscount(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return int(asNumber), true
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(asString)); err == nil {
			return n, true
		}
	}

	return 0, false
}
