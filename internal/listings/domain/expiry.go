package domain

import "time"

// IsActive reports whether a listing should still surface on the public
// search and map views as of the given time.
//
// Closing stores expire when their closing date passes. Opening and online
// stores expire when their promotion end date passes; an opening store stays
// visible after its opening date until any advertised promotion lapses,
// which is deliberate even though it reads oddly at first. A listing with no
// relevant date set is treated as indefinitely active.
//
// The pending-review view does not apply this predicate at all; unapproved
// listings have no expiry semantics yet.
func IsActive(l Listing, asOf time.Time) bool {
	switch l.ListingType {
	case TypeOpening, TypeOnline:
		return dateNotPassed(l.PromotionEndDate, asOf)
	default:
		return dateNotPassed(l.ClosingDate, asOf)
	}
}

func dateNotPassed(d *time.Time, asOf time.Time) bool {
	if d == nil {
		return true
	}
	return !d.Before(asOf)
}
