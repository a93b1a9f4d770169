// Package search implements the text matcher, relevance ranker, and distance
// filter applied to normalized listings.
package search

import (
	"strings"

	"storescout_backend/internal/listings/domain"
)

// MatchType classifies which field satisfied the query, in priority order.
// Only the highest-priority match is recorded.
type MatchType string

const (
	MatchBusiness MatchType = "business"
	MatchCategory MatchType = "category"
	MatchItem     MatchType = "item"
	MatchOffer    MatchType = "offer"
	MatchLocation MatchType = "location"
	MatchOther    MatchType = "other"
	// MatchNone marks listings that passed through an empty-query
	// short-circuit without being scored.
	MatchNone MatchType = ""
)

// minQueryLength is the shortest trimmed query that triggers text filtering.
// Anything shorter passes every listing through unscored, which lets callers
// distinguish "no query" from "no matches".
const minQueryLength = 2

// Scored pairs a listing with its match classification.
type Scored struct {
	Listing   domain.Listing
	MatchType MatchType
}

// Match filters listings by case-insensitive substring containment of the
// query. A listing matches if any searched field contains the term; the
// MatchType records only the highest-priority matching field.
func Match(listings []domain.Listing, query string) []Scored {
	term := strings.ToLower(strings.TrimSpace(query))

	if len(term) < minQueryLength {
		out := make([]Scored, 0, len(listings))
		for _, l := range listings {
			out = append(out, Scored{Listing: l, MatchType: MatchNone})
		}
		return out
	}

	out := make([]Scored, 0, len(listings))
	for _, l := range listings {
		if mt, ok := classify(l, term); ok {
			out = append(out, Scored{Listing: l, MatchType: mt})
		}
	}
	return out
}

// classify checks the searched fields in priority order: business name,
// category, description, special offers, city, state.
func classify(l domain.Listing, term string) (MatchType, bool) {
	if contains(l.BusinessName, term) {
		return MatchBusiness, true
	}
	if contains(l.Category, term) {
		return MatchCategory, true
	}
	if contains(l.DescriptionText, term) {
		return MatchItem, true
	}
	if contains(l.SpecialOffersText, term) {
		return MatchOffer, true
	}
	if l.Location != nil {
		if contains(l.Location.City, term) || contains(l.Location.State, term) {
			return MatchLocation, true
		}
	}
	if contains(l.ReasonText, term) {
		return MatchOther, true
	}
	return MatchNone, false
}

func contains(field, term string) bool {
	return strings.Contains(strings.ToLower(field), term)
}
