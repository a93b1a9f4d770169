package search

import (
	"testing"
	"time"

	"storescout_backend/internal/listings/domain"

	"github.com/google/uuid"
)

func listing(name, category string) domain.Listing {
	return domain.Listing{
		ID:           uuid.New(),
		BusinessName: name,
		Category:     category,
		ListingType:  domain.TypeClosing,
		CreatedAt:    time.Now(),
	}
}

func TestMatch_ShortQueryShortCircuits(t *testing.T) {
	listings := []domain.Listing{
		listing("Ace Electronics", "Electronics"),
		listing("Corner Books", "Books & Media"),
	}

	for _, q := range []string{"", " ", "a", " a "} {
		out := Match(listings, q)
		if len(out) != len(listings) {
			t.Fatalf("query %q: expected all %d listings back, got %d", q, len(listings), len(out))
		}
		for i, s := range out {
			if s.MatchType != MatchNone {
				t.Fatalf("query %q: expected unscored pass-through, got %q", q, s.MatchType)
			}
			if s.Listing.ID != listings[i].ID {
				t.Fatalf("query %q: order must be preserved", q)
			}
		}
	}
}

func TestMatch_BusinessNameWinsOverCategory(t *testing.T) {
	// Both fields contain the term; the higher-priority field sets the tag.
	listings := []domain.Listing{listing("Ace Electronics", "Electronics")}

	out := Match(listings, "electronics")
	if len(out) != 1 {
		t.Fatalf("expected 1 match, got %d", len(out))
	}
	if out[0].MatchType != MatchBusiness {
		t.Fatalf("expected business match, got %q", out[0].MatchType)
	}
}

func TestMatch_CategoryWhenNameMisses(t *testing.T) {
	listings := []domain.Listing{listing("Ace Gadgets", "Electronics")}

	out := Match(listings, "electronics")
	if len(out) != 1 || out[0].MatchType != MatchCategory {
		t.Fatalf("expected category match, got %+v", out)
	}
}

func TestMatch_FieldPriorityOrder(t *testing.T) {
	l := listing("Ace Gadgets", "Toys & Games")
	l.DescriptionText = "clearance on all laptops"
	l.SpecialOffersText = "laptops 50% off"

	out := Match([]domain.Listing{l}, "laptops")
	if len(out) != 1 || out[0].MatchType != MatchItem {
		t.Fatalf("description should win over offers, got %+v", out)
	}
}

func TestMatch_LocationFields(t *testing.T) {
	l := listing("Ace Gadgets", "Electronics")
	l.Location = &domain.Location{City: "Portland", State: "OR"}

	out := Match([]domain.Listing{l}, "portland")
	if len(out) != 1 || out[0].MatchType != MatchLocation {
		t.Fatalf("expected location match, got %+v", out)
	}
}

func TestMatch_CaseInsensitive(t *testing.T) {
	listings := []domain.Listing{listing("ACE ELECTRONICS", "Electronics")}

	out := Match(listings, "Ace")
	if len(out) != 1 || out[0].MatchType != MatchBusiness {
		t.Fatalf("matching must be case-insensitive, got %+v", out)
	}
}

func TestMatch_NonMatchingExcluded(t *testing.T) {
	listings := []domain.Listing{
		listing("Ace Electronics", "Electronics"),
		listing("Corner Books", "Books & Media"),
	}

	out := Match(listings, "electronics")
	if len(out) != 1 {
		t.Fatalf("expected only the matching listing, got %d", len(out))
	}
	if out[0].Listing.BusinessName != "Ace Electronics" {
		t.Fatalf("wrong listing survived the filter")
	}
}
