package search

import (
	"testing"
	"time"

	"storescout_backend/internal/listings/domain"

	"github.com/google/uuid"
)

func scored(name string, featured bool, discount *int, createdAt time.Time) Scored {
	return Scored{
		Listing: domain.Listing{
			ID:                 uuid.New(),
			BusinessName:       name,
			IsFeatured:         featured,
			DiscountPercentage: discount,
			CreatedAt:          createdAt,
		},
	}
}

func intp(v int) *int { return &v }

func names(s []Scored) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = v.Listing.BusinessName
	}
	return out
}

func TestRank_FeaturedFirst(t *testing.T) {
	now := time.Now()
	set := []Scored{
		scored("plain-big-discount", false, intp(90), now),
		scored("featured-no-discount", true, nil, now.Add(-time.Hour)),
	}

	Rank(set)
	if set[0].Listing.BusinessName != "featured-no-discount" {
		t.Fatalf("featured listing must rank first, got %v", names(set))
	}
}

func TestRank_DiscountBreaksFeaturedTie(t *testing.T) {
	now := time.Now()
	set := []Scored{
		scored("thirty", false, intp(30), now),
		scored("seventy", false, intp(70), now.Add(-time.Hour)),
		scored("none", false, nil, now.Add(time.Hour)),
	}

	Rank(set)
	got := names(set)
	want := []string{"seventy", "thirty", "none"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestRank_NilDiscountRanksBelowZero(t *testing.T) {
	now := time.Now()
	set := []Scored{
		scored("unset", false, nil, now),
		scored("zero", false, intp(0), now.Add(-time.Hour)),
	}

	Rank(set)
	if set[0].Listing.BusinessName != "zero" {
		t.Fatalf("explicit 0%% discount must outrank unset, got %v", names(set))
	}
}

func TestRank_RecencyBreaksRemainingTies(t *testing.T) {
	now := time.Now()
	set := []Scored{
		scored("older", false, intp(50), now.Add(-time.Hour)),
		scored("newer", false, intp(50), now),
	}

	Rank(set)
	if set[0].Listing.BusinessName != "newer" {
		t.Fatalf("most recent listing must win the final tiebreak, got %v", names(set))
	}
}

func TestRank_PairwiseInvariantHolds(t *testing.T) {
	now := time.Now()
	set := []Scored{
		scored("a", false, intp(10), now),
		scored("b", true, nil, now.Add(-2*time.Hour)),
		scored("c", false, nil, now.Add(-time.Hour)),
		scored("d", true, intp(80), now.Add(-3*time.Hour)),
		scored("e", false, intp(10), now.Add(-time.Minute)),
	}

	Rank(set)

	for i := 0; i < len(set)-1; i++ {
		a, b := set[i].Listing, set[i+1].Listing
		if !a.IsFeatured && b.IsFeatured {
			t.Fatalf("position %d: non-featured before featured", i)
		}
		if a.IsFeatured == b.IsFeatured {
			da, db := discountValue(a.DiscountPercentage), discountValue(b.DiscountPercentage)
			if da < db {
				t.Fatalf("position %d: lower discount ranked first", i)
			}
			if da == db && a.CreatedAt.Before(b.CreatedAt) {
				t.Fatalf("position %d: older listing ranked first", i)
			}
		}
	}
}

func TestCap_AppliesAfterRanking(t *testing.T) {
	now := time.Now()
	set := []Scored{
		scored("low", false, intp(10), now),
		scored("high", false, intp(90), now),
		scored("mid", false, intp(50), now),
	}

	Rank(set)
	capped := Cap(set, 2)
	if len(capped) != 2 {
		t.Fatalf("expected 2 results, got %d", len(capped))
	}
	if capped[0].Listing.BusinessName != "high" || capped[1].Listing.BusinessName != "mid" {
		t.Fatalf("cap must keep the top-ranked entries, got %v", names(capped))
	}
}
