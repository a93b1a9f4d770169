package search

import "sort"

// Rank orders scored listings in place by the composite relevance key:
// featured listings first, then deeper discounts (nil lowest), then most
// recently created. The sort is stable so equal listings keep their
// repository order, which keeps repeated searches deterministic.
func Rank(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i].Listing, scored[j].Listing

		if a.IsFeatured != b.IsFeatured {
			return a.IsFeatured
		}

		da, db := discountValue(a.DiscountPercentage), discountValue(b.DiscountPercentage)
		if da != db {
			return da > db
		}

		return a.CreatedAt.After(b.CreatedAt)
	})
}

// Cap truncates a ranked result set to at most limit entries. Capping only
// ever happens after ranking.
func Cap(scored []Scored, limit int) []Scored {
	if limit > 0 && len(scored) > limit {
		return scored[:limit]
	}
	return scored
}

func discountValue(d *int) int {
	if d == nil {
		return -1
	}
	return *d
}
