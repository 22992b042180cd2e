package catalog

import (
	"math"

	"github.com/cardstock/pricing-engine/pkg/rarity"
	domain "github.com/cardstock/pricing-engine/pkg/types"
)

// RarityFilterResult is a filtered result page. EstimatedTotal is exact
// only when Estimated is false; otherwise it is extrapolated from a
// single fetched page and pagination built on it will drift.
type RarityFilterResult struct {
	Products       []domain.NormalizedProduct
	EstimatedTotal int
	Estimated      bool
}

// FilterByRarity post-filters normalized products against an extracted
// rarity keyword.
//
// With an empty filter the input passes through unchanged and
// rawTotalResults is reported as exact. Otherwise products are kept on
// a case-insensitive substring match ("rare" intentionally also matches
// "Ultra Rare", the broadest tier) and products without a rarity are
// excluded. Because only one page of raw results was fetched, the true
// cross-page total is unknown; it is estimated as
// ceil(rawTotalResults x matchRate) and flagged as an estimate. The
// filtered list is truncated to requestedPageSize for the response page.
func FilterByRarity(
	products []domain.NormalizedProduct,
	rarityFilter string,
	requestedPageSize int,
	rawTotalResults int,
) RarityFilterResult {
	if rarityFilter == "" {
		return RarityFilterResult{
			Products:       products,
			EstimatedTotal: rawTotalResults,
		}
	}

	filtered := make([]domain.NormalizedProduct, 0, len(products))
	for _, p := range products {
		if p.Rarity != "" && rarity.Matches(p.Rarity, rarityFilter) {
			filtered = append(filtered, p)
		}
	}

	estimated := 0
	if len(products) > 0 {
		matchRate := float64(len(filtered)) / float64(len(products))
		estimated = int(math.Ceil(float64(rawTotalResults) * matchRate))
	}

	if requestedPageSize > 0 && len(filtered) > requestedPageSize {
		filtered = filtered[:requestedPageSize]
	}

	return RarityFilterResult{
		Products:       filtered,
		EstimatedTotal: estimated,
		Estimated:      true,
	}
}

// ApplyCatalogFilter removes blacklisted products and code cards.
// Both are independent hard excludes: a code card is dropped even when
// its ID is not blacklisted, and a blacklisted product is dropped
// regardless of rarity.
func ApplyCatalogFilter(
	products []domain.NormalizedProduct,
	blacklist domain.Blacklist,
) []domain.NormalizedProduct {
	kept := make([]domain.NormalizedProduct, 0, len(products))
	for _, p := range products {
		if blacklist.Contains(p.ProductID) {
			continue
		}
		if rarity.IsCodeCard(p.Rarity) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}
