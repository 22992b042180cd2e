// Package catalog reconciles raw marketplace product data into the
// engine's canonical normalized shapes and applies catalog-level
// filtering and stock reconciliation. All functions are pure
// transformations over already-fetched data.
package catalog

import (
	"sort"

	"github.com/cardstock/pricing-engine/internal/tcg"
	domain "github.com/cardstock/pricing-engine/pkg/types"
)

// AggregateListings groups a product's per-copy listings into one
// variant per distinct printing and selects a representative price for
// each.
//
// Near Mint is the canonical pricing condition: per-printing prices are
// gathered from Near Mint listings, and printings without any Near Mint
// listing fall back to the minimum price across all conditions (a
// lower-confidence substitute).
//
// The printing observed first in the listings is treated as primary and
// uses marketPriceHint (the source's product-level market price) when
// present; every other printing uses its gathered minimum. The source's
// own signal is considered more authoritative than a raw listing
// minimum, but only for that one variant.
//
// Output is sorted by printing ascending. InStock defaults to false for
// every variant: marketplace listing presence does not imply local
// sellable stock, which is decided later by stock reconciliation.
func AggregateListings(
	productID int,
	marketPriceHint float64,
	listings []tcg.ListingRecord,
) []domain.PrintingVariant {
	if len(listings) == 0 {
		return nil
	}

	// Pass 1: distinct printings in observation order.
	var printings []string
	seen := map[string]bool{}
	for _, l := range listings {
		if !seen[l.Printing] {
			seen[l.Printing] = true
			printings = append(printings, l.Printing)
		}
	}

	// Pass 2: Near Mint prices per printing.
	nearMint := map[string][]float64{}
	for _, l := range listings {
		if l.Condition == domain.NearMint {
			nearMint[l.Printing] = append(nearMint[l.Printing], l.Price)
		}
	}

	// Pass 3: fallback minimum across all conditions for printings that
	// accumulated no Near Mint price, plus the overall lowest offer and
	// its condition for each printing.
	lowest := map[string]float64{}
	lowestCond := map[string]string{}
	for _, l := range listings {
		if cur, ok := lowest[l.Printing]; !ok || l.Price < cur {
			lowest[l.Printing] = l.Price
			lowestCond[l.Printing] = l.Condition
		}
	}

	variants := make([]domain.PrintingVariant, 0, len(printings))
	for i, printing := range printings {
		price, condition := representativePrice(
			nearMint[printing], lowest[printing], lowestCond[printing],
		)

		if i == 0 && marketPriceHint > 0 {
			price = marketPriceHint
		}

		variants = append(variants, domain.PrintingVariant{
			ProductID:   productID,
			Printing:    printing,
			MarketPrice: price,
			LowestPrice: lowest[printing],
			Condition:   condition,
		})
	}

	sort.Slice(variants, func(i, j int) bool {
		return variants[i].Printing < variants[j].Printing
	})

	return variants
}

// representativePrice picks the minimum Near Mint price, or the
// all-conditions minimum when no Near Mint listing exists.
func representativePrice(
	nearMintPrices []float64,
	fallback float64,
	fallbackCond string,
) (float64, string) {
	if len(nearMintPrices) == 0 {
		return fallback, fallbackCond
	}

	minPrice := nearMintPrices[0]
	for _, p := range nearMintPrices[1:] {
		if p < minPrice {
			minPrice = p
		}
	}
	return minPrice, domain.NearMint
}
