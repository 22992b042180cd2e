package rarity

import (
	"strings"
)

// Matches reports whether a product's rarity satisfies an extracted
// rarity filter. Matching is a case-insensitive substring test: the
// filter "holo" matches any rarity containing "holo", and "rare"
// matches "Ultra Rare" as well, since bare "rare" is the broadest tier.
// A product with no rarity never matches a non-empty filter.
func Matches(productRarity, filter string) bool {
	if filter == "" {
		return true
	}
	if productRarity == "" {
		return false
	}
	return strings.Contains(
		strings.ToLower(productRarity),
		strings.ToLower(filter),
	)
}

// IsCodeCard reports whether a rarity names a code card. Code cards are
// never sellable and are excluded from the catalog unconditionally.
func IsCodeCard(productRarity string) bool {
	return strings.Contains(strings.ToLower(productRarity), "code card")
}
