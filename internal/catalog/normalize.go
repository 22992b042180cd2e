package catalog

import (
	"github.com/cardstock/pricing-engine/internal/tcg"
	domain "github.com/cardstock/pricing-engine/pkg/types"
)

// NormalizeProduct maps one raw marketplace product record into the
// canonical NormalizedProduct shape.
//
// A record without listings is a valid state, not an error: the product
// exists but no pricing variants are known, so Variants is empty and
// Printing is unset. A missing attribute bag likewise yields empty
// optional fields.
func NormalizeProduct(rec *tcg.ProductRecord) domain.NormalizedProduct {
	p := domain.NormalizedProduct{
		ProductID:     rec.ProductID,
		ProductName:   rec.ProductName,
		SetName:       rec.SetName,
		SetID:         rec.SetID,
		MarketPrice:   rec.MarketPrice,
		LowestPrice:   rec.LowestPrice,
		Rarity:        resolveRarity(rec),
		TotalListings: rec.TotalListings,

		// Product-level marketplace signal, computed before local stock
		// reconciliation. Callers showing stock to shoppers must prefer
		// the reconciled value.
		InStock: rec.TotalListings > 0,
	}

	if attrs := rec.CustomAttributes; attrs != nil {
		p.CardNumber = attrs.Number
		p.HP = attrs.HP
		p.EnergyType = attrs.EnergyType
		p.Attacks = collectAttacks(attrs)
	}

	p.Variants = AggregateListings(rec.ProductID, rec.MarketPrice, rec.Listings)
	if len(p.Variants) > 0 {
		p.Printing = p.Variants[0].Printing
	}

	return p
}

// resolveRarity picks the first non-empty of: display rarity, the
// attribute-bag rarity code, the legacy rarity field.
func resolveRarity(rec *tcg.ProductRecord) string {
	if rec.RarityName != "" {
		return rec.RarityName
	}
	if rec.CustomAttributes != nil && rec.CustomAttributes.RarityDbName != "" {
		return rec.CustomAttributes.RarityDbName
	}
	return rec.Rarity
}

// collectAttacks concatenates the positional attack slots, skipping
// empty ones while preserving slot order.
func collectAttacks(attrs *tcg.CustomAttributes) []string {
	var attacks []string
	for _, a := range []string{attrs.Attack1, attrs.Attack2, attrs.Attack3, attrs.Attack4} {
		if a != "" {
			attacks = append(attacks, a)
		}
	}
	return attacks
}
