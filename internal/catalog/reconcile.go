package catalog

import (
	domain "github.com/cardstock/pricing-engine/pkg/types"
)

// ReconcileStock cross-references a normalized product against the
// local inventory snapshot. Each variant's stock comes from the
// "{productId}:{printing}" key; an absent key is quantity zero, not an
// error. At the product level, InStock is true when any variant is
// stocked and Stock is the sum of variant quantities.
//
// The returned product is a copy with fresh variant storage, so
// reconciling the same immutable input twice yields identical output.
// This local-inventory signal supersedes the marketplace
// listing-presence signal set during normalization.
func ReconcileStock(
	p domain.NormalizedProduct,
	inventory domain.InventorySnapshot,
) domain.NormalizedProduct {
	variants := make([]domain.PrintingVariant, len(p.Variants))

	anyInStock := false
	total := 0
	for i, v := range p.Variants {
		variants[i] = ReconcileVariant(v, inventory)
		if variants[i].InStock {
			anyInStock = true
		}
		total += variants[i].StockQuantity
	}

	p.Variants = variants
	p.InStock = anyInStock
	p.Stock = total
	return p
}

// ReconcileVariant sets one variant's stock fields from the inventory
// snapshot.
func ReconcileVariant(
	v domain.PrintingVariant,
	inventory domain.InventorySnapshot,
) domain.PrintingVariant {
	qty := inventory.Quantity(v.ProductID, v.Printing)
	v.StockQuantity = qty
	v.InStock = qty > 0
	return v
}
