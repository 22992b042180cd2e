package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/cardstock/pricing-engine/pkg/types"
)

func twoVariantProduct() domain.NormalizedProduct {
	return domain.NormalizedProduct{
		ProductID: 88,
		Rarity:    "Rare",
		InStock:   true, // marketplace signal, overwritten by reconciliation
		Variants: []domain.PrintingVariant{
			{ProductID: 88, Printing: "Holofoil", MarketPrice: 5},
			{ProductID: 88, Printing: "Normal", MarketPrice: 2},
		},
	}
}

func TestReconcileStock(t *testing.T) {
	t.Parallel()

	inventory := domain.InventorySnapshot{
		"88:Holofoil": 3,
		// "88:Normal" deliberately absent
	}

	got := ReconcileStock(twoVariantProduct(), inventory)

	require.Len(t, got.Variants, 2)
	assert.True(t, got.Variants[0].InStock)
	assert.Equal(t, 3, got.Variants[0].StockQuantity)
	assert.False(t, got.Variants[1].InStock, "absent key means zero stock")
	assert.Zero(t, got.Variants[1].StockQuantity)

	assert.True(t, got.InStock, "product is stocked when any variant is")
	assert.Equal(t, 3, got.Stock)
}

func TestReconcileStock_AbsentEqualsZero(t *testing.T) {
	t.Parallel()

	absent := ReconcileStock(twoVariantProduct(), domain.InventorySnapshot{})
	explicitZero := ReconcileStock(twoVariantProduct(), domain.InventorySnapshot{
		"88:Holofoil": 0,
		"88:Normal":   0,
	})

	assert.Equal(t, absent, explicitZero)
	assert.False(t, absent.InStock)
	assert.Zero(t, absent.Stock)
}

func TestReconcileStock_OverridesMarketplaceSignal(t *testing.T) {
	t.Parallel()

	p := twoVariantProduct()
	p.InStock = true

	got := ReconcileStock(p, nil)
	assert.False(t, got.InStock, "local inventory supersedes marketplace listings")
}

func TestReconcileStock_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	p := twoVariantProduct()
	_ = ReconcileStock(p, domain.InventorySnapshot{"88:Holofoil": 7})

	assert.False(t, p.Variants[0].InStock)
	assert.Zero(t, p.Variants[0].StockQuantity)
}

func TestReconcileStock_Idempotent(t *testing.T) {
	t.Parallel()

	inventory := domain.InventorySnapshot{"88:Normal": 2}

	once := ReconcileStock(twoVariantProduct(), inventory)
	twice := ReconcileStock(once, inventory)
	assert.Equal(t, once, twice)
}

func TestReconcileVariant(t *testing.T) {
	t.Parallel()

	v := domain.PrintingVariant{ProductID: 5, Printing: "Reverse Holofoil"}

	got := ReconcileVariant(v, domain.InventorySnapshot{"5:Reverse Holofoil": 1})
	assert.True(t, got.InStock)
	assert.Equal(t, 1, got.StockQuantity)

	got = ReconcileVariant(v, nil)
	assert.False(t, got.InStock)
	assert.Zero(t, got.StockQuantity)
}
