package handlers

import (
	"context"

	"github.com/cardstock/pricing-engine/internal/engine"
	domain "github.com/cardstock/pricing-engine/pkg/types"
)

// Pricer is the engine surface the handlers consume. Declared here so
// handler tests can substitute a fake without a marketplace client.
type Pricer interface {
	Search(ctx context.Context, req engine.SearchRequest) (*engine.SearchResult, error)
	Product(ctx context.Context, productID int) (*engine.PricedProduct, error)
	Quote(rarityName string, marketPrice float64) (domain.PriceCalculation, float64)
	Featured(ctx context.Context) ([]engine.PricedProduct, error)
}
