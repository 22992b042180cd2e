// Package domain defines the core business types for the card pricing engine.
package domain

import (
	"strconv"
)

// NearMint is the baseline condition grade used as the canonical pricing
// reference condition. Listings in other grades only contribute fallback
// pricing when no Near Mint listing exists for a printing.
const NearMint = "Near Mint"

// RawListing is a single per-copy marketplace listing for a product.
// Listings are not unique per product; many share a (product, printing)
// pair at different conditions and sellers.
type RawListing struct {
	ProductID int     `json:"product_id"`
	Printing  string  `json:"printing"`
	Condition string  `json:"condition"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// PrintingVariant is one distinct physical print style of a product
// (e.g. Holofoil vs. Normal), separately priced and stocked.
//
// Within one product's variant list, Printing values are unique and the
// list is sorted lexicographically by Printing.
type PrintingVariant struct {
	ProductID     int     `json:"product_id"`
	Printing      string  `json:"printing"`
	MarketPrice   float64 `json:"market_price"`
	LowestPrice   float64 `json:"lowest_price,omitempty"`
	Condition     string  `json:"condition,omitempty"`
	InStock       bool    `json:"in_stock"`
	StockQuantity int     `json:"stock_quantity"`
}

// NormalizedProduct is the engine's canonical product shape, built fresh
// from marketplace responses on every request and never persisted.
type NormalizedProduct struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	SetName     string  `json:"set_name"`
	SetID       string  `json:"set_id"`
	MarketPrice float64 `json:"market_price"`
	LowestPrice float64 `json:"lowest_price,omitempty"`

	// Rarity is marketplace-supplied free text, not a closed enum.
	// Downstream layers must tolerate unknown values.
	Rarity     string   `json:"rarity,omitempty"`
	CardNumber string   `json:"card_number,omitempty"`
	HP         string   `json:"hp,omitempty"`
	Attacks    []string `json:"attacks,omitempty"`
	EnergyType []string `json:"energy_type,omitempty"`

	// Printing is the primary variant's printing name. It equals
	// Variants[0].Printing when Variants is non-empty, else "".
	Printing string            `json:"printing,omitempty"`
	Variants []PrintingVariant `json:"variants"`

	TotalListings int  `json:"total_listings"`
	InStock       bool `json:"in_stock"`
	Stock         int  `json:"stock"`
	Featured      bool `json:"featured,omitempty"`
}

// PrimaryVariant returns the product's first variant, or nil when the
// product has no known printing variants (a valid state, not an error).
func (p *NormalizedProduct) PrimaryVariant() *PrintingVariant {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}

// PriceCalculation is the retail formula output for one (rarity, market
// price) pair. Derived on demand, never persisted.
type PriceCalculation struct {
	MarketPrice     float64 `json:"market_price"`
	CalculatedPrice float64 `json:"calculated_price"`
	FinalPrice      float64 `json:"final_price"`
	Formula         string  `json:"formula"`
	MinimumApplied  bool    `json:"minimum_applied"`
}

// RarityQuery is the result of parsing a free-text search query for an
// embedded rarity keyword. Derived once per request, never mutated.
// RarityFilter is "" when the query contained no rarity keyword.
type RarityQuery struct {
	CleanQuery   string `json:"clean_query"`
	RarityFilter string `json:"rarity_filter,omitempty"`
}

// HasFilter reports whether a rarity keyword was extracted.
func (q RarityQuery) HasFilter() bool {
	return q.RarityFilter != ""
}

// InventorySnapshot maps "{productID}:{printing}" keys to non-negative
// stock quantities. It is read-only input to stock reconciliation;
// absence of a key means quantity zero.
type InventorySnapshot map[string]int

// Quantity returns the stocked quantity for a product printing.
func (s InventorySnapshot) Quantity(productID int, printing string) int {
	return s[InventoryKey(productID, printing)]
}

// InventoryKey builds the canonical inventory map key for a product
// printing pair.
func InventoryKey(productID int, printing string) string {
	return strconv.Itoa(productID) + ":" + printing
}

// Blacklist is an operator-curated set of product IDs excluded from the
// catalog regardless of other signals.
type Blacklist map[string]struct{}

// NewBlacklist builds a Blacklist from product ID strings.
func NewBlacklist(ids []string) Blacklist {
	b := make(Blacklist, len(ids))
	for _, id := range ids {
		b[id] = struct{}{}
	}
	return b
}

// Contains reports whether the given product ID is blacklisted.
func (b Blacklist) Contains(productID int) bool {
	_, ok := b[strconv.Itoa(productID)]
	return ok
}
