// Package store defines the datastore abstraction for the pricing engine.
// Business logic depends on the Store interface, never on concrete
// implementations. This enables mock-based testing without a running
// database.
//
// The store holds only operator-owned state: the local inventory
// snapshot, the product blacklist, and the featured-card list.
// Marketplace data and calculated prices are never persisted.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/cardstock/pricing-engine/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// InventoryRow is one stocked (product, printing) pair.
type InventoryRow struct {
	ProductID int       `json:"product_id"`
	Printing  string    `json:"printing"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FeaturedCard is an operator-pinned product shown on the storefront
// landing page, in ascending Position order.
type FeaturedCard struct {
	ProductID int       `json:"product_id"`
	Position  int       `json:"position"`
	AddedAt   time.Time `json:"added_at"`
}

// Store defines all data access operations for the pricing engine.
type Store interface {
	// Inventory
	GetInventorySnapshot(ctx context.Context) (domain.InventorySnapshot, error)
	ListInventory(ctx context.Context) ([]InventoryRow, error)
	ReplaceInventory(ctx context.Context, rows []InventoryRow) (int, error)
	SetInventoryQuantity(ctx context.Context, productID int, printing string, quantity int) error

	// Blacklist
	GetBlacklist(ctx context.Context) (domain.Blacklist, error)
	ReplaceBlacklist(ctx context.Context, productIDs []string) (int, error)
	AddToBlacklist(ctx context.Context, productID string) error
	RemoveFromBlacklist(ctx context.Context, productID string) error

	// Featured cards
	ListFeatured(ctx context.Context) ([]FeaturedCard, error)
	ReplaceFeatured(ctx context.Context, cards []FeaturedCard) (int, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
