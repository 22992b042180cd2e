package store

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/cardstock/pricing-engine/pkg/types"
)

// MemoryStore is an in-memory Store for tests and local development.
// Safe for concurrent use.
type MemoryStore struct {
	mu        sync.RWMutex
	inventory map[string]InventoryRow
	blacklist map[string]time.Time
	featured  map[int]FeaturedCard
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		inventory: make(map[string]InventoryRow),
		blacklist: make(map[string]time.Time),
		featured:  make(map[int]FeaturedCard),
	}
}

// GetInventorySnapshot returns stocked rows keyed for reconciliation.
func (s *MemoryStore) GetInventorySnapshot(_ context.Context) (domain.InventorySnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(domain.InventorySnapshot, len(s.inventory))
	for key, r := range s.inventory {
		if r.Quantity > 0 {
			snapshot[key] = r.Quantity
		}
	}
	return snapshot, nil
}

// ListInventory returns all rows sorted by product then printing.
func (s *MemoryStore) ListInventory(_ context.Context) ([]InventoryRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]InventoryRow, 0, len(s.inventory))
	for _, r := range s.inventory {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].Printing < out[j].Printing
	})
	return out, nil
}

// ReplaceInventory swaps the full inventory.
func (s *MemoryStore) ReplaceInventory(_ context.Context, rows []InventoryRow) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inventory = make(map[string]InventoryRow, len(rows))
	now := time.Now()
	for _, r := range rows {
		r.UpdatedAt = now
		s.inventory[domain.InventoryKey(r.ProductID, r.Printing)] = r
	}
	return len(rows), nil
}

// SetInventoryQuantity upserts one row; zero removes it.
func (s *MemoryStore) SetInventoryQuantity(
	_ context.Context,
	productID int,
	printing string,
	quantity int,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := domain.InventoryKey(productID, printing)
	if quantity <= 0 {
		delete(s.inventory, key)
		return nil
	}
	s.inventory[key] = InventoryRow{
		ProductID: productID,
		Printing:  printing,
		Quantity:  quantity,
		UpdatedAt: time.Now(),
	}
	return nil
}

// GetBlacklist returns the blacklist as a membership set.
func (s *MemoryStore) GetBlacklist(_ context.Context) (domain.Blacklist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blacklist := make(domain.Blacklist, len(s.blacklist))
	for id := range s.blacklist {
		blacklist[id] = struct{}{}
	}
	return blacklist, nil
}

// ReplaceBlacklist swaps the full blacklist.
func (s *MemoryStore) ReplaceBlacklist(_ context.Context, productIDs []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blacklist = make(map[string]time.Time, len(productIDs))
	now := time.Now()
	for _, id := range productIDs {
		s.blacklist[id] = now
	}
	return len(productIDs), nil
}

// AddToBlacklist inserts one ID, ignoring duplicates.
func (s *MemoryStore) AddToBlacklist(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blacklist[productID]; !ok {
		s.blacklist[productID] = time.Now()
	}
	return nil
}

// RemoveFromBlacklist deletes one ID or returns ErrNotFound.
func (s *MemoryStore) RemoveFromBlacklist(_ context.Context, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blacklist[productID]; !ok {
		return ErrNotFound
	}
	delete(s.blacklist, productID)
	return nil
}

// ListFeatured returns featured cards in display order.
func (s *MemoryStore) ListFeatured(_ context.Context) ([]FeaturedCard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cards := make([]FeaturedCard, 0, len(s.featured))
	for _, c := range s.featured {
		cards = append(cards, c)
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Position != cards[j].Position {
			return cards[i].Position < cards[j].Position
		}
		return cards[i].ProductID < cards[j].ProductID
	})
	return cards, nil
}

// ReplaceFeatured swaps the featured list.
func (s *MemoryStore) ReplaceFeatured(_ context.Context, cards []FeaturedCard) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.featured = make(map[int]FeaturedCard, len(cards))
	now := time.Now()
	for _, c := range cards {
		c.AddedAt = now
		s.featured[c.ProductID] = c
	}
	return len(cards), nil
}

// Migrate is a no-op for the in-memory store.
func (s *MemoryStore) Migrate(_ context.Context) error { return nil }

// Ping always succeeds.
func (s *MemoryStore) Ping(_ context.Context) error { return nil }
