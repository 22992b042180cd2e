// Package currency maintains the USD to store-currency exchange rate.
// Marketplace prices arrive in USD; the storefront displays its local
// currency. The rate is refreshed on a schedule and held in memory, so
// a refresh failure degrades to a stale rate rather than an outage.
package currency

import (
	"sync"

	"github.com/cardstock/pricing-engine/internal/metrics"
)

// Converter converts USD amounts into the store currency at the last
// known rate. Safe for concurrent use.
type Converter struct {
	mu       sync.RWMutex
	rate     float64
	currency string
}

// NewConverter creates a Converter for the given store currency code.
// The rate starts at 1 (identity) until the first refresh lands, which
// is correct for USD stores and a documented startup window otherwise.
func NewConverter(currency string) *Converter {
	return &Converter{rate: 1, currency: currency}
}

// Currency returns the store currency code.
func (c *Converter) Currency() string {
	return c.currency
}

// Rate returns the current USD to store-currency rate.
func (c *Converter) Rate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.rate
}

// SetRate installs a freshly fetched rate. Non-positive rates are
// ignored; a bad upstream value must not zero out prices.
func (c *Converter) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	c.mu.Lock()
	c.rate = rate
	c.mu.Unlock()
	metrics.CurrencyRate.Set(rate)
}

// Convert converts a USD amount into the store currency.
func (c *Converter) Convert(usd float64) float64 {
	return usd * c.Rate()
}
