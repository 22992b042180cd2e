// Package pricing implements the rarity-tiered retail markup formula.
//
// The formula maps (rarity, market price) to a retail price through five
// rarity-grouped policies plus two special cases. Rarity is marketplace
// free text: anything unrecognized falls through to an identity policy
// with a diagnostic warning, never an error and never a silent zero.
package pricing

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	domain "github.com/cardstock/pricing-engine/pkg/types"
)

// Tier 1: flat 25% markup on bulk rarities.
var commonRarities = map[string]struct{}{
	"Common":   {},
	"Uncommon": {},
}

const commonMinimum = 0.30

// Tier 2: mid rarities, 25% markup on market price plus a 0.40 handling
// bump, with per-rarity minimums.
var midRarityMinimums = map[string]float64{
	"Rare":               1,
	"Holo Rare":          1,
	"ACE SPEC Rare":      2,
	"Prism Rare":         2,
	"Radiant Rare":       2,
	"Rare BREAK":         2,
	"Rare Ace":           2,
	"Shiny Ultra Rare":   2,
	"Amazing Rare":       2,
	"Classic Collection": 2,
}

// Tier 4: chase rarities with a price-tiered multiplier and per-rarity
// minimums.
var chaseRarityMinimums = map[string]float64{
	"Ultra Rare":                1.5,
	"Double Rare":               1.5,
	"Illustration Rare":         2,
	"Shiny Holo Rare":           2,
	"Shiny Rare":                2,
	"Secret Rare":               3,
	"Special Illustration Rare": 3,
	"Hyper Rare":                3,
}

// Tier 5: top-end rarities, flat 10% markup and no minimum.
var premiumRarities = map[string]struct{}{
	"Black White Rare": {},
	"Mega Hyper Rare":  {},
}

const promoMinimum = 1

// Calculator evaluates the retail formula. It is stateless apart from
// the injected logger used for unknown-rarity diagnostics.
type Calculator struct {
	log *slog.Logger
}

// Option configures the Calculator.
type Option func(*Calculator)

// WithLogger sets the logger used for unknown-rarity warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) {
		c.log = l
	}
}

// New creates a Calculator.
func New(opts ...Option) *Calculator {
	c := &Calculator{log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate maps a rarity and market price to a retail price. Rarity is
// trimmed before tier matching; the first matching tier wins. The result
// is deterministic for a given input.
func (c *Calculator) Calculate(rarity string, marketPrice float64) domain.PriceCalculation {
	r := strings.TrimSpace(rarity)

	switch {
	case r == "Code Card":
		// Code cards are never for sale.
		return calc(marketPrice, 0, "not for sale", noMinimum)

	case r == "Unconfirmed":
		return calc(marketPrice, marketPrice, "market price (unconfirmed)", noMinimum)

	case isCommon(r):
		return calc(marketPrice, marketPrice*1.25,
			fmt.Sprintf("%.2f x 1.25", marketPrice), commonMinimum)

	case isMid(r):
		return calc(marketPrice, (marketPrice+0.4)*1.25,
			fmt.Sprintf("(%.2f + 0.40) x 1.25", marketPrice), midRarityMinimums[r])

	case r == "Promo":
		k := 1.35
		if marketPrice > 20 {
			k = 1.25
		}
		return calc(marketPrice, (marketPrice+0.4)*k,
			fmt.Sprintf("(%.2f + 0.40) x %.2f", marketPrice, k), promoMinimum)

	case isChase(r):
		k := chaseMultiplier(marketPrice)
		return calc(marketPrice, (marketPrice+0.4)*k,
			fmt.Sprintf("(%.2f + 0.40) x %.2f", marketPrice, k), chaseRarityMinimums[r])

	case isPremium(r):
		return calc(marketPrice, marketPrice*1.1,
			fmt.Sprintf("%.2f x 1.10", marketPrice), noMinimum)

	default:
		c.log.Warn("unknown rarity, pricing at market", "rarity", rarity)
		return calc(marketPrice, marketPrice, "market price (unknown rarity)", noMinimum)
	}
}

// chaseMultiplier returns the price-tiered markup for chase rarities.
// The markup decreases as market price rises; the strict > boundaries
// are part of the margin policy and must not be loosened.
func chaseMultiplier(m float64) float64 {
	switch {
	case m > 100:
		return 1.10
	case m > 70:
		return 1.15
	case m > 40:
		return 1.20
	case m > 20:
		return 1.25
	default:
		return 1.35
	}
}

// noMinimum marks tiers that never enforce a floor price.
const noMinimum = -1

func calc(market, calculated float64, formula string, minimum float64) domain.PriceCalculation {
	calculated = roundCents(calculated)

	final := calculated
	minimumApplied := false
	if minimum >= 0 && calculated < minimum {
		final = minimum
		minimumApplied = true
	}

	return domain.PriceCalculation{
		MarketPrice:     market,
		CalculatedPrice: calculated,
		FinalPrice:      roundCents(final),
		Formula:         formula,
		MinimumApplied:  minimumApplied,
	}
}

func isCommon(r string) bool {
	_, ok := commonRarities[r]
	return ok
}

func isMid(r string) bool {
	_, ok := midRarityMinimums[r]
	return ok
}

func isChase(r string) bool {
	_, ok := chaseRarityMinimums[r]
	return ok
}

func isPremium(r string) bool {
	_, ok := premiumRarities[r]
	return ok
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
