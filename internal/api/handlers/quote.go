package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/cardstock/pricing-engine/pkg/types"
)

// QuoteHandler prices a (rarity, market price) pair on demand.
type QuoteHandler struct {
	engine Pricer
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(e Pricer) *QuoteHandler {
	return &QuoteHandler{engine: e}
}

// QuoteInput is the request body for the quote endpoint.
type QuoteInput struct {
	Body struct {
		Rarity      string  `json:"rarity" doc:"Marketplace rarity text, unknown values price at market" example:"Secret Rare"`
		MarketPrice float64 `json:"market_price" minimum:"0" doc:"Market price in USD" example:"80.00"`
	}
}

// QuoteOutput is the response body for the quote endpoint.
type QuoteOutput struct {
	Body struct {
		domain.PriceCalculation
		DisplayPrice float64 `json:"display_price" doc:"Final price in the store currency"`
	}
}

// Quote applies the retail formula without touching the marketplace.
func (h *QuoteHandler) Quote(_ context.Context, input *QuoteInput) (*QuoteOutput, error) {
	calc, display := h.engine.Quote(input.Body.Rarity, input.Body.MarketPrice)

	out := &QuoteOutput{}
	out.Body.PriceCalculation = calc
	out.Body.DisplayPrice = display
	return out, nil
}

// RegisterQuoteRoutes registers the quote endpoint with the Huma API.
func RegisterQuoteRoutes(api huma.API, h *QuoteHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "quote-price",
		Method:      http.MethodPost,
		Path:        "/api/v1/quote",
		Summary:     "Quote a retail price",
		Description: "Applies the rarity markup formula to a market price without a marketplace lookup.",
		Tags:        []string{"pricing"},
	}, h.Quote)
}
