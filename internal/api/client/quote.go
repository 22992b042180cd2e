package client

import (
	"context"

	domain "github.com/cardstock/pricing-engine/pkg/types"
)

type quoteRequest struct {
	Rarity      string  `json:"rarity"`
	MarketPrice float64 `json:"market_price"`
}

// QuoteResponse is the priced quote for one (rarity, market price) pair.
type QuoteResponse struct {
	domain.PriceCalculation
	DisplayPrice float64 `json:"display_price"`
}

// Quote applies the retail formula to a market price server-side.
func (c *Client) Quote(ctx context.Context, rarity string, marketPrice float64) (*QuoteResponse, error) {
	var res QuoteResponse
	req := quoteRequest{Rarity: rarity, MarketPrice: marketPrice}
	if err := c.post(ctx, "/api/v1/quote", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
