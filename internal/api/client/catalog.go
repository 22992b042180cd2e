package client

import (
	"context"
	"fmt"

	"github.com/cardstock/pricing-engine/internal/engine"
)

// SearchRequest is the body for the search endpoint.
type SearchRequest struct {
	Query    string `json:"query"`
	SetID    string `json:"set_id,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
	Offset   int    `json:"offset,omitempty"`
	Sort     string `json:"sort,omitempty"`
}

// Search runs a priced card search.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*engine.SearchResult, error) {
	var res engine.SearchResult
	if err := c.post(ctx, "/api/v1/search", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GetProduct returns the priced detail for one product.
func (c *Client) GetProduct(ctx context.Context, productID int) (*engine.PricedProduct, error) {
	var p engine.PricedProduct
	if err := c.get(ctx, fmt.Sprintf("/api/v1/products/%d", productID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

type featuredResponse struct {
	Products []engine.PricedProduct `json:"products"`
}

// Featured returns the operator-pinned cards in display order.
func (c *Client) Featured(ctx context.Context) ([]engine.PricedProduct, error) {
	var res featuredResponse
	if err := c.get(ctx, "/api/v1/featured", &res); err != nil {
		return nil, err
	}
	return res.Products, nil
}
