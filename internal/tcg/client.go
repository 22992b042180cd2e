// Package tcg provides a client for the card marketplace API, abstracted
// behind interfaces for testability.
package tcg

import (
	"context"
	"errors"
)

// ErrProductNotFound is returned when a product detail lookup misses.
var ErrProductNotFound = errors.New("product not found")

// SearchRequest defines the parameters for a marketplace product search.
type SearchRequest struct {
	Query    string
	SetID    string
	PageSize int
	Offset   int
	Sort     string // "relevance", "price-asc", "price-desc"
}

// SearchResponse holds one page of raw marketplace search results.
// Total counts matches across all pages, not just this one.
type SearchResponse struct {
	Products []ProductRecord
	Total    int
	Offset   int
	PageSize int
}

// Client defines the marketplace operations the engine consumes.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
	GetProduct(ctx context.Context, productID int) (*ProductRecord, error)
}

// TokenProvider supplies bearer tokens for marketplace API calls.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
