package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cardstock/pricing-engine/internal/cache"
	"github.com/cardstock/pricing-engine/internal/engine"
	"github.com/cardstock/pricing-engine/internal/metrics"
)

// SearchHandler handles storefront card searches.
type SearchHandler struct {
	engine Pricer
	cache  cache.Cache
	ttl    time.Duration
}

// NewSearchHandler creates a new SearchHandler. Responses are cached
// for ttl; pass cache.Nop to disable caching.
func NewSearchHandler(e Pricer, c cache.Cache, ttl time.Duration) *SearchHandler {
	return &SearchHandler{engine: e, cache: c, ttl: ttl}
}

// SearchInput is the request body for the search endpoint.
type SearchInput struct {
	Body struct {
		Query    string `json:"query" minLength:"1" doc:"Card search query, may embed a rarity keyword" example:"pikachu secret rare"`
		SetID    string `json:"set_id,omitempty" doc:"Restrict results to one set" example:"sv08"`
		PageSize int    `json:"page_size,omitempty" minimum:"1" maximum:"96" doc:"Results per page (default 24)" example:"24"`
		Offset   int    `json:"offset,omitempty" minimum:"0" doc:"Raw result offset for pagination"`
		Sort     string `json:"sort,omitempty" enum:",relevance,price-asc,price-desc" doc:"Sort order"`
	}
}

// SearchOutput is the response body for the search endpoint.
type SearchOutput struct {
	Body engine.SearchResult
}

// Search runs the pricing pipeline for one search, with read-through
// response caching.
func (h *SearchHandler) Search(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	pageSize := input.Body.PageSize
	if pageSize <= 0 {
		pageSize = 24
	}

	key := cache.SearchKey(
		input.Body.Query, input.Body.SetID, pageSize, input.Body.Offset, input.Body.Sort,
	)

	if data, hit, err := h.cache.Get(ctx, key); err == nil && hit {
		var cached engine.SearchResult
		if json.Unmarshal(data, &cached) == nil {
			metrics.CacheHitsTotal.Inc()
			return &SearchOutput{Body: cached}, nil
		}
	}
	metrics.CacheMissesTotal.Inc()

	res, err := h.engine.Search(ctx, engine.SearchRequest{
		Query:    input.Body.Query,
		SetID:    input.Body.SetID,
		PageSize: pageSize,
		Offset:   input.Body.Offset,
		Sort:     input.Body.Sort,
	})
	if err != nil {
		return nil, huma.Error502BadGateway("marketplace error: " + err.Error())
	}

	if data, err := json.Marshal(res); err == nil {
		// Cache write failures only cost the next request a miss.
		_ = h.cache.Set(ctx, key, data, h.ttl)
	}

	return &SearchOutput{Body: *res}, nil
}

// RegisterSearchRoutes registers search endpoints with the Huma API.
func RegisterSearchRoutes(api huma.API, h *SearchHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "search-cards",
		Method:      http.MethodPost,
		Path:        "/api/v1/search",
		Summary:     "Search and price cards",
		Description: "Runs the full pricing pipeline: rarity-aware query parsing, marketplace search, normalization, retail pricing, and stock reconciliation.",
		Tags:        []string{"catalog"},
		Errors:      []int{http.StatusBadGateway},
	}, h.Search)
}
