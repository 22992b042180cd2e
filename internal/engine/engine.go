// Package engine orchestrates the pricing pipeline: query parsing,
// marketplace search, normalization, rarity filtering, retail pricing,
// and stock reconciliation. The engine holds no caches and no mutable
// state between requests; the same inputs always produce the same
// outputs.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cardstock/pricing-engine/internal/catalog"
	"github.com/cardstock/pricing-engine/internal/currency"
	"github.com/cardstock/pricing-engine/internal/metrics"
	"github.com/cardstock/pricing-engine/internal/store"
	"github.com/cardstock/pricing-engine/internal/tcg"
	"github.com/cardstock/pricing-engine/pkg/pricing"
	"github.com/cardstock/pricing-engine/pkg/rarity"
	domain "github.com/cardstock/pricing-engine/pkg/types"
)

const (
	defaultConcurrency = 8

	// filterFetchSize is the raw page size fetched when a rarity filter
	// is active. Filtering happens after the fetch, so a bigger raw
	// page keeps filtered result pages from running short.
	defaultFilterFetchSize = 96
)

// Engine runs the search and pricing pipeline against injected
// collaborators.
type Engine struct {
	client    tcg.Client
	store     store.Store
	calc      *pricing.Calculator
	converter *currency.Converter
	log       *slog.Logger

	concurrency     int
	filterFetchSize int
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithConcurrency bounds the per-request product detail fan-out.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithFilterFetchSize sets the raw page size used when a rarity filter
// is active.
func WithFilterFetchSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.filterFetchSize = n
		}
	}
}

// New creates an Engine with injected dependencies.
func New(
	client tcg.Client,
	s store.Store,
	calc *pricing.Calculator,
	converter *currency.Converter,
	opts ...Option,
) *Engine {
	e := &Engine{
		client:          client,
		store:           s,
		calc:            calc,
		converter:       converter,
		log:             slog.Default(),
		concurrency:     defaultConcurrency,
		filterFetchSize: defaultFilterFetchSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SearchRequest is one storefront search.
type SearchRequest struct {
	Query    string
	SetID    string
	PageSize int
	Offset   int
	Sort     string
}

// PricedProduct is a normalized product with its retail price attached.
type PricedProduct struct {
	domain.NormalizedProduct

	// Retail is the formula output for the primary variant in USD.
	Retail domain.PriceCalculation `json:"retail"`

	// DisplayPrice is the final retail price converted into the store
	// currency.
	DisplayPrice float64 `json:"display_price"`
	Currency     string  `json:"currency"`

	// VariantRetail holds per-printing formula outputs, keyed by the
	// variant's printing name.
	VariantRetail map[string]domain.PriceCalculation `json:"variant_retail,omitempty"`
}

// SearchResult is one filtered and priced result page.
type SearchResult struct {
	Query     domain.RarityQuery `json:"query"`
	Products  []PricedProduct    `json:"products"`
	Total     int                `json:"total"`
	Estimated bool               `json:"estimated"`
	PageSize  int                `json:"page_size"`
	Offset    int                `json:"offset"`
}

// Search runs the full pipeline for one storefront search.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	parsed := rarity.ParseQuery(req.Query)

	fetchSize := req.PageSize
	if parsed.HasFilter() && e.filterFetchSize > fetchSize {
		fetchSize = e.filterFetchSize
	}

	resp, err := e.client.Search(ctx, tcg.SearchRequest{
		Query:    parsed.CleanQuery,
		SetID:    req.SetID,
		PageSize: fetchSize,
		Offset:   req.Offset,
		Sort:     req.Sort,
	})
	if err != nil {
		return nil, fmt.Errorf("searching marketplace: %w", err)
	}

	products := e.normalizeRecords(ctx, resp.Products)

	filtered := catalog.FilterByRarity(products, parsed.RarityFilter, req.PageSize, resp.Total)

	priced, err := e.priceAndReconcile(ctx, filtered.Products)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Query:     parsed,
		Products:  priced,
		Total:     filtered.EstimatedTotal,
		Estimated: filtered.Estimated,
		PageSize:  req.PageSize,
		Offset:    req.Offset,
	}, nil
}

// Product runs the detail pipeline for one product. Blacklisted
// products and code cards are reported as not found; the storefront
// must not reveal that an excluded product exists upstream.
func (e *Engine) Product(ctx context.Context, productID int) (*PricedProduct, error) {
	rec, err := e.client.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("fetching product %d: %w", productID, err)
	}

	blacklist, err := e.store.GetBlacklist(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading blacklist: %w", err)
	}

	p := catalog.NormalizeProduct(rec)
	if len(catalog.ApplyCatalogFilter([]domain.NormalizedProduct{p}, blacklist)) == 0 {
		return nil, tcg.ErrProductNotFound
	}

	priced, err := e.priceAndReconcile(ctx, []domain.NormalizedProduct{p})
	if err != nil {
		return nil, err
	}
	return &priced[0], nil
}

// Quote prices one (rarity, market price) pair without touching the
// marketplace. Exposed for the storefront's manual quoting tool.
func (e *Engine) Quote(rarityName string, marketPrice float64) (domain.PriceCalculation, float64) {
	calc := e.calc.Calculate(rarityName, marketPrice)
	metrics.PriceCalculationsTotal.Inc()
	metrics.RetailPriceDistribution.Observe(calc.FinalPrice)
	return calc, e.converter.Convert(calc.FinalPrice)
}

// Featured loads the operator-pinned cards, priced and reconciled, in
// display order. A card whose upstream fetch fails is skipped so one
// bad pin cannot empty the landing page.
func (e *Engine) Featured(ctx context.Context) ([]PricedProduct, error) {
	cards, err := e.store.ListFeatured(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing featured cards: %w", err)
	}

	results, errs := fanOut(ctx, cards, e.concurrency,
		func(ctx context.Context, c store.FeaturedCard) (*PricedProduct, error) {
			return e.Product(ctx, c.ProductID)
		})

	priced := make([]PricedProduct, 0, len(cards))
	for i, p := range results {
		if errs[i] != nil {
			e.log.Warn("skipping featured card",
				"product_id", cards[i].ProductID,
				"error", errs[i],
			)
			continue
		}
		p.Featured = true
		priced = append(priced, *p)
	}

	return priced, nil
}

// normalizeRecords turns raw marketplace records into normalized
// products, fetching detail listings concurrently for records that
// arrived without them. A failed detail fetch degrades that product to
// its search-page data instead of failing the request.
func (e *Engine) normalizeRecords(
	ctx context.Context,
	records []tcg.ProductRecord,
) []domain.NormalizedProduct {
	detailed, errs := fanOut(ctx, records, e.concurrency,
		func(ctx context.Context, rec tcg.ProductRecord) (*tcg.ProductRecord, error) {
			if len(rec.Listings) > 0 {
				return &rec, nil
			}
			return e.client.GetProduct(ctx, rec.ProductID)
		})

	products := make([]domain.NormalizedProduct, 0, len(records))
	for i := range records {
		rec := detailed[i]
		if errs[i] != nil {
			metrics.NormalizationFailuresTotal.Inc()
			e.log.Warn("product detail fetch failed, using search record",
				"product_id", records[i].ProductID,
				"error", errs[i],
			)
			rec = &records[i]
		}
		products = append(products, catalog.NormalizeProduct(rec))
	}

	return products
}

// priceAndReconcile applies the catalog filter, retail pricing, and
// stock reconciliation to normalized products, preserving input order.
func (e *Engine) priceAndReconcile(
	ctx context.Context,
	products []domain.NormalizedProduct,
) ([]PricedProduct, error) {
	blacklist, err := e.store.GetBlacklist(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading blacklist: %w", err)
	}
	inventory, err := e.store.GetInventorySnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}

	kept := catalog.ApplyCatalogFilter(products, blacklist)

	priced := make([]PricedProduct, 0, len(kept))
	for _, p := range kept {
		priced = append(priced, e.price(catalog.ReconcileStock(p, inventory)))
	}

	return priced, nil
}

// price computes retail prices for a reconciled product.
func (e *Engine) price(p domain.NormalizedProduct) PricedProduct {
	out := PricedProduct{
		NormalizedProduct: p,
		Currency:          e.converter.Currency(),
	}

	marketPrice := p.MarketPrice
	if primary := p.PrimaryVariant(); primary != nil {
		marketPrice = primary.MarketPrice
	}

	out.Retail = e.calc.Calculate(p.Rarity, marketPrice)
	out.DisplayPrice = e.converter.Convert(out.Retail.FinalPrice)
	metrics.PriceCalculationsTotal.Inc()
	metrics.RetailPriceDistribution.Observe(out.Retail.FinalPrice)

	if len(p.Variants) > 1 {
		out.VariantRetail = make(map[string]domain.PriceCalculation, len(p.Variants))
		for _, v := range p.Variants {
			out.VariantRetail[v.Printing] = e.calc.Calculate(p.Rarity, v.MarketPrice)
		}
	}

	return out
}

// IsNotFound reports whether err means the product does not exist or
// is excluded from the catalog.
func IsNotFound(err error) bool {
	return errors.Is(err, tcg.ErrProductNotFound)
}
