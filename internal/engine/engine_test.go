package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardstock/pricing-engine/internal/currency"
	"github.com/cardstock/pricing-engine/internal/metrics"
	"github.com/cardstock/pricing-engine/internal/store"
	"github.com/cardstock/pricing-engine/internal/tcg"
	"github.com/cardstock/pricing-engine/pkg/pricing"
)

// fakeClient is a hand-rolled tcg.Client for engine tests.
type fakeClient struct {
	mu          sync.Mutex
	searchResp  *tcg.SearchResponse
	searchErr   error
	lastSearch  tcg.SearchRequest
	products    map[int]*tcg.ProductRecord
	failDetail  map[int]error
	detailCalls int
}

func (f *fakeClient) Search(_ context.Context, req tcg.SearchRequest) (*tcg.SearchResponse, error) {
	f.mu.Lock()
	f.lastSearch = req
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResp, nil
}

func (f *fakeClient) GetProduct(_ context.Context, productID int) (*tcg.ProductRecord, error) {
	f.mu.Lock()
	f.detailCalls++
	f.mu.Unlock()
	if err, ok := f.failDetail[productID]; ok {
		return nil, err
	}
	rec, ok := f.products[productID]
	if !ok {
		return nil, tcg.ErrProductNotFound
	}
	return rec, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, client tcg.Client, s store.Store, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return New(
		client,
		s,
		pricing.New(pricing.WithLogger(quietLogger())),
		currency.NewConverter("USD"),
		opts...,
	)
}

func secretRareRecord(id int, name string, price float64) tcg.ProductRecord {
	return tcg.ProductRecord{
		ProductID:     id,
		ProductName:   name,
		SetName:       "Surging Sparks",
		MarketPrice:   price,
		TotalListings: 2,
		RarityName:    "Secret Rare",
		Listings: []tcg.ListingRecord{
			{ProductID: id, Printing: "Holofoil", Condition: "Near Mint", Price: price},
		},
	}
}

func TestEngine_Search_FullPipeline(t *testing.T) {
	t.Parallel()

	records := []tcg.ProductRecord{
		secretRareRecord(1, "Pikachu ex", 80),
		{
			ProductID: 2, ProductName: "Pikachu", RarityName: "Common",
			MarketPrice: 0.05, TotalListings: 1,
			Listings: []tcg.ListingRecord{
				{ProductID: 2, Printing: "Normal", Condition: "Near Mint", Price: 0.05},
			},
		},
	}
	client := &fakeClient{
		searchResp: &tcg.SearchResponse{Products: records, Total: 40},
	}

	s := store.NewMemoryStore()
	_, err := s.ReplaceInventory(context.Background(), []store.InventoryRow{
		{ProductID: 1, Printing: "Holofoil", Quantity: 2},
	})
	require.NoError(t, err)

	eng := newTestEngine(t, client, s)

	res, err := eng.Search(context.Background(), SearchRequest{
		Query: "pikachu secret rare", PageSize: 24,
	})
	require.NoError(t, err)

	// Query parsing split the rarity keyword out.
	assert.Equal(t, "pikachu", res.Query.CleanQuery)
	assert.Equal(t, "secret rare", res.Query.RarityFilter)
	assert.Equal(t, "pikachu", client.lastSearch.Query, "marketplace sees the clean query")

	// Only the Secret Rare survives the rarity filter.
	require.Len(t, res.Products, 1)
	p := res.Products[0]
	assert.Equal(t, 1, p.ProductID)
	assert.True(t, res.Estimated)
	assert.Equal(t, 20, res.Total, "ceil(40 * 1/2)")

	// Chase-tier pricing at M=80: (80+0.40)*1.15 = 92.46.
	assert.InDelta(t, 92.46, p.Retail.FinalPrice, 0.001)
	assert.InDelta(t, 92.46, p.DisplayPrice, 0.001, "USD store needs no conversion")

	// Inventory reconciliation landed on the variant.
	require.Len(t, p.Variants, 1)
	assert.True(t, p.Variants[0].InStock)
	assert.Equal(t, 2, p.Variants[0].StockQuantity)
	assert.True(t, p.InStock)
}

func TestEngine_Search_NoFilterPassthrough(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		searchResp: &tcg.SearchResponse{
			Products: []tcg.ProductRecord{secretRareRecord(1, "Pikachu ex", 80)},
			Total:    312,
		},
	}
	eng := newTestEngine(t, client, store.NewMemoryStore())

	res, err := eng.Search(context.Background(), SearchRequest{Query: "pikachu", PageSize: 24})
	require.NoError(t, err)

	assert.False(t, res.Query.HasFilter())
	assert.Equal(t, 312, res.Total)
	assert.False(t, res.Estimated)
	assert.Equal(t, 24, client.lastSearch.PageSize, "no filter means no oversized fetch")
}

func TestEngine_Search_OversizesFetchWhenFiltering(t *testing.T) {
	t.Parallel()

	client := &fakeClient{searchResp: &tcg.SearchResponse{}}
	eng := newTestEngine(t, client, store.NewMemoryStore(), WithFilterFetchSize(96))

	_, err := eng.Search(context.Background(), SearchRequest{
		Query: "charizard ultra rare", PageSize: 24,
	})
	require.NoError(t, err)
	assert.Equal(t, 96, client.lastSearch.PageSize)
}

func TestEngine_Search_MarketplaceError(t *testing.T) {
	t.Parallel()

	client := &fakeClient{searchErr: errors.New("upstream 502")}
	eng := newTestEngine(t, client, store.NewMemoryStore())

	_, err := eng.Search(context.Background(), SearchRequest{Query: "pikachu", PageSize: 24})
	assert.Error(t, err)
}

func TestEngine_Search_DetailFetchForBareRecords(t *testing.T) {
	t.Parallel()

	// The search page returns the record without listings; the engine
	// must fetch the detail to build variants.
	bare := secretRareRecord(1, "Pikachu ex", 80)
	bare.Listings = nil
	full := secretRareRecord(1, "Pikachu ex", 80)

	client := &fakeClient{
		searchResp: &tcg.SearchResponse{Products: []tcg.ProductRecord{bare}, Total: 1},
		products:   map[int]*tcg.ProductRecord{1: &full},
	}
	eng := newTestEngine(t, client, store.NewMemoryStore())

	res, err := eng.Search(context.Background(), SearchRequest{Query: "pikachu", PageSize: 24})
	require.NoError(t, err)

	require.Len(t, res.Products, 1)
	assert.Len(t, res.Products[0].Variants, 1, "variants built from the detail fetch")
	assert.Equal(t, 1, client.detailCalls)
}

func TestEngine_Search_DetailFailureDegradesOneProduct(t *testing.T) {
	t.Parallel()

	bare := secretRareRecord(1, "Pikachu ex", 80)
	bare.Listings = nil
	healthy := secretRareRecord(2, "Raichu ex", 30)

	client := &fakeClient{
		searchResp: &tcg.SearchResponse{Products: []tcg.ProductRecord{bare, healthy}, Total: 2},
		failDetail: map[int]error{1: errors.New("detail 500")},
	}
	eng := newTestEngine(t, client, store.NewMemoryStore())

	res, err := eng.Search(context.Background(), SearchRequest{Query: "pikachu", PageSize: 24})
	require.NoError(t, err, "one failed detail fetch does not fail the request")

	require.Len(t, res.Products, 2)
	assert.Equal(t, 1, res.Products[0].ProductID, "input order preserved")
	assert.Empty(t, res.Products[0].Variants, "degraded to search-page data")
	assert.Len(t, res.Products[1].Variants, 1)
}

func TestEngine_Search_ExcludesBlacklistedAndCodeCards(t *testing.T) {
	t.Parallel()

	codeCard := tcg.ProductRecord{
		ProductID: 3, ProductName: "SV Code Card", RarityName: "Code Card",
	}
	client := &fakeClient{
		searchResp: &tcg.SearchResponse{
			Products: []tcg.ProductRecord{
				secretRareRecord(1, "Pikachu ex", 80),
				secretRareRecord(2, "Raichu ex", 30),
				codeCard,
			},
			Total: 3,
		},
	}

	s := store.NewMemoryStore()
	_, err := s.ReplaceBlacklist(context.Background(), []string{"2"})
	require.NoError(t, err)

	eng := newTestEngine(t, client, s)

	res, err := eng.Search(context.Background(), SearchRequest{Query: "pikachu", PageSize: 24})
	require.NoError(t, err)

	require.Len(t, res.Products, 1)
	assert.Equal(t, 1, res.Products[0].ProductID)
}

func TestEngine_Product(t *testing.T) {
	t.Parallel()

	rec := secretRareRecord(7, "Charizard ex", 120)
	client := &fakeClient{products: map[int]*tcg.ProductRecord{7: &rec}}

	s := store.NewMemoryStore()
	require.NoError(t, s.SetInventoryQuantity(context.Background(), 7, "Holofoil", 1))

	eng := newTestEngine(t, client, s)

	p, err := eng.Product(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "Charizard ex", p.ProductName)
	// Chase tier at M=120: (120+0.40)*1.10 = 132.44.
	assert.InDelta(t, 132.44, p.Retail.FinalPrice, 0.001)
	assert.True(t, p.InStock)
}

func TestEngine_Product_NotFound(t *testing.T) {
	t.Parallel()

	client := &fakeClient{products: map[int]*tcg.ProductRecord{}}
	eng := newTestEngine(t, client, store.NewMemoryStore())

	_, err := eng.Product(context.Background(), 404)
	assert.True(t, IsNotFound(err))
}

func TestEngine_Product_BlacklistedReportsNotFound(t *testing.T) {
	t.Parallel()

	rec := secretRareRecord(7, "Charizard ex", 120)
	client := &fakeClient{products: map[int]*tcg.ProductRecord{7: &rec}}

	s := store.NewMemoryStore()
	require.NoError(t, s.AddToBlacklist(context.Background(), "7"))

	eng := newTestEngine(t, client, s)

	_, err := eng.Product(context.Background(), 7)
	assert.True(t, IsNotFound(err), "exclusion must be indistinguishable from absence")
}

func TestEngine_Quote(t *testing.T) {
	t.Parallel()

	eng := newTestEngine(t, &fakeClient{}, store.NewMemoryStore())

	calc, display := eng.Quote("Rare", 10)
	// Mid tier: (10+0.40)*1.25 = 13.
	assert.InDelta(t, 13.0, calc.FinalPrice, 0.001)
	assert.InDelta(t, 13.0, display, 0.001)
}

func TestEngine_Quote_ConvertsToStoreCurrency(t *testing.T) {
	t.Parallel()

	conv := currency.NewConverter("EUR")
	conv.SetRate(0.5)
	eng := New(
		&fakeClient{},
		store.NewMemoryStore(),
		pricing.New(pricing.WithLogger(quietLogger())),
		conv,
		WithLogger(quietLogger()),
	)

	calc, display := eng.Quote("Rare", 10)
	assert.InDelta(t, 13.0, calc.FinalPrice, 0.001, "formula output stays in USD")
	assert.InDelta(t, 6.5, display, 0.001)
}

func TestEngine_Featured(t *testing.T) {
	t.Parallel()

	first := secretRareRecord(1, "Pikachu ex", 80)
	third := secretRareRecord(3, "Raichu ex", 30)
	client := &fakeClient{
		products:   map[int]*tcg.ProductRecord{1: &first, 3: &third},
		failDetail: map[int]error{2: errors.New("detail 500")},
	}

	s := store.NewMemoryStore()
	_, err := s.ReplaceFeatured(context.Background(), []store.FeaturedCard{
		{ProductID: 1, Position: 1},
		{ProductID: 2, Position: 2},
		{ProductID: 3, Position: 3},
	})
	require.NoError(t, err)

	eng := newTestEngine(t, client, s)

	cards, err := eng.Featured(context.Background())
	require.NoError(t, err)

	require.Len(t, cards, 2, "the failed card is skipped, not fatal")
	assert.Equal(t, 1, cards[0].ProductID)
	assert.Equal(t, 3, cards[1].ProductID)
	assert.True(t, cards[0].Featured)
}

func TestEngine_VariantRetail(t *testing.T) {
	t.Parallel()

	rec := tcg.ProductRecord{
		ProductID: 5, ProductName: "Gengar", RarityName: "Rare",
		MarketPrice: 4, TotalListings: 3,
		Listings: []tcg.ListingRecord{
			{ProductID: 5, Printing: "Holofoil", Condition: "Near Mint", Price: 6},
			{ProductID: 5, Printing: "Normal", Condition: "Near Mint", Price: 2},
		},
	}
	client := &fakeClient{products: map[int]*tcg.ProductRecord{5: &rec}}
	eng := newTestEngine(t, client, store.NewMemoryStore())

	p, err := eng.Product(context.Background(), 5)
	require.NoError(t, err)

	require.Len(t, p.VariantRetail, 2)
	// Holofoil observed first, so it carries the market-price hint (4):
	// (4+0.40)*1.25 = 5.50. Normal: (2+0.40)*1.25 = 3.
	assert.InDelta(t, 5.5, p.VariantRetail["Holofoil"].FinalPrice, 0.001)
	assert.InDelta(t, 3.0, p.VariantRetail["Normal"].FinalPrice, 0.001)
}

func getHistogramSampleCount(h prometheus.Histogram) uint64 {
	ch := make(chan prometheus.Metric, 1)
	h.Collect(ch)
	m := <-ch
	pb := &dto.Metric{}
	_ = m.Write(pb)
	return pb.GetHistogram().GetSampleCount()
}

func TestSearch_ObservesDuration(t *testing.T) {
	// Not parallel: checks the global SearchDuration histogram count.
	// Other search tests running in parallel would increment it too.

	before := getHistogramSampleCount(metrics.SearchDuration)

	client := &fakeClient{searchResp: &tcg.SearchResponse{}}
	eng := newTestEngine(t, client, store.NewMemoryStore())

	_, err := eng.Search(context.Background(), SearchRequest{Query: "pikachu", PageSize: 24})
	require.NoError(t, err)

	assert.Equal(t, before+1, getHistogramSampleCount(metrics.SearchDuration))
}
