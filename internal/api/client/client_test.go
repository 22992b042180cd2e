package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardstock/pricing-engine/internal/engine"
	domain "github.com/cardstock/pricing-engine/pkg/types"
)

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.Featured(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API server not running")
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"title":"Bad Gateway"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Search(context.Background(), SearchRequest{Query: "pikachu"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API error (HTTP 502)")
}

func TestClient_Search(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "charizard secret rare", req.Query)
		assert.Equal(t, 12, req.PageSize)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(engine.SearchResult{
			Query:     domain.RarityQuery{CleanQuery: "charizard", RarityFilter: "secret rare"},
			Total:     40,
			Estimated: true,
			PageSize:  12,
			Products: []engine.PricedProduct{
				{
					NormalizedProduct: domain.NormalizedProduct{ProductID: 610923},
					Retail:            domain.PriceCalculation{FinalPrice: 92.46},
					DisplayPrice:      92.46,
					Currency:          "USD",
				},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Search(context.Background(), SearchRequest{
		Query:    "charizard secret rare",
		PageSize: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 40, res.Total)
	assert.True(t, res.Estimated)
	require.Len(t, res.Products, 1)
	assert.Equal(t, 610923, res.Products[0].ProductID)
	assert.InDelta(t, 92.46, res.Products[0].Retail.FinalPrice, 0.001)
}

func TestClient_GetProduct(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/products/610923", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(engine.PricedProduct{
			NormalizedProduct: domain.NormalizedProduct{
				ProductID:   610923,
				ProductName: "Charizard ex",
			},
			Retail:   domain.PriceCalculation{FinalPrice: 132.44},
			Currency: "USD",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	p, err := c.GetProduct(context.Background(), 610923)
	require.NoError(t, err)
	assert.Equal(t, "Charizard ex", p.ProductName)
	assert.InDelta(t, 132.44, p.Retail.FinalPrice, 0.001)
}

func TestClient_Featured(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/featured", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"product_id":1},{"product_id":2}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	cards, err := c.Featured(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, 1, cards[0].ProductID)
	assert.Equal(t, 2, cards[1].ProductID)
}

func TestClient_Quote(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/quote", r.URL.Path)

		var req quoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Rare", req.Rarity)
		assert.InDelta(t, 10.0, req.MarketPrice, 0.001)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"final_price":13.0,"display_price":13.0}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.Quote(context.Background(), "Rare", 10.0)
	require.NoError(t, err)
	assert.InDelta(t, 13.0, res.FinalPrice, 0.001)
	assert.InDelta(t, 13.0, res.DisplayPrice, 0.001)
}

func TestClient_UploadInventory(t *testing.T) {
	t.Parallel()

	csv := []byte("product_id,printing,quantity\n610923,Holofoil,4\n")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/uploads/inventory", r.URL.Path)
		assert.Equal(t, "text/csv", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, csv, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accepted":1,"skipped":0}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.UploadInventory(context.Background(), csv)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Accepted)
	assert.Equal(t, 0, res.Skipped)
}

func TestClient_UploadBlacklist(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/uploads/blacklist", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accepted":3,"skipped":1}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	res, err := c.UploadBlacklist(context.Background(), []byte("610923\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Accepted)
	assert.Equal(t, 1, res.Skipped)
}

func TestClient_TrimsTrailingSlash(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/featured", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	_, err := c.Featured(context.Background())
	require.NoError(t, err)
}
