package handlers_test

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"

	"github.com/cardstock/pricing-engine/internal/api/handlers"
	domain "github.com/cardstock/pricing-engine/pkg/types"
)

func TestQuoteHandler_Quote(t *testing.T) {
	t.Parallel()

	pricer := &fakePricer{
		quoteCalc: domain.PriceCalculation{
			MarketPrice:     80,
			CalculatedPrice: 92.46,
			FinalPrice:      92.46,
			Formula:         "(market + 0.40) * 1.15",
		},
		quoteDisplay: 92.46,
	}

	_, api := humatest.New(t)
	handlers.RegisterQuoteRoutes(api, handlers.NewQuoteHandler(pricer))

	resp := api.Post("/api/v1/quote", map[string]any{
		"rarity":       "Secret Rare",
		"market_price": 80,
	})
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"final_price":92.46`)
	assert.Contains(t, resp.Body.String(), `"display_price":92.46`)
}

func TestQuoteHandler_RejectsNegativePrice(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterQuoteRoutes(api, handlers.NewQuoteHandler(&fakePricer{}))

	resp := api.Post("/api/v1/quote", map[string]any{
		"rarity":       "Rare",
		"market_price": -5,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
