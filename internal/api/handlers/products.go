package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cardstock/pricing-engine/internal/engine"
)

// ProductHandler serves priced product detail and featured cards.
type ProductHandler struct {
	engine Pricer
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(e Pricer) *ProductHandler {
	return &ProductHandler{engine: e}
}

// ProductInput identifies one product.
type ProductInput struct {
	ID int `path:"id" minimum:"1" doc:"Marketplace product ID" example:"610923"`
}

// ProductOutput is the priced product detail response.
type ProductOutput struct {
	Body engine.PricedProduct
}

// GetProduct returns the priced, reconciled detail for one product.
// Blacklisted products and code cards report 404.
func (h *ProductHandler) GetProduct(ctx context.Context, input *ProductInput) (*ProductOutput, error) {
	p, err := h.engine.Product(ctx, input.ID)
	if err != nil {
		if engine.IsNotFound(err) {
			return nil, huma.Error404NotFound("product not found")
		}
		return nil, huma.Error502BadGateway("marketplace error: " + err.Error())
	}
	return &ProductOutput{Body: *p}, nil
}

// FeaturedOutput is the featured-cards response.
type FeaturedOutput struct {
	Body struct {
		Products []engine.PricedProduct `json:"products" doc:"Operator-pinned cards in display order"`
	}
}

// Featured returns the operator-pinned cards, priced and reconciled.
func (h *ProductHandler) Featured(ctx context.Context, _ *struct{}) (*FeaturedOutput, error) {
	cards, err := h.engine.Featured(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("loading featured cards: " + err.Error())
	}

	out := &FeaturedOutput{}
	out.Body.Products = cards
	return out, nil
}

// RegisterProductRoutes registers product endpoints with the Huma API.
func RegisterProductRoutes(api huma.API, h *ProductHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-product",
		Method:      http.MethodGet,
		Path:        "/api/v1/products/{id}",
		Summary:     "Get priced product detail",
		Tags:        []string{"catalog"},
		Errors:      []int{http.StatusNotFound, http.StatusBadGateway},
	}, h.GetProduct)

	huma.Register(api, huma.Operation{
		OperationID: "list-featured",
		Method:      http.MethodGet,
		Path:        "/api/v1/featured",
		Summary:     "List featured cards",
		Tags:        []string{"catalog"},
	}, h.Featured)
}
