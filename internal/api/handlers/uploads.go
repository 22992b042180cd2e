package handlers

import (
	"bytes"
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cardstock/pricing-engine/internal/ingest"
	"github.com/cardstock/pricing-engine/internal/store"
)

// UploadHandler accepts operator CSV uploads that replace the stored
// inventory, blacklist, or featured list wholesale.
type UploadHandler struct {
	parser *ingest.Parser
	store  store.Store
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(p *ingest.Parser, s store.Store) *UploadHandler {
	return &UploadHandler{parser: p, store: s}
}

// UploadInput carries a raw CSV request body.
type UploadInput struct {
	RawBody []byte `contentType:"text/csv"`
}

// UploadOutput reports what the upload replaced.
type UploadOutput struct {
	Body struct {
		Accepted int `json:"accepted" doc:"Rows written to the store"`
		Skipped  int `json:"skipped" doc:"Rows dropped as unparseable"`
	}
}

// UploadInventory replaces the full inventory snapshot.
func (h *UploadHandler) UploadInventory(ctx context.Context, input *UploadInput) (*UploadOutput, error) {
	rows, res, err := h.parser.ParseInventory(bytes.NewReader(input.RawBody))
	if err != nil {
		return nil, huma.Error400BadRequest("parsing inventory CSV: " + err.Error())
	}

	if _, err := h.store.ReplaceInventory(ctx, rows); err != nil {
		return nil, huma.Error500InternalServerError("replacing inventory: " + err.Error())
	}

	return uploadOutput(res), nil
}

// UploadBlacklist replaces the full product blacklist.
func (h *UploadHandler) UploadBlacklist(ctx context.Context, input *UploadInput) (*UploadOutput, error) {
	ids, res, err := h.parser.ParseBlacklist(bytes.NewReader(input.RawBody))
	if err != nil {
		return nil, huma.Error400BadRequest("parsing blacklist CSV: " + err.Error())
	}

	if _, err := h.store.ReplaceBlacklist(ctx, ids); err != nil {
		return nil, huma.Error500InternalServerError("replacing blacklist: " + err.Error())
	}

	return uploadOutput(res), nil
}

// UploadFeatured replaces the featured-card list.
func (h *UploadHandler) UploadFeatured(ctx context.Context, input *UploadInput) (*UploadOutput, error) {
	cards, res, err := h.parser.ParseFeatured(bytes.NewReader(input.RawBody))
	if err != nil {
		return nil, huma.Error400BadRequest("parsing featured CSV: " + err.Error())
	}

	if _, err := h.store.ReplaceFeatured(ctx, cards); err != nil {
		return nil, huma.Error500InternalServerError("replacing featured cards: " + err.Error())
	}

	return uploadOutput(res), nil
}

func uploadOutput(res ingest.Result) *UploadOutput {
	out := &UploadOutput{}
	out.Body.Accepted = res.Accepted
	out.Body.Skipped = res.Skipped
	return out
}

// RegisterUploadRoutes registers upload endpoints with the Huma API.
func RegisterUploadRoutes(api huma.API, h *UploadHandler) {
	for _, op := range []struct {
		id, path, summary string
		handler           func(context.Context, *UploadInput) (*UploadOutput, error)
	}{
		{"upload-inventory", "/api/v1/uploads/inventory", "Replace the inventory snapshot", h.UploadInventory},
		{"upload-blacklist", "/api/v1/uploads/blacklist", "Replace the product blacklist", h.UploadBlacklist},
		{"upload-featured", "/api/v1/uploads/featured", "Replace the featured-card list", h.UploadFeatured},
	} {
		huma.Register(api, huma.Operation{
			OperationID: op.id,
			Method:      http.MethodPost,
			Path:        op.path,
			Summary:     op.summary,
			Description: "Accepts a CSV body and atomically replaces the stored data. Unparseable rows are skipped and counted.",
			Tags:        []string{"admin"},
			Errors:      []int{http.StatusBadRequest},
		}, op.handler)
	}
}
