package client

import "context"

// UploadResult reports how many rows an upload wrote and skipped.
type UploadResult struct {
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}

// UploadInventory replaces the inventory snapshot with the given CSV.
func (c *Client) UploadInventory(ctx context.Context, csv []byte) (*UploadResult, error) {
	return c.upload(ctx, "/api/v1/uploads/inventory", csv)
}

// UploadBlacklist replaces the product blacklist with the given CSV.
func (c *Client) UploadBlacklist(ctx context.Context, csv []byte) (*UploadResult, error) {
	return c.upload(ctx, "/api/v1/uploads/blacklist", csv)
}

// UploadFeatured replaces the featured-card list with the given CSV.
func (c *Client) UploadFeatured(ctx context.Context, csv []byte) (*UploadResult, error) {
	return c.upload(ctx, "/api/v1/uploads/featured", csv)
}

func (c *Client) upload(ctx context.Context, path string, csv []byte) (*UploadResult, error) {
	var res UploadResult
	if err := c.postCSV(ctx, path, csv, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
