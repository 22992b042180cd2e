package tcg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cardstock/pricing-engine/internal/metrics"
)

const (
	defaultBaseURL  = "https://mp-search-api.tcgplayer.com/v1"
	defaultPageSize = 24
)

// MarketplaceClient implements Client against the marketplace HTTP API.
type MarketplaceClient struct {
	tokens      TokenProvider
	baseURL     string
	client      *http.Client
	rateLimiter *RateLimiter
}

// MarketplaceOption configures the MarketplaceClient.
type MarketplaceOption func(*MarketplaceClient)

// WithBaseURL overrides the default API endpoint.
func WithBaseURL(u string) MarketplaceOption {
	return func(c *MarketplaceClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) MarketplaceOption {
	return func(c *MarketplaceClient) {
		c.client = hc
	}
}

// WithRateLimiter injects a rate limiter controlling per-second and
// daily call limits. When set, every API call goes through Wait() first.
func WithRateLimiter(r *RateLimiter) MarketplaceOption {
	return func(c *MarketplaceClient) {
		c.rateLimiter = r
	}
}

// NewMarketplaceClient creates a marketplace API client.
func NewMarketplaceClient(tokens TokenProvider, opts ...MarketplaceOption) *MarketplaceClient {
	c := &MarketplaceClient{
		tokens:  tokens,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchAPIResponse struct {
	Results []ProductRecord `json:"results"`
	Total   int             `json:"totalResults"`
	Offset  int             `json:"offset"`
	Size    int             `json:"size"`
}

// Search queries the marketplace search endpoint for one page of
// product records.
func (c *MarketplaceClient) Search(
	ctx context.Context,
	req SearchRequest,
) (*SearchResponse, error) {
	u := c.buildSearchURL(req)

	body, err := c.call(ctx, u)
	if err != nil {
		return nil, err
	}

	var apiResp searchAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	return &SearchResponse{
		Products: apiResp.Results,
		Total:    apiResp.Total,
		Offset:   apiResp.Offset,
		PageSize: apiResp.Size,
	}, nil
}

// GetProduct fetches one product's detail record including its full
// listings array.
func (c *MarketplaceClient) GetProduct(
	ctx context.Context,
	productID int,
) (*ProductRecord, error) {
	u := c.baseURL + "/product/" + strconv.Itoa(productID)

	body, err := c.call(ctx, u)
	if err != nil {
		return nil, err
	}

	var rec ProductRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("parsing product response: %w", err)
	}

	if rec.ProductID == 0 {
		return nil, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}

	return &rec, nil
}

func (c *MarketplaceClient) call(ctx context.Context, u string) ([]byte, error) {
	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			if errors.Is(err, ErrDailyLimitReached) {
				metrics.MarketDailyLimitHits.Inc()
			}
			return nil, fmt.Errorf("rate limit: %w", err)
		}
		metrics.MarketAPICallsTotal.Inc()
		metrics.MarketDailyUsage.Set(float64(c.rateLimiter.DailyCount()))
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth token: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing marketplace request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(
			"marketplace API error (status %d): %s",
			resp.StatusCode,
			string(body),
		)
	}

	return body, nil
}

func (c *MarketplaceClient) buildSearchURL(req SearchRequest) string {
	params := url.Values{}
	params.Set("q", req.Query)

	if req.SetID != "" {
		params.Set("setId", req.SetID)
	}

	size := req.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	params.Set("size", strconv.Itoa(size))

	if req.Offset > 0 {
		params.Set("offset", strconv.Itoa(req.Offset))
	}

	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}

	return c.baseURL + "/search?" + params.Encode()
}
