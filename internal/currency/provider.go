package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultRatesURL = "https://open.er-api.com/v6/latest/USD"

// Provider fetches the current USD exchange rate for a target currency.
type Provider interface {
	Rate(ctx context.Context, target string) (float64, error)
}

// HTTPProvider fetches rates from an open exchange-rate API that
// returns a USD-based rates table.
type HTTPProvider struct {
	url        string
	httpClient *http.Client
}

// HTTPProviderOption configures an HTTPProvider.
type HTTPProviderOption func(*HTTPProvider)

// WithRatesURL overrides the rates endpoint. Used in tests.
func WithRatesURL(url string) HTTPProviderOption {
	return func(p *HTTPProvider) {
		p.url = url
	}
}

// WithProviderHTTPClient overrides the HTTP client.
func WithProviderHTTPClient(c *http.Client) HTTPProviderOption {
	return func(p *HTTPProvider) {
		p.httpClient = c
	}
}

// NewHTTPProvider creates a rate provider against the public endpoint.
func NewHTTPProvider(opts ...HTTPProviderOption) *HTTPProvider {
	p := &HTTPProvider{
		url:        defaultRatesURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type ratesResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// Rate fetches the USD rate for the target currency code.
func (p *HTTPProvider) Rate(ctx context.Context, target string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return 0, fmt.Errorf("building rates request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rates API returned status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decoding rates response: %w", err)
	}
	if body.Result != "" && body.Result != "success" {
		return 0, fmt.Errorf("rates API result %q", body.Result)
	}

	rate, ok := body.Rates[target]
	if !ok {
		return 0, fmt.Errorf("rates API has no rate for %s", target)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("rates API returned non-positive rate %v for %s", rate, target)
	}

	return rate, nil
}
