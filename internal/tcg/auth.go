package tcg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultTokenURL = "https://api.tcgplayer.com/token" //nolint:gosec // not a credential
	refreshBuffer   = 60 * time.Second
)

// BearerTokenProvider implements TokenProvider using the marketplace
// client-credentials flow. Tokens are cached and refreshed when expired
// or within 60 seconds of expiry. Thread-safe via mutex.
type BearerTokenProvider struct {
	publicKey  string
	privateKey string
	tokenURL   string
	client     *http.Client

	mu      sync.Mutex
	token   string
	expiry  time.Time
	nowFunc func() time.Time // for testing
}

// AuthOption configures the BearerTokenProvider.
type AuthOption func(*BearerTokenProvider)

// WithTokenURL overrides the default token endpoint.
func WithTokenURL(u string) AuthOption {
	return func(p *BearerTokenProvider) {
		p.tokenURL = u
	}
}

// WithAuthHTTPClient overrides the default HTTP client.
func WithAuthHTTPClient(c *http.Client) AuthOption {
	return func(p *BearerTokenProvider) {
		p.client = c
	}
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) AuthOption {
	return func(p *BearerTokenProvider) {
		p.nowFunc = f
	}
}

// NewBearerTokenProvider creates a marketplace token provider.
func NewBearerTokenProvider(publicKey, privateKey string, opts ...AuthOption) *BearerTokenProvider {
	p := &BearerTokenProvider{
		publicKey:  publicKey,
		privateKey: privateKey,
		tokenURL:   defaultTokenURL,
		client:     &http.Client{Timeout: 10 * time.Second},
		nowFunc:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Token returns a valid bearer token, refreshing if necessary.
func (p *BearerTokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.nowFunc().Before(p.expiry.Add(-refreshBuffer)) {
		return p.token, nil
	}

	return p.refreshLocked(ctx)
}

func (p *BearerTokenProvider) refreshLocked(ctx context.Context) (string, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {p.publicKey},
		"client_secret": {p.privateKey},
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		p.tokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing token request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}

	p.token = tokenResp.AccessToken
	p.expiry = p.nowFunc().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)

	return p.token, nil
}
