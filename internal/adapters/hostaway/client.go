// internal/adapters/hostaway/client.go
package hostaway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"flex_reviews/internal/adapters/observability"
	"flex_reviews/internal/domain"
)

const DefaultBaseURL = "https://api.hostaway.com/v1"

type Client struct {
	base      string
	accountID string
	key       string
	hc        *http.Client
	rl        *rate.Limiter
}

func New(base, accountID, key string, rps int, timeout time.Duration) (*Client, error) {
	if accountID == "" || key == "" {
		return nil, fmt.Errorf("hostaway account id and API key are required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		base:      strings.TrimRight(base, "/"),
		accountID: accountID,
		key:       key,
		hc:        &http.Client{Timeout: timeout},
		rl:        rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// FetchReviews exchanges the account credentials for a bearer token, then lists reviews.
// A single attempt is made for each step; callers decide what to do on failure.
func (c *Client) FetchReviews(ctx context.Context) ([]map[string]any, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("hostaway auth: %w", err)
	}

	u := c.base + "/reviews?" + url.Values{"accountId": {c.accountID}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	// result is decoded as raw JSON first so "absent" and "empty" stay distinguishable
	var out struct {
		Status string          `json:"status"`
		Result json.RawMessage `json:"result"`
	}
	if err := c.do(req, "reviews", &out); err != nil {
		return nil, fmt.Errorf("hostaway reviews: %w", err)
	}
	if len(out.Result) == 0 || string(out.Result) == "null" {
		return nil, fmt.Errorf("hostaway reviews: %w: missing result", domain.ErrInvalidResponse)
	}
	var result []map[string]any
	if err := json.Unmarshal(out.Result, &result); err != nil {
		return nil, fmt.Errorf("hostaway reviews: %w: %v", domain.ErrInvalidResponse, err)
	}
	return result, nil
}

func (c *Client) token(ctx context.Context) (string, error) {
	body, err := json.Marshal(tokenRequest{
		GrantType:    "client_credentials",
		ClientID:     c.accountID,
		ClientSecret: c.key,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/auth/token", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var tr tokenResponse
	if err := c.do(req, "auth_token", &tr); err != nil {
		return "", err
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token", domain.ErrInvalidResponse)
	}
	return tr.AccessToken, nil
}

// do performs one rate-limited request and decodes a 2xx JSON body into out.
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	if err := c.rl.Wait(req.Context()); err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "flex-reviews/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("hostaway", endpoint, 0, time.Since(start))
		return err
	}
	defer resp.Body.Close()
	observability.ObserveExternal("hostaway", endpoint, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w (%d)", domain.ErrUnauthorized, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	return nil
}
