// Package fx fetches the display-only AFN-per-USD conversion rate from
// an external rate source. The rate never participates in settlement.
package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/config"
)

type Client struct {
	rateURL    string
	refresh    time.Duration
	httpClient *http.Client
	logger     *zap.Logger

	mu        sync.Mutex
	cached    decimal.Decimal
	fetchedAt time.Time
}

// NewClient creates a new rate client
func NewClient(cfg config.FXConfig, logger *zap.Logger) *Client {
	refresh := time.Duration(cfg.RefreshMinutes) * time.Minute
	if refresh <= 0 {
		refresh = time.Hour
	}
	return &Client{
		rateURL: cfg.RateURL,
		refresh: refresh,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

type rateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

// Rate returns the settlement-currency-per-USD rate, serving a cached
// value within the refresh window
func (c *Client) Rate(ctx context.Context) (decimal.Decimal, error) {
	if c.rateURL == "" {
		return decimal.Decimal{}, fmt.Errorf("rate source not configured")
	}

	c.mu.Lock()
	if !c.fetchedAt.IsZero() && time.Since(c.fetchedAt) < c.refresh {
		cached := c.cached
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	rate, err := c.fetch(ctx)
	if err != nil {
		// Serve a stale value rather than dropping the USD display
		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.fetchedAt.IsZero() {
			c.logger.Warn("Serving stale conversion rate", zap.Error(err))
			return c.cached, nil
		}
		return decimal.Decimal{}, err
	}

	c.mu.Lock()
	c.cached = rate
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return rate, nil
}

func (c *Client) fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.rateURL, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("rate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to read rate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("rate source returned status %d", resp.StatusCode)
	}

	var parsed rateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse rate response: %w", err)
	}

	if !parsed.Rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("rate source returned non-positive rate %s", parsed.Rate)
	}

	return parsed.Rate, nil
}
