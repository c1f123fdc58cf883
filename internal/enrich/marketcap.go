// Package enrich refreshes market capitalization from a quote API for the
// tickers present in a dataset.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/niveshke/esg-explorer/internal/model"
)

// Option configures the quote client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit against the quote API.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// Client looks up company quotes from a JSON quote API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a quote client for the given API base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(10, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// quoteResponse is the subset of the quote payload we consume.
type quoteResponse struct {
	Symbol    string  `json:"symbol"`
	MarketCap float64 `json:"marketCap"` // raw USD
}

// MarketCap fetches the market capitalization for one ticker, in raw USD.
func (c *Client) MarketCap(ctx context.Context, ticker string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, eris.Wrap(err, "enrich: rate limiter wait")
	}

	u := fmt.Sprintf("%s/quote?symbol=%s", c.baseURL, url.QueryEscape(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, eris.Wrap(err, "enrich: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, eris.Wrapf(err, "enrich: quote %s", ticker)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, eris.Errorf("enrich: quote %s: status %d", ticker, resp.StatusCode)
	}

	var q quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&q); err != nil {
		return 0, eris.Wrapf(err, "enrich: decode quote %s", ticker)
	}
	if q.MarketCap <= 0 {
		return 0, eris.Errorf("enrich: quote %s: no market cap", ticker)
	}
	return q.MarketCap, nil
}

// Dataset returns a copy of ds with market_cap_usd refreshed (in billions,
// rounded to cents of a billion) for every ticker the quote API knows.
// Unknown or failing tickers are skipped, never fatal; the second return is
// the number of distinct tickers updated.
func Dataset(ctx context.Context, c *Client, ds *model.Dataset) (*model.Dataset, int, error) {
	caps := make(map[string]float64)
	for _, ticker := range tickersOf(ds) {
		mc, err := c.MarketCap(ctx, ticker)
		if err != nil {
			if ctx.Err() != nil {
				return nil, 0, eris.Wrap(ctx.Err(), "enrich: cancelled")
			}
			zap.L().Debug("ticker skipped", zap.String("ticker", ticker), zap.Error(err))
			continue
		}
		caps[ticker] = math.Round(mc/1e9*100) / 100
	}

	records := make([]model.Record, ds.Len())
	copy(records, ds.Records())
	for i := range records {
		if mc, ok := caps[records[i].Ticker]; ok {
			records[i].MarketCapUSD = model.Ptr(mc)
		}
	}

	zap.L().Info("market caps enriched",
		zap.Int("tickers_updated", len(caps)),
		zap.Int("rows", len(records)),
	)
	return model.NewDataset(records), len(caps), nil
}

// tickersOf returns the distinct non-empty tickers in order of first
// appearance.
func tickersOf(ds *model.Dataset) []string {
	seen := make(map[string]struct{})
	var tickers []string
	for _, r := range ds.Records() {
		if r.Ticker == "" {
			continue
		}
		if _, ok := seen[r.Ticker]; ok {
			continue
		}
		seen[r.Ticker] = struct{}{}
		tickers = append(tickers, r.Ticker)
	}
	return tickers
}
