// Package naver talks to Naver Finance for daily prices and the
// industry (업종) tables used to build the sector lookup.
// ⭐ SSOT: Naver Finance 호출은 이 패키지에서만
package naver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/dykim-quant/valo/pkg/httputil"
	"github.com/dykim-quant/valo/pkg/logger"
)

// Client handles communication with Naver Finance.
type Client struct {
	httpClient *httputil.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
	baseURL    string
	chartURL   string
}

// NewClient creates a Naver Finance client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, rps float64) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     log,
		baseURL:    "https://finance.naver.com",
		chartURL:   "https://fchart.stock.naver.com",
	}
}

// DailyPrice is one day of OHLCV for a symbol.
type DailyPrice struct {
	Symbol    string
	TradeDate time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// fetchBody fetches a URL through the shared retrying client.
func (c *Client) fetchBody(ctx context.Context, fullURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

func (c *Client) pageURL(path string, params url.Values) string {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}
	return fullURL
}
