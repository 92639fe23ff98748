// Package krx talks to the KRX data portal (data.krx.co.kr).
// ⭐ SSOT: 거래소 종목/시세 데이터 호출은 이 패키지에서만
package krx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/dykim-quant/valo/pkg/logger"
)

const dataURL = "http://data.krx.co.kr/comm/bldAttendant/getJsonData.cmd"

// Client handles communication with the KRX data portal.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a KRX client. rps bounds requests per second; the
// portal throttles aggressive callers, so keep it low.
func NewClient(log *logger.Logger, rps float64) *Client {
	if rps <= 0 {
		rps = 2
	}
	return &Client{
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     log,
		baseURL:    dataURL,
	}
}

// postForm issues a form POST with browser-like headers. KRX rejects
// requests that do not look like they came from its own pages.
func (c *Client) postForm(ctx context.Context, form url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Origin", "http://data.krx.co.kr")
	req.Header.Set("Referer", "http://data.krx.co.kr/contents/MDC/MDI/mdiLoader/index.cmd?menuId=MDC0201020101")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("KRX request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("KRX returned status %d: %s", resp.StatusCode, preview(body, 200))
	}
	return body, nil
}

func (c *Client) decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		c.logger.WithField("response_preview", preview(body, 500)).Error("Failed to parse KRX response")
		return fmt.Errorf("decode KRX response: %w", err)
	}
	return nil
}

// parseNumber parses KRX comma-grouped numbers. "-" means no data.
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0
	}
	n, _ := strconv.ParseFloat(s, 64)
	return n
}

func preview(body []byte, n int) string {
	if len(body) > n {
		body = body[:n]
	}
	return string(body)
}
