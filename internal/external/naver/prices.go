package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FetchDailyPrices fetches daily candles for a symbol from the Naver
// chart API. The response is a quasi-JSON array using single quotes.
func (c *Client) FetchDailyPrices(ctx context.Context, symbol string, from, to time.Time) ([]DailyPrice, error) {
	fullURL := fmt.Sprintf(
		"%s/siseJson.naver?symbol=%s&requestType=1&startTime=%s&endTime=%s&timeframe=day",
		c.chartURL, symbol, from.Format("20060102"), to.Format("20060102"),
	)

	body, err := c.fetchBody(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("fetch daily prices for %s: %w", symbol, err)
	}

	prices, err := parseChartResponse(symbol, string(body))
	if err != nil {
		return nil, fmt.Errorf("parse chart response for %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(prices),
	}).Debug("Fetched daily prices")
	return prices, nil
}

// RecentClose returns the most recent close within the week ending at
// date. A week of lookback covers holidays and weekends.
func (c *Client) RecentClose(ctx context.Context, symbol string, date time.Time) (float64, error) {
	prices, err := c.FetchDailyPrices(ctx, symbol, date.AddDate(0, 0, -7), date)
	if err != nil {
		return 0, err
	}
	if len(prices) == 0 {
		return 0, fmt.Errorf("no recent prices for %s", symbol)
	}

	sort.Slice(prices, func(i, j int) bool {
		return prices[i].TradeDate.Before(prices[j].TradeDate)
	})
	return prices[len(prices)-1].Close, nil
}

func parseChartResponse(symbol, body string) ([]DailyPrice, error) {
	body = strings.TrimSpace(body)
	body = strings.ReplaceAll(body, "'", "\"")

	var rawData [][]interface{}
	if err := json.Unmarshal([]byte(body), &rawData); err != nil {
		return nil, fmt.Errorf("decode chart payload: %w", err)
	}

	var prices []DailyPrice
	for i, row := range rawData {
		if i == 0 || len(row) < 6 {
			continue // header row
		}

		dateStr, ok := row[0].(string)
		if !ok || len(dateStr) != 8 {
			continue
		}
		tradeDate, err := time.Parse("20060102", dateStr)
		if err != nil {
			continue
		}

		prices = append(prices, DailyPrice{
			Symbol:    symbol,
			TradeDate: tradeDate,
			Open:      toFloat(row[1]),
			High:      toFloat(row[2]),
			Low:       toFloat(row[3]),
			Close:     toFloat(row[4]),
			Volume:    int64(toFloat(row[5])),
		})
	}
	return prices, nil
}

func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		n, _ := strconv.ParseFloat(val, 64)
		return n
	default:
		return 0
	}
}
