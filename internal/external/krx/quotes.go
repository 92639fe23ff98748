package krx

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DailyQuote is one issue's end-of-day quote from KRX.
type DailyQuote struct {
	Symbol    string
	Name      string
	Close     float64
	MarketCap float64
	Shares    int64
	TradeDate time.Time
}

type dailyQuoteResponse struct {
	OutBlock1 []dailyQuoteRow `json:"OutBlock_1"`
}

type dailyQuoteRow struct {
	ISU_SRT_CD string `json:"ISU_SRT_CD"` // 종목코드
	ISU_ABBRV  string `json:"ISU_ABBRV"`  // 종목명
	TDD_CLSPRC string `json:"TDD_CLSPRC"` // 종가
	MKTCAP     string `json:"MKTCAP"`     // 시가총액
	LIST_SHRS  string `json:"LIST_SHRS"`  // 상장주식수
}

// FetchDailyQuotes fetches close, market cap and shares outstanding for
// every issue on one market for a trade date.
func (c *Client) FetchDailyQuotes(ctx context.Context, market string, date time.Time) ([]DailyQuote, error) {
	var mktID string
	switch strings.ToUpper(market) {
	case "KOSPI":
		mktID = "STK"
	case "KOSDAQ":
		mktID = "KSQ"
	default:
		return nil, fmt.Errorf("unsupported market: %s", market)
	}

	trdDd := date.Format("20060102")
	form := url.Values{
		"bld":         {"dbms/MDC/STAT/standard/MDCSTAT01501"},
		"locale":      {"ko_KR"},
		"mktId":       {mktID},
		"trdDd":       {trdDd},
		"share":       {"1"},
		"money":       {"1"},
		"csvxls_isNo": {"false"},
	}

	c.logger.WithFields(map[string]interface{}{
		"market":     market,
		"trade_date": trdDd,
	}).Info("Fetching daily quotes from KRX")

	body, err := c.postForm(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("fetch daily quotes: %w", err)
	}

	var apiResp dailyQuoteResponse
	if err := c.decode(body, &apiResp); err != nil {
		return nil, err
	}
	if len(apiResp.OutBlock1) == 0 {
		c.logger.Warn("KRX returned empty quote data")
		return nil, nil
	}

	quotes := make([]DailyQuote, 0, len(apiResp.OutBlock1))
	for _, row := range apiResp.OutBlock1 {
		if row.ISU_SRT_CD == "" {
			continue
		}
		quotes = append(quotes, DailyQuote{
			Symbol:    row.ISU_SRT_CD,
			Name:      row.ISU_ABBRV,
			Close:     parseNumber(row.TDD_CLSPRC),
			MarketCap: parseNumber(row.MKTCAP),
			Shares:    int64(parseNumber(row.LIST_SHRS)),
			TradeDate: date,
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"market": market,
		"count":  len(quotes),
	}).Info("Fetched daily quotes from KRX")
	return quotes, nil
}

// FetchAllDailyQuotes fetches KOSPI and KOSDAQ quotes in one pass.
func (c *Client) FetchAllDailyQuotes(ctx context.Context, date time.Time) ([]DailyQuote, error) {
	kospi, err := c.FetchDailyQuotes(ctx, "KOSPI", date)
	if err != nil {
		return nil, fmt.Errorf("fetch KOSPI quotes: %w", err)
	}
	kosdaq, err := c.FetchDailyQuotes(ctx, "KOSDAQ", date)
	if err != nil {
		return nil, fmt.Errorf("fetch KOSDAQ quotes: %w", err)
	}
	return append(kospi, kosdaq...), nil
}
