package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dykim-quant/valo/internal/contracts"
	"github.com/dykim-quant/valo/internal/pipeline"
	"github.com/dykim-quant/valo/pkg/logger"
)

type stubRunner struct {
	lastDate time.Time
	result   *pipeline.RunResult
	err      error
}

func (s *stubRunner) Run(ctx context.Context, date time.Time) (*pipeline.RunResult, error) {
	s.lastDate = date
	return s.result, s.err
}

type stubOrders struct {
	date time.Time
	book contracts.OrderBook
	err  error
}

func (s *stubOrders) LatestBook(ctx context.Context) (time.Time, contracts.OrderBook, error) {
	return s.date, s.book, s.err
}

type stubPortfolio struct {
	status contracts.PortfolioStatus
}

func (s *stubPortfolio) Snapshot(ctx context.Context, date time.Time) (contracts.PortfolioStatus, error) {
	return s.status, nil
}

func TestRunPipeline(t *testing.T) {
	runner := &stubRunner{result: &pipeline.RunResult{
		Book:     contracts.OrderBook{"005930": 100},
		BuyCount: 1,
	}}
	h := NewTradeHandler(runner, nil, nil, logger.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trade/run?date=2026-01-05", nil)
	rec := httptest.NewRecorder()
	h.RunPipeline(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026-01-05", runner.lastDate.Format("2006-01-02"))

	var result pipeline.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 100, result.Book["005930"])
}

func TestRunPipeline_BadDate(t *testing.T) {
	h := NewTradeHandler(&stubRunner{}, nil, nil, logger.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trade/run?date=jan-5", nil)
	rec := httptest.NewRecorder()
	h.RunPipeline(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunPipeline_Failure(t *testing.T) {
	h := NewTradeHandler(&stubRunner{err: fmt.Errorf("symbol master is empty")}, nil, nil, logger.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/trade/run", nil)
	rec := httptest.NewRecorder()
	h.RunPipeline(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "symbol master")
}

func TestLatestOrders(t *testing.T) {
	orders := &stubOrders{
		date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		book: contracts.OrderBook{"035720": -3, "005930": 100},
	}
	h := NewTradeHandler(nil, orders, nil, logger.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/latest", nil)
	rec := httptest.NewRecorder()
	h.LatestOrders(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp orderBookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2026-01-05", resp.Date)
	require.Len(t, resp.Orders, 2)
	// Sorted by symbol for stable output.
	assert.Equal(t, "005930", resp.Orders[0].Symbol)
	assert.Equal(t, -3, resp.Orders[1].Qty)
}

func TestLatestOrders_Empty(t *testing.T) {
	h := NewTradeHandler(nil, &stubOrders{err: fmt.Errorf("no stored order books")}, nil, logger.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/latest", nil)
	rec := httptest.NewRecorder()
	h.LatestOrders(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetPortfolio(t *testing.T) {
	h := NewTradeHandler(nil, nil, &stubPortfolio{status: contracts.PortfolioStatus{
		Cash:      500_000,
		CashKnown: true,
		Positions: []contracts.Position{{Symbol: "005930", Qty: 10, TradePrice: 70000, CurrentPrice: 73500}},
	}}, logger.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/portfolio", nil)
	rec := httptest.NewRecorder()
	h.GetPortfolio(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var status contracts.PortfolioStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.CashKnown)
	require.Len(t, status.Positions, 1)
	assert.Equal(t, 10, status.Positions[0].Qty)
}
