// Package handlers implements the API endpoint handlers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/dykim-quant/valo/internal/contracts"
	"github.com/dykim-quant/valo/internal/pipeline"
	"github.com/dykim-quant/valo/pkg/logger"
)

// Runner triggers a pipeline run.
type Runner interface {
	Run(ctx context.Context, date time.Time) (*pipeline.RunResult, error)
}

// OrderSource serves the latest stored order book.
type OrderSource interface {
	LatestBook(ctx context.Context) (time.Time, contracts.OrderBook, error)
}

// PortfolioSource serves the current portfolio snapshot.
type PortfolioSource interface {
	Snapshot(ctx context.Context, date time.Time) (contracts.PortfolioStatus, error)
}

// TradeHandler handles the trade endpoints.
// ⭐ SSOT: 트레이드 API 핸들러는 여기서만
type TradeHandler struct {
	runner    Runner
	orders    OrderSource
	portfolio PortfolioSource
	logger    *logger.Logger
}

// NewTradeHandler creates a trade handler.
func NewTradeHandler(runner Runner, orders OrderSource, portfolio PortfolioSource, log *logger.Logger) *TradeHandler {
	return &TradeHandler{runner: runner, orders: orders, portfolio: portfolio, logger: log}
}

// RunPipeline executes a pipeline run synchronously. An optional
// ?date=YYYY-MM-DD runs for a past trade date; default is today.
func (h *TradeHandler) RunPipeline(w http.ResponseWriter, r *http.Request) {
	date := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
		date = parsed
	}

	result, err := h.runner.Run(r.Context(), date)
	if err != nil {
		h.logger.WithError(err).Error("Pipeline run failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// orderBookResponse is the wire shape for a stored order book.
type orderBookResponse struct {
	Date   string            `json:"date"`
	Orders []contracts.Order `json:"orders"`
}

// LatestOrders returns the most recent order book.
func (h *TradeHandler) LatestOrders(w http.ResponseWriter, r *http.Request) {
	date, book, err := h.orders.LatestBook(r.Context())
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	orders := book.Orders()
	sort.Slice(orders, func(i, j int) bool { return orders[i].Symbol < orders[j].Symbol })

	writeJSON(w, http.StatusOK, orderBookResponse{
		Date:   date.Format("2006-01-02"),
		Orders: orders,
	})
}

// GetPortfolio returns the current portfolio snapshot.
func (h *TradeHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	status, err := h.portfolio.Snapshot(r.Context(), time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Portfolio snapshot failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
