// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/dykim-quant/valo/internal/pipeline"
	"github.com/dykim-quant/valo/pkg/logger"
)

// TradeJob runs the daily order pipeline after the market close.
type TradeJob struct {
	pipeline *pipeline.Pipeline
	schedule string
	logger   *logger.Logger
}

// NewTradeJob creates the daily trade job. An empty schedule falls back
// to 16:30 KST on weekdays, after the KRX end-of-day batch settles.
func NewTradeJob(p *pipeline.Pipeline, schedule string, log *logger.Logger) *TradeJob {
	if schedule == "" {
		schedule = "0 30 16 * * MON-FRI"
	}
	return &TradeJob{pipeline: p, schedule: schedule, logger: log}
}

func (j *TradeJob) Name() string { return "daily_trade" }

func (j *TradeJob) Schedule() string { return j.schedule }

// Run executes one daily pipeline run for today.
func (j *TradeJob) Run(ctx context.Context) error {
	result, err := j.pipeline.Run(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("daily run: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"orders": len(result.Book),
		"buys":   result.BuyCount,
		"sells":  result.SellCount,
	}).Info("Scheduled trade run finished")
	return nil
}
