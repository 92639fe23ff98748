// Package strategy holds the tunable parameters of the daily trading
// strategy, loaded from a YAML file so the pipeline can be re-tuned
// without a rebuild.
package strategy

import (
	"fmt"

	"github.com/dykim-quant/valo/internal/orders"
	"github.com/dykim-quant/valo/internal/scoring"
	"github.com/dykim-quant/valo/internal/sector"
)

// Config is the full strategy parameter set for one pipeline run.
type Config struct {
	Name string `yaml:"name"`

	Sampler SamplerParams `yaml:"sampler"`
	Score   ScoreParams   `yaml:"score"`
	Buy     BuyParams     `yaml:"buy"`
	Sell    SellParams    `yaml:"sell"`
	Capital CapitalParams `yaml:"capital"`
}

// SamplerParams controls sector-stratified sampling.
type SamplerParams struct {
	MinSectorSize int `yaml:"min_sector_size"`
	SampleSize    int `yaml:"sample_size"`
}

// ScoreParams controls ratio scoring and fusion weights.
type ScoreParams struct {
	PBRWeight  float64 `yaml:"pbr_weight"`
	PERWeight  float64 `yaml:"per_weight"`
	RatioFloor float64 `yaml:"ratio_floor"`
}

// BuyParams controls the percentile band and candidate cap.
type BuyParams struct {
	LowerPercentile float64 `yaml:"lower_percentile"`
	UpperPercentile float64 `yaml:"upper_percentile"`
	MaxCandidates   int     `yaml:"max_candidates"`
}

// SellParams are the P/L exit thresholds in percent.
type SellParams struct {
	TakeProfitPct float64 `yaml:"take_profit_pct"`
	StopLossPct   float64 `yaml:"stop_loss_pct"`
}

// CapitalParams controls how much of available cash a run deploys.
type CapitalParams struct {
	CashRatio float64 `yaml:"cash_ratio"`
}

// Default returns the production preset.
func Default() *Config {
	return &Config{
		Name: "default",
		Sampler: SamplerParams{
			MinSectorSize: 25,
			SampleSize:    20,
		},
		Score: ScoreParams{
			PBRWeight: 1.0,
			PERWeight: 0.3,
		},
		Buy: BuyParams{
			LowerPercentile: 85,
			UpperPercentile: 95,
		},
		Sell: SellParams{
			TakeProfitPct: 8,
			StopLossPct:   -3,
		},
		Capital: CapitalParams{
			CashRatio: 0.75,
		},
	}
}

// Validate rejects parameter sets that would make the pipeline
// misbehave silently.
func (c *Config) Validate() error {
	if c.Sampler.MinSectorSize < 0 {
		return fmt.Errorf("sampler.min_sector_size must be >= 0, got %d", c.Sampler.MinSectorSize)
	}
	if c.Sampler.SampleSize <= 0 {
		return fmt.Errorf("sampler.sample_size must be > 0, got %d", c.Sampler.SampleSize)
	}
	if c.Score.PBRWeight < 0 || c.Score.PERWeight < 0 {
		return fmt.Errorf("score weights must be >= 0, got pbr=%v per=%v", c.Score.PBRWeight, c.Score.PERWeight)
	}
	if c.Score.PBRWeight == 0 && c.Score.PERWeight == 0 {
		return fmt.Errorf("at least one score weight must be > 0")
	}
	if c.Score.RatioFloor < 0 {
		return fmt.Errorf("score.ratio_floor must be >= 0, got %v", c.Score.RatioFloor)
	}
	if c.Buy.LowerPercentile < 0 || c.Buy.UpperPercentile > 100 {
		return fmt.Errorf("buy percentiles must lie in [0, 100], got (%v, %v)", c.Buy.LowerPercentile, c.Buy.UpperPercentile)
	}
	if c.Buy.LowerPercentile >= c.Buy.UpperPercentile {
		return fmt.Errorf("buy.lower_percentile must be < buy.upper_percentile, got (%v, %v)", c.Buy.LowerPercentile, c.Buy.UpperPercentile)
	}
	if c.Buy.MaxCandidates < 0 {
		return fmt.Errorf("buy.max_candidates must be >= 0, got %d", c.Buy.MaxCandidates)
	}
	if c.Sell.TakeProfitPct <= 0 {
		return fmt.Errorf("sell.take_profit_pct must be > 0, got %v", c.Sell.TakeProfitPct)
	}
	if c.Sell.StopLossPct >= 0 {
		return fmt.Errorf("sell.stop_loss_pct must be < 0, got %v", c.Sell.StopLossPct)
	}
	if c.Capital.CashRatio <= 0 || c.Capital.CashRatio > 1 {
		return fmt.Errorf("capital.cash_ratio must lie in (0, 1], got %v", c.Capital.CashRatio)
	}
	return nil
}

// SamplerConfig converts to the sampler component config.
func (c *Config) SamplerConfig() sector.SamplerConfig {
	return sector.SamplerConfig{
		MinSectorSize: c.Sampler.MinSectorSize,
		SampleSize:    c.Sampler.SampleSize,
	}
}

// ScoreConfig converts to the scoring component config.
func (c *Config) ScoreConfig() scoring.ScoreConfig {
	return scoring.ScoreConfig{
		PBRWeight:  c.Score.PBRWeight,
		PERWeight:  c.Score.PERWeight,
		RatioFloor: c.Score.RatioFloor,
	}
}

// BuyConfig converts to the buy allocator config.
func (c *Config) BuyConfig() orders.BuyConfig {
	return orders.BuyConfig{
		LowerPercentile: c.Buy.LowerPercentile,
		UpperPercentile: c.Buy.UpperPercentile,
		MaxCandidates:   c.Buy.MaxCandidates,
	}
}

// SellConfig converts to the sell selector config.
func (c *Config) SellConfig() orders.SellConfig {
	return orders.SellConfig{
		UpperLimitPct: c.Sell.TakeProfitPct,
		LowerLimitPct: c.Sell.StopLossPct,
	}
}
