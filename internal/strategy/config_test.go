package strategy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParse_PartialOverride(t *testing.T) {
	cfg, err := Parse([]byte(`
sell:
  take_profit_pct: 10
  stop_loss_pct: -5
`))
	require.NoError(t, err)

	assert.Equal(t, 10.0, cfg.Sell.TakeProfitPct)
	assert.Equal(t, -5.0, cfg.Sell.StopLossPct)
	// Untouched sections keep the default preset.
	assert.Equal(t, 25, cfg.Sampler.MinSectorSize)
	assert.Equal(t, 20, cfg.Sampler.SampleSize)
	assert.Equal(t, 0.75, cfg.Capital.CashRatio)
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	_, err := Parse([]byte(`
buy:
  lower_pctile: 80
`))
	assert.Error(t, err)
}

func TestParse_InvalidBand(t *testing.T) {
	_, err := Parse([]byte(`
buy:
  lower_percentile: 95
  upper_percentile: 85
`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample size", func(c *Config) { c.Sampler.SampleSize = 0 }},
		{"negative min sector", func(c *Config) { c.Sampler.MinSectorSize = -1 }},
		{"all-zero weights", func(c *Config) { c.Score.PBRWeight, c.Score.PERWeight = 0, 0 }},
		{"negative ratio floor", func(c *Config) { c.Score.RatioFloor = -0.1 }},
		{"percentile over 100", func(c *Config) { c.Buy.UpperPercentile = 101 }},
		{"negative max candidates", func(c *Config) { c.Buy.MaxCandidates = -1 }},
		{"take profit not positive", func(c *Config) { c.Sell.TakeProfitPct = 0 }},
		{"stop loss not negative", func(c *Config) { c.Sell.StopLossPct = 1 }},
		{"cash ratio over 1", func(c *Config) { c.Capital.CashRatio = 1.5 }},
		{"cash ratio zero", func(c *Config) { c.Capital.CashRatio = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strategy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: aggressive
capital:
  cash_ratio: 0.9
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "aggressive", cfg.Name)
	assert.Equal(t, 0.9, cfg.Capital.CashRatio)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestHash_Stable(t *testing.T) {
	a := Default()
	b := Default()
	assert.Equal(t, a.Hash(), b.Hash())

	b.Sell.TakeProfitPct = 9
	assert.NotEqual(t, a.Hash(), b.Hash())
}

func TestComponentConfigConversions(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 25, cfg.SamplerConfig().MinSectorSize)
	assert.Equal(t, 20, cfg.SamplerConfig().SampleSize)
	assert.Equal(t, 1.0, cfg.ScoreConfig().PBRWeight)
	assert.Equal(t, 0.3, cfg.ScoreConfig().PERWeight)
	assert.Equal(t, 85.0, cfg.BuyConfig().LowerPercentile)
	assert.Equal(t, 95.0, cfg.BuyConfig().UpperPercentile)
	assert.Equal(t, 8.0, cfg.SellConfig().UpperLimitPct)
	assert.Equal(t, -3.0, cfg.SellConfig().LowerLimitPct)
}
