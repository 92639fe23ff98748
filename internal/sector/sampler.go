package sector

import (
	"math/rand"
	"sort"
	"time"

	"github.com/dykim-quant/valo/pkg/logger"
)

// SamplerConfig holds stratified sampling parameters.
type SamplerConfig struct {
	// MinSectorSize drops sectors whose member count is <= this value.
	// A sector must be strictly larger to be eligible.
	MinSectorSize int
	// SampleSize is the number of symbols drawn per surviving sector.
	SampleSize int
}

// DefaultSamplerConfig returns the component defaults.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		MinSectorSize: 30,
		SampleSize:    15,
	}
}

// Sampler draws a diversified random sample of symbols stratified by sector.
type Sampler struct {
	lookup *Lookup
	config SamplerConfig
	rng    *rand.Rand
	logger *logger.Logger
}

// NewSampler creates a sampler with a time-seeded random source.
func NewSampler(lookup *Lookup, config SamplerConfig, log *logger.Logger) *Sampler {
	return NewSamplerWithRand(lookup, config, rand.New(rand.NewSource(time.Now().UnixNano())), log)
}

// NewSamplerWithRand creates a sampler with an explicit random source,
// so sampling is reproducible in tests.
func NewSamplerWithRand(lookup *Lookup, config SamplerConfig, rng *rand.Rand, log *logger.Logger) *Sampler {
	return &Sampler{
		lookup: lookup,
		config: config,
		rng:    rng,
		logger: log,
	}
}

// Sample groups symbols by sector, drops sectors with MinSectorSize or fewer
// members, and draws SampleSize symbols uniformly without replacement from
// each surviving sector. A surviving sector with fewer members than
// SampleSize contributes all of its members (clamped, not an error).
// Symbols without a sector mapping are skipped.
// The result maps sector code → sampled symbols.
func (s *Sampler) Sample(symbols []string) map[string][]string {
	bySector := make(map[string][]string)
	unmapped := 0
	for _, symbol := range symbols {
		code, ok := s.lookup.Sector(symbol)
		if !ok {
			unmapped++
			continue
		}
		bySector[code] = append(bySector[code], symbol)
	}

	sampled := make(map[string][]string)
	dropped := 0
	for code, members := range bySector {
		if len(members) <= s.config.MinSectorSize {
			dropped++
			continue
		}
		sampled[code] = s.drawFrom(members, s.config.SampleSize)
	}

	s.logger.WithFields(map[string]interface{}{
		"input_symbols":   len(symbols),
		"unmapped":        unmapped,
		"sectors":         len(bySector),
		"sectors_dropped": dropped,
		"sectors_sampled": len(sampled),
	}).Info("Sector sampling completed")

	return sampled
}

// drawFrom draws n members uniformly without replacement.
// Members are sorted first so the draw depends only on the random source,
// not on map iteration order.
func (s *Sampler) drawFrom(members []string, n int) []string {
	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)

	if n >= len(sorted) {
		return sorted
	}

	picked := make([]string, 0, n)
	for _, idx := range s.rng.Perm(len(sorted))[:n] {
		picked = append(picked, sorted[idx])
	}
	sort.Strings(picked)
	return picked
}
