package cost

import (
	"github.com/pitchpanda/pitchpanda/internal/config"
	"github.com/pitchpanda/pitchpanda/internal/model"
)

// Default cache multipliers applied to the input rate.
const (
	defaultCacheWriteMul = 1.25
	defaultCacheReadMul  = 0.1
)

// Rates holds per-model pricing configuration.
type Rates struct {
	Anthropic map[string]ModelRate `yaml:"anthropic" mapstructure:"anthropic"`
}

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	CacheWriteMul float64 `yaml:"cache_write_mul" mapstructure:"cache_write_mul"`
	CacheReadMul  float64 `yaml:"cache_read_mul" mapstructure:"cache_read_mul"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Claude computes the cost for a Claude API call. Unknown models cost 0.
func (c *Calculator) Claude(model string, input, output, cacheWrite, cacheRead int) float64 {
	rate, ok := c.rates.Anthropic[model]
	if !ok {
		return 0
	}

	inCost := (float64(input) / 1e6) * rate.Input
	outCost := (float64(output) / 1e6) * rate.Output
	cwCost := (float64(cacheWrite) / 1e6) * rate.Input * rate.CacheWriteMul
	crCost := (float64(cacheRead) / 1e6) * rate.Input * rate.CacheReadMul

	return inCost + outCost + cwCost + crCost
}

// Price sets u.Cost from its token counts and returns it.
func (c *Calculator) Price(model string, u model.TokenUsage) model.TokenUsage {
	u.Cost = c.Claude(model, u.InputTokens, u.OutputTokens, u.CacheCreationTokens, u.CacheReadTokens)
	return u
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"claude-haiku-4-5-20251001": {
				Input: 0.80, Output: 4.00,
				CacheWriteMul: defaultCacheWriteMul, CacheReadMul: defaultCacheReadMul,
			},
			"claude-sonnet-4-5-20250929": {
				Input: 3.00, Output: 15.00,
				CacheWriteMul: defaultCacheWriteMul, CacheReadMul: defaultCacheReadMul,
			},
			"claude-opus-4-6": {
				Input: 15.00, Output: 75.00,
				CacheWriteMul: defaultCacheWriteMul, CacheReadMul: defaultCacheReadMul,
			},
		},
	}
}

// RatesFromConfig overlays configured per-model rates on DefaultRates.
// Missing cache multipliers fall back to the defaults.
func RatesFromConfig(cfg config.PricingConfig) Rates {
	rates := DefaultRates()
	for name, p := range cfg.Anthropic {
		r := ModelRate{
			Input:         p.Input,
			Output:        p.Output,
			CacheWriteMul: p.CacheWriteMul,
			CacheReadMul:  p.CacheReadMul,
		}
		if r.CacheWriteMul == 0 {
			r.CacheWriteMul = defaultCacheWriteMul
		}
		if r.CacheReadMul == 0 {
			r.CacheReadMul = defaultCacheReadMul
		}
		rates.Anthropic[name] = r
	}
	return rates
}
