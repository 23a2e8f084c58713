// Package llm issues single-turn completions and prices their token usage.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchpanda/pitchpanda/internal/cost"
	"github.com/pitchpanda/pitchpanda/internal/model"
	"github.com/pitchpanda/pitchpanda/pkg/anthropic"
)

// DefaultMaxTokens caps replies when a Call leaves MaxTokens unset.
const DefaultMaxTokens = 8192

// Deps is what a single-call stage needs to reach the model.
type Deps struct {
	Client    anthropic.Client
	Calc      *cost.Calculator
	Model     string
	MaxTokens int64
}

// Call describes one completion request. System is sent as one cached
// block, so per-company text belongs in Prompt.
type Call struct {
	Stage       string
	Model       string
	MaxTokens   int64
	Temperature *float64
	System      string
	Prompt      string
	Images      []anthropic.Image
}

// Completion is the text of a reply with its priced usage.
type Completion struct {
	Text       string
	StopReason string
	Usage      model.TokenUsage
}

// Truncated reports whether the reply stopped at the token limit.
func (c *Completion) Truncated() bool {
	return c != nil && c.StopReason == "max_tokens"
}

// Temperature returns a pointer to t for use in a Call.
func Temperature(t float64) *float64 {
	return &t
}

// Complete sends call as a single user message. Calls are not retried.
// calc may be nil, in which case usage is left unpriced.
func Complete(ctx context.Context, client anthropic.Client, calc *cost.Calculator, call Call) (*Completion, error) {
	if client == nil {
		return nil, eris.Errorf("llm: %s: no client configured", call.Stage)
	}
	if strings.TrimSpace(call.Prompt) == "" {
		return nil, eris.Errorf("llm: %s: empty prompt", call.Stage)
	}
	maxTokens := call.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	req := anthropic.MessageRequest{
		Model:       call.Model,
		MaxTokens:   maxTokens,
		Temperature: call.Temperature,
		Messages: []anthropic.Message{
			{Role: "user", Content: call.Prompt, Images: call.Images},
		},
	}
	if call.System != "" {
		req.System = anthropic.BuildCachedSystemBlocks(call.System)
	}

	start := time.Now()
	resp, err := client.CreateMessage(ctx, req)
	if err != nil {
		return nil, eris.Wrapf(err, "llm: %s completion", call.Stage)
	}

	usage := model.TokenUsage{
		InputTokens:         int(resp.Usage.InputTokens),
		OutputTokens:        int(resp.Usage.OutputTokens),
		CacheCreationTokens: int(resp.Usage.CacheCreationInputTokens),
		CacheReadTokens:     int(resp.Usage.CacheReadInputTokens),
	}
	if calc != nil {
		usage = calc.Price(call.Model, usage)
	}

	zap.L().Info("llm: completion",
		zap.String("stage", call.Stage),
		zap.String("model", call.Model),
		zap.Int("images", len(call.Images)),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
		zap.Float64("estimated_cost_usd", usage.Cost),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	out := &Completion{Text: resp.Text(), StopReason: resp.StopReason, Usage: usage}
	if out.Truncated() {
		zap.L().Warn("llm: reply hit max tokens", zap.String("stage", call.Stage), zap.Int64("max_tokens", maxTokens))
	}
	return out, nil
}
