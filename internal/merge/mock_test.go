package merge

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pitchpanda/pitchpanda/internal/cost"
	"github.com/pitchpanda/pitchpanda/internal/llm"
	"github.com/pitchpanda/pitchpanda/pkg/anthropic"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

func reply(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content:    []anthropic.ContentBlock{{Type: "text", Text: text}},
		StopReason: "end_turn",
		Usage:      anthropic.TokenUsage{InputTokens: 1000, OutputTokens: 200},
	}
}

func testDeps(client anthropic.Client) llm.Deps {
	return llm.Deps{
		Client:    client,
		Calc:      cost.NewCalculator(cost.DefaultRates()),
		Model:     "claude-sonnet-4-5-20250929",
		MaxTokens: 4096,
	}
}
