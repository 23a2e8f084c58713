package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/pitchpanda/pitchpanda/internal/config"
	"github.com/pitchpanda/pitchpanda/internal/cost"
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

// forTask matches requests whose prompt opens with the given task header.
func forTask(task string) any {
	return mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return len(req.Messages) == 1 && strings.HasPrefix(req.Messages[0].Content, task)
	})
}

func reply(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content:    []anthropic.ContentBlock{{Type: "text", Text: text}},
		StopReason: "end_turn",
		Usage:      anthropic.TokenUsage{InputTokens: 100, OutputTokens: 20},
	}
}

// fakeRasterizer writes n placeholder slides into outDir.
type fakeRasterizer struct {
	n      int
	err    error
	outDir string
}

func (f *fakeRasterizer) Rasterize(_ context.Context, pdfPath, outDir string) ([]string, error) {
	f.outDir = outDir
	if f.err != nil {
		return nil, f.err
	}
	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	var out []string
	for i := 1; i <= f.n; i++ {
		p := filepath.Join(outDir, fmt.Sprintf("%s_slide_%03d.png", stem, i))
		if err := os.WriteFile(p, []byte("png"), 0o644); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func testDeps(client anthropic.Client) Deps {
	return Deps{
		Client: client,
		Calc:   cost.NewCalculator(cost.DefaultRates()),
		AI: config.AnthropicConfig{
			WebModel:  "claude-haiku-4-5-20251001",
			DeckModel: "claude-sonnet-4-5-20250929",
			MaxTokens: 4096,
		},
		Pipeline: config.PipelineConfig{Competitors: true, MarketSize: true},
	}
}
