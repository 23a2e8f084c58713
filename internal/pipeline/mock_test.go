package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/pitchpanda/pitchpanda/internal/config"
	"github.com/pitchpanda/pitchpanda/internal/fetcher"
	"github.com/pitchpanda/pitchpanda/internal/model"
	"github.com/pitchpanda/pitchpanda/pkg/anthropic"
)

// --- Fetcher Mock ---

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) Fetch(ctx context.Context, rawURL string) model.Snapshot {
	args := m.Called(ctx, rawURL)
	return args.Get(0).(model.Snapshot)
}

// unreachable fetches nothing and reports every URL as unresolvable.
type unreachable struct{}

func (unreachable) Fetch(_ context.Context, rawURL string) model.Snapshot {
	url := fetcher.NormalizeURL(rawURL)
	host := strings.TrimPrefix(url, "https://")
	return fetcher.Degraded(url, fmt.Errorf("dial tcp: lookup %s: no such host", host))
}

// --- Anthropic wrappers ---

// failingTask delegates to the offline stub except for prompts that open
// with task, which fail.
type failingTask struct {
	task  string
	stub  StubAnthropicClient
	mu    sync.Mutex
	tasks []string
}

func (f *failingTask) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	header, _, _ := strings.Cut(req.Messages[0].Content, "\n")
	f.mu.Lock()
	f.tasks = append(f.tasks, header)
	f.mu.Unlock()
	if header == f.task {
		return nil, fmt.Errorf("anthropic: overloaded")
	}
	return f.stub.CreateMessage(ctx, req)
}

func (f *failingTask) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tasks...)
}

// --- Rasterizer fake ---

type fakeRasterizer struct {
	n int
}

func (f *fakeRasterizer) Rasterize(_ context.Context, pdfPath, outDir string) ([]string, error) {
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

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Input:  config.InputConfig{DecksDir: filepath.Join(t.TempDir(), "decks")},
		Output: config.OutputConfig{Dir: t.TempDir()},
		Anthropic: config.AnthropicConfig{
			WebModel:        "claude-haiku-4-5-20251001",
			DeckModel:       "claude-sonnet-4-5-20250929",
			MergeModel:      "claude-sonnet-4-5-20250929",
			EvaluationModel: "claude-sonnet-4-5-20250929",
			MaxTokens:       4096,
		},
		Deck:     config.DeckConfig{DPI: 150},
		Pipeline: config.PipelineConfig{Concurrency: 1, MarketSize: true, Competitors: true},
		Store:    config.StoreConfig{Driver: "none"},
	}
}

// writeDeck drops an empty PDF named file into the configured decks dir.
func writeDeck(t *testing.T, cfg *config.Config, file string) string {
	t.Helper()
	if err := os.MkdirAll(cfg.Input.DecksDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(cfg.Input.DecksDir, file)
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
