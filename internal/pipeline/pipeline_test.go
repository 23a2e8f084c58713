package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pitchpanda/pitchpanda/internal/evaluate"
	"github.com/pitchpanda/pitchpanda/internal/extract"
	"github.com/pitchpanda/pitchpanda/internal/merge"
	"github.com/pitchpanda/pitchpanda/internal/model"
	"github.com/pitchpanda/pitchpanda/internal/store"
)

func readReport(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(data)
}

func TestRun_UnreachableHomepageOffline(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, nil, unreachable{}, &StubAnthropicClient{}, nil)

	res := p.Run(context.Background(), model.StartupRecord{Name: "Acme Robotics", URL: "acme-robotics.test"})

	assert.Equal(t, "acme-robotics", res.Slug)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, "acme-robotics"), res.Dir)
	assert.Equal(t, model.PhaseStatusComplete, res.StageStatus(model.StageWeb))
	assert.Equal(t, model.PhaseStatusSkipped, res.StageStatus(model.StageDeck))
	assert.Equal(t, model.PhaseStatusComplete, res.StageStatus(model.StageMerge))
	assert.Equal(t, model.PhaseStatusComplete, res.StageStatus(model.StageEvaluation))
	assert.True(t, res.Succeeded())

	var names []string
	for _, s := range res.Stages {
		names = append(names, s.Name)
	}
	assert.Equal(t, model.Stages, names)

	web := readReport(t, res.Dir, WebReport)
	assert.Contains(t, web, "https://acme-robotics.test")
	assert.Contains(t, web, "no such host")

	_, err := os.Stat(filepath.Join(res.Dir, DeckReport))
	assert.True(t, os.IsNotExist(err))

	assert.Contains(t, readReport(t, res.Dir, MergedReport), "# Acme Robotics")
	assert.Contains(t, readReport(t, res.Dir, EvaluationReport), "**Overall Score: 3.0/5.0**")

	require.NotNil(t, res.OverallScore)
	assert.InDelta(t, 3.0, *res.OverallScore, 0.001)
	// A degraded homepage never reaches the model: merge and evaluation only.
	assert.Equal(t, 2*200, res.TotalTokens)
}

func TestRun_FetchesHomepageOnce(t *testing.T) {
	cfg := testConfig(t)
	mf := &mockFetcher{}
	mf.On("Fetch", mock.Anything, "acme.test").Return(model.Snapshot{
		URL:   "https://acme.test",
		Title: "Acme",
		Text:  "Acme sells widgets.",
	}).Once()
	p := New(cfg, nil, mf, &StubAnthropicClient{}, nil)

	res := p.Run(context.Background(), model.StartupRecord{Name: "Acme", URL: "acme.test"})

	assert.Equal(t, model.PhaseStatusComplete, res.StageStatus(model.StageWeb))
	web := readReport(t, res.Dir, WebReport)
	assert.Contains(t, web, "Stub company summary generated offline.")
	assert.Contains(t, web, "Stub Rival")
	assert.Contains(t, web, "Market Size Estimate")
	mf.AssertExpectations(t)
}

func TestRun_NoURLNoDeckSkipsEverything(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, nil, unreachable{}, &StubAnthropicClient{}, nil)

	res := p.Run(context.Background(), model.StartupRecord{Name: "Ghost Co"})

	for _, stage := range model.Stages {
		assert.Equal(t, model.PhaseStatusSkipped, res.StageStatus(stage), stage)
	}
	assert.False(t, res.Succeeded())
	assert.Nil(t, res.OverallScore)
	assert.Zero(t, res.TotalTokens)
}

func TestRun_DeckOnly(t *testing.T) {
	cfg := testConfig(t)
	writeDeck(t, cfg, "Acme_Robotics_Seed.pdf")
	p := New(cfg, nil, unreachable{}, &StubAnthropicClient{}, &fakeRasterizer{n: 2})

	res := p.Run(context.Background(), model.StartupRecord{Name: "Acme Robotics"})

	assert.Equal(t, model.PhaseStatusSkipped, res.StageStatus(model.StageWeb))
	assert.Equal(t, model.PhaseStatusComplete, res.StageStatus(model.StageDeck))
	assert.Equal(t, model.PhaseStatusComplete, res.StageStatus(model.StageMerge))

	deck := readReport(t, res.Dir, DeckReport)
	assert.Contains(t, deck, "# Pitch Deck Analysis: Stub Deck")
	assert.Contains(t, deck, "**Total Slides:** 2")

	stage, ok := res.Stage(model.StageDeck)
	require.True(t, ok)
	assert.Equal(t, 2, stage.Metadata["slides"])
}

func TestRun_WebFailureDoesNotBlockDeck(t *testing.T) {
	cfg := testConfig(t)
	writeDeck(t, cfg, "acme.pdf")
	mf := &mockFetcher{}
	mf.On("Fetch", mock.Anything, "acme.test").Return(model.Snapshot{URL: "https://acme.test", Text: "Acme sells widgets."})
	client := &failingTask{task: extract.TaskWebProfile}
	p := New(cfg, nil, mf, client, &fakeRasterizer{n: 1})

	res := p.Run(context.Background(), model.StartupRecord{Name: "Acme", URL: "acme.test"})

	web, ok := res.Stage(model.StageWeb)
	require.True(t, ok)
	assert.Equal(t, model.PhaseStatusFailed, web.Status)
	assert.Contains(t, web.Error, "overloaded")
	assert.Equal(t, model.PhaseStatusComplete, res.StageStatus(model.StageDeck))
	assert.Equal(t, model.PhaseStatusComplete, res.StageStatus(model.StageMerge))
	assert.Equal(t, model.PhaseStatusComplete, res.StageStatus(model.StageEvaluation))
	assert.NotContains(t, client.seen(), extract.TaskCompetitors)
}

func TestRun_MergeFailureSkipsEvaluation(t *testing.T) {
	cfg := testConfig(t)
	client := &failingTask{task: merge.TaskMerge}
	p := New(cfg, nil, unreachable{}, client, nil)

	res := p.Run(context.Background(), model.StartupRecord{Name: "Acme", URL: "acme.test"})

	assert.Equal(t, model.PhaseStatusFailed, res.StageStatus(model.StageMerge))
	assert.Equal(t, model.PhaseStatusSkipped, res.StageStatus(model.StageEvaluation))
	assert.NotContains(t, client.seen(), evaluate.TaskEvaluation)
	assert.True(t, res.Succeeded())
}

func TestRun_RecordsLedger(t *testing.T) {
	cfg := testConfig(t)
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	p := New(cfg, st, unreachable{}, &StubAnthropicClient{}, nil)
	res := p.Run(context.Background(), model.StartupRecord{Name: "Acme", URL: "acme.test"})
	require.NotEmpty(t, res.RunID)

	run, err := st.GetRun(context.Background(), res.RunID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	require.NotNil(t, run.Result)
	assert.Equal(t, "acme", run.Result.Slug)
	assert.Len(t, run.Result.Phases, 4)

	phases, err := st.ListPhases(context.Background(), res.RunID)
	require.NoError(t, err)
	var names []string
	for _, ph := range phases {
		names = append(names, ph.Name)
		assert.Equal(t, model.PhaseStatusComplete, ph.Status)
	}
	assert.ElementsMatch(t, []string{model.StageWeb, model.StageMerge, model.StageEvaluation}, names)
}

func TestRunBatch_KeepsOrderAndWritesSummary(t *testing.T) {
	cfg := testConfig(t)
	cfg.Pipeline.Concurrency = 3
	p := New(cfg, nil, unreachable{}, &StubAnthropicClient{}, nil)

	startups := []model.StartupRecord{
		{Name: "Acme", URL: "acme.test"},
		{Name: "Beta"},
		{Name: "Gamma", URL: "gamma.test"},
	}
	batch := p.RunBatch(context.Background(), startups)

	require.Len(t, batch.Companies, 3)
	for i, s := range startups {
		assert.Equal(t, s.Name, batch.Companies[i].Startup.Name)
	}
	assert.Equal(t, 2, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, filepath.Join(cfg.Output.Dir, SummaryReport), batch.SummaryPath)

	summary := readReport(t, cfg.Output.Dir, SummaryReport)
	assert.Contains(t, summary, "# PitchPanda Run Summary")
	assert.Contains(t, summary, "- Companies: 3")
	assert.Contains(t, summary, "| Beta | beta | ⏭️ | ⏭️ | ⏭️ | ⏭️ | n/a |")
}

func TestRunBatch_CancelledContextSchedulesNothing(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, nil, unreachable{}, &StubAnthropicClient{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := p.RunBatch(ctx, []model.StartupRecord{{Name: "Acme", URL: "acme.test"}})

	assert.Empty(t, batch.Companies)
	assert.Contains(t, readReport(t, cfg.Output.Dir, SummaryReport), "- Companies: 0")
}
