package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchpanda/pitchpanda/internal/config"
	"github.com/pitchpanda/pitchpanda/internal/model"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Input:  config.InputConfig{Path: filepath.Join(t.TempDir(), "startups.csv"), DecksDir: filepath.Join(t.TempDir(), "decks")},
		Output: config.OutputConfig{Dir: t.TempDir()},
		Anthropic: config.AnthropicConfig{
			WebModel:        "claude-haiku-4-5-20251001",
			DeckModel:       "claude-sonnet-4-5-20250929",
			MergeModel:      "claude-sonnet-4-5-20250929",
			EvaluationModel: "claude-sonnet-4-5-20250929",
			MaxTokens:       4096,
		},
		Fetch:    config.FetchConfig{TimeoutSecs: 1, MaxChars: 10000, MaxBodyBytes: 1 << 20},
		Deck:     config.DeckConfig{PdftoppmPath: "pdftoppm", DPI: 150},
		Pipeline: config.PipelineConfig{Concurrency: 1},
		Store:    config.StoreConfig{Driver: "none"},
	}
}

func resetRunFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		runInput, runLinks, runDecks, runOutput = "", "", "", ""
		runLimit, runConcurrency = 0, 0
		runDryRun, offline = false, false
	})
}

func TestRunCmd_RunE_FailsOnValidation(t *testing.T) {
	resetRunFlags(t)
	cfg = testConfig(t)

	runCmd.SetContext(context.Background())

	err := runCmd.RunE(runCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: validation failed")
	assert.Contains(t, err.Error(), "anthropic.key is required")
}

func TestRunCmd_RunE_MissingInput(t *testing.T) {
	resetRunFlags(t)
	cfg = testConfig(t)
	offline = true

	runCmd.SetContext(context.Background())

	err := runCmd.RunE(runCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run: load startups")
}

func TestApplyRunFlags(t *testing.T) {
	resetRunFlags(t)
	cfg = testConfig(t)
	runInput = "list.csv"
	runDecks = "decks"
	runOutput = "out"
	runConcurrency = 4

	applyRunFlags()

	assert.Equal(t, "list.csv", cfg.Input.Path)
	assert.Equal(t, "decks", cfg.Input.DecksDir)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, 4, cfg.Pipeline.Concurrency)
}

func TestApplyRunFlags_KeepsConfigWhenUnset(t *testing.T) {
	resetRunFlags(t)
	cfg = testConfig(t)
	want := *cfg

	applyRunFlags()
	assert.Equal(t, want.Input, cfg.Input)
	assert.Equal(t, want.Output, cfg.Output)
	assert.Equal(t, 1, cfg.Pipeline.Concurrency)
}

func TestLoadRecords_CSV(t *testing.T) {
	resetRunFlags(t)
	cfg = testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Input.Path, []byte("name,url\nAcme,acme.test\nBeta,beta.test\n"), 0o644))

	records, err := loadRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.StartupRecord{
		{Name: "Acme", URL: "acme.test"},
		{Name: "Beta", URL: "beta.test"},
	}, records)
}

func TestPrintRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRecords(&buf, []model.StartupRecord{{Name: "Acme", URL: "acme.test"}}))

	var got []model.StartupRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "Acme", got[0].Name)
}

func TestRunCmd_RunE_OfflineEndToEnd(t *testing.T) {
	resetRunFlags(t)
	cfg = testConfig(t)
	offline = true
	require.NoError(t, os.WriteFile(cfg.Input.Path, []byte("Ghost Co,http://127.0.0.1:1\n"), 0o644))

	runCmd.SetContext(context.Background())

	require.NoError(t, runCmd.RunE(runCmd, nil))

	summary, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "summary.md"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "| Ghost Co | ghost-co |")
}
