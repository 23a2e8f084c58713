package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pitchpanda/pitchpanda/internal/model"
	"github.com/pitchpanda/pitchpanda/pkg/anthropic"
)

var acme = model.StartupRecord{Name: "Acme Robotics", URL: "acme-robotics.test"}

func acmeSnapshot() model.Snapshot {
	return model.Snapshot{
		URL:   "https://acme-robotics.test",
		Title: "Acme Robotics",
		Text:  "Acme builds picking robots for warehouses.",
	}
}

const acmeProfile = `{
  "company_summary": "Acme builds warehouse picking robots.",
  "problem": {"general": "Warehouses cannot hire pickers", "example": "Peak season backlog"},
  "solution": {"what_it_is": "Picking robots", "how_it_works": "Vision and grippers", "example": "Robot picks 600 items per hour"},
  "product_type": "Hardware",
  "sector": "Logistics",
  "subsector": "Warehouse automation",
  "active_locations": [" United States ", ""],
  "sources": ["https://acme-robotics.test/"]
}`

func TestWeb_DegradedSnapshotSkipsLLM(t *testing.T) {
	mc := &mockClient{}
	snap := model.Snapshot{
		URL:  "https://acme-robotics.test",
		Text: "(Error fetching site: dial tcp: no such host)",
		Err:  "dial tcp: no such host",
	}

	wa, usage, err := Web(context.Background(), testDeps(mc), acme, snap)
	require.NoError(t, err)

	assert.Equal(t, snap.Text, wa.CompanySummary)
	assert.Equal(t, Unknown, wa.Problem.General)
	assert.Equal(t, Unknown, wa.Solution.WhatItIs)
	assert.Equal(t, Unknown, wa.ProductType)
	assert.Equal(t, []string{"https://acme-robotics.test"}, wa.Sources)
	assert.NotEmpty(t, wa.DataQualityNotes)
	assert.NotNil(t, wa.Competition)
	assert.Zero(t, usage.Total())
	mc.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestWeb_FullAnalysis(t *testing.T) {
	mc := &mockClient{}
	mc.On("CreateMessage", mock.Anything, forTask(TaskWebProfile)).Return(reply(acmeProfile), nil).Once()
	mc.On("CreateMessage", mock.Anything, forTask(TaskCompetitors)).Return(reply(`{"competition": [
		{"name": "Locus Robotics", "website": "https://locusrobotics.com", "confidence": "HIGH", "similarities": ["same ICP"]},
		{"name": "", "website": "https://anonymous.test"},
		{"name": "locus robotics"},
		{"name": "Fetch", "confidence": "certain"}
	]}`), nil).Once()
	mc.On("CreateMessage", mock.Anything, forTask(TaskMarketSize)).Return(reply(`{
		"tam": {"value": "$50B", "formula": "1M warehouses x $50K", "assumptions": ["global"], "unit": "warehouses"},
		"calculation_note": "Low confidence"
	}`), nil).Once()

	wa, usage, err := Web(context.Background(), testDeps(mc), acme, acmeSnapshot())
	require.NoError(t, err)
	mc.AssertExpectations(t)

	assert.False(t, wa.ParseFailed)
	assert.Equal(t, "Acme builds warehouse picking robots.", wa.CompanySummary)
	assert.Equal(t, []string{"United States"}, wa.ActiveLocations)
	assert.Equal(t, []string{"https://acme-robotics.test/"}, wa.Sources, "origin deduplicated against trailing slash")

	require.Len(t, wa.Competition, 2)
	assert.Equal(t, "Locus Robotics", wa.Competition[0].Name)
	assert.Equal(t, model.ConfidenceHigh, wa.Competition[0].Confidence)
	assert.Equal(t, "Fetch", wa.Competition[1].Name)
	assert.Equal(t, model.ConfidenceMedium, wa.Competition[1].Confidence)
	assert.Contains(t, wa.DataQualityNotes, "competitors: dropped entry 1 with no name")

	require.NotNil(t, wa.MarketSize)
	require.NotNil(t, wa.MarketSize.TAM)
	assert.Equal(t, "$50B", wa.MarketSize.TAM.Value)
	assert.Nil(t, wa.MarketSize.SAM)

	assert.Equal(t, 300, usage.InputTokens)
	assert.Equal(t, 60, usage.OutputTokens)
	assert.Greater(t, usage.Cost, 0.0)
}

func TestWeb_UsesConfiguredModelAndTemperature(t *testing.T) {
	mc := &mockClient{}
	mc.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return req.Model == "claude-haiku-4-5-20251001" &&
			req.Temperature != nil && *req.Temperature == 0.2 &&
			req.MaxTokens == 4096
	})).Return(reply(acmeProfile), nil)

	deps := testDeps(mc)
	deps.Pipeline.Competitors = false
	deps.Pipeline.MarketSize = false
	_, _, err := Web(context.Background(), deps, acme, acmeSnapshot())
	require.NoError(t, err)
	mc.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestWeb_UnparseableReplyFallsBack(t *testing.T) {
	mc := &mockClient{}
	mc.On("CreateMessage", mock.Anything, forTask(TaskWebProfile)).
		Return(reply("Sorry, I could not find enough information about this company."), nil)

	wa, _, err := Web(context.Background(), testDeps(mc), acme, acmeSnapshot())
	require.NoError(t, err)

	assert.True(t, wa.ParseFailed)
	assert.Equal(t, "Sorry, I could not find enough information about this company.", wa.CompanySummary)
	assert.Equal(t, []string{"https://acme-robotics.test"}, wa.Sources)
	assert.NotEmpty(t, wa.DataQualityNotes)
	mc.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestWeb_SalvageDiagnosticsBecomeNotes(t *testing.T) {
	mc := &mockClient{}
	mc.On("CreateMessage", mock.Anything, forTask(TaskWebProfile)).
		Return(reply(`{"company_summary": "Acme", "active_locations": "Berlin", "sector": ["Logistics"]}`), nil)

	deps := testDeps(mc)
	deps.Pipeline.Competitors = false
	deps.Pipeline.MarketSize = false
	wa, _, err := Web(context.Background(), deps, acme, acmeSnapshot())
	require.NoError(t, err)

	assert.False(t, wa.ParseFailed)
	assert.Equal(t, []string{"Berlin"}, wa.ActiveLocations)
	assert.Equal(t, "Logistics", wa.Sector)
	assert.Contains(t, wa.DataQualityNotes, "active_locations: wrapped single value in a list")
}

func TestWeb_MainCallErrorFailsStage(t *testing.T) {
	mc := &mockClient{}
	mc.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("rate limited"))

	_, _, err := Web(context.Background(), testDeps(mc), acme, acmeSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extract: web analysis")
}

func TestWeb_DependentCallFailuresBecomeNotes(t *testing.T) {
	mc := &mockClient{}
	mc.On("CreateMessage", mock.Anything, forTask(TaskWebProfile)).Return(reply(acmeProfile), nil)
	mc.On("CreateMessage", mock.Anything, forTask(TaskCompetitors)).Return(nil, errors.New("timeout"))
	mc.On("CreateMessage", mock.Anything, forTask(TaskMarketSize)).Return(reply("no numbers available"), nil)

	wa, _, err := Web(context.Background(), testDeps(mc), acme, acmeSnapshot())
	require.NoError(t, err)

	assert.Empty(t, wa.Competition)
	assert.Nil(t, wa.MarketSize)
	require.Len(t, wa.DataQualityNotes, 2)
	assert.Contains(t, wa.DataQualityNotes[0], "Competitor search failed")
	assert.Contains(t, wa.DataQualityNotes[1], "Market size estimate unavailable")
}
