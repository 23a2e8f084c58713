package merge

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pitchpanda/pitchpanda/internal/model"
	"github.com/pitchpanda/pitchpanda/pkg/anthropic"
)

func TestMerge_NothingToMerge(t *testing.T) {
	mc := new(mockClient)

	m, usage, err := Merge(context.Background(), testDeps(mc), "Acme", "  ", "\n")
	require.ErrorIs(t, err, ErrNothingToMerge)
	assert.Nil(t, m)
	assert.Zero(t, usage.Total())
	mc.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestMerge_WebOnly(t *testing.T) {
	mc := new(mockClient)
	var req anthropic.MessageRequest
	mc.On("CreateMessage", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { req = args.Get(1).(anthropic.MessageRequest) }).
		Return(reply(`{
			"company_overview": {"name": "Acme", "tagline": {"content": "Robots for farms", "source": "pitch deck"}},
			"market": {"tam": {"content": "$12B", "source": "both"}},
			"team": [{"name": "Ada", "role": "CEO", "source": "pitch deck"}],
			"additional_insights": [{"content": "Hiring", "source": "unknown"}]
		}`), nil)

	m, usage, err := Merge(context.Background(), testDeps(mc), "Acme", "# Acme\nweb text", "")
	require.NoError(t, err)
	require.NotNil(t, m)

	require.Len(t, req.Messages, 1)
	prompt := req.Messages[0].Content
	assert.True(t, strings.HasPrefix(prompt, TaskMerge))
	assert.Contains(t, prompt, "# WEB ANALYSIS:\n```\n# Acme\nweb text\n```")
	assert.Contains(t, prompt, "# PITCH DECK ANALYSIS: Not available")
	assert.NotContains(t, prompt, "Never invent information")
	require.Len(t, req.System, 1)
	assert.Contains(t, req.System[0].Text, "Never invent information")
	assert.NotContains(t, req.System[0].Text, "Acme")
	require.NotNil(t, req.System[0].CacheControl)
	assert.Equal(t, anthropic.CachedSystemTTL, req.System[0].CacheControl.TTL)
	assert.Equal(t, "claude-sonnet-4-5-20250929", req.Model)
	require.NotNil(t, req.Temperature)
	assert.Zero(t, *req.Temperature)

	assert.Equal(t, model.SourceWeb, m.CompanyOverview.Tagline.Source)
	assert.Equal(t, model.SourceWeb, m.Team[0].Source)
	assert.Equal(t, model.SourceWeb, m.AdditionalInsights[0].Source)
	require.NotNil(t, m.Market.TAM)
	assert.Equal(t, model.SourcedFact("$12B", model.SourceWeb), m.Market.TAM)
	assert.False(t, m.Market.TAM.Disputed())
	assert.Equal(t, 1200, usage.Total())
	assert.Greater(t, usage.Cost, 0.0)
	assert.Empty(t, m.Competitors)
	assert.NotNil(t, m.Financials.FundingRaised)
}

func TestMerge_BothInputs(t *testing.T) {
	mc := new(mockClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).
		Return(reply("```json\n"+`{
			"company_overview": {
				"name": "Acme",
				"sector": {"content": "AgTech", "source": "web"},
				"description": {"content": "Farm robots", "source": "investor call"}
			},
			"market": {
				"tam": {"content": "$40B", "source": "Pitch Deck"},
				"sam": {"pitch_deck_info": "$2B", "web_info": "$3B", "note": "deck is narrower"},
				"som": {"pitch_deck_info": "", "web_info": ""}
			},
			"financials": {"revenue": {"pitch_deck_info": "$1M ARR", "web_info": "$1m arr"}},
			"competitors": [{"name": "Deere", "source": "deck & web"}]
		}`+"\n```"), nil)

	m, _, err := Merge(context.Background(), testDeps(mc), "Acme", "web", "deck")
	require.NoError(t, err)

	assert.Equal(t, model.SourceWeb, m.CompanyOverview.Sector.Source)
	assert.Equal(t, model.SourceBoth, m.CompanyOverview.Description.Source)
	assert.Equal(t, model.SourceBoth, m.Competitors[0].Source)

	assert.Equal(t, model.SourcedFact("$40B", model.SourceDeck), m.Market.TAM)

	require.True(t, m.Market.SAM.Disputed())
	assert.Equal(t, &model.ConflictingInfo{PitchDeckInfo: "$2B", WebInfo: "$3B", Note: "deck is narrower"}, m.Market.SAM.Conflict)
	assert.Nil(t, m.Market.SOM)

	assert.Equal(t, model.SourcedFact("$1M ARR", model.SourceBoth), m.Financials.Revenue)
	assert.False(t, m.ParseFailed)
}

func TestMerge_AgreedFiguresStaySourced(t *testing.T) {
	mc := new(mockClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).
		Return(reply(`{"market": {
			"tam": {"content": "$12B", "source": "both"},
			"sam": {"content": "$2B", "source": "web analysis"}
		}}`), nil)

	m, _, err := Merge(context.Background(), testDeps(mc), "Acme", "web", "deck")
	require.NoError(t, err)

	assert.Equal(t, model.SourcedFact("$12B", model.SourceBoth), m.Market.TAM)
	assert.Equal(t, model.SourcedFact("$2B", model.SourceWeb), m.Market.SAM)
	for _, f := range m.MarketFacts() {
		assert.False(t, (*f).Disputed())
	}
}

func TestMerge_DeckOnlyMovesConflictSide(t *testing.T) {
	mc := new(mockClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).
		Return(reply(`{"market": {"tam": {"web_info": "$9B"}}, "financial_data": {"revenue": "$250K"}}`), nil)

	m, _, err := Merge(context.Background(), testDeps(mc), "Beta", "", "deck")
	require.NoError(t, err)

	assert.Equal(t, "Beta", m.CompanyOverview.Name)
	assert.Equal(t, model.SourcedFact("$9B", model.SourceDeck), m.Market.TAM)
	assert.Equal(t, model.SourcedFact("$250K", model.SourceDeck), m.Financials.Revenue)
}

func TestSettleFact(t *testing.T) {
	both := inputs{web: true, deck: true}
	webOnly := inputs{web: true}
	conflict := func(deck, web string) *model.MarketFact {
		return &model.MarketFact{Conflict: &model.ConflictingInfo{PitchDeckInfo: deck, WebInfo: web}}
	}

	tests := []struct {
		name string
		in   inputs
		f    *model.MarketFact
		want *model.MarketFact
	}{
		{"nil", both, nil, nil},
		{"blank conflict", both, conflict(" ", ""), nil},
		{"sourced", both, model.SourcedFact(" $5B ", "website"), model.SourcedFact("$5B", model.SourceWeb)},
		{"agreeing sides", both, conflict("$1M ARR", "$1m arr"), model.SourcedFact("$1M ARR", model.SourceBoth)},
		{"differing sides", both, conflict("$40B", "$12B"), conflict("$40B", "$12B")},
		{"deck side only", both, conflict("$40B", ""), model.SourcedFact("$40B", model.SourceDeck)},
		{"web side only", both, conflict("", "$12B"), model.SourcedFact("$12B", model.SourceWeb)},
		{"differing sides single input", webOnly, conflict("$40B", "$12B"), model.SourcedFact("$12B", model.SourceWeb)},
		{"deck side single web input", webOnly, conflict("$40B", ""), model.SourcedFact("$40B", model.SourceWeb)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, settleFact(tt.f, tt.in), tt.name)
	}
}

func TestMerge_UnparseableReply(t *testing.T) {
	mc := new(mockClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).
		Return(reply("I could not merge these analyses."), nil)

	m, usage, err := Merge(context.Background(), testDeps(mc), "Acme", "web", "deck")
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.True(t, m.ParseFailed)
	assert.Equal(t, "Acme", m.CompanyOverview.Name)
	require.Len(t, m.AdditionalInsights, 1)
	assert.Equal(t, "I could not merge these analyses.", m.AdditionalInsights[0].Content)
	assert.Equal(t, model.SourceBoth, m.AdditionalInsights[0].Source)
	require.NotEmpty(t, m.DataQualityNotes)
	assert.Contains(t, m.DataQualityNotes[0], "could not be parsed")
	assert.Equal(t, 1200, usage.Total())
}

func TestMerge_RepairNotesKept(t *testing.T) {
	mc := new(mockClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).
		Return(reply(`{"company_overview": {"name": "Acme",}, "team": [],}`), nil)

	m, _, err := Merge(context.Background(), testDeps(mc), "Acme", "web", "")
	require.NoError(t, err)
	assert.False(t, m.ParseFailed)
	assert.NotEmpty(t, m.DataQualityNotes)
}

func TestMerge_LLMError(t *testing.T) {
	mc := new(mockClient)
	mc.On("CreateMessage", mock.Anything, mock.Anything).Return(nil, errors.New("overloaded"))

	m, _, err := Merge(context.Background(), testDeps(mc), "Acme", "web", "")
	require.Error(t, err)
	assert.Nil(t, m)
	assert.Contains(t, err.Error(), "merge: merge analyses")
	assert.Contains(t, err.Error(), "overloaded")
}

func TestInputsResolve(t *testing.T) {
	both := inputs{web: true, deck: true}
	assert.Equal(t, model.SourceDeck, both.resolve("pitch deck"))
	assert.Equal(t, model.SourceWeb, both.resolve("website"))
	assert.Equal(t, model.SourceBoth, both.resolve(""))
	assert.Equal(t, model.SourceBoth, both.resolve("press release"))

	webOnly := inputs{web: true}
	assert.Equal(t, model.SourceWeb, webOnly.resolve("pitch deck"))
	deckOnly := inputs{deck: true}
	assert.Equal(t, model.SourceDeck, deckOnly.resolve("both"))
}
