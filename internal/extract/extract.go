// Package extract turns homepage snapshots and pitch decks into structured
// analyses using the LLM.
package extract

import (
	"github.com/pitchpanda/pitchpanda/internal/config"
	"github.com/pitchpanda/pitchpanda/internal/cost"
	"github.com/pitchpanda/pitchpanda/internal/fetcher"
	"github.com/pitchpanda/pitchpanda/pkg/anthropic"
)

// rawExcerptChars bounds the raw reply kept in fallback records.
const rawExcerptChars = 500

// extractionTemperature is used for both web and deck extraction.
const extractionTemperature = 0.2

// Deps bundles the collaborators of the extraction stages.
type Deps struct {
	Client     anthropic.Client
	Calc       *cost.Calculator
	AI         config.AnthropicConfig
	Pipeline   config.PipelineConfig
	Deck       config.DeckConfig
	Rasterizer fetcher.Rasterizer

	// SlidesDir receives rendered slides when Deck.KeepImages is set.
	// Otherwise slides go to a temporary directory that is removed.
	SlidesDir string
}
