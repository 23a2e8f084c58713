package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchpanda/pitchpanda/internal/fetcher"
	"github.com/pitchpanda/pitchpanda/internal/llm"
	"github.com/pitchpanda/pitchpanda/internal/model"
	"github.com/pitchpanda/pitchpanda/internal/salvage"
)

// Unknown fills web fields the analysis could not determine.
const Unknown = "Unknown"

// Web analyzes a homepage snapshot. A degraded snapshot yields a fallback
// record without calling the LLM. Only a failure of the main extraction
// call is returned as an error; the competitor and market-size calls
// degrade to data-quality notes.
func Web(ctx context.Context, deps Deps, startup model.StartupRecord, snap model.Snapshot) (*model.WebAnalysis, model.TokenUsage, error) {
	var usage model.TokenUsage
	origin := snap.URL
	if origin == "" {
		origin = fetcher.NormalizeURL(startup.URL)
	}
	log := zap.L().With(zap.String("company", startup.Name), zap.String("stage", model.StageWeb))

	if snap.Degraded() {
		log.Info("extract: homepage unavailable, using fallback", zap.String("reason", snap.Err))
		wa := degradedWeb(snap, origin)
		wa.Normalize(origin)
		return wa, usage, nil
	}

	comp, err := llm.Complete(ctx, deps.Client, deps.Calc, llm.Call{
		Stage:       model.StageWeb,
		Model:       deps.AI.WebModel,
		MaxTokens:   deps.AI.MaxTokens,
		Temperature: llm.Temperature(extractionTemperature),
		Prompt:      fmt.Sprintf(webPrompt, startup.Name, origin, snap.PromptText()),
	})
	if err != nil {
		return nil, usage, eris.Wrap(err, "extract: web analysis")
	}
	usage.Add(comp.Usage)

	wa := &model.WebAnalysis{}
	out := salvage.Decode(comp.Text, wa)
	if !out.Decoded() {
		log.Warn("extract: web reply unparseable", zap.String("reason", out.Reason))
		wa = parseFailedWeb(comp.Text, out.Reason)
	} else {
		wa.DataQualityNotes = append(wa.DataQualityNotes, out.Diagnostics...)
	}
	wa.Normalize(origin)

	if wa.ParseFailed {
		return wa, usage, nil
	}

	if deps.Pipeline.Competitors {
		competitors, cu, err := findCompetitors(ctx, deps, startup.Name, origin, wa)
		usage.Add(cu)
		if err != nil {
			log.Warn("extract: competitor search failed", zap.Error(err))
			wa.DataQualityNotes = append(wa.DataQualityNotes, "Competitor search failed: "+err.Error())
		} else {
			wa.Competition = competitors.list
			wa.DataQualityNotes = append(wa.DataQualityNotes, competitors.notes...)
		}
	}

	if deps.Pipeline.MarketSize {
		ms, mu, err := estimateMarketSize(ctx, deps, startup.Name, origin, wa)
		usage.Add(mu)
		if err != nil {
			log.Warn("extract: market sizing failed", zap.Error(err))
			wa.DataQualityNotes = append(wa.DataQualityNotes, "Market size estimate unavailable: "+err.Error())
		} else {
			wa.MarketSize = ms
		}
	}

	wa.Normalize(origin)
	return wa, usage, nil
}

func degradedWeb(snap model.Snapshot, origin string) *model.WebAnalysis {
	return &model.WebAnalysis{
		CompanySummary: snap.Text,
		Problem:        model.Problem{General: Unknown, Example: Unknown},
		Solution:       model.Solution{WhatItIs: Unknown, HowItWorks: Unknown, Example: Unknown},
		ProductType:    Unknown,
		Sector:         Unknown,
		Subsector:      Unknown,
		Sources:        []string{origin},
		DataQualityNotes: []string{
			"Homepage could not be fetched (" + snap.Err + "); no website content was analyzed.",
		},
	}
}

func parseFailedWeb(raw, reason string) *model.WebAnalysis {
	return &model.WebAnalysis{
		CompanySummary: salvage.Excerpt(raw, rawExcerptChars),
		Problem:        model.Problem{General: Unknown, Example: Unknown},
		Solution:       model.Solution{WhatItIs: Unknown, HowItWorks: Unknown, Example: Unknown},
		ProductType:    Unknown,
		Sector:         Unknown,
		Subsector:      Unknown,
		ParseFailed:    true,
		DataQualityNotes: []string{
			"Web analysis reply could not be parsed (" + reason + "); summary shows the raw reply.",
		},
	}
}

type competitorResult struct {
	list  []model.Competitor
	notes []string
}

func findCompetitors(ctx context.Context, deps Deps, name, origin string, wa *model.WebAnalysis) (*competitorResult, model.TokenUsage, error) {
	prompt := fmt.Sprintf(competitorPrompt,
		name, origin,
		wa.Problem.General, wa.Problem.Example,
		wa.Solution.WhatItIs, wa.Solution.HowItWorks, wa.Solution.Example,
		wa.ProductType, wa.Sector, wa.Subsector,
		locationsArg(wa.ActiveLocations),
	)
	comp, err := llm.Complete(ctx, deps.Client, deps.Calc, llm.Call{
		Stage:       model.StageWeb + ".competitors",
		Model:       deps.AI.WebModel,
		MaxTokens:   deps.AI.MaxTokens,
		Temperature: llm.Temperature(extractionTemperature),
		Prompt:      prompt,
	})
	if err != nil {
		return nil, model.TokenUsage{}, err
	}

	var reply struct {
		Competition []model.Competitor `json:"competition"`
	}
	out := salvage.Decode(comp.Text, &reply)
	if !out.Decoded() {
		return nil, comp.Usage, eris.New(out.Reason)
	}

	res := &competitorResult{list: make([]model.Competitor, 0, len(reply.Competition))}
	for _, d := range out.Diagnostics {
		res.notes = append(res.notes, "competitors: "+d)
	}
	seen := make(map[string]struct{}, len(reply.Competition))
	for i, c := range reply.Competition {
		c.Normalize()
		if c.Name == "" {
			res.notes = append(res.notes, fmt.Sprintf("competitors: dropped entry %d with no name", i))
			continue
		}
		key := strings.ToLower(c.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		res.list = append(res.list, c)
	}
	return res, comp.Usage, nil
}

func estimateMarketSize(ctx context.Context, deps Deps, name, origin string, wa *model.WebAnalysis) (*model.MarketSize, model.TokenUsage, error) {
	prompt := fmt.Sprintf(marketSizePrompt,
		name, origin,
		wa.Problem.General, wa.Problem.Example,
		wa.Solution.WhatItIs, wa.Solution.HowItWorks,
		wa.ProductType, wa.Sector, wa.Subsector,
		locationsArg(wa.ActiveLocations),
	)
	comp, err := llm.Complete(ctx, deps.Client, deps.Calc, llm.Call{
		Stage:       model.StageWeb + ".market_size",
		Model:       deps.AI.WebModel,
		MaxTokens:   deps.AI.MaxTokens,
		Temperature: llm.Temperature(extractionTemperature),
		Prompt:      prompt,
	})
	if err != nil {
		return nil, model.TokenUsage{}, err
	}

	ms := &model.MarketSize{}
	out := salvage.Decode(comp.Text, ms)
	if !out.Decoded() {
		return nil, comp.Usage, eris.New(out.Reason)
	}
	for _, e := range []*model.MarketEstimate{ms.TAM, ms.SAM, ms.SOM} {
		if e != nil {
			e.Assumptions = model.CleanList(e.Assumptions)
		}
	}
	if ms.Empty() {
		return nil, comp.Usage, eris.New("reply contained no estimates")
	}
	return ms, comp.Usage, nil
}

func locationsArg(locs []string) string {
	if len(locs) == 0 {
		return "not stated"
	}
	return strings.Join(locs, ", ")
}
