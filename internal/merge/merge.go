// Package merge reconciles a web analysis and a deck analysis into one
// company view with per-fact provenance.
package merge

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchpanda/pitchpanda/internal/llm"
	"github.com/pitchpanda/pitchpanda/internal/model"
	"github.com/pitchpanda/pitchpanda/internal/salvage"
)

// ErrNothingToMerge is returned when neither analysis has content.
var ErrNothingToMerge = eris.New("merge: nothing to merge")

// Merge asks the model to combine the rendered web and deck analyses.
// Either text may be blank, not both. A reply that cannot be decoded
// yields a parse-failed record rather than an error.
func Merge(ctx context.Context, deps llm.Deps, companyName, webText, deckText string) (*model.MergedAnalysis, model.TokenUsage, error) {
	var usage model.TokenUsage
	in := inputs{web: strings.TrimSpace(webText) != "", deck: strings.TrimSpace(deckText) != ""}
	if !in.web && !in.deck {
		return nil, usage, ErrNothingToMerge
	}
	log := zap.L().With(zap.String("company", companyName), zap.String("stage", model.StageMerge))

	comp, err := llm.Complete(ctx, deps.Client, deps.Calc, llm.Call{
		Stage:       model.StageMerge,
		Model:       deps.Model,
		MaxTokens:   deps.MaxTokens,
		Temperature: llm.Temperature(0),
		System:      mergeSystem,
		Prompt:      buildPrompt(companyName, webText, deckText),
	})
	if err != nil {
		return nil, usage, eris.Wrap(err, "merge: merge analyses")
	}
	usage.Add(comp.Usage)

	m, out := decode(comp.Text)
	if !out.Decoded() {
		log.Warn("merge: reply unparseable", zap.String("reason", out.Reason))
		m = parseFailed(companyName, comp.Text, out.Reason, in)
		m.Normalize()
		return m, usage, nil
	}

	m.DataQualityNotes = append(m.DataQualityNotes, out.Diagnostics...)
	if comp.Truncated() {
		m.DataQualityNotes = append(m.DataQualityNotes, "Merge reply hit the token limit; later sections may be missing.")
	}
	if strings.TrimSpace(m.CompanyOverview.Name) == "" {
		m.CompanyOverview.Name = companyName
	}
	reconcile(m, in)
	m.Normalize()

	log.Info("merge: complete",
		zap.Bool("web", in.web),
		zap.Bool("deck", in.deck),
		zap.String("salvage", out.Kind.String()),
	)
	return m, usage, nil
}

func decode(text string) (*model.MergedAnalysis, salvage.Outcome) {
	raw, diags, err := salvage.Object(text)
	if err != nil {
		return nil, salvage.Outcome{Kind: salvage.Err, Reason: err.Error()}
	}
	normalizeKeys(raw)

	m := &model.MergedAnalysis{}
	out := salvage.DecodeObject(raw, m)
	if !out.Decoded() {
		return nil, out
	}
	if len(diags) > 0 {
		out.Diagnostics = append(diags, out.Diagnostics...)
		out.Kind = salvage.PartialOk
	}
	return m, out
}

func parseFailed(companyName, raw, reason string, in inputs) *model.MergedAnalysis {
	return &model.MergedAnalysis{
		CompanyOverview: model.CompanyOverview{Name: companyName},
		AdditionalInsights: []model.SourcedInfo{
			{Content: strings.TrimSpace(raw), Source: in.side()},
		},
		ParseFailed: true,
		DataQualityNotes: []string{
			"Merge reply could not be parsed (" + reason + "); the raw reply is kept under additional insights.",
		},
	}
}
