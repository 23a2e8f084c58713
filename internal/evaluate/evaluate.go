// Package evaluate scores a merged company analysis against a VC rubric.
package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/pitchpanda/pitchpanda/internal/llm"
	"github.com/pitchpanda/pitchpanda/internal/model"
	"github.com/pitchpanda/pitchpanda/internal/salvage"
)

// ErrNothingToEvaluate is returned when the merged analysis is blank.
var ErrNothingToEvaluate = eris.New("evaluate: nothing to evaluate")

// Reasoning placeholders for criteria the model did not score.
const (
	NotAssessedMissing  = "Not assessed: missing from model reply"
	NotAssessedUnparsed = "Not assessed: evaluation reply could not be parsed"
)

// criterionKeys are the JSON keys of the six criteria in display order.
var criterionKeys = []string{
	"team", "technology", "market",
	"value_proposition", "competitive_advantage", "social_impact",
}

var leadingNumber = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)`)

// Evaluate scores the merged markdown for companyName. A reply that cannot
// be decoded yields a parse-failed record with every criterion at 1.
func Evaluate(ctx context.Context, deps llm.Deps, companyName, mergedText string) (*model.CompanyEvaluation, model.TokenUsage, error) {
	var usage model.TokenUsage
	if strings.TrimSpace(mergedText) == "" {
		return nil, usage, ErrNothingToEvaluate
	}
	log := zap.L().With(zap.String("company", companyName), zap.String("stage", model.StageEvaluation))

	comp, err := llm.Complete(ctx, deps.Client, deps.Calc, llm.Call{
		Stage:       model.StageEvaluation,
		Model:       deps.Model,
		MaxTokens:   deps.MaxTokens,
		Temperature: llm.Temperature(0),
		System:      evaluationSystem,
		Prompt:      fmt.Sprintf(evaluationPrompt, companyName, strings.TrimSpace(mergedText)),
	})
	if err != nil {
		return nil, usage, eris.Wrap(err, "evaluate: score company")
	}
	usage.Add(comp.Usage)

	ev, present, out := decode(comp.Text)
	if !out.Decoded() {
		log.Warn("evaluate: reply unparseable", zap.String("reason", out.Reason))
		return parseFailed(companyName, comp.Text, out.Reason), usage, nil
	}

	ev.DataQualityNotes = append(ev.DataQualityNotes, out.Diagnostics...)
	if comp.Truncated() {
		ev.DataQualityNotes = append(ev.DataQualityNotes, "Evaluation reply hit the token limit; comments may be cut short.")
	}
	if strings.TrimSpace(ev.CompanyName) == "" {
		ev.CompanyName = companyName
	}
	settle(ev, present)

	log.Info("evaluate: complete",
		zap.Float64("overall_score", ev.OverallScore),
		zap.String("salvage", out.Kind.String()),
	)
	return ev, usage, nil
}

// decode recovers the evaluation and reports which criteria the reply
// carried a score for.
func decode(text string) (*model.CompanyEvaluation, map[string]bool, salvage.Outcome) {
	raw, diags, err := salvage.Object(text)
	if err != nil {
		return nil, nil, salvage.Outcome{Kind: salvage.Err, Reason: err.Error()}
	}
	present, scoreNotes := normalizeScores(raw)
	diags = append(diags, scoreNotes...)

	ev := &model.CompanyEvaluation{}
	out := salvage.DecodeObject(raw, ev)
	if !out.Decoded() {
		return nil, nil, out
	}
	if len(diags) > 0 {
		out.Diagnostics = append(diags, out.Diagnostics...)
		out.Kind = salvage.PartialOk
	}
	return ev, present, out
}

// normalizeScores rewrites each criterion score in raw as a whole number.
// Scores written as text such as "4/5" keep their leading number.
func normalizeScores(raw map[string]any) (map[string]bool, []string) {
	present := make(map[string]bool, len(criterionKeys))
	var notes []string
	for _, key := range criterionKeys {
		obj, ok := raw[key].(map[string]any)
		if !ok {
			continue
		}
		var (
			f   float64
			err error
		)
		switch v := obj["score"].(type) {
		case json.Number:
			f, err = v.Float64()
		case string:
			m := leadingNumber.FindStringSubmatch(v)
			if m == nil {
				continue
			}
			f, err = strconv.ParseFloat(m[1], 64)
			if err == nil {
				notes = append(notes, fmt.Sprintf("%s: score read as %g from %q", key, f, v))
			}
		default:
			continue
		}
		if err != nil {
			continue
		}
		n := int(math.Round(f))
		if float64(n) != f {
			notes = append(notes, fmt.Sprintf("%s: score %g rounded to %d", key, f, n))
		}
		obj["score"] = json.Number(strconv.Itoa(n))
		present[key] = true
	}
	return present, notes
}

// settle fills missing criteria, clamps scores and recomputes the overall
// score from the six criteria.
func settle(ev *model.CompanyEvaluation, present map[string]bool) {
	for i, c := range ev.Criteria() {
		label := model.CriterionLabels[i]
		if strings.TrimSpace(c.Name) == "" {
			c.Name = label
		}
		if !present[criterionKeys[i]] {
			c.Score = model.MinScore
			if strings.TrimSpace(c.Reasoning) == "" {
				c.Reasoning = NotAssessedMissing
			}
			ev.DataQualityNotes = append(ev.DataQualityNotes, label+" was missing from the reply; scored 1.")
			continue
		}
		if clamped := clamp(c.Score); clamped != c.Score {
			ev.DataQualityNotes = append(ev.DataQualityNotes,
				fmt.Sprintf("%s score %d was out of range; clamped to %d.", label, c.Score, clamped))
			c.Score = clamped
		}
	}

	mean := ev.MeanScore()
	if ev.OverallScore != 0 && math.Abs(ev.OverallScore-mean) > 0.05 {
		ev.DataQualityNotes = append(ev.DataQualityNotes,
			fmt.Sprintf("Overall score recomputed as %.1f; the reply said %.1f.", mean, ev.OverallScore))
	}
	ev.OverallScore = mean

	if ev.CompetitorGroups == nil {
		ev.CompetitorGroups = []model.CompetitorGroup{}
	}
	ev.DataQualityNotes = model.CleanList(ev.DataQualityNotes)
}

func clamp(score int) int {
	switch {
	case score < model.MinScore:
		return model.MinScore
	case score > model.MaxScore:
		return model.MaxScore
	default:
		return score
	}
}

func parseFailed(companyName, raw, reason string) *model.CompanyEvaluation {
	ev := &model.CompanyEvaluation{
		CompanyName:      companyName,
		CompetitorGroups: []model.CompetitorGroup{},
		Comments:         strings.TrimSpace(raw),
		ParseFailed:      true,
		DataQualityNotes: []string{
			"Evaluation reply could not be parsed (" + reason + "); the raw reply is shown as comments.",
		},
	}
	for i, c := range ev.Criteria() {
		c.Name = model.CriterionLabels[i]
		c.Score = model.MinScore
		c.Reasoning = NotAssessedUnparsed
	}
	ev.OverallScore = ev.MeanScore()
	return ev
}
