package render

import (
	"fmt"
	"strings"

	"github.com/pitchpanda/pitchpanda/internal/model"
)

// StatusMarker renders a stage status as a table marker.
func StatusMarker(s model.PhaseStatus) string {
	switch s {
	case model.PhaseStatusComplete:
		return "✅"
	case model.PhaseStatusFailed:
		return "❌"
	default:
		return "⏭️"
	}
}

// Summary renders the run-level overview of every company.
func Summary(results []*model.CompanyResult, totals model.TokenUsage) string {
	var b strings.Builder

	succeeded := 0
	for _, r := range results {
		if r != nil && r.Succeeded() {
			succeeded++
		}
	}

	b.WriteString("# PitchPanda Run Summary\n\n")
	fmt.Fprintf(&b, "- Companies: %d\n", len(results))
	fmt.Fprintf(&b, "- Succeeded: %d\n", succeeded)
	fmt.Fprintf(&b, "- Failed: %d\n\n", len(results)-succeeded)

	b.WriteString("## Companies\n\n")
	if len(results) == 0 {
		b.WriteString("No companies were processed.\n\n")
	} else {
		b.WriteString("| Company | Slug | Web | Deck | Merge | Evaluation | Score |\n")
		b.WriteString("|---------|------|-----|------|-------|------------|-------|\n")
		for _, r := range results {
			if r == nil {
				continue
			}
			score := "n/a"
			if r.OverallScore != nil {
				score = fmt.Sprintf("%.1f", *r.OverallScore)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				tableCell(value(r.Startup.Name)),
				tableCell(value(r.Slug)),
				StatusMarker(r.StageStatus(model.StageWeb)),
				StatusMarker(r.StageStatus(model.StageDeck)),
				StatusMarker(r.StageStatus(model.StageMerge)),
				StatusMarker(r.StageStatus(model.StageEvaluation)),
				score,
			)
		}
		b.WriteString("\n✅ complete · ❌ failed · ⏭️ skipped\n\n")
	}

	var failures []string
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, s := range r.Stages {
			if s.Status == model.PhaseStatusFailed {
				failures = append(failures, fmt.Sprintf("- **%s** (%s): %s", value(r.Startup.Name), s.Name, value(s.Error)))
			}
		}
	}
	if len(failures) > 0 {
		b.WriteString("## Failures\n\n")
		b.WriteString(strings.Join(failures, "\n"))
		b.WriteString("\n\n")
	}

	b.WriteString("## Usage\n\n")
	fmt.Fprintf(&b, "- Input tokens: %d\n", totals.InputTokens)
	fmt.Fprintf(&b, "- Output tokens: %d\n", totals.OutputTokens)
	fmt.Fprintf(&b, "- Total tokens: %d\n", totals.Total())
	fmt.Fprintf(&b, "- Estimated cost: $%.4f\n", totals.Cost)
	return b.String()
}

func tableCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}
