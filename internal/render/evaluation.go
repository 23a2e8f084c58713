package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/pitchpanda/pitchpanda/internal/model"
)

// evaluationHeadings title the criteria sections in display order.
var evaluationHeadings = []string{
	"1. Team",
	"2. Technology",
	"3. Market Size",
	"4. Value Proposition",
	"5. Competitive Advantage (MOAT)",
	"6. Social Impact",
}

// Stars renders a 1-5 score as filled and empty stars.
func Stars(score int) string {
	if score < 0 {
		score = 0
	}
	if score > model.MaxScore {
		score = model.MaxScore
	}
	return strings.Repeat("★", score) + strings.Repeat("☆", model.MaxScore-score)
}

// Evaluation renders an investment evaluation.
func Evaluation(e *model.CompanyEvaluation) string {
	if e == nil {
		e = &model.CompanyEvaluation{}
	}
	var b strings.Builder

	fmt.Fprintf(&b, "# Investment Evaluation: %s\n\n", value(e.CompanyName))
	fmt.Fprintf(&b, "**Overall Score: %.1f/5.0**\n\n", e.OverallScore)
	if e.ParseFailed {
		b.WriteString("> ⚠️ Unscored: the evaluation reply could not be parsed. Scores below are placeholders.\n\n")
	}
	b.WriteString("---\n\n")

	b.WriteString("## 📊 Evaluation Criteria\n\n")
	criteria := e.Criteria()
	for i, c := range criteria {
		name := c.Name
		if !present(name) {
			name = model.CriterionLabels[i]
		}
		fmt.Fprintf(&b, "### %s\n\n", evaluationHeadings[i])
		fmt.Fprintf(&b, "**%s:** %d/5 %s\n\n", strings.TrimSpace(name), c.Score, Stars(c.Score))
		fmt.Fprintf(&b, "%s\n\n", value(c.Reasoning))
	}
	b.WriteString("---\n\n")

	b.WriteString("## 📈 Score Summary\n\n")
	b.WriteString("| Criterion | Score | Rating |\n")
	b.WriteString("|-----------|-------|--------|\n")
	for i, c := range criteria {
		fmt.Fprintf(&b, "| %s | %d/5 | %s |\n", model.CriterionLabels[i], c.Score, Stars(c.Score))
	}
	fmt.Fprintf(&b, "| **Overall** | **%.1f/5** | **%s** |\n\n", e.OverallScore, Stars(int(math.Round(e.OverallScore))))
	b.WriteString("---\n\n")

	if len(e.CompetitorGroups) > 0 {
		b.WriteString("## 🏆 Competitive Landscape\n\n")
		for _, g := range e.CompetitorGroups {
			fmt.Fprintf(&b, "### %s\n\n", value(g.GroupName))
			fmt.Fprintf(&b, "**Competitors:** %s\n\n", value(strings.Join(model.CleanList(g.Competitors), ", ")))
			fmt.Fprintf(&b, "**Characteristics:** %s\n\n", value(g.Characteristics))
		}
		b.WriteString("---\n\n")
	}

	b.WriteString("## 💭 Final Comments & Observations\n\n")
	fmt.Fprintf(&b, "%s\n", value(e.Comments))

	if len(e.DataQualityNotes) > 0 {
		b.WriteString("\n## Data Quality Notes\n\n")
		bullets(&b, e.DataQualityNotes, "")
	}
	return b.String()
}
