package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pitchpanda/pitchpanda/internal/model"
)

// metricCategories are the known metric groups in display order. Other
// categories follow in name order.
var metricCategories = []struct {
	key   string
	title string
}{
	{"funding", "💵 Funding"},
	{"traction", "📊 Traction"},
	{"market_size", "🌍 Market Size"},
	{"financials", "💹 Financial Metrics"},
	{"lois", "📝 Letters of Intent (LOIs)"},
}

// Deck renders a pitch deck analysis.
func Deck(d *model.DeckAnalysis) string {
	if d == nil {
		d = &model.DeckAnalysis{}
	}
	var b strings.Builder

	fmt.Fprintf(&b, "# Pitch Deck Analysis: %s\n\n", value(d.DeckName))
	fmt.Fprintf(&b, "**Total Slides:** %d\n\n", d.TotalSlides)
	b.WriteString("---\n\n")

	writeCoreElements(&b, d)
	writeMetrics(&b, d.Metrics)
	writeDeckTeam(&b, d.Team)
	writeAdvantages(&b, d.CompetitiveAdvantages)
	writeAwards(&b, d.AwardsAndGrants)
	writeFunding(&b, d.FundingDetails)

	if len(d.CompetitionMentioned) > 0 {
		b.WriteString("---\n\n## 🏢 Competition (As Presented)\n\n")
		note := d.CompetitionNote
		if !present(note) {
			note = model.DefaultCompetitionNote
		}
		fmt.Fprintf(&b, "*%s*\n\n", strings.TrimSpace(note))
		bullets(&b, d.CompetitionMentioned, "")
		b.WriteString("\n")
	}

	writeProjections(&b, d.ProjectionAnalysis)

	b.WriteString("---\n\n## 🔬 Facts vs. Storytelling\n\n")
	b.WriteString("### ✅ Verifiable Facts\n\n")
	bullets(&b, d.Facts, "Nothing identified")
	b.WriteString("\n### 📖 Storytelling & Marketing Claims\n\n")
	bullets(&b, d.Storytelling, "Nothing identified")
	b.WriteString("\n")

	b.WriteString("---\n\n## 🔍 Observations & Notes\n\n")
	b.WriteString("### Observations\n\n")
	bullets(&b, d.Observations, "Nothing recorded")
	b.WriteString("\n")
	if len(d.UnlabeledClaims) > 0 {
		b.WriteString("### ⚠️ Unlabeled or Vague Claims\n\n")
		bullets(&b, d.UnlabeledClaims, "")
		b.WriteString("\n")
	}
	b.WriteString("### 📊 Data Quality Assessment\n\n")
	fmt.Fprintf(&b, "%s\n\n", value(d.DataQualityNotes))

	b.WriteString("---\n\n## ✅ Deck Completeness\n\n")
	b.WriteString("### Present Elements\n\n")
	writeMarked(&b, "✅", d.PresentElements)
	b.WriteString("\n### Missing Elements\n\n")
	writeMarked(&b, "❌", d.MissingElements)
	b.WriteString("\n")

	if len(d.Slides) > 0 {
		b.WriteString("---\n\n## 📑 Slide-by-Slide Breakdown\n\n")
		for _, s := range d.Slides {
			fmt.Fprintf(&b, "### Slide %d\n\n", s.SlideNumber)
			if present(s.SlideTitle) {
				fmt.Fprintf(&b, "**Title:** %s\n\n", strings.TrimSpace(s.SlideTitle))
			}
			if len(s.KeyPoints) > 0 {
				b.WriteString("**Key Points:**\n\n")
				bullets(&b, s.KeyPoints, "")
				b.WriteString("\n")
			}
			if present(s.VisualElements) {
				fmt.Fprintf(&b, "**Visuals:** %s\n\n", strings.TrimSpace(s.VisualElements))
			}
		}
	}
	return b.String()
}

func writeCoreElements(b *strings.Builder, d *model.DeckAnalysis) {
	core := []struct {
		title string
		text  string
	}{
		{"🔴 Problem Statement", d.ProblemStatement},
		{"💡 Solution Overview", d.SolutionOverview},
		{"🎯 Value Proposition", d.ValueProposition},
		{"👥 Target Market", d.TargetMarket},
		{"💰 Business Model", d.BusinessModel},
	}
	wrote := false
	for _, c := range core {
		if !present(c.text) {
			continue
		}
		if !wrote {
			b.WriteString("## 📊 Core Pitch Elements\n\n")
			wrote = true
		}
		fmt.Fprintf(b, "### %s\n\n%s\n\n", c.title, strings.TrimSpace(c.text))
	}

	bm := d.BusinessModelDetails
	if bm.Empty() {
		return
	}
	if !wrote {
		b.WriteString("## 📊 Core Pitch Elements\n\n")
	}
	b.WriteString("### 💼 Business Model Details\n\n")
	lines := []struct {
		label string
		text  string
	}{
		{"Revenue Model", bm.RevenueModel},
		{"Pricing", bm.PricingStructure},
		{"Customer Acquisition", bm.CustomerAcquisition},
		{"Sales Cycle", bm.SalesCycle},
		{"Partnerships", strings.Join(bm.Partnerships, ", ")},
		{"Distribution", strings.Join(bm.DistributionChannels, ", ")},
		{"Expansion Strategy", bm.ExpansionStrategy},
	}
	for _, l := range lines {
		if present(l.text) {
			fmt.Fprintf(b, "**%s:** %s  \n", l.label, strings.TrimSpace(l.text))
		}
	}
	b.WriteString("\n")
	if len(bm.Notes) > 0 {
		b.WriteString("**Additional Notes:**\n\n")
		bullets(b, bm.Notes, "")
		b.WriteString("\n")
	}
}

func writeMetrics(b *strings.Builder, metrics map[string][]model.Metric) {
	total := 0
	for _, ms := range metrics {
		total += len(ms)
	}
	if total == 0 {
		return
	}
	b.WriteString("---\n\n## 📈 Metrics & Numbers\n\n")

	known := make(map[string]bool, len(metricCategories))
	for _, c := range metricCategories {
		known[c.key] = true
		writeMetricGroup(b, c.title, metrics[c.key])
	}
	var others []string
	for k := range metrics {
		if !known[k] {
			others = append(others, k)
		}
	}
	sort.Strings(others)
	for _, k := range others {
		writeMetricGroup(b, "📌 "+titleCase(k), metrics[k])
	}
}

func writeMetricGroup(b *strings.Builder, title string, ms []model.Metric) {
	if len(ms) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, m := range ms {
		b.WriteString(MetricLine(m))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// MetricLine renders one metric with its projection marker and confidence
// qualifier.
func MetricLine(m model.Metric) string {
	var parts []string
	if m.IsProjection {
		parts = append(parts, "*Projection*")
	}
	if present(m.Context) {
		parts = append(parts, strings.TrimSpace(m.Context))
	}
	switch model.NormalizeConfidence(m.Confidence, model.ConfidenceHigh) {
	case model.ConfidenceMedium:
		parts = append(parts, "inferred from context")
	case model.ConfidenceLow:
		parts = append(parts, "uncertain")
	}

	line := fmt.Sprintf("- **%s**: %s", value(m.Label), value(m.Value))
	if len(parts) > 0 {
		line += " (" + strings.Join(parts, " - ") + ")"
	}
	if present(m.Notes) {
		line += "\n  > *Note: " + strings.TrimSpace(m.Notes) + "*"
	}
	return line
}

func writeDeckTeam(b *strings.Builder, team []model.TeamMember) {
	if len(team) == 0 {
		return
	}
	b.WriteString("---\n\n## 👔 Team\n\n")
	for _, m := range team {
		name := m.Name
		if !present(name) {
			name = "Unnamed"
		}
		line := "- " + strings.TrimSpace(name)
		if present(m.Role) {
			line += " - **" + strings.TrimSpace(m.Role) + "**"
		}
		b.WriteString(line + "\n")
		if present(m.Background) {
			fmt.Fprintf(b, "  - %s\n", strings.TrimSpace(m.Background))
		}
	}
	b.WriteString("\n")
}

func writeAdvantages(b *strings.Builder, advs []model.Advantage) {
	if len(advs) == 0 {
		return
	}
	b.WriteString("---\n\n## 🛡️ Competitive Advantages & IP\n\n")

	var order []string
	groups := make(map[string][]model.Advantage)
	for _, a := range advs {
		cat := titleCase(a.Category)
		if cat == "" {
			cat = "Other"
		}
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], a)
	}
	for _, cat := range order {
		fmt.Fprintf(b, "### %s\n\n", cat)
		for _, a := range groups[cat] {
			line := "- **" + value(a.Description) + "**"
			if present(a.Status) {
				line += " (*" + strings.TrimSpace(a.Status) + "*)"
			}
			if conf := model.NormalizeConfidence(a.Confidence, model.ConfidenceMedium); conf != model.ConfidenceHigh {
				line += " - *confidence: " + string(conf) + "*"
			}
			b.WriteString(line + "\n")
			if present(a.Details) {
				fmt.Fprintf(b, "  - Details: %s\n", strings.TrimSpace(a.Details))
			}
		}
		b.WriteString("\n")
	}
}

func writeAwards(b *strings.Builder, awards []model.Award) {
	if len(awards) == 0 {
		return
	}
	b.WriteString("---\n\n## 🏆 Awards, Grants & Recognition\n\n")

	var nonDilutive, other []model.Award
	for _, a := range awards {
		if a.IsNonDilutive != nil && *a.IsNonDilutive {
			nonDilutive = append(nonDilutive, a)
		} else {
			other = append(other, a)
		}
	}
	writeAwardGroup(b, "💰 Non-Dilutive Funding", nonDilutive)
	writeAwardGroup(b, "🎖️ Awards & Recognition", other)
}

func writeAwardGroup(b *strings.Builder, title string, awards []model.Award) {
	if len(awards) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, a := range awards {
		line := "- **" + value(a.Name) + "**"
		if present(a.Amount) {
			line += " - **" + strings.TrimSpace(a.Amount) + "**"
		}
		if present(a.Year) {
			line += " (" + strings.TrimSpace(a.Year) + ")"
		}
		b.WriteString(line + "\n")
		if present(a.Organization) {
			fmt.Fprintf(b, "  - From: %s\n", strings.TrimSpace(a.Organization))
		}
	}
	b.WriteString("\n")
}

func writeFunding(b *strings.Builder, rounds []model.FundingRound) {
	if len(rounds) == 0 {
		return
	}
	b.WriteString("---\n\n## 💵 Detailed Funding Breakdown\n\n")

	var equity, nonDilutive []model.FundingRound
	for _, r := range rounds {
		if r.IsNonDilutive {
			nonDilutive = append(nonDilutive, r)
		} else {
			equity = append(equity, r)
		}
	}
	writeFundingGroup(b, "Equity Funding", "Investors", equity, true)
	writeFundingGroup(b, "Non-Dilutive Funding", "Source", nonDilutive, false)
}

func writeFundingGroup(b *strings.Builder, title, investorsLabel string, rounds []model.FundingRound, withValuation bool) {
	if len(rounds) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n\n", title)
	for _, r := range rounds {
		kind := titleCase(r.Type)
		if kind == "" {
			kind = "Round"
		}
		line := fmt.Sprintf("- **%s**: %s", kind, value(r.Amount))
		if present(r.Date) {
			line += " (" + strings.TrimSpace(r.Date) + ")"
		}
		b.WriteString(line + "\n")
		if len(r.Investors) > 0 {
			fmt.Fprintf(b, "  - %s: %s\n", investorsLabel, strings.Join(r.Investors, ", "))
		}
		if withValuation && present(r.Valuation) {
			fmt.Fprintf(b, "  - Valuation: %s\n", strings.TrimSpace(r.Valuation))
		}
		if present(r.Notes) {
			fmt.Fprintf(b, "  - Notes: %s\n", strings.TrimSpace(r.Notes))
		}
	}
	b.WriteString("\n")
}

func writeProjections(b *strings.Builder, projections []model.Projection) {
	if len(projections) == 0 {
		return
	}
	b.WriteString("---\n\n## 📊 Projection Analysis (Critical Assessment)\n\n")
	for _, p := range projections {
		fmt.Fprintf(b, "### %s\n\n", value(p.MetricName))
		if present(p.CurrentValue) {
			fmt.Fprintf(b, "**Current:** %s  \n", strings.TrimSpace(p.CurrentValue))
		}
		fmt.Fprintf(b, "**Projected:** %s  \n", value(p.ProjectedValue))
		if present(p.Timeframe) {
			fmt.Fprintf(b, "**Timeframe:** %s  \n", strings.TrimSpace(p.Timeframe))
		}
		b.WriteString("\n")
		if len(p.AssumptionsStated) > 0 {
			b.WriteString("**Stated Assumptions:**\n\n")
			bullets(b, p.AssumptionsStated, "")
			b.WriteString("\n")
		}
		if len(p.SupportingEvidence) > 0 {
			b.WriteString("**Supporting Evidence:**\n\n")
			bullets(b, p.SupportingEvidence, "")
			b.WriteString("\n")
		}
		if present(p.RealismAssessment) {
			fmt.Fprintf(b, "**Realism Assessment:** %s\n\n", strings.TrimSpace(p.RealismAssessment))
		}
		if len(p.Flags) > 0 {
			b.WriteString("**⚠️ Flags/Concerns:**\n\n")
			bullets(b, p.Flags, "")
			b.WriteString("\n")
		}
	}
}

func writeMarked(b *strings.Builder, marker string, items []string) {
	n := 0
	for _, it := range items {
		if present(it) {
			fmt.Fprintf(b, "- %s %s\n", marker, strings.TrimSpace(it))
			n++
		}
	}
	if n == 0 {
		b.WriteString("- Nothing listed\n")
	}
}
