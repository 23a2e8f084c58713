package render

import (
	"fmt"
	"strings"

	"github.com/pitchpanda/pitchpanda/internal/model"
)

// InformationNotFound renders a sourced fact neither analysis supplied.
const InformationNotFound = "*Information not found*"

// SourceTag renders a provenance tag.
func SourceTag(s model.Source) string {
	switch s {
	case model.SourceDeck:
		return "*(pitch deck)*"
	case model.SourceWeb:
		return "*(web analysis)*"
	case model.SourceBoth:
		return "*(pitch deck & web analysis)*"
	}
	if parsed, ok := model.ParseSource(string(s)); ok {
		return SourceTag(parsed)
	}
	if present(string(s)) {
		return "*(" + strings.TrimSpace(string(s)) + ")*"
	}
	return ""
}

func sourced(info *model.SourcedInfo) string {
	if !info.Present() || !present(info.Content) {
		return InformationNotFound
	}
	if tag := SourceTag(info.Source); tag != "" {
		return strings.TrimSpace(info.Content) + " " + tag
	}
	return strings.TrimSpace(info.Content)
}

// Merged renders a merged company analysis.
func Merged(m *model.MergedAnalysis) string {
	if m == nil {
		m = &model.MergedAnalysis{}
	}
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", value(m.CompanyOverview.Name))
	b.WriteString("*Company overview merged from pitch deck and web analysis*\n\n")
	if m.ParseFailed {
		b.WriteString("> ⚠️ The merge reply could not be parsed. The raw reply is kept under Additional Insights.\n\n")
	}
	b.WriteString("---\n\n")

	b.WriteString("## 📋 Company Overview\n\n")
	fmt.Fprintf(&b, "**Website:** %s\n\n", value(m.CompanyOverview.Website))
	writeSourcedLabels(&b, []labeledFact{
		{"Tagline", m.CompanyOverview.Tagline},
		{"Description", m.CompanyOverview.Description},
		{"Sector", m.CompanyOverview.Sector},
		{"Active Locations", m.CompanyOverview.Locations},
	})
	b.WriteString("---\n\n")

	ps := m.ProblemSolution
	b.WriteString("## 🎯 Problem & Solution\n\n")
	b.WriteString("### Problem\n\n")
	writeSourcedLabels(&b, []labeledFact{
		{"General (web)", ps.ProblemWeb},
		{"Example (web)", ps.ProblemExampleWeb},
		{"Details (deck)", ps.ProblemDeck},
	})
	b.WriteString("### Solution\n\n")
	writeSourcedLabels(&b, []labeledFact{
		{"Product (web)", ps.SolutionWeb},
		{"Example (web)", ps.SolutionExampleWeb},
		{"Details (deck)", ps.SolutionDeck},
	})
	writeSourcedSections(&b, []labeledFact{
		{"Value Proposition", ps.ValueProposition},
		{"Product Type", ps.ProductType},
		{"How It Works", ps.HowItWorks},
	})
	b.WriteString("---\n\n")

	b.WriteString("## 📊 Market Information\n\n")
	writeSourcedSections(&b, []labeledFact{{"Target Market", m.Market.TargetMarket}})
	writeFact(&b, "Total Addressable Market (TAM)", m.Market.TAM)
	writeFact(&b, "Serviceable Addressable Market (SAM)", m.Market.SAM)
	writeFact(&b, "Serviceable Obtainable Market (SOM)", m.Market.SOM)
	writeSourcedList(&b, "### Market Insights", m.Market.MarketInsights)
	b.WriteString("---\n\n")

	bm := m.BusinessModel
	b.WriteString("## 💼 Business Model\n\n")
	writeSourcedSections(&b, []labeledFact{
		{"Overview", bm.Overview},
		{"Revenue Model", bm.RevenueModel},
		{"Pricing", bm.Pricing},
		{"Customer Acquisition", bm.CustomerAcquisition},
		{"Key Partnerships", bm.Partnerships},
		{"Distribution Strategy", bm.Distribution},
	})
	b.WriteString("---\n\n")

	if len(m.Team) > 0 {
		b.WriteString("## 👥 Team\n\n")
		for _, t := range m.Team {
			fmt.Fprintf(&b, "### %s\n\n", value(t.Name))
			fmt.Fprintf(&b, "**Role:** %s %s\n\n", value(t.Role), SourceTag(t.Source))
			if present(t.Background) {
				fmt.Fprintf(&b, "**Background:** %s\n\n", strings.TrimSpace(t.Background))
			}
		}
		b.WriteString("---\n\n")
	}

	f := m.Financials
	b.WriteString("## 💰 Financial Data & Traction\n\n")
	writeSourcedList(&b, "### Funding Raised", f.FundingRaised)
	writeSourcedSections(&b, []labeledFact{{"Currently Seeking", f.FundingSeeking}})
	writeFact(&b, "Revenue", f.Revenue)
	writeSourcedList(&b, "### Traction & Metrics", f.TractionMetrics)
	writeSourcedList(&b, "### Projections", f.Projections)
	b.WriteString("---\n\n")

	if len(m.Competitors) > 0 {
		b.WriteString("## 🏆 Competitive Landscape\n\n")
		for _, c := range m.Competitors {
			fmt.Fprintf(&b, "### %s\n\n", value(c.Name))
			if present(c.Website) {
				fmt.Fprintf(&b, "**Website:** %s  \n", strings.TrimSpace(c.Website))
			}
			if present(c.Similarities) {
				fmt.Fprintf(&b, "**Similarities:** %s  \n", strings.TrimSpace(c.Similarities))
			}
			if present(c.Differences) {
				fmt.Fprintf(&b, "**Differences:** %s  \n", strings.TrimSpace(c.Differences))
			}
			fmt.Fprintf(&b, "%s\n\n", SourceTag(c.Source))
		}
		b.WriteString("---\n\n")
	}

	if len(m.CompetitiveAdvantages) > 0 {
		b.WriteString("## 🛡️ Competitive Advantages & IP\n\n")
		for _, a := range m.CompetitiveAdvantages {
			fmt.Fprintf(&b, "### %s\n\n", value(titleCase(a.Type)))
			fmt.Fprintf(&b, "%s\n\n", value(a.Description))
			if present(a.Status) {
				fmt.Fprintf(&b, "**Status:** %s\n\n", strings.TrimSpace(a.Status))
			}
			fmt.Fprintf(&b, "%s\n\n", SourceTag(a.Source))
		}
		b.WriteString("---\n\n")
	}

	b.WriteString("## 🔧 Technology\n\n")
	fmt.Fprintf(&b, "%s\n\n", sourced(m.Technology))
	b.WriteString("## 🚀 Go-to-Market Strategy\n\n")
	fmt.Fprintf(&b, "%s\n\n", sourced(m.GoToMarket))

	writeSourcedList(&b, "## 🏅 Awards & Recognition", m.AwardsRecognition)
	writeSourcedList(&b, "## 💬 Customer Evidence & Validation", m.CustomerEvidence)
	writeSourcedList(&b, "## 💡 Additional Insights", m.AdditionalInsights)

	if present(m.DeckCompletenessNotes) || len(m.DataQualityNotes) > 0 {
		b.WriteString("## 📝 Analysis Notes\n\n")
		if present(m.DeckCompletenessNotes) {
			fmt.Fprintf(&b, "### Pitch Deck Completeness\n\n%s\n\n", strings.TrimSpace(m.DeckCompletenessNotes))
		}
		if len(m.DataQualityNotes) > 0 {
			b.WriteString("### Data Quality Notes\n\n")
			bullets(&b, m.DataQualityNotes, "")
			b.WriteString("\n")
		}
	}
	return b.String()
}

type labeledFact struct {
	label string
	info  *model.SourcedInfo
}

func writeSourcedLabels(b *strings.Builder, facts []labeledFact) {
	for _, f := range facts {
		fmt.Fprintf(b, "**%s:** %s\n\n", f.label, sourced(f.info))
	}
}

func writeSourcedSections(b *strings.Builder, facts []labeledFact) {
	for _, f := range facts {
		fmt.Fprintf(b, "### %s\n\n%s\n\n", f.label, sourced(f.info))
	}
}

func writeSourcedList(b *strings.Builder, heading string, items []model.SourcedInfo) {
	var lines []string
	for i := range items {
		if items[i].Present() && present(items[i].Content) {
			lines = append(lines, "- "+sourced(&items[i]))
		}
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(b, "%s\n\n%s\n\n", heading, strings.Join(lines, "\n"))
}

// writeFact renders an undisputed figure inline and a disputed one as both
// sides.
func writeFact(b *strings.Builder, label string, f *model.MarketFact) {
	switch {
	case !f.Present():
		fmt.Fprintf(b, "**%s:**\n\n%s\n\n", label, InformationNotFound)
	case f.Disputed():
		writeConflict(b, label, f.Conflict)
	default:
		fmt.Fprintf(b, "**%s:** %s\n\n", label, sourced(f.Sourced))
	}
}

func writeConflict(b *strings.Builder, label string, c *model.ConflictingInfo) {
	fmt.Fprintf(b, "**%s:**\n\n", label)
	if !c.Present() {
		fmt.Fprintf(b, "%s\n\n", InformationNotFound)
		return
	}
	side := func(s string) string {
		if !present(s) {
			return "*Not found*"
		}
		return strings.TrimSpace(s)
	}
	fmt.Fprintf(b, "- **Pitch Deck**: %s\n", side(c.PitchDeckInfo))
	fmt.Fprintf(b, "- **Web Analysis**: %s\n", side(c.WebInfo))
	if present(c.Note) {
		fmt.Fprintf(b, "- *Note: %s*\n", strings.TrimSpace(c.Note))
	}
	b.WriteString("\n")
}
