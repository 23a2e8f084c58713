package render

import (
	"fmt"
	"strings"

	"github.com/pitchpanda/pitchpanda/internal/model"
)

// oneLinerNoteChars bounds the note in a copy-paste competitor line.
const oneLinerNoteChars = 180

// Web renders a web analysis for startup.
func Web(startup model.StartupRecord, w *model.WebAnalysis) string {
	if w == nil {
		w = &model.WebAnalysis{}
	}
	var b strings.Builder

	website := startup.URL
	if !present(website) && len(w.Sources) > 0 {
		website = w.Sources[0]
	}
	fmt.Fprintf(&b, "# %s\n\n", value(startup.Name))
	fmt.Fprintf(&b, "**Website:** %s\n\n", value(website))

	b.WriteString("## 📝 Summary\n\n")
	fmt.Fprintf(&b, "%s\n\n", value(w.CompanySummary))
	b.WriteString("---\n\n")

	b.WriteString("## Problem\n\n")
	fmt.Fprintf(&b, "**General:** %s\n\n", value(w.Problem.General))
	fmt.Fprintf(&b, "**Example:** %s\n\n", value(w.Problem.Example))

	b.WriteString("## Solution\n\n")
	fmt.Fprintf(&b, "**What it is:** %s\n\n", value(w.Solution.WhatItIs))
	fmt.Fprintf(&b, "**How it works:** %s\n\n", value(w.Solution.HowItWorks))
	fmt.Fprintf(&b, "**Example:** %s\n\n", value(w.Solution.Example))

	b.WriteString("## Product Type\n\n")
	fmt.Fprintf(&b, "%s\n\n", value(w.ProductType))

	b.WriteString("## Sector\n\n")
	fmt.Fprintf(&b, "**Sector:** %s  \n", value(w.Sector))
	fmt.Fprintf(&b, "**Subsector:** %s\n\n", value(w.Subsector))

	b.WriteString("## Active Locations\n\n")
	bullets(&b, w.ActiveLocations, "None specified")
	b.WriteString("\n")

	if !w.MarketSize.Empty() {
		writeMarketSize(&b, w.MarketSize)
	}

	b.WriteString("## Competition (Structured)\n\n")
	if len(w.Competition) == 0 {
		b.WriteString("No competitors found.\n\n")
	}
	for _, c := range w.Competition {
		writeCompetitor(&b, c)
	}

	b.WriteString("## Competition (Copy-paste one-liners)\n\n")
	if len(w.Competition) == 0 {
		b.WriteString("(no competitors found)\n\n")
	} else {
		b.WriteString("```\n")
		for _, c := range w.Competition {
			b.WriteString(OneLiner(w.ProductType, c))
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
	}

	if len(w.DataQualityNotes) > 0 {
		b.WriteString("## Data Quality Notes\n\n")
		bullets(&b, w.DataQualityNotes, "")
		b.WriteString("\n")
	}

	b.WriteString("## Sources\n\n")
	bullets(&b, w.Sources, NotSpecified)
	return b.String()
}

func writeMarketSize(b *strings.Builder, ms *model.MarketSize) {
	b.WriteString("## 📊 Market Size Estimate\n\n")
	estimates := []struct {
		title string
		est   *model.MarketEstimate
	}{
		{"Total Addressable Market (TAM)", ms.TAM},
		{"Serviceable Addressable Market (SAM)", ms.SAM},
		{"Serviceable Obtainable Market (SOM)", ms.SOM},
	}
	for _, e := range estimates {
		if e.est == nil {
			continue
		}
		fmt.Fprintf(b, "### %s\n\n", e.title)
		fmt.Fprintf(b, "**Value:** %s\n\n", value(e.est.Value))
		if present(e.est.Formula) {
			fmt.Fprintf(b, "**Formula:**\n\n```\n%s\n```\n\n", strings.TrimSpace(e.est.Formula))
		}
		if len(e.est.Assumptions) > 0 {
			b.WriteString("**Assumptions:**\n\n")
			bullets(b, e.est.Assumptions, NotSpecified)
			b.WriteString("\n")
		}
		if present(e.est.Unit) {
			fmt.Fprintf(b, "**Unit:** %s\n\n", strings.TrimSpace(e.est.Unit))
		}
	}
	if present(ms.CalculationNote) {
		fmt.Fprintf(b, "**Calculation Note:** %s\n\n", strings.TrimSpace(ms.CalculationNote))
	}
}

func writeCompetitor(b *strings.Builder, c model.Competitor) {
	fmt.Fprintf(b, "### %s\n\n", value(c.Name))
	if present(c.Website) {
		fmt.Fprintf(b, "**Website:** %s  \n", strings.TrimSpace(c.Website))
	}
	fmt.Fprintf(b, "**Product type:** %s  \n", value(c.ProductType))
	fmt.Fprintf(b, "**Sector/Subsector:** %s / %s  \n", value(c.Sector), value(c.Subsector))
	conf := model.NormalizeConfidence(c.Confidence, model.ConfidenceMedium)
	fmt.Fprintf(b, "**Confidence:** %s %s\n\n", confidenceEmoji(conf), titleCase(string(conf)))
	if present(c.WhyIncluded) {
		fmt.Fprintf(b, "**Why included:** %s\n\n", strings.TrimSpace(c.WhyIncluded))
	}
	fmt.Fprintf(b, "**Problem similarity:** %s\n\n", value(c.ProblemSimilarity))
	fmt.Fprintf(b, "**Solution summary:** %s\n\n", value(c.SolutionSummary))

	b.WriteString("**Similarities**\n\n")
	bullets(b, c.Similarities, NotSpecified)
	b.WriteString("\n**Differences**\n\n")
	bullets(b, c.Differences, NotSpecified)
	b.WriteString("\n**Active Locations**\n\n")
	bullets(b, c.ActiveLocations, "None specified")
	b.WriteString("\n**Sources**\n\n")
	bullets(b, c.Sources, NotSpecified)
	b.WriteString("\n")
}

// OneLiner summarizes a competitor on a single line for pasting into notes.
func OneLiner(targetProductType string, c model.Competitor) string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = "Unknown"
	}

	target := strings.ToLower(strings.TrimSpace(targetProductType))
	theirs := strings.TrimSpace(c.ProductType)
	var productTag string
	switch {
	case theirs != "" && target != "" && strings.ToLower(theirs) == target:
		productTag = "same product type"
	case present(theirs):
		productTag = "different product type (" + theirs + ")"
	default:
		productTag = "solution unspecified"
	}

	var note string
	switch {
	case len(c.Differences) > 0 && present(c.Differences[0]):
		note = c.Differences[0]
	case len(c.Similarities) > 0 && present(c.Similarities[0]):
		note = c.Similarities[0]
	default:
		note = c.SolutionSummary
	}

	geo := "n/a"
	if locs := model.CleanList(c.ActiveLocations); len(locs) > 0 {
		geo = strings.Join(locs, ", ")
	}
	return fmt.Sprintf("%s: same problem; %s; %s; geo: %s", name, productTag, truncate(note, oneLinerNoteChars), geo)
}
