package model

import "strings"

// Confidence grades how well a claim is supported.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// NormalizeConfidence maps free-form model output onto a known grade,
// returning def when the value is not recognized.
func NormalizeConfidence(v Confidence, def Confidence) Confidence {
	switch Confidence(strings.ToLower(strings.TrimSpace(string(v)))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceMedium:
		return ConfidenceMedium
	case ConfidenceLow:
		return ConfidenceLow
	default:
		return def
	}
}

// Problem describes the customer problem a startup addresses.
type Problem struct {
	General string `json:"general"`
	Example string `json:"example"`
}

// Solution describes what a startup offers and how it works.
type Solution struct {
	WhatItIs   string `json:"what_it_is"`
	HowItWorks string `json:"how_it_works"`
	Example    string `json:"example"`
}

// MarketEstimate is one TAM/SAM/SOM figure with its derivation.
type MarketEstimate struct {
	Value       string   `json:"value"`
	Formula     string   `json:"formula"`
	Assumptions []string `json:"assumptions"`
	Unit        string   `json:"unit"`
}

// MarketSize holds nested market-size estimates.
type MarketSize struct {
	TAM             *MarketEstimate `json:"tam,omitempty"`
	SAM             *MarketEstimate `json:"sam,omitempty"`
	SOM             *MarketEstimate `json:"som,omitempty"`
	CalculationNote string          `json:"calculation_note,omitempty"`
}

// Empty reports whether no estimate is present.
func (m *MarketSize) Empty() bool {
	return m == nil || (m.TAM == nil && m.SAM == nil && m.SOM == nil && m.CalculationNote == "")
}

// Competitor is one company competing on the same problem.
type Competitor struct {
	Name              string     `json:"name"`
	Website           string     `json:"website,omitempty"`
	ProductType       string     `json:"product_type,omitempty"`
	Sector            string     `json:"sector,omitempty"`
	Subsector         string     `json:"subsector,omitempty"`
	ProblemSimilarity string     `json:"problem_similarity"`
	SolutionSummary   string     `json:"solution_summary"`
	Similarities      []string   `json:"similarities"`
	Differences       []string   `json:"differences"`
	ActiveLocations   []string   `json:"active_locations"`
	Sources           []string   `json:"sources"`
	Confidence        Confidence `json:"confidence"`
	WhyIncluded       string     `json:"why_included,omitempty"`
}

// Normalize trims strings, fills nil lists and grades confidence.
func (c *Competitor) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Similarities = CleanList(c.Similarities)
	c.Differences = CleanList(c.Differences)
	c.ActiveLocations = CleanList(c.ActiveLocations)
	c.Sources = Dedupe(CleanList(c.Sources))
	c.Confidence = NormalizeConfidence(c.Confidence, ConfidenceMedium)
}

// WebAnalysis is the structured analysis of a startup's homepage.
type WebAnalysis struct {
	CompanySummary   string       `json:"company_summary"`
	Problem          Problem      `json:"problem"`
	Solution         Solution     `json:"solution"`
	ProductType      string       `json:"product_type"`
	Sector           string       `json:"sector"`
	Subsector        string       `json:"subsector"`
	ActiveLocations  []string     `json:"active_locations"`
	Sources          []string     `json:"sources"`
	MarketSize       *MarketSize  `json:"market_size,omitempty"`
	Competition      []Competitor `json:"competition"`
	DataQualityNotes []string     `json:"data_quality_notes,omitempty"`
	ParseFailed      bool         `json:"parse_failed,omitempty"`
}

// Normalize enforces list invariants and ensures origin is among the sources.
func (w *WebAnalysis) Normalize(origin string) {
	w.ActiveLocations = CleanList(w.ActiveLocations)
	sources := CleanList(w.Sources)
	if origin != "" {
		sources = append(sources, origin)
	}
	w.Sources = Dedupe(sources)
	if w.Competition == nil {
		w.Competition = []Competitor{}
	}
	for i := range w.Competition {
		w.Competition[i].Normalize()
	}
	if w.MarketSize.Empty() {
		w.MarketSize = nil
	}
	w.DataQualityNotes = CleanList(w.DataQualityNotes)
}

// CleanList trims every element, drops empties and never returns nil.
func CleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Dedupe removes exact duplicates, preserving first-seen order. A trailing
// slash does not make two URLs distinct.
func Dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := strings.TrimSuffix(s, "/")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}
