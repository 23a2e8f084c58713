package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Source identifies which upstream analysis supplied a fact.
type Source string

const (
	SourceDeck Source = "pitch deck"
	SourceWeb  Source = "web analysis"
	SourceBoth Source = "both"
)

// ParseSource maps loose spellings onto a known source. The second return
// is false when the value is not recognized.
func ParseSource(v string) (Source, bool) {
	s := strings.ToLower(strings.TrimSpace(v))
	switch {
	case s == string(SourceBoth) || strings.Contains(s, "&") || strings.Contains(s, " and "):
		return SourceBoth, true
	case strings.Contains(s, "deck"):
		return SourceDeck, true
	case strings.Contains(s, "web") || strings.Contains(s, "site"):
		return SourceWeb, true
	default:
		return "", false
	}
}

// SourcedInfo is a fact tagged with its origin.
type SourcedInfo struct {
	Content string `json:"content"`
	Source  Source `json:"source"`
}

// Present reports whether the fact carries content.
func (s *SourcedInfo) Present() bool {
	return s != nil && strings.TrimSpace(s.Content) != ""
}

// ConflictingInfo records both sides when the sources disagree.
type ConflictingInfo struct {
	PitchDeckInfo string `json:"pitch_deck_info,omitempty"`
	WebInfo       string `json:"web_info,omitempty"`
	Note          string `json:"note,omitempty"`
}

// Present reports whether either side carries content.
func (c *ConflictingInfo) Present() bool {
	return c != nil && (strings.TrimSpace(c.PitchDeckInfo) != "" || strings.TrimSpace(c.WebInfo) != "")
}

// MarketFact fills a slot where the sources may disagree on a figure, such
// as TAM or revenue. It holds a sourced fact, or a conflict when both
// sources supplied differing values. At most one of the two is set.
type MarketFact struct {
	Sourced  *SourcedInfo
	Conflict *ConflictingInfo
}

// SourcedFact returns an undisputed fact.
func SourcedFact(content string, src Source) *MarketFact {
	return &MarketFact{Sourced: &SourcedInfo{Content: content, Source: src}}
}

// Present reports whether either shape carries content.
func (f *MarketFact) Present() bool {
	return f != nil && (f.Sourced.Present() || f.Conflict.Present())
}

// Disputed reports whether the fact holds a conflict.
func (f *MarketFact) Disputed() bool {
	return f != nil && f.Conflict != nil
}

// MarshalJSON writes whichever shape is set.
func (f MarketFact) MarshalJSON() ([]byte, error) {
	switch {
	case f.Conflict != nil:
		return json.Marshal(f.Conflict)
	case f.Sourced != nil:
		return json.Marshal(f.Sourced)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a conflict object, a sourced fact or a bare value.
// An object with pitch_deck_info or web_info is a conflict.
func (f *MarketFact) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return eris.Wrap(err, "model: decode market fact")
	}

	*f = MarketFact{}
	switch v := raw.(type) {
	case nil:
	case string, json.Number:
		f.Sourced = &SourcedInfo{Content: factText(v)}
	case map[string]any:
		_, deck := v["pitch_deck_info"]
		_, web := v["web_info"]
		if deck || web {
			f.Conflict = &ConflictingInfo{
				PitchDeckInfo: factText(v["pitch_deck_info"]),
				WebInfo:       factText(v["web_info"]),
				Note:          factText(v["note"]),
			}
			return nil
		}
		f.Sourced = &SourcedInfo{Content: factText(v["content"]), Source: Source(factText(v["source"]))}
	default:
		return eris.Errorf("model: market fact cannot be a %T", raw)
	}
	return nil
}

// factText renders a scalar JSON value as text. Lists are joined with "; ".
func factText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, el := range t {
			if s := strings.TrimSpace(factText(el)); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// CompanyOverview is the merged identity of the company.
type CompanyOverview struct {
	Name        string       `json:"name"`
	Website     string       `json:"website,omitempty"`
	Tagline     *SourcedInfo `json:"tagline,omitempty"`
	Description *SourcedInfo `json:"description,omitempty"`
	Sector      *SourcedInfo `json:"sector,omitempty"`
	Locations   *SourcedInfo `json:"locations,omitempty"`
}

// ProblemSolution keeps web and deck framings side by side.
type ProblemSolution struct {
	ProblemWeb         *SourcedInfo `json:"problem_web,omitempty"`
	ProblemExampleWeb  *SourcedInfo `json:"problem_example_web,omitempty"`
	ProblemDeck        *SourcedInfo `json:"problem_deck,omitempty"`
	SolutionWeb        *SourcedInfo `json:"solution_web,omitempty"`
	SolutionExampleWeb *SourcedInfo `json:"solution_example_web,omitempty"`
	SolutionDeck       *SourcedInfo `json:"solution_deck,omitempty"`
	ValueProposition   *SourcedInfo `json:"value_proposition,omitempty"`
	ProductType        *SourcedInfo `json:"product_type,omitempty"`
	HowItWorks         *SourcedInfo `json:"how_it_works,omitempty"`
}

// MarketInfo holds market sizing.
type MarketInfo struct {
	TargetMarket   *SourcedInfo  `json:"target_market,omitempty"`
	TAM            *MarketFact   `json:"tam,omitempty"`
	SAM            *MarketFact   `json:"sam,omitempty"`
	SOM            *MarketFact   `json:"som,omitempty"`
	MarketInsights []SourcedInfo `json:"market_insights"`
}

// BusinessModel is the merged view of how the company makes money.
type BusinessModel struct {
	Overview            *SourcedInfo `json:"overview,omitempty"`
	RevenueModel        *SourcedInfo `json:"revenue_model,omitempty"`
	Pricing             *SourcedInfo `json:"pricing,omitempty"`
	CustomerAcquisition *SourcedInfo `json:"customer_acquisition,omitempty"`
	Partnerships        *SourcedInfo `json:"partnerships,omitempty"`
	Distribution        *SourcedInfo `json:"distribution,omitempty"`
}

// MergedTeamMember is a person with provenance.
type MergedTeamMember struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Background string `json:"background,omitempty"`
	Source     Source `json:"source"`
}

// FinancialData holds funding, revenue and traction.
type FinancialData struct {
	FundingRaised   []SourcedInfo `json:"funding_raised"`
	FundingSeeking  *SourcedInfo  `json:"funding_seeking,omitempty"`
	Revenue         *MarketFact   `json:"revenue,omitempty"`
	TractionMetrics []SourcedInfo `json:"traction_metrics"`
	Projections     []SourcedInfo `json:"projections"`
}

// MergedCompetitor is a competitor with provenance.
type MergedCompetitor struct {
	Name         string `json:"name"`
	Website      string `json:"website,omitempty"`
	Similarities string `json:"similarities,omitempty"`
	Differences  string `json:"differences,omitempty"`
	Source       Source `json:"source"`
}

// MergedAdvantage is a competitive advantage with provenance.
type MergedAdvantage struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	Source      Source `json:"source"`
}

// MergedAnalysis reconciles web and deck analyses into one company view.
type MergedAnalysis struct {
	CompanyOverview       CompanyOverview    `json:"company_overview"`
	ProblemSolution       ProblemSolution    `json:"problem_solution"`
	Market                MarketInfo         `json:"market"`
	BusinessModel         BusinessModel      `json:"business_model"`
	Team                  []MergedTeamMember `json:"team"`
	Financials            FinancialData      `json:"financials"`
	Competitors           []MergedCompetitor `json:"competitors"`
	CompetitiveAdvantages []MergedAdvantage  `json:"competitive_advantages"`
	Technology            *SourcedInfo       `json:"technology,omitempty"`
	GoToMarket            *SourcedInfo       `json:"go_to_market,omitempty"`
	AwardsRecognition     []SourcedInfo      `json:"awards_recognition"`
	CustomerEvidence      []SourcedInfo      `json:"customer_evidence"`
	AdditionalInsights    []SourcedInfo      `json:"additional_insights"`
	DeckCompletenessNotes string             `json:"deck_completeness_notes,omitempty"`
	DataQualityNotes      []string           `json:"data_quality_notes,omitempty"`
	ParseFailed           bool               `json:"parse_failed,omitempty"`
}

// Normalize fills nil lists and drops empty list entries.
func (m *MergedAnalysis) Normalize() {
	m.Market.MarketInsights = cleanSourced(m.Market.MarketInsights)
	m.Financials.FundingRaised = cleanSourced(m.Financials.FundingRaised)
	m.Financials.TractionMetrics = cleanSourced(m.Financials.TractionMetrics)
	m.Financials.Projections = cleanSourced(m.Financials.Projections)
	m.AwardsRecognition = cleanSourced(m.AwardsRecognition)
	m.CustomerEvidence = cleanSourced(m.CustomerEvidence)
	m.AdditionalInsights = cleanSourced(m.AdditionalInsights)
	if m.Team == nil {
		m.Team = []MergedTeamMember{}
	}
	if m.Competitors == nil {
		m.Competitors = []MergedCompetitor{}
	}
	if m.CompetitiveAdvantages == nil {
		m.CompetitiveAdvantages = []MergedAdvantage{}
	}
	m.DataQualityNotes = CleanList(m.DataQualityNotes)
}

// SourcedFields returns pointers to every single-valued SourcedInfo slot so
// callers can rewrite provenance uniformly.
func (m *MergedAnalysis) SourcedFields() []**SourcedInfo {
	return []**SourcedInfo{
		&m.CompanyOverview.Tagline, &m.CompanyOverview.Description,
		&m.CompanyOverview.Sector, &m.CompanyOverview.Locations,
		&m.ProblemSolution.ProblemWeb, &m.ProblemSolution.ProblemExampleWeb,
		&m.ProblemSolution.ProblemDeck, &m.ProblemSolution.SolutionWeb,
		&m.ProblemSolution.SolutionExampleWeb, &m.ProblemSolution.SolutionDeck,
		&m.ProblemSolution.ValueProposition, &m.ProblemSolution.ProductType,
		&m.ProblemSolution.HowItWorks,
		&m.Market.TargetMarket,
		&m.BusinessModel.Overview, &m.BusinessModel.RevenueModel,
		&m.BusinessModel.Pricing, &m.BusinessModel.CustomerAcquisition,
		&m.BusinessModel.Partnerships, &m.BusinessModel.Distribution,
		&m.Financials.FundingSeeking,
		&m.Technology, &m.GoToMarket,
	}
}

// SourcedLists returns every list of SourcedInfo.
func (m *MergedAnalysis) SourcedLists() [][]SourcedInfo {
	return [][]SourcedInfo{
		m.Market.MarketInsights,
		m.Financials.FundingRaised, m.Financials.TractionMetrics, m.Financials.Projections,
		m.AwardsRecognition, m.CustomerEvidence, m.AdditionalInsights,
	}
}

// MarketFacts returns pointers to every slot the sources may dispute.
func (m *MergedAnalysis) MarketFacts() []**MarketFact {
	return []**MarketFact{&m.Market.TAM, &m.Market.SAM, &m.Market.SOM, &m.Financials.Revenue}
}

func cleanSourced(in []SourcedInfo) []SourcedInfo {
	out := make([]SourcedInfo, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s.Content) == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
