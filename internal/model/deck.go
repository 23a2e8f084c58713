package model

import "strings"

// DefaultCompetitionNote is attached to competition lists taken from a deck.
const DefaultCompetitionNote = "Competition as presented in deck may be biased"

// Metric is one figure reported in a deck. Values are display strings and
// are never parsed into numbers.
type Metric struct {
	Label        string     `json:"label"`
	Value        string     `json:"value"`
	Context      string     `json:"context,omitempty"`
	IsProjection bool       `json:"is_projection"`
	Confidence   Confidence `json:"confidence"`
	Notes        string     `json:"notes,omitempty"`
}

// BusinessModelDetails breaks down how the startup makes money.
type BusinessModelDetails struct {
	RevenueModel         string   `json:"revenue_model,omitempty"`
	PricingStructure     string   `json:"pricing_structure,omitempty"`
	CustomerAcquisition  string   `json:"customer_acquisition,omitempty"`
	SalesCycle           string   `json:"sales_cycle,omitempty"`
	Partnerships         []string `json:"partnerships"`
	DistributionChannels []string `json:"distribution_channels"`
	ExpansionStrategy    string   `json:"expansion_strategy,omitempty"`
	Notes                []string `json:"notes"`
}

// Empty reports whether no detail is present.
func (b *BusinessModelDetails) Empty() bool {
	return b == nil || (b.RevenueModel == "" && b.PricingStructure == "" &&
		b.CustomerAcquisition == "" && b.SalesCycle == "" && b.ExpansionStrategy == "" &&
		len(b.Partnerships) == 0 && len(b.DistributionChannels) == 0 && len(b.Notes) == 0)
}

// FundingRound is one raise or non-dilutive award described in a deck.
type FundingRound struct {
	Type          string   `json:"type"`
	Amount        string   `json:"amount"`
	Date          string   `json:"date,omitempty"`
	Investors     []string `json:"investors"`
	IsNonDilutive bool     `json:"is_non_dilutive"`
	Valuation     string   `json:"valuation,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// TeamMember is a person named in a deck.
type TeamMember struct {
	Name       string `json:"name,omitempty"`
	Role       string `json:"role,omitempty"`
	Background string `json:"background,omitempty"`
}

// Advantage is a claimed moat such as a patent or exclusive partnership.
type Advantage struct {
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Status      string     `json:"status,omitempty"`
	Details     string     `json:"details,omitempty"`
	Confidence  Confidence `json:"confidence"`
}

// Award is a grant, prize or accelerator placement.
type Award struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	Amount        string `json:"amount,omitempty"`
	Year          string `json:"year,omitempty"`
	Organization  string `json:"organization,omitempty"`
	IsNonDilutive *bool  `json:"is_non_dilutive,omitempty"`
}

// Projection is a forward-looking claim with a realism assessment.
type Projection struct {
	MetricName         string   `json:"metric_name"`
	CurrentValue       string   `json:"current_value,omitempty"`
	ProjectedValue     string   `json:"projected_value"`
	Timeframe          string   `json:"timeframe,omitempty"`
	AssumptionsStated  []string `json:"assumptions_stated"`
	RealismAssessment  string   `json:"realism_assessment,omitempty"`
	SupportingEvidence []string `json:"supporting_evidence"`
	Flags              []string `json:"flags"`
}

// SlideSummary captures the content of one slide.
type SlideSummary struct {
	SlideNumber    int      `json:"slide_number"`
	SlideTitle     string   `json:"slide_title,omitempty"`
	KeyPoints      []string `json:"key_points"`
	VisualElements string   `json:"visual_elements,omitempty"`
}

// DeckAnalysis is the structured analysis of one pitch deck.
type DeckAnalysis struct {
	DeckName              string                `json:"deck_name"`
	TotalSlides           int                   `json:"total_slides"`
	ProblemStatement      string                `json:"problem_statement,omitempty"`
	SolutionOverview      string                `json:"solution_overview,omitempty"`
	ValueProposition      string                `json:"value_proposition,omitempty"`
	TargetMarket          string                `json:"target_market,omitempty"`
	BusinessModel         string                `json:"business_model,omitempty"`
	BusinessModelDetails  *BusinessModelDetails `json:"business_model_details,omitempty"`
	Metrics               map[string][]Metric   `json:"metrics"`
	FundingDetails        []FundingRound        `json:"funding_details"`
	Team                  []TeamMember          `json:"team"`
	CompetitiveAdvantages []Advantage           `json:"competitive_advantages"`
	AwardsAndGrants       []Award               `json:"awards_and_grants"`
	CompetitionMentioned  []string              `json:"competition_mentioned"`
	CompetitionNote       string                `json:"competition_note"`
	ProjectionAnalysis    []Projection          `json:"projection_analysis"`
	Facts                 []string              `json:"facts"`
	Storytelling          []string              `json:"storytelling"`
	Observations          []string              `json:"observations"`
	UnlabeledClaims       []string              `json:"unlabeled_claims"`
	Slides                []SlideSummary        `json:"slides"`
	PresentElements       []string              `json:"present_elements"`
	MissingElements       []string              `json:"missing_elements"`
	DataQualityNotes      string                `json:"data_quality_notes,omitempty"`
	ParseFailed           bool                  `json:"parse_failed,omitempty"`
}

// Normalize fills nil collections and applies defaults.
func (d *DeckAnalysis) Normalize() {
	if d.TotalSlides < 0 {
		d.TotalSlides = 0
	}
	if d.Metrics == nil {
		d.Metrics = map[string][]Metric{}
	}
	for cat, ms := range d.Metrics {
		kept := make([]Metric, 0, len(ms))
		for _, m := range ms {
			if strings.TrimSpace(m.Label) == "" && strings.TrimSpace(m.Value) == "" {
				continue
			}
			m.Confidence = NormalizeConfidence(m.Confidence, ConfidenceHigh)
			kept = append(kept, m)
		}
		d.Metrics[cat] = kept
	}
	if d.BusinessModelDetails != nil {
		d.BusinessModelDetails.Partnerships = CleanList(d.BusinessModelDetails.Partnerships)
		d.BusinessModelDetails.DistributionChannels = CleanList(d.BusinessModelDetails.DistributionChannels)
		d.BusinessModelDetails.Notes = CleanList(d.BusinessModelDetails.Notes)
		if d.BusinessModelDetails.Empty() {
			d.BusinessModelDetails = nil
		}
	}
	if d.FundingDetails == nil {
		d.FundingDetails = []FundingRound{}
	}
	for i := range d.FundingDetails {
		d.FundingDetails[i].Investors = CleanList(d.FundingDetails[i].Investors)
	}
	if d.Team == nil {
		d.Team = []TeamMember{}
	}
	if d.CompetitiveAdvantages == nil {
		d.CompetitiveAdvantages = []Advantage{}
	}
	for i := range d.CompetitiveAdvantages {
		d.CompetitiveAdvantages[i].Confidence = NormalizeConfidence(d.CompetitiveAdvantages[i].Confidence, ConfidenceMedium)
	}
	if d.AwardsAndGrants == nil {
		d.AwardsAndGrants = []Award{}
	}
	if d.ProjectionAnalysis == nil {
		d.ProjectionAnalysis = []Projection{}
	}
	for i := range d.ProjectionAnalysis {
		p := &d.ProjectionAnalysis[i]
		p.AssumptionsStated = CleanList(p.AssumptionsStated)
		p.SupportingEvidence = CleanList(p.SupportingEvidence)
		p.Flags = CleanList(p.Flags)
	}
	if d.Slides == nil {
		d.Slides = []SlideSummary{}
	}
	for i := range d.Slides {
		d.Slides[i].KeyPoints = CleanList(d.Slides[i].KeyPoints)
	}
	if strings.TrimSpace(d.CompetitionNote) == "" {
		d.CompetitionNote = DefaultCompetitionNote
	}
	d.CompetitionMentioned = CleanList(d.CompetitionMentioned)
	d.Facts = CleanList(d.Facts)
	d.Storytelling = CleanList(d.Storytelling)
	d.Observations = CleanList(d.Observations)
	d.UnlabeledClaims = CleanList(d.UnlabeledClaims)
	d.PresentElements = CleanList(d.PresentElements)
	d.MissingElements = CleanList(d.MissingElements)
}

// AddDataQualityNote appends a note to the free-text quality field.
func (d *DeckAnalysis) AddDataQualityNote(note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	if d.DataQualityNotes == "" {
		d.DataQualityNotes = note
		return
	}
	d.DataQualityNotes += "; " + note
}
