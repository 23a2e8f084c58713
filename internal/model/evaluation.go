package model

import (
	"math"
)

// Score bounds for every criterion.
const (
	MinScore = 1
	MaxScore = 5
)

// Criterion is one scored dimension of an investment evaluation.
type Criterion struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

// CompetitorGroup clusters competitors by positioning.
type CompetitorGroup struct {
	GroupName       string   `json:"group_name"`
	Competitors     []string `json:"competitors"`
	Characteristics string   `json:"characteristics"`
}

// CompanyEvaluation scores a company on six criteria.
type CompanyEvaluation struct {
	CompanyName          string            `json:"company_name"`
	Team                 Criterion         `json:"team"`
	Technology           Criterion         `json:"technology"`
	Market               Criterion         `json:"market"`
	ValueProposition     Criterion         `json:"value_proposition"`
	CompetitiveAdvantage Criterion         `json:"competitive_advantage"`
	SocialImpact         Criterion         `json:"social_impact"`
	OverallScore         float64           `json:"overall_score"`
	CompetitorGroups     []CompetitorGroup `json:"competitor_groups"`
	Comments             string            `json:"comments"`
	DataQualityNotes     []string          `json:"data_quality_notes,omitempty"`
	ParseFailed          bool              `json:"parse_failed,omitempty"`
}

// CriterionLabels names the six criteria in display order.
var CriterionLabels = []string{
	"Team",
	"Technology",
	"Market",
	"Value Proposition",
	"Competitive Advantage",
	"Social Impact",
}

// Criteria returns pointers to the six criteria in display order.
func (e *CompanyEvaluation) Criteria() []*Criterion {
	return []*Criterion{
		&e.Team, &e.Technology, &e.Market,
		&e.ValueProposition, &e.CompetitiveAdvantage, &e.SocialImpact,
	}
}

// MeanScore returns the arithmetic mean of the six scores rounded to one
// decimal place.
func (e *CompanyEvaluation) MeanScore() float64 {
	sum := 0
	for _, c := range e.Criteria() {
		sum += c.Score
	}
	return math.Round(float64(sum)/6*10) / 10
}
